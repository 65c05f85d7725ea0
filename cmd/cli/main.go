package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shift-roster/cmd/cli/commands"
)

func main() {
	var (
		env        string
		configPath string
		verbose    bool
	)
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "roster",
		Short: "Shift roster - assign employees to shifts fairly",
		Long: `A CLI tool that staffs shifts from an availability table, balancing
assigned hours across employees and recording every run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init(context.Background(), env, configPath, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects roster_config.<env>.yaml and the OAuth token)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (skips the config search)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.ScheduleCmd(app))
	rootCmd.AddCommand(commands.DefineRosterCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.ViewRunCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd())

	if err := rootCmd.Execute(); err != nil {
		app.Close()
		os.Exit(1)
	}
}
