package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shift-roster/pkg/core/services"
	"github.com/jakechorley/shift-roster/pkg/db"
	"github.com/jakechorley/shift-roster/pkg/export"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "listRuns",
		Short: "List stored scheduling runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := app.RequireDatabase()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, database, app.Logger)
			if err != nil {
				return err
			}

			if limit > 0 && len(runs) > limit {
				runs = runs[:limit]
			}

			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many runs (0 for all)")

	return cmd
}

// ViewRunCmd creates the viewRun command
func ViewRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewRun [run_id]",
		Short: "Show the assignments of a stored run (defaults to latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}

			database, err := app.RequireDatabase()
			if err != nil {
				return err
			}

			detail, err := services.ViewRun(app.Ctx, database, app.Logger, runID)
			if err != nil {
				return err
			}

			printRunDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tSEED\tSHIFTS\tASSIGNMENTS\tUNDERSTAFFED\tOK")
	for _, r := range runs {
		ok := "yes"
		if !r.Success {
			ok = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.Created, r.Seed, r.ShiftCount, r.AssignmentCount, r.UnderstaffedCount, ok)
	}
	tw.Flush()
}

func printRunDetail(w io.Writer, detail *services.RunDetail) {
	run := detail.Run
	fmt.Fprintf(w, "\nRun %s (created %s, seed %s)\n\n", run.ID, run.Created, run.Seed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tTYPE\tSTART\tEND\tEMPLOYEE\tHOURS")
	for _, r := range detail.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date, r.Weekday, r.ShiftType, r.StartTime, r.EndTime, r.EmployeeName, export.FormatHours(r.Hours))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nHours per employee:\n")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, h := range detail.Hours {
		fmt.Fprintf(tw, "  %s\t%s\t(%d shifts)\n", h.Name, export.FormatHours(h.Hours), h.Shifts)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
