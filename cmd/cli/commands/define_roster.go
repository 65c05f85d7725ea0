package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shift-roster/pkg/core/services"
	"github.com/jakechorley/shift-roster/pkg/export"
)

const (
	defaultRosterDays = 28
	defaultShiftsFile = "shifts.tsv"
)

// DefineRosterCmd creates the defineRoster command
func DefineRosterCmd(app *AppContext) *cobra.Command {
	var (
		from, until string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "defineRoster",
		Short: "Generate a shifts table from the configured shift templates",
		Long: `Expands every shiftTemplates entry in config between --from and --until (inclusive)
and writes the result as a shifts table usable as the schedule command's input.
Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(app.Cfg.ShiftTemplates) == 0 {
				return fmt.Errorf("no shiftTemplates defined in config")
			}

			start, end, err := rosterWindow(from, until, time.Now())
			if err != nil {
				return err
			}

			table, err := services.DefineRoster(app.Cfg.ShiftTemplates, start, end, app.Logger)
			if err != nil {
				return err
			}

			if outPath == "-" {
				return export.WriteTable(cmd.OutOrStdout(), table)
			}

			path := firstNonEmpty(outPath, filepath.Join(outputDir("", app.Cfg.Output), defaultShiftsFile))
			if err := writeTableFile(path, func(w io.Writer) error { return export.WriteTable(w, table) }); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Defined %d shifts from %s to %s\n  %s\n\n",
				len(table.Rows), start.Format("2006-01-02"), end.Format("2006-01-02"), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&until, "until", "", fmt.Sprintf("Last date (YYYY-MM-DD, default %d days after --from)", defaultRosterDays-1))
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default <output.directory>/"+defaultShiftsFile+")")

	return cmd
}

// rosterWindow parses the --from/--until flags. Blank values default to
// today and four weeks on.
func rosterWindow(from, until string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from must be YYYY-MM-DD: %w", err)
		}
		start = parsed
	}

	end := start.AddDate(0, 0, defaultRosterDays-1)
	if until != "" {
		parsed, err := time.Parse("2006-01-02", until)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--until must be YYYY-MM-DD: %w", err)
		}
		end = parsed
	}

	return start, end, nil
}

func writeTableFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
