package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/clients/tableclient"
	"github.com/jakechorley/shift-roster/pkg/core/allocator"
	"github.com/jakechorley/shift-roster/pkg/core/services"
	"github.com/jakechorley/shift-roster/pkg/db"
	"github.com/jakechorley/shift-roster/pkg/export"
)

// sourceFlags are the input overrides accepted by the schedule command
type sourceFlags struct {
	shifts       string
	availability string
}

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	var (
		opts    services.ScheduleOptions
		sources sourceFlags
		outDir  string
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign employees to every shift and write the schedule",
		Long: `Reads the shifts and availability tables, staffs every shift in date order and
writes final_schedule.tsv, assignments.json and schedule.xlsx to the output directory.

Understaffed shifts and unknown shift types are reported but do not fail the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			policy, err := app.Cfg.Policy()
			if err != nil {
				return err
			}

			source, err := tableSource(app, app.Cfg.Source, sources)
			if err != nil {
				return err
			}

			if opts.Seed == "" {
				opts.Seed = app.Cfg.Seed
			}

			var store db.RunStore
			if !opts.DryRun {
				database, err := app.Database()
				if err != nil {
					return err
				}
				if database != nil {
					store = database
				}
			}

			result, runErr := services.ScheduleRoster(app.Ctx, source, store, app.Metrics, policy, app.Logger, opts)
			if result == nil {
				return runErr
			}

			// Files are written even when the store rejected the run
			dir := outputDir(outDir, app.Cfg.Output)
			files, err := export.WriteFiles(dir, result.Records, result.Ledger)
			if err != nil {
				return errors.Join(runErr, err)
			}

			printScheduleSummary(out, result, files)

			if publish {
				if err := publishSchedule(app, app.Cfg.Output, result); err != nil {
					return errors.Join(runErr, err)
				}
				fmt.Fprintf(out, "Published to spreadsheet %s, tab %s\n", app.Cfg.Output.PublishSheetID, app.Cfg.Output.PublishTab)
			}

			return runErr
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "Seed for tie-breaking (overrides config and ROSTER_SEED)")
	cmd.Flags().BoolVar(&opts.Stable, "stable", false, "Keep tied employees in roster order instead of shuffling")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Run without saving to the database")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (overrides config)")
	cmd.Flags().StringVar(&sources.shifts, "shifts", "", "Shifts table path or URL (overrides config)")
	cmd.Flags().StringVar(&sources.availability, "availability", "", "Availability table path or URL (overrides config)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the schedule to the configured spreadsheet tab")

	return cmd
}

// tableSource picks where the input tables come from. Flags win over file
// locations in config, which win over a configured spreadsheet.
func tableSource(app *AppContext, cfg config.SourceConfig, flags sourceFlags) (services.TableSource, error) {
	shifts := firstNonEmpty(flags.shifts, cfg.Shifts)
	availability := firstNonEmpty(flags.availability, cfg.Availability)

	if shifts != "" || availability != "" {
		if shifts == "" || availability == "" {
			return nil, fmt.Errorf("both a shifts and an availability location are required")
		}
		return &services.FileTableSource{
			Reader:       tableclient.NewClient(nil),
			Shifts:       shifts,
			Availability: availability,
		}, nil
	}

	if cfg.UsesSheets() {
		client, err := app.Sheets()
		if err != nil {
			return nil, err
		}
		return &services.SheetsTableSource{
			Reader:          client,
			SpreadsheetID:   cfg.SpreadsheetID,
			ShiftsTab:       cfg.ShiftsTab,
			AvailabilityTab: cfg.AvailabilityTab,
		}, nil
	}

	return nil, fmt.Errorf("no input tables configured: pass --shifts and --availability or set source in config")
}

func publishSchedule(app *AppContext, cfg config.OutputConfig, result *services.ScheduleResult) error {
	if cfg.PublishSheetID == "" {
		return fmt.Errorf("--publish needs output.publishSheetID and output.publishTab in config")
	}

	client, err := app.Sheets()
	if err != nil {
		return err
	}

	app.Logger.Info("Publishing schedule",
		zap.String("spreadsheet_id", cfg.PublishSheetID),
		zap.String("tab", cfg.PublishTab))

	if err := client.PublishSchedule(cfg.PublishSheetID, cfg.PublishTab, result.Records); err != nil {
		return fmt.Errorf("failed to publish schedule: %w", err)
	}
	return nil
}

func outputDir(flag string, cfg config.OutputConfig) string {
	return firstNonEmpty(flag, cfg.Directory, ".")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printScheduleSummary(w io.Writer, result *services.ScheduleResult, files []string) {
	outcome := result.Outcome

	if outcome.Success {
		fmt.Fprintf(w, "\n✓ Schedule complete: every shift met its minimum\n\n")
	} else {
		fmt.Fprintf(w, "\n⚠️  Schedule complete with %d validation errors\n\n", len(outcome.ValidationErrors))
	}

	fmt.Fprintf(w, "Run ID:      %s\n", result.RunID)
	fmt.Fprintf(w, "Seed:        %s\n", result.Seed)
	fmt.Fprintf(w, "Shifts:      %d\n", len(outcome.State.Shifts))
	fmt.Fprintf(w, "Assignments: %d\n", len(result.Records))
	if result.Persisted {
		fmt.Fprintf(w, "Stored:      yes\n")
	}
	fmt.Fprintln(w)

	if len(outcome.ValidationErrors) > 0 {
		printValidationErrors(w, outcome.ValidationErrors)
	}

	fmt.Fprintf(w, "Files written:\n")
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)
}

func printValidationErrors(w io.Writer, errs []allocator.ShiftValidationError) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tCHECK\tDETAIL")
	for _, ve := range errs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ve.ShiftDate, ve.ShiftType, ve.CriterionName, ve.Description)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
