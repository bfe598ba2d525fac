package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// epicCmd represents the epic command
var epicCmd = &cobra.Command{
	Use:   "epic EPIC-KEY",
	Short: "Summarize all time ever logged on one epic",
	Long: `Build the flat single-epic report: every worklog entry on the epic's
child issues, regardless of date, summed per user with the issues each
user touched. Useful for post-hoc accounting of a finished epic.`,
	Example: `  # Who spent what on EPIC-1?
  worklog-report epic EPIC-1

  # Keep the numbers
  worklog-report epic EPIC-1 --output=epic-1.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runEpic,
}

// epicsCmd represents the epics command
var epicsCmd = &cobra.Command{
	Use:   "epics",
	Short: "List the epics you worked under in a date range",
	Long: `List the epics whose issues you logged work on within [--start, --end],
sorted by how many distinct issues you touched under each.`,
	Example: `  # Where did my January go?
  worklog-report epics --start=2024-01-01 --end=2024-01-31`,
	RunE: runEpics,
}

func runEpic(cmd *cobra.Command, args []string) error {
	epicKey := args[0]
	if err := validateIssueKey(epicKey); err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Summarizing worklogs on %s...\n", epicKey)
	result, err := app.reports.GetEpicWorklogReport(context.Background(), app.creds, epicKey)
	if err != nil {
		return fmt.Errorf("failed to build epic report: %w", err)
	}

	renderEpicReport(result)

	if _, err := writeOutput(cmd, result); err != nil {
		return err
	}
	return nil
}

func runEpics(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	if err := validateDateRange(start, end); err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Finding your active epics from %s to %s...\n", start, end)
	actives, err := app.reports.GetActiveEpics(context.Background(), app.creds, start, end)
	if err != nil {
		return fmt.Errorf("failed to list active epics: %w", err)
	}

	renderActiveEpics(actives, start, end)

	if _, err := writeOutput(cmd, actives); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(epicCmd)
	rootCmd.AddCommand(epicsCmd)

	addOutputFlags(epicCmd.Flags())

	epicsCmd.Flags().String("start", "", "Range start date, inclusive (format: 2024-01-01) (required)")
	epicsCmd.Flags().String("end", "", "Range end date, inclusive (format: 2024-01-31) (required)")
	_ = epicsCmd.MarkFlagRequired("start")
	_ = epicsCmd.MarkFlagRequired("end")
	addOutputFlags(epicsCmd.Flags())
}
