package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a monthly time report grouped by epic and user",
	Long: `Build a time report for a date range, grouped per epic, then per user,
then per issue, with totals at every level sorted descending.

Scope:
  • Default: epics you logged work under in the range, aggregated across
    all contributors to those epics.
  • --project: every epic in the project.
  • --board: the board's saved filter, falling back to its project.

Finished reports are cached for the configured TTL, so re-running the same
range is cheap.`,
	Example: `  # My January, grouped by the epics I touched
  worklog-report report --start=2024-01-01 --end=2024-01-31

  # The whole project
  worklog-report report --start=2024-01-01 --end=2024-01-31 --project=PROJ

  # A board, exported for the team
  worklog-report report --start=2024-01-01 --end=2024-01-31 --board=42 --output=january.yaml`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	projectKey, _ := cmd.Flags().GetString("project")
	boardID, _ := cmd.Flags().GetInt("board")

	// Validate mutual exclusivity of --project and --board
	if projectKey != "" && boardID > 0 {
		return fmt.Errorf("cannot specify both --project and --board flags")
	}
	if err := validateDateRange(start, end); err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var result *report.MonthlyReport

	switch {
	case projectKey != "":
		fmt.Printf("📊 Building report for project %s, %s to %s...\n", projectKey, start, end)
		result, err = app.reports.GetMonthlyReportByProject(ctx, app.creds, projectKey, start, end)
	case boardID > 0:
		fmt.Printf("📊 Building report for board %d, %s to %s...\n", boardID, start, end)
		result, err = app.reports.GetMonthlyReportByBoard(ctx, app.creds, boardID, start, end)
	default:
		fmt.Printf("📊 Building your report, %s to %s...\n", start, end)
		result, err = app.reports.GetMonthlyReport(ctx, app.creds, start, end)
	}
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	renderMonthlyReport(result)

	if _, err := writeOutput(cmd, result); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("start", "", "Range start date, inclusive (format: 2024-01-01) (required)")
	reportCmd.Flags().String("end", "", "Range end date, inclusive (format: 2024-01-31) (required)")
	reportCmd.Flags().StringP("project", "p", "", "Scope to every epic in this project key")
	reportCmd.Flags().IntP("board", "b", 0, "Scope to this board id (saved filter, then project fallback)")
	_ = reportCmd.MarkFlagRequired("start")
	_ = reportCmd.MarkFlagRequired("end")
	addOutputFlags(reportCmd.Flags())
}
