package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List your own worklog entries in a date range",
	Long: `List every worklog entry you logged within [--start, --end], newest
first, with the distinct issues touched. Both boundary dates are inclusive.`,
	Example: `  # What did I log in January?
  worklog-report history --start=2024-01-01 --end=2024-01-31

  # Archive the answer as JSON
  worklog-report history --start=2024-01-01 --end=2024-01-31 --output=january.json --format=json`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	if err := validateDateRange(start, end); err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Collecting your worklogs from %s to %s...\n", start, end)
	result, err := app.reports.GetWorklogHistory(context.Background(), app.creds, start, end)
	if err != nil {
		return fmt.Errorf("failed to build worklog history: %w", err)
	}

	renderHistory(result, start, end)

	if _, err := writeOutput(cmd, result); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("start", "", "Range start date, inclusive (format: 2024-01-01) (required)")
	historyCmd.Flags().String("end", "", "Range end date, inclusive (format: 2024-01-31) (required)")
	_ = historyCmd.MarkFlagRequired("start")
	_ = historyCmd.MarkFlagRequired("end")
	addOutputFlags(historyCmd.Flags())
}
