package cli

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
)

// worklogCmd groups the worklog mutation commands
var worklogCmd = &cobra.Command{
	Use:   "worklog",
	Short: "Log, correct, or remove time on an issue",
	Long: `Manage worklog entries on issues you have access to.

Time is given as a Go duration (30m, 1h30m, 2h). The start moment defaults
to now and can be set with --started as a date or date plus time of day.`,
}

// worklogAddCmd represents the worklog add command
var worklogAddCmd = &cobra.Command{
	Use:   "add ISSUE-KEY",
	Short: "Log time against an issue",
	Example: `  # Log 90 minutes against PROJ-123, started now
  worklog-report worklog add PROJ-123 --time=1h30m

  # Log yesterday morning's work with a comment
  worklog-report worklog add PROJ-123 --time=2h --started="2024-01-30 09:00" --comment="Reviewed the migration plan"`,
	Args: cobra.ExactArgs(1),
	RunE: runWorklogAdd,
}

// worklogUpdateCmd represents the worklog update command
var worklogUpdateCmd = &cobra.Command{
	Use:   "update ISSUE-KEY WORKLOG-ID",
	Short: "Rewrite an existing worklog entry",
	Example: `  # Correct the logged time on an entry
  worklog-report worklog update PROJ-123 10234 --time=45m

  # Move an entry to another day and replace its comment
  worklog-report worklog update PROJ-123 10234 --time=1h --started=2024-01-29 --comment="Actually done Monday"`,
	Args: cobra.ExactArgs(2),
	RunE: runWorklogUpdate,
}

// worklogDeleteCmd represents the worklog delete command
var worklogDeleteCmd = &cobra.Command{
	Use:   "delete ISSUE-KEY WORKLOG-ID",
	Short: "Remove a worklog entry",
	Example: `  # Remove a mislogged entry
  worklog-report worklog delete PROJ-123 10234`,
	Args: cobra.ExactArgs(2),
	RunE: runWorklogDelete,
}

func runWorklogAdd(cmd *cobra.Command, args []string) error {
	issueKey := args[0]
	if err := validateIssueKey(issueKey); err != nil {
		return err
	}

	input, err := worklogInputFromFlags(cmd)
	if err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("⏱️  Logging time on %s...\n", issueKey)
	entry, err := app.tracker.CreateWorklog(context.Background(), app.creds, issueKey, input)
	if err != nil {
		return fmt.Errorf("failed to add worklog: %w", err)
	}

	renderWorklogEntry("added", issueKey, entry)
	return nil
}

func runWorklogUpdate(cmd *cobra.Command, args []string) error {
	issueKey, worklogID := args[0], args[1]
	if err := validateIssueKey(issueKey); err != nil {
		return err
	}
	if worklogID == "" {
		return fmt.Errorf("worklog id cannot be empty")
	}

	input, err := worklogInputFromFlags(cmd)
	if err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("✏️  Updating worklog %s on %s...\n", worklogID, issueKey)
	entry, err := app.tracker.UpdateWorklog(context.Background(), app.creds, issueKey, worklogID, input)
	if err != nil {
		return fmt.Errorf("failed to update worklog: %w", err)
	}

	renderWorklogEntry("updated", issueKey, entry)
	return nil
}

func runWorklogDelete(cmd *cobra.Command, args []string) error {
	issueKey, worklogID := args[0], args[1]
	if err := validateIssueKey(issueKey); err != nil {
		return err
	}
	if worklogID == "" {
		return fmt.Errorf("worklog id cannot be empty")
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("🗑️  Deleting worklog %s on %s...\n", worklogID, issueKey)
	result, err := app.tracker.DeleteWorklog(context.Background(), app.creds, issueKey, worklogID)
	if err != nil {
		return fmt.Errorf("failed to delete worklog: %w", err)
	}

	if result.Success {
		pterm.Success.Printfln("Worklog %s removed from %s", worklogID, issueKey)
	}
	return nil
}

// worklogInputFromFlags builds the upstream payload from --time, --started
// and --comment.
func worklogInputFromFlags(cmd *cobra.Command) (*client.WorklogInput, error) {
	timeArg, _ := cmd.Flags().GetString("time")
	startedArg, _ := cmd.Flags().GetString("started")
	comment, _ := cmd.Flags().GetString("comment")

	seconds, err := parseTimeSpent(timeArg)
	if err != nil {
		return nil, err
	}

	started, err := parseStarted(startedArg)
	if err != nil {
		return nil, err
	}

	input := &client.WorklogInput{
		TimeSpentSeconds: seconds,
		Started:          started,
	}
	if comment != "" {
		input.Comment = client.NewComment(comment)
	}
	return input, nil
}

// validateIssueKey validates issue key format (e.g., PROJ-123)
func validateIssueKey(issueKey string) error {
	if issueKey == "" {
		return fmt.Errorf("issue key cannot be empty")
	}

	// Issue key format: PROJECT-NUMBER (e.g., PROJ-123, MY-PROJECT-456)
	issueKeyRegex := regexp.MustCompile(`^[A-Z][A-Z0-9]*(-[A-Z0-9]+)*-\d+$`)
	if !issueKeyRegex.MatchString(issueKey) {
		return fmt.Errorf("issue key '%s' does not match the expected format (e.g., PROJ-123)", issueKey)
	}

	return nil
}

// parseTimeSpent converts a --time duration string into whole seconds.
func parseTimeSpent(value string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("--time is required (examples: 30m, 1h30m, 2h)")
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --time value '%s': %w (examples: 30m, 1h30m, 2h)", value, err)
	}
	if duration < time.Minute {
		return 0, fmt.Errorf("--time must be at least one minute, got %v", duration)
	}

	return int(duration / time.Second), nil
}

// parseStarted renders the --started flag as the tracker's timestamp layout.
// Accepts a date or a date plus time of day, in local time; empty means now.
func parseStarted(value string) (string, error) {
	if value == "" {
		return time.Now().Format(client.TimeLayout), nil
	}

	for _, layout := range []string{"2006-01-02 15:04", dateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Format(client.TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid --started value '%s' (expected formats: 2024-01-31 or '2024-01-31 14:30')", value)
}

func init() {
	rootCmd.AddCommand(worklogCmd)
	worklogCmd.AddCommand(worklogAddCmd)
	worklogCmd.AddCommand(worklogUpdateCmd)
	worklogCmd.AddCommand(worklogDeleteCmd)

	for _, cmd := range []*cobra.Command{worklogAddCmd, worklogUpdateCmd} {
		cmd.Flags().StringP("time", "t", "", "Time spent as a duration (30m, 1h30m, 2h) (required)")
		cmd.Flags().String("started", "", "When the work started (2024-01-31 or '2024-01-31 14:30', default: now)")
		cmd.Flags().StringP("comment", "c", "", "Worklog comment")
		_ = cmd.MarkFlagRequired("time")
	}
}
