package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/tracker"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/jql"
)

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List your assigned tasks",
	Long: `List tasks assigned to you, most recently updated first.

The list can be narrowed by free text (matched against summary and key) and
by workflow status. Status "all" (the default) skips status filtering.`,
	Example: `  # Everything assigned to you
  worklog-report tasks

  # Only work in progress
  worklog-report tasks --status="In Progress"

  # Search within your tasks
  worklog-report tasks --search=payment --status=all`,
	RunE: runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	searchText, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Println("🔍 Searching your tasks...")
	list, err := app.tracker.SearchMyTasks(context.Background(), app.creds, tracker.TaskQuery{
		SearchText: searchText,
		Status:     status,
	})
	if err != nil {
		return fmt.Errorf("task search failed: %w", err)
	}

	renderTasks(list)

	if _, err := writeOutput(cmd, list); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tasksCmd)

	tasksCmd.Flags().StringP("search", "s", "", "Free text matched against task summary and key")
	tasksCmd.Flags().String("status", jql.StatusAll, "Workflow status filter (e.g. 'In Progress'; 'all' disables)")
	addOutputFlags(tasksCmd.Flags())
}
