package cli

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the Jira identity behind the configured credentials",
	Long: `Resolve and display the Jira Cloud account the configured credentials
authenticate as. Useful to verify a .env file before running reports.`,
	Example: `  # Verify credentials from ./.env
  worklog-report whoami

  # Verify a different credential file
  worklog-report whoami --env-file=./prod.env`,
	RunE: runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Println("🔗 Connecting to Jira...")
	user, err := app.tracker.GetCurrentUser(context.Background(), app.creds)
	if err != nil {
		return fmt.Errorf("failed to resolve current user: %w", err)
	}

	pterm.Success.Printfln("Authenticated against %s", app.creds.BaseURL)
	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Account ID", user.AccountID},
		{"Display name", user.DisplayName},
		{"Email", user.EmailAddress},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()

	return nil
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
