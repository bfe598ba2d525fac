package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects your credentials can see",
	Example: `  # Find the project key for --project
  worklog-report projects`,
	RunE: runProjects,
}

// boardsCmd represents the boards command
var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the agile boards your credentials can see",
	Example: `  # Find the board id for --board
  worklog-report boards`,
	RunE: runBoards,
}

func runProjects(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Println("🔍 Listing projects...")
	projects, err := app.tracker.GetMyProjects(context.Background(), app.creds)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	pterm.Success.Printfln("Found %d project(s)", len(projects))
	if len(projects) > 0 {
		pterm.Println()
		tableData := pterm.TableData{
			{"Key", "Name"},
		}
		for _, project := range projects {
			tableData = append(tableData, []string{project.Key, project.Name})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
	}

	if _, err := writeOutput(cmd, projects); err != nil {
		return err
	}
	return nil
}

func runBoards(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	fmt.Println("🔍 Listing boards...")
	boards, err := app.tracker.GetBoards(context.Background(), app.creds)
	if err != nil {
		return fmt.Errorf("failed to list boards: %w", err)
	}

	pterm.Success.Printfln("Found %d board(s)", len(boards))
	if len(boards) > 0 {
		pterm.Println()
		tableData := pterm.TableData{
			{"ID", "Name", "Project"},
		}
		for _, board := range boards {
			tableData = append(tableData, []string{strconv.Itoa(board.ID), board.Name, board.ProjectKey})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
	}

	if _, err := writeOutput(cmd, boards); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(boardsCmd)

	addOutputFlags(projectsCmd.Flags())
	addOutputFlags(boardsCmd.Flags())
}
