package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/report"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/internal/tracker"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/export"
)

const dateLayout = "2006-01-02"

// formatDuration renders logged seconds the way trackers show them: hours
// and minutes, with bare seconds only when nothing rounder exists.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m"
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// formatStarted re-renders a tracker timestamp as a local, minute-precision
// string, falling back to the raw value when it does not parse.
func formatStarted(started string) string {
	t, err := time.Parse(client.TimeLayout, started)
	if err != nil {
		return started
	}
	return t.Local().Format("2006-01-02 15:04")
}

// addOutputFlags registers the shared --output/--format pair on commands
// that can hand their result to pkg/export.
func addOutputFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Write the result to a file instead of only rendering it")
	flags.String("format", "yaml", "Output file format (yaml, json)")
}

// writeOutput exports the result when --output was given. Returns whether a
// file was written.
func writeOutput(cmd *cobra.Command, result interface{}) (bool, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return false, nil
	}

	formatArg, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatArg)
	if err != nil {
		return false, err
	}

	if err := export.NewFileWriter().WriteReport(result, path, format); err != nil {
		return false, err
	}
	fmt.Printf("💾 Result written to %s\n", path)
	return true, nil
}

// validateDateRange checks the --start/--end pair before any network call.
func validateDateRange(start, end string) error {
	if start == "" || end == "" {
		return fmt.Errorf("both --start and --end are required (format: 2024-01-31)")
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return fmt.Errorf("invalid --start date '%s' (expected format: 2024-01-31)", start)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return fmt.Errorf("invalid --end date '%s' (expected format: 2024-01-31)", end)
	}
	if e.Before(s) {
		return fmt.Errorf("--end %s is before --start %s", end, start)
	}
	return nil
}

func renderMonthlyReport(r *report.MonthlyReport) {
	pterm.Success.Printfln("Report for %s to %s", r.StartDate, r.EndDate)

	if len(r.Epics) == 0 {
		pterm.Warning.Println("No worklogs found in this date range.")
		return
	}

	for _, epic := range r.Epics {
		pterm.Println()
		pterm.DefaultSection.Printfln("%s %s (%s)", epic.EpicKey, epic.EpicSummary, formatDuration(epic.TotalTimeSeconds))

		tableData := pterm.TableData{
			{"User", "Issue", "Time"},
		}
		for _, user := range epic.Users {
			for i, issue := range user.Issues {
				name := ""
				if i == 0 {
					name = user.DisplayName
				}
				tableData = append(tableData, []string{
					name,
					fmt.Sprintf("%s %s", issue.IssueKey, issue.IssueSummary),
					formatDuration(issue.TimeSpentSeconds),
				})
			}
			if len(user.Issues) > 1 {
				tableData = append(tableData, []string{
					"",
					pterm.Bold.Sprintf("%s total", user.DisplayName),
					pterm.Bold.Sprint(formatDuration(user.TotalTimeSeconds)),
				})
			}
		}
		_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
	}

	pterm.Println()
	pterm.Println(pterm.Bold.Sprintf("Total: %s", formatDuration(r.TotalTimeSeconds)))
}

func renderEpicReport(r *report.EpicWorklogReport) {
	pterm.Success.Printfln("%s %s: %d issues, %s logged", r.EpicKey, r.EpicSummary, r.TotalIssues, formatDuration(r.TotalTimeSeconds))

	if len(r.Users) == 0 {
		pterm.Warning.Println("No worklogs found on this epic.")
		return
	}
	pterm.Println()

	tableData := pterm.TableData{
		{"User", "Issues", "Time"},
	}
	for _, user := range r.Users {
		tableData = append(tableData, []string{
			user.DisplayName,
			strings.Join(user.IssueKeys, ", "),
			formatDuration(user.TotalTimeSeconds),
		})
	}
	tableData = append(tableData, []string{
		pterm.Bold.Sprint("TOTAL"),
		"",
		pterm.Bold.Sprint(formatDuration(r.TotalTimeSeconds)),
	})
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}

func renderHistory(result *report.HistoryResult, start, end string) {
	pterm.Success.Printfln("Found %d worklog(s) across %d issue(s) between %s and %s",
		len(result.Worklogs), result.TotalIssues, start, end)

	if len(result.Worklogs) == 0 {
		return
	}
	pterm.Println()

	total := 0
	tableData := pterm.TableData{
		{"Started", "Issue", "Time", "Comment"},
	}
	for _, item := range result.Worklogs {
		total += item.TimeSpentSeconds
		tableData = append(tableData, []string{
			formatStarted(item.Started),
			fmt.Sprintf("%s %s", item.IssueKey, item.IssueSummary),
			formatDuration(item.TimeSpentSeconds),
			item.Comment,
		})
	}
	tableData = append(tableData, []string{
		"",
		pterm.Bold.Sprint("TOTAL"),
		pterm.Bold.Sprint(formatDuration(total)),
		"",
	})
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}

func renderActiveEpics(actives []report.ActiveEpic, start, end string) {
	pterm.Success.Printfln("Found %d active epic(s) between %s and %s", len(actives), start, end)

	if len(actives) == 0 {
		return
	}
	pterm.Println()

	tableData := pterm.TableData{
		{"Epic", "Summary", "Issues"},
	}
	for _, epic := range actives {
		tableData = append(tableData, []string{
			epic.EpicKey,
			epic.EpicSummary,
			strconv.Itoa(epic.IssueCount),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}

func renderTasks(list *tracker.TaskList) {
	pterm.Success.Printfln("Found %d task(s)", list.Total)

	if len(list.Tasks) == 0 {
		return
	}
	pterm.Println()

	tableData := pterm.TableData{
		{"Key", "Summary", "Status", "Type", "Project"},
	}
	for _, task := range list.Tasks {
		tableData = append(tableData, []string{
			task.Key,
			task.Summary,
			task.Status,
			task.IssueType,
			task.Project,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}

func renderWorklogEntry(action, issueKey string, entry *client.WorklogEntry) {
	pterm.Success.Printfln("Worklog %s on %s", action, issueKey)

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Worklog ID", entry.ID},
		{"Time spent", formatDuration(entry.TimeSpentSeconds)},
		{"Started", formatStarted(entry.Started)},
	}
	if comment := entry.CommentText(); comment != "" {
		tableData = append(tableData, []string{"Comment", comment})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}
