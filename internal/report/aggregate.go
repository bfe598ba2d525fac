package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
)

const dateLayout = "2006-01-02"

// unknownDisplayName stands in for authors the tracker returns without a
// display name.
const unknownDisplayName = "Unknown"

// window converts a [startDate, endDate] date pair into a closed epoch-ms
// interval. The end boundary is pushed forward one day so the end date is
// inclusive: an entry started at endDate 23:59:59 is in, one started at
// endDate+1 00:00:01 is out.
func window(startDate, endDate string) (startMs, endMs int64, err error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return 0, 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return start.UnixMilli(), end.Add(24 * time.Hour).UnixMilli(), nil
}

// inWindow reports whether a worklog entry counts toward the window:
// entries without an author accountId or a parseable start timestamp are
// excluded unconditionally, as are entries started outside [startMs, endMs].
func inWindow(entry *client.WorklogEntry, startMs, endMs int64) bool {
	if entry.Author == nil || entry.Author.AccountID == "" {
		return false
	}
	started, ok := entry.StartedTime()
	if !ok {
		return false
	}
	ms := started.UnixMilli()
	return ms >= startMs && ms <= endMs
}

// userAccumulator gathers one user's totals within one epic.
type userAccumulator struct {
	accountID   string
	displayName string
	total       int
	perIssue    map[string]*IssueWorklogSummary
	issueKeys   map[string]bool
}

func newUserAccumulator(author *client.Author) *userAccumulator {
	name := author.DisplayName
	if name == "" {
		name = unknownDisplayName
	}
	return &userAccumulator{
		accountID:   author.AccountID,
		displayName: name,
		perIssue:    make(map[string]*IssueWorklogSummary),
		issueKeys:   make(map[string]bool),
	}
}

func (a *userAccumulator) add(issue *client.Issue, entry *client.WorklogEntry) {
	a.total += entry.TimeSpentSeconds
	a.issueKeys[issue.Key] = true

	if summary, ok := a.perIssue[issue.Key]; ok {
		summary.TimeSpentSeconds += entry.TimeSpentSeconds
		return
	}
	a.perIssue[issue.Key] = &IssueWorklogSummary{
		IssueKey:         issue.Key,
		IssueSummary:     issue.Fields.Summary,
		TimeSpentSeconds: entry.TimeSpentSeconds,
	}
}

// buildMonthlyReport runs the core aggregation: per-epic, per-user, per-issue
// totals over the inclusive date window, with deterministic descending sort
// order at every level and zero-total epics omitted.
func buildMonthlyReport(startDate, endDate string, epics []EpicInfo, issuesByEpic map[string][]client.Issue, worklogsByIssue map[string][]client.WorklogEntry) (*MonthlyReport, error) {
	startMs, endMs, err := window(startDate, endDate)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		StartDate: startDate,
		EndDate:   endDate,
		Epics:     []EpicReport{},
	}

	for _, epic := range epics {
		issues := issuesByEpic[epic.Key]
		if len(issues) == 0 {
			continue
		}

		epicReport := buildEpicReport(epic, issues, worklogsByIssue, startMs, endMs)
		if epicReport.TotalTimeSeconds <= 0 {
			continue
		}
		report.Epics = append(report.Epics, epicReport)
		report.TotalTimeSeconds += epicReport.TotalTimeSeconds
	}

	sort.SliceStable(report.Epics, func(i, j int) bool {
		if report.Epics[i].TotalTimeSeconds != report.Epics[j].TotalTimeSeconds {
			return report.Epics[i].TotalTimeSeconds > report.Epics[j].TotalTimeSeconds
		}
		return report.Epics[i].EpicKey < report.Epics[j].EpicKey
	})

	return report, nil
}

// buildEpicReport accumulates every in-window worklog entry on the epic's
// issues into per-user sections. All authors are kept; scope filtering
// happens upstream when issues are selected, never here.
func buildEpicReport(epic EpicInfo, issues []client.Issue, worklogsByIssue map[string][]client.WorklogEntry, startMs, endMs int64) EpicReport {
	accumulators := make(map[string]*userAccumulator)

	for i := range issues {
		issue := &issues[i]
		for j := range worklogsByIssue[issue.Key] {
			entry := &worklogsByIssue[issue.Key][j]
			if !inWindow(entry, startMs, endMs) {
				continue
			}

			acc, ok := accumulators[entry.Author.AccountID]
			if !ok {
				acc = newUserAccumulator(entry.Author)
				accumulators[entry.Author.AccountID] = acc
			}
			acc.add(issue, entry)
		}
	}

	epicReport := EpicReport{
		EpicKey:     epic.Key,
		EpicSummary: epic.Summary,
	}

	for _, acc := range accumulators {
		user := UserEpicWorklog{
			AccountID:        acc.accountID,
			DisplayName:      acc.displayName,
			TotalTimeSeconds: acc.total,
			Issues:           make([]IssueWorklogSummary, 0, len(acc.perIssue)),
		}
		for _, summary := range acc.perIssue {
			user.Issues = append(user.Issues, *summary)
		}
		sort.SliceStable(user.Issues, func(i, j int) bool {
			if user.Issues[i].TimeSpentSeconds != user.Issues[j].TimeSpentSeconds {
				return user.Issues[i].TimeSpentSeconds > user.Issues[j].TimeSpentSeconds
			}
			return user.Issues[i].IssueKey < user.Issues[j].IssueKey
		})

		epicReport.Users = append(epicReport.Users, user)
		epicReport.TotalTimeSeconds += user.TotalTimeSeconds
	}

	sort.SliceStable(epicReport.Users, func(i, j int) bool {
		if epicReport.Users[i].TotalTimeSeconds != epicReport.Users[j].TotalTimeSeconds {
			return epicReport.Users[i].TotalTimeSeconds > epicReport.Users[j].TotalTimeSeconds
		}
		if epicReport.Users[i].DisplayName != epicReport.Users[j].DisplayName {
			return epicReport.Users[i].DisplayName < epicReport.Users[j].DisplayName
		}
		return epicReport.Users[i].AccountID < epicReport.Users[j].AccountID
	})

	return epicReport
}

// buildEpicUserSummaries accumulates a single epic's worklogs into flat
// per-user summaries with deduplicated issue keys. No date window applies;
// entries without an author accountId are still excluded.
func buildEpicUserSummaries(worklogsByIssue map[string][]client.WorklogEntry) ([]EpicUserSummary, int) {
	accumulators := make(map[string]*userAccumulator)

	for issueKey, entries := range worklogsByIssue {
		for i := range entries {
			entry := &entries[i]
			if entry.Author == nil || entry.Author.AccountID == "" {
				continue
			}

			acc, ok := accumulators[entry.Author.AccountID]
			if !ok {
				acc = newUserAccumulator(entry.Author)
				accumulators[entry.Author.AccountID] = acc
			}
			acc.total += entry.TimeSpentSeconds
			acc.issueKeys[issueKey] = true
		}
	}

	users := make([]EpicUserSummary, 0, len(accumulators))
	total := 0
	for _, acc := range accumulators {
		keys := make([]string, 0, len(acc.issueKeys))
		for key := range acc.issueKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		users = append(users, EpicUserSummary{
			AccountID:        acc.accountID,
			DisplayName:      acc.displayName,
			TotalTimeSeconds: acc.total,
			IssueKeys:        keys,
		})
		total += acc.total
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalTimeSeconds != users[j].TotalTimeSeconds {
			return users[i].TotalTimeSeconds > users[j].TotalTimeSeconds
		}
		if users[i].DisplayName != users[j].DisplayName {
			return users[i].DisplayName < users[j].DisplayName
		}
		return users[i].AccountID < users[j].AccountID
	})

	return users, total
}
