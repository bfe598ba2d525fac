// Package report builds per-user, per-epic, per-project, and per-board
// time-tracking reports from worklog data. Orchestrators fan out worklog
// fetches with bounded concurrency and feed one shared aggregator;
// finished monthly reports are cached per credential identity and scope.
package report

// EpicInfo is a deduplicated reference to a parent epic.
type EpicInfo struct {
	Key     string `json:"key" yaml:"key"`
	Summary string `json:"summary" yaml:"summary"`
}

// IssueWorklogSummary is one user's accumulated time on one issue.
type IssueWorklogSummary struct {
	IssueKey         string `json:"issueKey" yaml:"issueKey"`
	IssueSummary     string `json:"issueSummary" yaml:"issueSummary"`
	TimeSpentSeconds int    `json:"timeSpentSeconds" yaml:"timeSpentSeconds"`
}

// UserEpicWorklog is one user's contribution to an epic, with a per-issue
// breakdown sorted by time descending.
type UserEpicWorklog struct {
	AccountID        string                `json:"accountId" yaml:"accountId"`
	DisplayName      string                `json:"displayName" yaml:"displayName"`
	TotalTimeSeconds int                   `json:"totalTimeSeconds" yaml:"totalTimeSeconds"`
	Issues           []IssueWorklogSummary `json:"issues" yaml:"issues"`
}

// EpicReport is one epic's section of a monthly report. Epics whose
// in-range total is zero are omitted from the report entirely.
type EpicReport struct {
	EpicKey          string            `json:"epicKey" yaml:"epicKey"`
	EpicSummary      string            `json:"epicSummary" yaml:"epicSummary"`
	TotalTimeSeconds int               `json:"totalTimeSeconds" yaml:"totalTimeSeconds"`
	Users            []UserEpicWorklog `json:"users" yaml:"users"`
}

// MonthlyReport is the aggregated time report for a date range, sectioned
// by epic and sorted by total time descending.
type MonthlyReport struct {
	StartDate        string       `json:"startDate" yaml:"startDate"`
	EndDate          string       `json:"endDate" yaml:"endDate"`
	TotalTimeSeconds int          `json:"totalTimeSeconds" yaml:"totalTimeSeconds"`
	Epics            []EpicReport `json:"epics" yaml:"epics"`
}

// WorklogItem is a single worklog entry in the acting user's history.
type WorklogItem struct {
	IssueKey         string `json:"issueKey" yaml:"issueKey"`
	IssueSummary     string `json:"issueSummary" yaml:"issueSummary"`
	WorklogID        string `json:"worklogId" yaml:"worklogId"`
	TimeSpentSeconds int    `json:"timeSpentSeconds" yaml:"timeSpentSeconds"`
	Started          string `json:"started" yaml:"started"`
	Comment          string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// HistoryResult is the acting user's worklog history, newest first.
type HistoryResult struct {
	Worklogs    []WorklogItem `json:"worklogs" yaml:"worklogs"`
	TotalIssues int           `json:"totalIssues" yaml:"totalIssues"`
}

// EpicUserSummary is one user's contribution across a single epic's issues,
// with the distinct issue keys they touched.
type EpicUserSummary struct {
	AccountID        string   `json:"accountId" yaml:"accountId"`
	DisplayName      string   `json:"displayName" yaml:"displayName"`
	TotalTimeSeconds int      `json:"totalTimeSeconds" yaml:"totalTimeSeconds"`
	IssueKeys        []string `json:"issueKeys" yaml:"issueKeys"`
}

// EpicWorklogReport is the flat single-epic report.
type EpicWorklogReport struct {
	EpicKey          string            `json:"epicKey" yaml:"epicKey"`
	EpicSummary      string            `json:"epicSummary" yaml:"epicSummary"`
	TotalIssues      int               `json:"totalIssues" yaml:"totalIssues"`
	TotalTimeSeconds int               `json:"totalTimeSeconds" yaml:"totalTimeSeconds"`
	Users            []EpicUserSummary `json:"users" yaml:"users"`
}

// ActiveEpic is an epic the acting user logged work under in a date range,
// with the number of distinct issues touched.
type ActiveEpic struct {
	EpicKey     string `json:"epicKey" yaml:"epicKey"`
	EpicSummary string `json:"epicSummary" yaml:"epicSummary"`
	IssueCount  int    `json:"issueCount" yaml:"issueCount"`
}
