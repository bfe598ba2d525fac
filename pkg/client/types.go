package client

import (
	"encoding/json"
	"time"
)

// TimeLayout is the timestamp format the tracker uses for worklog and issue
// datetime fields, e.g. "2024-01-05T10:30:00.000+0100".
const TimeLayout = "2006-01-02T15:04:05.000-0700"

// Credentials identify one tracker tenant and user. They are used for
// request signing and as a cache key; this package never persists them.
type Credentials struct {
	BaseURL  string
	Email    string
	APIToken string
}

// User is the tracker's account record for the authenticated user.
type User struct {
	AccountID    string `json:"accountId" yaml:"accountId"`
	DisplayName  string `json:"displayName" yaml:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty" yaml:"emailAddress,omitempty"`
}

// Author identifies the user who recorded a worklog entry.
type Author struct {
	AccountID    string `json:"accountId" yaml:"accountId"`
	DisplayName  string `json:"displayName" yaml:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty" yaml:"emailAddress,omitempty"`
}

// WorklogEntry is a single time-tracking record attached to an issue.
// Comment carries the tracker's rich-text document untouched; callers that
// need plain text flatten it themselves.
type WorklogEntry struct {
	ID               string          `json:"id" yaml:"id"`
	Author           *Author         `json:"author,omitempty" yaml:"author,omitempty"`
	TimeSpentSeconds int             `json:"timeSpentSeconds" yaml:"timeSpentSeconds"`
	TimeSpent        string          `json:"timeSpent,omitempty" yaml:"timeSpent,omitempty"`
	Started          string          `json:"started,omitempty" yaml:"started,omitempty"`
	Comment          json.RawMessage `json:"comment,omitempty" yaml:"comment,omitempty"`
	Created          string          `json:"created,omitempty" yaml:"created,omitempty"`
	Updated          string          `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// StartedTime parses the entry's start timestamp. The second return is
// false when the entry has no start timestamp or it cannot be parsed;
// aggregations treat such entries as excluded.
func (w *WorklogEntry) StartedTime() (time.Time, bool) {
	if w.Started == "" {
		return time.Time{}, false
	}
	started, err := time.Parse(TimeLayout, w.Started)
	if err != nil {
		return time.Time{}, false
	}
	return started, true
}

// WorklogPage is one page of an issue's worklog listing. When Total is no
// larger than MaxResults the page already holds every entry the issue has.
type WorklogPage struct {
	StartAt    int            `json:"startAt" yaml:"startAt"`
	MaxResults int            `json:"maxResults" yaml:"maxResults"`
	Total      int            `json:"total" yaml:"total"`
	Worklogs   []WorklogEntry `json:"worklogs" yaml:"worklogs"`
}

// Complete reports whether the page holds the issue's entire worklog list.
func (p *WorklogPage) Complete() bool {
	return p.Total <= p.MaxResults
}

// Issue is the subset of an issue the report engine consumes. Fields not
// requested through the search `fields` parameter stay at their zero value.
type Issue struct {
	ID     string      `json:"id,omitempty" yaml:"id,omitempty"`
	Key    string      `json:"key" yaml:"key"`
	Fields IssueFields `json:"fields" yaml:"fields"`
}

// IssueFields carries the issue fields this engine ever requests.
type IssueFields struct {
	Summary   string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Status    *Status      `json:"status,omitempty" yaml:"status,omitempty"`
	IssueType *IssueType   `json:"issuetype,omitempty" yaml:"issuetype,omitempty"`
	Project   *Project     `json:"project,omitempty" yaml:"project,omitempty"`
	Parent    *Parent      `json:"parent,omitempty" yaml:"parent,omitempty"`
	Worklog   *WorklogPage `json:"worklog,omitempty" yaml:"worklog,omitempty"`
}

// Status is an issue's workflow status.
type Status struct {
	Name string `json:"name" yaml:"name"`
}

// IssueType names the issue's type (Epic, Story, Task, ...).
type IssueType struct {
	Name string `json:"name" yaml:"name"`
}

// Parent is the embedded reference to an issue's parent in the hierarchy;
// for stories and tasks that parent is the epic.
type Parent struct {
	Key    string       `json:"key" yaml:"key"`
	Fields ParentFields `json:"fields" yaml:"fields"`
}

// ParentFields is the summary-only projection the search API embeds.
type ParentFields struct {
	Summary string `json:"summary" yaml:"summary"`
}

// SearchPage is one page of the token-paginated issue search. An empty
// NextPageToken marks the last page.
type SearchPage struct {
	Issues        []Issue `json:"issues" yaml:"issues"`
	NextPageToken string  `json:"nextPageToken,omitempty" yaml:"nextPageToken,omitempty"`
	IsLast        bool    `json:"isLast,omitempty" yaml:"isLast,omitempty"`
}

// Project is a tracker project reference.
type Project struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
}

// ProjectPage is one page of the offset-paginated project listing.
type ProjectPage struct {
	StartAt    int       `json:"startAt" yaml:"startAt"`
	MaxResults int       `json:"maxResults" yaml:"maxResults"`
	Total      int       `json:"total" yaml:"total"`
	IsLast     bool      `json:"isLast" yaml:"isLast"`
	Values     []Project `json:"values" yaml:"values"`
}

// Board is a saved agile view grouping issues, usually backed by a filter
// or a project.
type Board struct {
	ID       int            `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Type     string         `json:"type,omitempty" yaml:"type,omitempty"`
	Location *BoardLocation `json:"location,omitempty" yaml:"location,omitempty"`
}

// BoardLocation points at the project a board lives under, when it has one.
type BoardLocation struct {
	ProjectKey  string `json:"projectKey,omitempty" yaml:"projectKey,omitempty"`
	ProjectName string `json:"projectName,omitempty" yaml:"projectName,omitempty"`
}

// BoardPage is one page of the offset-paginated board listing.
type BoardPage struct {
	StartAt    int     `json:"startAt" yaml:"startAt"`
	MaxResults int     `json:"maxResults" yaml:"maxResults"`
	Total      int     `json:"total" yaml:"total"`
	IsLast     bool    `json:"isLast" yaml:"isLast"`
	Values     []Board `json:"values" yaml:"values"`
}

// BoardConfiguration is the board's resolved configuration. Filter is nil
// for boards that are not filter-backed; the agile API reports the filter
// id as a string.
type BoardConfiguration struct {
	ID       int                  `json:"id" yaml:"id"`
	Name     string               `json:"name" yaml:"name"`
	Filter   *BoardFilter         `json:"filter,omitempty" yaml:"filter,omitempty"`
	Location *BoardConfigLocation `json:"location,omitempty" yaml:"location,omitempty"`
}

// BoardFilter references the saved filter backing a board.
type BoardFilter struct {
	ID string `json:"id" yaml:"id"`
}

// BoardConfigLocation is the configuration's project location, when set.
type BoardConfigLocation struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
}

// WorklogInput is the payload for creating or updating a worklog entry.
// Comment, when present, must be a rich-text document in the tracker's
// comment format.
type WorklogInput struct {
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
	Started          string          `json:"started,omitempty"`
	Comment          json.RawMessage `json:"comment,omitempty"`
}
