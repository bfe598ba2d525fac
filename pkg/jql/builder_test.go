package jql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskSearch(t *testing.T) {
	tests := []struct {
		name       string
		searchText string
		status     string
		expected   string
	}{
		{
			name:     "no filters",
			expected: "assignee = currentUser() ORDER BY updated DESC",
		},
		{
			name:     "status filter",
			status:   "In Progress",
			expected: `assignee = currentUser() AND status = "In Progress" ORDER BY updated DESC`,
		},
		{
			name:     "status all is not a filter",
			status:   "all",
			expected: "assignee = currentUser() ORDER BY updated DESC",
		},
		{
			name:       "search text matches summary and key",
			searchText: "payment",
			expected:   `assignee = currentUser() AND (summary ~ "payment" OR key ~ "payment") ORDER BY updated DESC`,
		},
		{
			name:       "search text and status",
			searchText: "payment",
			status:     "Done",
			expected:   `assignee = currentUser() AND status = "Done" AND (summary ~ "payment" OR key ~ "payment") ORDER BY updated DESC`,
		},
		{
			name:       "embedded quotes escaped, status all skipped",
			searchText: `a"b`,
			status:     "all",
			expected:   `assignee = currentUser() AND (summary ~ "a\"b" OR key ~ "a\"b") ORDER BY updated DESC`,
		},
		{
			name:     "quotes in status escaped",
			status:   `Wai"ting`,
			expected: `assignee = currentUser() AND status = "Wai\"ting" ORDER BY updated DESC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jql := TaskSearch(tt.searchText, tt.status)
			assert.Equal(t, tt.expected, jql)
		})
	}
}

func TestTaskSearch_StatusAllNeverEmitsStatusClause(t *testing.T) {
	jql := TaskSearch(`a"b`, StatusAll)
	assert.NotContains(t, jql, "status =")
	assert.Contains(t, jql, `\"`)
}

func TestWorklogRange(t *testing.T) {
	jql := WorklogRange("2024-01-01", "2024-01-31")
	expected := `worklogAuthor = currentUser() AND worklogDate >= "2024-01-01" AND worklogDate <= "2024-01-31" ORDER BY updated DESC`
	assert.Equal(t, expected, jql)
}

func TestEpicChildren(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected string
	}{
		{
			name:     "no keys",
			keys:     nil,
			expected: "",
		},
		{
			name:     "single epic",
			keys:     []string{"PROJ-1"},
			expected: `parent in ("PROJ-1") ORDER BY parent ASC`,
		},
		{
			name:     "multiple epics",
			keys:     []string{"PROJ-1", "PROJ-2", "OTHER-9"},
			expected: `parent in ("PROJ-1", "PROJ-2", "OTHER-9") ORDER BY parent ASC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EpicChildren(tt.keys))
		})
	}
}

func TestProjectEpics(t *testing.T) {
	jql := ProjectEpics("PROJ")
	assert.Equal(t, `project = "PROJ" AND issuetype = Epic ORDER BY created DESC`, jql)
}

func TestBoardFilter(t *testing.T) {
	jql := BoardFilter(10203, "2024-01-01", "2024-01-31")
	expected := `filter = 10203 AND worklogDate >= "2024-01-01" AND worklogDate <= "2024-01-31" ORDER BY updated DESC`
	assert.Equal(t, expected, jql)
}

func TestBoardProjectFallback(t *testing.T) {
	jql := BoardProjectFallback("PROJ", "2024-01-01", "2024-01-31")
	expected := `project = "PROJ" AND worklogDate >= "2024-01-01" AND worklogDate <= "2024-01-31" ORDER BY updated DESC`
	assert.Equal(t, expected, jql)
}

func TestBuilders_ProduceWellFormedJQL(t *testing.T) {
	queries := map[string]string{
		"task search":    TaskSearch(`quo"ted`, "In Review"),
		"worklog range":  WorklogRange("2024-01-01", "2024-01-31"),
		"epic children":  EpicChildren([]string{"A-1", "B-2"}),
		"project epics":  ProjectEpics("PROJ"),
		"board filter":   BoardFilter(42, "2024-01-01", "2024-01-31"),
		"board fallback": BoardProjectFallback("PROJ", "2024-01-01", "2024-01-31"),
	}

	for name, jql := range queries {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, Validate(jql), "expected no validation problems for %s", jql)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		jql      string
		problems int
	}{
		{
			name:     "well formed",
			jql:      `status = "Done" AND (summary ~ "x")`,
			problems: 0,
		},
		{
			name:     "escaped quotes are balanced",
			jql:      `summary ~ "a\"b"`,
			problems: 0,
		},
		{
			name:     "unbalanced quotes",
			jql:      `status = "Done`,
			problems: 1,
		},
		{
			name:     "unbalanced parentheses",
			jql:      `(status = Done`,
			problems: 1,
		},
		{
			name:     "duplicate operators",
			jql:      "a = 1 AND AND b = 2",
			problems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Validate(tt.jql), tt.problems)
		})
	}
}
