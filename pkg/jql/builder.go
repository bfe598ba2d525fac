package jql

import (
	"fmt"
	"strings"
)

// StatusAll is the status filter value that means "do not filter by status"
const StatusAll = "all"

// TaskSearch builds the JQL for the current user's task list.
// Status is skipped when empty or the literal "all"; search text matches
// against both summary and key. User-supplied values are quote-escaped.
func TaskSearch(searchText, status string) string {
	clauses := []string{"assignee = currentUser()"}

	if status != "" && status != StatusAll {
		clauses = append(clauses, fmt.Sprintf(`status = "%s"`, escape(status)))
	}

	if searchText != "" {
		escaped := escape(searchText)
		clauses = append(clauses, fmt.Sprintf(`(summary ~ "%s" OR key ~ "%s")`, escaped, escaped))
	}

	return strings.Join(clauses, " AND ") + " ORDER BY updated DESC"
}

// WorklogRange builds the JQL matching issues the current user logged work
// on within [startDate, endDate]. Dates are YYYY-MM-DD and always quoted.
func WorklogRange(startDate, endDate string) string {
	return fmt.Sprintf(
		`worklogAuthor = currentUser() AND worklogDate >= "%s" AND worklogDate <= "%s" ORDER BY updated DESC`,
		escape(startDate), escape(endDate),
	)
}

// EpicChildren builds the JQL matching every child of the given epics.
// Returns an empty string when no keys are supplied.
func EpicChildren(epicKeys []string) string {
	if len(epicKeys) == 0 {
		return ""
	}

	quoted := make([]string, 0, len(epicKeys))
	for _, key := range epicKeys {
		quoted = append(quoted, fmt.Sprintf(`"%s"`, escape(key)))
	}

	return fmt.Sprintf("parent in (%s) ORDER BY parent ASC", strings.Join(quoted, ", "))
}

// ProjectEpics builds the JQL matching all Epic-type issues in a project.
func ProjectEpics(projectKey string) string {
	return fmt.Sprintf(`project = "%s" AND issuetype = Epic ORDER BY created DESC`, escape(projectKey))
}

// BoardFilter builds the JQL for a board backed by a saved filter,
// restricted to issues with worklogs in [startDate, endDate].
func BoardFilter(filterID int, startDate, endDate string) string {
	return fmt.Sprintf(
		`filter = %d AND worklogDate >= "%s" AND worklogDate <= "%s" ORDER BY updated DESC`,
		filterID, escape(startDate), escape(endDate),
	)
}

// BoardProjectFallback builds the worklog-range JQL scoped to a board's
// project, used when the board has no saved filter.
func BoardProjectFallback(projectKey, startDate, endDate string) string {
	return fmt.Sprintf(
		`project = "%s" AND worklogDate >= "%s" AND worklogDate <= "%s" ORDER BY updated DESC`,
		escape(projectKey), escape(startDate), escape(endDate),
	)
}

// escape neutralizes embedded double quotes in user-supplied text before it
// is interpolated into a quoted JQL literal. This is the sole escaping the
// query language needs; no other characters are rewritten.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Validate performs basic JQL syntax checks and returns a list of problems,
// empty when the expression looks well formed.
func Validate(jql string) []string {
	var errors []string

	if !areQuotesBalanced(jql) {
		errors = append(errors, "unbalanced quotes in JQL")
	}

	openParens := strings.Count(jql, "(")
	closeParens := strings.Count(jql, ")")
	if openParens != closeParens {
		errors = append(errors, "unbalanced parentheses in JQL")
	}

	lowerJQL := strings.ToLower(jql)
	if strings.Contains(lowerJQL, " and and ") || strings.Contains(lowerJQL, " or or ") {
		errors = append(errors, "duplicate logical operators detected")
	}

	return errors
}

// areQuotesBalanced checks double-quote balance, skipping backslash-escaped
// quotes inside literals.
func areQuotesBalanced(jql string) bool {
	count := 0
	for i := 0; i < len(jql); i++ {
		switch jql[i] {
		case '\\':
			// Skip the escaped character
			i++
		case '"':
			count++
		}
	}
	return count%2 == 0
}
