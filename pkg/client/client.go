// Package client wraps the Jira Cloud REST and agile APIs behind a typed,
// context-aware interface. Requests are built through the go-jira library,
// executed on a rate-limited HTTP client, and decoded into the projections
// the report engine consumes.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/andygrunwald/go-jira"
	"github.com/go-logr/logr"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/metrics"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/paginate"
)

// Client defines the interface for Jira operations.
// This enables dependency injection and testing with mock implementations.
type Client interface {
	// CurrentUser returns the account the credentials authenticate as.
	CurrentUser(ctx context.Context) (*User, error)

	// Issue fetches a single issue restricted to the given fields.
	Issue(ctx context.Context, issueKey string, fields ...string) (*Issue, error)

	// SearchIssues runs a JQL query and returns a single result page.
	SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (*SearchPage, error)

	// SearchIssuesPaged runs a JQL query and walks every result page.
	SearchIssuesPaged(ctx context.Context, jql string, fields []string) ([]Issue, error)

	// IssueWorklogs collects every worklog entry recorded on an issue.
	IssueWorklogs(ctx context.Context, issueKey string) ([]WorklogEntry, error)

	// AddWorklog records a new worklog entry on an issue.
	AddWorklog(ctx context.Context, issueKey string, input *WorklogInput) (*WorklogEntry, error)

	// UpdateWorklog rewrites an existing worklog entry.
	UpdateWorklog(ctx context.Context, issueKey, worklogID string, input *WorklogInput) (*WorklogEntry, error)

	// DeleteWorklog removes a worklog entry from an issue.
	DeleteWorklog(ctx context.Context, issueKey, worklogID string) error

	// Projects lists every project visible to the authenticated user.
	Projects(ctx context.Context) ([]Project, error)

	// Boards lists every agile board visible to the authenticated user.
	Boards(ctx context.Context) ([]Board, error)

	// Board fetches a single agile board.
	Board(ctx context.Context, boardID int) (*Board, error)

	// BoardConfiguration fetches a board's configuration, including the
	// saved filter backing it.
	BoardConfiguration(ctx context.Context, boardID int) (*BoardConfiguration, error)
}

// Operation labels used for metrics and logging. Concrete paths carry issue
// keys and query strings, so they are unsuitable as label values.
const (
	opMyself        = "myself"
	opSearch        = "search"
	opIssue         = "issue"
	opIssueWorklogs = "issue_worklogs"
	opWorklogCreate = "worklog_create"
	opWorklogUpdate = "worklog_update"
	opWorklogDelete = "worklog_delete"
	opProjects      = "projects"
	opBoards        = "boards"
	opBoard         = "board"
	opBoardConfig   = "board_configuration"
)

// JIRAClient implements the Client interface on the Jira Cloud REST API v3
// and agile API 1.0. Request construction goes through go-jira so base URL
// resolution and body encoding stay consistent with the library; execution
// uses the rate-limited HTTP client built by the Factory.
type JIRAClient struct {
	jira    *jira.Client
	http    *http.Client
	log     logr.Logger
	metrics *metrics.Metrics
}

// CurrentUser returns the account the credentials authenticate as. It
// doubles as the authentication probe: a 401 here means bad credentials.
func (c *JIRAClient) CurrentUser(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.do(ctx, opMyself, http.MethodGet, "rest/api/3/myself", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Issue fetches a single issue restricted to the given fields.
func (c *JIRAClient) Issue(ctx context.Context, issueKey string, fields ...string) (*Issue, error) {
	if issueKey == "" {
		return nil, NewInvalidInputError("issue key cannot be empty")
	}

	endpoint := "rest/api/3/issue/" + url.PathEscape(issueKey)
	if len(fields) > 0 {
		query := url.Values{}
		query.Set("fields", strings.Join(fields, ","))
		endpoint += "?" + query.Encode()
	}

	issue := &Issue{}
	if err := c.do(ctx, opIssue, http.MethodGet, endpoint, nil, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// SearchIssues runs a JQL query and returns a single result page of at most
// maxResults issues.
func (c *JIRAClient) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (*SearchPage, error) {
	if jql == "" {
		return nil, NewInvalidInputError("JQL query cannot be empty")
	}

	page := &SearchPage{}
	if err := c.do(ctx, opSearch, http.MethodGet, searchEndpoint(jql, fields, maxResults, ""), nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// SearchIssuesPaged runs a JQL query and follows the nextPageToken cursor
// until the result set is exhausted.
func (c *JIRAClient) SearchIssuesPaged(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	if jql == "" {
		return nil, NewInvalidInputError("JQL query cannot be empty")
	}

	return paginate.Token(ctx, func(ctx context.Context, token string) ([]Issue, string, error) {
		page := &SearchPage{}
		if err := c.do(ctx, opSearch, http.MethodGet, searchEndpoint(jql, fields, paginate.PageSize, token), nil, page); err != nil {
			return nil, "", err
		}
		return page.Issues, page.NextPageToken, nil
	})
}

func searchEndpoint(jql string, fields []string, maxResults int, token string) string {
	query := url.Values{}
	query.Set("jql", jql)
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}
	if token != "" {
		query.Set("nextPageToken", token)
	}
	return "rest/api/3/search/jql?" + query.Encode()
}

// IssueWorklogs collects every worklog entry recorded on an issue, walking
// the offset-paginated worklog listing.
func (c *JIRAClient) IssueWorklogs(ctx context.Context, issueKey string) ([]WorklogEntry, error) {
	if issueKey == "" {
		return nil, NewInvalidInputError("issue key cannot be empty")
	}

	endpoint := "rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog"
	return paginate.Offset(ctx, func(ctx context.Context, startAt, maxResults int) ([]WorklogEntry, int, error) {
		query := url.Values{}
		query.Set("startAt", strconv.Itoa(startAt))
		query.Set("maxResults", strconv.Itoa(maxResults))

		page := &WorklogPage{}
		if err := c.do(ctx, opIssueWorklogs, http.MethodGet, endpoint+"?"+query.Encode(), nil, page); err != nil {
			return nil, 0, err
		}
		return page.Worklogs, page.Total, nil
	}, paginate.PageSize)
}

// AddWorklog records a new worklog entry on an issue.
func (c *JIRAClient) AddWorklog(ctx context.Context, issueKey string, input *WorklogInput) (*WorklogEntry, error) {
	if issueKey == "" {
		return nil, NewInvalidInputError("issue key cannot be empty")
	}
	if input == nil || input.TimeSpentSeconds <= 0 {
		return nil, NewInvalidInputError("time spent must be a positive number of seconds")
	}

	endpoint := "rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog"
	entry := &WorklogEntry{}
	if err := c.do(ctx, opWorklogCreate, http.MethodPost, endpoint, input, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateWorklog rewrites an existing worklog entry.
func (c *JIRAClient) UpdateWorklog(ctx context.Context, issueKey, worklogID string, input *WorklogInput) (*WorklogEntry, error) {
	if issueKey == "" {
		return nil, NewInvalidInputError("issue key cannot be empty")
	}
	if worklogID == "" {
		return nil, NewInvalidInputError("worklog id cannot be empty")
	}
	if input == nil || input.TimeSpentSeconds <= 0 {
		return nil, NewInvalidInputError("time spent must be a positive number of seconds")
	}

	endpoint := "rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog/" + url.PathEscape(worklogID)
	entry := &WorklogEntry{}
	if err := c.do(ctx, opWorklogUpdate, http.MethodPut, endpoint, input, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteWorklog removes a worklog entry from an issue.
func (c *JIRAClient) DeleteWorklog(ctx context.Context, issueKey, worklogID string) error {
	if issueKey == "" {
		return NewInvalidInputError("issue key cannot be empty")
	}
	if worklogID == "" {
		return NewInvalidInputError("worklog id cannot be empty")
	}

	endpoint := "rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog/" + url.PathEscape(worklogID)
	return c.do(ctx, opWorklogDelete, http.MethodDelete, endpoint, nil, nil)
}

// Projects lists every project visible to the authenticated user.
func (c *JIRAClient) Projects(ctx context.Context) ([]Project, error) {
	return paginate.Offset(ctx, func(ctx context.Context, startAt, maxResults int) ([]Project, int, error) {
		query := url.Values{}
		query.Set("startAt", strconv.Itoa(startAt))
		query.Set("maxResults", strconv.Itoa(maxResults))

		page := &ProjectPage{}
		if err := c.do(ctx, opProjects, http.MethodGet, "rest/api/3/project/search?"+query.Encode(), nil, page); err != nil {
			return nil, 0, err
		}
		return page.Values, page.Total, nil
	}, paginate.PageSize)
}

// Boards lists every agile board visible to the authenticated user.
func (c *JIRAClient) Boards(ctx context.Context) ([]Board, error) {
	return paginate.Offset(ctx, func(ctx context.Context, startAt, maxResults int) ([]Board, int, error) {
		query := url.Values{}
		query.Set("startAt", strconv.Itoa(startAt))
		query.Set("maxResults", strconv.Itoa(maxResults))

		page := &BoardPage{}
		if err := c.do(ctx, opBoards, http.MethodGet, "rest/agile/1.0/board?"+query.Encode(), nil, page); err != nil {
			return nil, 0, err
		}
		return page.Values, page.Total, nil
	}, paginate.PageSize)
}

// Board fetches a single agile board.
func (c *JIRAClient) Board(ctx context.Context, boardID int) (*Board, error) {
	if boardID <= 0 {
		return nil, NewInvalidInputError("board id must be positive")
	}

	board := &Board{}
	if err := c.do(ctx, opBoard, http.MethodGet, "rest/agile/1.0/board/"+strconv.Itoa(boardID), nil, board); err != nil {
		return nil, err
	}
	return board, nil
}

// BoardConfiguration fetches a board's configuration.
func (c *JIRAClient) BoardConfiguration(ctx context.Context, boardID int) (*BoardConfiguration, error) {
	if boardID <= 0 {
		return nil, NewInvalidInputError("board id must be positive")
	}

	cfg := &BoardConfiguration{}
	if err := c.do(ctx, opBoardConfig, http.MethodGet, "rest/agile/1.0/board/"+strconv.Itoa(boardID)+"/configuration", nil, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
