package client

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// MockClient implements the Client interface for testing.
// This enables comprehensive unit testing without external dependencies.
type MockClient struct {
	// mu protects all fields for thread-safe concurrent access
	mu sync.Mutex

	// User is returned by CurrentUser
	User *User

	// Issues maps issue keys to Issue objects
	Issues map[string]*Issue

	// JQLResults maps JQL queries to the issues they return
	JQLResults map[string][]Issue

	// Worklogs maps issue keys to their worklog entries
	Worklogs map[string][]WorklogEntry

	// WorklogErrors maps issue keys to errors returned by IssueWorklogs,
	// so fan-out resilience can be exercised per issue
	WorklogErrors map[string]error

	// ProjectList is returned by Projects
	ProjectList []Project

	// BoardList is returned by Boards
	BoardList []Board

	// BoardConfigs maps board ids to configurations
	BoardConfigs map[int]*BoardConfiguration

	// Configured errors, returned when set
	CurrentUserError error
	SearchError      error
	MutationError    error
	ProjectsError    error
	BoardsError      error
	BoardError       error
	BoardConfigError error

	// Call counters
	CurrentUserCallCount        int
	IssueCallCount              int
	SearchCallCount             int
	SearchPagedCallCount        int
	IssueWorklogsCallCount      int
	AddWorklogCallCount         int
	UpdateWorklogCallCount      int
	DeleteWorklogCallCount      int
	ProjectsCallCount           int
	BoardsCallCount             int
	BoardCallCount              int
	BoardConfigurationCallCount int

	// IssueWorklogsCalls counts IssueWorklogs calls per issue key
	IssueWorklogsCalls map[string]int

	// Last-seen arguments
	LastJQL          string
	LastFields       []string
	LastIssueKey     string
	LastWorklogID    string
	LastWorklogInput *WorklogInput

	nextWorklogID int
}

// NewMockClient creates a mock Jira client preloaded with a test user.
func NewMockClient() *MockClient {
	return &MockClient{
		User:               CreateTestUser(),
		Issues:             make(map[string]*Issue),
		JQLResults:         make(map[string][]Issue),
		Worklogs:           make(map[string][]WorklogEntry),
		WorklogErrors:      make(map[string]error),
		BoardConfigs:       make(map[int]*BoardConfiguration),
		IssueWorklogsCalls: make(map[string]int),
		nextWorklogID:      1000,
	}
}

// CurrentUser returns the configured user.
func (m *MockClient) CurrentUser(ctx context.Context) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CurrentUserCallCount++
	if m.CurrentUserError != nil {
		return nil, m.CurrentUserError
	}
	if m.User == nil {
		return nil, &APIError{Type: ErrorTypeAuthentication, Message: "no user configured"}
	}
	return m.User, nil
}

// Issue returns a configured issue by key.
func (m *MockClient) Issue(ctx context.Context, issueKey string, fields ...string) (*Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IssueCallCount++
	m.LastIssueKey = issueKey
	m.LastFields = fields

	if issue, ok := m.Issues[issueKey]; ok {
		return issue, nil
	}
	return nil, &APIError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("issue %s not found", issueKey),
		StatusCode: 404,
	}
}

// SearchIssues returns the first maxResults configured issues for jql.
func (m *MockClient) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (*SearchPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchCallCount++
	m.LastJQL = jql
	m.LastFields = fields

	if m.SearchError != nil {
		return nil, m.SearchError
	}
	if jql == "" {
		return nil, NewInvalidInputError("JQL query cannot be empty")
	}

	issues := m.JQLResults[jql]
	if maxResults > 0 && len(issues) > maxResults {
		issues = issues[:maxResults]
	}
	return &SearchPage{Issues: issues, IsLast: true}, nil
}

// SearchIssuesPaged returns every configured issue for jql.
func (m *MockClient) SearchIssuesPaged(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SearchPagedCallCount++
	m.LastJQL = jql
	m.LastFields = fields

	if m.SearchError != nil {
		return nil, m.SearchError
	}
	if jql == "" {
		return nil, NewInvalidInputError("JQL query cannot be empty")
	}
	return m.JQLResults[jql], nil
}

// IssueWorklogs returns the configured worklog entries for an issue.
func (m *MockClient) IssueWorklogs(ctx context.Context, issueKey string) ([]WorklogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IssueWorklogsCallCount++
	m.IssueWorklogsCalls[issueKey]++
	m.LastIssueKey = issueKey

	if err, ok := m.WorklogErrors[issueKey]; ok {
		return nil, err
	}
	return m.Worklogs[issueKey], nil
}

// AddWorklog records a worklog entry with a generated id.
func (m *MockClient) AddWorklog(ctx context.Context, issueKey string, input *WorklogInput) (*WorklogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AddWorklogCallCount++
	m.LastIssueKey = issueKey
	m.LastWorklogInput = input

	if m.MutationError != nil {
		return nil, m.MutationError
	}
	if issueKey == "" {
		return nil, NewInvalidInputError("issue key cannot be empty")
	}
	if input == nil || input.TimeSpentSeconds <= 0 {
		return nil, NewInvalidInputError("time spent must be a positive number of seconds")
	}

	m.nextWorklogID++
	entry := WorklogEntry{
		ID:               strconv.Itoa(m.nextWorklogID),
		TimeSpentSeconds: input.TimeSpentSeconds,
		Started:          input.Started,
		Comment:          input.Comment,
	}
	if m.User != nil {
		entry.Author = &Author{AccountID: m.User.AccountID, DisplayName: m.User.DisplayName}
	}
	m.Worklogs[issueKey] = append(m.Worklogs[issueKey], entry)
	return &entry, nil
}

// UpdateWorklog rewrites a previously recorded worklog entry.
func (m *MockClient) UpdateWorklog(ctx context.Context, issueKey, worklogID string, input *WorklogInput) (*WorklogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateWorklogCallCount++
	m.LastIssueKey = issueKey
	m.LastWorklogID = worklogID
	m.LastWorklogInput = input

	if m.MutationError != nil {
		return nil, m.MutationError
	}

	entries := m.Worklogs[issueKey]
	for i := range entries {
		if entries[i].ID == worklogID {
			entries[i].TimeSpentSeconds = input.TimeSpentSeconds
			if input.Started != "" {
				entries[i].Started = input.Started
			}
			if input.Comment != nil {
				entries[i].Comment = input.Comment
			}
			return &entries[i], nil
		}
	}
	return nil, &APIError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("worklog %s not found on %s", worklogID, issueKey),
		StatusCode: 404,
	}
}

// DeleteWorklog removes a previously recorded worklog entry.
func (m *MockClient) DeleteWorklog(ctx context.Context, issueKey, worklogID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteWorklogCallCount++
	m.LastIssueKey = issueKey
	m.LastWorklogID = worklogID

	if m.MutationError != nil {
		return m.MutationError
	}

	entries := m.Worklogs[issueKey]
	for i := range entries {
		if entries[i].ID == worklogID {
			m.Worklogs[issueKey] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return &APIError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("worklog %s not found on %s", worklogID, issueKey),
		StatusCode: 404,
	}
}

// Projects returns the configured project list.
func (m *MockClient) Projects(ctx context.Context) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProjectsCallCount++
	if m.ProjectsError != nil {
		return nil, m.ProjectsError
	}
	return m.ProjectList, nil
}

// Boards returns the configured board list.
func (m *MockClient) Boards(ctx context.Context) ([]Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BoardsCallCount++
	if m.BoardsError != nil {
		return nil, m.BoardsError
	}
	return m.BoardList, nil
}

// Board returns a configured board by id.
func (m *MockClient) Board(ctx context.Context, boardID int) (*Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BoardCallCount++
	if m.BoardError != nil {
		return nil, m.BoardError
	}
	for i := range m.BoardList {
		if m.BoardList[i].ID == boardID {
			return &m.BoardList[i], nil
		}
	}
	return nil, &APIError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("board %d not found", boardID),
		StatusCode: 404,
	}
}

// BoardConfiguration returns a configured board configuration by id.
func (m *MockClient) BoardConfiguration(ctx context.Context, boardID int) (*BoardConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BoardConfigurationCallCount++
	if m.BoardConfigError != nil {
		return nil, m.BoardConfigError
	}
	if cfg, ok := m.BoardConfigs[boardID]; ok {
		return cfg, nil
	}
	return nil, &APIError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("board %d configuration not found", boardID),
		StatusCode: 404,
	}
}

// AddIssue registers an issue for lookup by key.
func (m *MockClient) AddIssue(issue *Issue) {
	m.mu.Lock()
	m.Issues[issue.Key] = issue
	m.mu.Unlock()
}

// AddJQLResult configures the issues a JQL query returns.
func (m *MockClient) AddJQLResult(jql string, issues []Issue) {
	m.mu.Lock()
	m.JQLResults[jql] = issues
	m.mu.Unlock()
}

// AddWorklogs configures the worklog entries returned for an issue.
func (m *MockClient) AddWorklogs(issueKey string, entries []WorklogEntry) {
	m.mu.Lock()
	m.Worklogs[issueKey] = entries
	m.mu.Unlock()
}

// SetWorklogError configures IssueWorklogs to fail for one issue.
func (m *MockClient) SetWorklogError(issueKey string, err error) {
	m.mu.Lock()
	m.WorklogErrors[issueKey] = err
	m.mu.Unlock()
}

// MockConnector implements Connector, handing back one prepared client.
type MockConnector struct {
	mu sync.Mutex

	// Client is returned by Connect
	Client Client

	// Err simulates connection failures when set
	Err error

	ConnectCallCount int
	LastCredentials  Credentials
}

// NewMockConnector wraps a prepared client in a Connector.
func NewMockConnector(c Client) *MockConnector {
	return &MockConnector{Client: c}
}

// Connect returns the prepared client or the configured error.
func (c *MockConnector) Connect(creds Credentials) (Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ConnectCallCount++
	c.LastCredentials = creds
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Client, nil
}

// CreateTestUser creates a sample authenticated user for testing.
func CreateTestUser() *User {
	return &User{
		AccountID:    "5b10a2844c20165700ede21g",
		DisplayName:  "Jane Smith",
		EmailAddress: "jane.smith@example.com",
	}
}

// CreateTestIssue creates a sample issue for testing.
func CreateTestIssue(key, summary string) *Issue {
	return &Issue{
		ID:  "10000",
		Key: key,
		Fields: IssueFields{
			Summary:   summary,
			Status:    &Status{Name: "In Progress"},
			IssueType: &IssueType{Name: "Task"},
		},
	}
}

// CreateTestIssueWithParent creates a sample issue linked to an epic.
func CreateTestIssueWithParent(key, summary, parentKey, parentSummary string) Issue {
	return Issue{
		Key: key,
		Fields: IssueFields{
			Summary: summary,
			Parent: &Parent{
				Key:    parentKey,
				Fields: ParentFields{Summary: parentSummary},
			},
		},
	}
}

// CreateTestWorklog creates a sample worklog entry for testing.
func CreateTestWorklog(id string, author *Author, seconds int, started time.Time) WorklogEntry {
	return WorklogEntry{
		ID:               id,
		Author:           author,
		TimeSpentSeconds: seconds,
		Started:          started.Format(TimeLayout),
	}
}
