// Package tracker exposes the user-facing tracker surface: identity, task
// search, worklog mutations, and project/board discovery. Identity and
// discovery results are cached per credential set; mutations pass through.
package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/go-logr/logr"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/cache"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/jql"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/metrics"
)

// taskPageSize bounds the task list to a single page.
const taskPageSize = 50

var taskFields = []string{"summary", "status", "issuetype", "project"}

// Connector builds an authenticated client for a set of credentials.
type Connector interface {
	Connect(creds client.Credentials) (client.Client, error)
}

// Service answers tracker queries for arbitrary credential sets.
type Service struct {
	clients Connector
	log     logr.Logger
	metrics *metrics.Metrics

	users    *cache.Cache[*client.User]
	projects *cache.Cache[[]Project]
	boards   *cache.Cache[[]Board]

	cacheTTL time.Duration
	clock    func() time.Time
}

// Option customizes a tracker Service.
type Option func(*Service)

// WithCacheTTL overrides the user, project and board caches' time-to-live.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithClock injects the cache clock, used by tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithMetrics attaches cache instrumentation. Nil disables it.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a tracker service on top of a client connector.
func NewService(clients Connector, log logr.Logger, opts ...Option) *Service {
	s := &Service{
		clients:  clients,
		log:      log,
		cacheTTL: cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	var cacheOpts []cache.Option
	if s.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(s.clock))
	}
	s.users = cache.New[*client.User](s.cacheTTL, cacheOpts...)
	s.projects = cache.New[[]Project](s.cacheTTL, cacheOpts...)
	s.boards = cache.New[[]Board](s.cacheTTL, cacheOpts...)

	return s
}

// GetCurrentUser resolves the authenticated user. Within the TTL, repeated
// lookups for the same credential identity cost exactly one upstream call.
func (s *Service) GetCurrentUser(ctx context.Context, creds client.Credentials) (*client.User, error) {
	key := cache.Key(creds.BaseURL, creds.Email)
	if user, ok := s.users.Get(key); ok {
		s.metrics.ObserveCache("user", true)
		return user, nil
	}
	s.metrics.ObserveCache("user", false)

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	s.users.Set(key, user)
	s.log.V(1).Info("resolved current user", "accountId", user.AccountID)
	return user, nil
}

// SearchMyTasks lists tasks assigned to the current user, newest first,
// capped at one page.
func (s *Service) SearchMyTasks(ctx context.Context, creds client.Credentials, query TaskQuery) (*TaskList, error) {
	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	page, err := c.SearchIssues(ctx, jql.TaskSearch(query.SearchText, query.Status), taskFields, taskPageSize)
	if err != nil {
		return nil, err
	}

	list := &TaskList{
		Tasks: make([]Task, 0, len(page.Issues)),
		Total: len(page.Issues),
	}
	for i := range page.Issues {
		list.Tasks = append(list.Tasks, taskFromIssue(&page.Issues[i]))
	}
	return list, nil
}

func taskFromIssue(issue *client.Issue) Task {
	task := Task{Key: issue.Key, Summary: issue.Fields.Summary}
	if issue.Fields.Status != nil {
		task.Status = issue.Fields.Status.Name
	}
	if issue.Fields.IssueType != nil {
		task.IssueType = issue.Fields.IssueType.Name
	}
	if issue.Fields.Project != nil {
		task.Project = issue.Fields.Project.Key
	}
	return task
}

// CreateWorklog logs time against an issue and returns the stored entry.
func (s *Service) CreateWorklog(ctx context.Context, creds client.Credentials, issueKey string, input *client.WorklogInput) (*client.WorklogEntry, error) {
	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}
	return c.AddWorklog(ctx, issueKey, input)
}

// UpdateWorklog rewrites an existing worklog entry and returns the stored
// result.
func (s *Service) UpdateWorklog(ctx context.Context, creds client.Credentials, issueKey, worklogID string, input *client.WorklogInput) (*client.WorklogEntry, error) {
	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}
	return c.UpdateWorklog(ctx, issueKey, worklogID, input)
}

// DeleteWorklog removes a worklog entry.
func (s *Service) DeleteWorklog(ctx context.Context, creds client.Credentials, issueKey, worklogID string) (*DeleteResult, error) {
	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}
	if err := c.DeleteWorklog(ctx, issueKey, worklogID); err != nil {
		return nil, err
	}
	return &DeleteResult{Success: true}, nil
}

// GetMyProjects lists the projects visible to the credential set, sorted by
// key and cached.
func (s *Service) GetMyProjects(ctx context.Context, creds client.Credentials) ([]Project, error) {
	key := cache.Key(creds.BaseURL, creds.Email)
	if projects, ok := s.projects.Get(key); ok {
		s.metrics.ObserveCache("projects", true)
		return projects, nil
	}
	s.metrics.ObserveCache("projects", false)

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}
	upstream, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(upstream))
	for _, p := range upstream {
		projects = append(projects, Project{Key: p.Key, Name: p.Name})
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Key < projects[j].Key
	})

	s.projects.Set(key, projects)
	return projects, nil
}

// GetBoards lists the boards visible to the credential set, sorted by name
// and cached.
func (s *Service) GetBoards(ctx context.Context, creds client.Credentials) ([]Board, error) {
	key := cache.Key(creds.BaseURL, creds.Email)
	if boards, ok := s.boards.Get(key); ok {
		s.metrics.ObserveCache("boards", true)
		return boards, nil
	}
	s.metrics.ObserveCache("boards", false)

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}
	upstream, err := c.Boards(ctx)
	if err != nil {
		return nil, err
	}

	boards := make([]Board, 0, len(upstream))
	for _, b := range upstream {
		board := Board{ID: b.ID, Name: b.Name}
		if b.Location != nil {
			board.ProjectKey = b.Location.ProjectKey
		}
		boards = append(boards, board)
	}
	sort.SliceStable(boards, func(i, j int) bool {
		if boards[i].Name != boards[j].Name {
			return boards[i].Name < boards[j].Name
		}
		return boards[i].ID < boards[j].ID
	})

	s.boards.Set(key, boards)
	return boards, nil
}
