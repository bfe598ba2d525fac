package report

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/batch"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/cache"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/jql"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/metrics"
)

// Fan-out limits per orchestrator path. History and the by-user monthly
// report default to 10 (tunable via REPORT_CONCURRENCY); the single-epic
// heavy re-fetch stays at 6; project and board reports, whose issue sets
// are broader, fan out at 25.
const (
	DefaultFanOut     = 10
	epicConcurrency   = 6
	scopedConcurrency = 25
)

// Report scope types, used in cache keys and metric labels.
const (
	reportTypeUser    = "user"
	reportTypeProject = "project"
	reportTypeBoard   = "board"
)

// Metric labels for operations outside the monthly report cache.
const (
	opHistory = "history"
	opEpic    = "epic"
)

// Connector builds an authenticated client for a set of credentials.
type Connector interface {
	Connect(creds client.Credentials) (client.Client, error)
}

// UserResolver resolves the acting user, with short-lived caching so report
// paths never hammer the identity endpoint.
type UserResolver interface {
	GetCurrentUser(ctx context.Context, creds client.Credentials) (*client.User, error)
}

// Service builds worklog reports. Finished monthly reports are cached per
// credential identity, scope, and date range; primary-path errors propagate
// unretried while per-issue fan-out failures degrade to empty worklog lists.
type Service struct {
	clients Connector
	users   UserResolver
	reports *cache.Cache[*MonthlyReport]
	log     logr.Logger
	metrics *metrics.Metrics
	fanOut  int

	cacheTTL time.Duration
	clock    func() time.Time
}

// Option customizes a report Service.
type Option func(*Service)

// WithCacheTTL overrides the report cache's time-to-live.
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

// WithFanOut overrides the default per-issue fetch concurrency for the
// history and by-user report paths.
func WithFanOut(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.fanOut = limit
		}
	}
}

// WithMetrics attaches report instrumentation. Nil disables it.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a report service on top of a client connector and a
// user resolver.
func NewService(clients Connector, users UserResolver, log logr.Logger, opts ...Option) *Service {
	s := &Service{
		clients:  clients,
		users:    users,
		log:      log,
		fanOut:   DefaultFanOut,
		cacheTTL: cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	var cacheOpts []cache.Option
	if s.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(s.clock))
	}
	s.reports = cache.New[*MonthlyReport](s.cacheTTL, cacheOpts...)

	return s
}

// GetWorklogHistory lists the acting user's own worklog entries within the
// date range, newest first. TotalIssues counts the distinct issues touched.
func (s *Service) GetWorklogHistory(ctx context.Context, creds client.Credentials, startDate, endDate string) (*HistoryResult, error) {
	startMs, endMs, err := window(startDate, endDate)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetCurrentUser(ctx, creds)
	if err != nil {
		return nil, err
	}
	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	issues, err := c.SearchIssuesPaged(ctx, jql.WorklogRange(startDate, endDate), []string{"summary"})
	if err != nil {
		return nil, err
	}

	worklogsByIssue, err := s.collectWorklogs(ctx, c, issues, s.fanOut, opHistory)
	if err != nil {
		return nil, err
	}

	// The range query matches issues, not entries: other authors' entries
	// and out-of-window entries on the same issues must still be dropped.
	type datedItem struct {
		item      WorklogItem
		startedMs int64
	}
	var items []datedItem
	touched := make(map[string]bool)

	for i := range issues {
		issue := &issues[i]
		for j := range worklogsByIssue[issue.Key] {
			entry := &worklogsByIssue[issue.Key][j]
			if entry.Author == nil || entry.Author.AccountID != user.AccountID {
				continue
			}
			started, ok := entry.StartedTime()
			if !ok {
				continue
			}
			ms := started.UnixMilli()
			if ms < startMs || ms > endMs {
				continue
			}

			touched[issue.Key] = true
			items = append(items, datedItem{
				item: WorklogItem{
					IssueKey:         issue.Key,
					IssueSummary:     issue.Fields.Summary,
					WorklogID:        entry.ID,
					TimeSpentSeconds: entry.TimeSpentSeconds,
					Started:          entry.Started,
					Comment:          entry.CommentText(),
				},
				startedMs: ms,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].startedMs != items[j].startedMs {
			return items[i].startedMs > items[j].startedMs
		}
		if items[i].item.IssueKey != items[j].item.IssueKey {
			return items[i].item.IssueKey < items[j].item.IssueKey
		}
		return items[i].item.WorklogID < items[j].item.WorklogID
	})

	result := &HistoryResult{
		Worklogs:    make([]WorklogItem, len(items)),
		TotalIssues: len(touched),
	}
	for i, di := range items {
		result.Worklogs[i] = di.item
	}
	return result, nil
}

// GetEpicWorklogReport builds the flat single-epic report. Issues whose
// embedded worklog page already holds every entry are summed directly;
// heavier issues are re-fetched in full through the batch executor.
func (s *Service) GetEpicWorklogReport(ctx context.Context, creds client.Credentials, epicKey string) (*EpicWorklogReport, error) {
	if epicKey == "" {
		return nil, client.NewInvalidInputError("epic key cannot be empty")
	}
	start := time.Now()

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	epic, err := c.Issue(ctx, epicKey, "summary")
	if err != nil {
		return nil, err
	}

	children, err := c.SearchIssuesPaged(ctx, jql.EpicChildren([]string{epicKey}), []string{"summary", "worklog"})
	if err != nil {
		return nil, err
	}

	worklogsByIssue, err := s.collectWorklogs(ctx, c, children, epicConcurrency, opEpic)
	if err != nil {
		return nil, err
	}

	users, total := buildEpicUserSummaries(worklogsByIssue)

	s.metrics.ObserveReportBuild(opEpic, time.Since(start))
	return &EpicWorklogReport{
		EpicKey:          epic.Key,
		EpicSummary:      epic.Fields.Summary,
		TotalIssues:      len(children),
		TotalTimeSeconds: total,
		Users:            users,
	}, nil
}

// GetActiveEpics lists the epics whose issues the acting user logged work
// under within the date range, sorted by distinct issue count descending.
func (s *Service) GetActiveEpics(ctx context.Context, creds client.Credentials, startDate, endDate string) ([]ActiveEpic, error) {
	if _, _, err := window(startDate, endDate); err != nil {
		return nil, err
	}

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	issues, err := c.SearchIssuesPaged(ctx, jql.WorklogRange(startDate, endDate), []string{"parent", "summary"})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	actives := []ActiveEpic{}
	for i := range issues {
		parent := issues[i].Fields.Parent
		if parent == nil || parent.Key == "" {
			continue
		}
		pos, ok := index[parent.Key]
		if !ok {
			pos = len(actives)
			index[parent.Key] = pos
			actives = append(actives, ActiveEpic{EpicKey: parent.Key, EpicSummary: parent.Fields.Summary})
		}
		actives[pos].IssueCount++
	}

	sort.SliceStable(actives, func(i, j int) bool {
		if actives[i].IssueCount != actives[j].IssueCount {
			return actives[i].IssueCount > actives[j].IssueCount
		}
		return actives[i].EpicKey < actives[j].EpicKey
	})

	return actives, nil
}

// GetMonthlyReport builds the by-user monthly report: epics are discovered
// from the parents of issues the acting user logged work on in range, then
// every child of those epics is aggregated across all authors.
func (s *Service) GetMonthlyReport(ctx context.Context, creds client.Credentials, startDate, endDate string) (*MonthlyReport, error) {
	if _, _, err := window(startDate, endDate); err != nil {
		return nil, err
	}
	start := time.Now()

	user, err := s.users.GetCurrentUser(ctx, creds)
	if err != nil {
		return nil, err
	}

	key := cache.ReportKey(creds.BaseURL, creds.Email, reportTypeUser, user.AccountID, startDate, endDate)
	if cached, ok := s.reports.Get(key); ok {
		s.metrics.ObserveCache("report", true)
		return cached, nil
	}
	s.metrics.ObserveCache("report", false)

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	issues, err := c.SearchIssuesPaged(ctx, jql.WorklogRange(startDate, endDate), []string{"parent", "summary"})
	if err != nil {
		return nil, err
	}

	report, err := s.reportForEpics(ctx, c, epicsFromParents(issues), startDate, endDate, s.fanOut, reportTypeUser)
	if err != nil {
		return nil, err
	}

	s.reports.Set(key, report)
	s.metrics.ObserveReportBuild(reportTypeUser, time.Since(start))
	s.log.V(1).Info("monthly report built",
		"scope", reportTypeUser,
		"epics", len(report.Epics),
		"totalSeconds", report.TotalTimeSeconds)
	return report, nil
}

// GetMonthlyReportByProject builds the monthly report over every epic in a
// project, across all contributors, not just the acting user.
func (s *Service) GetMonthlyReportByProject(ctx context.Context, creds client.Credentials, projectKey, startDate, endDate string) (*MonthlyReport, error) {
	if projectKey == "" {
		return nil, client.NewInvalidInputError("project key cannot be empty")
	}
	if _, _, err := window(startDate, endDate); err != nil {
		return nil, err
	}
	start := time.Now()

	key := cache.ReportKey(creds.BaseURL, creds.Email, reportTypeProject, projectKey, startDate, endDate)
	if cached, ok := s.reports.Get(key); ok {
		s.metrics.ObserveCache("report", true)
		return cached, nil
	}
	s.metrics.ObserveCache("report", false)

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	epicIssues, err := c.SearchIssuesPaged(ctx, jql.ProjectEpics(projectKey), []string{"summary"})
	if err != nil {
		return nil, err
	}

	epics := make([]EpicInfo, 0, len(epicIssues))
	for i := range epicIssues {
		epics = append(epics, EpicInfo{Key: epicIssues[i].Key, Summary: epicIssues[i].Fields.Summary})
	}

	report, err := s.reportForEpics(ctx, c, epics, startDate, endDate, scopedConcurrency, reportTypeProject)
	if err != nil {
		return nil, err
	}

	s.reports.Set(key, report)
	s.metrics.ObserveReportBuild(reportTypeProject, time.Since(start))
	s.log.V(1).Info("monthly report built",
		"scope", reportTypeProject,
		"project", projectKey,
		"epics", len(report.Epics),
		"totalSeconds", report.TotalTimeSeconds)
	return report, nil
}

// GetMonthlyReportByBoard builds the monthly report over a board's issues.
// The board's saved filter scopes the search; a board without one degrades
// to its project, and a board with neither yields an empty report rather
// than an error.
func (s *Service) GetMonthlyReportByBoard(ctx context.Context, creds client.Credentials, boardID int, startDate, endDate string) (*MonthlyReport, error) {
	if boardID <= 0 {
		return nil, client.NewInvalidInputError("board id must be positive")
	}
	if _, _, err := window(startDate, endDate); err != nil {
		return nil, err
	}
	start := time.Now()

	key := cache.ReportKey(creds.BaseURL, creds.Email, reportTypeBoard, strconv.Itoa(boardID), startDate, endDate)
	if cached, ok := s.reports.Get(key); ok {
		s.metrics.ObserveCache("report", true)
		return cached, nil
	}
	s.metrics.ObserveCache("report", false)

	c, err := s.clients.Connect(creds)
	if err != nil {
		return nil, err
	}

	boardJQL := s.resolveBoardJQL(ctx, c, boardID, startDate, endDate)
	if boardJQL == "" {
		report, err := buildMonthlyReport(startDate, endDate, nil, nil, nil)
		if err != nil {
			return nil, err
		}
		s.reports.Set(key, report)
		return report, nil
	}

	issues, err := c.SearchIssuesPaged(ctx, boardJQL, []string{"parent", "summary", "worklog"})
	if err != nil {
		return nil, err
	}

	epics, issuesByEpic := groupByEpic(issues)

	var grouped []client.Issue
	for _, epic := range epics {
		grouped = append(grouped, issuesByEpic[epic.Key]...)
	}

	worklogsByIssue, err := s.collectWorklogs(ctx, c, grouped, scopedConcurrency, reportTypeBoard)
	if err != nil {
		return nil, err
	}

	report, err := buildMonthlyReport(startDate, endDate, epics, issuesByEpic, worklogsByIssue)
	if err != nil {
		return nil, err
	}

	s.reports.Set(key, report)
	s.metrics.ObserveReportBuild(reportTypeBoard, time.Since(start))
	s.log.V(1).Info("monthly report built",
		"scope", reportTypeBoard,
		"board", boardID,
		"epics", len(report.Epics),
		"totalSeconds", report.TotalTimeSeconds)
	return report, nil
}

// reportForEpics fetches every child of the given epics in one batched
// query, fans out per-issue worklog fetches, and aggregates.
func (s *Service) reportForEpics(ctx context.Context, c client.Client, epics []EpicInfo, startDate, endDate string, concurrency int, reportType string) (*MonthlyReport, error) {
	if len(epics) == 0 {
		return buildMonthlyReport(startDate, endDate, nil, nil, nil)
	}

	keys := make([]string, len(epics))
	for i, epic := range epics {
		keys[i] = epic.Key
	}

	children, err := c.SearchIssuesPaged(ctx, jql.EpicChildren(keys), []string{"parent", "summary"})
	if err != nil {
		return nil, err
	}

	issuesByEpic := make(map[string][]client.Issue)
	for i := range children {
		parent := children[i].Fields.Parent
		if parent == nil || parent.Key == "" {
			continue
		}
		issuesByEpic[parent.Key] = append(issuesByEpic[parent.Key], children[i])
	}

	worklogsByIssue, err := s.collectWorklogs(ctx, c, children, concurrency, reportType)
	if err != nil {
		return nil, err
	}

	return buildMonthlyReport(startDate, endDate, epics, issuesByEpic, worklogsByIssue)
}

// collectWorklogs fans out per-issue worklog fetches through the batch
// executor. Issues whose embedded worklog page is already complete are used
// without another request. A failed fetch is logged and contributes an
// empty list; only context cancellation aborts the fan-out.
func (s *Service) collectWorklogs(ctx context.Context, c client.Client, issues []client.Issue, concurrency int, reportType string) (map[string][]client.WorklogEntry, error) {
	lists, err := batch.Process(ctx, issues, func(ctx context.Context, issue client.Issue) ([]client.WorklogEntry, error) {
		if page := issue.Fields.Worklog; page != nil && page.Complete() {
			return page.Worklogs, nil
		}

		entries, err := c.IssueWorklogs(ctx, issue.Key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Error(err, "fetching issue worklogs failed", "issue", issue.Key, "reportType", reportType)
			s.metrics.ObserveFanoutFailure(reportType)
			return nil, nil
		}
		return entries, nil
	}, concurrency)
	if err != nil {
		return nil, err
	}

	worklogsByIssue := make(map[string][]client.WorklogEntry, len(issues))
	for i := range issues {
		worklogsByIssue[issues[i].Key] = lists[i]
	}
	return worklogsByIssue, nil
}

// resolveBoardJQL resolves the search scope for a board: its saved filter
// when one exists, otherwise its project. Lookup failures degrade; an empty
// string means the board has no resolvable scope.
func (s *Service) resolveBoardJQL(ctx context.Context, c client.Client, boardID int, startDate, endDate string) string {
	cfg, err := c.BoardConfiguration(ctx, boardID)
	if err != nil {
		s.log.Error(err, "board configuration lookup failed, falling back to board project", "board", boardID)
		cfg = nil
	}

	if cfg != nil && cfg.Filter != nil && cfg.Filter.ID != "" {
		filterID, err := strconv.Atoi(cfg.Filter.ID)
		if err == nil {
			return jql.BoardFilter(filterID, startDate, endDate)
		}
		s.log.Info("board filter id is not numeric, falling back to board project",
			"board", boardID, "filterId", cfg.Filter.ID)
	}

	if cfg != nil && cfg.Location != nil && cfg.Location.Key != "" {
		return jql.BoardProjectFallback(cfg.Location.Key, startDate, endDate)
	}

	board, err := c.Board(ctx, boardID)
	if err != nil {
		s.log.Error(err, "board lookup failed, returning empty report", "board", boardID)
		return ""
	}
	if board.Location != nil && board.Location.ProjectKey != "" {
		return jql.BoardProjectFallback(board.Location.ProjectKey, startDate, endDate)
	}
	return ""
}

// epicsFromParents extracts the distinct parent epics of the given issues,
// preserving first-seen order.
func epicsFromParents(issues []client.Issue) []EpicInfo {
	seen := make(map[string]bool)
	var epics []EpicInfo
	for i := range issues {
		parent := issues[i].Fields.Parent
		if parent == nil || parent.Key == "" || seen[parent.Key] {
			continue
		}
		seen[parent.Key] = true
		epics = append(epics, EpicInfo{Key: parent.Key, Summary: parent.Fields.Summary})
	}
	return epics
}

// groupByEpic buckets issues under their parent epics. Issues without a
// parent cannot contribute to any epic section and are dropped.
func groupByEpic(issues []client.Issue) ([]EpicInfo, map[string][]client.Issue) {
	epics := epicsFromParents(issues)
	issuesByEpic := make(map[string][]client.Issue)
	for i := range issues {
		parent := issues[i].Fields.Parent
		if parent == nil || parent.Key == "" {
			continue
		}
		issuesByEpic[parent.Key] = append(issuesByEpic[parent.Key], issues[i])
	}
	return epics, issuesByEpic
}
