package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/client"
	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/jql"
)

var testCreds = client.Credentials{
	BaseURL:  "https://example.atlassian.net",
	Email:    "jane.smith@example.com",
	APIToken: "token",
}

func newTestService(mock *client.MockClient, opts ...Option) (*Service, *client.MockConnector) {
	connector := client.NewMockConnector(mock)
	return NewService(connector, logr.Discard(), opts...), connector
}

func TestGetCurrentUser_CachesWithinTTL(t *testing.T) {
	mock := client.NewMockClient()

	now := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestService(mock,
		WithCacheTTL(5*time.Minute),
		WithClock(func() time.Time { return now }),
	)

	first, err := svc.GetCurrentUser(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", first.DisplayName)

	second, err := svc.GetCurrentUser(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, mock.CurrentUserCallCount)

	// Past the TTL the identity is re-fetched.
	now = now.Add(5 * time.Minute)
	_, err = svc.GetCurrentUser(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CurrentUserCallCount)
}

func TestGetCurrentUser_KeyedByCredentialIdentity(t *testing.T) {
	mock := client.NewMockClient()
	svc, _ := newTestService(mock)

	_, err := svc.GetCurrentUser(context.Background(), testCreds)
	require.NoError(t, err)

	otherCreds := testCreds
	otherCreds.Email = "someone.else@example.com"
	_, err = svc.GetCurrentUser(context.Background(), otherCreds)
	require.NoError(t, err)

	assert.Equal(t, 2, mock.CurrentUserCallCount)
}

func TestGetCurrentUser_ErrorNotCached(t *testing.T) {
	mock := client.NewMockClient()
	mock.CurrentUserError = &client.APIError{
		Type:       client.ErrorTypeAuthentication,
		Message:    "authentication failed - check Jira credentials",
		StatusCode: 401,
	}
	svc, _ := newTestService(mock)

	_, err := svc.GetCurrentUser(context.Background(), testCreds)
	assert.True(t, client.IsAuthenticationError(err))

	mock.CurrentUserError = nil
	user, err := svc.GetCurrentUser(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.DisplayName)
	assert.Equal(t, 2, mock.CurrentUserCallCount)
}

func TestSearchMyTasks(t *testing.T) {
	mock := client.NewMockClient()

	issue := client.Issue{
		Key: "DEMO-42",
		Fields: client.IssueFields{
			Summary:   "Ship the report engine",
			Status:    &client.Status{Name: "In Progress"},
			IssueType: &client.IssueType{Name: "Task"},
			Project:   &client.Project{Key: "DEMO", Name: "Demo"},
		},
	}
	bare := client.Issue{Key: "DEMO-43", Fields: client.IssueFields{Summary: "Loose end"}}
	mock.AddJQLResult(jql.TaskSearch("report", "In Progress"), []client.Issue{issue, bare})

	svc, _ := newTestService(mock)
	list, err := svc.SearchMyTasks(context.Background(), testCreds, TaskQuery{
		SearchText: "report",
		Status:     "In Progress",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, Task{
		Key:       "DEMO-42",
		Summary:   "Ship the report engine",
		Status:    "In Progress",
		IssueType: "Task",
		Project:   "DEMO",
	}, list.Tasks[0])
	assert.Equal(t, Task{Key: "DEMO-43", Summary: "Loose end"}, list.Tasks[1])

	assert.Equal(t, taskFields, mock.LastFields)
}

func TestSearchMyTasks_StatusAllSkipsClause(t *testing.T) {
	mock := client.NewMockClient()
	mock.AddJQLResult(jql.TaskSearch("", jql.StatusAll), nil)

	svc, _ := newTestService(mock)
	list, err := svc.SearchMyTasks(context.Background(), testCreds, TaskQuery{Status: jql.StatusAll})
	require.NoError(t, err)

	assert.Zero(t, list.Total)
	assert.NotContains(t, mock.LastJQL, "status =")
}

func TestCreateWorklog_Passthrough(t *testing.T) {
	mock := client.NewMockClient()
	svc, _ := newTestService(mock)

	entry, err := svc.CreateWorklog(context.Background(), testCreds, "DEMO-1", &client.WorklogInput{
		TimeSpentSeconds: 5400,
		Started:          time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC).Format(client.TimeLayout),
		Comment:          client.NewComment("Paired on the parser"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 5400, entry.TimeSpentSeconds)
	assert.Equal(t, "Paired on the parser", entry.CommentText())
	assert.Equal(t, 1, mock.AddWorklogCallCount)
}

func TestCreateWorklog_InvalidInput(t *testing.T) {
	svc, _ := newTestService(client.NewMockClient())

	_, err := svc.CreateWorklog(context.Background(), testCreds, "DEMO-1", &client.WorklogInput{})
	assert.True(t, client.IsInvalidInputError(err))
}

func TestUpdateWorklog_Passthrough(t *testing.T) {
	mock := client.NewMockClient()
	svc, _ := newTestService(mock)

	created, err := svc.CreateWorklog(context.Background(), testCreds, "DEMO-1", &client.WorklogInput{
		TimeSpentSeconds: 1800,
		Started:          time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC).Format(client.TimeLayout),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateWorklog(context.Background(), testCreds, "DEMO-1", created.ID, &client.WorklogInput{
		TimeSpentSeconds: 3600,
		Started:          created.Started,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 3600, updated.TimeSpentSeconds)
}

func TestDeleteWorklog(t *testing.T) {
	mock := client.NewMockClient()
	svc, _ := newTestService(mock)

	created, err := svc.CreateWorklog(context.Background(), testCreds, "DEMO-1", &client.WorklogInput{
		TimeSpentSeconds: 600,
		Started:          time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC).Format(client.TimeLayout),
	})
	require.NoError(t, err)

	result, err := svc.DeleteWorklog(context.Background(), testCreds, "DEMO-1", created.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = svc.DeleteWorklog(context.Background(), testCreds, "DEMO-1", created.ID)
	assert.True(t, client.IsNotFoundError(err))
}

func TestGetMyProjects_SortsAndCaches(t *testing.T) {
	mock := client.NewMockClient()
	mock.ProjectList = []client.Project{
		{ID: "2", Key: "OPS", Name: "Operations"},
		{ID: "1", Key: "DEMO", Name: "Demo"},
	}

	svc, _ := newTestService(mock)
	projects, err := svc.GetMyProjects(context.Background(), testCreds)
	require.NoError(t, err)

	assert.Equal(t, []Project{
		{Key: "DEMO", Name: "Demo"},
		{Key: "OPS", Name: "Operations"},
	}, projects)

	_, err = svc.GetMyProjects(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.ProjectsCallCount)
}

func TestGetBoards_SortsAndCaches(t *testing.T) {
	mock := client.NewMockClient()
	mock.BoardList = []client.Board{
		{ID: 2, Name: "Ops board", Type: "kanban", Location: &client.BoardLocation{ProjectKey: "OPS"}},
		{ID: 1, Name: "Demo board", Type: "scrum"},
	}

	svc, _ := newTestService(mock)
	boards, err := svc.GetBoards(context.Background(), testCreds)
	require.NoError(t, err)

	assert.Equal(t, []Board{
		{ID: 1, Name: "Demo board"},
		{ID: 2, Name: "Ops board", ProjectKey: "OPS"},
	}, boards)

	_, err = svc.GetBoards(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.BoardsCallCount)
}

func TestConnectErrorPropagates(t *testing.T) {
	mock := client.NewMockClient()
	svc, connector := newTestService(mock)
	connector.Err = client.NewInvalidInputError("base URL cannot be empty")

	_, err := svc.GetCurrentUser(context.Background(), testCreds)
	assert.True(t, client.IsInvalidInputError(err))

	_, err = svc.SearchMyTasks(context.Background(), testCreds, TaskQuery{})
	assert.Error(t, err)

	_, err = svc.GetMyProjects(context.Background(), testCreds)
	assert.Error(t, err)
}
