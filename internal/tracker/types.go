package tracker

// TaskQuery narrows the current user's task list. An empty or "all" status
// skips the status clause; empty search text skips the text clause.
type TaskQuery struct {
	SearchText string
	Status     string
}

// Task is one row of the current user's task list.
type Task struct {
	Key       string `json:"key" yaml:"key"`
	Summary   string `json:"summary" yaml:"summary"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`
	IssueType string `json:"issueType,omitempty" yaml:"issueType,omitempty"`
	Project   string `json:"project,omitempty" yaml:"project,omitempty"`
}

// TaskList is a single page of tasks. Total counts the returned page, not
// the full upstream match set.
type TaskList struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
	Total int    `json:"total" yaml:"total"`
}

// Project identifies a project visible to the credential set.
type Project struct {
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name" yaml:"name"`
}

// Board identifies an agile board. ProjectKey is empty for boards without a
// project location.
type Board struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	ProjectKey string `json:"projectKey,omitempty" yaml:"projectKey,omitempty"`
}

// DeleteResult acknowledges a worklog deletion.
type DeleteResult struct {
	Success bool `json:"success" yaml:"success"`
}
