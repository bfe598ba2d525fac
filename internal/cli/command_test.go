package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCommand_Subcommands(t *testing.T) {
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	expected := []string{"whoami", "tasks", "worklog", "history", "report", "epic", "epics", "projects", "boards"}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("Expected subcommand '%s' to be registered", name)
		}
	}
}

func TestReportCommand_Flags(t *testing.T) {
	for _, name := range []string{"start", "end", "project", "board", "output", "format"} {
		if reportCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected report command to have '%s' flag", name)
		}
	}

	shorthands := map[string]string{"project": "p", "board": "b", "output": "o"}
	for name, short := range shorthands {
		flag := reportCmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if flag.Shorthand != short {
			t.Errorf("Expected %s flag shorthand to be '%s', got '%s'", name, short, flag.Shorthand)
		}
	}
}

func TestTasksCommand_Flags(t *testing.T) {
	searchFlag := tasksCmd.Flags().Lookup("search")
	if searchFlag == nil {
		t.Fatal("Expected tasks command to have 'search' flag")
	}
	if searchFlag.Shorthand != "s" {
		t.Errorf("Expected search flag shorthand to be 's', got '%s'", searchFlag.Shorthand)
	}

	statusFlag := tasksCmd.Flags().Lookup("status")
	if statusFlag == nil {
		t.Fatal("Expected tasks command to have 'status' flag")
	}
	if statusFlag.DefValue != "all" {
		t.Errorf("Expected status flag default to be 'all', got '%s'", statusFlag.DefValue)
	}
}

func TestWorklogCommand_Flags(t *testing.T) {
	for _, cmd := range []*cobra.Command{worklogAddCmd, worklogUpdateCmd} {
		timeFlag := cmd.Flags().Lookup("time")
		if timeFlag == nil {
			t.Fatalf("Expected %s command to have 'time' flag", cmd.Name())
		}
		if timeFlag.Shorthand != "t" {
			t.Errorf("Expected time flag shorthand to be 't', got '%s'", timeFlag.Shorthand)
		}

		commentFlag := cmd.Flags().Lookup("comment")
		if commentFlag == nil {
			t.Fatalf("Expected %s command to have 'comment' flag", cmd.Name())
		}
		if commentFlag.Shorthand != "c" {
			t.Errorf("Expected comment flag shorthand to be 'c', got '%s'", commentFlag.Shorthand)
		}

		if cmd.Flags().Lookup("started") == nil {
			t.Errorf("Expected %s command to have 'started' flag", cmd.Name())
		}
	}
}

func TestReportCommand_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{
			name:     "both project and board provided",
			args:     []string{"--start=2024-01-01", "--end=2024-01-31", "--project=PROJ", "--board=42"},
			errorMsg: "cannot specify both --project and --board flags",
		},
		{
			name:     "missing dates",
			args:     []string{},
			errorMsg: "both --start and --end are required",
		},
		{
			name:     "malformed start date",
			args:     []string{"--start=2024-13-01", "--end=2024-01-31"},
			errorMsg: "invalid --start date",
		},
		{
			name:     "end before start",
			args:     []string{"--start=2024-02-01", "--end=2024-01-01"},
			errorMsg: "is before --start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a new command instance for isolated testing
			cmd := &cobra.Command{
				Use:  "report",
				RunE: runReport,
			}
			cmd.Flags().String("start", "", "Range start date")
			cmd.Flags().String("end", "", "Range end date")
			cmd.Flags().StringP("project", "p", "", "Project scope")
			cmd.Flags().IntP("board", "b", 0, "Board scope")

			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetErr(&buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if err == nil {
				t.Fatalf("Expected validation error, but command succeeded")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Expected error to contain '%s', but got: %v", tt.errorMsg, err)
			}
		})
	}
}

func TestWorklogAddCommand_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{
			name:     "lowercase issue key",
			args:     []string{"proj-123", "--time=30m"},
			errorMsg: "does not match the expected format",
		},
		{
			name:     "time below a minute",
			args:     []string{"PROJ-123", "--time=30s"},
			errorMsg: "at least one minute",
		},
		{
			name:     "missing time flag",
			args:     []string{"PROJ-123"},
			errorMsg: "required flag",
		},
		{
			name:     "malformed started value",
			args:     []string{"PROJ-123", "--time=1h", "--started=soon"},
			errorMsg: "invalid --started value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a new command instance for isolated testing
			cmd := &cobra.Command{
				Use:  "add",
				Args: cobra.ExactArgs(1),
				RunE: runWorklogAdd,
			}
			cmd.Flags().StringP("time", "t", "", "Time spent")
			cmd.Flags().String("started", "", "When the work started")
			cmd.Flags().StringP("comment", "c", "", "Worklog comment")
			_ = cmd.MarkFlagRequired("time")

			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetErr(&buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if err == nil {
				t.Fatalf("Expected validation error, but command succeeded")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Expected error to contain '%s', but got: %v", tt.errorMsg, err)
			}
		})
	}
}
