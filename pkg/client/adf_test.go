package client

import (
	"encoding/json"
	"testing"
)

func TestNewComment_Roundtrip(t *testing.T) {
	entry := WorklogEntry{Comment: NewComment("fixed the flaky build")}

	if got := entry.CommentText(); got != "fixed the flaky build" {
		t.Errorf("Expected flattened comment to roundtrip, got %q", got)
	}
}

func TestNewComment_Shape(t *testing.T) {
	raw := NewComment("hello")

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Expected valid JSON document, got: %v", err)
	}
	if doc["type"] != "doc" {
		t.Errorf("Expected type doc, got %v", doc["type"])
	}
	if doc["version"] != float64(1) {
		t.Errorf("Expected version 1, got %v", doc["version"])
	}
}

func TestCommentText_MultipleParagraphs(t *testing.T) {
	entry := WorklogEntry{Comment: json.RawMessage(`{
		"type": "doc",
		"version": 1,
		"content": [
			{"type": "paragraph", "content": [{"type": "text", "text": "first "}, {"type": "text", "text": "line"}]},
			{"type": "paragraph", "content": [{"type": "text", "text": "second line"}]}
		]
	}`)}

	if got := entry.CommentText(); got != "first line\nsecond line" {
		t.Errorf("Expected paragraphs joined by newline, got %q", got)
	}
}

func TestCommentText_PlainString(t *testing.T) {
	entry := WorklogEntry{Comment: json.RawMessage(`"legacy comment"`)}

	if got := entry.CommentText(); got != "legacy comment" {
		t.Errorf("Expected plain string passthrough, got %q", got)
	}
}

func TestCommentText_EmptyAndMalformed(t *testing.T) {
	if got := (&WorklogEntry{}).CommentText(); got != "" {
		t.Errorf("Expected empty string for missing comment, got %q", got)
	}
	if got := (&WorklogEntry{Comment: json.RawMessage(`{{`)}).CommentText(); got != "" {
		t.Errorf("Expected empty string for malformed comment, got %q", got)
	}
}
