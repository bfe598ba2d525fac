package client

import (
	"encoding/json"
	"strings"
)

// adfNode is the minimal slice of the Atlassian Document Format this engine
// understands: enough to build a one-paragraph comment and to pull plain
// text back out of arbitrary documents.
type adfNode struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// NewComment builds a single-paragraph rich-text comment document for
// worklog create and update payloads.
func NewComment(text string) json.RawMessage {
	doc := adfNode{
		Type:    "doc",
		Version: 1,
		Content: []adfNode{
			{
				Type:    "paragraph",
				Content: []adfNode{{Type: "text", Text: text}},
			},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil
	}
	return raw
}

// CommentText flattens the entry's comment document into plain text,
// best-effort. Paragraph-level nodes become separate lines. Comments that
// are plain JSON strings (older API shapes) are returned as-is; anything
// unparseable yields an empty string.
func (w *WorklogEntry) CommentText() string {
	if len(w.Comment) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(w.Comment, &plain); err == nil {
		return plain
	}

	var doc adfNode
	if err := json.Unmarshal(w.Comment, &doc); err != nil {
		return ""
	}

	var blocks []string
	for _, node := range doc.Content {
		if text := flattenADF(node); text != "" {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, "\n")
}

// flattenADF concatenates the text leaves under a node.
func flattenADF(node adfNode) string {
	if node.Type == "text" {
		return node.Text
	}
	var sb strings.Builder
	for _, child := range node.Content {
		sb.WriteString(flattenADF(child))
	}
	return sb.String()
}
