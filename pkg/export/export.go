// Package export writes finished reports to disk as YAML or JSON so they
// can be archived or handed to other tooling.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", &ExportError{
			Type:    "invalid_input",
			Message: fmt.Sprintf("unsupported format: %s (expected yaml or json)", name),
		}
	}
}

// Writer defines the interface for report file writing.
// This enables dependency injection and testing with mock implementations.
type Writer interface {
	WriteReport(report interface{}, path string, format Format) error
}

// FileWriter implements Writer against the local filesystem.
type FileWriter struct{}

// NewFileWriter creates a report file writer.
func NewFileWriter() Writer {
	return &FileWriter{}
}

// WriteReport encodes the report and writes it to path, creating parent
// directories as needed.
func (w *FileWriter) WriteReport(report interface{}, path string, format Format) error {
	if report == nil {
		return &ExportError{
			Type:    "invalid_input",
			Message: "report cannot be nil",
		}
	}
	if path == "" {
		return &ExportError{
			Type:    "invalid_input",
			Message: "output path cannot be empty",
		}
	}

	data, err := Encode(report, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &ExportError{
				Type:    "file_error",
				Message: fmt.Sprintf("failed to create directory: %s", dir),
				Path:    path,
				Err:     err,
			}
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &ExportError{
			Type:    "file_error",
			Message: "failed to write report file",
			Path:    path,
			Err:     err,
		}
	}
	return nil
}

// Encode serializes a report in the requested format. JSON output is
// indented and newline-terminated so files diff cleanly.
func Encode(report interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, &ExportError{
				Type:    "serialization_error",
				Message: "failed to marshal report to YAML",
				Err:     err,
			}
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, &ExportError{
				Type:    "serialization_error",
				Message: "failed to marshal report to JSON",
				Err:     err,
			}
		}
		return append(data, '\n'), nil
	default:
		return nil, &ExportError{
			Type:    "invalid_input",
			Message: fmt.Sprintf("unsupported format: %s", format),
		}
	}
}
