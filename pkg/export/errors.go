package export

import "fmt"

// ExportError represents errors that occur while writing report files
type ExportError struct {
	Type    string // Type of error (invalid_input, serialization_error, file_error)
	Message string // Human-readable error message
	Path    string // Destination path, when known
	Err     error  // Underlying error
}

func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export error (%s) for %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("export error (%s): %s", e.Type, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsSerializationError checks if the error is related to encoding the report
func IsSerializationError(err error) bool {
	if exportErr, ok := err.(*ExportError); ok {
		return exportErr.Type == "serialization_error"
	}
	return false
}

// IsFileError checks if the error is related to file operations
func IsFileError(err error) bool {
	if exportErr, ok := err.(*ExportError); ok {
		return exportErr.Type == "file_error"
	}
	return false
}

// IsInvalidInputError checks if the error is related to invalid input
func IsInvalidInputError(err error) bool {
	if exportErr, ok := err.(*ExportError); ok {
		return exportErr.Type == "invalid_input"
	}
	return false
}
