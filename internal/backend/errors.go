package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrImport is the sentinel matched by every ImportError.
	ErrImport = errors.New("import failed")
	// ErrExport is the sentinel matched by every ExportError.
	ErrExport = errors.New("export failed")
	// ErrUnknownScheme is returned when no backend serves a URI.
	ErrUnknownScheme = errors.New("no backend for uri scheme")
)

// ImportError reports a source that could not be read or decoded. Line is
// the 1-based line of a text source, or 0 when the failure has no position.
type ImportError struct {
	Source string
	Line   int
	Err    error
}

func (e *ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("import %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("import %s: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() []error { return []error{ErrImport, e.Err} }

// ExportError reports a destination that could not be written.
type ExportError struct {
	Destination string
	Err         error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Destination, e.Err)
}

func (e *ExportError) Unwrap() []error { return []error{ErrExport, e.Err} }

// NewImportError wraps err for source. A nil err yields nil.
func NewImportError(source string, line int, err error) error {
	if err == nil {
		return nil
	}
	return &ImportError{Source: source, Line: line, Err: err}
}

// NewExportError wraps err for destination. A nil err yields nil.
func NewExportError(destination string, err error) error {
	if err == nil {
		return nil
	}
	return &ExportError{Destination: destination, Err: err}
}
