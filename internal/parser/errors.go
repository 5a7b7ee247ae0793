package parser

import "fmt"

// UnsupportedFormatError is returned before any parsing happens when a file
// extension has no registered parser.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// MissingDependencyError is returned when a format is known but its backing
// extractor is not available in this build. It must be surfaced to the
// caller, never silently skipped.
type MissingDependencyError struct {
	Format string
	Hint   string
}

func (e *MissingDependencyError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("no extractor available for %s files", e.Format)
	}
	return fmt.Sprintf("no extractor available for %s files: %s", e.Format, e.Hint)
}
