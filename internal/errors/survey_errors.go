package errors

import (
	"errors"
	"fmt"
)

// Sentinels matched by the survey error kinds through errors.Is.
var (
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrEmptyYear      = errors.New("empty year")
	ErrMalformedCSV   = errors.New("malformed csv")
)

// SchemaMismatchError reports a survey year whose raw data cannot be mapped
// onto the canonical columns.
type SchemaMismatchError struct {
	Year   int
	Field  string // canonical column
	Column string // source column, if known
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	switch {
	case e.Column != "" && e.Field != "":
		return fmt.Sprintf("schema mismatch for %d: %s (source column %q): %s", e.Year, e.Field, e.Column, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("schema mismatch for %d: %s: %s", e.Year, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema mismatch for %d: %s", e.Year, e.Reason)
}

// Is matches ErrSchemaMismatch.
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// NewSchemaMismatchError creates a SchemaMismatchError
func NewSchemaMismatchError(year int, field, column, reason string) *SchemaMismatchError {
	return &SchemaMismatchError{Year: year, Field: field, Column: column, Reason: reason}
}

// EmptyYearError reports a ratio requested for a year with no retained rows.
type EmptyYearError struct {
	Year   int
	Column string
}

func (e *EmptyYearError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("no responses for %d", e.Year)
	}
	return fmt.Sprintf("no responses for %d: cannot compute %s ratio", e.Year, e.Column)
}

// Is matches ErrEmptyYear.
func (e *EmptyYearError) Is(target error) bool {
	return target == ErrEmptyYear
}

// NewEmptyYearError creates an EmptyYearError
func NewEmptyYearError(year int, column string) *EmptyYearError {
	return &EmptyYearError{Year: year, Column: column}
}

// MalformedCSVError wraps a read failure of a CSV file. Line is 0 when the
// reader could not attribute the failure to a record.
type MalformedCSVError struct {
	Path  string
	Line  int
	Cause error
}

func (e *MalformedCSVError) Error() string {
	src := e.Path
	if src == "" {
		src = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("malformed csv %s at line %d: %v", src, e.Line, e.Cause)
	}
	return fmt.Sprintf("malformed csv %s: %v", src, e.Cause)
}

// Unwrap returns the reader error
func (e *MalformedCSVError) Unwrap() error {
	return e.Cause
}

// Is matches ErrMalformedCSV.
func (e *MalformedCSVError) Is(target error) bool {
	return target == ErrMalformedCSV
}

// NewMalformedCSVError creates a MalformedCSVError
func NewMalformedCSVError(path string, line int, cause error) *MalformedCSVError {
	return &MalformedCSVError{Path: path, Line: line, Cause: cause}
}
