package importer

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an import header. The
// import is aborted before any row is written.
type SchemaError struct {
	Kind    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s import: missing required columns: %s", e.Kind, strings.Join(e.Missing, ", "))
}

// ParseError describes a malformed field in one row. Rows with parse errors
// are skipped, not aborted.
type ParseError struct {
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SkipReason classifies why a row was not imported.
type SkipReason string

const (
	SkipDuplicate       SkipReason = "duplicate"
	SkipUnknownEmployee SkipReason = "unknown_employee"
	SkipParseError      SkipReason = "parse_error"
	SkipMissingValue    SkipReason = "missing_value"
)

// RowIssue records one skipped row. Line is the 1-based line in the source.
type RowIssue struct {
	Line   int        `json:"line"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail"`
}
