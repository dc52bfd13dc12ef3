package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrParse     = errors.New("unparseable timestamp")
	ErrFormat    = errors.New("malformed row")
	ErrNoHeader  = errors.New("missing header row")
	ErrNotLoaded = errors.New("measurement table not loaded")
)

// ParseError reports a timestamp that could not be parsed. Row is the
// zero-based index of the data row (title and header rows excluded).
type ParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse Time value %q", e.Row, e.Value)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// FormatError reports a data row with the wrong number of fields or a cell
// that is not numeric once its unit suffix is removed.
type FormatError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d, column %q: %s (value %q)", e.Row, e.Column, e.Reason, e.Value)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
