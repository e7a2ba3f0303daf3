// Package parsererror defines the error types returned at the I/O edges of the
// ledger pipeline. The analysis core itself degrades to empty results instead
// of returning errors; these types only describe why nothing usable came out.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderNotFound means no header row could be located in a sheet.
	ErrHeaderNotFound = errors.New("header row not found")
	// ErrNoData means a computation had no usable input values.
	ErrNoData = errors.New("no data")
	// ErrUnsupportedFormat means the input file type is not a known workbook format.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// ParseError represents a cell that could not be interpreted.
type ParseError struct {
	Sheet  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse row %d column %s='%s': %v",
		e.Sheet, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input whose structure does not look like a
// ledger export.
type InvalidFormatError struct {
	FilePath       string
	Sheet          string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	where := e.FilePath
	if e.Sheet != "" {
		where = fmt.Sprintf("%s [%s]", e.FilePath, e.Sheet)
	}
	return fmt.Sprintf("invalid format in '%s': %s. Expected: %s", where, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// DataExtractionError represents a required field that could not be
// extracted even though the sheet structure was recognized.
type DataExtractionError struct {
	FilePath  string
	Sheet     string
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in '%s' [%s] for field '%s': %s",
		e.FilePath, e.Sheet, e.FieldName, e.Reason)
}

// AIError wraps a failure of the external AI analysis collaborator.
type AIError struct {
	Model string
	Err   error
}

func (e *AIError) Error() string {
	return fmt.Sprintf("ai analysis with %s failed: %v", e.Model, e.Err)
}

func (e *AIError) Unwrap() error {
	return e.Err
}
