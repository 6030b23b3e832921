// ABOUTME: Error types for CSV ingestion.
// ABOUTME: ImportError blocks an import; RowParseError only skips one row.
package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidEntries means the file parsed but no row produced a record.
	ErrNoValidEntries = errors.New("no valid entries found; check the CSV headers and values")

	// ErrUnparseableDate means no cell in the row held a recognisable date.
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrEmptyFile means the file has no header row.
	ErrEmptyFile = errors.New("file is empty")
)

// ImportError is a blocking failure for a whole file.
type ImportError struct {
	Source string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Source, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// RowParseError describes a skipped row. Line is the 1-based line in the file.
type RowParseError struct {
	Line int
	Err  error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row at line %d: %v", e.Line, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }
