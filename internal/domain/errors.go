package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a loader failure
type ErrorKind string

// Loader error kinds. All of them are terminal for the run.
const (
	KindMissingColumns     ErrorKind = "MissingColumns"
	KindMalformedAmount    ErrorKind = "MalformedAmount"
	KindSourceUnreachable  ErrorKind = "SourceUnreachable"
	KindDuplicateReference ErrorKind = "DuplicateReference"
	KindMalformedTable     ErrorKind = "MalformedTable" // bytes are neither valid CSV nor XLSX
)

// Sentinel errors matched by LoaderError.Is
var (
	ErrMissingColumns     = errors.New("missing columns")
	ErrMalformedAmount    = errors.New("malformed amount")
	ErrSourceUnreachable  = errors.New("source unreachable")
	ErrDuplicateReference = errors.New("duplicate reference")
	ErrMalformedTable     = errors.New("malformed table")
)

var kindSentinels = map[ErrorKind]error{
	KindMissingColumns:     ErrMissingColumns,
	KindMalformedAmount:    ErrMalformedAmount,
	KindSourceUnreachable:  ErrSourceUnreachable,
	KindDuplicateReference: ErrDuplicateReference,
	KindMalformedTable:     ErrMalformedTable,
}

// LoaderError describes why one side could not be loaded.
// Row is the 1-based data row (header excluded), zero when not row specific.
type LoaderError struct {
	Kind   ErrorKind
	Side   Side
	Source string
	Column string
	Row    int
	Err    error
}

// Error implements the error interface
func (e *LoaderError) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))
	if e.Side != "" {
		fmt.Fprintf(&b, " in %s", e.Side)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, " source %q", e.Source)
	}

	var loc []string
	if e.Row > 0 {
		loc = append(loc, fmt.Sprintf("row %d", e.Row))
	}
	if e.Column != "" {
		loc = append(loc, fmt.Sprintf("column %s", e.Column))
	}
	if len(loc) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(loc, ", "))
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

// Unwrap implements errors.Unwrap
func (e *LoaderError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support against the kind sentinels
func (e *LoaderError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NewLoaderError creates a LoaderError without row or column detail
func NewLoaderError(kind ErrorKind, side Side, source string, err error) *LoaderError {
	return &LoaderError{
		Kind:   kind,
		Side:   side,
		Source: source,
		Err:    err,
	}
}

// KindOf returns the kind of the first LoaderError in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var le *LoaderError
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}
