package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrClassifierUnavailable = errors.New("sentiment classifier unavailable")
	ErrClassificationFailed  = errors.New("classification failed")
	ErrMalformedInput        = errors.New("malformed input")
)

// MalformedInputError is fatal to a run. Columns carries the available
// columns so the caller can fix the input.
type MalformedInputError struct {
	Reason  string
	Columns []string
	Err     error
}

func (e *MalformedInputError) Error() string {
	var b strings.Builder
	b.WriteString("malformed input: ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Columns) > 0 {
		fmt.Fprintf(&b, " (columns: %s)", strings.Join(e.Columns, ", "))
	}
	return b.String()
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

func (e *MalformedInputError) Unwrap() error { return e.Err }

// ColumnChoiceError means the default text column is absent and the caller has
// to pick one of Candidates before processing can continue.
type ColumnChoiceError struct {
	Default    string
	Candidates []string
}

func (e *ColumnChoiceError) Error() string {
	return fmt.Sprintf("column %q not found; choose one of: %s", e.Default, strings.Join(e.Candidates, ", "))
}
