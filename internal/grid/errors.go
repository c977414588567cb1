package grid

import (
	"errors"
	"fmt"
)

// ErrNotEditable is returned when an edit is requested on a cell that
// cannot accept one: a non-editable column, a group header row, or an
// unbound container.
var ErrNotEditable = errors.New("cell is not editable")

// ValidationError blocks a commit; the session stays open so the host
// can surface the message and let the user revise the value.
type ValidationError struct {
	ColumnID string
	Value    any
	Cause    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for column %s: %v", e.ColumnID, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// SetterError reports a write-back fault. It aborts only the current
// commit; the source is left untouched and the session stays open.
type SetterError struct {
	ColumnID string
	Cause    any
}

func (e *SetterError) Error() string {
	return fmt.Sprintf("write to column %s failed: %v", e.ColumnID, e.Cause)
}
