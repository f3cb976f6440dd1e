package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrIndexOutOfRange matches any *IndexOutOfRangeError.
	ErrIndexOutOfRange = errors.New("item index out of range")

	// ErrInvalidState matches any *InvalidStateError.
	ErrInvalidState = errors.New("invalid plan state")
)

// ValidationError reports a plan or item field that violates an invariant.
// Index is -1 for plan-level fields and for items not yet placed in a plan.
type ValidationError struct {
	Index  int
	Item   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 && e.Item == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	if e.Index < 0 {
		return fmt.Sprintf("item %q: invalid %s: %s", e.Item, e.Field, e.Reason)
	}
	return fmt.Sprintf("item %d (%q): invalid %s: %s", e.Index, e.Item, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newFieldError(field, reason string) *ValidationError {
	return &ValidationError{Index: -1, Field: field, Reason: reason}
}

// IndexOutOfRangeError reports an edit addressed at an item that does not exist.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("item index %d out of range (plan has %d items)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool { return target == ErrIndexOutOfRange }

// InvalidStateError reports an operation that the plan's state does not allow.
type InvalidStateError struct {
	PlanID string
	State  PlanState
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s plan %s: plan is %s", e.Op, e.PlanID, e.State)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }
