package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoCurrentInterval blocks operations that need a started interval.
	// Recoverable: an administrator simply has not started the cycle yet.
	ErrNoCurrentInterval = errors.New("no started interval")
)

// ForbiddenError means the actor lacks the role a transition requires. Check
// identifies which relational check failed (not_manager, not_reviewer, ...)
// so the denial can be audited precisely.
type ForbiddenError struct {
	Check   string
	Message string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden (%s): %s", e.Check, e.Message)
}

// TransitionError means the record is not in a state compatible with the
// requested action. The user-facing message stays deliberately vague: this
// signals a logic/UI desync rather than user error, and the precise state is
// written to the server log instead.
type TransitionError struct {
	Entity string
	Status string
	Action string
}

func (e *TransitionError) Error() string {
	return "Save failed, please contact support"
}

// ValidationError is a recoverable, field-level user input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
