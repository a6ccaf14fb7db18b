package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownQuestion signals an operation referencing a question id that
	// is not part of the session's catalog.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrSessionCompleted signals a mutation attempted after the session
	// reached its terminal state.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrAlreadyCompleted signals a second Complete call on the same session.
	ErrAlreadyCompleted = errors.New("completion already recorded")

	// ErrInvalidResponse signals an answer outside the yes/no value set.
	ErrInvalidResponse = errors.New("response must be yes or no")
)

// IncompleteError reports a premature Complete call. Missing holds the ids of
// every question whose completion predicate still fails, in catalog order, so
// the caller can highlight them.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("checklist incomplete: %s", strings.Join(e.Missing, ", "))
}
