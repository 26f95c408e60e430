package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAnswer is returned when a question is finalized without a selection.
	ErrNoAnswer = errors.New("question has no selected answer")

	// ErrAlreadyFinalized is returned when a finalized question's selection is changed.
	ErrAlreadyFinalized = errors.New("question is already finalized")

	// ErrTransitionInFlight is returned when navigation is requested while a
	// slide change is still settling.
	ErrTransitionInFlight = errors.New("slide transition in progress")

	// ErrNavigationBlocked is returned when the requested slide is not reachable
	// from the current one.
	ErrNavigationBlocked = errors.New("navigation to slide is not allowed")

	// ErrNoQuestions is returned when a summary is requested for a set
	// without questions.
	ErrNoQuestions = errors.New("finalized elements contain no questions")

	// ErrMalformedStorage marks a stored session that does not decode.
	ErrMalformedStorage = errors.New("malformed stored session")

	// ErrNotAQuestion is returned when an option is selected on a slide
	// that is not a question.
	ErrNotAQuestion = errors.New("current slide is not a question")
)

// ConfigError reports an invalid quiz configuration. It is fatal at construction.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid quiz configuration"
	}
	return "invalid quiz configuration: " + strings.Join(e.Problems, "; ")
}

// InvalidFinalizedDataError reports a quiz constructed as finalized whose
// questions do not all carry a valid selection.
type InvalidFinalizedDataError struct {
	Index int
	Err   error
}

func (e *InvalidFinalizedDataError) Error() string {
	return fmt.Sprintf("invalid finalized data at element %d: %v", e.Index, e.Err)
}

func (e *InvalidFinalizedDataError) Unwrap() error { return e.Err }

// IndexError reports an out-of-range slide or option index.
type IndexError struct {
	What  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

// StaleStorageError reports a stored session that decodes but no longer
// matches the quiz configuration.
type StaleStorageError struct {
	Key    string
	Stored string
}

func (e *StaleStorageError) Error() string {
	return fmt.Sprintf("stored session %q does not match quiz configuration", e.Key)
}
