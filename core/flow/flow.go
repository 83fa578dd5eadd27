// Package flow models multi-step dialogs as plain data tables and advances
// them one user message at a time. Validation is pure; side effects happen
// only in a flow's terminal action.
package flow

import (
	"context"
	"errors"
)

// Kind tags a flow definition. The empty kind means "no active flow".
type Kind string

// KindNone marks an idle session.
const KindNone Kind = ""

// ErrNotFound marks a terminal action failure caused by the user's input
// (e.g. a city that does not geocode). The engine keeps the user on the
// same step so they can correct the value. Any other terminal error is
// treated as transient and aborts the flow.
var ErrNotFound = errors.New("flow: not found")

// ValidationError carries the user-facing message for malformed step input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a *ValidationError with the given user-facing message.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// Step describes a single prompt/input exchange within a flow.
type Step struct {
	// Field is the key the extracted value is stored under.
	Field string
	// Prompt is sent when the step is entered.
	Prompt string
	// Validate extracts the value from raw input; it may consult values
	// collected on earlier steps. A nil Validate accepts the input as is.
	Validate func(input string, data map[string]string) (string, error)
	// Terminal marks the step whose successful validation finishes the flow.
	Terminal bool
}

// Definition is an immutable description of one flow, shared across sessions.
type Definition struct {
	Kind  Kind
	Steps []Step

	// Finish runs the flow's terminal action once the last step validates.
	// It may call external providers and returns the final effect.
	Finish func(ctx context.Context, data map[string]string) (Effect, error)

	// RetryText is sent on ErrNotFound from Finish; the step is retried.
	RetryText string
	// AbortText is sent on a transient Finish failure; the flow is aborted.
	AbortText string
}

// FirstPrompt returns the prompt of the flow's first step.
func (d Definition) FirstPrompt() string {
	if len(d.Steps) == 0 {
		return ""
	}
	return d.Steps[0].Prompt
}
