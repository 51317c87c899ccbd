package quizgen

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopic means the trimmed topic was empty.
	ErrEmptyTopic = errors.New("empty topic")
	// ErrMissingCredential means no generation credential was configured.
	// Checked before any network call.
	ErrMissingCredential = errors.New("generation API key missing")
	// ErrEmptyResult means the reply parsed but contained no questions.
	ErrEmptyResult = errors.New("generator returned no questions")
	// ErrContentFiltered means the model rejected the request on safety
	// grounds. A user-actionable sub-case of upstream failure.
	ErrContentFiltered = errors.New("content rejected by safety filter")
	// ErrUpstream covers every other failure of the generation call,
	// including timeouts.
	ErrUpstream = errors.New("generation call failed")
)

// InvalidFormatError means the sanitized reply could not be parsed or did
// not match the quiz schema. Raw holds the payload for diagnosis; it is
// logged, never shown to the end user.
type InvalidFormatError struct {
	Raw string
	Err error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid generator reply: %v", e.Err)
}

func (e *InvalidFormatError) Unwrap() error { return e.Err }
