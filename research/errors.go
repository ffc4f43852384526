package research

import (
	"errors"
	"fmt"

	"github.com/roshanshetty271/ShipOrSkip/llm"
)

// ErrorKind classifies why a run failed.
type ErrorKind string

const (
	// KindBusy is a rate limit; the caller may retry later.
	KindBusy ErrorKind = "busy"
	// KindService covers timeouts and API errors.
	KindService ErrorKind = "service"
	// KindUnanalyzable covers refusals and empty or malformed answers.
	KindUnanalyzable ErrorKind = "unanalyzable"
	// KindNotConfigured means no language model is available.
	KindNotConfigured ErrorKind = "not_configured"
	// KindInvalidInput rejects the idea before any work is done.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindInternal is an engine failure.
	KindInternal ErrorKind = "internal"
)

// User-facing messages per kind.
const (
	MsgBusy          = "AI service busy."
	MsgService       = "AI service error."
	MsgRefused       = "Content restrictions."
	MsgUnanalyzable  = "Could not analyze."
	MsgNotConfigured = "AI service not configured."
	MsgNoAnalysis    = "Research completed but no analysis was generated. Please try again."
	MsgInternal      = "Research failed. Please try again."
)

// RunError ends a run with a user-safe message.
type RunError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// ClassifyLLMError maps a language-model failure to a RunError.
func ClassifyLLMError(err error) *RunError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, llm.ErrRateLimited):
		return &RunError{Kind: KindBusy, Message: MsgBusy, Err: err}
	case errors.Is(err, llm.ErrNotConfigured):
		return &RunError{Kind: KindNotConfigured, Message: MsgNotConfigured, Err: err}
	case errors.Is(err, llm.ErrRefused):
		return &RunError{Kind: KindUnanalyzable, Message: MsgRefused, Err: err}
	case errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, llm.ErrInvalidOutput):
		return &RunError{Kind: KindUnanalyzable, Message: MsgUnanalyzable, Err: err}
	}
	return &RunError{Kind: KindService, Message: MsgService, Err: err}
}
