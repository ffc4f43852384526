package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when a backend has no credentials.
	ErrNotConfigured = errors.New("language model not configured")

	// ErrRateLimited is returned when the service rejected the call for quota reasons.
	ErrRateLimited = errors.New("language model rate limited")

	// ErrTimeout is returned when the call did not finish in time.
	ErrTimeout = errors.New("language model timeout")

	// ErrUnavailable covers transport failures and other API errors.
	ErrUnavailable = errors.New("language model unavailable")

	// ErrRefused is returned when the model declined to answer.
	ErrRefused = errors.New("language model refused")

	// ErrEmptyResponse is returned when the model produced no content.
	ErrEmptyResponse = errors.New("language model returned no content")

	// ErrInvalidOutput is returned when structured output does not parse.
	ErrInvalidOutput = errors.New("language model output does not match schema")
)

// Model is a chat-completion backend.
type Model interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request is one system+user completion call.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// Timeout bounds the call when positive.
	Timeout time.Duration
	// Schema requests structured output when set.
	Schema *Schema
}

// Schema describes the JSON document the model must return.
type Schema struct {
	Name        string
	Description string
	// Target is a value of the Go type the output decodes into; the JSON
	// schema is derived from it.
	Target any
}

// Response is the model's answer.
type Response struct {
	Content          string
	Refusal          string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// IsFailureClass reports whether err belongs to one of the classified failures.
func IsFailureClass(err error) bool {
	for _, target := range []error{ErrNotConfigured, ErrRateLimited, ErrTimeout, ErrUnavailable, ErrRefused, ErrEmptyResponse, ErrInvalidOutput} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// classify maps a raw backend error to one of the failure classes. status
// is the HTTP status when the backend exposes one, or zero.
func classify(ctx context.Context, err error, status int) error {
	if err == nil || IsFailureClass(err) {
		return err
	}
	switch {
	case status == 429:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "rate_limit"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
