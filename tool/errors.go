package tool

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when a client that needs a key has none.
	ErrMissingAPIKey = errors.New("api key not set")

	// ErrReadmeNotFound is returned when no README exists on any tried branch.
	ErrReadmeNotFound = errors.New("readme not found")
)

// StatusError is returned when an API answers with a non-200 status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s api returned status: %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s api returned status: %d: %s", e.Service, e.StatusCode, e.Body)
}
