package fetch

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

// DefaultMaxRedirects is the redirect limit of clients built by NewHTTPClient.
const DefaultMaxRedirects = 10

// Document is a fetched long-form text keyed by URL or repository slug.
type Document struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// NewHTTPClient returns a client that follows up to maxRedirects redirects
// and gives up after timeout. Zero values select 10s and DefaultMaxRedirects.
func NewHTTPClient(timeout time.Duration, maxRedirects int) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// Truncate cuts s to at most n characters without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Len counts characters the way Truncate does.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
