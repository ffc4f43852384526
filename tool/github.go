package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// maxReadmeBytes caps how much of a README body is read.
const maxReadmeBytes = 1 << 20

// GitHub is a client for repository search and raw README download.
type GitHub struct {
	Token      string
	APIBaseURL string
	RawBaseURL string
	Branches   []string
	Timeout    time.Duration
	client     *http.Client
}

type GitHubOption func(*GitHub)

// WithGitHubAPIBaseURL sets the REST API base URL.
func WithGitHubAPIBaseURL(baseURL string) GitHubOption {
	return func(g *GitHub) {
		g.APIBaseURL = baseURL
	}
}

// WithGitHubRawBaseURL sets the raw content base URL.
func WithGitHubRawBaseURL(baseURL string) GitHubOption {
	return func(g *GitHub) {
		g.RawBaseURL = baseURL
	}
}

// WithGitHubHTTPClient sets the HTTP client used for requests.
func WithGitHubHTTPClient(client *http.Client) GitHubOption {
	return func(g *GitHub) {
		g.client = client
	}
}

// WithGitHubTimeout bounds repository search requests. Zero keeps the default of 10s.
func WithGitHubTimeout(d time.Duration) GitHubOption {
	return func(g *GitHub) {
		if d > 0 {
			g.Timeout = d
		}
	}
}

// NewGitHub creates a GitHub client. The token is optional; without it the
// unauthenticated search quota applies.
func NewGitHub(token string, opts ...GitHubOption) *GitHub {
	g := &GitHub{
		Token:      token,
		APIBaseURL: "https://api.github.com",
		RawBaseURL: "https://raw.githubusercontent.com",
		Branches:   []string{"main", "master"},
		Timeout:    10 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	return g
}

// Repository is one repository search result.
type Repository struct {
	FullName        string `json:"full_name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

// SearchRepositories searches repositories by keyword, most-starred first.
func (g *GitHub) SearchRepositories(ctx context.Context, query string, perPage int) ([]Repository, error) {
	if perPage <= 0 {
		perPage = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("per_page", strconv.Itoa(perPage))
	reqURL := fmt.Sprintf("%s/search/repositories?%s", g.APIBaseURL, params.Encode())

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Service: "github", StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Items, nil
}

// FetchReadme downloads README.md of owner/repo, trying each configured
// branch in order. The caller's context bounds the whole attempt.
func (g *GitHub) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	var lastErr error
	for _, branch := range g.Branches {
		content, err := g.fetchRaw(ctx, fmt.Sprintf("%s/%s/%s/%s/README.md", g.RawBaseURL, owner, repo, branch))
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	var statusErr *StatusError
	if lastErr == nil || errors.As(lastErr, &statusErr) {
		return "", fmt.Errorf("%s/%s: %w", owner, repo, ErrReadmeNotFound)
	}
	return "", lastErr
}

func (g *GitHub) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Service: "github raw", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReadmeBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}
