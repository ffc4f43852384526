package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// SearchDepth selects Tavily's search mode.
type SearchDepth string

const (
	DepthBasic    SearchDepth = "basic"
	DepthAdvanced SearchDepth = "advanced"
)

// TavilySearch is a client for the Tavily search API.
type TavilySearch struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	client  *http.Client
}

type TavilyOption func(*TavilySearch)

// WithTavilyBaseURL sets the search endpoint.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *TavilySearch) {
		t.BaseURL = baseURL
	}
}

// WithTavilyHTTPClient sets the HTTP client used for requests.
func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(t *TavilySearch) {
		t.client = client
	}
}

// WithTavilyTimeout bounds every request. Zero keeps the default of 15s.
func WithTavilyTimeout(d time.Duration) TavilyOption {
	return func(t *TavilySearch) {
		if d > 0 {
			t.Timeout = d
		}
	}
}

// NewTavilySearch creates a new Tavily client.
// If apiKey is empty, it tries to read from TAVILY_API_KEY environment variable.
func NewTavilySearch(apiKey string, opts ...TavilyOption) (*TavilySearch, error) {
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY: %w", ErrMissingAPIKey)
	}

	t := &TavilySearch{
		APIKey:  apiKey,
		BaseURL: "https://api.tavily.com/search",
		Timeout: 15 * time.Second,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.client == nil {
		t.client = &http.Client{}
	}

	return t, nil
}

// TavilyRequest describes one search call.
type TavilyRequest struct {
	Query             string
	SearchDepth       SearchDepth
	MaxResults        int
	IncludeAnswer     bool
	IncludeRawContent bool
	ChunksPerSource   int
	// TimeRange restricts results by recency ("day", "week", "month", "year").
	TimeRange string
}

type tavilyBody struct {
	APIKey            string      `json:"api_key"`
	Query             string      `json:"query"`
	SearchDepth       SearchDepth `json:"search_depth"`
	MaxResults        int         `json:"max_results"`
	IncludeAnswer     bool        `json:"include_answer"`
	IncludeRawContent bool        `json:"include_raw_content"`
	ChunksPerSource   int         `json:"chunks_per_source,omitempty"`
	TimeRange         string      `json:"time_range,omitempty"`
}

// TavilyResult is a single search result.
type TavilyResult struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content"`
	Score      float64 `json:"score"`
}

// TavilyResponse is the decoded search response.
type TavilyResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Results []TavilyResult `json:"results"`
}

// Search executes the search.
func (t *TavilySearch) Search(ctx context.Context, req TavilyRequest) (*TavilyResponse, error) {
	if req.SearchDepth == "" {
		req.SearchDepth = DepthBasic
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 5
	}

	payload, err := json.Marshal(tavilyBody{
		APIKey:            t.APIKey,
		Query:             req.Query,
		SearchDepth:       req.SearchDepth,
		MaxResults:        req.MaxResults,
		IncludeAnswer:     req.IncludeAnswer,
		IncludeRawContent: req.IncludeRawContent,
		ChunksPerSource:   req.ChunksPerSource,
		TimeRange:         req.TimeRange,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Service: "tavily", StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var result TavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
