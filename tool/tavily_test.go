package tool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTavilySearch_MissingKey(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")

	_, err := NewTavilySearch("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewTavilySearch_EnvFallback(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "env-key")

	c, err := NewTavilySearch("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", c.APIKey)
	assert.Equal(t, 15*time.Second, c.Timeout)
}

func TestTavilySearch_Search(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"query": "habit tracker",
			"answer": "several exist",
			"results": [
				{"title": "Loop", "url": "https://loophabits.org", "content": "Open source habit tracker", "raw_content": null, "score": 0.9},
				{"title": "Streaks", "url": "https://streaksapp.com/", "content": "Build habits", "raw_content": "full page", "score": 0.8}
			]
		}`))
	}))
	defer server.Close()

	c, err := NewTavilySearch("test-key", WithTavilyBaseURL(server.URL))
	require.NoError(t, err)

	resp, err := c.Search(context.Background(), TavilyRequest{
		Query:             "habit tracker",
		SearchDepth:       DepthAdvanced,
		MaxResults:        5,
		IncludeAnswer:     true,
		IncludeRawContent: true,
		ChunksPerSource:   3,
		TimeRange:         "year",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", body["api_key"])
	assert.Equal(t, "habit tracker", body["query"])
	assert.Equal(t, "advanced", body["search_depth"])
	assert.Equal(t, float64(5), body["max_results"])
	assert.Equal(t, true, body["include_raw_content"])
	assert.Equal(t, float64(3), body["chunks_per_source"])
	assert.Equal(t, "year", body["time_range"])

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "several exist", resp.Answer)
	assert.Equal(t, "", resp.Results[0].RawContent)
	assert.Equal(t, "full page", resp.Results[1].RawContent)
}

func TestTavilySearch_DefaultsOmitOptionalFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	c, err := NewTavilySearch("k", WithTavilyBaseURL(server.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), TavilyRequest{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, "basic", body["search_depth"])
	assert.Equal(t, float64(5), body["max_results"])
	assert.NotContains(t, body, "time_range")
	assert.NotContains(t, body, "chunks_per_source")
}

func TestTavilySearch_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer server.Close()

	c, err := NewTavilySearch("k", WithTavilyBaseURL(server.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), TavilyRequest{Query: "q"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "slow down")
}

func TestTavilySearch_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": "not a list"}`))
	}))
	defer server.Close()

	c, err := NewTavilySearch("k", WithTavilyBaseURL(server.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), TavilyRequest{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestTavilySearch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	c, err := NewTavilySearch("k", WithTavilyBaseURL(server.URL), WithTavilyTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), TavilyRequest{Query: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
