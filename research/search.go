package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/roshanshetty271/ShipOrSkip/fetch"
	"github.com/roshanshetty271/ShipOrSkip/log"
	"github.com/roshanshetty271/ShipOrSkip/tool"
	"golang.org/x/sync/errgroup"
)

// WebSearcher is the generic web search API.
type WebSearcher interface {
	Search(ctx context.Context, req tool.TavilyRequest) (*tool.TavilyResponse, error)
}

// RepoSearcher is the code-host repository search API.
type RepoSearcher interface {
	SearchRepositories(ctx context.Context, query string, perPage int) ([]tool.Repository, error)
}

const (
	webResults      = 5
	webChunks       = 3
	retryResults    = 3
	repoResults     = 10
	minRepoResults  = 3
	launchQueryWord = 5
	launchSuffix    = " | Product Hunt"
	fallbackSnippet = 150
	launchSnippet   = 200
	recentRange     = "year"
)

// timeSensitive marks queries that should only see recent results.
var timeSensitive = []string{"producthunt", "indie", "hacker", "startup", "side project"}

// TimeRangeFor returns the recency filter for query, or "".
func TimeRangeFor(query string) string {
	lower := strings.ToLower(query)
	for _, kw := range timeSensitive {
		if strings.Contains(lower, kw) {
			return recentRange
		}
	}
	return ""
}

// WebAdapter runs queries against a WebSearcher.
type WebAdapter struct {
	searcher WebSearcher
	logger   log.Logger
}

// NewWebAdapter creates a WebAdapter. A nil searcher means web search is not
// configured.
func NewWebAdapter(searcher WebSearcher, logger log.Logger) *WebAdapter {
	if logger == nil {
		logger = &log.NoOpLogger{}
	}
	return &WebAdapter{searcher: searcher, logger: logger}
}

// Configured reports whether a searcher is available.
func (a *WebAdapter) Configured() bool {
	return a != nil && a.searcher != nil
}

// Search runs one request. A non-basic request that fails is retried once
// at basic depth with fewer results and no answer. Failures yield no hits.
func (a *WebAdapter) Search(ctx context.Context, req tool.TavilyRequest) []tool.TavilyResult {
	if !a.Configured() {
		return nil
	}
	resp, err := a.searcher.Search(ctx, req)
	if err == nil {
		if resp.Answer != "" {
			a.logger.Debug("answer for %q: %s", req.Query, fetch.Truncate(resp.Answer, 80))
		}
		return resp.Results
	}
	a.logger.Warn("search %q failed: %v", req.Query, err)
	if req.SearchDepth == tool.DepthBasic || ctx.Err() != nil {
		return nil
	}

	resp, err = a.searcher.Search(ctx, tool.TavilyRequest{
		Query:       req.Query,
		SearchDepth: tool.DepthBasic,
		MaxResults:  retryResults,
	})
	if err != nil {
		a.logger.Warn("retry %q failed: %v", req.Query, err)
		return nil
	}
	return resp.Results
}

// SearchAll runs every query concurrently at advanced depth with raw content
// and returns the hits in query order.
func (a *WebAdapter) SearchAll(ctx context.Context, queries []string) []SearchHit {
	if !a.Configured() {
		return nil
	}

	batches := make([][]tool.TavilyResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			batches[i] = a.Search(gctx, tool.TavilyRequest{
				Query:             q,
				SearchDepth:       tool.DepthAdvanced,
				MaxResults:        webResults,
				IncludeAnswer:     true,
				IncludeRawContent: true,
				ChunksPerSource:   webChunks,
				TimeRange:         TimeRangeFor(q),
			})
			return nil
		})
	}
	_ = g.Wait()

	var hits []SearchHit
	for i, batch := range batches {
		withRaw := 0
		for _, r := range batch {
			if r.RawContent != "" {
				withRaw++
			}
			hits = append(hits, SearchHit{
				URL:        r.URL,
				Title:      strings.TrimSpace(r.Title),
				Snippet:    r.Content,
				RawContent: r.RawContent,
				Adapter:    AdapterWeb,
			})
		}
		a.logger.Debug("query %d: %d results (%d with full content)", i+1, len(batch), withRaw)
	}
	return hits
}

// CodeAdapter searches the code host for repositories, falling back to a
// site-scoped web search when the repository search returns too little.
type CodeAdapter struct {
	repos  RepoSearcher
	web    *WebAdapter
	logger log.Logger
}

// NewCodeAdapter creates a CodeAdapter. Either collaborator may be nil.
func NewCodeAdapter(repos RepoSearcher, web *WebAdapter, logger log.Logger) *CodeAdapter {
	if logger == nil {
		logger = &log.NoOpLogger{}
	}
	return &CodeAdapter{repos: repos, web: web, logger: logger}
}

// Configured reports whether any search path is available.
func (a *CodeAdapter) Configured() bool {
	return a.repos != nil || a.web.Configured()
}

// Search returns up to ten repositories for the concept, most starred first.
// Fewer than three, including on auth or quota failure, adds the code-host
// results of a web search.
func (a *CodeAdapter) Search(ctx context.Context, concept string) []SearchHit {
	var hits []SearchHit
	if a.repos != nil {
		repos, err := a.repos.SearchRepositories(ctx, concept, repoResults)
		if err != nil {
			a.logger.Warn("repository search failed: %v", err)
		}
		if len(repos) > repoResults {
			repos = repos[:repoResults]
		}
		for _, r := range repos {
			hits = append(hits, repoHit(r))
		}
		a.logger.Debug("repository search: %d repos", len(hits))
	}

	if len(hits) >= minRepoResults || !a.web.Configured() {
		return hits
	}

	a.logger.Debug("falling back to web search")
	results := a.web.Search(ctx, tool.TavilyRequest{
		Query:       concept + " site:github.com",
		SearchDepth: tool.DepthBasic,
		MaxResults:  webResults,
	})
	for _, r := range results {
		if !isCodeHost(r.URL) {
			continue
		}
		hits = append(hits, SearchHit{
			URL:     r.URL,
			Title:   strings.TrimSpace(r.Title),
			Snippet: fetch.Truncate(r.Content, fallbackSnippet),
			Adapter: AdapterCode,
		})
	}
	return hits
}

func repoHit(r tool.Repository) SearchHit {
	desc := r.Description
	if desc == "" {
		desc = "No description"
	}
	u := r.HTMLURL
	if u == "" {
		u = "https://github.com/" + r.FullName
	}
	return SearchHit{
		URL:      u,
		Title:    r.FullName,
		Snippet:  desc,
		Adapter:  AdapterCode,
		Stars:    r.StargazersCount,
		Language: r.Language,
	}
}

// RepoLine renders a code-host hit with its metadata.
func RepoLine(h SearchHit) string {
	lang := h.Language
	if lang == "" {
		lang = "?"
	}
	return fmt.Sprintf("GitHub: %s (%d stars, %s) - %s (%s)", h.Title, h.Stars, lang, h.Snippet, h.URL)
}

// LaunchAdapter searches the launch platform through site-scoped web
// queries, since the platform's own search is too narrow.
type LaunchAdapter struct {
	web    *WebAdapter
	logger log.Logger
}

// NewLaunchAdapter creates a LaunchAdapter.
func NewLaunchAdapter(web *WebAdapter, logger log.Logger) *LaunchAdapter {
	if logger == nil {
		logger = &log.NoOpLogger{}
	}
	return &LaunchAdapter{web: web, logger: logger}
}

// Configured reports whether the web searcher is available.
func (a *LaunchAdapter) Configured() bool {
	return a.web.Configured()
}

// LaunchQueries returns the full-phrase and short-phrase launch queries.
func LaunchQueries(concept string) []string {
	return []string{
		"site:producthunt.com " + concept,
		fmt.Sprintf("site:producthunt.com %s app", FirstWords(concept, launchQueryWord)),
	}
}

// Search runs both launch queries concurrently and returns the distinct
// launch-platform hits, full-phrase results first.
func (a *LaunchAdapter) Search(ctx context.Context, concept string) []SearchHit {
	if !a.Configured() {
		return nil
	}

	queries := LaunchQueries(concept)
	batches := make([][]tool.TavilyResult, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			batches[i] = a.web.Search(gctx, tool.TavilyRequest{
				Query:       q,
				SearchDepth: tool.DepthBasic,
				MaxResults:  webResults,
				TimeRange:   recentRange,
			})
			return nil
		})
	}
	_ = g.Wait()

	var hits []SearchHit
	seen := make(map[string]bool)
	for _, batch := range batches {
		for _, r := range batch {
			if !isLaunchPlatform(r.URL) || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			title := strings.TrimSpace(strings.ReplaceAll(r.Title, launchSuffix, ""))
			hits = append(hits, SearchHit{
				URL:     r.URL,
				Title:   title,
				Snippet: fetch.Truncate(r.Content, launchSnippet),
				Adapter: AdapterLaunch,
			})
		}
	}
	a.logger.Debug("found %d launches", len(hits))
	return hits
}
