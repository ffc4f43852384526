package research

import (
	"slices"
	"strings"

	"github.com/roshanshetty271/ShipOrSkip/fetch"
)

// DefaultMaxSources caps the display source list.
const DefaultMaxSources = 25

const sourceSnippetChars = 200

// DedupResult is the outcome of Deduplicate.
type DedupResult struct {
	Candidates []SearchHit
	Blocked    int
}

// Deduplicate drops hits from blocklisted domains and hits without a URL,
// keeps the first hit per normalized URL and orders the survivors by
// descending URLScore. Ties keep input order.
func Deduplicate(hits []SearchHit) DedupResult {
	var res DedupResult
	seen := make(map[string]bool, len(hits))
	for _, h := range hits {
		if IsBlocked(h.URL) {
			res.Blocked++
			continue
		}
		key := NormalizeURL(h.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		res.Candidates = append(res.Candidates, h)
	}
	slices.SortStableFunc(res.Candidates, func(a, b SearchHit) int {
		return URLScore(b.URL) - URLScore(a.URL)
	})
	return res
}

// sourceScore ranks a display source. Every launch adapter result counts as a
// launch post whatever its URL shape.
func sourceScore(h SearchHit) int {
	if h.Adapter == AdapterLaunch {
		return ScoreLaunchPost
	}
	return URLScore(h.URL)
}

// BuildSources derives the display source list from deduplicated hits.
// Web hits must pass the title blocklist; every hit must be relevant to the
// cleaned idea. The list is sorted by descending score and capped at max
// (DefaultMaxSources when max is not positive). The output depends only on
// its input.
func BuildSources(candidates []SearchHit, cleanedIdea string, max int) []DisplaySource {
	if max <= 0 {
		max = DefaultMaxSources
	}

	var sources []DisplaySource
	seen := make(map[string]bool)
	for _, h := range candidates {
		title := strings.TrimSpace(h.Title)
		if h.URL == "" || title == "" {
			continue
		}
		key := NormalizeURL(h.URL)
		if seen[key] || IsBlocked(h.URL) {
			continue
		}
		snippet := strings.TrimSpace(fetch.Truncate(h.Snippet, sourceSnippetChars))
		if h.Adapter == AdapterWeb && IsTitleBlocked(title) {
			continue
		}
		if !IsRelevant(title, snippet, cleanedIdea) {
			continue
		}
		seen[key] = true
		sources = append(sources, DisplaySource{
			Title:      title,
			URL:        h.URL,
			Snippet:    snippet,
			SourceType: ClassifySource(h.URL),
			Score:      sourceScore(h),
		})
	}

	slices.SortStableFunc(sources, func(a, b DisplaySource) int {
		return b.Score - a.Score
	})
	if len(sources) > max {
		sources = sources[:max]
	}
	return sources
}
