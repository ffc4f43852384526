package research

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webHit(url, title, snippet string) SearchHit {
	return SearchHit{URL: url, Title: title, Snippet: snippet, Adapter: AdapterWeb}
}

func TestDeduplicate(t *testing.T) {
	hits := []SearchHit{
		webHit("https://cineverdict.ai/blog/launch", "CineVerdict blog", "movie"),
		webHit("https://cineverdict.ai", "CineVerdict", "movie"),
		webHit("https://CineVerdict.ai/", "CineVerdict dup", "movie"),
		webHit("https://www.forbes.com/best-movie-apps", "Best movie apps", "movie"),
		{URL: "https://github.com/o/movie-verdict", Title: "o/movie-verdict", Adapter: AdapterCode},
		webHit("", "no url", "movie"),
		{URL: "https://www.producthunt.com/posts/cineverdict", Title: "CineVerdict", Adapter: AdapterLaunch},
	}

	res := Deduplicate(hits)
	assert.Equal(t, 1, res.Blocked)

	var urls []string
	for _, h := range res.Candidates {
		urls = append(urls, h.URL)
	}
	assert.Equal(t, []string{
		"https://github.com/o/movie-verdict",
		"https://www.producthunt.com/posts/cineverdict",
		"https://cineverdict.ai",
		"https://cineverdict.ai/blog/launch",
	}, urls)
	assert.Equal(t, "CineVerdict", res.Candidates[2].Title, "first occurrence wins")
}

func TestDeduplicate_Properties(t *testing.T) {
	var hits []SearchHit
	for i := 0; i < 40; i++ {
		u := fmt.Sprintf("https://site%d.com", i%13)
		if i%3 == 0 {
			u += "/a/b/c"
		}
		if i%5 == 0 {
			u = fmt.Sprintf("https://github.com/o/r%d", i%7)
		}
		hits = append(hits, webHit(u, "t", "s"))
	}

	res := Deduplicate(hits)
	seen := make(map[string]bool)
	for i, h := range res.Candidates {
		key := NormalizeURL(h.URL)
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
		if i > 0 {
			assert.GreaterOrEqual(t, URLScore(res.Candidates[i-1].URL), URLScore(h.URL))
		}
	}
}

func TestBuildSources(t *testing.T) {
	candidates := []SearchHit{
		webHit("https://cineverdict.ai", "CineVerdict", "AI verdicts for every new movie"),
		webHit("https://blog.example.com/a/b", "Letterboxd vs IMDb", "movie comparison"),
		webHit("https://recipes.example.com", "Pasta recipes", "cooking every day"),
		webHit("https://notitle.example.com", "  ", "movie"),
		{URL: "https://www.producthunt.com/posts/flickpick", Title: "FlickPick vs boredom", Snippet: "Movie picks", Adapter: AdapterLaunch},
		{URL: "https://github.com/o/movie-verdict", Title: "o/movie-verdict", Snippet: "Verdicts", Adapter: AdapterCode},
		webHit("https://cineverdict.ai/", "CineVerdict again", "movie"),
	}

	sources := BuildSources(candidates, "AI movie verdict app", 0)
	require.Len(t, sources, 3)

	assert.Equal(t, "https://github.com/o/movie-verdict", sources[0].URL)
	assert.Equal(t, SourceCode, sources[0].SourceType)
	assert.Equal(t, ScoreCodeRepo, sources[0].Score)

	assert.Equal(t, "FlickPick vs boredom", sources[1].Title, "title blocklist applies to web hits only")
	assert.Equal(t, SourceLaunch, sources[1].SourceType)

	assert.Equal(t, "CineVerdict", sources[2].Title)
	assert.Equal(t, SourceWeb, sources[2].SourceType)
}

func TestBuildSources_SnippetTruncated(t *testing.T) {
	long := ""
	for len(long) < 500 {
		long += "movie "
	}
	sources := BuildSources([]SearchHit{webHit("https://a.com", "Movie A", long)}, "movie", 0)
	require.Len(t, sources, 1)
	assert.LessOrEqual(t, len(sources[0].Snippet), 200)
}

func TestBuildSources_Cap(t *testing.T) {
	var candidates []SearchHit
	for i := 0; i < 40; i++ {
		candidates = append(candidates, webHit(fmt.Sprintf("https://movie%d.com", i), fmt.Sprintf("Movie %d", i), "movie"))
	}
	assert.Len(t, BuildSources(candidates, "movie", 0), DefaultMaxSources)
	assert.Len(t, BuildSources(candidates, "movie", 10), 10)
}

func TestBuildSources_Idempotent(t *testing.T) {
	candidates := []SearchHit{
		webHit("https://b.com/x/y", "Movie B", "movie"),
		webHit("https://a.com", "Movie A", "movie"),
		{URL: "https://github.com/o/movie", Title: "o/movie", Adapter: AdapterCode},
		webHit("https://c.com", "Movie C", "movie"),
	}
	first := BuildSources(candidates, "movie", 0)
	second := BuildSources(candidates, "movie", 0)
	assert.Equal(t, first, second)
}

// Thirty raw hits of which twelve survive the blocklist and relevance filter.
func TestBuildSources_ThirtyHits(t *testing.T) {
	var hits []SearchHit
	for i := 0; i < 10; i++ {
		hits = append(hits, webHit(fmt.Sprintf("https://www.forbes.com/movie-%d", i), fmt.Sprintf("Movie news %d", i), "movie"))
	}
	for i := 0; i < 8; i++ {
		hits = append(hits, webHit(fmt.Sprintf("https://food%d.com", i), fmt.Sprintf("Cooking %d", i), "fresh pasta"))
	}
	for i := 0; i < 9; i++ {
		hits = append(hits, webHit(fmt.Sprintf("https://movie%d.com/blog/post", i), fmt.Sprintf("Movie verdict %d", i), "verdicts"))
	}
	for i := 0; i < 3; i++ {
		hits = append(hits, SearchHit{
			URL: fmt.Sprintf("https://github.com/o/movie-%d", i), Title: fmt.Sprintf("o/movie-%d", i),
			Snippet: "movie verdicts", Adapter: AdapterCode,
		})
	}
	require.Len(t, hits, 30)

	res := Deduplicate(hits)
	assert.Equal(t, 10, res.Blocked)

	sources := BuildSources(res.Candidates, "AI movie verdict app", DefaultMaxSources)
	require.Len(t, sources, 12)
	for i, s := range sources {
		assert.False(t, IsBlocked(s.URL), s.URL)
		if i > 0 {
			assert.GreaterOrEqual(t, sources[i-1].Score, s.Score)
		}
	}
	assert.Equal(t, ScoreCodeRepo, sources[0].Score)
}

func TestBuildSources_LaunchHitsScoreAsPosts(t *testing.T) {
	candidates := []SearchHit{
		webHit("https://movieverdict.app/reviews/latest/today", "Movie verdict page", "movie verdict"),
		{URL: "https://www.producthunt.com/p/flickpick/launch", Title: "FlickPick", Snippet: "Movie verdict in one line", Adapter: AdapterLaunch},
	}

	sources := BuildSources(candidates, "movie verdict", 0)
	require.Len(t, sources, 2)
	assert.Equal(t, "FlickPick", sources[0].Title)
	assert.Equal(t, ScoreLaunchPost, sources[0].Score)
	assert.Equal(t, SourceLaunch, sources[0].SourceType)
	assert.Less(t, URLScore(candidates[1].URL), ScoreLaunchPost)
}
