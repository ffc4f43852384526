package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRepos(t *testing.T) {
	refs := ExtractRepos([]string{
		"https://github.com/acme/verdict",
		"https://www.github.com/acme/verdict/",
		"https://github.com/topics/movies",
		"https://github.com/search?q=movie",
		"https://github.com/trending/go",
		"https://github.com/orgs/acme/repositories",
		"https://github.com/solo",
		"https://github.com/other/tool.git",
		"https://gitlab.com/acme/verdict",
		"https://github.com/deep/repo/tree/main/docs",
	}, 0)

	assert.Equal(t, []RepoRef{
		{Owner: "acme", Repo: "verdict"},
		{Owner: "other", Repo: "tool"},
		{Owner: "deep", Repo: "repo"},
	}, refs)
	assert.Equal(t, "acme/verdict", refs[0].Slug())
}

func TestExtractRepos_Limit(t *testing.T) {
	urls := []string{"https://github.com/a/1", "https://github.com/a/2", "https://github.com/a/3"}
	assert.Len(t, ExtractRepos(urls, 2), 2)
}

type fakeReadmes struct {
	mu       sync.Mutex
	contents map[string]string
	calls    []string
}

func (f *fakeReadmes) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slug := owner + "/" + repo
	f.calls = append(f.calls, slug)
	if c, ok := f.contents[slug]; ok {
		return c, nil
	}
	return "", errors.New("not found")
}

func TestReadmeFetcher_FetchReadmes(t *testing.T) {
	src := &fakeReadmes{contents: map[string]string{
		"acme/verdict": "# Verdict\n\n" + strings.Repeat("Decide what to watch tonight. ", 20),
		"acme/tiny":    "# Tiny",
		"acme/huge":    strings.Repeat("word ", 2000),
	}}
	f := NewReadmeFetcher(src, ReadmeOptions{})

	docs := f.FetchReadmes(context.Background(), []string{
		"https://github.com/acme/verdict",
		"https://github.com/acme/tiny",
		"https://github.com/acme/missing",
		"https://github.com/acme/huge",
	})

	require.Len(t, docs, 2)
	assert.Equal(t, "acme/verdict", docs[0].Key)
	assert.True(t, strings.HasPrefix(docs[0].Content, "Verdict"))
	assert.Equal(t, "acme/huge", docs[1].Key)
	assert.Equal(t, 3000, Len(docs[1].Content))
	assert.Len(t, src.calls, 4)
}

func TestReadmeFetcher_CapsRepos(t *testing.T) {
	src := &fakeReadmes{contents: map[string]string{}}
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = "https://github.com/acme/r" + string(rune('a'+i))
	}

	docs := NewReadmeFetcher(src, ReadmeOptions{}).FetchReadmes(context.Background(), urls)

	assert.Empty(t, docs)
	assert.Len(t, src.calls, 8)
}

func TestReadmeFetcher_NoRepos(t *testing.T) {
	src := &fakeReadmes{}
	assert.Nil(t, NewReadmeFetcher(src, ReadmeOptions{}).FetchReadmes(context.Background(), []string{"https://example.com"}))
	assert.Empty(t, src.calls)
}
