package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html><head><title>Reelscore</title><style>body{color:red}</style><script>track()</script></head>
<body>
<header><nav><a href="/">Home</a><a href="/pricing">Pricing</a></nav></header>
<!-- hero section -->
<article>
  <h1>Reelscore</h1>
  <p>Reelscore tells you whether a   movie is worth watching.</p>
  <ul><li>Aggregated critic scores</li><li>Spoiler-free <b>verdicts</b></li></ul>
  <table><tr><td>Plan</td><td>$5</td></tr></table>
</article>
<aside>Related posts</aside>
<footer>Copyright 2025</footer>
</body></html>`

func TestExtractText_PrefersArticleAndDropsBoilerplate(t *testing.T) {
	text, err := ExtractText(strings.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "Reelscore\nReelscore tells you whether a movie is worth watching.\nAggregated critic scores\nSpoiler-free verdicts", text)
	for _, gone := range []string{"Pricing", "track()", "hero section", "$5", "Related posts", "Copyright"} {
		assert.NotContains(t, text, gone)
	}
}

func TestExtractText_FallsBackToBody(t *testing.T) {
	text, err := ExtractText(strings.NewReader(`<html><body><div>Just   some
	text</div></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Just some\ntext", text)
}

func TestExtractText_NestedBlocksNotDuplicated(t *testing.T) {
	text, err := ExtractText(strings.NewReader(`<main><ul><li><p>Once</p></li></ul></main>`))
	require.NoError(t, err)
	assert.Equal(t, "Once", text)
}

func TestMarkdownToText(t *testing.T) {
	md := "# Verdict\n\nA **fast** way to decide &amp; move on.\n\n* one\n* two\n\n<img src=\"x.png\">\n"

	text := MarkdownToText(md)

	assert.Contains(t, text, "Verdict")
	assert.Contains(t, text, "A fast way to decide & move on.")
	assert.Contains(t, text, "one")
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "**")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, 4, Len(Truncate("日本語テキスト", 4)))
}
