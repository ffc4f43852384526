package research

import (
	"fmt"
	"strings"

	"github.com/roshanshetty271/ShipOrSkip/fetch"
)

// DefaultContextChars is the total context budget handed to the strategist.
const DefaultContextChars = 16000

// Budget shares of the context, in percent.
const (
	repoShare    = 30
	pageShare    = 50
	snippetShare = 20
)

const (
	maxLaunchLines   = 5
	maxSnippetLines  = 15
	snippetLineChars = 200
)

const (
	headerRepos    = "## GitHub Repos & Product Hunt Launches"
	headerPages    = "## Competitor Pages (Full Content)"
	headerSnippets = "## Market Context (Snippets)"
)

// ContextInput is everything the assembler may draw from.
type ContextInput struct {
	Readmes  []fetch.Document
	Launches []SearchHit
	Pages    []fetch.Document
	Snippets []SearchHit
}

// Budgets splits maxChars into the repository, page and snippet buckets.
func Budgets(maxChars int) (repos, pages, snippets int) {
	return maxChars * repoShare / 100, maxChars * pageShare / 100, maxChars * snippetShare / 100
}

// bucket fills greedily up to budget characters.
type bucket struct {
	budget int
	used   int
	parts  []string
}

func (b *bucket) full() bool {
	return b.used >= b.budget
}

// addTruncated adds chunk, cutting it to the remaining budget.
func (b *bucket) addTruncated(chunk string) {
	if n := fetch.Len(chunk); b.used+n > b.budget {
		chunk = fetch.Truncate(chunk, b.budget-b.used)
	}
	if chunk == "" {
		return
	}
	b.parts = append(b.parts, chunk)
	b.used += fetch.Len(chunk)
}

// addWhole adds line only if it fits entirely.
func (b *bucket) addWhole(line string) bool {
	n := fetch.Len(line)
	if b.used+n > b.budget {
		return false
	}
	b.parts = append(b.parts, line)
	b.used += n
	return true
}

// LaunchLine renders a launch-platform hit for the context.
func LaunchLine(h SearchHit) string {
	return fmt.Sprintf("Product Hunt: %s - %s (%s)", h.Title, fetch.Truncate(h.Snippet, snippetLineChars), h.URL)
}

// AssembleContext builds the strategist context under a maxChars budget split
// 30/50/20 across repositories and launches, competitor pages and search
// snippets. Each bucket is filled in input order; the chunk that would
// overflow a bucket is truncated and filling stops there. Launch lines and
// snippet lines are never cut: the first one that does not fit ends its
// bucket. Section headers and separators are not counted.
func AssembleContext(in ContextInput, maxChars int) string {
	repoBudget, pageBudget, snippetBudget := Budgets(maxChars)

	var sections []string

	repos := &bucket{budget: repoBudget}
	for _, d := range in.Readmes {
		repos.addTruncated(fmt.Sprintf("### GitHub: %s\n%s\n", d.Key, d.Content))
		if repos.full() {
			break
		}
	}
	for i, h := range in.Launches {
		if i >= maxLaunchLines || !repos.addWhole(LaunchLine(h)) {
			break
		}
	}
	if len(repos.parts) > 0 {
		sections = append(sections, headerRepos+"\n"+strings.Join(repos.parts, "\n"))
	}

	pages := &bucket{budget: pageBudget}
	for _, d := range in.Pages {
		if isCodeHost(d.Key) {
			continue
		}
		pages.addTruncated(fmt.Sprintf("### %s\n%s\n", d.Key, d.Content))
		if pages.full() {
			break
		}
	}
	if len(pages.parts) > 0 {
		sections = append(sections, headerPages+"\n"+strings.Join(pages.parts, "\n"))
	}

	snippets := &bucket{budget: snippetBudget}
	for i, h := range in.Snippets {
		if i >= maxSnippetLines {
			break
		}
		line := fmt.Sprintf("- %s (%s): %s", h.Title, h.URL, fetch.Truncate(h.Snippet, snippetLineChars))
		if !snippets.addWhole(line) {
			break
		}
	}
	if len(snippets.parts) > 0 {
		sections = append(sections, headerSnippets+"\n"+strings.Join(snippets.parts, "\n"))
	}

	return strings.Join(sections, "\n\n")
}
