package research

import (
	"regexp"
	"strings"
)

// Score values returned by URLScore, highest first.
const (
	ScoreCodeRepo   = 100
	ScoreLaunchPost = 95
	ScoreHighValue  = 80
	ScoreHomepage   = 60
	ScoreDefault    = 30
)

// domainBlocklist holds domains whose pages are never products: news and
// business press, review aggregators, listicle sites, social networks, app
// stores and our own deployments.
var domainBlocklist = []string{
	"forbes.com", "businessinsider.com", "entrepreneur.com",
	"inc.com", "fastcompany.com", "wired.com",
	"g2.com", "capterra.com", "alternativeto.com",
	"slant.co", "sourceforge.net", "softwareadvice.com",
	"futurepedia.io", "pineapplebuilder.com", "bubble.io",
	"flowjam.com", "theresanaiforthat.com",
	"indeed.com", "glassdoor.com", "linkedin.com",
	"twitter.com", "x.com", "facebook.com", "instagram.com",
	"nytimes.com", "wsj.com", "ft.com", "bloomberg.com",
	"amazon.com", "imdb.com",
	"techcrunch.com", "theverge.com", "zdnet.com", "cnet.com",
	"wikipedia.org",
	"medium.com",
	"youtube.com",
	"play.google.com", "apps.apple.com",
	"worth-the-watch.vercel.app", "shiporskip.vercel.app",
	"ship-or-skip-peach.vercel.app",
	"soft112.com", "talkwalker.com", "owasp.org",
}

var highValueDomains = []string{
	"github.com", "producthunt.com", "news.ycombinator.com",
	"indiehackers.com", "devpost.com",
	"reddit.com", "dev.to", "hashnode.dev",
}

var forumDomains = []string{"reddit.com", "news.ycombinator.com", "indiehackers.com"}

var aggregatorDomains = []string{"devpost.com", "dev.to", "hashnode.dev"}

// titleBlocklist matches listicles, tutorials and comparison posts.
var titleBlocklist = compileAll(
	`^best .+ alternatives`,
	`^\d+ best .+`,
	`^top \d+`,
	`^how to build`,
	`^how to create`,
	`^how to use`,
	`alternatives for`,
	`alternatives to`,
	`alternatives \(`,
	`\bvs\b`,
	`reviews?:.+pricing`,
	`reviews?:.+alternatives`,
	`ultimate guide`,
	`complete guide`,
	`comparison table`,
	`^looking for`,
	`^modern assessments`,
	`^using web-based`,
	`^machine learning.based`,
	`a collection of awesome`,
	`a toolbox for`,
)

// stopWords never count towards relevance.
var stopWords = map[string]bool{
	"app": true, "tool": true, "an": true, "a": true, "the": true, "for": true,
	"and": true, "or": true, "with": true, "to": true, "of": true, "in": true,
	"is": true, "it": true, "that": true, "this": true,
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// BareDomain returns the lowercase host of rawURL without scheme, port,
// credentials or a leading "www.".
func BareDomain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s[i:], "]") {
		s = s[:i]
	}
	s = strings.ToLower(s)
	return strings.TrimPrefix(s, "www.")
}

// domainMatches reports whether domain is suffix or one of its subdomains.
func domainMatches(domain, suffix string) bool {
	return domain == suffix || strings.HasSuffix(domain, "."+suffix)
}

func matchesAny(domain string, suffixes []string) bool {
	for _, s := range suffixes {
		if domainMatches(domain, s) {
			return true
		}
	}
	return false
}

// IsBlocked reports whether rawURL belongs to a blocklisted domain. Only the
// host is inspected. A host matches an entry when it equals the entry or
// ends with "." plus the entry, so x.com blocks mobile.x.com but not
// netflix.com.
func IsBlocked(rawURL string) bool {
	domain := BareDomain(rawURL)
	if domain == "" {
		return false
	}
	return matchesAny(domain, domainBlocklist)
}

// IsTitleBlocked reports whether title looks like a listicle, tutorial or
// comparison post rather than a product.
func IsTitleBlocked(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, re := range titleBlocklist {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// Keywords returns the meaningful lowercase words of phrase.
func Keywords(phrase string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// IsRelevant reports whether title or snippet mentions at least one keyword
// of the cleaned idea. An idea without keywords accepts everything.
func IsRelevant(title, snippet, cleanedIdea string) bool {
	words := Keywords(cleanedIdea)
	if len(words) == 0 {
		return true
	}
	text := strings.ToLower(title + " " + snippet)
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// URLScore ranks a URL by how likely it points at a real product page.
func URLScore(rawURL string) int {
	domain := BareDomain(rawURL)
	if domain == "" {
		return 0
	}
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	slashes := strings.Count(trimmed, "/")

	switch {
	case domainMatches(domain, "github.com") && slashes >= 4:
		return ScoreCodeRepo
	case domainMatches(domain, "producthunt.com") &&
		(strings.Contains(trimmed, "/posts/") || strings.Contains(trimmed, "/products/")):
		return ScoreLaunchPost
	case matchesAny(domain, highValueDomains):
		return ScoreHighValue
	case slashes <= 3:
		return ScoreHomepage
	}
	return ScoreDefault
}

// NormalizeURL is the identity used for deduplication.
func NormalizeURL(rawURL string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(rawURL)), "/")
}

// ClassifySource maps a URL to its display category.
func ClassifySource(rawURL string) SourceType {
	domain := BareDomain(rawURL)
	switch {
	case domainMatches(domain, "github.com"):
		return SourceCode
	case domainMatches(domain, "producthunt.com"):
		return SourceLaunch
	case matchesAny(domain, forumDomains):
		return SourceForum
	case matchesAny(domain, aggregatorDomains):
		return SourceAggregator
	}
	return SourceWeb
}

func isCodeHost(rawURL string) bool {
	return domainMatches(BareDomain(rawURL), "github.com")
}

func isLaunchPlatform(rawURL string) bool {
	return domainMatches(BareDomain(rawURL), "producthunt.com")
}
