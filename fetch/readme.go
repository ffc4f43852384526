package fetch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/roshanshetty271/ShipOrSkip/log"
	"golang.org/x/sync/errgroup"
)

// nonRepoOwners are first path segments on the code host that are site
// sections rather than users or organisations.
var nonRepoOwners = map[string]bool{
	"topics":   true,
	"search":   true,
	"trending": true,
	"explore":  true,
	"orgs":     true,
}

// RepoRef names a repository on the code host.
type RepoRef struct {
	Owner string
	Repo  string
}

// Slug returns "owner/repo".
func (r RepoRef) Slug() string {
	return r.Owner + "/" + r.Repo
}

// ExtractRepos returns the distinct repositories linked by urls, in input
// order, at most limit of them. Non-repository paths are ignored.
func ExtractRepos(urls []string, limit int) []RepoRef {
	seen := make(map[string]bool)
	var refs []RepoRef
	for _, raw := range urls {
		if limit > 0 && len(refs) >= limit {
			break
		}
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if host != "github.com" {
			continue
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		owner := parts[0]
		repo := strings.TrimSuffix(parts[1], ".git")
		if nonRepoOwners[strings.ToLower(owner)] || repo == "" {
			continue
		}
		key := strings.ToLower(owner + "/" + repo)
		if seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, RepoRef{Owner: owner, Repo: repo})
	}
	return refs
}

// ReadmeSource downloads the README of one repository.
type ReadmeSource interface {
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
}

// ReadmeOptions configures a ReadmeFetcher. Zero fields take the defaults shown.
type ReadmeOptions struct {
	MaxRepos int           // 8
	MinChars int           // 100
	MaxChars int           // 3000
	Timeout  time.Duration // 8s per repository
	Logger   log.Logger
}

// ReadmeFetcher downloads README files for repositories found in search hits.
type ReadmeFetcher struct {
	source ReadmeSource
	opts   ReadmeOptions
}

// NewReadmeFetcher creates a ReadmeFetcher over source.
func NewReadmeFetcher(source ReadmeSource, opts ReadmeOptions) *ReadmeFetcher {
	if opts.MaxRepos <= 0 {
		opts.MaxRepos = 8
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 100
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 3000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = &log.NoOpLogger{}
	}
	return &ReadmeFetcher{source: source, opts: opts}
}

// FetchReadmes fetches the READMEs of the repositories linked by urls
// concurrently. Markdown is flattened to text; documents shorter than
// MinChars are dropped and the rest truncated to MaxChars. The result keeps
// repository order and is keyed by slug.
func (f *ReadmeFetcher) FetchReadmes(ctx context.Context, urls []string) []Document {
	refs := ExtractRepos(urls, f.opts.MaxRepos)
	if len(refs) == 0 {
		return nil
	}

	contents := make([]string, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, f.opts.Timeout)
			defer cancel()

			md, err := f.source.FetchReadme(rctx, ref.Owner, ref.Repo)
			if err != nil {
				f.opts.Logger.Debug("readme %s: %v", ref.Slug(), err)
				return nil
			}
			contents[i] = MarkdownToText(md)
			return nil
		})
	}
	_ = g.Wait()

	var docs []Document
	for i, ref := range refs {
		if Len(contents[i]) <= f.opts.MinChars {
			continue
		}
		docs = append(docs, Document{Key: ref.Slug(), Content: Truncate(contents[i], f.opts.MaxChars)})
	}
	f.opts.Logger.Info("fetched %d of %d readmes", len(docs), len(refs))
	return docs
}
