package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roshanshetty271/ShipOrSkip/log"
	"github.com/roshanshetty271/ShipOrSkip/parallel"
)

// maxPageBytes caps how much of a page body is parsed.
const maxPageBytes = 2 << 20

// PageOptions configures a PageFetcher. Zero fields take the defaults shown.
type PageOptions struct {
	MaxPages    int           // 10
	Target      int           // 5
	Concurrency int           // 5
	MinChars    int           // 200
	MaxChars    int           // 3000
	Timeout     time.Duration // 10s per page
	Client      *http.Client
	UserAgents  *UserAgentPool
	Logger      log.Logger
}

// PageFetcher downloads competitor pages and extracts their main text.
type PageFetcher struct {
	opts PageOptions
}

// NewPageFetcher creates a PageFetcher.
func NewPageFetcher(opts PageOptions) *PageFetcher {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 10
	}
	if opts.Target <= 0 {
		opts.Target = 5
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.MinChars <= 0 {
		opts.MinChars = 200
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 3000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Client == nil {
		opts.Client = NewHTTPClient(opts.Timeout, DefaultMaxRedirects)
	}
	if opts.UserAgents == nil {
		opts.UserAgents = NewUserAgentPool(nil)
	}
	if opts.Logger == nil {
		opts.Logger = &log.NoOpLogger{}
	}
	return &PageFetcher{opts: opts}
}

// FetchPages fetches the first MaxPages urls, which the caller has already
// ranked, and returns as soon as Target pages yielded more than MinChars of
// text. Pending fetches are cancelled at that point. Failed or short pages
// are logged and skipped. Documents are in arrival order.
func (f *PageFetcher) FetchPages(ctx context.Context, urls []string) []Document {
	if len(urls) > f.opts.MaxPages {
		urls = urls[:f.opts.MaxPages]
	}

	tasks := make([]parallel.Task[Document], len(urls))
	for i, u := range urls {
		tasks[i] = func(ctx context.Context) (Document, error) {
			text, err := f.Fetch(ctx, u)
			if err != nil {
				if ctx.Err() == nil {
					f.opts.Logger.Debug("skip %s: %v", u, err)
				}
				return Document{}, err
			}
			if Len(text) <= f.opts.MinChars {
				f.opts.Logger.Debug("skip %s: only %d chars", u, Len(text))
			}
			return Document{Key: u, Content: Truncate(text, f.opts.MaxChars)}, nil
		}
	}

	results := parallel.FirstN(ctx, f.opts.Target, f.opts.Concurrency, tasks, func(d Document) bool {
		return Len(d.Content) > f.opts.MinChars
	})

	docs := make([]Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Value)
	}
	f.opts.Logger.Info("deep fetch kept %d of %d pages", len(docs), len(urls))
	return docs
}

// Fetch downloads one page and returns its extracted main text.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgents.Random())
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}

	return ExtractText(io.LimitReader(resp.Body, maxPageBytes))
}
