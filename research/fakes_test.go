package research

import (
	"context"
	"sync"

	"github.com/roshanshetty271/ShipOrSkip/fetch"
	"github.com/roshanshetty271/ShipOrSkip/llm"
	"github.com/roshanshetty271/ShipOrSkip/tool"
)

type fakeModel struct {
	mu    sync.Mutex
	calls []llm.Request
	fn    func(req *llm.Request) (*llm.Response, error)
}

func (m *fakeModel) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, *req)
	m.mu.Unlock()
	return m.fn(req)
}

func (m *fakeModel) requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.calls...)
}

// stageModel answers each pipeline stage from its own function; a nil
// function answers with empty content.
type stageModel struct {
	cleanup    func() (*llm.Response, error)
	extract    func() (*llm.Response, error)
	strategize func(req *llm.Request) (*llm.Response, error)
}

func (s stageModel) model() *fakeModel {
	call := func(fn func() (*llm.Response, error)) (*llm.Response, error) {
		if fn == nil {
			return &llm.Response{}, nil
		}
		return fn()
	}
	return &fakeModel{fn: func(req *llm.Request) (*llm.Response, error) {
		switch {
		case req.Schema != nil:
			if s.strategize == nil {
				return &llm.Response{}, nil
			}
			return s.strategize(req)
		case req.System == cleanupSystemPrompt:
			return call(s.cleanup)
		default:
			return call(s.extract)
		}
	}}
}

func answer(content string) func() (*llm.Response, error) {
	return func() (*llm.Response, error) {
		return &llm.Response{Content: content}, nil
	}
}

type fakeWeb struct {
	mu   sync.Mutex
	reqs []tool.TavilyRequest
	fn   func(req tool.TavilyRequest) (*tool.TavilyResponse, error)
}

func (w *fakeWeb) Search(ctx context.Context, req tool.TavilyRequest) (*tool.TavilyResponse, error) {
	w.mu.Lock()
	w.reqs = append(w.reqs, req)
	w.mu.Unlock()
	return w.fn(req)
}

func (w *fakeWeb) requests() []tool.TavilyRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]tool.TavilyRequest(nil), w.reqs...)
}

type fakeRepos struct {
	mu    sync.Mutex
	calls int
	repos []tool.Repository
	err   error
}

func (r *fakeRepos) SearchRepositories(ctx context.Context, query string, perPage int) ([]tool.Repository, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.repos, r.err
}

type fakeReadmes struct {
	mu   sync.Mutex
	urls []string
	docs []fetch.Document
}

func (f *fakeReadmes) FetchReadmes(ctx context.Context, urls []string) []fetch.Document {
	f.mu.Lock()
	f.urls = append(f.urls, urls...)
	f.mu.Unlock()
	return f.docs
}

type fakePages struct {
	mu   sync.Mutex
	urls []string
	fn   func(urls []string) []fetch.Document
}

func (f *fakePages) FetchPages(ctx context.Context, urls []string) []fetch.Document {
	f.mu.Lock()
	f.urls = append(f.urls, urls...)
	f.mu.Unlock()
	if f.fn == nil {
		return nil
	}
	return f.fn(urls)
}
