package research

import (
	"context"
	"slices"
	"strings"

	"github.com/roshanshetty271/ShipOrSkip/fetch"
	"github.com/roshanshetty271/ShipOrSkip/llm"
	"golang.org/x/sync/errgroup"
)

// Node names.
const (
	NodePlan         = "plan"
	NodeSearchWeb    = "search_web"
	NodeSearchCode   = "search_code"
	NodeSearchLaunch = "search_launch"
	NodeDeduplicate  = "deduplicate"
	NodeDeepFetch    = "deep_fetch"
	NodeExtract      = "extract"
	NodeStrategize   = "strategize"
)

// Progress percentages.
const (
	pctStart       = 3
	pctPlanned     = 8
	pctSkipped     = 25
	pctSearched    = 28
	pctFiltered    = 40
	pctFetched     = 55
	pctExtracted   = 70
	pctAnalyzed    = 95
	pctDone        = 100
	rawContentMin  = 200
	backfillChars  = 3000
	extractorLimit = 1500
)

const strategistMaxTokens = 3000

// concept is the phrase the adapters search for.
func (s PipelineState) concept() string {
	if s.CleanedIdea != "" {
		return s.CleanedIdea
	}
	return FirstWords(s.Idea, fallbackWords)
}

func (p *Pipeline) planNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	cleaned, queries := p.planner.Plan(ctx, s.Idea)
	return PipelineState{
		CleanedIdea: cleaned,
		Queries:     queries,
		Events:      []ProgressEvent{progress(NodePlan, pctPlanned, "Planned %d queries", len(queries))},
	}, nil
}

func (p *Pipeline) searchWebNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	if !p.web.Configured() {
		return PipelineState{
			Events: []ProgressEvent{progress(NodeSearchWeb, pctSkipped, "Web search not configured")},
		}, nil
	}
	hits := p.web.SearchAll(ctx, s.Queries)
	p.logger.Info("web search: %d results from %d queries", len(hits), len(s.Queries))
	return PipelineState{
		Hits:   hits,
		Events: []ProgressEvent{progress(NodeSearchWeb, pctSearched, "Web: %d results", len(hits))},
	}, nil
}

func (p *Pipeline) searchCodeNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	if !p.code.Configured() {
		return PipelineState{
			Events: []ProgressEvent{progress(NodeSearchCode, pctSkipped, "GitHub search not configured")},
		}, nil
	}
	hits := p.code.Search(ctx, s.concept())
	p.logger.Info("code search: %d repos", len(hits))
	return PipelineState{
		Hits:   hits,
		Events: []ProgressEvent{progress(NodeSearchCode, pctSearched, "GitHub: %d repos", len(hits))},
	}, nil
}

func (p *Pipeline) searchLaunchNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	if !p.launch.Configured() {
		return PipelineState{
			Events: []ProgressEvent{progress(NodeSearchLaunch, pctSkipped, "Product Hunt search not configured")},
		}, nil
	}
	hits := p.launch.Search(ctx, s.concept())
	p.logger.Info("launch search: %d launches", len(hits))
	return PipelineState{
		Hits:   hits,
		Events: []ProgressEvent{progress(NodeSearchLaunch, pctSearched, "Product Hunt: %d launches", len(hits))},
	}, nil
}

func (p *Pipeline) deduplicateNode(_ context.Context, s PipelineState) (PipelineState, error) {
	res := Deduplicate(s.Hits)
	sources := BuildSources(res.Candidates, s.CleanedIdea, p.opts.MaxSources)
	p.logger.Info("%d raw -> %d unique (%d blocked), %d display sources",
		len(s.Hits), len(res.Candidates), res.Blocked, len(sources))

	return PipelineState{
		Candidates: res.Candidates,
		Sources:    sources,
		Blocked:    res.Blocked,
		Events: []ProgressEvent{progress(NodeDeduplicate, pctFiltered,
			"Filtered to %d quality results (%d raw, %d blocked)", len(res.Candidates), len(s.Hits), res.Blocked)},
	}, nil
}

// pageTargets splits web candidates into URLs worth fetching and documents
// backfilled from the raw content the search already returned.
func pageTargets(candidates []SearchHit) (fetchURLs []string, backfill []fetch.Document) {
	for _, h := range HitsFrom(candidates, AdapterWeb) {
		if h.URL == "" || isCodeHost(h.URL) || IsBlocked(h.URL) {
			continue
		}
		if fetch.Len(h.RawContent) > rawContentMin {
			backfill = append(backfill, fetch.Document{Key: h.URL, Content: fetch.Truncate(h.RawContent, backfillChars)})
			continue
		}
		fetchURLs = append(fetchURLs, h.URL)
	}
	return fetchURLs, backfill
}

func (p *Pipeline) deepFetchNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	urls := make([]string, 0, len(s.Candidates))
	for _, h := range s.Candidates {
		urls = append(urls, h.URL)
	}
	fetchURLs, backfill := pageTargets(s.Candidates)
	p.logger.Debug("%d candidates have raw content, %d need fetch", len(backfill), len(fetchURLs))

	var readmes, pages []fetch.Document
	g, gctx := errgroup.WithContext(ctx)
	if p.readmes != nil {
		g.Go(func() error {
			readmes = p.readmes.FetchReadmes(gctx, urls)
			return nil
		})
	}
	if p.pages != nil && len(fetchURLs) > 0 {
		g.Go(func() error {
			pages = p.pages.FetchPages(gctx, fetchURLs)
			return nil
		})
	}
	_ = g.Wait()

	fetched := make(map[string]bool, len(pages))
	for _, d := range pages {
		fetched[d.Key] = true
	}
	for _, d := range backfill {
		if !fetched[d.Key] {
			pages = append(pages, d)
		}
	}

	assembled := AssembleContext(ContextInput{
		Readmes:  readmes,
		Launches: HitsFrom(s.Candidates, AdapterLaunch),
		Pages:    pages,
		Snippets: HitsFrom(s.Candidates, AdapterWeb),
	}, p.opts.ContextChars)
	p.logger.Info("deep fetch: %d readmes, %d pages, context %d chars", len(readmes), len(pages), fetch.Len(assembled))

	return PipelineState{
		Readmes: readmes,
		Pages:   pages,
		Context: assembled,
		Events: []ProgressEvent{progress(NodeDeepFetch, pctFetched,
			"Deep fetched: %d READMEs + %d pages", len(readmes), len(pages))},
	}, nil
}

func (p *Pipeline) extractNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	if p.model == nil {
		return PipelineState{}, nil
	}

	resp, err := p.model.Generate(ctx, &llm.Request{
		Model:     p.opts.ExtractorModel,
		System:    extractorSystemPrompt,
		User:      ExtractorUserPrompt(s.concept(), orEmpty(s.Context)),
		MaxTokens: extractorLimit,
		Timeout:   p.opts.ExtractorTimeout,
	})
	if err == nil && resp.Refusal != "" {
		err = llm.ErrRefused
	}
	if err == nil && strings.TrimSpace(resp.Content) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		failure := ClassifyLLMError(err)
		p.logger.Error("extractor failed (%s): %v", failure.Kind, err)
		return PipelineState{
			Failure: failure,
			Events:  []ProgressEvent{progress(NodeExtract, pctExtracted, "Competitor extraction failed")},
		}, nil
	}

	p.logger.Info("extractor: %d prompt + %d completion tokens", resp.PromptTokens, resp.CompletionTokens)
	return PipelineState{
		Profiles: strings.TrimSpace(resp.Content),
		Events:   []ProgressEvent{progress(NodeExtract, pctExtracted, "Extracted competitor profiles")},
	}, nil
}

func (p *Pipeline) strategizeNode(ctx context.Context, s PipelineState) (PipelineState, error) {
	fail := func(f *RunError) (PipelineState, error) {
		p.logger.Error("run failed (%s): %v", f.Kind, f)
		return PipelineState{
			Failure: f,
			Events:  []ProgressEvent{{Kind: EventError, Node: NodeStrategize, Message: f.Message, Percent: pctAnalyzed}},
		}, nil
	}

	if s.Failure != nil {
		return fail(s.Failure)
	}
	if p.model == nil {
		return fail(&RunError{Kind: KindNotConfigured, Message: MsgNotConfigured, Err: llm.ErrNotConfigured})
	}

	numSources := len(HitsFrom(s.Candidates, AdapterWeb)) + len(s.Readmes) + len(HitsFrom(s.Candidates, AdapterLaunch))
	analysis, resp, err := llm.GenerateJSON[Analysis](ctx, p.model, llm.Request{
		Model:     p.opts.StrategistModel,
		System:    StrategistSystemPrompt(numSources),
		User:      StrategistUserPrompt(s.Idea, s.concept(), s.Category, s.Context, s.Profiles),
		MaxTokens: strategistMaxTokens,
		Timeout:   p.opts.StrategistTimeout,
		Schema: &llm.Schema{
			Name:        "analysis_result",
			Description: "Competitive analysis of a product idea",
		},
	})
	if err != nil {
		return fail(ClassifyLLMError(err))
	}
	if resp != nil {
		p.logger.Info("strategist: %d prompt + %d completion tokens", resp.PromptTokens, resp.CompletionTokens)
	}

	analysis = Normalize(analysis)
	if analysis.Empty() {
		return fail(&RunError{Kind: KindUnanalyzable, Message: MsgNoAnalysis})
	}

	sources := s.Sources
	if sources == nil {
		sources = []DisplaySource{}
	}
	report := &AnalysisReport{Analysis: analysis, Sources: sources}
	p.logger.Info("analysis complete: %d competitors, %d sources", len(analysis.Competitors), len(sources))

	return PipelineState{
		Report: report,
		Events: []ProgressEvent{
			progress(NodeStrategize, pctAnalyzed, "Analysis complete"),
			{Kind: EventDone, Node: NodeStrategize, Message: "done", Percent: pctDone, Report: report},
		},
	}, nil
}

func orEmpty(text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyContext
	}
	return text
}

var levels = []string{"low", "medium", "high"}

func normalizeLevel(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if slices.Contains(levels, v) {
		return v
	}
	return "medium"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Normalize coerces threat levels and market saturation to low, medium or
// high (medium when unrecognized) and replaces nil lists with empty ones.
func Normalize(a Analysis) Analysis {
	competitors := make([]Competitor, 0, len(a.Competitors))
	for _, c := range a.Competitors {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		c.ThreatLevel = normalizeLevel(c.ThreatLevel)
		competitors = append(competitors, c)
	}
	a.Competitors = competitors
	a.MarketSaturation = normalizeLevel(a.MarketSaturation)
	a.Pros = nonNil(a.Pros)
	a.Cons = nonNil(a.Cons)
	a.Gaps = nonNil(a.Gaps)
	a.BuildPlan = nonNil(a.BuildPlan)
	a.Verdict = strings.TrimSpace(a.Verdict)
	return a
}

// Empty reports whether the analysis carries nothing a reader could use.
func (a Analysis) Empty() bool {
	return a.Verdict == "" && len(a.Competitors) == 0 && len(a.Pros) == 0 &&
		len(a.Cons) == 0 && len(a.Gaps) == 0 && len(a.BuildPlan) == 0
}
