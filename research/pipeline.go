package research

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/roshanshetty271/ShipOrSkip/fetch"
	"github.com/roshanshetty271/ShipOrSkip/graph"
	"github.com/roshanshetty271/ShipOrSkip/llm"
	"github.com/roshanshetty271/ShipOrSkip/log"
	"github.com/roshanshetty271/ShipOrSkip/store"
)

// DefaultModel is used for every stage unless overridden.
const DefaultModel = "gpt-4.1-mini-2025-04-14"

// MaxIdeaChars bounds the idea text in runes.
const MaxIdeaChars = 500

const eventBuffer = 16

// Options tunes a Pipeline. Zero fields take defaults.
type Options struct {
	PlannerModel    string
	ExtractorModel  string
	StrategistModel string

	PlannerTimeout    time.Duration // 10s
	ExtractorTimeout  time.Duration // 45s
	StrategistTimeout time.Duration // 90s

	// EnableExtractor inserts the competitor-profile stage before the strategist.
	EnableExtractor bool

	ContextChars int // DefaultContextChars
	MaxSources   int // DefaultMaxSources
}

func (o Options) withDefaults() Options {
	for _, m := range []*string{&o.PlannerModel, &o.ExtractorModel, &o.StrategistModel} {
		if *m == "" {
			*m = DefaultModel
		}
	}
	if o.PlannerTimeout <= 0 {
		o.PlannerTimeout = 10 * time.Second
	}
	if o.ExtractorTimeout <= 0 {
		o.ExtractorTimeout = 45 * time.Second
	}
	if o.StrategistTimeout <= 0 {
		o.StrategistTimeout = 90 * time.Second
	}
	if o.ContextChars <= 0 {
		o.ContextChars = DefaultContextChars
	}
	if o.MaxSources <= 0 {
		o.MaxSources = DefaultMaxSources
	}
	return o
}

// ReadmeFetcher downloads the READMEs of repositories linked from urls.
type ReadmeFetcher interface {
	FetchReadmes(ctx context.Context, urls []string) []fetch.Document
}

// PageFetcher downloads and extracts competitor pages.
type PageFetcher interface {
	FetchPages(ctx context.Context, urls []string) []fetch.Document
}

// Dependencies are the external collaborators of a Pipeline. Any of them
// may be nil: a missing searcher skips its adapters, a missing model ends
// every run with a not-configured error and a missing checkpoint store
// disables checkpoints.
type Dependencies struct {
	Web         WebSearcher
	Repos       RepoSearcher
	Readmes     ReadmeFetcher
	Pages       PageFetcher // defaults to fetch.NewPageFetcher
	Model       llm.Model
	Checkpoints store.CheckpointStore
	Logger      log.Logger
}

// Pipeline runs idea-validation research. It holds no per-run state and is
// safe for concurrent runs.
type Pipeline struct {
	opts        Options
	planner     *Planner
	web         *WebAdapter
	code        *CodeAdapter
	launch      *LaunchAdapter
	readmes     ReadmeFetcher
	pages       PageFetcher
	model       llm.Model
	checkpoints store.CheckpointStore
	logger      log.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(deps Dependencies, opts Options) *Pipeline {
	opts = opts.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = &log.NoOpLogger{}
	}

	web := NewWebAdapter(deps.Web, log.Prefixed(logger, "[Web]"))
	pages := deps.Pages
	if pages == nil {
		pages = fetch.NewPageFetcher(fetch.PageOptions{Logger: log.Prefixed(logger, "[Fetcher]")})
	}

	return &Pipeline{
		opts:        opts,
		planner:     NewPlanner(deps.Model, opts.PlannerModel, opts.PlannerTimeout, log.Prefixed(logger, "[Planner]")),
		web:         web,
		code:        NewCodeAdapter(deps.Repos, web, log.Prefixed(logger, "[GitHub]")),
		launch:      NewLaunchAdapter(web, log.Prefixed(logger, "[ProductHunt]")),
		readmes:     deps.Readmes,
		pages:       pages,
		model:       deps.Model,
		checkpoints: deps.Checkpoints,
		logger:      log.Prefixed(logger, "[Pipeline]"),
	}
}

// Graph returns the research graph:
//
//	plan -> {search_web, search_code, search_launch} -> deduplicate
//	     -> deep_fetch -> [extract] -> strategize -> END
func (p *Pipeline) Graph() *graph.StateGraph[PipelineState] {
	g := graph.NewStateGraph[PipelineState]()

	fm := graph.NewFieldMerger(PipelineState{})
	fm.RegisterFieldMerge("Hits", graph.AppendSliceMerge)
	fm.RegisterFieldMerge("Events", graph.AppendSliceMerge)
	g.SetSchema(fm)

	g.AddNode(NodePlan, "Clean the idea and plan queries", p.planNode)
	g.AddNode(NodeSearchWeb, "Search the web", p.searchWebNode)
	g.AddNode(NodeSearchCode, "Search GitHub repositories", p.searchCodeNode)
	g.AddNode(NodeSearchLaunch, "Search Product Hunt launches", p.searchLaunchNode)
	g.AddNode(NodeDeduplicate, "Deduplicate and rank hits", p.deduplicateNode)
	g.AddNode(NodeDeepFetch, "Fetch READMEs and pages, assemble context", p.deepFetchNode)
	g.AddNode(NodeStrategize, "Write the competitive analysis", p.strategizeNode)

	g.SetEntryPoint(NodePlan)

	// plan -> three searches (parallel)
	for _, search := range []string{NodeSearchWeb, NodeSearchCode, NodeSearchLaunch} {
		g.AddEdge(NodePlan, search)
		g.AddEdge(search, NodeDeduplicate)
	}
	g.AddEdge(NodeDeduplicate, NodeDeepFetch)

	if p.opts.EnableExtractor {
		g.AddNode(NodeExtract, "Extract competitor profiles", p.extractNode)
		g.AddEdge(NodeDeepFetch, NodeExtract)
		g.AddEdge(NodeExtract, NodeStrategize)
	} else {
		g.AddEdge(NodeDeepFetch, NodeStrategize)
	}
	g.AddEdge(NodeStrategize, graph.END)

	return g
}

// ValidateIdea trims idea and checks it holds 1 to MaxIdeaChars runes.
func ValidateIdea(idea string) (string, *RunError) {
	idea = strings.TrimSpace(idea)
	switch n := utf8.RuneCountInString(idea); {
	case n == 0:
		return "", &RunError{Kind: KindInvalidInput, Message: "Idea is required."}
	case n > MaxIdeaChars:
		return "", &RunError{Kind: KindInvalidInput, Message: "Idea must be at most 500 characters."}
	}
	return idea, nil
}

// Run researches idea and streams progress. The channel ends with exactly one
// done or error event and is then closed. Cancelling ctx stops delivery; the
// channel is still closed once the graph returns.
func (p *Pipeline) Run(ctx context.Context, idea, category string) <-chan ProgressEvent {
	out := make(chan ProgressEvent, eventBuffer)
	go func() {
		defer close(out)
		p.run(ctx, idea, category, out)
	}()
	return out
}

func (p *Pipeline) run(ctx context.Context, idea, category string, out chan<- ProgressEvent) {
	send := func(e ProgressEvent) bool {
		select {
		case out <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(f *RunError) {
		send(ProgressEvent{Kind: EventError, Message: f.Message})
	}

	idea, invalid := ValidateIdea(idea)
	if invalid != nil {
		fail(invalid)
		return
	}
	runID := uuid.NewString()
	p.logger.Info("run %s: %q", runID, FirstWords(idea, 10))

	start := progress("", pctStart, "Starting deep research...")
	start.RunID = runID
	if !send(start) {
		return
	}

	runnable, err := p.Graph().Compile()
	if err != nil {
		p.logger.Error("run %s: compile: %v", runID, err)
		fail(&RunError{Kind: KindInternal, Message: MsgInternal, Err: err})
		return
	}

	// Listener calls are serialized by the engine.
	terminal := false
	runnable.AddListener(graph.NodeListenerFunc[PipelineState](
		func(ctx context.Context, event graph.NodeEvent, name string, update PipelineState, err error) {
			switch event {
			case graph.NodeEventComplete:
				for _, e := range update.Events {
					if terminal {
						return
					}
					if !send(e) {
						return
					}
					terminal = e.Terminal()
				}
			case graph.NodeEventError:
				p.logger.Error("run %s: node %s: %v", runID, name, err)
			}
		}))
	if p.checkpoints != nil {
		runnable.AddStepHandler(graph.StepHandlerFunc[PipelineState](
			func(ctx context.Context, step int, nodes []string, state PipelineState) {
				p.saveCheckpoint(ctx, step, nodes, state)
			}))
	}

	final, err := runnable.Invoke(ctx, PipelineState{RunID: runID, Idea: idea, Category: strings.TrimSpace(category)})
	switch {
	case terminal:
	case err != nil:
		p.logger.Error("run %s: %v", runID, err)
		fail(&RunError{Kind: KindInternal, Message: MsgInternal, Err: err})
	default:
		fail(&RunError{Kind: KindUnanalyzable, Message: MsgNoAnalysis})
	}
	if final.Report != nil {
		p.logger.Info("run %s: done with %d sources", runID, len(final.Report.Sources))
	}
}

func (p *Pipeline) saveCheckpoint(ctx context.Context, step int, nodes []string, s PipelineState) {
	cp := &store.Checkpoint{
		ID:        uuid.NewString(),
		RunID:     s.RunID,
		NodeName:  strings.Join(nodes, ","),
		Step:      step,
		State:     Summarize(s),
		Timestamp: time.Now(),
	}
	if err := p.checkpoints.Save(ctx, cp); err != nil {
		p.logger.Warn("run %s: checkpoint step %d: %v", s.RunID, step, err)
	}
}

// Summarize returns the checkpoint view of a state: counts and labels,
// never fetched text.
func Summarize(s PipelineState) map[string]any {
	m := map[string]any{
		"cleaned_idea":  s.CleanedIdea,
		"category":      s.Category,
		"queries":       s.Queries,
		"hits":          len(s.Hits),
		"candidates":    len(s.Candidates),
		"blocked":       s.Blocked,
		"sources":       len(s.Sources),
		"readmes":       len(s.Readmes),
		"pages":         len(s.Pages),
		"context_chars": fetch.Len(s.Context),
		"events":        len(s.Events),
	}
	if s.Failure != nil {
		m["failure"] = string(s.Failure.Kind)
	}
	if s.Report != nil {
		m["competitors"] = len(s.Report.Competitors)
		m["market_saturation"] = s.Report.MarketSaturation
	}
	return m
}
