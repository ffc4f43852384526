package research

import (
	"fmt"

	"github.com/roshanshetty271/ShipOrSkip/fetch"
)

// Adapter tags the search surface a hit came from.
type Adapter string

const (
	AdapterWeb    Adapter = "web"
	AdapterCode   Adapter = "github"
	AdapterLaunch Adapter = "producthunt"
)

// SourceType is the display category of a source.
type SourceType string

const (
	SourceWeb        SourceType = "web"
	SourceCode       SourceType = "github"
	SourceLaunch     SourceType = "producthunt"
	SourceForum      SourceType = "forum"
	SourceAggregator SourceType = "aggregator"
)

// SearchHit is one normalized result from any adapter.
type SearchHit struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	RawContent string  `json:"raw_content,omitempty"`
	Adapter    Adapter `json:"adapter"`

	// Code-host metadata, set by the repository search.
	Stars    int    `json:"stars,omitempty"`
	Language string `json:"language,omitempty"`
}

// DisplaySource is a presentation-ready source attached to the report.
type DisplaySource struct {
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Snippet    string     `json:"snippet"`
	SourceType SourceType `json:"source_type"`
	Score      int        `json:"score"`
}

// Competitor is one product the strategist considers a direct competitor.
type Competitor struct {
	Name           string `json:"name" description:"Product name exactly as it appears in the search data"`
	URL            string `json:"url" description:"URL taken from the search data, empty if none"`
	Description    string `json:"description"`
	Differentiator string `json:"differentiator"`
	ThreatLevel    string `json:"threat_level" enum:"low,medium,high"`
}

// Analysis is the structured answer the strategist model returns.
type Analysis struct {
	Competitors      []Competitor `json:"competitors"`
	Pros             []string     `json:"pros"`
	Cons             []string     `json:"cons"`
	MarketSaturation string       `json:"market_saturation" enum:"low,medium,high"`
	Gaps             []string     `json:"gaps"`
	Verdict          string       `json:"verdict"`
	BuildPlan        []string     `json:"build_plan"`
}

// AnalysisReport is the terminal output of a run.
type AnalysisReport struct {
	Analysis
	Sources []DisplaySource `json:"raw_sources"`
}

// EventKind tags a ProgressEvent.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventError    EventKind = "error"
	EventDone     EventKind = "done"
)

// ProgressEvent is emitted by pipeline nodes and forwarded to the caller as
// soon as the emitting node finishes. Events are never mutated after
// emission.
type ProgressEvent struct {
	Kind    EventKind       `json:"kind"`
	Node    string          `json:"node,omitempty"`
	Message string          `json:"message"`
	Percent int             `json:"pct"`
	Report  *AnalysisReport `json:"report,omitempty"`

	// RunID is set on the first event of a run.
	RunID string `json:"run_id,omitempty"`
}

// Terminal reports whether e ends the stream.
func (e ProgressEvent) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventError
}

func progress(node string, pct int, format string, args ...any) ProgressEvent {
	return ProgressEvent{Kind: EventProgress, Node: node, Message: fmt.Sprintf(format, args...), Percent: pct}
}

// PipelineState is the record threaded through the research graph. Hits and
// Events accumulate across nodes; every other field is set by exactly one
// node and overwritten by the merge.
type PipelineState struct {
	RunID       string
	Idea        string
	CleanedIdea string
	Category    string
	Queries     []string

	// Hits accumulates the raw results of all three adapters.
	Hits []SearchHit
	// Candidates is the deduplicated, ranked hit list.
	Candidates []SearchHit
	Sources    []DisplaySource
	Blocked    int

	Readmes []fetch.Document
	Pages   []fetch.Document
	Context string

	// Profiles is the extractor's competitor digest, if that stage ran.
	Profiles string

	Report  *AnalysisReport
	Failure *RunError

	Events []ProgressEvent
}

// HitsFrom returns the hits tagged with adapter a, in order.
func HitsFrom(hits []SearchHit, a Adapter) []SearchHit {
	var out []SearchHit
	for _, h := range hits {
		if h.Adapter == a {
			out = append(out, h)
		}
	}
	return out
}
