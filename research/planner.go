package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roshanshetty271/ShipOrSkip/llm"
	"github.com/roshanshetty271/ShipOrSkip/log"
)

const (
	fallbackWords    = 8
	cleanupMaxTokens = 30
)

// BaselineQueries returns the fixed query set for a cleaned idea: direct
// competitors, code host, launch platform, indie community, startups and
// open source.
func BaselineQueries(cleaned string) []string {
	return []string{
		fmt.Sprintf("%s app alternative", cleaned),
		fmt.Sprintf("%s site:github.com", cleaned),
		fmt.Sprintf("%s site:producthunt.com", cleaned),
		fmt.Sprintf("%s indie hacker side project", cleaned),
		fmt.Sprintf("%s startup competitor", cleaned),
		fmt.Sprintf("%s open source tool", cleaned),
	}
}

// FirstWords returns the first n whitespace-separated words of s.
func FirstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// Planner derives the core concept of an idea and the queries to run.
type Planner struct {
	model   llm.Model
	name    string
	timeout time.Duration
	logger  log.Logger
}

// NewPlanner creates a Planner. model may be nil, in which case the concept
// is always the first words of the idea.
func NewPlanner(model llm.Model, modelName string, timeout time.Duration, logger log.Logger) *Planner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = &log.NoOpLogger{}
	}
	return &Planner{model: model, name: modelName, timeout: timeout, logger: logger}
}

// Clean strips conversational filler from idea. It never fails: without a
// model, or when the model errors or answers with nothing, the first eight
// words of the idea are used.
func (p *Planner) Clean(ctx context.Context, idea string) string {
	fallback := FirstWords(idea, fallbackWords)
	if p.model == nil {
		return fallback
	}

	resp, err := p.model.Generate(ctx, &llm.Request{
		Model:     p.name,
		System:    cleanupSystemPrompt,
		User:      idea,
		MaxTokens: cleanupMaxTokens,
		Timeout:   p.timeout,
	})
	if err != nil {
		p.logger.Warn("cleanup failed (%s), using %q: %v", ClassifyLLMError(err).Kind, fallback, err)
		return fallback
	}

	cleaned := strings.Trim(strings.TrimSpace(resp.Content), "\"'")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || resp.Refusal != "" {
		p.logger.Warn("cleanup returned nothing, using %q", fallback)
		return fallback
	}
	p.logger.Info("cleaned %q -> %q", FirstWords(idea, 10), cleaned)
	return cleaned
}

// Plan returns the cleaned concept and its query set.
func (p *Planner) Plan(ctx context.Context, idea string) (string, []string) {
	cleaned := p.Clean(ctx, idea)
	queries := BaselineQueries(cleaned)
	for i, q := range queries {
		p.logger.Debug("query %d: %s", i+1, q)
	}
	return cleaned, queries
}
