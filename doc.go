// ShipOrSkip - Validate a Product Idea Before You Build It
//
// ShipOrSkip takes a one-paragraph product idea and researches the existing
// market for it. Web search, code-host search and launch-site search run in
// parallel; the results are filtered, deduplicated and enriched with README
// and page content, then a language model returns a structured analysis:
// competitors with threat levels, pros, cons, market gaps, a verdict and a
// build plan.
//
// # Quick Start
//
// Install the command:
//
//	go install github.com/roshanshetty271/ShipOrSkip/cmd/shiporskip@latest
//
// Configure credentials (any of them may be omitted; the matching stage is
// reported as not configured):
//
//	export OPENAI_API_KEY=sk-...
//	export TAVILY_API_KEY=tvly-...
//	export GITHUB_TOKEN=ghp_...
//
// Run a research:
//
//	shiporskip research -i "AI app that gives a one-line verdict on any movie" -c Entertainment
//
// Use the pipeline as a library:
//
//	p := research.NewPipeline(research.Dependencies{
//		Web:   tavily,
//		Repos: gh,
//		Model: model,
//	}, research.Options{})
//
//	for e := range p.Run(ctx, idea, "") {
//		fmt.Println(e.Percent, e.Message)
//		if e.Kind == research.EventDone {
//			fmt.Println(e.Report.Verdict)
//		}
//	}
//
// # Package Structure
//
//   - research: the idea-validation pipeline, its nodes, filters and report types
//   - graph: typed state graph with parallel supersteps, listeners and Mermaid export
//   - llm: chat model abstraction with structured output over OpenAI and langchaingo
//   - tool: Tavily web search and GitHub REST clients
//   - fetch: README and page fetching with HTML to text extraction
//   - store: checkpoint stores (memory, Redis, SQLite, PostgreSQL)
//   - parallel: panic-safe goroutines and first-N racing
//   - config: environment configuration
//   - log: leveled logging on golog
//
// # Progress Events
//
// Run returns a channel of ProgressEvent values. Every run ends with exactly
// one terminal event: either "done" carrying the AnalysisReport, or "error"
// carrying a user-facing message. The channel is closed afterwards.
package shiporskip
