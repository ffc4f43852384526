// Package llm is the language-model boundary of the research pipeline.
//
// Backends implement Model: OpenAI talks to the chat completions API through
// github.com/sashabaranov/go-openai with strict JSON-schema output, and
// LangChain adapts any github.com/tmc/langchaingo llms.Model using JSON mode.
//
// Every failure a backend returns wraps exactly one class: ErrRateLimited,
// ErrTimeout, ErrUnavailable, ErrRefused, ErrEmptyResponse, ErrInvalidOutput
// or ErrNotConfigured. Callers branch on the class with errors.Is and never
// retry on their own.
//
//	report, _, err := llm.GenerateJSON[Report](ctx, model, llm.Request{
//		System:    systemPrompt,
//		User:      userPrompt,
//		MaxTokens: 3000,
//	})
//	switch {
//	case errors.Is(err, llm.ErrRateLimited):
//		// busy
//	}
package llm
