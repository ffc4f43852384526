package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChain adapts any langchaingo llms.Model. Structured output uses JSON
// mode with the schema appended to the system prompt.
type LangChain struct {
	model llms.Model
}

var _ Model = (*LangChain)(nil)

// NewLangChain wraps model.
func NewLangChain(model llms.Model) *LangChain {
	return &LangChain{model: model}
}

// Generate implements Model.
func (l *LangChain) Generate(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	system := req.System
	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Schema != nil {
		schema, err := SchemaJSON(req.Schema.Target)
		if err != nil {
			return nil, err
		}
		system += fmt.Sprintf("\n\nRespond with a single JSON object that matches this JSON schema:\n%s", schema)
		opts = append(opts, llms.WithJSONMode())
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}

	resp, err := l.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, classify(ctx, err, 0)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	out := &Response{
		Content:      choice.Content,
		FinishReason: choice.StopReason,
	}
	if choice.StopReason == "content_filter" {
		out.Refusal = "content filtered"
	}
	if info := choice.GenerationInfo; info != nil {
		out.PromptTokens = intOf(info["PromptTokens"])
		out.CompletionTokens = intOf(info["CompletionTokens"])
	}
	return out, nil
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
