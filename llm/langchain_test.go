package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeLLM struct {
	content  string
	stop     string
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        f.content,
		StopReason:     f.stop,
		GenerationInfo: map[string]any{"PromptTokens": 5, "CompletionTokens": 3},
	}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textOf(m llms.MessageContent) string {
	return m.Parts[0].(llms.TextContent).Text
}

func TestLangChain_JSONMode(t *testing.T) {
	fake := &fakeLLM{content: `{"verdict":"Skip","pros":["none"]}`}
	m := NewLangChain(fake)

	got, resp, err := GenerateJSON[verdict](context.Background(), m, Request{
		System:    "be terse",
		User:      "an idea",
		MaxTokens: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "Skip", got.Verdict)
	assert.Equal(t, 5, resp.PromptTokens)
	assert.True(t, fake.opts.JSONMode)
	assert.Equal(t, 30, fake.opts.MaxTokens)
	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Contains(t, textOf(fake.messages[0]), "be terse")
	assert.Contains(t, textOf(fake.messages[0]), "JSON schema")
	assert.Equal(t, "an idea", textOf(fake.messages[1]))
}

func TestLangChain_PlainText(t *testing.T) {
	fake := &fakeLLM{content: "movie verdict"}

	resp, err := NewLangChain(fake).Generate(context.Background(), &Request{User: "x", Model: "small"})
	require.NoError(t, err)

	assert.Equal(t, "movie verdict", resp.Content)
	assert.False(t, fake.opts.JSONMode)
	assert.Equal(t, "small", fake.opts.Model)
}

func TestLangChain_ContentFilter(t *testing.T) {
	fake := &fakeLLM{stop: "content_filter"}

	_, _, err := GenerateJSON[verdict](context.Background(), NewLangChain(fake), Request{})
	assert.ErrorIs(t, err, ErrRefused)
}

func TestLangChain_ErrorClassified(t *testing.T) {
	fake := &fakeLLM{err: errors.New("API returned unexpected status code: 429: Rate limit reached")}

	_, err := NewLangChain(fake).Generate(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrRateLimited)
}
