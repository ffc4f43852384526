package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAI is a Model backed by the OpenAI chat completions API.
type OpenAI struct {
	client       *openai.Client
	defaultModel string
}

var _ Model = (*OpenAI)(nil)

type openAIOptions struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type OpenAIOption func(*openAIOptions)

// WithOpenAIBaseURL points the client at a compatible endpoint.
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(o *openAIOptions) {
		o.baseURL = baseURL
	}
}

// WithOpenAIModel sets the model used when a request names none.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *openAIOptions) {
		o.model = model
	}
}

// WithOpenAIHTTPClient sets the HTTP client used for requests.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *openAIOptions) {
		o.httpClient = client
	}
}

// NewOpenAI creates an OpenAI backend.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY: %w", ErrNotConfigured)
	}
	options := &openAIOptions{model: openai.GPT4oMini}
	for _, opt := range opts {
		opt(options)
	}

	cfg := openai.DefaultConfig(apiKey)
	if options.baseURL != "" {
		cfg.BaseURL = options.baseURL
	}
	if options.httpClient != nil {
		cfg.HTTPClient = options.httpClient
	}

	return &OpenAI{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: options.model,
	}, nil
}

// Generate implements Model.
func (o *OpenAI) Generate(ctx context.Context, req *Request) (*Response, error) {
	ctx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = o.defaultModel
	}

	// A zero temperature is dropped by omitempty and the API default applies,
	// so a near-zero value is sent on purpose instead.
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}

	if req.Schema != nil {
		def, err := jsonschema.GenerateSchemaForType(req.Schema.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to derive schema: %w", err)
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      def,
				Strict:      true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classify(ctx, err, statusOf(err))
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	out := &Response{
		Content:          choice.Message.Content,
		Refusal:          choice.Message.Refusal,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	if out.Refusal == "" && choice.FinishReason == openai.FinishReasonContentFilter {
		out.Refusal = "content filtered"
	}
	return out, nil
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
