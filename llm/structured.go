package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SchemaJSON renders the JSON schema derived from target.
func SchemaJSON(target any) ([]byte, error) {
	def, err := jsonschema.GenerateSchemaForType(target)
	if err != nil {
		return nil, fmt.Errorf("failed to derive schema: %w", err)
	}
	return json.Marshal(def)
}

// GenerateJSON runs req with structured output and decodes the answer into T.
// Refusals map to ErrRefused; an empty answer maps to ErrEmptyResponse and an
// answer that does not decode maps to ErrInvalidOutput.
func GenerateJSON[T any](ctx context.Context, m Model, req Request) (T, *Response, error) {
	var out T
	schema := Schema{Name: "response", Target: out}
	if req.Schema != nil {
		schema = *req.Schema
		if schema.Target == nil {
			schema.Target = out
		}
	}
	req.Schema = &schema

	resp, err := m.Generate(ctx, &req)
	if err != nil {
		return out, resp, err
	}
	if resp.Refusal != "" {
		return out, resp, fmt.Errorf("%w: %s", ErrRefused, resp.Refusal)
	}

	content := StripCodeFence(resp.Content)
	if content == "" {
		return out, resp, ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return out, resp, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return out, resp, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
