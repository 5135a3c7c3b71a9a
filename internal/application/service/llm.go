package service

import (
	"context"
	"encoding/json"
)

// JSONSchema names a JSON Schema definition the provider must constrain its
// reply to. The name doubles as the structured-output schema name and the
// compiled-schema cache key.
type JSONSchema struct {
	Name       string
	Definition map[string]any
}

// GenerateRequest is a single-turn generation call.
type GenerateRequest struct {
	System      string
	Prompt      string
	Schema      *JSONSchema
	MaxTokens   int
	Temperature float32
}

// LLMService is the outbound port to the text-generation provider. Failures
// are reported through the apperror taxonomy: rate-limit, upstream transport,
// malformed reply, missing configuration.
type LLMService interface {
	// GenerateJSON returns the reply as schema-validated JSON.
	GenerateJSON(ctx context.Context, req GenerateRequest) (json.RawMessage, error)
	// GenerateText returns the reply as plain text.
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}
