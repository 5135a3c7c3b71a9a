package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/config"
	"github.com/minhle/career-os/pkg/apperror"
	"github.com/minhle/career-os/pkg/logger"
)

type openaiAdapter struct {
	client *openai.Client
	model  string
	apiKey string
	log    logger.Logger
}

// NewOpenAIAdapter builds the chat-completions adapter. A missing API key is
// not fatal here: construction succeeds and calls return ErrNotConfigured, so
// the server boots without a provider and surfaces the problem per request.
func NewOpenAIAdapter(cfg config.Config, log logger.Logger) service.LLMService {
	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}

	model := cfg.OpenAI.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	log.Info("OpenAI LLM adapter initialized")
	return &openaiAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		apiKey: cfg.OpenAI.APIKey,
		log:    log,
	}
}

func (a *openaiAdapter) GenerateJSON(ctx context.Context, req service.GenerateRequest) (json.RawMessage, error) {
	if a.apiKey == "" {
		return nil, apperror.NewNotConfigured("OPENAI_API_KEY is not set")
	}

	chatReq := openai.ChatCompletionRequest{
		Model:               a.model,
		Messages:            buildMessages(req.System, req.Prompt),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         req.Temperature,
	}

	if req.Schema != nil {
		schemaBytes, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, apperror.NewInternal("marshal response schema", err)
		}
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		}
	}

	resp, err := a.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperror.NewMalformedReply("no choices in completion response", nil)
	}

	content := json.RawMessage(resp.Choices[0].Message.Content)

	if req.Schema != nil {
		if err := validateAgainstSchema(req.Schema, content); err != nil {
			return nil, apperror.NewMalformedReply("reply does not match requested schema", err)
		}
	}

	return content, nil
}

func (a *openaiAdapter) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", apperror.NewNotConfigured("OPENAI_API_KEY is not set")
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: buildMessages(system, prompt),
	})
	if err != nil {
		return "", mapProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperror.NewMalformedReply("no choices in completion response", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func buildMessages(system, prompt string) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return messages
}

func mapProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return apperror.NewRateLimited(fmt.Sprintf("provider returned %d", apiErr.HTTPStatusCode), err)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized:
			return apperror.NewNotConfigured("provider rejected the configured API key")
		case apiErr.HTTPStatusCode >= 500:
			return apperror.NewUpstream(fmt.Sprintf("provider returned %d", apiErr.HTTPStatusCode), err)
		}
	}
	return apperror.NewUpstream("chat completion request failed", err)
}
