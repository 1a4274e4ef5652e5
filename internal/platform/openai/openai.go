// Package openai implements generation.Backend for OpenAI-compatible chat
// completion APIs, including local Ollama servers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/sashabaranov/go-openai"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Backend implements generation.Backend using the chat completions endpoint.
type Backend struct {
	logger    *slog.Logger
	client    chatCompleter
	model     string
	maxTokens int
}

var _ generation.Backend = (*Backend)(nil)

// NewBackend creates a chat completions backend. BaseURL, when set, points the
// client at a compatible server.
func NewBackend(log *slog.Logger, cfg config.LLMConfig) (*Backend, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return newBackend(log, openai.NewClientWithConfig(clientConfig), cfg.ModelName, cfg.MaxTokens), nil
}

func newBackend(log *slog.Logger, client chatCompleter, model string, maxTokens int) *Backend {
	return &Backend{logger: log, client: client, model: model, maxTokens: maxTokens}
}

// Generate sends the prompt, with any media as image parts, and asks for a
// JSON response shaped by the output schema.
func (b *Backend) Generate(
	ctx context.Context,
	req *generation.GenerationRequest,
) (*generation.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)
	model := b.model
	if req.Model != "" {
		model = req.Model
	}

	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Media) == 0 {
		message.Content = req.Prompt
	} else {
		message.MultiContent = []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: req.Prompt}}
		for _, m := range req.Media {
			message.MultiContent = append(message.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: m.DataURI(), Detail: openai.ImageURLDetailAuto},
			})
		}
	}

	chatReq := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  []openai.ChatCompletionMessage{message},
		MaxTokens: b.maxTokens,
	}
	if len(req.OutputSchema) > 0 {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Flow),
				Schema: generation.JSONSchema(req.OutputSchema),
			},
		}
	}

	log.DebugContext(ctx, "Calling chat completions API",
		"flow", req.Flow,
		"model", model,
		"prompt_length", len(req.Prompt),
		"media_count", len(req.Media))

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices", generation.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return nil, fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, choice.FinishReason)
	}
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("%w: %s", generation.ErrContentBlocked, choice.Message.Refusal)
	}

	text := generation.UnwrapCodeBlock(choice.Message.Content)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message content", generation.ErrEmptyResponse)
	}

	served := model
	if resp.Model != "" {
		served = resp.Model
	}
	log.DebugContext(ctx, "Chat completions call successful",
		"model", served,
		"total_tokens", resp.Usage.TotalTokens)

	return &generation.GenerationResult{Raw: []byte(text), Model: served}, nil
}

func schemaName(flow string) string {
	if flow == "" {
		return "response"
	}
	return flow
}
