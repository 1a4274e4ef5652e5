// Package anthropic implements generation.Backend on the Claude Messages API.
//
// Claude has no JSON response mode, so the output schema is sent as a system
// instruction and fenced replies are unwrapped before validation.
package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
)

const systemPrompt = "Respond with a single JSON object and nothing else. " +
	"The object must conform to this JSON Schema:\n"

type messageCreator interface {
	CreateMessages(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// Backend implements generation.Backend using Claude.
type Backend struct {
	logger    *slog.Logger
	client    messageCreator
	model     string
	maxTokens int
}

var _ generation.Backend = (*Backend)(nil)

// NewBackend creates a Claude backend.
func NewBackend(log *slog.Logger, cfg config.LLMConfig) (*Backend, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive", generation.ErrInvalidConfig)
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(cfg.APIKey, opts...)

	return &Backend{logger: log, client: client, model: cfg.ModelName, maxTokens: cfg.MaxTokens}, nil
}

// Generate sends the prompt and any images as one user message.
func (b *Backend) Generate(
	ctx context.Context,
	req *generation.GenerationRequest,
) (*generation.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)
	model := b.model
	if req.Model != "" {
		model = req.Model
	}

	content := make([]anthropic.MessageContent, 0, len(req.Media)+1)
	for _, m := range req.Media {
		content = append(content, anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
			anthropic.MessagesContentSourceTypeBase64,
			m.MIMEType,
			base64.StdEncoding.EncodeToString(m.Data),
		)))
	}
	content = append(content, anthropic.NewTextMessageContent(req.Prompt))

	msgReq := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		Messages:  []anthropic.Message{{Role: anthropic.RoleUser, Content: content}},
		MaxTokens: b.maxTokens,
	}
	if len(req.OutputSchema) > 0 {
		msgReq.System = systemPrompt + string(generation.JSONSchema(req.OutputSchema))
	}

	log.DebugContext(ctx, "Calling Claude messages API",
		"flow", req.Flow,
		"model", model,
		"prompt_length", len(req.Prompt),
		"media_count", len(req.Media))

	resp, err := b.client.CreateMessages(ctx, msgReq)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText && c.Text != nil {
			sb.WriteString(*c.Text)
		}
	}
	text := generation.UnwrapCodeBlock(sb.String())
	if text == "" {
		return nil, fmt.Errorf("%w: no text content (stop reason %q)", generation.ErrEmptyResponse, resp.StopReason)
	}

	served := model
	if resp.Model != "" {
		served = string(resp.Model)
	}
	log.DebugContext(ctx, "Claude messages call successful",
		"model", served,
		"output_tokens", resp.Usage.OutputTokens)

	return &generation.GenerationResult{Raw: []byte(text), Model: served}, nil
}
