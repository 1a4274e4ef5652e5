package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by the backend.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Backend implements generation.Backend using the Gemini API.
type Backend struct {
	logger    *slog.Logger
	models    contentGenerator
	model     string
	maxTokens int32
}

var _ generation.Backend = (*Backend)(nil)

// NewBackend creates a Gemini backend from the LLM configuration.
func NewBackend(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*Backend, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	log.InfoContext(ctx, "Gemini backend initialized", "model", cfg.ModelName)
	return newBackend(log, client.Models, cfg.ModelName, cfg.MaxTokens), nil
}

func newBackend(log *slog.Logger, models contentGenerator, model string, maxTokens int) *Backend {
	return &Backend{
		logger:    log,
		models:    models,
		model:     model,
		maxTokens: int32(maxTokens),
	}
}

// Generate sends the prompt and media to Gemini and returns the JSON text of
// the first candidate.
func (b *Backend) Generate(
	ctx context.Context,
	req *generation.GenerationRequest,
) (*generation.GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)
	model := b.model
	if req.Model != "" {
		model = req.Model
	}

	parts := []*genai.Part{{Text: req.Prompt}}
	for _, m := range req.Media {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: m.MIMEType, Data: m.Data}})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(req.OutputSchema),
		MaxOutputTokens:  b.maxTokens,
	}

	log.DebugContext(ctx, "Calling Gemini API",
		"flow", req.Flow,
		"model", model,
		"prompt_length", len(req.Prompt),
		"media_count", len(req.Media))

	resp, err := b.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, err
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	served := model
	if resp.ModelVersion != "" {
		served = resp.ModelVersion
	}
	log.DebugContext(ctx, "Gemini API call successful", "model", served, "response_length", len(text))

	return &generation.GenerationResult{Raw: []byte(text), Model: served}, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked,
				resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", generation.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason %s", generation.ErrContentBlocked, candidate.FinishReason)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: candidate has no text", generation.ErrEmptyResponse)
	}
	return sb.String(), nil
}
