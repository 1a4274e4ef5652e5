package anthropic

import (
	"context"
	"errors"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/generation"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	resp anthropic.MessagesResponse
	err  error
	req  anthropic.MessagesRequest
}

func (f *fakeClient) CreateMessages(
	_ context.Context,
	req anthropic.MessagesRequest,
) (anthropic.MessagesResponse, error) {
	f.req = req
	return f.resp, f.err
}

func textReply(text string) anthropic.MessagesResponse {
	return anthropic.MessagesResponse{
		Model:   "claude-3-5-haiku-latest",
		Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(text)},
	}
}

func newTestBackend(t *testing.T, client messageCreator) *Backend {
	log, _ := logger.GetTestLogger(t)
	return &Backend{logger: log, client: client, model: "claude-3-5-haiku-latest", maxTokens: 2048}
}

func TestGenerate(t *testing.T) {
	client := &fakeClient{resp: textReply("Here it is:\n```json\n{\"medications\":[]}\n```")}
	backend := newTestBackend(t, client)

	result, err := backend.Generate(context.Background(), &generation.GenerationRequest{
		Flow:   "prescriptionParser",
		Prompt: "Read this prescription:",
		Media:  []generation.Media{{MIMEType: "image/jpeg", Data: []byte("hello")}},
		OutputSchema: []generation.FieldSpec{
			{Name: "medications", Kind: generation.KindObjectArray, Required: true, Fields: []generation.FieldSpec{
				{Name: "name", Kind: generation.KindString, Required: true},
			}},
		},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"medications":[]}`, string(result.Raw))
	assert.Equal(t, "claude-3-5-haiku-latest", result.Model)

	assert.Equal(t, 2048, client.req.MaxTokens)
	assert.Contains(t, client.req.System, `"medications"`)
	require.Len(t, client.req.Messages, 1)
	content := client.req.Messages[0].Content
	require.Len(t, content, 2)
	assert.Equal(t, anthropic.MessagesContentTypeImage, content[0].Type)
	require.NotNil(t, content[0].Source)
	assert.Equal(t, "image/jpeg", content[0].Source.MediaType)
	assert.Equal(t, "aGVsbG8=", content[0].Source.Data)
	require.NotNil(t, content[1].Text)
	assert.Equal(t, "Read this prescription:", *content[1].Text)
}

func TestGenerateErrors(t *testing.T) {
	apiErr := errors.New("overloaded")

	t.Run("api error", func(t *testing.T) {
		_, err := newTestBackend(t, &fakeClient{err: apiErr}).Generate(context.Background(),
			&generation.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("no text", func(t *testing.T) {
		_, err := newTestBackend(t, &fakeClient{}).Generate(context.Background(),
			&generation.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, generation.ErrEmptyResponse)
	})
}

func TestNewBackend(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	valid := config.LLMConfig{APIKey: "sk-ant-test", ModelName: "claude-3-5-haiku-latest", MaxTokens: 1024}

	backend, err := NewBackend(log, valid)
	require.NoError(t, err)
	assert.Equal(t, 1024, backend.maxTokens)

	noKey := valid
	noKey.APIKey = ""
	_, err = NewBackend(log, noKey)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	noTokens := valid
	noTokens.MaxTokens = 0
	_, err = NewBackend(log, noTokens)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
