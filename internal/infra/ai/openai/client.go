package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/swasthya-ai/swasthya/internal/domain/ai"
)

const maxTokens = 2048

const (
	defaultModel           = "gpt-4o"
	defaultTranscribeModel = openai.Whisper1
)

type Client struct {
	*openai.Client
	Model           string
	TranscribeModel string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Complete sends one schema-constrained chat completion and returns the
// model's JSON payload. Provider 429s map to ai.ErrQuotaExceeded; an
// empty or non-JSON completion is fatal for the request.
func (c *Client) Complete(ctx context.Context, req domai.CompletionRequest) (json.RawMessage, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Image != nil {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.User},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
				URL:    req.Image.DataURI(),
				Detail: openai.ImageURLDetailAuto,
			}},
		}
	} else {
		user.Content = req.User
	}

	creq := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			user,
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		creq.MaxCompletionTokens = maxTokens
	} else {
		creq.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, wrapProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, domai.ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, domai.ErrEmptyCompletion
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: not a JSON object", domai.ErrMalformedCompletion)
	}
	return json.RawMessage(content), nil
}

// Transcribe turns recorded audio into text via the transcription endpoint.
func (c *Client) Transcribe(ctx context.Context, audio domai.Media) (string, error) {
	model := c.TranscribeModel
	if model == "" {
		model = defaultTranscribeModel
	}
	resp, err := c.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		Reader:   bytes.NewReader(audio.Data),
		FilePath: "audio." + audio.Ext(),
	})
	if err != nil {
		return "", wrapProviderError(err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func wrapProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", domai.ErrCompletionFailed, err)
}
