package llm

import (
	"context"
	stderrors "errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"dailyforge/internal/errors"
)

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	client openai.Client
}

// NewClient creates a client for the given credential and base URL.
// An empty baseURL falls back to the SDK default (api.openai.com); callers
// normally pass the Groq base URL from config.
func NewClient(apiKey, baseURL string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	return &Client{client: openai.NewClient(opts...)}
}

// Complete sends the prompt and returns the completion text.
// Transport and API failures map to GENERATION_FAILED, a cancelled context to
// CANCELLED, and a response without usable text to EMPTY_COMPLETION.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(strings.TrimSpace(req.Model)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			return "", errors.NewCancelled("generation")
		}
		return "", errors.NewGenerationFailed(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.NewEmptyCompletion()
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.NewEmptyCompletion()
	}
	return content, nil
}
