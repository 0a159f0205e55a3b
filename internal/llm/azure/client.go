// Package azure calls an Azure OpenAI chat deployment.
package azure

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"carousel/internal/llm"
)

var _ llm.Client = (*Client)(nil)

type Client struct {
	client     openai.Client
	deployment string
}

// NewClient targets endpoint (https://<resource>.openai.azure.com) with the
// given API version. The SDK's own retries are disabled; one request is sent
// per call.
func NewClient(apiKey, endpoint, apiVersion, deployment string) *Client {
	client := openai.NewClient(
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &Client{
		client:     client,
		deployment: deployment,
	}
}

func (c *Client) Complete(ctx context.Context, r llm.Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(r.System),
			openai.UserMessage(r.User),
		},
	}
	if r.Temperature > 0 {
		params.Temperature = openai.Float(r.Temperature)
	}
	if r.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(r.MaxTokens))
	}
	if r.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("generate: status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrNoResponse
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", llm.ErrEmptyResponse
	}

	return content, nil
}
