// Package gemini calls the Gemini API generateContent endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"carousel/internal/llm"
)

var _ llm.Client = (*Client)(nil)

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Complete(ctx context.Context, r llm.Request) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(r.System, genai.RoleUser),
	}
	if r.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(r.Temperature))
	}
	if r.MaxTokens > 0 {
		config.MaxOutputTokens = int32(r.MaxTokens)
	}
	if r.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(r.User), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("generate: status %d: %w", apiErr.Code, err)
		}
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", llm.ErrNoResponse
	}

	content := resp.Text()
	if content == "" {
		return "", llm.ErrEmptyResponse
	}

	return content, nil
}
