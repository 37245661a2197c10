package nlu

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the OpenAI-backed language-understanding client.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new language-understanding client with a hard
// per-request timeout.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Complete sends a single chat completion request. Temperature is kept low so
// the JSON output stays deterministic enough to parse.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
		MaxTokens:   800,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
