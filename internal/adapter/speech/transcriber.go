// Package speech provides audio transcription for voice messages.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts recorded audio into text. An empty transcript with a
// nil error means the audio carried no recognizable speech.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, format string) (string, error)
}

// Ensure Client implements Transcriber interface.
var _ Transcriber = (*Client)(nil)

// Client transcribes audio through the OpenAI speech-to-text API.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a new transcription client. Returns nil when no API key
// is configured; callers treat a nil Transcriber as "transcription
// unavailable".
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Transcribe converts the audio bytes to text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "voice." + format,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
