// Package channel provides the outbound messaging-channel client (Graph-API
// style: text delivery, read receipts, media retrieval).
package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// API is the delivery-channel contract consumed by the message router.
type API interface {
	SendText(ctx context.Context, recipientID, text string) error
	MarkMessageRead(ctx context.Context, messageID string) error
	GetMediaURL(ctx context.Context, mediaID string) (string, error)
	DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error)
}

// Client talks to the messaging platform's HTTP API.
type Client struct {
	baseURL     string
	phoneID     string
	accessToken string
	httpClient  *http.Client
}

// Ensure Client implements API interface.
var _ API = (*Client)(nil)

// NewClient creates a new channel client.
func NewClient(baseURL, phoneID, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		phoneID:     phoneID,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type textPayload struct {
	Body string `json:"body"`
}

type sendMessageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to,omitempty"`
	Type             string       `json:"type,omitempty"`
	Text             *textPayload `json:"text,omitempty"`
	Status           string       `json:"status,omitempty"`
	MessageID        string       `json:"message_id,omitempty"`
}

// SendText delivers a plain text message to the recipient.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	req := sendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               recipientID,
		Type:             "text",
		Text:             &textPayload{Body: text},
	}
	return c.post(ctx, fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID), req)
}

// MarkMessageRead sends a read receipt for the given message.
func (c *Client) MarkMessageRead(ctx context.Context, messageID string) error {
	req := sendMessageRequest{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}
	return c.post(ctx, fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID), req)
}

// GetMediaURL resolves a media id to a download URL.
func (c *Client) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, mediaID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("channel API error [%d]: %s", resp.StatusCode, string(body))
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal media response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("media %s has no url", mediaID)
	}
	return result.URL, nil
}

// DownloadMedia fetches the media content behind a resolved URL.
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("channel API error [%d]: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("channel API error [%d]: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
}
