package domain

// MessageType classifies an inbound message after transport normalization.
type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeAudio       MessageType = "audio"
	MessageTypeInteractive MessageType = "interactive"
	MessageTypeImage       MessageType = "image"
)

// InboundMessage is the normalized record produced by the webhook layer after
// signature verification and payload parsing. The router never sees raw
// transport payloads.
type InboundMessage struct {
	SenderID  string      `json:"sender_id"`
	MessageID string      `json:"message_id"`
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`

	// Text body for text messages.
	Text string `json:"text,omitempty"`
	// MediaID references audio or image content on the messaging platform.
	MediaID string `json:"media_id,omitempty"`
	// Caption accompanies image messages.
	Caption string `json:"caption,omitempty"`
	// ButtonID and ButtonTitle carry interactive button replies.
	ButtonID    string `json:"button_id,omitempty"`
	ButtonTitle string `json:"button_title,omitempty"`
}
