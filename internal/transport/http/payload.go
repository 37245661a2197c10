package http

import (
	"github.com/petalflow/assistant/internal/domain"
)

// Webhook payload shapes for the messaging platform's Graph-style callbacks.
// Only the fields the router consumes are modeled; everything else is
// ignored.

type webhookPayload struct {
	Entry []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Field string       `json:"field"`
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Messages []webhookMessage `json:"messages"`
	Statuses []webhookStatus  `json:"statuses"`
}

type webhookStatus struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type webhookMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`

	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Audio *struct {
		ID string `json:"id"`
	} `json:"audio"`
	Image *struct {
		ID      string `json:"id"`
		Caption string `json:"caption"`
	} `json:"image"`
	Interactive *struct {
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// normalize flattens the webhook payload into the inbound message records the
// router understands, dropping anything that is not a message.
func (p *webhookPayload) normalize() []domain.InboundMessage {
	var out []domain.InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, m := range change.Value.Messages {
				out = append(out, m.normalize())
			}
		}
	}
	return out
}

func (m webhookMessage) normalize() domain.InboundMessage {
	msg := domain.InboundMessage{
		SenderID:  m.From,
		MessageID: m.ID,
		Type:      domain.MessageType(m.Type),
		Timestamp: m.Timestamp,
	}
	switch {
	case m.Text != nil:
		msg.Text = m.Text.Body
	case m.Audio != nil:
		msg.MediaID = m.Audio.ID
	case m.Image != nil:
		msg.MediaID = m.Image.ID
		msg.Caption = m.Image.Caption
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		msg.ButtonID = m.Interactive.ButtonReply.ID
		msg.ButtonTitle = m.Interactive.ButtonReply.Title
	}
	return msg
}
