package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petalflow/assistant/internal/domain"
)

func TestNormalizeMixedPayload(t *testing.T) {
	raw := `{
		"entry": [{
			"changes": [
				{
					"field": "messages",
					"value": {
						"messages": [
							{"from": "u1", "id": "m1", "type": "text", "text": {"body": "hi"}},
							{"from": "u1", "id": "m2", "type": "audio", "audio": {"id": "media-1"}},
							{"from": "u1", "id": "m3", "type": "image", "image": {"id": "media-2", "caption": "look"}},
							{"from": "u1", "id": "m4", "type": "interactive", "interactive": {"button_reply": {"id": "b1", "title": "Order again"}}}
						]
					}
				},
				{"field": "account_update", "value": {}}
			]
		}]
	}`

	var payload webhookPayload
	err := json.Unmarshal([]byte(raw), &payload)
	assert.NoError(t, err)

	msgs := payload.normalize()
	assert.Len(t, msgs, 4)

	assert.Equal(t, domain.MessageTypeText, msgs[0].Type)
	assert.Equal(t, "hi", msgs[0].Text)
	assert.Equal(t, "u1", msgs[0].SenderID)

	assert.Equal(t, domain.MessageTypeAudio, msgs[1].Type)
	assert.Equal(t, "media-1", msgs[1].MediaID)

	assert.Equal(t, domain.MessageTypeImage, msgs[2].Type)
	assert.Equal(t, "media-2", msgs[2].MediaID)
	assert.Equal(t, "look", msgs[2].Caption)

	assert.Equal(t, domain.MessageTypeInteractive, msgs[3].Type)
	assert.Equal(t, "b1", msgs[3].ButtonID)
	assert.Equal(t, "Order again", msgs[3].ButtonTitle)
}

func TestNormalizeEmptyPayload(t *testing.T) {
	var payload webhookPayload
	assert.Empty(t, payload.normalize())
}
