package nlu

import (
	"context"
	"strings"
)

// MockClient is a deterministic Backend implementation for development and
// testing. It answers with well-formed intent JSON keyed off the utterance.
type MockClient struct{}

// NewMockClient creates a new mock language-understanding client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Backend interface.
var _ Backend = (*MockClient)(nil)

// Complete returns a canned intent JSON response based on the user prompt.
func (m *MockClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	lower := strings.ToLower(userPrompt)

	switch {
	case containsAny(lower, "hello", "hi ", "hey", "good morning", "good day"):
		return `{
			"intent": "greeting",
			"entities": {},
			"confidence": 0.97,
			"response": "Hello! I can order flowers for you, among other things. How can I help?",
			"action": "greet_user",
			"next_step": "await_user_request"
		}`, nil
	case containsAny(lower, "flower", "rose", "roses", "tulip", "order", "bouquet"):
		return `{
			"intent": "order_flowers",
			"entities": {"flower_type": "red roses"},
			"confidence": 0.92,
			"response": "Happy to help with a flower order! I still need a few details.",
			"action": "collect_order_details",
			"next_step": "ask_delivery_address"
		}`, nil
	case containsAny(lower, "help", "what can you"):
		return `{
			"intent": "help",
			"entities": {},
			"confidence": 0.96,
			"response": "I can order flowers, and I am learning to schedule meetings, send emails and check the weather.",
			"action": "show_help",
			"next_step": "await_user_request"
		}`, nil
	default:
		return `{
			"intent": "general_chat",
			"entities": {},
			"confidence": 0.6,
			"response": "Interesting! Ask me about ordering flowers, or say 'help' to see what I can do.",
			"action": "general_response",
			"next_step": "await_user_request"
		}`, nil
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
