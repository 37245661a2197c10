package nlu

import (
	"log"
	"os"
	"time"
)

const (
	// EnvAssistantMode is the environment variable name for mode selection.
	EnvAssistantMode = "ASSISTANT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewBackend creates a language-understanding backend based on the
// ASSISTANT_MODE environment variable. If ASSISTANT_MODE=MOCK, returns a
// MockClient. If no API key is configured, returns nil; the resolver treats a
// nil backend as unavailable and uses its heuristic tier.
func NewBackend(apiKey, model string, timeout time.Duration) Backend {
	if os.Getenv(EnvAssistantMode) == ModeMock {
		log.Println("ASSISTANT_MODE=MOCK detected, using mock language-understanding client")
		return NewMockClient()
	}
	if apiKey == "" {
		log.Println("OPENAI_API_KEY not configured, language understanding runs on keyword heuristics")
		return nil
	}
	return NewClient(apiKey, model, timeout)
}
