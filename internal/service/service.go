// Package service contains the conversation orchestration core: intent
// resolution, the dialogue state machine, session lifecycle and message
// routing.
package service

import (
	"go.uber.org/zap"

	"github.com/petalflow/assistant/config"
	"github.com/petalflow/assistant/internal/adapter/channel"
	"github.com/petalflow/assistant/internal/adapter/fulfillment"
	"github.com/petalflow/assistant/internal/adapter/nlu"
	"github.com/petalflow/assistant/internal/adapter/speech"
	"github.com/petalflow/assistant/internal/repository"
	"github.com/petalflow/assistant/policy"
)

// Service wires the orchestration core to its collaborators. One instance is
// constructed per process and shared across requests; it holds no per-user
// mutable state.
type Service struct {
	store        repository.SessionStore
	backend      nlu.Backend
	transcriber  speech.Transcriber
	channel      channel.API
	fulfillment  fulfillment.Service
	policyEngine *policy.Engine
	config       *config.Config
	logger       *zap.Logger
}

// New creates the service. backend and transcriber may be nil when the
// corresponding upstream is not configured; the resolver and router degrade
// accordingly.
func New(
	store repository.SessionStore,
	backend nlu.Backend,
	transcriber speech.Transcriber,
	channelClient channel.API,
	fulfillmentSvc fulfillment.Service,
	policyEngine *policy.Engine,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:        store,
		backend:      backend,
		transcriber:  transcriber,
		channel:      channelClient,
		fulfillment:  fulfillmentSvc,
		policyEngine: policyEngine,
		config:       cfg,
		logger:       logger,
	}
}
