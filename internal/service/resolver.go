package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/petalflow/assistant/internal/adapter/nlu"
	"github.com/petalflow/assistant/internal/domain"
)

const nluSystemPrompt = `You are a friendly personal assistant on a messaging channel.
Analyze the user's request and answer with a single JSON object, nothing else:
{
  "intent": one of [greeting, order_flowers, schedule_meeting, send_email, get_weather, general_chat, help, goodbye],
  "entities": {"recipient": ..., "flower_type": ..., "quantity": ..., "delivery_address": ..., "delivery_date": ..., "message": ...} with null for anything not mentioned,
  "confidence": number between 0.0 and 1.0,
  "response": a natural, helpful reply for the user,
  "action": a short action tag,
  "next_step": a short next-step tag
}
Always answer in JSON. Be friendly and helpful.`

// Resolve turns an utterance into a structured intent. It never fails to its
// caller: tier 1 asks the language-understanding backend, tier 2 falls back
// to keyword heuristics when the backend is unreachable or its output is
// unusable, and tier 3 returns a fixed error intent when the backend was
// reached but answered with a hard error.
func (s *Service) Resolve(ctx context.Context, utterance string, uc *domain.UserContext) domain.IntentResult {
	result := s.resolveTiers(ctx, utterance, uc)

	// While slots are being collected, a turn that falls through to chat but
	// carries extractable slot values is the user answering the slot prompt.
	if result.Intent == domain.IntentGeneralChat {
		if cont, ok := orderContinuation(utterance, uc); ok {
			return cont
		}
	}
	return result
}

func (s *Service) resolveTiers(ctx context.Context, utterance string, uc *domain.UserContext) domain.IntentResult {
	if s.backend == nil {
		return heuristicAnalyze(utterance)
	}

	raw, err := s.backend.Complete(ctx, nluSystemPrompt, nluUserPrompt(utterance, uc))
	if err != nil {
		if nlu.IsUnavailable(err) {
			s.logger.Warn("language-understanding backend unavailable, using heuristics",
				zap.Error(err))
			return heuristicAnalyze(utterance)
		}
		s.logger.Error("language-understanding backend failed", zap.Error(err))
		return errorResult()
	}

	result, err := parseIntentResult(raw)
	if err != nil {
		// Malformed output counts as an unavailable tier, not a hard error.
		s.logger.Warn("unparsable language-understanding output, using heuristics",
			zap.Error(err))
		return heuristicAnalyze(utterance)
	}
	return result
}

func nluUserPrompt(utterance string, uc *domain.UserContext) string {
	serialized, err := json.Marshal(uc)
	if err != nil {
		serialized = []byte("{}")
	}
	return fmt.Sprintf("User request: %q\nConversation context: %s\nAnalyze the user request now.",
		utterance, serialized)
}

// parseIntentResult validates raw model output against the IntentResult JSON
// shape. Anything that does not parse into the closed vocabulary is rejected
// at this boundary.
func parseIntentResult(raw string) (domain.IntentResult, error) {
	cleaned := stripCodeFences(raw)
	if !gjson.Valid(cleaned) {
		return domain.IntentResult{}, fmt.Errorf("output is not valid JSON")
	}

	intent := domain.Intent(gjson.Get(cleaned, "intent").String())
	if intent == "" || intent == domain.IntentError || !intent.Known() {
		return domain.IntentResult{}, fmt.Errorf("unknown intent %q in output", intent)
	}

	entities := make(map[string]string)
	gjson.Get(cleaned, "entities").ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Null && value.String() != "" {
			entities[key.String()] = value.String()
		}
		return true
	})

	confidence := gjson.Get(cleaned, "confidence").Float()
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return domain.IntentResult{
		Intent:     intent,
		Entities:   entities,
		Confidence: confidence,
		Response:   gjson.Get(cleaned, "response").String(),
		Action:     gjson.Get(cleaned, "action").String(),
		NextStep:   gjson.Get(cleaned, "next_step").String(),
	}, nil
}

func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

// errorResult is the tier-3 outcome: a fixed apologetic intent that keeps the
// user's in-flight draft untouched.
func errorResult() domain.IntentResult {
	return domain.IntentResult{
		Intent:     domain.IntentError,
		Entities:   map[string]string{},
		Confidence: 0.0,
		Response:   "Sorry, I ran into a small technical problem. Could you repeat that?",
		Action:     "error_recovery",
		NextStep:   "await_user_request",
	}
}
