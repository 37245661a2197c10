package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petalflow/assistant/internal/domain"
)

// estimatedOrderCost is the fixed price quoted in the confirmation prompt.
// The final price comes from the fulfillment backend.
const estimatedOrderCost = 29.99

var (
	affirmativeWords = []string{"yes", "ja", "ok", "okay", "confirm", "sure", "yep", "yeah"}
	negativeWords    = []string{"no", "nein", "cancel", "abort", "stop", "nope"}
)

// Execute runs the dialogue state machine for one resolved intent and returns
// the reply to deliver. It is a pure function of (intent, context) except for
// the fulfillment call, which is gated behind confirmation.
func (s *Service) Execute(ctx context.Context, intent domain.IntentResult, uc *domain.UserContext) domain.TaskResult {
	s.logger.Debug("executing task",
		zap.String("intent", string(intent.Intent)),
		zap.String("user_id", uc.UserID),
		zap.String("state", string(uc.ConversationState)))

	switch intent.Intent {
	case domain.IntentGreeting:
		return s.handleGreeting(intent, uc)
	case domain.IntentOrderFlowers:
		return s.handleFlowerOrder(intent, uc)
	case domain.IntentScheduleMeeting:
		return s.singleTurnReply(uc, "Meeting scheduling is coming soon! I'll be able to hook into your calendar.")
	case domain.IntentSendEmail:
		return s.singleTurnReply(uc, "Sending emails is coming soon! I'll be able to write them on your behalf.")
	case domain.IntentGetWeather:
		return s.singleTurnReply(uc, "Weather lookups are coming soon! I'll fetch live forecasts for you.")
	case domain.IntentHelp:
		return s.singleTurnReply(uc, fallback(intent.Response, "How can I help you?"))
	case domain.IntentGeneralChat:
		return s.singleTurnReply(uc, fallback(intent.Response, "Interesting! How else can I help you?"))
	case domain.IntentGoodbye:
		return s.singleTurnReply(uc, "Goodbye! I'm here whenever you need me.")
	case domain.IntentError:
		return s.handleResolverError(intent, uc)
	default:
		return s.singleTurnReply(uc, "I didn't quite get that. Say 'help' to see what I can do, or ask me about flowers.")
	}
}

// HandleConfirmation intercepts bare yes/no replies while an order awaits
// confirmation, before they would be reinterpreted as a fresh intent. A nil
// return means the utterance is neither, and the caller falls through to
// normal intent handling.
func (s *Service) HandleConfirmation(ctx context.Context, utterance string, uc *domain.UserContext) *domain.TaskResult {
	if uc.ConversationState != domain.StateConfirming || uc.PendingOrder == nil {
		return nil
	}

	words := tokenize(strings.ToLower(utterance))
	switch {
	case matchesAnyWord(words, affirmativeWords):
		result := s.placeOrder(ctx, uc)
		return &result
	case matchesAnyWord(words, negativeWords):
		uc.PendingOrder = nil
		uc.ActiveOrder = nil
		uc.ConversationState = domain.StateIdle
		return &domain.TaskResult{
			Type:  "text",
			Text:  "Order cancelled. Anything else I can do for you?",
			State: domain.StateIdle,
		}
	default:
		return nil
	}
}

func (s *Service) handleGreeting(intent domain.IntentResult, uc *domain.UserContext) domain.TaskResult {
	if uc.FirstInteraction {
		uc.FirstInteraction = false
		return s.singleTurnReply(uc, "Hello! I'm your personal assistant.\n\n"+
			"I can help you with:\n"+
			"- ordering flowers\n"+
			"- scheduling meetings (soon)\n"+
			"- sending emails (soon)\n"+
			"- checking the weather (soon)\n\n"+
			"Try: \"order red roses for my friend\"")
	}
	return s.singleTurnReply(uc, fallback(intent.Response, "Hello! How can I help you?"))
}

// handleFlowerOrder drives the slot-filling loop. Newly extracted entities
// overwrite only the slots they populate, so information accumulates turn
// over turn and never regresses except by explicit cancel.
func (s *Service) handleFlowerOrder(intent domain.IntentResult, uc *domain.UserContext) domain.TaskResult {
	draft := uc.ActiveOrder
	if draft == nil {
		// An off-topic order amendment during confirmation thaws the frozen
		// draft back into collection.
		if uc.PendingOrder != nil {
			draft = uc.PendingOrder
			uc.PendingOrder = nil
		} else {
			draft = &domain.OrderDraft{}
		}
	}
	draft.Merge(intent.Entities)

	if !draft.Complete() {
		uc.ActiveOrder = draft
		uc.PendingOrder = nil
		uc.ConversationState = domain.StateCollecting

		missing := draft.MissingSlots()
		var text string
		if len(missing) == 3 {
			text = "Happy to help with a flower order!\n\n" +
				"I need the following details:\n" +
				"- Who are the flowers for? (e.g. \"for my friend\")\n" +
				"- Which flowers? (e.g. \"red roses\")\n" +
				"- Delivery address?\n\n" +
				"You can send everything at once or step by step."
		} else {
			text = fmt.Sprintf("I still need: %s\n\nPlease send me that information.", strings.Join(missing, ", "))
		}
		return domain.TaskResult{Type: "text", Text: text, State: domain.StateCollecting}
	}

	return s.confirmOrder(draft, uc)
}

// confirmOrder freezes a completed draft and asks for the yes/no gate.
func (s *Service) confirmOrder(draft *domain.OrderDraft, uc *domain.UserContext) domain.TaskResult {
	if draft.DeliveryDate == "" {
		draft.DeliveryDate = time.Now().AddDate(0, 0, 1).Format("02.01.2006")
	}

	uc.PendingOrder = draft
	uc.ActiveOrder = nil
	uc.ConversationState = domain.StateConfirming

	text := fmt.Sprintf("Order confirmation:\n\n"+
		"- Flowers: %s\n"+
		"- Recipient: %s\n"+
		"- Delivery address: %s\n"+
		"- Delivery date: %s\n"+
		"- Estimated cost: €%.2f\n\n"+
		"Should I place the order? (yes/no)",
		draft.FlowerType, draft.Recipient, draft.DeliveryAddress, draft.DeliveryDate, estimatedOrderCost)

	return domain.TaskResult{Type: "text", Text: text, State: domain.StateConfirming}
}

// placeOrder runs the policy gate and the fulfillment call. Whatever happens,
// the order state is cleared and the user returns to idle; fulfillment
// failure is the one error reported to the user explicitly.
func (s *Service) placeOrder(ctx context.Context, uc *domain.UserContext) domain.TaskResult {
	draft := uc.PendingOrder
	uc.PendingOrder = nil
	uc.ActiveOrder = nil
	uc.ConversationState = domain.StateIdle

	if draft.Message == "" {
		draft.Message = "With love!"
	}

	if decision := s.policyDecision(ctx, draft, uc); decision == "block" {
		return domain.TaskResult{
			Type:  "text",
			Text:  "I can't place this order automatically, it exceeds what I'm allowed to order. Please contact support for bulk orders.",
			State: domain.StateIdle,
		}
	}

	result, err := s.fulfillment.PlaceOrder(ctx, draft)
	if err != nil {
		s.logger.Error("order placement failed", zap.Error(err), zap.String("user_id", uc.UserID))
		return domain.TaskResult{
			Type:  "text",
			Text:  "A technical error occurred while placing your order. Please try again later or contact support.",
			State: domain.StateIdle,
		}
	}

	if !result.Success {
		var b strings.Builder
		fmt.Fprintf(&b, "Order failed: %s", result.Error)
		if len(result.Suggestions) > 0 {
			b.WriteString("\n\nAvailable alternatives:\n")
			for i, sug := range result.Suggestions {
				if i == 3 {
					break
				}
				fmt.Fprintf(&b, "- %s - €%.2f\n", sug.Name, sug.Price)
			}
		}
		return domain.TaskResult{Type: "text", Text: b.String(), State: domain.StateIdle}
	}

	text := fmt.Sprintf("Order placed successfully!\n\n"+
		"Order number: %s\n"+
		"Flowers: %s\n"+
		"Recipient: %s\n"+
		"Delivery address: %s\n"+
		"Delivery date: %s\n"+
		"Cost: €%.2f\n\n"+
		"The flowers will be delivered between %s.\n"+
		"Tracking: %s",
		result.OrderID, result.ProductName, draft.Recipient, draft.DeliveryAddress,
		result.DeliveryDate, result.Price, result.DeliveryWindow, result.TrackingRef)

	return domain.TaskResult{Type: "text", Text: text, State: domain.StateIdle}
}

// policyDecision consults the order policy engine. Evaluation errors resolve
// to allow so a broken policy never strands the user.
func (s *Service) policyDecision(ctx context.Context, draft *domain.OrderDraft, uc *domain.UserContext) string {
	if s.policyEngine == nil {
		return "allow"
	}
	quantity := 1
	if q, err := strconv.Atoi(strings.TrimSpace(draft.Quantity)); err == nil && q > 0 {
		quantity = q
	}
	decision, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
		"flower_type": draft.FlowerType,
		"quantity":    quantity,
		"user_id":     uc.UserID,
	})
	if err != nil {
		s.logger.Error("order policy evaluation failed", zap.Error(err))
		return "allow"
	}
	return decision
}

// handleResolverError keeps an in-flight draft alive: the failure is scoped
// to this turn, so a user mid-order stays where they were.
func (s *Service) handleResolverError(intent domain.IntentResult, uc *domain.UserContext) domain.TaskResult {
	text := fallback(intent.Response, "Sorry, I ran into a small technical problem. Could you repeat that?")
	state := uc.ConversationState
	if state != domain.StateCollecting && state != domain.StateConfirming {
		state = domain.StateIdle
		uc.ConversationState = state
	}
	return domain.TaskResult{Type: "text", Text: text, State: state}
}

// singleTurnReply answers intents that carry no slot-filling sub-protocol.
// From idle or error the user returns to idle; an off-task turn while an
// order is being collected or confirmed answers without a transition, so the
// draft survives and the yes/no gate stays open.
func (s *Service) singleTurnReply(uc *domain.UserContext, text string) domain.TaskResult {
	state := uc.ConversationState
	if state != domain.StateCollecting && state != domain.StateConfirming {
		state = domain.StateIdle
		uc.ConversationState = state
		uc.ActiveOrder = nil
		uc.PendingOrder = nil
	}
	return domain.TaskResult{Type: "text", Text: text, State: state}
}

func fallback(text, def string) string {
	if strings.TrimSpace(text) == "" {
		return def
	}
	return text
}
