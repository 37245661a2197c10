package domain

// Intent is the closed-vocabulary classification of what the user wants.
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentOrderFlowers    Intent = "order_flowers"
	IntentScheduleMeeting Intent = "schedule_meeting"
	IntentSendEmail       Intent = "send_email"
	IntentGetWeather      Intent = "get_weather"
	IntentGeneralChat     Intent = "general_chat"
	IntentHelp            Intent = "help"
	IntentGoodbye         Intent = "goodbye"
	// IntentError is produced by the resolver's error tier, never by the
	// language-understanding backend vocabulary itself.
	IntentError Intent = "error"
)

// Known reports whether i belongs to the closed intent vocabulary (the error
// tier tag counts as known).
func (i Intent) Known() bool {
	switch i {
	case IntentGreeting, IntentOrderFlowers, IntentScheduleMeeting,
		IntentSendEmail, IntentGetWeather, IntentGeneralChat,
		IntentHelp, IntentGoodbye, IntentError:
		return true
	}
	return false
}

// Entity slot names used in IntentResult.Entities and OrderDraft merging.
const (
	EntityRecipient       = "recipient"
	EntityFlowerType      = "flower_type"
	EntityQuantity        = "quantity"
	EntityDeliveryAddress = "delivery_address"
	EntityDeliveryDate    = "delivery_date"
	EntityMessage         = "message"
)

// IntentResult is the structured outcome of resolving one utterance. It is
// ephemeral: produced once per inbound message and never stored.
type IntentResult struct {
	Intent Intent `json:"intent"`
	// Entities maps slot name to extracted value; an absent key means the
	// slot was not mentioned.
	Entities   map[string]string `json:"entities"`
	Confidence float64           `json:"confidence"`
	// Response is a ready-to-use reply proposed by the resolver. The
	// orchestrator may override it; Action and NextStep are advisory only.
	Response string `json:"response"`
	Action   string `json:"action,omitempty"`
	NextStep string `json:"next_step,omitempty"`
}

// TaskResult is the orchestrator's sole output channel back to the router.
type TaskResult struct {
	Type  string            `json:"type"`
	Text  string            `json:"text"`
	State ConversationState `json:"state"`
}
