// Package domain defines the core domain models for the assistant.
package domain

import (
	"encoding/json"
	"fmt"
)

// ConversationState represents the state of a user's dialogue.
type ConversationState string

const (
	StateIdle       ConversationState = "idle"
	StateCollecting ConversationState = "collecting_order"
	StateConfirming ConversationState = "confirming_order"
	StateError      ConversationState = "error"
)

// Valid reports whether s is a known conversation state.
func (s ConversationState) Valid() bool {
	switch s {
	case StateIdle, StateCollecting, StateConfirming, StateError:
		return true
	}
	return false
}

// OrderDraft is the slot set collected for a flower order. Empty string means
// the slot has not been filled yet.
type OrderDraft struct {
	Recipient       string `json:"recipient,omitempty"`
	FlowerType      string `json:"flower_type,omitempty"`
	Quantity        string `json:"quantity,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
	DeliveryDate    string `json:"delivery_date,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Complete reports whether all required slots are filled. Quantity, delivery
// date and message have defaults applied at confirmation time and never block
// progress.
func (d *OrderDraft) Complete() bool {
	return d.Recipient != "" && d.FlowerType != "" && d.DeliveryAddress != ""
}

// MissingSlots returns the human-readable names of the required slots that
// are still empty.
func (d *OrderDraft) MissingSlots() []string {
	var missing []string
	if d.Recipient == "" {
		missing = append(missing, "recipient")
	}
	if d.FlowerType == "" {
		missing = append(missing, "flower type")
	}
	if d.DeliveryAddress == "" {
		missing = append(missing, "delivery address")
	}
	return missing
}

// Merge copies every non-empty entity value into its slot. An absent or empty
// entity never unsets a previously filled slot, so accumulation is monotonic.
func (d *OrderDraft) Merge(entities map[string]string) {
	if v := entities[EntityRecipient]; v != "" {
		d.Recipient = v
	}
	if v := entities[EntityFlowerType]; v != "" {
		d.FlowerType = v
	}
	if v := entities[EntityQuantity]; v != "" {
		d.Quantity = v
	}
	if v := entities[EntityDeliveryAddress]; v != "" {
		d.DeliveryAddress = v
	}
	if v := entities[EntityDeliveryDate]; v != "" {
		d.DeliveryDate = v
	}
	if v := entities[EntityMessage]; v != "" {
		d.Message = v
	}
}

// UserContext is the per-user unit of durable conversation state. It is
// created lazily on first contact and expires from the session store after a
// fixed inactivity window.
type UserContext struct {
	UserID            string            `json:"user_id"`
	ConversationState ConversationState `json:"conversation_state"`
	// ActiveOrder is the mutable draft while collecting; PendingOrder is the
	// frozen snapshot awaiting confirmation. At most one is populated.
	ActiveOrder      *OrderDraft `json:"active_order,omitempty"`
	PendingOrder     *OrderDraft `json:"pending_order,omitempty"`
	MessageCount     int         `json:"message_count"`
	LastIntent       string      `json:"last_intent,omitempty"`
	LastResponse     string      `json:"last_response,omitempty"`
	FirstInteraction bool        `json:"first_interaction"`
}

// NewUserContext returns a fresh idle context for the given user.
func NewUserContext(userID string) *UserContext {
	return &UserContext{
		UserID:            userID,
		ConversationState: StateIdle,
		FirstInteraction:  true,
	}
}

// ParseUserContext decodes and validates a stored context blob. Callers treat
// any error as "not found" and start a fresh session.
func ParseUserContext(raw []byte) (*UserContext, error) {
	var uc UserContext
	if err := json.Unmarshal(raw, &uc); err != nil {
		return nil, fmt.Errorf("failed to decode user context: %w", err)
	}
	if uc.UserID == "" {
		return nil, fmt.Errorf("user context missing user_id")
	}
	if !uc.ConversationState.Valid() {
		return nil, fmt.Errorf("unknown conversation state %q", uc.ConversationState)
	}
	return &uc, nil
}
