package service

import (
	"context"
	"testing"

	"github.com/petalflow/assistant/internal/domain"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	uc := domain.NewUserContext("49123456789")
	uc.ConversationState = domain.StateCollecting
	uc.ActiveOrder = &domain.OrderDraft{Recipient: "friend", FlowerType: "red roses"}
	uc.MessageCount = 4
	uc.LastIntent = "order_flowers"
	uc.FirstInteraction = false

	if err := svc.SaveContext(ctx, uc); err != nil {
		t.Fatalf("SaveContext: %v", err)
	}

	got := svc.LoadContext(ctx, "49123456789")
	if got.ConversationState != domain.StateCollecting {
		t.Fatalf("expected collecting_order, got %s", got.ConversationState)
	}
	if got.ActiveOrder == nil || got.ActiveOrder.Recipient != "friend" {
		t.Fatalf("active order did not round-trip: %+v", got.ActiveOrder)
	}
	if got.MessageCount != 4 {
		t.Fatalf("expected message count 4, got %d", got.MessageCount)
	}
	if got.FirstInteraction {
		t.Fatalf("first interaction flag did not round-trip")
	}
}

func TestLoadContextMissingStartsFresh(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	uc := svc.LoadContext(ctx, "unknown-user")
	if uc.UserID != "unknown-user" {
		t.Fatalf("expected fresh context for user, got %q", uc.UserID)
	}
	if uc.ConversationState != domain.StateIdle {
		t.Fatalf("expected idle, got %s", uc.ConversationState)
	}
	if !uc.FirstInteraction {
		t.Fatalf("fresh context should mark first interaction")
	}
}

func TestLoadContextCorruptBlobStartsFresh(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.store.Set(ctx, contextKey("u1"), "{not json", svc.config.SessionTTL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	uc := svc.LoadContext(ctx, "u1")
	if uc.ConversationState != domain.StateIdle || uc.MessageCount != 0 {
		t.Fatalf("corrupt blob should yield a fresh context, got %+v", uc)
	}
}

func TestLoadContextRejectsUnknownState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.store.Set(ctx, contextKey("u1"),
		`{"user_id":"u1","conversation_state":"daydreaming"}`, svc.config.SessionTTL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	uc := svc.LoadContext(ctx, "u1")
	if uc.ConversationState != domain.StateIdle {
		t.Fatalf("unknown state should yield a fresh context, got %s", uc.ConversationState)
	}
}
