package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/petalflow/assistant/internal/domain"
)

func contextKey(userID string) string {
	return "user_context:" + userID
}

// LoadContext fetches the user's conversation context from the session store.
// A missing, expired or corrupt blob materializes a fresh idle context;
// corruption is logged but never surfaces to the caller.
func (s *Service) LoadContext(ctx context.Context, userID string) *domain.UserContext {
	raw, ok, err := s.store.Get(ctx, contextKey(userID))
	if err != nil {
		s.logger.Error("session store read failed", zap.Error(err), zap.String("user_id", userID))
		return domain.NewUserContext(userID)
	}
	if !ok {
		return domain.NewUserContext(userID)
	}

	uc, err := domain.ParseUserContext([]byte(raw))
	if err != nil {
		s.logger.Warn("corrupt session context, starting fresh",
			zap.Error(err), zap.String("user_id", userID))
		return domain.NewUserContext(userID)
	}
	return uc
}

// SaveContext writes the context back with the configured inactivity TTL,
// refreshing the expiry on every turn.
func (s *Service) SaveContext(ctx context.Context, uc *domain.UserContext) error {
	raw, err := json.Marshal(uc)
	if err != nil {
		return fmt.Errorf("failed to encode user context: %w", err)
	}
	if err := s.store.Set(ctx, contextKey(uc.UserID), string(raw), s.config.SessionTTL); err != nil {
		return fmt.Errorf("failed to save user context: %w", err)
	}
	return nil
}
