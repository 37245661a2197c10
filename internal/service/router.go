package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/petalflow/assistant/internal/domain"
)

// ProcessMessage is the entry point for one normalized inbound message. It
// loads the sender's context, runs the orchestration core and delivers
// exactly one reply. All failures degrade to an apologetic reply; nothing
// propagates to the transport layer.
func (s *Service) ProcessMessage(ctx context.Context, msg domain.InboundMessage) {
	s.logger.Info("processing message",
		zap.String("sender_id", msg.SenderID),
		zap.String("message_id", msg.MessageID),
		zap.String("type", string(msg.Type)))

	// Read receipts are best effort.
	if err := s.channel.MarkMessageRead(ctx, msg.MessageID); err != nil {
		s.logger.Warn("failed to mark message as read", zap.Error(err))
	}

	uc := s.LoadContext(ctx, msg.SenderID)
	uc.MessageCount++

	switch msg.Type {
	case domain.MessageTypeText:
		s.processText(ctx, msg.SenderID, msg.Text, uc)
	case domain.MessageTypeAudio:
		s.processAudio(ctx, msg, uc)
	case domain.MessageTypeInteractive:
		s.processInteractive(ctx, msg, uc)
	case domain.MessageTypeImage:
		s.processImage(ctx, msg, uc)
	default:
		s.logger.Warn("unhandled message type", zap.String("type", string(msg.Type)))
		s.reply(ctx, msg.SenderID, uc, "This message type isn't supported yet. Please send a text message.")
	}
}

// processText runs the core pipeline: confirmation pre-check, intent
// resolution, task execution, context save, reply.
func (s *Service) processText(ctx context.Context, senderID, text string, uc *domain.UserContext) {
	// A bare yes/no while an order awaits confirmation is intercepted before
	// it could be reinterpreted as a fresh intent.
	if uc.ConversationState == domain.StateConfirming {
		if result := s.HandleConfirmation(ctx, text, uc); result != nil {
			s.finishTurn(ctx, senderID, uc, *result)
			return
		}
	}

	intent := s.Resolve(ctx, text, uc)
	result := s.Execute(ctx, intent, uc)

	uc.LastIntent = string(intent.Intent)
	s.finishTurn(ctx, senderID, uc, result)
}

// processAudio resolves the voice note to text and runs it through the text
// pipeline. A failed transcription gets an apology instead of silence.
func (s *Service) processAudio(ctx context.Context, msg domain.InboundMessage, uc *domain.UserContext) {
	transcript, err := s.transcribeMedia(ctx, msg.MediaID)
	if err != nil {
		s.logger.Warn("audio transcription failed", zap.Error(err), zap.String("media_id", msg.MediaID))
	}
	if transcript == "" {
		s.reply(ctx, msg.SenderID, uc, "Sorry, I couldn't understand your voice message. Could you repeat it or send a text message?")
		return
	}
	s.logger.Info("audio transcribed", zap.String("sender_id", msg.SenderID))
	s.processText(ctx, msg.SenderID, transcript, uc)
}

func (s *Service) transcribeMedia(ctx context.Context, mediaID string) (string, error) {
	if s.transcriber == nil {
		return "", fmt.Errorf("transcription not configured")
	}
	mediaURL, err := s.channel.GetMediaURL(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media url: %w", err)
	}
	audio, err := s.channel.DownloadMedia(ctx, mediaURL)
	if err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}
	return s.transcriber.Transcribe(ctx, audio, "ogg")
}

func (s *Service) processInteractive(ctx context.Context, msg domain.InboundMessage, uc *domain.UserContext) {
	if msg.ButtonTitle == "" {
		s.reply(ctx, msg.SenderID, uc, "This message type isn't supported yet. Please send a text message.")
		return
	}
	s.reply(ctx, msg.SenderID, uc, fmt.Sprintf("You selected %q. This feature is coming soon!", msg.ButtonTitle))
}

func (s *Service) processImage(ctx context.Context, msg domain.InboundMessage, uc *domain.UserContext) {
	text := "I received your picture. Image analysis is coming soon!"
	if msg.Caption != "" {
		text += "\nCaption: " + msg.Caption
	}
	s.reply(ctx, msg.SenderID, uc, text)
}

// finishTurn persists the new state and delivers the reply.
func (s *Service) finishTurn(ctx context.Context, senderID string, uc *domain.UserContext, result domain.TaskResult) {
	uc.LastResponse = result.Text
	uc.ConversationState = result.State

	if err := s.SaveContext(ctx, uc); err != nil {
		s.logger.Error("failed to save user context", zap.Error(err), zap.String("user_id", uc.UserID))
	}
	if err := s.channel.SendText(ctx, senderID, result.Text); err != nil {
		s.logger.Error("failed to send reply", zap.Error(err), zap.String("sender_id", senderID))
	}
}

// reply sends a simple acknowledgment without changing dialogue state, still
// refreshing the session TTL for the turn.
func (s *Service) reply(ctx context.Context, senderID string, uc *domain.UserContext, text string) {
	s.finishTurn(ctx, senderID, uc, domain.TaskResult{
		Type:  "text",
		Text:  text,
		State: uc.ConversationState,
	})
}
