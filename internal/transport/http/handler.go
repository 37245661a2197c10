// Package http provides the webhook HTTP handlers for the assistant.
package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/petalflow/assistant/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service     *service.Service
	verifyToken string
	appSecret   string
	logger      *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, verifyToken, appSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		service:     svc,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		logger:      logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/webhook", h.VerifyWebhook)
	e.POST("/webhook", h.ReceiveWebhook)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// VerifyWebhook answers the platform's subscription handshake.
// GET /webhook
func (h *Handler) VerifyWebhook(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		return c.String(http.StatusOK, challenge)
	}

	h.logger.Warn("webhook verification failed", zap.String("mode", mode))
	return c.JSON(http.StatusForbidden, map[string]string{"error": "verification failed"})
}

// ReceiveWebhook ingests a webhook delivery, normalizes the contained
// messages and hands them to the message router. Handled payloads always
// return 200 so the platform does not retry them.
// POST /webhook
func (h *Handler) ReceiveWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if h.appSecret != "" {
		signature := c.Request().Header.Get("X-Hub-Signature-256")
		if !h.validSignature(body, signature) {
			h.logger.Warn("webhook signature mismatch")
			return c.JSON(http.StatusForbidden, map[string]string{"error": "invalid signature"})
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, status := range change.Value.Statuses {
				h.logger.Debug("message status update",
					zap.String("message_id", status.ID),
					zap.String("status", status.Status))
			}
		}
	}

	for _, msg := range payload.normalize() {
		h.service.ProcessMessage(ctx, msg)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validSignature(body []byte, header string) bool {
	expected := strings.TrimPrefix(header, "sha256=")
	if expected == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	computed := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(computed), []byte(expected))
}
