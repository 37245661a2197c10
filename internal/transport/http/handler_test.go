package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/petalflow/assistant/config"
	"github.com/petalflow/assistant/internal/adapter/fulfillment"
	"github.com/petalflow/assistant/internal/repository"
	"github.com/petalflow/assistant/internal/service"
)

type recordingChannel struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingChannel) SendText(ctx context.Context, recipientID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingChannel) MarkMessageRead(ctx context.Context, messageID string) error {
	return nil
}

func (r *recordingChannel) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	return "", nil
}

func (r *recordingChannel) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	return nil, nil
}

func (r *recordingChannel) sentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func newTestHandler(t *testing.T, appSecret string) (*Handler, *recordingChannel) {
	t.Helper()

	ch := &recordingChannel{}
	cfg := &config.Config{SessionTTL: time.Hour}
	svc := service.New(repository.NewMemoryStore(), nil, nil, ch, fulfillment.NewCatalog(), nil, cfg, zap.NewNop())
	return NewHandler(svc, "verify-me", appSecret, zap.NewNop()), ch
}

func TestVerifyWebhookReturnsChallenge(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.VerifyWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
}

func TestVerifyWebhookRejectsWrongToken(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.VerifyWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

const textPayloadJSON = `{
	"entry": [{
		"changes": [{
			"field": "messages",
			"value": {
				"messages": [{
					"from": "49123456789",
					"id": "wamid.1",
					"type": "text",
					"timestamp": "1700000000",
					"text": {"body": "hello"}
				}]
			}
		}]
	}]
}`

func TestReceiveWebhookProcessesMessage(t *testing.T) {
	e := echo.New()
	handler, ch := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(textPayloadJSON)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ReceiveWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ch.sentCount())
}

func TestReceiveWebhookValidSignature(t *testing.T) {
	e := echo.New()
	handler, ch := newTestHandler(t, "app-secret")

	body := []byte(textPayloadJSON)
	mac := hmac.New(sha256.New, []byte("app-secret"))
	mac.Write(body)
	signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Hub-Signature-256", signature)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ReceiveWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ch.sentCount())
}

func TestReceiveWebhookRejectsBadSignature(t *testing.T) {
	e := echo.New()
	handler, ch := newTestHandler(t, "app-secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(textPayloadJSON)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ReceiveWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, ch.sentCount())
}

func TestReceiveWebhookRejectsMissingSignature(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t, "app-secret")

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(textPayloadJSON)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ReceiveWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReceiveWebhookStatusOnlyPayload(t *testing.T) {
	e := echo.New()
	handler, ch := newTestHandler(t, "")

	payload := `{
		"entry": [{
			"changes": [{
				"field": "messages",
				"value": {
					"statuses": [{"id": "wamid.9", "status": "delivered", "timestamp": "1700000001"}]
				}
			}]
		}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ReceiveWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ch.sentCount())
}

func TestReceiveWebhookRejectsInvalidJSON(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte("{not json")))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.ReceiveWebhook(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Health(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
