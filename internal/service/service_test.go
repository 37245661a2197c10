package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/petalflow/assistant/config"
	"github.com/petalflow/assistant/internal/adapter/fulfillment"
	"github.com/petalflow/assistant/internal/domain"
	"github.com/petalflow/assistant/policy"
	"github.com/petalflow/assistant/tests/helpers"
)

// fakeChannel records outbound traffic instead of talking to the platform.
type fakeChannel struct {
	mu        sync.Mutex
	sent      []string
	readMarks []string
	media     []byte
}

func (f *fakeChannel) SendText(ctx context.Context, recipientID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeChannel) MarkMessageRead(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readMarks = append(f.readMarks, messageID)
	return nil
}

func (f *fakeChannel) GetMediaURL(ctx context.Context, mediaID string) (string, error) {
	return "https://media.example/" + mediaID, nil
}

func (f *fakeChannel) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	return f.media, nil
}

func (f *fakeChannel) lastSent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

// fakeFulfillment returns a fixed result or error.
type fakeFulfillment struct {
	result *domain.OrderResult
	err    error
}

func (f *fakeFulfillment) Search(ctx context.Context, descriptor string) []domain.Product {
	return nil
}

func (f *fakeFulfillment) PlaceOrder(ctx context.Context, draft *domain.OrderDraft) (*domain.OrderResult, error) {
	return f.result, f.err
}

// fakeBackend returns a fixed completion or error.
type fakeBackend struct {
	output string
	err    error
}

func (f *fakeBackend) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.output, f.err
}

type testServiceOption func(*Service)

func withBackend(b *fakeBackend) testServiceOption {
	return func(s *Service) { s.backend = b }
}

func withFulfillment(f fulfillment.Service) testServiceOption {
	return func(s *Service) { s.fulfillment = f }
}

func newTestService(t *testing.T, opts ...testServiceOption) (*Service, *fakeChannel) {
	t.Helper()

	ctx := context.Background()
	db := helpers.NewTestSQLiteStore(t)

	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	cfg := &config.Config{SessionTTL: time.Hour}
	ch := &fakeChannel{}
	svc := New(db, nil, nil, ch, fulfillment.NewCatalog(), policyEngine, cfg, zap.NewNop())

	for _, opt := range opts {
		opt(svc)
	}
	return svc, ch
}
