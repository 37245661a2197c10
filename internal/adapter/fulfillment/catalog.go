// Package fulfillment provides product search and order placement.
package fulfillment

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petalflow/assistant/internal/domain"
)

// Service defines the fulfillment operations consumed by the orchestrator.
type Service interface {
	// Search returns catalog products matching the descriptor, best match
	// first. An empty descriptor returns the whole catalog.
	Search(ctx context.Context, descriptor string) []domain.Product

	// PlaceOrder places an order for the draft. Business-level failures
	// (unknown product, rejected order) come back inside OrderResult; a Go
	// error means the backend itself misbehaved.
	PlaceOrder(ctx context.Context, draft *domain.OrderDraft) (*domain.OrderResult, error)
}

// Catalog is an in-process fulfillment backend with a fixed product list.
type Catalog struct {
	products []domain.Product
}

// Ensure Catalog implements Service interface.
var _ Service = (*Catalog)(nil)

// NewCatalog creates the fulfillment catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		products: []domain.Product{
			{
				ID:          "1",
				Name:        "Red Roses Bouquet",
				Price:       29.99,
				Description: "12 fresh red roses with greenery",
				Category:    "roses",
				Keywords:    []string{"red roses", "roses", "red"},
				Available:   true,
			},
			{
				ID:          "2",
				Name:        "White Roses Bouquet",
				Price:       32.99,
				Description: "12 elegant white roses",
				Category:    "roses",
				Keywords:    []string{"white roses", "roses", "white"},
				Available:   true,
			},
			{
				ID:          "3",
				Name:        "Mixed Seasonal Bouquet",
				Price:       24.99,
				Description: "Colorful mix of seasonal flowers",
				Category:    "mixed",
				Keywords:    []string{"mixed", "seasonal", "colorful"},
				Available:   true,
			},
			{
				ID:          "4",
				Name:        "Tulip Bouquet",
				Price:       19.99,
				Description: "10 colorful tulips",
				Category:    "tulips",
				Keywords:    []string{"tulips", "tulip"},
				Available:   true,
			},
			{
				ID:          "5",
				Name:        "Sunflower Bunch",
				Price:       22.99,
				Description: "5 large sunflowers",
				Category:    "sunflowers",
				Keywords:    []string{"sunflowers", "sunflower", "yellow"},
				Available:   true,
			},
		},
	}
}

// Search matches the descriptor against product keywords, ranking by total
// matched keyword length so more specific matches win.
func (c *Catalog) Search(ctx context.Context, descriptor string) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(descriptor))

	var results []domain.Product
	for _, p := range c.products {
		if !p.Available {
			continue
		}
		if query == "" || keywordScore(p, query) > 0 {
			results = append(results, p)
		}
	}
	if query != "" {
		sort.SliceStable(results, func(i, j int) bool {
			return keywordScore(results[i], query) > keywordScore(results[j], query)
		})
	}
	return results
}

func keywordScore(p domain.Product, query string) int {
	score := 0
	for _, kw := range p.Keywords {
		if strings.Contains(query, kw) {
			score += len(kw)
		}
	}
	return score
}

// PlaceOrder selects the best matching product and creates the order. Unknown
// descriptors fail with alternative suggestions.
func (c *Catalog) PlaceOrder(ctx context.Context, draft *domain.OrderDraft) (*domain.OrderResult, error) {
	matches := c.Search(ctx, draft.FlowerType)
	if len(matches) == 0 {
		return &domain.OrderResult{
			Success:     false,
			Error:       "no flowers matching '" + draft.FlowerType + "' found",
			Suggestions: c.popularProducts(),
		}, nil
	}
	product := matches[0]

	deliveryDate := draft.DeliveryDate
	if deliveryDate == "" {
		deliveryDate = time.Now().AddDate(0, 0, 1).Format("02.01.2006")
	}
	quantity := 1
	if q, err := strconv.Atoi(strings.TrimSpace(draft.Quantity)); err == nil && q > 0 {
		quantity = q
	}

	orderID := "FL-" + strings.ToUpper(uuid.New().String()[:8])
	return &domain.OrderResult{
		Success:        true,
		OrderID:        orderID,
		ProductName:    product.Name,
		Price:          product.Price * float64(quantity),
		DeliveryDate:   deliveryDate,
		DeliveryWindow: "10:00 - 18:00",
		TrackingRef:    "TRK" + orderID[3:],
	}, nil
}

func (c *Catalog) popularProducts() []domain.Suggestion {
	return []domain.Suggestion{
		{Name: "Red Roses Bouquet", Price: 29.99},
		{Name: "Mixed Seasonal Bouquet", Price: 24.99},
		{Name: "Tulip Bouquet", Price: 19.99},
	}
}
