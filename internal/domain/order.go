package domain

// Product is a catalog entry offered by the fulfillment backend.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Available   bool     `json:"available"`
}

// Suggestion is an alternative product offered when an order fails.
type Suggestion struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderResult is the fulfillment adapter's answer to PlaceOrder. Success and
// failure are both expressed here; the adapter returns a Go error only for
// transport-level problems.
type OrderResult struct {
	Success        bool         `json:"success"`
	OrderID        string       `json:"order_id,omitempty"`
	ProductName    string       `json:"product_name,omitempty"`
	Price          float64      `json:"price,omitempty"`
	DeliveryDate   string       `json:"delivery_date,omitempty"`
	DeliveryWindow string       `json:"delivery_window,omitempty"`
	TrackingRef    string       `json:"tracking_ref,omitempty"`
	Error          string       `json:"error,omitempty"`
	Suggestions    []Suggestion `json:"suggestions,omitempty"`
}
