package ticket

import "time"

// Category is a finite-stock ticket tier for an event. Stock only moves
// down through successful purchases and up through administrative restocks;
// stock_remaining can never go below zero.
type Category struct {
	ID             int       `db:"id" json:"id"`
	EventID        int       `db:"event_id" json:"event_id"`
	Name           string    `db:"name" json:"name"`
	PriceCents     int64     `db:"price_cents" json:"price_cents"`
	StockTotal     int       `db:"stock_total" json:"stock_total"`
	StockRemaining int       `db:"stock_remaining" json:"stock_remaining"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Order is the receipt row for one sold ticket. CommissionCents is the
// platform's cut, recorded as settlement metadata and never debited as a
// second charge.
type Order struct {
	ID              string    `db:"id" json:"id"`
	EventID         int       `db:"event_id" json:"event_id"`
	CategoryID      *int      `db:"category_id" json:"category_id,omitempty"`
	UserID          int       `db:"user_id" json:"user_id"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	CommissionCents int64     `db:"commission_cents" json:"commission_cents"`
	TransactionID   *int      `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type CreateCategoryRequest struct {
	Name       string `json:"name" validate:"required"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
	StockTotal int    `json:"stock_total" validate:"required,gte=1"`
}

type PurchaseRequest struct {
	// CategoryID is omitted for flat-price (legacy) events.
	CategoryID *int `json:"category_id,omitempty"`
	// PriceCents is required only on the legacy path.
	PriceCents *int64 `json:"price_cents,omitempty"`
}

type RestockRequest struct {
	Delta int `json:"delta" binding:"min=0"`
}
