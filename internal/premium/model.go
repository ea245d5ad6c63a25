package premium

import "time"

type Plan string
type Status string

const (
	PlanMonthly Plan = "monthly"
	PlanAnnual  Plan = "annual"

	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Subscription struct {
	ID              int       `db:"id" json:"id"`
	UserID          int       `db:"user_id" json:"user_id"`
	Plan            Plan      `db:"plan" json:"plan"`
	Status          Status    `db:"status" json:"status"`
	DiscountPercent int64     `db:"discount_percent" json:"discount_percent"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	ValidFrom       time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil      time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type SubscribeRequest struct {
	Plan string `json:"plan" binding:"required,oneof=monthly annual"`
}

// planTerms fixes the price and boost discount of each tier.
var planTerms = map[Plan]struct {
	PriceCents      int64
	DiscountPercent int64
	Months          int
}{
	PlanMonthly: {PriceCents: 1990, DiscountPercent: 10, Months: 1},
	PlanAnnual:  {PriceCents: 19900, DiscountPercent: 20, Months: 12},
}
