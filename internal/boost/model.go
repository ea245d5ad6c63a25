package boost

import "time"

// BoostType is the visibility window a boost buys.
type BoostType string

// PaymentMethod selects how a boost purchase settles. Wallet debits happen
// in-line; pix and card settle out of band and arrive here pre-settled.
type PaymentMethod string

const (
	Type12h BoostType = "12h"
	Type24h BoostType = "24h"

	MethodWallet PaymentMethod = "wallet"
	MethodPix    PaymentMethod = "pix"
	MethodCard   PaymentMethod = "card"
)

type Purchase struct {
	ID              string        `db:"id" json:"id"`
	EventID         int           `db:"event_id" json:"event_id"`
	UserID          int           `db:"user_id" json:"user_id"`
	BoostType       BoostType     `db:"boost_type" json:"boost_type"`
	Quantity        int           `db:"quantity" json:"quantity"`
	UnitPriceCents  int64         `db:"unit_price_cents" json:"unit_price_cents"`
	DiscountPercent int64         `db:"discount_percent" json:"discount_percent"`
	TotalPaidCents  int64         `db:"total_paid_cents" json:"total_paid_cents"`
	PaymentMethod   PaymentMethod `db:"payment_method" json:"payment_method"`
	TransactionID   *int          `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

type QuoteRequest struct {
	BoostType string `json:"boost_type" binding:"required,oneof=12h 24h"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type PurchaseRequest struct {
	BoostType     string `json:"boost_type" binding:"required,oneof=12h 24h"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=wallet pix card"`
}

func ParseBoostType(s string) (BoostType, bool) {
	switch BoostType(s) {
	case Type12h, Type24h:
		return BoostType(s), true
	}
	return "", false
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodWallet, MethodPix, MethodCard:
		return PaymentMethod(s), true
	}
	return "", false
}
