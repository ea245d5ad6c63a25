package boost

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownBoostType = errors.New("unknown boost type")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidDiscount  = errors.New("discount percent must be between 0 and 100")
)

// Quote is a priced boost offer. All amounts are centavos; the discount is
// rounded half up, so total_cents = base_cents - discount_cents exactly.
type Quote struct {
	BoostType       BoostType `json:"boost_type"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	BasePriceCents  int64     `json:"base_price_cents"`
	DiscountPercent int64     `json:"discount_percent"`
	DiscountCents   int64     `json:"discount_cents"`
	TotalPriceCents int64     `json:"total_price_cents"`
}

// PricingEngine computes boost quotes from configured unit prices.
type PricingEngine struct {
	unitPrices map[BoostType]int64
}

func NewPricingEngine(price12hCents, price24hCents int64) *PricingEngine {
	return &PricingEngine{
		unitPrices: map[BoostType]int64{
			Type12h: price12hCents,
			Type24h: price24hCents,
		},
	}
}

func (e *PricingEngine) UnitPrice(boostType BoostType) (int64, error) {
	price, ok := e.unitPrices[boostType]
	if !ok {
		return 0, ErrUnknownBoostType
	}
	return price, nil
}

// Quote prices quantity boosts with the buyer's premium discount applied.
func (e *PricingEngine) Quote(boostType BoostType, quantity int, discountPercent int64) (*Quote, error) {
	unitPrice, err := e.UnitPrice(boostType)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, ErrInvalidDiscount
	}

	base := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	discount := base.
		Mul(decimal.NewFromInt(discountPercent)).
		Div(decimal.NewFromInt(100)).
		Round(0)

	return &Quote{
		BoostType:       boostType,
		Quantity:        quantity,
		UnitPriceCents:  unitPrice,
		BasePriceCents:  base.IntPart(),
		DiscountPercent: discountPercent,
		DiscountCents:   discount.IntPart(),
		TotalPriceCents: base.Sub(discount).IntPart(),
	}, nil
}
