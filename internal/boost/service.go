package boost

import (
	"context"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/premium"
)

type Service interface {
	// QuoteFor prices a boost with the buyer's current premium discount.
	QuoteFor(ctx context.Context, userID int, boostType BoostType, quantity int) (*Quote, error)
	// Purchase executes a quote. Wallet payments debit in-line; pix and card
	// purchases arrive pre-settled and only record the result.
	Purchase(ctx context.Context, eventID, userID int, boostType BoostType, quantity int, method PaymentMethod) (*Purchase, error)
}

type service struct {
	repo        Repository
	premiumRepo premium.Repository
	pricing     *PricingEngine
}

func NewService(repo Repository, premiumRepo premium.Repository, pricing *PricingEngine) Service {
	return &service{
		repo:        repo,
		premiumRepo: premiumRepo,
		pricing:     pricing,
	}
}

func (s *service) QuoteFor(ctx context.Context, userID int, boostType BoostType, quantity int) (*Quote, error) {
	discount, err := s.premiumRepo.ActiveDiscount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.pricing.Quote(boostType, quantity, discount)
}

func (s *service) Purchase(ctx context.Context, eventID, userID int, boostType BoostType, quantity int, method PaymentMethod) (*Purchase, error) {
	quote, err := s.QuoteFor(ctx, userID, boostType, quantity)
	if err != nil {
		return nil, err
	}

	p := &Purchase{
		EventID:         eventID,
		UserID:          userID,
		BoostType:       boostType,
		Quantity:        quantity,
		UnitPriceCents:  quote.UnitPriceCents,
		DiscountPercent: quote.DiscountPercent,
		TotalPaidCents:  quote.TotalPriceCents,
		PaymentMethod:   method,
	}

	return s.repo.CreatePurchase(ctx, p, method == MethodWallet)
}
