package boost

import "context"

type Repository interface {
	// CreatePurchase records a boost purchase and bumps the event's boosts
	// counter; when payFromWallet is set, the wallet debit joins the same
	// transaction.
	CreatePurchase(ctx context.Context, p *Purchase, payFromWallet bool) (*Purchase, error)
	ListByEvent(ctx context.Context, eventID int) ([]Purchase, error)
}
