package premium

import "context"

type Repository interface {
	// Subscribe charges the plan price from the user's wallet and activates
	// the subscription in the same atomic unit.
	Subscribe(ctx context.Context, userID int, plan Plan) (*Subscription, error)
	GetActiveForUser(ctx context.Context, userID int) (*Subscription, error)
	// ActiveDiscount returns the buyer's boost discount percent, 0 when no
	// subscription is active.
	ActiveDiscount(ctx context.Context, userID int) (int64, error)
}
