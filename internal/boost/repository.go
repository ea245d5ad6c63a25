package boost

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/engagement"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

var ErrEventNotFound = errors.New("event not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func eventReference(eventID int) string {
	return "event:" + strconv.Itoa(eventID)
}

func (r *repository) CreatePurchase(ctx context.Context, p *Purchase, payFromWallet bool) (*Purchase, error) {
	var created *Purchase
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, p.EventID); err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}

		var transactionID *int
		if payFromWallet && p.TotalPaidCents > 0 {
			ref := eventReference(p.EventID)
			entry, err := wallet.DebitTx(ctx, tx, p.UserID, p.TotalPaidCents, wallet.TypeBoost, &ref)
			if err != nil {
				return err
			}
			transactionID = &entry.ID
		}

		created = &Purchase{}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO boost_purchases (id, event_id, user_id, boost_type, quantity, unit_price_cents, discount_percent, total_paid_cents, payment_method, transaction_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, event_id, user_id, boost_type, quantity, unit_price_cents, discount_percent, total_paid_cents, payment_method, transaction_id, created_at
		`, uuid.NewString(), p.EventID, p.UserID, p.BoostType, p.Quantity, p.UnitPriceCents, p.DiscountPercent, p.TotalPaidCents, p.PaymentMethod, transactionID).StructScan(created)
		if err != nil {
			return err
		}

		if err := engagement.AddBoostsTx(ctx, tx, p.EventID, p.Quantity); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID int) ([]Purchase, error) {
	purchases := []Purchase{}
	err := r.db.SelectContext(ctx, &purchases, `
		SELECT id, event_id, user_id, boost_type, quantity, unit_price_cents, discount_percent, total_paid_cents, payment_method, transaction_id, created_at
		FROM boost_purchases
		WHERE event_id = $1
		ORDER BY created_at DESC
	`, eventID)
	return purchases, err
}
