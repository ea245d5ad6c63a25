package premium

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

var (
	ErrUnknownPlan      = errors.New("unknown premium plan")
	ErrAlreadyActive    = errors.New("user already has an active subscription")
	ErrNoActivePremiums = errors.New("no active subscription")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Subscribe(ctx context.Context, userID int, plan Plan) (*Subscription, error) {
	terms, ok := planTerms[plan]
	if !ok {
		return nil, ErrUnknownPlan
	}

	var sub *Subscription
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var active bool
		err = tx.GetContext(ctx, &active, `
			SELECT EXISTS (
			  SELECT 1 FROM premium_subscriptions
			  WHERE user_id = $1 AND status = 'active' AND valid_until >= NOW()
			)
		`, userID)
		if err != nil {
			return err
		}
		if active {
			return ErrAlreadyActive
		}

		now := time.Now()
		validUntil := now.AddDate(0, terms.Months, 0)

		sub = &Subscription{}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO premium_subscriptions (user_id, plan, status, discount_percent, price_cents, valid_from, valid_until)
			VALUES ($1, $2, 'active', $3, $4, $5, $6)
			RETURNING id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at
		`, userID, plan, terms.DiscountPercent, terms.PriceCents, now, validUntil).StructScan(sub)
		if err != nil {
			return err
		}

		ref := subscriptionReference(sub.ID)
		if _, err := wallet.DebitTx(ctx, tx, userID, terms.PriceCents, wallet.TypeSubscription, &ref); err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) GetActiveForUser(ctx context.Context, userID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at
		FROM premium_subscriptions
		WHERE user_id = $1
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_until >= NOW()
		ORDER BY valid_until DESC
		LIMIT 1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActivePremiums
		}
		return nil, err
	}
	return sub, nil
}

func (r *repository) ActiveDiscount(ctx context.Context, userID int) (int64, error) {
	sub, err := r.GetActiveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActivePremiums) {
			return 0, nil
		}
		return 0, err
	}
	return sub.DiscountPercent, nil
}

func subscriptionReference(subID int) string {
	return "subscription:" + strconv.Itoa(subID)
}
