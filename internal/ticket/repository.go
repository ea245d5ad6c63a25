package ticket

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

var (
	ErrCategoryNotFound = errors.New("ticket category not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrSoldOut          = errors.New("ticket category sold out")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidStock     = errors.New("stock must be at least 1")
	ErrInvalidDelta     = errors.New("restock delta cannot be negative")
)

type repository struct {
	db *sqlx.DB

	// flat platform commission applied to every sale, percent
	commissionPercent int64
}

func NewRepository(database *sqlx.DB, commissionPercent int64) Repository {
	return &repository{db: database, commissionPercent: commissionPercent}
}

func eventReference(eventID int) string {
	return "event:" + strconv.Itoa(eventID)
}

// commissionFor computes the platform cut, round half up on centavos.
func (r *repository) commissionFor(priceCents int64) int64 {
	return (priceCents*r.commissionPercent + 50) / 100
}

func (r *repository) CreateCategory(ctx context.Context, eventID int, name string, priceCents int64, stockTotal int) (*Category, error) {
	if priceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if stockTotal < 1 {
		return nil, ErrInvalidStock
	}

	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEventNotFound
	}

	var cat Category
	err = r.db.GetContext(ctx, &cat, `
		INSERT INTO ticket_categories (event_id, name, price_cents, stock_total, stock_remaining)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, event_id, name, price_cents, stock_total, stock_remaining, created_at, updated_at
	`, eventID, name, priceCents, stockTotal)
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

func (r *repository) ListCategories(ctx context.Context, eventID int) ([]Category, error) {
	categories := []Category{}
	err := r.db.SelectContext(ctx, &categories, `
		SELECT id, event_id, name, price_cents, stock_total, stock_remaining, created_at, updated_at
		FROM ticket_categories
		WHERE event_id = $1
		ORDER BY price_cents
	`, eventID)
	return categories, err
}

func (r *repository) GetCategoryByID(ctx context.Context, id int) (*Category, error) {
	var cat Category
	err := r.db.GetContext(ctx, &cat, `
		SELECT id, event_id, name, price_cents, stock_total, stock_remaining, created_at, updated_at
		FROM ticket_categories
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *repository) Purchase(ctx context.Context, eventID, categoryID, userID int) (*Order, error) {
	var order *Order
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		// The category row lock serializes concurrent purchases of the same
		// tier: against the last unit, exactly one caller wins.
		var cat Category
		err = tx.QueryRowxContext(ctx, `
			SELECT id, event_id, name, price_cents, stock_total, stock_remaining, created_at, updated_at
			FROM ticket_categories
			WHERE id = $1 AND event_id = $2
			FOR UPDATE
		`, categoryID, eventID).StructScan(&cat)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCategoryNotFound
			}
			return err
		}

		if cat.StockRemaining <= 0 {
			return ErrSoldOut
		}

		// Free tiers skip the wallet entirely.
		var transactionID *int
		if cat.PriceCents > 0 {
			ref := eventReference(eventID)
			entry, err := wallet.DebitTx(ctx, tx, userID, cat.PriceCents, wallet.TypePurchase, &ref)
			if err != nil {
				return err
			}
			transactionID = &entry.ID
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE ticket_categories
			SET stock_remaining = stock_remaining - 1, updated_at = NOW()
			WHERE id = $1
		`, cat.ID)
		if err != nil {
			return err
		}

		order = &Order{}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO ticket_orders (id, event_id, category_id, user_id, price_cents, commission_cents, transaction_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, event_id, category_id, user_id, price_cents, commission_cents, transaction_id, created_at
		`, uuid.NewString(), eventID, cat.ID, userID, cat.PriceCents, r.commissionFor(cat.PriceCents), transactionID).StructScan(order)
		if err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) PurchaseLegacy(ctx context.Context, eventID, userID int, priceCents int64) (*Order, error) {
	if priceCents < 0 {
		return nil, ErrInvalidPrice
	}

	var order *Order
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID); err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}

		var transactionID *int
		if priceCents > 0 {
			ref := eventReference(eventID)
			entry, err := wallet.DebitTx(ctx, tx, userID, priceCents, wallet.TypePurchase, &ref)
			if err != nil {
				return err
			}
			transactionID = &entry.ID
		}

		order = &Order{}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO ticket_orders (id, event_id, category_id, user_id, price_cents, commission_cents, transaction_id)
			VALUES ($1, $2, NULL, $3, $4, $5, $6)
			RETURNING id, event_id, category_id, user_id, price_cents, commission_cents, transaction_id, created_at
		`, uuid.NewString(), eventID, userID, priceCents, r.commissionFor(priceCents), transactionID).StructScan(order)
		if err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) Restock(ctx context.Context, categoryID, delta int) (*Category, error) {
	// Zero is a valid no-op; only negative deltas are rejected
	if delta < 0 {
		return nil, ErrInvalidDelta
	}

	var cat Category
	err := r.db.QueryRowxContext(ctx, `
		UPDATE ticket_categories
		SET stock_total = stock_total + $2, stock_remaining = stock_remaining + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, event_id, name, price_cents, stock_total, stock_remaining, created_at, updated_at
	`, categoryID, delta).StructScan(&cat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return &cat, nil
}

func (r *repository) GetUserOrders(ctx context.Context, userID int) ([]Order, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, event_id, category_id, user_id, price_cents, commission_cents, transaction_id, created_at
		FROM ticket_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return orders, err
}
