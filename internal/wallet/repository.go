package wallet

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAlreadyPending     = errors.New("a withdrawal request is already pending")
	ErrWithdrawalNotFound = errors.New("pending withdrawal not found")
)

type repository struct {
	db *sqlx.DB
}

func withdrawalReference(transactionID int) string {
	return "withdrawal:" + strconv.Itoa(transactionID)
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, user_id, balance_cents, currency, created_at, updated_at`,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// lockWallet takes the row lock that serializes every mutation of one
// account. The wallet row is created lazily on first use.
func lockWallet(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance_cents, currency, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Upsert so two first-ever mutations for the same user cannot race on
	// wallet creation; the DO UPDATE path also takes the row lock.
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, user_id, balance_cents, currency, created_at, updated_at`,
		userID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// applyEntry mutates the locked wallet balance and appends the matching
// ledger line in the caller's transaction. The two writes commit or roll
// back together; no state where one exists without the other is observable.
func applyEntry(ctx context.Context, tx *sqlx.Tx, w *Wallet, amountCents int64, txType TransactionType, referenceID *string, status TransactionStatus) (*Transaction, error) {
	newBalance := w.BalanceCents + amountCents
	if newBalance < 0 {
		return nil, ErrInsufficientFunds
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, err
	}

	entry := &Transaction{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status, failure_reason, created_at`,
		w.ID, w.UserID, txType, amountCents, w.BalanceCents, newBalance, referenceID, status,
	).StructScan(entry)
	if err != nil {
		return nil, err
	}

	w.BalanceCents = newBalance
	return entry, nil
}

// CreditTx appends a completed credit inside an already-open transaction.
// Used by refunds and by callers that settle funds out of band.
func CreditTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType TransactionType, referenceID *string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	w, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	return applyEntry(ctx, tx, w, amountCents, txType, referenceID, StatusCompleted)
}

// DebitTx appends a completed debit inside an already-open transaction,
// failing with ErrInsufficientFunds before any write when the balance does
// not cover the amount. Ticket and boost purchases call this so the debit
// shares their atomic unit.
func DebitTx(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType TransactionType, referenceID *string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	w, err := lockWallet(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	return applyEntry(ctx, tx, w, -amountCents, txType, referenceID, StatusCompleted)
}

func (r *repository) Credit(ctx context.Context, userID int, amountCents int64, txType TransactionType, referenceID *string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *Transaction
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		entry, err = CreditTx(ctx, tx, userID, amountCents, txType, referenceID)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Debit(ctx context.Context, userID int, amountCents int64, txType TransactionType, referenceID *string) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *Transaction
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		entry, err = DebitTx(ctx, tx, userID, amountCents, txType, referenceID)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) Withdraw(ctx context.Context, userID int, amountCents int64) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *Transaction
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		w, err := lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}

		var pending bool
		err = tx.GetContext(ctx, &pending,
			`SELECT EXISTS (
			   SELECT 1 FROM wallet_transactions
			   WHERE wallet_id = $1 AND type = 'withdrawal' AND status = 'pending'
			 )`,
			w.ID,
		)
		if err != nil {
			return err
		}
		if pending {
			return ErrAlreadyPending
		}

		// Funds leave the balance now; approval only finalizes the entry,
		// rejection refunds it.
		entry, err = applyEntry(ctx, tx, w, -amountCents, TypeWithdrawal, nil, StatusPending)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) ApproveWithdrawal(ctx context.Context, transactionID int) (*Transaction, error) {
	var entry *Transaction
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		entry = &Transaction{}
		err = tx.QueryRowxContext(ctx,
			`UPDATE wallet_transactions
			 SET status = 'completed'
			 WHERE id = $1 AND type = 'withdrawal' AND status = 'pending'
			 RETURNING id, wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status, failure_reason, created_at`,
			transactionID,
		).StructScan(entry)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWithdrawalNotFound
			}
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) RejectWithdrawal(ctx context.Context, transactionID int, reason string) (*Transaction, error) {
	var refund *Transaction
	err := db.WithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		rejected := &Transaction{}
		err = tx.QueryRowxContext(ctx,
			`UPDATE wallet_transactions
			 SET status = 'failed', failure_reason = $2
			 WHERE id = $1 AND type = 'withdrawal' AND status = 'pending'
			 RETURNING id, wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status, failure_reason, created_at`,
			transactionID, reason,
		).StructScan(rejected)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWithdrawalNotFound
			}
			return err
		}

		// Withdrawal amounts are negative; the refund puts the same amount back.
		ref := withdrawalReference(rejected.ID)
		refund, err = CreditTx(ctx, tx, rejected.UserID, -rejected.AmountCents, TypeRefund, &ref)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

func (r *repository) OwnerEmail(ctx context.Context, userID int) (string, error) {
	var email string
	err := r.db.GetContext(ctx, &email, `SELECT email FROM users WHERE id = $1`, userID)
	return email, err
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status, failure_reason, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
