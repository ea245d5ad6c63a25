package wallet

import "time"

type TransactionType string
type TransactionStatus string

const (
	TypeDeposit      TransactionType = "deposit"
	TypePurchase     TransactionType = "purchase"
	TypeBoost        TransactionType = "boost"
	TypeWithdrawal   TransactionType = "withdrawal"
	TypeRefund       TransactionType = "refund"
	TypeSubscription TransactionType = "subscription"

	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

type Wallet struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	Currency     string    `db:"currency" json:"currency"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one immutable line of the ledger. Debits carry a negative
// amount. Replaying a wallet's transactions in id order reproduces its
// balance: balance_after = balance_before + amount_cents on every line, and
// each line's balance_before equals the previous line's balance_after.
type Transaction struct {
	ID            int               `db:"id" json:"id"`
	WalletID      int               `db:"wallet_id" json:"wallet_id"`
	UserID        int               `db:"user_id" json:"user_id"`
	Type          TransactionType   `db:"type" json:"type"`
	AmountCents   int64             `db:"amount_cents" json:"amount_cents"`
	BalanceBefore int64             `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64             `db:"balance_after" json:"balance_after"`
	ReferenceID   *string           `db:"reference_id" json:"reference_id,omitempty"`
	Status        TransactionStatus `db:"status" json:"status"`
	FailureReason *string           `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
}
