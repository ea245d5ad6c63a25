package wallet

import "context"

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	Credit(ctx context.Context, userID int, amountCents int64, txType TransactionType, referenceID *string) (*Transaction, error)
	Debit(ctx context.Context, userID int, amountCents int64, txType TransactionType, referenceID *string) (*Transaction, error)
	Withdraw(ctx context.Context, userID int, amountCents int64) (*Transaction, error)
	ApproveWithdrawal(ctx context.Context, transactionID int) (*Transaction, error)
	RejectWithdrawal(ctx context.Context, transactionID int, reason string) (*Transaction, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
	OwnerEmail(ctx context.Context, userID int) (string, error)
}
