package ticket

import "context"

type Repository interface {
	CreateCategory(ctx context.Context, eventID int, name string, priceCents int64, stockTotal int) (*Category, error)
	ListCategories(ctx context.Context, eventID int) ([]Category, error)
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	// Purchase sells one unit of a category: stock check, wallet debit and
	// stock decrement commit as one atomic unit.
	Purchase(ctx context.Context, eventID, categoryID, userID int) (*Order, error)
	// PurchaseLegacy sells a flat-price ticket with no category row.
	PurchaseLegacy(ctx context.Context, eventID, userID int, priceCents int64) (*Order, error)
	Restock(ctx context.Context, categoryID, delta int) (*Category, error)
	GetUserOrders(ctx context.Context, userID int) ([]Order, error)
}
