package premium

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

var subColumns = []string{
	"id", "user_id", "plan", "status", "discount_percent",
	"price_cents", "valid_from", "valid_until", "created_at", "updated_at",
}

func setupPremiumMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func subscriptionRow(id, userID int, plan Plan, discount, price int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(subColumns).
		AddRow(id, userID, string(plan), "active", discount, price, now, now.AddDate(1, 0, 0), now, now)
}

func TestSubscribe_MonthlyChargesWallet(t *testing.T) {
	repo, mock, close := setupPremiumMock(t)
	defer close()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM premium_subscriptions WHERE user_id = $1 AND status = 'active' AND valid_until >= NOW() )")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO premium_subscriptions (user_id, plan, status, discount_percent, price_cents, valid_from, valid_until) VALUES ($1, $2, 'active', $3, $4, $5, $6) RETURNING id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at")).
		WithArgs(7, "monthly", int64(10), int64(1990), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(subscriptionRow(3, 7, PlanMonthly, 10, 1990))

	// wallet debit joins the same transaction
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance_cents, currency, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance_cents", "currency", "created_at", "updated_at"}).
			AddRow(2, 7, 5000, "BRL", time.Now(), time.Now()))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets SET balance_cents = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(3010, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wallet_transactions (wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, wallet_id, user_id, type, amount_cents, balance_before, balance_after, reference_id, status, failure_reason, created_at")).
		WithArgs(2, 7, "subscription", int64(-1990), int64(5000), int64(3010), "subscription:3", "completed").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "wallet_id", "user_id", "type", "amount_cents",
			"balance_before", "balance_after", "reference_id", "status",
			"failure_reason", "created_at",
		}).AddRow(12, 2, 7, "subscription", -1990, 5000, 3010, "subscription:3", "completed", nil, time.Now()))

	mock.ExpectCommit()

	sub, err := repo.Subscribe(context.Background(), 7, PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, PlanMonthly, sub.Plan)
	assert.Equal(t, int64(10), sub.DiscountPercent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribe_AlreadyActive(t *testing.T) {
	repo, mock, close := setupPremiumMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM premium_subscriptions WHERE user_id = $1 AND status = 'active' AND valid_until >= NOW() )")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Subscribe(context.Background(), 7, PlanAnnual)
	assert.ErrorIs(t, err, ErrAlreadyActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribe_InsufficientFundsRollsBack(t *testing.T) {
	repo, mock, close := setupPremiumMock(t)
	defer close()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM premium_subscriptions WHERE user_id = $1 AND status = 'active' AND valid_until >= NOW() )")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO premium_subscriptions (user_id, plan, status, discount_percent, price_cents, valid_from, valid_until) VALUES ($1, $2, 'active', $3, $4, $5, $6) RETURNING id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at")).
		WithArgs(7, "annual", int64(20), int64(19900), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(subscriptionRow(4, 7, PlanAnnual, 20, 19900))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance_cents, currency, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance_cents", "currency", "created_at", "updated_at"}).
			AddRow(2, 7, 500, "BRL", time.Now(), time.Now()))

	mock.ExpectRollback()

	_, err := repo.Subscribe(context.Background(), 7, PlanAnnual)
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	repo, _, close := setupPremiumMock(t)
	defer close()

	_, err := repo.Subscribe(context.Background(), 7, Plan("weekly"))
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestActiveDiscount_NoSubscriptionIsZero(t *testing.T) {
	repo, mock, close := setupPremiumMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at FROM premium_subscriptions WHERE user_id = $1 AND status = 'active' AND valid_from <= NOW() AND valid_until >= NOW() ORDER BY valid_until DESC LIMIT 1")).
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	discount, err := repo.ActiveDiscount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), discount)
}

func TestActiveDiscount_AnnualIsTwenty(t *testing.T) {
	repo, mock, close := setupPremiumMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at FROM premium_subscriptions WHERE user_id = $1 AND status = 'active' AND valid_from <= NOW() AND valid_until >= NOW() ORDER BY valid_until DESC LIMIT 1")).
		WithArgs(7).
		WillReturnRows(subscriptionRow(4, 7, PlanAnnual, 20, 19900))

	discount, err := repo.ActiveDiscount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(20), discount)
}

func TestGetActiveForUser_NotFound(t *testing.T) {
	repo, mock, close := setupPremiumMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, plan, status, discount_percent, price_cents, valid_from, valid_until, created_at, updated_at FROM premium_subscriptions WHERE user_id = $1 AND status = 'active' AND valid_from <= NOW() AND valid_until >= NOW() ORDER BY valid_until DESC LIMIT 1")).
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetActiveForUser(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoActivePremiums)
}
