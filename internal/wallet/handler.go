package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/auth"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/metrics"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/notify"
)

type Handler struct {
	repo     Repository
	notifier *notify.Service
}

func NewHandler(database *sqlx.DB, notifier *notify.Service) *Handler {
	return &Handler{
		repo:     NewRepository(database),
		notifier: notifier,
	}
}

type TopUpRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

type WithdrawRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

type RejectWithdrawalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary      Get wallet balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Wallet
// @Router       /wallet [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	w, err := h.repo.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Top up wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body TopUpRequest true "Amount in centavos"
// @Success      200 {object} Transaction
// @Router       /wallet/topup [post]
func (h *Handler) TopUp(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must be positive"})
		return
	}

	entry, err := h.repo.Credit(c.Request.Context(), userID, req.AmountCents, TypeDeposit, nil)
	if err != nil {
		respondWalletError(c, err)
		return
	}

	metrics.RecordWalletTransaction(string(TypeDeposit))
	c.JSON(http.StatusOK, entry)
}

// @Summary      Request a withdrawal
// @Description  Debits the balance and creates a pending entry awaiting admin review.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body WithdrawRequest true "Amount in centavos"
// @Success      202 {object} Transaction
// @Router       /wallet/withdrawals [post]
func (h *Handler) Withdraw(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must be positive"})
		return
	}

	entry, err := h.repo.Withdraw(c.Request.Context(), userID, req.AmountCents)
	if err != nil {
		respondWalletError(c, err)
		return
	}

	metrics.RecordWalletTransaction(string(TypeWithdrawal))
	c.JSON(http.StatusAccepted, entry)
}

// @Summary      List wallet transactions
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200 {array} Transaction
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}

// @Summary      Approve a pending withdrawal
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        transactionID path int true "Withdrawal transaction id"
// @Success      200 {object} Transaction
// @Router       /admin/withdrawals/{transactionID}/approve [post]
func (h *Handler) ApproveWithdrawal(c *gin.Context) {
	transactionID, err := strconv.Atoi(c.Param("transactionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	entry, err := h.repo.ApproveWithdrawal(c.Request.Context(), transactionID)
	if err != nil {
		respondWalletError(c, err)
		return
	}

	h.notifyDecision(c, entry.UserID, -entry.AmountCents, true)
	c.JSON(http.StatusOK, entry)
}

// @Summary      Reject a pending withdrawal
// @Description  Marks the withdrawal as failed and refunds the amount.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transactionID path int true "Withdrawal transaction id"
// @Param        body body RejectWithdrawalRequest true "Rejection reason"
// @Success      200 {object} Transaction
// @Router       /admin/withdrawals/{transactionID}/reject [post]
func (h *Handler) RejectWithdrawal(c *gin.Context) {
	transactionID, err := strconv.Atoi(c.Param("transactionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req RejectWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
		return
	}

	refund, err := h.repo.RejectWithdrawal(c.Request.Context(), transactionID, req.Reason)
	if err != nil {
		respondWalletError(c, err)
		return
	}

	metrics.RecordWalletTransaction(string(TypeRefund))
	h.notifyDecision(c, refund.UserID, refund.AmountCents, false)
	c.JSON(http.StatusOK, refund)
}

func (h *Handler) notifyDecision(c *gin.Context, userID int, amountCents int64, approved bool) {
	if h.notifier == nil {
		return
	}
	email, err := h.repo.OwnerEmail(c.Request.Context(), userID)
	if err != nil {
		return
	}
	h.notifier.QueueWithdrawalDecision(c.Request.Context(), email, amountCents, approved)
}

func respondWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrWithdrawalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary contention, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet operation failed"})
	}
}
