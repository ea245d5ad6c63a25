package boost

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/api"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/auth"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/metrics"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/notify"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/premium"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

type Handler struct {
	service  Service
	notifier *notify.Service
}

func NewHandler(database *sqlx.DB, pricing *PricingEngine, notifier *notify.Service) *Handler {
	return &Handler{
		service:  NewService(NewRepository(database), premium.NewRepository(database), pricing),
		notifier: notifier,
	}
}

// @Summary      Quote a boost
// @Description  Prices a boost with the caller's premium discount applied.
// @Tags         boosts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body boost.QuoteRequest true "Quote payload"
// @Success      200 {object} boost.Quote
// @Router       /boosts/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	boostType, _ := ParseBoostType(req.BoostType)
	quote, err := h.service.QuoteFor(c.Request.Context(), userID, boostType, req.Quantity)
	if err != nil {
		respondBoostError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// @Summary      Buy boosts for an event
// @Tags         boosts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Param        request body boost.PurchaseRequest true "Purchase payload"
// @Success      201 {object} boost.Purchase
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/boosts [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	boostType, _ := ParseBoostType(req.BoostType)
	method, _ := ParsePaymentMethod(req.PaymentMethod)

	p, err := h.service.Purchase(c.Request.Context(), eventID, userID, boostType, req.Quantity, method)
	if err != nil {
		respondBoostError(c, err)
		return
	}

	metrics.RecordBoostPurchase(string(p.BoostType), string(p.PaymentMethod), p.TotalPaidCents)
	if p.PaymentMethod == MethodWallet {
		metrics.RecordWalletTransaction(string(wallet.TypeBoost))
	}
	if email, ok := c.Get("user_email"); ok && h.notifier != nil {
		h.notifier.QueueBoostReceipt(c.Request.Context(), email.(string), string(p.BoostType), p.TotalPaidCents)
	}
	c.JSON(http.StatusCreated, p)
}

func respondBoostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownBoostType), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidDiscount):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "temporary contention, try again"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "boost operation failed"})
	}
}
