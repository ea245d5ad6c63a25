package premium

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/api"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/auth"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/db"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/metrics"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

type Handler struct {
	repo Repository
}

func NewHandler(database *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(database),
	}
}

// @Summary      Get my premium subscription
// @Tags         premium
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} premium.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /premium [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	sub, err := h.repo.GetActiveForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActivePremiums) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no active subscription"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Subscribe to premium
// @Description  Charges the plan price from the wallet.
// @Tags         premium
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body premium.SubscribeRequest true "Plan"
// @Success      201 {object} premium.Subscription
// @Failure      402 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /premium/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "plan must be monthly or annual"})
		return
	}

	sub, err := h.repo.Subscribe(c.Request.Context(), userID, Plan(req.Plan))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownPlan):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrAlreadyActive):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, wallet.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, db.ErrConflict):
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "temporary contention, try again"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to subscribe"})
		}
		return
	}

	metrics.RecordSubscription(string(sub.Plan))
	metrics.RecordWalletTransaction(string(wallet.TypeSubscription))
	c.JSON(http.StatusCreated, sub)
}
