package ticket

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
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

type Handler struct {
	repo     Repository
	notifier *notify.Service
}

func NewHandler(database *sqlx.DB, commissionPercent int64, notifier *notify.Service) *Handler {
	return &Handler{
		repo:     NewRepository(database, commissionPercent),
		notifier: notifier,
	}
}

// @Summary      Buy a ticket
// @Description  Category purchase when category_id is set; flat-price legacy purchase otherwise.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Param        request body ticket.PurchaseRequest true "Purchase payload"
// @Success      201 {object} ticket.Order
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /events/{eventID}/tickets [post]
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

	var order *Order
	path := "category"
	if req.CategoryID != nil {
		order, err = h.repo.Purchase(c.Request.Context(), eventID, *req.CategoryID, userID)
	} else {
		path = "legacy"
		if req.PriceCents == nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "price_cents is required without a category_id"})
			return
		}
		order, err = h.repo.PurchaseLegacy(c.Request.Context(), eventID, userID, *req.PriceCents)
	}

	if err != nil {
		metrics.RecordTicketPurchase(outcomeLabel(err), path)
		respondTicketError(c, err)
		return
	}

	metrics.RecordTicketPurchase("success", path)
	if email, ok := c.Get("user_email"); ok {
		h.notifier.QueueTicketReceipt(c.Request.Context(), email.(string), order.ID, order.PriceCents)
	}

	c.JSON(http.StatusCreated, order)
}

// @Summary      List ticket categories for an event
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Success      200 {array} ticket.Category
// @Router       /events/{eventID}/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	categories, err := h.repo.ListCategories(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// @Summary      List my ticket orders
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} ticket.Order
// @Router       /tickets [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	orders, err := h.repo.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// @Summary      Create a ticket category
// @Tags         admin,tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Param        request body ticket.CreateCategoryRequest true "Category payload"
// @Success      201 {object} ticket.Category
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/events/{eventID}/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	cat, err := h.repo.CreateCategory(c.Request.Context(), eventID, req.Name, req.PriceCents, req.StockTotal)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cat)
}

// @Summary      Restock a ticket category
// @Tags         admin,tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        categoryID path int true "Category id"
// @Param        request body ticket.RestockRequest true "Restock payload"
// @Success      200 {object} ticket.Category
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/categories/{categoryID}/restock [post]
func (h *Handler) Restock(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("categoryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid category id"})
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	cat, err := h.repo.Restock(c.Request.Context(), categoryID, req.Delta)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, cat)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrSoldOut):
		return "sold_out"
	case errors.Is(err, wallet.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, db.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func respondTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrSoldOut):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidStock), errors.Is(err, ErrInvalidDelta), errors.Is(err, wallet.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "temporary contention, try again"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "ticket operation failed"})
	}
}
