package event

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/api"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/auth"
)

type Handler struct {
	repo Repository
}

func NewHandler(database *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(database),
	}
}

// @Summary      Create an event
// @Description  Creates a draft event owned by the authenticated organizer.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body event.CreateEventRequest true "Event payload"
// @Success      201 {object} event.Event
// @Failure      400 {object} api.ErrorResponse
// @Router       /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "starts_at must be RFC3339"})
		return
	}

	ev, err := h.repo.CreateEvent(c.Request.Context(), userID, req.Name, req.Description, req.Venue, req.City, startsAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, ev)
}

// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Success      200 {object} event.Event
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	ev, err := h.repo.GetEventByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

// @Summary      List published events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        city query string false "Filter by city"
// @Success      200 {array} event.Event
// @Router       /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.repo.ListPublished(c.Request.Context(), c.Query("city"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// @Summary      Publish an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/publish [post]
func (h *Handler) PublishEvent(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	if err := h.repo.Publish(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "draft event not found for this organizer"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to publish event"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "event published"})
}
