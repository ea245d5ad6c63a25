package engagement

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
)

type Handler struct {
	repo Repository
}

func NewHandler(database *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(database),
	}
}

type MarkResponse struct {
	Flag    string `json:"flag" example:"interested"`
	Marked  bool   `json:"marked"`
	Changed bool   `json:"changed"`
}

func (h *Handler) params(c *gin.Context) (eventID, userID int, flag Flag, ok bool) {
	userID, authed := auth.GetUserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return 0, 0, "", false
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return 0, 0, "", false
	}

	flag, valid := ParseFlag(c.Param("flag"))
	if !valid {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "flag must be one of interested, going, on_the_way"})
		return 0, 0, "", false
	}

	return eventID, userID, flag, true
}

// @Summary      Mark an engagement flag
// @Description  Idempotent: marking an already-set flag changes nothing.
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Param        flag path string true "interested | going | on_the_way"
// @Success      200 {object} engagement.MarkResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/engagement/{flag} [post]
func (h *Handler) Mark(c *gin.Context) {
	eventID, userID, flag, ok := h.params(c)
	if !ok {
		return
	}

	changed, err := h.repo.Mark(c.Request.Context(), eventID, userID, flag)
	if err != nil {
		respondEngagementError(c, err)
		return
	}

	if changed {
		metrics.RecordEngagement(string(flag), "mark")
	}
	c.JSON(http.StatusOK, MarkResponse{Flag: string(flag), Marked: true, Changed: changed})
}

// @Summary      Unmark an engagement flag
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Param        flag path string true "interested | going | on_the_way"
// @Success      200 {object} engagement.MarkResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/engagement/{flag} [delete]
func (h *Handler) Unmark(c *gin.Context) {
	eventID, userID, flag, ok := h.params(c)
	if !ok {
		return
	}

	changed, err := h.repo.Unmark(c.Request.Context(), eventID, userID, flag)
	if err != nil {
		respondEngagementError(c, err)
		return
	}

	if changed {
		metrics.RecordEngagement(string(flag), "unmark")
	}
	c.JSON(http.StatusOK, MarkResponse{Flag: string(flag), Marked: false, Changed: changed})
}

// @Summary      Check an engagement flag
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Param        flag path string true "interested | going | on_the_way"
// @Success      200 {object} engagement.MarkResponse
// @Router       /events/{eventID}/engagement/{flag} [get]
func (h *Handler) IsMarked(c *gin.Context) {
	eventID, userID, flag, ok := h.params(c)
	if !ok {
		return
	}

	marked, err := h.repo.IsMarked(c.Request.Context(), eventID, userID, flag)
	if err != nil {
		respondEngagementError(c, err)
		return
	}

	c.JSON(http.StatusOK, MarkResponse{Flag: string(flag), Marked: marked})
}

// @Summary      Record an event view
// @Description  Counts one view per user per event; repeat views are no-ops.
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Success      200 {object} engagement.MarkResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/view [post]
func (h *Handler) RecordView(c *gin.Context) {
	userID, authed := auth.GetUserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	changed, err := h.repo.RecordView(c.Request.Context(), eventID, userID)
	if err != nil {
		respondEngagementError(c, err)
		return
	}

	if changed {
		metrics.RecordEngagement(string(FlagViewed), "mark")
	}
	c.JSON(http.StatusOK, MarkResponse{Flag: string(FlagViewed), Marked: true, Changed: changed})
}

// @Summary      Get event engagement counters
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Success      200 {object} engagement.Counters
// @Failure      404 {object} api.ErrorResponse
// @Router       /events/{eventID}/counters [get]
func (h *Handler) GetCounters(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	counters, err := h.repo.GetCounters(c.Request.Context(), eventID)
	if err != nil {
		respondEngagementError(c, err)
		return
	}

	c.JSON(http.StatusOK, counters)
}

// @Summary      Get my engagement record for an event
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        eventID path int true "Event id"
// @Success      200 {object} engagement.Record
// @Router       /events/{eventID}/engagement [get]
func (h *Handler) GetRecord(c *gin.Context) {
	userID, authed := auth.GetUserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event id"})
		return
	}

	record, err := h.repo.GetRecord(c.Request.Context(), eventID, userID)
	if err != nil {
		respondEngagementError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func respondEngagementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "event not found"})
	case errors.Is(err, ErrInvalidFlag):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid engagement flag"})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "temporary contention, try again"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "engagement operation failed"})
	}
}
