package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// HistoryStore reads persisted status checks.
type HistoryStore interface {
	Recent(ctx context.Context, server string, limit int) ([]models.StatusCheck, error)
	CountByStatus(ctx context.Context, server string, since time.Time) (map[models.Status]int64, error)
}

type HistoryHandler struct {
	store        HistoryStore
	defaultLimit int
	maxLimit     int
}

// NewHistoryHandler builds the history endpoint. A nil store answers 503.
func NewHistoryHandler(store HistoryStore, defaultLimit, maxLimit int) *HistoryHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &HistoryHandler{store: store, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

type HistoryResponse struct {
	Server string                  `json:"server,omitempty"`
	Checks []models.StatusCheck    `json:"checks"`
	Count  int                     `json:"count"`
	Totals map[models.Status]int64 `json:"totals_24h"`
}

// List godoc
// @Summary Status history
// @Description Most recent persisted evaluations, newest first
// @Tags History
// @Produce json
// @Param server query string false "Server column"
// @Param limit query int false "Maximum number of checks"
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 503 {object} map[string]string "History disabled"
// @Router /api/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status history is disabled"})
		return
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, h.maxLimit)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	server := c.Query("server")
	checks, err := h.store.Recent(ctx, server, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	totals, err := h.store.CountByStatus(ctx, server, time.Now().Add(-24*time.Hour))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Server: server,
		Checks: checks,
		Count:  len(checks),
		Totals: totals,
	})
}
