package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/medium-crawler/internal/database"
)

const defaultHistoryLimit = 20

// HistoryHandler handles search history requests.
type HistoryHandler struct {
	history database.SearchHistoryRepositoryInterface
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(history database.SearchHistoryRepositoryInterface) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// Recent handles GET /api/v1/history with an optional limit parameter.
func (h *HistoryHandler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve search history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"count":   len(entries),
	})
}
