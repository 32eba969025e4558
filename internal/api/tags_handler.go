package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// minQueryLen is the minimum suggestion query length. Shorter fragments
// yield an empty list; the policy lives here, not in the suggester.
const minQueryLen = 2

// TagSuggester produces autocomplete suggestions for a query fragment.
type TagSuggester interface {
	Suggest(ctx context.Context, fragment string) []string
}

// TagsHandler handles tag suggestion requests.
type TagsHandler struct {
	suggester TagSuggester
}

// NewTagsHandler creates a tags handler.
func NewTagsHandler(suggester TagSuggester) *TagsHandler {
	return &TagsHandler{suggester: suggester}
}

// Suggest handles GET /api/v1/tags/suggest?q=fragment.
func (h *TagsHandler) Suggest(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len([]rune(query)) < minQueryLen {
		c.JSON(http.StatusOK, gin.H{"suggestions": []string{}})
		return
	}

	suggestions := h.suggester.Suggest(c.Request.Context(), query)

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
