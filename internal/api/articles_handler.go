package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/medium-crawler/internal/database"
)

const (
	defaultArticleLimit  = 10
	defaultArticleOffset = 0
)

// ArticlesHandler handles article listing requests.
type ArticlesHandler struct {
	articles database.ArticleRepositoryInterface
}

// NewArticlesHandler creates an articles handler.
func NewArticlesHandler(articles database.ArticleRepositoryInterface) *ArticlesHandler {
	return &ArticlesHandler{articles: articles}
}

// List handles GET /api/v1/articles with optional tag, search, limit,
// and offset query parameters.
func (h *ArticlesHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultArticleLimit)))
	if err != nil || limit <= 0 {
		limit = defaultArticleLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(defaultArticleOffset)))
	if err != nil || offset < 0 {
		offset = defaultArticleOffset
	}

	params := database.ListArticlesParams{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	}

	articles, err := h.articles.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve articles"})
		return
	}

	payload := make([]ArticleResponse, 0, len(articles))
	for _, article := range articles {
		payload = append(payload, toArticleResponse(article))
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": payload,
		"count":    len(payload),
	})
}
