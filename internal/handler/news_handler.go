package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"car_catalog/internal/model"
	"car_catalog/internal/news"

	"github.com/gin-gonic/gin"
)

// NewsSource is the aggregated news feed.
type NewsSource interface {
	Latest(ctx context.Context, limit int) []model.NewsItem
	Search(ctx context.Context, keyword string, limit int) ([]model.NewsItem, error)
}

// NewsHandler serves automotive news
type NewsHandler struct {
	source NewsSource
	log    *slog.Logger
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(source NewsSource, log *slog.Logger) *NewsHandler {
	return &NewsHandler{source: source, log: log}
}

func (h *NewsHandler) Latest(c *gin.Context) {
	items := h.source.Latest(c.Request.Context(), queryInt(c, "limit"))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "news": items})
}

func (h *NewsHandler) Search(c *gin.Context) {
	keyword := c.Query("keyword")
	items, err := h.source.Search(c.Request.Context(), keyword, queryInt(c, "limit"))
	if err != nil {
		if errors.Is(err, news.ErrKeywordRequired) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Se requiere una palabra clave para la búsqueda",
			})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "news search failed", "keyword", keyword, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error al buscar noticias"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "keyword": keyword, "count": len(items), "news": items})
}

// RegisterNewsRoutes registers news routes
func (h *NewsHandler) RegisterNewsRoutes(r gin.IRouter) {
	r.GET("/api/news", h.Latest)
	r.GET("/api/news/search", h.Search)
}
