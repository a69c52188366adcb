package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"car_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// EditorHandler serves the editor's user moderation tools and dashboard
type EditorHandler struct {
	service service.ModerationService
	log     *slog.Logger
}

// NewEditorHandler creates a new EditorHandler
func NewEditorHandler(s service.ModerationService, log *slog.Logger) *EditorHandler {
	return &EditorHandler{service: s, log: log}
}

func (h *EditorHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListRegularUsers(c.Request.Context())
	if err != nil {
		serverError(c, h.log, msgServerError, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *EditorHandler) Suspend(c *gin.Context) {
	var req struct {
		Days   int    `json:"days"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Days < 1 {
		respond(c, http.StatusBadRequest, "Debe especificar un número válido de días")
		return
	}

	if err := h.service.Suspend(c.Request.Context(), c.Param("username"), req.Days, req.Reason); err != nil {
		h.moderationError(c, err, "No se puede suspender a administradores o editores")
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Usuario suspendido por %d días", req.Days))
}

func (h *EditorHandler) Warn(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		respond(c, http.StatusBadRequest, "Debe incluir un mensaje de advertencia")
		return
	}

	if err := h.service.Warn(c.Request.Context(), c.Param("username"), req.Message); err != nil {
		h.moderationError(c, err, "No se puede advertir a administradores o editores")
		return
	}
	respond(c, http.StatusOK, "Advertencia enviada exitosamente")
}

func (h *EditorHandler) moderationError(c *gin.Context, err error, forbidden string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respond(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respond(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrForbidden):
		respond(c, http.StatusForbidden, forbidden)
	default:
		serverError(c, h.log, msgServerError, err)
	}
}

func (h *EditorHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		serverError(c, h.log, msgServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterEditorRoutes registers user moderation routes
func (h *EditorHandler) RegisterEditorRoutes(r gin.IRouter, jwtAuthMW, editorRoleMW gin.HandlerFunc) {
	editor := r.Group("/editor", jwtAuthMW, editorRoleMW)
	{
		editor.GET("/users", h.ListUsers)
		editor.POST("/users/:username/suspend", h.Suspend)
		editor.POST("/users/:username/warn", h.Warn)
		editor.GET("/stats", h.Stats)
	}
}
