package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"car_catalog/internal/model"
	"car_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

const msgOpinionNotFound = "Opinión no encontrada"

// OpinionHandler serves the opinion board and its moderation
type OpinionHandler struct {
	service service.OpinionService
	log     *slog.Logger
}

// NewOpinionHandler creates a new OpinionHandler
func NewOpinionHandler(s service.OpinionService, log *slog.Logger) *OpinionHandler {
	return &OpinionHandler{service: s, log: log}
}

func (h *OpinionHandler) List(c *gin.Context) {
	opinions, err := h.service.List(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener las opiniones", err)
		return
	}
	c.JSON(http.StatusOK, opinions)
}

func (h *OpinionHandler) Highlighted(c *gin.Context) {
	opinions, err := h.service.Highlighted(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener las opiniones destacadas", err)
		return
	}
	c.JSON(http.StatusOK, opinions)
}

// Create posts an opinion as the authenticated user; the author comes from the token.
func (h *OpinionHandler) Create(c *gin.Context) {
	image, err := optionalImage(c)
	if err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	opinion, err := h.service.Create(c.Request.Context(), identity(c).Username, c.PostForm("opinion"), image)
	if err != nil {
		if uploadError(c, err) {
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respond(c, http.StatusBadRequest, "La opinión no puede estar vacía")
			return
		}
		serverError(c, h.log, "Error al crear la opinión", err)
		return
	}
	c.JSON(http.StatusCreated, opinion)
}

func (h *OpinionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.OpinionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	opinion, err := h.service.Update(c.Request.Context(), id, req, identity(c).Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respond(c, http.StatusNotFound, msgOpinionNotFound)
		case errors.Is(err, service.ErrInvalidInput):
			respond(c, http.StatusBadRequest, "Estado de opinión no válido")
		default:
			serverError(c, h.log, "Error al editar la opinión", err)
		}
		return
	}
	c.JSON(http.StatusOK, opinion)
}

func (h *OpinionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgOpinionNotFound)
			return
		}
		serverError(c, h.log, "Error al eliminar la opinión", err)
		return
	}
	respond(c, http.StatusOK, "Opinión eliminada exitosamente")
}

// RegisterOpinionRoutes registers public, author and editor opinion routes
func (h *OpinionHandler) RegisterOpinionRoutes(r gin.IRouter, jwtAuthMW, editorRoleMW gin.HandlerFunc) {
	r.GET("/api/opinions", h.List)
	r.GET("/api/opinions/destacadas", h.Highlighted)
	r.POST("/api/opinions", jwtAuthMW, h.Create)

	editor := r.Group("/editor/opinions", jwtAuthMW, editorRoleMW)
	{
		editor.GET("", h.List)
		editor.PUT("/:id", h.Update)
		editor.DELETE("/:id", h.Delete)
	}
}
