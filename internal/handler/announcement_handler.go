package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"car_catalog/internal/model"
	"car_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

const msgAnnouncementNotFound = "Anuncio no encontrado"

// AnnouncementHandler serves announcements
type AnnouncementHandler struct {
	service service.AnnouncementService
	log     *slog.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler
func NewAnnouncementHandler(s service.AnnouncementService, log *slog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{service: s, log: log}
}

type announcementForm struct {
	Title     string `form:"titulo" binding:"required"`
	Content   string `form:"contenido" binding:"required"`
	StartDate string `form:"fechaInicio" binding:"required"`
	EndDate   string `form:"fechaFin" binding:"required"`
	Active    string `form:"activo"`
}

// parseDate accepts full timestamps and plain calendar dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// bindAnnouncement reads the multipart form, answering 400 itself when it is unusable.
func bindAnnouncement(c *gin.Context) (model.AnnouncementInput, bool) {
	var form announcementForm
	if err := c.ShouldBind(&form); err != nil {
		respond(c, http.StatusBadRequest, "Título, contenido y fechas son obligatorios")
		return model.AnnouncementInput{}, false
	}
	start, errStart := parseDate(form.StartDate)
	end, errEnd := parseDate(form.EndDate)
	if errStart != nil || errEnd != nil {
		respond(c, http.StatusBadRequest, "Fechas no válidas")
		return model.AnnouncementInput{}, false
	}
	return model.AnnouncementInput{
		Title:     form.Title,
		Content:   form.Content,
		StartDate: start,
		EndDate:   end,
		Active:    form.Active,
	}, true
}

func (h *AnnouncementHandler) Active(c *gin.Context) {
	list, err := h.service.Active(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener los anuncios", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener los anuncios", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	in, ok := bindAnnouncement(c)
	if !ok {
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	a, err := h.service.Create(c.Request.Context(), in, image, identity(c).Username)
	if err != nil {
		if uploadError(c, err) {
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respond(c, http.StatusBadRequest, err.Error())
			return
		}
		serverError(c, h.log, "Error al crear el anuncio", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, ok := bindAnnouncement(c)
	if !ok {
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, in, image, identity(c).Username)
	if err != nil {
		if uploadError(c, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrNotFound):
			respond(c, http.StatusNotFound, msgAnnouncementNotFound)
		case errors.Is(err, service.ErrInvalidInput):
			respond(c, http.StatusBadRequest, err.Error())
		default:
			serverError(c, h.log, "Error al actualizar el anuncio", err)
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgAnnouncementNotFound)
			return
		}
		serverError(c, h.log, "Error al eliminar el anuncio", err)
		return
	}
	respond(c, http.StatusOK, "Anuncio eliminado exitosamente")
}

// RegisterAnnouncementRoutes registers public and editor announcement routes
func (h *AnnouncementHandler) RegisterAnnouncementRoutes(r gin.IRouter, jwtAuthMW, editorRoleMW gin.HandlerFunc) {
	r.GET("/api/anuncios", h.Active)

	editor := r.Group("/editor/anuncios", jwtAuthMW, editorRoleMW)
	{
		editor.GET("", h.List)
		editor.POST("", h.Create)
		editor.PUT("/:id", h.Update)
		editor.DELETE("/:id", h.Delete)
	}
}
