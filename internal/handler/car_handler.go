package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"car_catalog/internal/model"
	"car_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

const msgCarNotFound = "Carro no encontrado"

// CarHandler serves the car catalog and its statistics
type CarHandler struct {
	service service.CarService
	log     *slog.Logger
}

// NewCarHandler creates a new CarHandler
func NewCarHandler(s service.CarService, log *slog.Logger) *CarHandler {
	return &CarHandler{service: s, log: log}
}

func (h *CarHandler) List(c *gin.Context) {
	cars, err := h.service.List(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener los carros", err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

// Get returns one car and counts the visit.
func (h *CarHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	car, err := h.service.View(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgCarNotFound)
			return
		}
		serverError(c, h.log, "Error al obtener el carro", err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func bindCar(c *gin.Context) (model.CarInput, bool) {
	var in model.CarInput
	if err := c.ShouldBind(&in); err != nil {
		respond(c, http.StatusBadRequest, "Todos los campos del carro son obligatorios")
		return in, false
	}
	return in, true
}

func (h *CarHandler) Create(c *gin.Context) {
	in, ok := bindCar(c)
	if !ok {
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	car, err := h.service.Create(c.Request.Context(), in, image, identity(c).Username)
	if err != nil {
		if uploadError(c, err) {
			return
		}
		if errors.Is(err, service.ErrImageRequired) {
			respond(c, http.StatusBadRequest, "La imagen es obligatoria")
			return
		}
		serverError(c, h.log, "Error al crear el carro", err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *CarHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, ok := bindCar(c)
	if !ok {
		return
	}
	image, err := optionalImage(c)
	if err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	car, err := h.service.Update(c.Request.Context(), id, in, image, identity(c).Username)
	if err != nil {
		if uploadError(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgCarNotFound)
			return
		}
		serverError(c, h.log, "Error al actualizar el carro", err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgCarNotFound)
			return
		}
		serverError(c, h.log, "Error al eliminar el carro", err)
		return
	}
	respond(c, http.StatusOK, "Carro eliminado exitosamente")
}

func (h *CarHandler) MostVisited(c *gin.Context) {
	cars, err := h.service.MostVisited(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		serverError(c, h.log, "Error al obtener estadísticas", err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *CarHandler) GeneralStats(c *gin.Context) {
	stats, err := h.service.GeneralStats(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener estadísticas generales", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CarHandler) BrandStats(c *gin.Context) {
	stats, err := h.service.BrandStats(c.Request.Context())
	if err != nil {
		serverError(c, h.log, "Error al obtener estadísticas por marca", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CarHandler) ResetViews(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	car, err := h.service.ResetViews(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgCarNotFound)
			return
		}
		serverError(c, h.log, "Error al resetear contador de visitas", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contador de visitas reseteado", "car": car})
}

// RegisterCarRoutes registers catalog, editor and statistics routes
func (h *CarHandler) RegisterCarRoutes(r gin.IRouter, jwtAuthMW, editorRoleMW gin.HandlerFunc) {
	cars := r.Group("/api/cars")
	{
		cars.GET("", h.List)
		cars.GET("/:id", h.Get)
		cars.GET("/stats/most-visited", h.MostVisited)
		cars.GET("/stats/general", jwtAuthMW, editorRoleMW, h.GeneralStats)
		cars.GET("/stats/by-brand", jwtAuthMW, editorRoleMW, h.BrandStats)
		cars.PATCH("/:id/reset-views", jwtAuthMW, editorRoleMW, h.ResetViews)
	}

	editor := r.Group("/editor/cars", jwtAuthMW, editorRoleMW)
	{
		editor.GET("", h.List)
		editor.POST("", h.Create)
		editor.PUT("/:id", h.Update)
		editor.DELETE("/:id", h.Delete)
	}
}
