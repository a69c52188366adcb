package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"car_catalog/internal/middleware"
	"car_catalog/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	msgServerError  = "Error en el servidor"
	msgUserNotFound = "Usuario no encontrado"
	msgInvalidID    = "Identificador no válido"
)

func respond(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// serverError logs err with the request context and answers 500 with message.
func serverError(c *gin.Context, log *slog.Logger, message string, err error) {
	log.ErrorContext(c.Request.Context(), message, "path", c.FullPath(), "error", err)
	respond(c, http.StatusInternalServerError, message)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

// queryInt reads a positive integer query parameter; anything else yields 0.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// optionalImage returns the uploaded "image" part, or nil when the form has none.
func optionalImage(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

// uploadError answers a rejected upload and reports whether err was one.
func uploadError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		respond(c, http.StatusBadRequest, "La imagen supera el tamaño máximo permitido")
	case errors.Is(err, storage.ErrInvalidImage):
		respond(c, http.StatusBadRequest, "Solo se permiten imágenes (jpeg, jpg, png, gif)")
	default:
		return false
	}
	return true
}

func identity(c *gin.Context) middleware.Identity {
	id, _ := middleware.CurrentUser(c)
	return id
}
