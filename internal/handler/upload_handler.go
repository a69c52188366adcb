package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"car_catalog/internal/storage"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves stored images from the configured store
type UploadHandler struct {
	store storage.ImageStore
	log   *slog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(store storage.ImageStore, log *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

func (h *UploadHandler) Get(c *gin.Context) {
	name := c.Param("name")
	rc, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond(c, http.StatusNotFound, "Archivo no encontrado")
			return
		}
		serverError(c, h.log, "Error al obtener el archivo", err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", storage.ContentType(name))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.WarnContext(c.Request.Context(), "failed to stream upload", "name", name, "error", err)
	}
}

// RegisterUploadRoutes registers the public image route
func (h *UploadHandler) RegisterUploadRoutes(r gin.IRouter) {
	r.GET(storage.PublicPrefix+":name", h.Get)
}
