package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"car_catalog/internal/model"
	"car_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account settings and user administration
type UserHandler struct {
	service service.UserService
	log     *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{service: s, log: log}
}

func (h *UserHandler) UserInfo(c *gin.Context) {
	user, err := h.service.UserInfo(c.Request.Context(), c.Query("usuario"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		serverError(c, h.log, msgServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuario": user.Username, "rol": user.Role, "email": user.Email})
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	enabled, err := h.service.CaptchaSetting(c.Request.Context(), identity(c).UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		serverError(c, h.log, "Error al obtener la configuración", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captchaEnabled": enabled})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var req struct {
		CaptchaEnabled *bool `json:"captchaEnabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CaptchaEnabled == nil {
		respond(c, http.StatusBadRequest, "Configuración de CAPTCHA no proporcionada")
		return
	}

	if err := h.service.SetCaptchaSetting(c.Request.Context(), identity(c).UserID, *req.CaptchaEnabled); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		serverError(c, h.log, "Error al actualizar la configuración", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captchaEnabled": *req.CaptchaEnabled})
}

func (h *UserHandler) CheckCaptcha(c *gin.Context) {
	enabled, err := h.service.CaptchaStatusByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		serverError(c, h.log, "Error al verificar el estado del CAPTCHA", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captchaEnabled": enabled})
}

func (h *UserHandler) RevokePrivacyPolicy(c *gin.Context) {
	id := identity(c)
	if err := h.service.RevokePrivacyPolicy(c.Request.Context(), id.UserID, id.Username); err != nil {
		serverError(c, h.log, "Error al procesar la solicitud", err)
		return
	}
	respond(c, http.StatusOK, "Cuenta y datos eliminados exitosamente")
}

// CheckAdmin reports whether the caller's stored role is admin. Any authenticated user may ask.
func (h *UserHandler) CheckAdmin(c *gin.Context) {
	isAdmin, err := h.service.IsAdmin(c.Request.Context(), identity(c).Username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"isAdmin": false, "message": msgUserNotFound})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "admin check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"isAdmin": false, "message": msgServerError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": isAdmin})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		serverError(c, h.log, msgServerError, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	var req struct {
		Username string     `json:"usuario" binding:"required"`
		NewRole  model.Role `json:"newRole" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	if err := h.service.UpdateRole(c.Request.Context(), req.Username, req.NewRole); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			respond(c, http.StatusBadRequest, "Rol no válido")
		case errors.Is(err, service.ErrNotFound):
			respond(c, http.StatusNotFound, msgUserNotFound)
		default:
			serverError(c, h.log, msgServerError, err)
		}
		return
	}
	respond(c, http.StatusOK, "Rol actualizado exitosamente")
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	err := h.service.DeleteUser(c.Request.Context(), identity(c).Username, c.Param("usuario"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeleteSelf):
			respond(c, http.StatusForbidden, "No puedes eliminarte a ti mismo")
		case errors.Is(err, service.ErrCannotDeleteAdmin):
			respond(c, http.StatusForbidden, "No se puede eliminar a un administrador")
		case errors.Is(err, service.ErrNotFound):
			respond(c, http.StatusNotFound, msgUserNotFound)
		default:
			serverError(c, h.log, msgServerError, err)
		}
		return
	}
	respond(c, http.StatusOK, "Usuario eliminado exitosamente")
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond(c, http.StatusNotFound, msgUserNotFound)
		return
	}
	var req struct {
		Username *string     `json:"usuario"`
		Email    *string     `json:"email"`
		Password *string     `json:"contraseña"`
		Role     *model.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	err = h.service.UpdateUser(c.Request.Context(), id, model.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respond(c, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, service.ErrInvalidRole):
			respond(c, http.StatusBadRequest, "Rol no válido")
		case errors.Is(err, service.ErrInvalidInput):
			respond(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflict):
			respond(c, http.StatusConflict, "El usuario o correo electrónico ya está registrado")
		default:
			serverError(c, h.log, msgServerError, err)
		}
		return
	}
	respond(c, http.StatusOK, "Usuario actualizado exitosamente")
}

// RegisterUserRoutes registers account and admin routes
func (h *UserHandler) RegisterUserRoutes(r gin.IRouter, jwtAuthMW, adminRoleMW gin.HandlerFunc) {
	r.GET("/api/check-captcha/:email", h.CheckCaptcha)

	authed := r.Group("", jwtAuthMW)
	{
		authed.GET("/user-info", h.UserInfo)
		authed.GET("/api/user/settings", h.GetSettings)
		authed.PUT("/api/user/settings", h.UpdateSettings)
		authed.POST("/api/user/revoke-privacy-policy", h.RevokePrivacyPolicy)
		authed.GET("/admin/check", h.CheckAdmin)
	}

	admin := r.Group("/admin", jwtAuthMW, adminRoleMW)
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/update-user-role", h.UpdateUserRole)
		admin.DELETE("/delete-user/:usuario", h.DeleteUser)
		admin.PUT("/update-user/:id", h.UpdateUser)
	}
}
