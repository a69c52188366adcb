package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"car_catalog/internal/model"
	"car_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginObserver records the outcome of login attempts.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service  service.AuthService
	observer LoginObserver
	log      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, observer LoginObserver, log *slog.Logger) *AuthHandler {
	return &AuthHandler{service: s, observer: observer, log: log}
}

// loginRequest fields are not required here: the account lookup and the CAPTCHA gate run before
// the password is looked at.
type loginRequest struct {
	Email           string `json:"email"`
	Password        string `json:"contraseña"`
	CaptchaResponse string `json:"captchaResponse"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.observer.ObserveLogin("bad_request")
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password, req.CaptchaResponse)
	if err != nil {
		status, message, outcome := loginFailure(err)
		h.observer.ObserveLogin(outcome)
		if status == http.StatusInternalServerError {
			serverError(c, h.log, message, err)
			return
		}
		respond(c, status, message)
		return
	}

	h.observer.ObserveLogin("success")
	c.JSON(http.StatusOK, gin.H{
		"token":   res.Token,
		"usuario": res.Username,
		"role":    res.Role,
	})
}

func loginFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Correo electrónico no encontrado", "not_found"
	case errors.Is(err, service.ErrCaptchaRequired):
		return http.StatusBadRequest, "Se requiere verificación CAPTCHA", "captcha_required"
	case errors.Is(err, service.ErrCaptchaFailed):
		return http.StatusBadRequest, "Verificación CAPTCHA fallida", "captcha_failed"
	case errors.Is(err, service.ErrCaptchaVerification):
		return http.StatusInternalServerError, "Error al verificar CAPTCHA", "captcha_error"
	case errors.Is(err, service.ErrInvalidPassword):
		return http.StatusUnauthorized, "Contraseña incorrecta", "invalid_password"
	default:
		return http.StatusInternalServerError, msgServerError, "error"
	}
}

type registerRequest struct {
	Username              string `json:"usuario"`
	Email                 string `json:"email"`
	Password              string `json:"contraseña"`
	PrivacyPolicyAccepted bool   `json:"privacyPolicyAccepted"`
}

// Register creates a regular account. Any role in the body is ignored.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	_, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		Username:              req.Username,
		Email:                 req.Email,
		Password:              req.Password,
		PrivacyPolicyAccepted: req.PrivacyPolicyAccepted,
	})
	if err != nil {
		h.registrationError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Usuario registrado exitosamente")
}

type privilegedRegisterRequest struct {
	Username string     `json:"usuario"`
	Email    string     `json:"email"`
	Password string     `json:"contraseña"`
	Role     model.Role `json:"role"`
}

func (h *AuthHandler) RegisterPrivileged(c *gin.Context) {
	var req privilegedRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Solicitud no válida")
		return
	}

	_, err := h.service.RegisterPrivileged(c.Request.Context(), service.PrivilegedRegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.registrationError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Usuario registrado exitosamente")
}

func (h *AuthHandler) registrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPrivacyPolicyNotAccepted):
		respond(c, http.StatusBadRequest, "Debes aceptar el aviso de privacidad para registrarte")
	case errors.Is(err, service.ErrConflict):
		respond(c, http.StatusConflict, "El usuario o correo electrónico ya está registrado")
	case errors.Is(err, service.ErrInvalidRole):
		respond(c, http.StatusBadRequest, "Rol no válido")
	case errors.Is(err, service.ErrInvalidInput):
		respond(c, http.StatusBadRequest, err.Error())
	default:
		serverError(c, h.log, msgServerError, err)
	}
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(r gin.IRouter, jwtAuthMW, adminRoleMW gin.HandlerFunc) {
	r.POST("/login", h.Login)
	r.POST("/registro", h.Register)
	r.POST("/admin/registro", jwtAuthMW, adminRoleMW, h.RegisterPrivileged)
}
