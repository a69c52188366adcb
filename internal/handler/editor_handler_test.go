package handler

import (
	"context"
	"net/http"
	"testing"

	"car_catalog/internal/middleware"
	"car_catalog/internal/model"
	"car_catalog/internal/service"
	"car_catalog/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockModerationService struct {
	mock.Mock
	service.ModerationService
}

func (m *mockModerationService) Suspend(ctx context.Context, username string, days int, reason string) error {
	return m.Called(ctx, username, days, reason).Error(0)
}

func editorRouter(svc service.ModerationService) *gin.Engine {
	r := gin.New()
	ju := utils.NewJWTUtil(testSecret)
	NewEditorHandler(svc, testLog).RegisterEditorRoutes(r, middleware.JWTAuthMiddleware(ju), middleware.EditorMiddleware())
	return r
}

func TestSuspendHandler(t *testing.T) {
	svc := &mockModerationService{}
	svc.On("Suspend", mock.Anything, "bob", 7, "spam").Return(nil)
	svc.On("Suspend", mock.Anything, "boss", 1, "").Return(service.ErrNotRegularUser)
	r := editorRouter(svc)
	tok := tokenFor(t, model.RoleEditor, "ed")

	w := serve(r, jsonRequest(http.MethodPost, "/editor/users/bob/suspend", map[string]any{"days": 7, "reason": "spam"}, tok))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Usuario suspendido por 7 días", bodyMessage(t, w))

	w = serve(r, jsonRequest(http.MethodPost, "/editor/users/bob/suspend", map[string]any{"days": 0}, tok))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, jsonRequest(http.MethodPost, "/editor/users/boss/suspend", map[string]any{"days": 1}, tok))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, jsonRequest(http.MethodPost, "/editor/users/bob/suspend", map[string]any{"days": 7, "reason": "spam"},
		tokenFor(t, model.RoleAdmin, "root")))
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNumberOfCalls(t, "Suspend", 2)
}
