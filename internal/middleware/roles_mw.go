package middleware

import (
	"net/http"

	"car_catalog/internal/model"

	"github.com/gin-gonic/gin"
)

const msgForbidden = "Acceso denegado: No tienes los permisos necesarios"

// RoleMiddleware lets the request through only when the caller's role is exactly required.
// Roles have no hierarchy: an admin token does not satisfy an editor route.
func RoleMiddleware(required model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}

		userRole, ok := roleVal.(model.Role)
		if !ok || userRole != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// EditorMiddleware checks if the user is an editor
func EditorMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleEditor)
}
