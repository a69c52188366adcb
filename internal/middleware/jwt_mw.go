package middleware

import (
	"net/http"
	"strings"

	"car_catalog/internal/model"
	"car_catalog/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey     = "authUser"
	AuthRoleKey     = "authRole"
	AuthUsernameKey = "authUsername"
)

const (
	msgTokenMissing = "Token no proporcionado"
	msgTokenInvalid = "Token inválido o expirado"
)

// Identity is the caller decoded from a valid session token.
type Identity struct {
	UserID   int64
	Role     model.Role
	Username string
}

// JWTAuthMiddleware rejects requests without a valid bearer token and attaches the caller's
// identity to the context.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgTokenMissing})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgTokenInvalid})
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, claims.Role)
		c.Set(AuthUsernameKey, claims.Username)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the identity attached by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (Identity, bool) {
	id, ok := c.Get(AuthUserKey)
	if !ok {
		return Identity{}, false
	}
	userID, _ := id.(int64)
	roleVal, _ := c.Get(AuthRoleKey)
	role, _ := roleVal.(model.Role)
	return Identity{UserID: userID, Role: role, Username: c.GetString(AuthUsernameKey)}, true
}
