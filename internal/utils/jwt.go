package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"car_catalog/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenTTL is the fixed lifetime of a session token.
const SessionTokenTTL = time.Hour

// ErrInvalidClaims is returned when a token verifies but does not carry a usable identity.
var ErrInvalidClaims = errors.New("invalid token claims")

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID   int64      `json:"userId"`
	Role     model.Role `json:"role"`
	Username string     `json:"usuario"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey []byte
	now       func() time.Time
}

// NewJWTUtil creates a new JWTUtil signing with secretKey.
func NewJWTUtil(secretKey string) *JWTUtil {
	return &JWTUtil{secretKey: []byte(secretKey), now: time.Now}
}

// WithClock returns a copy of ju that reads the current time from now.
func (ju *JWTUtil) WithClock(now func() time.Time) *JWTUtil {
	return &JWTUtil{secretKey: ju.secretKey, now: now}
}

// GenerateToken issues a session token for the user, valid for SessionTokenTTL.
func (ju *JWTUtil) GenerateToken(userID int64, role model.Role, username string) (string, error) {
	issuedAt := ju.now()
	claims := &JWTClaims{
		UserID:   userID,
		Role:     role,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(SessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks signature, algorithm and expiry and returns the decoded claims.
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	}, jwt.WithTimeFunc(ju.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Role.Valid() || claims.Username == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
