package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/pkg/auth"
)

// ContextKeyUserID is where JWTAuth stores the authenticated user id
const ContextKeyUserID = "userID"

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid or expired token"
)

// AuthMiddleware for authentication
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, msgAuthRequired).
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(msgAuthRequired, errorDetail))
			return
		}

		userID, err := m.authenticate(authHeader)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			case errors.Is(err, auth.ErrInvalidFormat):
				details = "Invalid token format"
			}

			errorDetail := dto.NewErrorDetail(errorCode, msgInvalidToken).WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(msgInvalidToken, errorDetail))
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(authHeader string) (uuid.UUID, error) {
	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		return uuid.Nil, err
	}
	return m.jwtService.ValidateAndExtractUserID(tokenString)
}

// GetUserID returns the id stored by JWTAuth
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
