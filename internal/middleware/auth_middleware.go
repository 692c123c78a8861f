package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/avcode/avcode-backend/internal/app/auth"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/auth"
)

// Context keys set by JWTAuth.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRoles  = "roles"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token and stores the caller's identity in the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				message = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: message})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// RolesRequired allows the request through when the caller's role set
// intersects the allowed set.
func (m *AuthMiddleware) RolesRequired(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, exists := c.Get(ContextRoles)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
			return
		}

		roleSet, ok := roles.([]string)
		if !ok || !appauth.HasAnyRole(roleSet, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "insufficient permissions"})
			return
		}

		c.Next()
	}
}

// CurrentUserID returns the authenticated account ID from the context.
func CurrentUserID(c *gin.Context) (int64, error) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, apperrors.ErrUnauthenticated
	}
	userID, ok := value.(int64)
	if !ok {
		return 0, apperrors.ErrUnauthenticated
	}
	return userID, nil
}
