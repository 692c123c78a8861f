package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/middleware"
)

// AuthenticationService is the auth surface the controller depends on.
type AuthenticationService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// AuthController handles Google sign-in and identity retrieval
type AuthController struct {
	authService AuthenticationService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService AuthenticationService) *AuthController {
	return &AuthController{authService: authService}
}

// GoogleLogin exchanges a verified Google ID token for a session token.
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "idToken is required"})
		return
	}

	resp, err := c.authService.LoginWithGoogle(ctx.Request.Context(), req.IDToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Me returns the authenticated caller's identity projection.
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.authService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}
