package services

import (
	"context"
	"errors"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/app/models/dto"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/auth"
	"github.com/avcode/avcode-backend/internal/pkg/logger"
)

// GoogleTokenVerifier validates a Google ID token and returns the verified
// identity. Domain restriction happens inside the verifier.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*auth.GoogleIdentity, error)
}

// AuthService implements Google sign-in and profile retrieval.
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	verifier   GoogleTokenVerifier
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, verifier GoogleTokenVerifier) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		verifier:   verifier,
	}
}

// LoginWithGoogle verifies the Google ID token, finds or creates the local
// account keyed by email, refreshes its profile fields, and issues a session
// token. First-time sign-ins get the student role.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		user, err = s.users.Create(ctx, &models.User{
			GoogleID:  identity.Subject,
			Email:     identity.Email,
			Name:      identity.Name,
			AvatarURL: identity.AvatarURL,
			Roles:     []string{models.RoleStudent},
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("Created account on first sign-in")
	} else if user.Name != identity.Name || user.AvatarURL != identity.AvatarURL {
		if err := s.users.UpdateProfile(ctx, user.ID, identity.Name, identity.AvatarURL); err != nil {
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to refresh profile from Google")
		} else {
			user.Name = identity.Name
			user.AvatarURL = identity.AvatarURL
		}
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      toUserResponse(user),
	}, nil
}

// GetProfile returns the identity projection of an authenticated account.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Roles:     user.Roles,
	}
}
