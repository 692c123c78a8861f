package auth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

// GoogleIdentity is the verified subset of a Google ID token payload.
type GoogleIdentity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// GoogleVerifier validates Google ID tokens against the configured OAuth
// client ID and rejects identities outside the institutional email domain.
type GoogleVerifier struct {
	clientID      string
	allowedDomain string
}

// NewGoogleVerifier creates a new GoogleVerifier.
func NewGoogleVerifier(clientID, allowedDomain string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:      clientID,
		allowedDomain: strings.ToLower(strings.TrimSpace(allowedDomain)),
	}
}

// Verify validates the raw ID token and enforces the domain restriction.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "invalid Google ID token")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, apperrors.NewUnauthenticatedError("Google token carries no email")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, apperrors.NewUnauthenticatedError("Google email is not verified")
	}

	if v.allowedDomain != "" {
		at := strings.LastIndex(email, "@")
		if at < 0 || strings.ToLower(email[at+1:]) != v.allowedDomain {
			return nil, apperrors.NewUnauthenticatedError(
				fmt.Sprintf("use your @%s email address", v.allowedDomain))
		}
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &GoogleIdentity{
		Subject:   payload.Subject,
		Email:     email,
		Name:      name,
		AvatarURL: picture,
	}, nil
}
