package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	pkgauth "github.com/avcode/avcode-backend/internal/pkg/auth"
)

type fakeVerifier struct {
	identity *pkgauth.GoogleIdentity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, rawToken string) (*pkgauth.GoogleIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newAuthEnv(verifier *fakeVerifier) (*AuthService, *memStore) {
	store := newMemStore()
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return NewAuthService(store, jwtService, verifier), store
}

func TestLoginCreatesStudentAccountOnFirstSignIn(t *testing.T) {
	svc, store := newAuthEnv(&fakeVerifier{identity: &pkgauth.GoogleIdentity{
		Subject:   "google-123",
		Email:     "meera@mnit.ac.in",
		Name:      "Meera",
		AvatarURL: "https://avatars.example/meera",
	}})

	resp, err := svc.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "meera@mnit.ac.in", resp.User.Email)
	assert.Equal(t, []string{models.RoleStudent}, resp.User.Roles)

	stored, err := store.GetByEmail(context.Background(), "meera@mnit.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "google-123", stored.GoogleID)
}

func TestLoginReusesExistingAccountAndRefreshesProfile(t *testing.T) {
	verifier := &fakeVerifier{identity: &pkgauth.GoogleIdentity{
		Subject:   "google-9",
		Email:     "dev@mnit.ac.in",
		Name:      "Dev Updated",
		AvatarURL: "https://avatars.example/new",
	}}
	svc, store := newAuthEnv(verifier)
	existing := store.addUser("Dev", "dev@mnit.ac.in", models.RoleStudent, models.RoleInstructor)

	resp, err := svc.LoginWithGoogle(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.User.ID)
	assert.Equal(t, "Dev Updated", resp.User.Name, "profile refreshed from Google")
	assert.Contains(t, resp.User.Roles, models.RoleInstructor, "roles survive sign-in")
}

func TestLoginFailsWhenVerifierRejects(t *testing.T) {
	svc, store := newAuthEnv(&fakeVerifier{err: apperrors.NewUnauthenticatedError("email domain not allowed")})

	_, err := svc.LoginWithGoogle(context.Background(), "id-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = store.GetByEmail(context.Background(), "meera@mnit.ac.in")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "no account is created for a rejected token")
}

func TestGetProfile(t *testing.T) {
	svc, store := newAuthEnv(&fakeVerifier{})
	user := store.addUser("Asha", "asha@mnit.ac.in", models.RoleStudent)

	profile, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = svc.GetProfile(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
