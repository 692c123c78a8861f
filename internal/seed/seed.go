// Package seed provisions bootstrap data after migrations run. Instructor
// accounts are pre-created from configuration so the configured people carry
// the instructor role on their first Google sign-in.
package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/avcode/avcode-backend/internal/app/models"
	appRepos "github.com/avcode/avcode-backend/internal/app/repositories"
	"github.com/avcode/avcode-backend/internal/config"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
)

// CreateDefaultData grants the instructor role to the configured emails,
// creating placeholder accounts for emails that have never signed in. Sign-in
// later fills in the Google profile of a placeholder account.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	if len(cfg.Seed.InstructorEmails) == 0 {
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)
	var finalErr error

	for _, email := range cfg.Seed.InstructorEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}

		granted, err := userRepo.GrantRole(ctx, email, appModels.RoleInstructor)
		if err != nil {
			lgr.Error().Err(err).Str("email", email).Msg("Error granting instructor role")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if granted {
			lgr.Info().Str("email", email).Msg("Granted instructor role")
			continue
		}

		// Either the account already carries the role or it does not exist
		// yet. Create a placeholder in the latter case.
		_, err = userRepo.GetByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			lgr.Error().Err(err).Str("email", email).Msg("Error looking up instructor account")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		if _, err := userRepo.Create(ctx, &appModels.User{
			Email: email,
			Name:  name,
			Roles: []string{appModels.RoleStudent, appModels.RoleInstructor},
		}); err != nil {
			lgr.Error().Err(err).Str("email", email).Msg("Error creating instructor account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("email", email).Msg("Created instructor account")
	}

	return finalErr
}
