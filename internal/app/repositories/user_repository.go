package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avcode/avcode-backend/internal/app/models"
	"github.com/avcode/avcode-backend/internal/pkg/apperrors"
	"github.com/avcode/avcode-backend/internal/pkg/dberrors"
)

// UserRepository handles account database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, google_id, email, name, avatar_url, roles, created_at, updated_at"

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.AvatarURL, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// Create inserts a new account. The email unique constraint guards against a
// concurrent first sign-in of the same identity.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (google_id, email, name, avatar_url, roles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.GoogleID, user.Email, user.Name, user.AvatarURL, user.Roles)

	created, err := scanUser(row)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return r.GetByEmail(ctx, user.Email)
		}
		return nil, err
	}
	return created, nil
}

// UpdateProfile refreshes name and avatar from the identity provider.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, avatarURL string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET name = $1, avatar_url = $2, updated_at = NOW() WHERE id = $3`,
		name, avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// GrantRole adds a role to the account's role set if it does not carry it
// already. Reports whether a row was updated.
func (r *UserRepository) GrantRole(ctx context.Context, email, role string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET roles = array_append(roles, $2), updated_at = NOW()
		WHERE email = $1 AND NOT ($2 = ANY(roles))`,
		email, role)
	if err != nil {
		return false, fmt.Errorf("failed to grant role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
