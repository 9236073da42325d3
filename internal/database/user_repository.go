package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordlebot/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Upsert inserts the user or refreshes the display fields of an existing one.
// created_at is only set on first insert.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	now := r.now().Unix()

	query := r.db.Rebind(`
		INSERT INTO users (user_id, username, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		user.UserID,
		user.Username,
		user.FirstName,
		user.LastName,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.UserID, classify(err))
	}

	err = r.db.GetContext(ctx, user, r.db.Rebind(
		"SELECT user_id, username, first_name, last_name, created_at, updated_at FROM users WHERE user_id = ?"),
		user.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to reload user %s: %w", user.UserID, classify(err))
	}
	return nil
}

// GetByID returns a user by Telegram user ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(
		"SELECT user_id, username, first_name, last_name, created_at, updated_at FROM users WHERE user_id = ?"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, classify(err))
	}
	return &user, nil
}

// UsersMissingGame returns the known users that have no result for the given
// game
func (r *UserRepository) UsersMissingGame(ctx context.Context, gameNumber uint) ([]models.User, error) {
	query := r.db.Rebind(`
		SELECT u.user_id, u.username, u.first_name, u.last_name, u.created_at, u.updated_at
		FROM users u
		WHERE NOT EXISTS (
			SELECT 1 FROM results r WHERE r.user_id = u.user_id AND r.game_number = ?
		)
		ORDER BY u.user_id
	`)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, gameNumber); err != nil {
		return nil, fmt.Errorf("failed to get users missing game %d: %w", gameNumber, classify(err))
	}
	return users, nil
}
