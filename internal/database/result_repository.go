package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordlebot/pkg/models"
)

const resultColumns = "id, user_id, game_number, attempts, solved, pattern, share_text, reported_at"

// ResultRepository handles database operations for puzzle results
type ResultRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewResultRepository creates a new repository instance
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db, now: time.Now}
}

// Record stores the result unless the user already has one for the game.
// It reports whether a new row was inserted; an existing row is left untouched.
func (r *ResultRepository) Record(ctx context.Context, result *models.PuzzleResult) (bool, error) {
	if result.ReportedAt == 0 {
		result.ReportedAt = r.now().Unix()
	}

	query := r.db.Rebind(`
		INSERT INTO results (user_id, game_number, attempts, solved, pattern, share_text, reported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, game_number) DO NOTHING
	`)

	res, err := r.db.ExecContext(ctx, query,
		result.UserID,
		result.GameNumber,
		result.Attempts,
		result.Solved,
		result.Pattern,
		result.ShareText,
		result.ReportedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record result for user %s game %d: %w",
			result.UserID, result.GameNumber, classify(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", classify(err))
	}

	return affected == 1, nil
}

// Get returns the stored result of a user for a game
func (r *ResultRepository) Get(ctx context.Context, userID string, gameNumber uint) (*models.PuzzleResult, error) {
	var result models.PuzzleResult
	err := r.db.GetContext(ctx, &result, r.db.Rebind(
		"SELECT "+resultColumns+" FROM results WHERE user_id = ? AND game_number = ?"),
		userID, gameNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get result for user %s game %d: %w", userID, gameNumber, classify(err))
	}
	return &result, nil
}

// ListByUser returns all results of a user, oldest game first
func (r *ResultRepository) ListByUser(ctx context.Context, userID string) ([]models.PuzzleResult, error) {
	var results []models.PuzzleResult
	err := r.db.SelectContext(ctx, &results, r.db.Rebind(
		"SELECT "+resultColumns+" FROM results WHERE user_id = ? ORDER BY game_number"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for user %s: %w", userID, classify(err))
	}
	return results, nil
}

// ListAll returns every stored result ordered by game and user
func (r *ResultRepository) ListAll(ctx context.Context) ([]models.PuzzleResult, error) {
	var results []models.PuzzleResult
	err := r.db.SelectContext(ctx, &results,
		"SELECT "+resultColumns+" FROM results ORDER BY game_number, user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", classify(err))
	}
	return results, nil
}

// Ping checks that the store is reachable
func (r *ResultRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}
