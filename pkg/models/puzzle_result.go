package models

import "database/sql"

// PuzzleResult is one user's report for one Wordle puzzle
type PuzzleResult struct {
	ID         int64          `json:"id" db:"id"`
	UserID     string         `json:"user_id" db:"user_id"`
	GameNumber uint           `json:"game_number" db:"game_number"`
	Attempts   sql.NullInt64  `json:"attempts" db:"attempts"` // Valid only when solved
	Solved     bool           `json:"solved" db:"solved"`
	Pattern    sql.NullString `json:"pattern" db:"pattern"`
	ShareText  string         `json:"share_text" db:"share_text"`
	ReportedAt int64          `json:"reported_at" db:"reported_at"` // Unix seconds
}

// AttemptCount returns the number of guesses, or 0 for an unsolved puzzle
func (r PuzzleResult) AttemptCount() int {
	if !r.Solved || !r.Attempts.Valid {
		return 0
	}
	return int(r.Attempts.Int64)
}
