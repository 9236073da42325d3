package models

// User represents a Telegram user submitting puzzle results
type User struct {
	UserID    string `json:"user_id" db:"user_id"` // Telegram User ID
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	CreatedAt int64  `json:"created_at" db:"created_at"` // Unix seconds
	UpdatedAt int64  `json:"updated_at" db:"updated_at"` // Unix seconds
}
