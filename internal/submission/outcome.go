package submission

import (
	"github.com/example/wordlebot/internal/award"
	"github.com/example/wordlebot/internal/wordle"
)

// Status is the terminal state of a submission as seen by the user
type Status int

const (
	// StatusRejected means the text was not a result report
	StatusRejected Status = iota
	// StatusStored means a new result was stored
	StatusStored
	// StatusDuplicate means the user already has a result for the game
	StatusDuplicate
	// StatusStoreFailed means the result could not be stored
	StatusStoreFailed
)

func (s Status) String() string {
	switch s {
	case StatusRejected:
		return "rejected"
	case StatusStored:
		return "stored"
	case StatusDuplicate:
		return "duplicate"
	case StatusStoreFailed:
		return "store_failed"
	default:
		return "unknown"
	}
}

// Outcome describes what happened to a submission. The downstream fields are
// only set for StatusStored and never change the status.
type Outcome struct {
	ID     string
	Status Status
	Result wordle.Result
	Date   string // YYYY-MM-DD of the game

	Answer    string
	AnswerErr error
	Delivery  award.Delivery
	AwardErr  error
}
