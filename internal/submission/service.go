// Package submission turns a chat message into a stored puzzle result and,
// for first-time results only, resolves the day's answer and reports an award.
package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/wordlebot/internal/award"
	"github.com/example/wordlebot/internal/metrics"
	"github.com/example/wordlebot/internal/wordle"
	"github.com/example/wordlebot/pkg/models"
)

// ErrStoreFailed is returned when the result could not be stored. It wraps
// the store's own error.
var ErrStoreFailed = errors.New("failed to store result")

// UserStore persists chat users
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
}

// ResultStore persists results; Record reports whether a new row was created
type ResultStore interface {
	Record(ctx context.Context, result *models.PuzzleResult) (bool, error)
}

// AnswerResolver fetches the solution for a YYYY-MM-DD date
type AnswerResolver interface {
	Resolve(ctx context.Context, date string) (string, error)
}

// AwardReporter delivers a scoring event
type AwardReporter interface {
	Report(ctx context.Context, a award.Award) (award.Delivery, error)
}

// Submission is a non-command text message from a chat user
type Submission struct {
	UserID    string
	Username  string
	FirstName string
	LastName  string
	Text      string
}

// Service runs the submission pipeline
type Service struct {
	users   UserStore
	results ResultStore
	answers AnswerResolver
	awards  AwardReporter
	metrics *metrics.Metrics
	logger  *zap.Logger
	newID   func() string
}

// NewService creates the pipeline from its collaborators
func NewService(users UserStore, results ResultStore, answers AnswerResolver, awards AwardReporter,
	m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		results: results,
		answers: answers,
		awards:  awards,
		metrics: m,
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
	}
}

// Submit processes one message. Only a storage failure is returned as an
// error; answer and award failures are logged and recorded on the outcome.
func (s *Service) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	parsed, ok := wordle.Parse(sub.Text)
	if !ok {
		s.metrics.Submission(StatusRejected.String())
		return Outcome{Status: StatusRejected}, nil
	}

	out := Outcome{
		ID:     s.newID(),
		Status: StatusStored,
		Result: parsed,
		Date:   wordle.DayOf(parsed.GameNumber),
	}
	log := s.logger.With(
		zap.String("submission_id", out.ID),
		zap.String("user_id", sub.UserID),
		zap.Uint("game_number", parsed.GameNumber),
	)

	inserted, err := s.store(ctx, sub, parsed)
	if err != nil {
		log.Error("Failed to store result", zap.Error(err))
		s.metrics.Submission(StatusStoreFailed.String())
		return Outcome{ID: out.ID, Status: StatusStoreFailed, Result: parsed, Date: out.Date},
			fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	if !inserted {
		log.Info("Duplicate submission ignored")
		out.Status = StatusDuplicate
		s.metrics.Submission(out.Status.String())
		return out, nil
	}

	log.Info("Result stored", zap.String("score", parsed.Score()))
	s.metrics.Submission(out.Status.String())

	out.Answer, out.AnswerErr = s.answers.Resolve(ctx, out.Date)
	if out.AnswerErr != nil {
		log.Warn("Answer lookup failed, skipping award", zap.String("date", out.Date), zap.Error(out.AnswerErr))
		s.metrics.DownstreamFailure("answer")
		return out, nil
	}

	out.Delivery, out.AwardErr = s.awards.Report(ctx, award.Award{
		UserID: sub.UserID,
		Day:    out.Date,
		Answer: out.Answer,
		Score:  award.Score{Solved: parsed.Solved, Attempts: parsed.Attempts},
	})
	if out.AwardErr != nil {
		log.Warn("Award delivery failed", zap.Error(out.AwardErr))
		s.metrics.DownstreamFailure("award")
		return out, nil
	}

	log.Info("Award processed", zap.Stringer("delivery", out.Delivery))
	s.metrics.Award(out.Delivery.String())

	return out, nil
}

func (s *Service) store(ctx context.Context, sub Submission, parsed wordle.Result) (bool, error) {
	user := &models.User{
		UserID:    sub.UserID,
		Username:  sub.Username,
		FirstName: sub.FirstName,
		LastName:  sub.LastName,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return false, err
	}

	result := &models.PuzzleResult{
		UserID:     sub.UserID,
		GameNumber: parsed.GameNumber,
		Solved:     parsed.Solved,
		Pattern:    sql.NullString{String: parsed.Pattern, Valid: parsed.Pattern != ""},
		ShareText:  parsed.ShareText,
	}
	if parsed.Solved {
		result.Attempts = sql.NullInt64{Int64: int64(parsed.Attempts), Valid: true}
	}

	return s.results.Record(ctx, result)
}
