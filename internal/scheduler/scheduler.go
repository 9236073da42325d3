package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/example/wordlebot/internal/metrics"
	"github.com/example/wordlebot/internal/wordle"
	"github.com/example/wordlebot/pkg/models"
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	users     UserSource
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
	hour      int
	now       func() time.Time
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(userID string, gameNumber uint) error
}

// UserSource lists the users to remind
type UserSource interface {
	UsersMissingGame(ctx context.Context, gameNumber uint) ([]models.User, error)
}

// New creates a new scheduler instance. Reminders go out daily at hour UTC.
func New(users UserSource, notifier Notifier, hour int, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		hour:      hour,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.hour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.sendReminders); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.logger.Info("Reminder scheduler started", zap.String("at_utc", at))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sendReminders nudges every user without a result for today's game
func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	game := wordle.GameNumberOn(s.now())

	users, err := s.users.UsersMissingGame(ctx, game)
	if err != nil {
		s.logger.Error("Failed to get users for reminders", zap.Uint("game_number", game), zap.Error(err))
		return
	}

	sent := 0
	for _, user := range users {
		if err := s.notifier.SendReminder(user.UserID, game); err != nil {
			s.logger.Warn("Failed to send reminder", zap.String("user_id", user.UserID), zap.Error(err))
			s.metrics.Reminder("failed")
			continue
		}
		s.metrics.Reminder("sent")
		sent++
	}

	s.logger.Info("Reminders sent",
		zap.Uint("game_number", game),
		zap.Int("sent", sent),
		zap.Int("users", len(users)))
}
