package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/wordlebot/internal/metrics"
	"github.com/example/wordlebot/pkg/models"
)

type fakeUsers struct {
	games []uint
	users []models.User
	err   error
}

func (f *fakeUsers) UsersMissingGame(_ context.Context, game uint) ([]models.User, error) {
	f.games = append(f.games, game)
	return f.users, f.err
}

type reminder struct {
	userID string
	game   uint
}

type fakeNotifier struct {
	sent   []reminder
	failOn string
}

func (f *fakeNotifier) SendReminder(userID string, game uint) error {
	if userID == f.failOn {
		return errors.New("bot was blocked by the user")
	}
	f.sent = append(f.sent, reminder{userID, game})
	return nil
}

func newTestScheduler(users UserSource, notifier Notifier) (*Scheduler, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(users, notifier, 18, metrics.New(prometheus.NewRegistry()), zap.New(core))
	s.now = func() time.Time { return time.Date(2024, time.November, 4, 18, 0, 0, 0, time.UTC) }
	return s, logs
}

func TestSendReminders(t *testing.T) {
	users := &fakeUsers{users: []models.User{{UserID: "1"}, {UserID: "2"}, {UserID: "3"}}}
	notifier := &fakeNotifier{failOn: "2"}
	s, logs := newTestScheduler(users, notifier)

	s.sendReminders()

	assert.Equal(t, []uint{1234}, users.games)
	assert.Equal(t, []reminder{{"1", 1234}, {"3", 1234}}, notifier.sent)
	assert.Equal(t, 1, logs.FilterMessage("Failed to send reminder").Len())

	summary := logs.FilterMessage("Reminders sent").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ContextMap()["sent"])
}

func TestSendRemindersStoreFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("storage unavailable")}
	notifier := &fakeNotifier{}
	s, logs := newTestScheduler(users, notifier)

	s.sendReminders()

	assert.Empty(t, notifier.sent)
	assert.Equal(t, 1, logs.FilterMessage("Failed to get users for reminders").Len())
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(&fakeUsers{}, &fakeNotifier{})

	require.NoError(t, s.Start())
	assert.Len(t, s.scheduler.Jobs(), 1)
	s.Stop()
}
