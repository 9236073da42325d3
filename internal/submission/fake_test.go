package submission

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/wordlebot/internal/award"
	"github.com/example/wordlebot/pkg/models"
)

// ------------------------
// Fake collaborators
// ------------------------

// tracer records the sequence of collaborator calls shared by all fakes of a test
type tracer struct {
	mu    sync.Mutex
	steps []string
}

func (t *tracer) record(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, step)
}

// Trace returns the sequence of calls made so far
func (t *tracer) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.steps))
	copy(out, t.steps)
	return out
}

// FakeStore implements UserStore and ResultStore with an in-memory table
type FakeStore struct {
	*tracer

	UpsertFunc func(ctx context.Context, user *models.User) error
	RecordFunc func(ctx context.Context, result *models.PuzzleResult) (bool, error)

	mu      sync.Mutex
	Users   map[string]models.User
	Results map[string]models.PuzzleResult
}

func newFakeStore(t *tracer) *FakeStore {
	return &FakeStore{
		tracer:  t,
		Users:   map[string]models.User{},
		Results: map[string]models.PuzzleResult{},
	}
}

func (f *FakeStore) Upsert(ctx context.Context, user *models.User) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, user)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Users[user.UserID] = *user
	return nil
}

func (f *FakeStore) Record(ctx context.Context, result *models.PuzzleResult) (bool, error) {
	f.record("Record")
	if f.RecordFunc != nil {
		return f.RecordFunc(ctx, result)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := resultKey(result.UserID, result.GameNumber)
	if _, exists := f.Results[key]; exists {
		return false, nil
	}
	f.Results[key] = *result
	return true, nil
}

func resultKey(userID string, game uint) string {
	return fmt.Sprintf("%s/%d", userID, game)
}

// FakeResolver implements AnswerResolver
type FakeResolver struct {
	*tracer

	ResolveFunc func(ctx context.Context, date string) (string, error)
	Dates       []string
}

func (f *FakeResolver) Resolve(ctx context.Context, date string) (string, error) {
	f.record("Resolve")
	f.Dates = append(f.Dates, date)
	if f.ResolveFunc != nil {
		return f.ResolveFunc(ctx, date)
	}
	return "crane", nil
}

// FakeReporter implements AwardReporter
type FakeReporter struct {
	*tracer

	ReportFunc func(ctx context.Context, a award.Award) (award.Delivery, error)
	Awards     []award.Award
}

func (f *FakeReporter) Report(ctx context.Context, a award.Award) (award.Delivery, error) {
	f.record("Report")
	f.Awards = append(f.Awards, a)
	if f.ReportFunc != nil {
		return f.ReportFunc(ctx, a)
	}
	return award.DeliveryDelivered, nil
}

// Ensure the fakes satisfy the pipeline interfaces
var (
	_ UserStore      = (*FakeStore)(nil)
	_ ResultStore    = (*FakeStore)(nil)
	_ AnswerResolver = (*FakeResolver)(nil)
	_ AwardReporter  = (*FakeReporter)(nil)
)
