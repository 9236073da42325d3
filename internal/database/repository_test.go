package database

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordlebot/internal/config"
	"github.com/example/wordlebot/pkg/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(config.DatabaseConfig{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func seedUser(t *testing.T, db *sqlx.DB, id string) {
	t.Helper()
	require.NoError(t, NewUserRepository(db).Upsert(context.Background(), &models.User{UserID: id, FirstName: "Test"}))
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, InitSchema(db))
	require.NoError(t, InitSchema(db))
}

func TestUserUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	repo.now = fixedClock(100)
	user := &models.User{UserID: "42", Username: "alice", FirstName: "Alice", LastName: "A"}
	require.NoError(t, repo.Upsert(ctx, user))
	assert.Equal(t, int64(100), user.CreatedAt)
	assert.Equal(t, int64(100), user.UpdatedAt)

	repo.now = fixedClock(200)
	require.NoError(t, repo.Upsert(ctx, &models.User{UserID: "42", Username: "alice2", FirstName: "Alicia"}))

	got, err := repo.GetByID(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		UserID:    "42",
		Username:  "alice2",
		FirstName: "Alicia",
		LastName:  "",
		CreatedAt: 100,
		UpdatedAt: 200,
	}, got)
}

func TestRecordFirstSubmissionWins(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "42")
	repo := NewResultRepository(db)
	repo.now = fixedClock(1000)

	first := &models.PuzzleResult{
		UserID:     "42",
		GameNumber: 1234,
		Attempts:   sql.NullInt64{Int64: 3, Valid: true},
		Solved:     true,
		Pattern:    sql.NullString{String: "🟩🟨⬜", Valid: true},
		ShareText:  "Wordle 1,234 3/6\n🟩🟨⬜",
	}
	inserted, err := repo.Record(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	repo.now = fixedClock(2000)
	second := &models.PuzzleResult{
		UserID:     "42",
		GameNumber: 1234,
		Solved:     false,
		ShareText:  "Wordle 1,234 X/6",
	}
	inserted, err = repo.Record(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := repo.Get(ctx, "42", 1234)
	require.NoError(t, err)
	assert.Equal(t, first.ShareText, stored.ShareText)
	assert.True(t, stored.Solved)
	assert.Equal(t, 3, stored.AttemptCount())
	assert.Equal(t, first.Pattern, stored.Pattern)
	assert.Equal(t, int64(1000), stored.ReportedAt)
}

func TestRecordUnsolvedStoresNullAttempts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "7")
	repo := NewResultRepository(db)

	inserted, err := repo.Record(ctx, &models.PuzzleResult{UserID: "7", GameNumber: 500, ShareText: "Wordle 500 X/6"})
	require.NoError(t, err)
	require.True(t, inserted)

	stored, err := repo.Get(ctx, "7", 500)
	require.NoError(t, err)
	assert.False(t, stored.Solved)
	assert.False(t, stored.Attempts.Valid)
	assert.False(t, stored.Pattern.Valid)
}

func TestRecordConcurrentDuplicatesInsertOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "42")
	repo := NewResultRepository(db)

	var inserts atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Record(ctx, &models.PuzzleResult{UserID: "42", GameNumber: 77, Solved: true,
				Attempts: sql.NullInt64{Int64: 4, Valid: true}, ShareText: "Wordle 77 4/6"})
			assert.NoError(t, err)
			if ok {
				inserts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inserts.Load())
}

func TestRecordUnknownUserIsConstraintViolation(t *testing.T) {
	repo := NewResultRepository(newTestDB(t))

	_, err := repo.Record(context.Background(), &models.PuzzleResult{UserID: "ghost", GameNumber: 1, ShareText: "Wordle 1 X/6"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	db := newTestDB(t)
	results := NewResultRepository(db)
	users := NewUserRepository(db)
	require.NoError(t, db.Close())

	_, err := results.Record(context.Background(), &models.PuzzleResult{UserID: "1", GameNumber: 1})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = users.Upsert(context.Background(), &models.User{UserID: "1"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	assert.ErrorIs(t, results.Ping(context.Background()), ErrStorageUnavailable)
}

func TestUpsertReloadFailureIsUnavailable(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`
		CREATE TRIGGER drop_new_user AFTER INSERT ON users
		BEGIN
			DELETE FROM users WHERE user_id = NEW.user_id;
		END`)
	require.NoError(t, err)

	err = NewUserRepository(db).Upsert(context.Background(), &models.User{UserID: "1", Username: "alice"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListQueries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "1")
	seedUser(t, db, "2")
	seedUser(t, db, "3")
	repo := NewResultRepository(db)

	for _, r := range []models.PuzzleResult{
		{UserID: "1", GameNumber: 11, ShareText: "Wordle 11 X/6"},
		{UserID: "1", GameNumber: 10, Solved: true, Attempts: sql.NullInt64{Int64: 2, Valid: true}, ShareText: "Wordle 10 2/6"},
		{UserID: "2", GameNumber: 10, Solved: true, Attempts: sql.NullInt64{Int64: 5, Valid: true}, ShareText: "Wordle 10 5/6"},
	} {
		_, err := repo.Record(ctx, &r)
		require.NoError(t, err)
	}

	mine, err := repo.ListByUser(ctx, "1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, uint(10), mine[0].GameNumber)
	assert.Equal(t, uint(11), mine[1].GameNumber)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	missing, err := NewUserRepository(db).UsersMissingGame(ctx, 11)
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "2", missing[0].UserID)
	assert.Equal(t, "3", missing[1].UserID)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))

	assert.ErrorIs(t, classify(sqlite3.Error{Code: sqlite3.ErrConstraint}), ErrConstraintViolation)
	assert.ErrorIs(t, classify(&pq.Error{Code: "23505"}), ErrConstraintViolation)
	assert.ErrorIs(t, classify(&pq.Error{Code: "08006"}), ErrStorageUnavailable)
	assert.ErrorIs(t, classify(sqlite3.Error{Code: sqlite3.ErrBusy}), ErrStorageUnavailable)

	cause := errors.New("connection refused")
	err := classify(cause)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, classify(err))
}
