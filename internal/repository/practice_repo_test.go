package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zahlentrainer/internal/database"
	"zahlentrainer/internal/models"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupRepo(t *testing.T) *PracticeRepository {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "practice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations(context.Background()))
	return NewPracticeRepository(db)
}

func record(i int, correct bool, timeSpent int) models.PracticeRecord {
	return models.PracticeRecord{
		ID:         fmt.Sprintf("rec-%03d", i),
		Timestamp:  baseTime.Add(time.Duration(i) * time.Minute),
		Number:     float64(i),
		GermanWord: fmt.Sprintf("word-%d", i),
		UserAnswer: float64(i),
		IsCorrect:  correct,
		TimeSpent:  timeSpent,
		Settings:   models.Settings{Min: 0, Max: 100, DecimalPlaces: 1},
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	want := models.PracticeRecord{
		ID:         "abc",
		Timestamp:  baseTime,
		Number:     3.14,
		GermanWord: "drei Komma eins vier",
		UserAnswer: 3.15,
		IsCorrect:  false,
		TimeSpent:  4200,
		Settings:   models.Settings{Min: 0, Max: 10, AllowDecimal: true, DecimalPlaces: 2},
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Timestamp.Equal(got.Timestamp), "timestamp %v != %v", got.Timestamp, want.Timestamp)
	assert.Equal(t, want.Number, got.Number)
	assert.Equal(t, want.GermanWord, got.GermanWord)
	assert.Equal(t, want.UserAnswer, got.UserAnswer)
	assert.Equal(t, want.IsCorrect, got.IsCorrect)
	assert.Equal(t, want.TimeSpent, got.TimeSpent)
	assert.Equal(t, want.Settings, got.Settings)
}

func TestGetMissing(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, models.ErrNotFound), "got %v", err)
}

func TestListNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Save(ctx, record(i, i%2 == 0, 0)))
	}

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "rec-005", page.Records[0].ID)
	assert.Equal(t, "rec-004", page.Records[1].ID)

	page, err = repo.List(ctx, 2, 4)
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "rec-001", page.Records[0].ID)
}

func TestListEmpty(t *testing.T) {
	repo := setupRepo(t)

	page, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.False(t, page.HasMore)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestClear(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Save(ctx, record(i, true, 0)))
	}

	deleted, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTrimKeepsNewest(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		require.NoError(t, repo.Save(ctx, record(i, true, 0)))
	}

	deleted, err := repo.Trim(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "rec-003", all[0].ID)
	assert.Equal(t, "rec-006", all[3].ID)

	deleted, err = repo.Trim(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestImportRecordSkipsDuplicates(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	written, err := repo.ImportRecord(ctx, record(1, true, 0))
	require.NoError(t, err)
	assert.True(t, written)

	written, err = repo.ImportRecord(ctx, record(1, false, 0))
	require.NoError(t, err)
	assert.False(t, written)

	got, err := repo.Get(ctx, "rec-001")
	require.NoError(t, err)
	assert.True(t, got.IsCorrect, "first import must survive")
}

func TestStatistics(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	empty, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Statistics{}, *empty)

	require.NoError(t, repo.Save(ctx, record(1, true, 1000)))
	require.NoError(t, repo.Save(ctx, record(2, true, 2000)))
	require.NoError(t, repo.Save(ctx, record(3, true, 0)))
	require.NoError(t, repo.Save(ctx, record(4, false, 5000)))

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Correct)
	assert.Equal(t, 1, stats.Incorrect)
	assert.Equal(t, 75, stats.Accuracy)
	assert.Equal(t, 1500, stats.AvgCorrectTime, "zero time_spent is excluded")
	assert.Equal(t, 5000, stats.AvgIncorrectTime)
}

func TestRecentCorrectness(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, record(2, false, 0)))
	require.NoError(t, repo.Save(ctx, record(1, true, 0)))
	require.NoError(t, repo.Save(ctx, record(3, true, 0)))

	flags, err := repo.RecentCorrectness(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, flags)
}
