package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zahlentrainer/internal/database"
	"zahlentrainer/internal/generator"
	"zahlentrainer/internal/models"
	"zahlentrainer/internal/numwords"
	"zahlentrainer/internal/repository"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations(context.Background()))
	return db
}

// newTestService returns a service whose clock advances one second per record
func newTestService(t *testing.T, historyLimit int) *PracticeService {
	t.Helper()

	db := setupDB(t)
	svc := NewPracticeService(generator.NewSeeded(42), repository.NewPracticeRepository(db), historyLimit)

	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func boolPtr(b bool) *bool { return &b }

func TestNextNumber(t *testing.T) {
	svc := newTestService(t, 0)

	settings := models.Settings{Min: 10, Max: 30, DecimalPlaces: 1}
	for i := 0; i < 50; i++ {
		drill, err := svc.NextNumber(settings)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, drill.Number, 10.0)
		assert.LessOrEqual(t, drill.Number, 30.0)
		assert.Equal(t, settings, drill.Settings)

		want, err := numwords.Convert(drill.Number)
		require.NoError(t, err)
		assert.Equal(t, want, drill.GermanWord)
	}
}

func TestNextNumberDecimal(t *testing.T) {
	svc := newTestService(t, 0)

	drill, err := svc.NextNumber(models.Settings{Min: 0, Max: 10, AllowDecimal: true, DecimalPlaces: 2})
	require.NoError(t, err)
	assert.InDelta(t, drill.Number, float64(int(drill.Number*100+0.5))/100, 1e-9)
}

func TestNextNumberInvalidSettings(t *testing.T) {
	svc := newTestService(t, 0)

	tests := []struct {
		name     string
		settings models.Settings
	}{
		{"negative min", models.Settings{Min: -1, Max: 10}},
		{"max above range", models.Settings{Min: 0, Max: 1001}},
		{"min above max", models.Settings{Min: 50, Max: 10}},
		{"too many places", models.Settings{Min: 0, Max: 10, AllowDecimal: true, DecimalPlaces: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.NextNumber(tt.settings)
			assert.True(t, errors.Is(err, models.ErrInvalidSettings), "got %v", err)
		})
	}
}

func TestCheck(t *testing.T) {
	svc := newTestService(t, 0)

	result := svc.Check(21.0005, 21)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, "einundzwanzig", result.GermanWord)

	result = svc.Check(3.15, 3.14)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 3.15, result.UserAnswer)
	assert.Equal(t, 3.14, result.CorrectAnswer)

	result = svc.Check(5000, 5000)
	assert.True(t, result.IsCorrect)
	assert.Empty(t, result.GermanWord)
}

func TestRecord(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	record, err := svc.Record(ctx, RecordInput{Number: 42, UserAnswer: 42, TimeSpent: 1800})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "zweiundvierzig", record.GermanWord)
	assert.True(t, record.IsCorrect)
	assert.Equal(t, models.DefaultSettings(), record.Settings)
	assert.Equal(t, time.UTC, record.Timestamp.Location())

	stored, err := svc.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.GermanWord, stored.GermanWord)
	assert.Equal(t, 1800, stored.TimeSpent)
}

func TestRecordKeepsSubmittedFields(t *testing.T) {
	svc := newTestService(t, 0)

	settings := models.Settings{Min: 0, Max: 10, AllowDecimal: true, DecimalPlaces: 1}
	record, err := svc.Record(context.Background(), RecordInput{
		Number:     3.5,
		GermanWord: "drei Komma fünf",
		UserAnswer: 3.5,
		IsCorrect:  boolPtr(false),
		Settings:   &settings,
	})
	require.NoError(t, err)
	assert.Equal(t, "drei Komma fünf", record.GermanWord)
	assert.False(t, record.IsCorrect)
	assert.Equal(t, settings, record.Settings)
}

func TestRecordRejectsBadInput(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{Number: 1001, UserAnswer: 1001})
	assert.True(t, errors.Is(err, numwords.ErrOutOfRange), "got %v", err)

	_, err = svc.Record(ctx, RecordInput{Number: 3.14159, UserAnswer: 3.14159})
	assert.True(t, errors.Is(err, numwords.ErrTooPrecise), "got %v", err)

	_, err = svc.Record(ctx, RecordInput{Number: 5, UserAnswer: 5, TimeSpent: -1})
	assert.True(t, errors.Is(err, models.ErrInvalidInput), "got %v", err)
}

func TestRecordTrimsHistory(t *testing.T) {
	svc := newTestService(t, 3)
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 5; i++ {
		record, err := svc.Record(ctx, RecordInput{Number: float64(i), UserAnswer: float64(i)})
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}

	page, err := svc.History(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Records, 3)
	assert.Equal(t, ids[4], page.Records[0].ID)
	assert.Equal(t, ids[2], page.Records[2].ID)
}

func TestHistoryClampsLimit(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Record(ctx, RecordInput{Number: 7, UserAnswer: 7})
		require.NoError(t, err)
	}

	page, err := svc.History(ctx, 1, -5)
	require.NoError(t, err)
	assert.Len(t, page.Records, 1)
	assert.True(t, page.HasMore)

	page, err = svc.History(ctx, 10000, 0)
	require.NoError(t, err)
	assert.Len(t, page.Records, 3)
	assert.False(t, page.HasMore)
}

func TestClearHistory(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Record(ctx, RecordInput{Number: 1, UserAnswer: 1})
		require.NoError(t, err)
	}

	deleted, err := svc.ClearHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestStatisticsStreaks(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	answers := []bool{true, true, true, false, true, true}
	for _, correct := range answers {
		user := 10.0
		if !correct {
			user = 11
		}
		_, err := svc.Record(ctx, RecordInput{Number: 10, UserAnswer: user, TimeSpent: 1000})
		require.NoError(t, err)
	}

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 5, stats.Correct)
	assert.Equal(t, 1, stats.Incorrect)
	assert.Equal(t, 83, stats.Accuracy)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 3, stats.BestStreak)
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name    string
		flags   []bool
		current int
		best    int
	}{
		{"empty", nil, 0, 0},
		{"all wrong", []bool{false, false}, 0, 0},
		{"ends wrong", []bool{true, true, false}, 0, 2},
		{"all right", []bool{true, true, true, true}, 4, 4},
		{"best in middle", []bool{true, false, true, true, true, false, true}, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, best := streaks(tt.flags)
			if current != tt.current || best != tt.best {
				t.Errorf("streaks() = (%d, %d), want (%d, %d)", current, best, tt.current, tt.best)
			}
		})
	}
}
