package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"zahlentrainer/internal/checker"
	"zahlentrainer/internal/generator"
	"zahlentrainer/internal/models"
	"zahlentrainer/internal/numwords"
	"zahlentrainer/internal/repository"
	"zahlentrainer/internal/validation"
)

const (
	DefaultHistoryPageSize = 50
	MaxHistoryPageSize     = 200
)

// RecordInput is a submitted practice attempt
type RecordInput struct {
	Number     float64          `json:"number"`
	GermanWord string           `json:"germanWord,omitempty"`
	UserAnswer float64          `json:"userAnswer"`
	IsCorrect  *bool            `json:"isCorrect,omitempty"`
	TimeSpent  int              `json:"timeSpent,omitempty"`
	Settings   *models.Settings `json:"settings,omitempty"`
}

// PracticeService handles drill generation, answer checking and the practice history
type PracticeService struct {
	generator    *generator.Generator
	practiceRepo *repository.PracticeRepository
	historyLimit int
	now          func() time.Time
}

// NewPracticeService creates a new practice service. historyLimit is the number
// of records kept after each save; zero or less keeps everything.
func NewPracticeService(gen *generator.Generator, practiceRepo *repository.PracticeRepository, historyLimit int) *PracticeService {
	if gen == nil {
		gen = generator.New(nil)
	}
	return &PracticeService{
		generator:    gen,
		practiceRepo: practiceRepo,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// NextNumber draws a number for the given settings and spells it
func (s *PracticeService) NextNumber(settings models.Settings) (models.Drill, error) {
	if err := validation.ValidateSettings(settings); err != nil {
		return models.Drill{}, err
	}

	number, err := s.generator.Generate(settings)
	if err != nil {
		return models.Drill{}, err
	}

	word, err := numwords.Convert(number)
	if err != nil {
		return models.Drill{}, fmt.Errorf("failed to spell %v: %w", number, err)
	}

	return models.Drill{
		Number:     number,
		GermanWord: word,
		Settings:   settings,
	}, nil
}

// Check compares an answer with the expected number. The German words for the
// expected number are included when it can be spelled.
func (s *PracticeService) Check(userAnswer, correctAnswer float64) models.CheckResult {
	result := checker.Check(userAnswer, correctAnswer)
	if word, err := numwords.Convert(correctAnswer); err == nil {
		result.GermanWord = word
	}
	return result
}

// Record stores a practice attempt and trims the history to the configured limit
func (s *PracticeService) Record(ctx context.Context, input RecordInput) (*models.PracticeRecord, error) {
	if input.TimeSpent < 0 {
		return nil, fmt.Errorf("%w: timeSpent must not be negative", models.ErrInvalidInput)
	}

	word := input.GermanWord
	if word == "" {
		w, err := numwords.Convert(input.Number)
		if err != nil {
			return nil, err
		}
		word = w
	}

	settings := models.DefaultSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	isCorrect := checker.IsCorrect(input.UserAnswer, input.Number)
	if input.IsCorrect != nil {
		isCorrect = *input.IsCorrect
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record id: %w", err)
	}

	record := models.PracticeRecord{
		ID:         id.String(),
		Timestamp:  s.now().UTC(),
		Number:     input.Number,
		GermanWord: word,
		UserAnswer: input.UserAnswer,
		IsCorrect:  isCorrect,
		TimeSpent:  input.TimeSpent,
		Settings:   settings,
	}

	if err := s.practiceRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save practice record: %w", err)
	}

	if s.historyLimit > 0 {
		trimmed, err := s.practiceRepo.Trim(ctx, s.historyLimit)
		if err != nil {
			slog.Warn("failed to trim practice history", slog.Any("error", err))
		} else if trimmed > 0 {
			slog.Debug("trimmed practice history", slog.Int64("deleted", trimmed), slog.Int("limit", s.historyLimit))
		}
	}

	return &record, nil
}

// History returns a page of records, newest first
func (s *PracticeService) History(ctx context.Context, limit, offset int) (*models.HistoryPage, error) {
	if limit <= 0 {
		limit = DefaultHistoryPageSize
	}
	if limit > MaxHistoryPageSize {
		limit = MaxHistoryPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.practiceRepo.List(ctx, limit, offset)
}

// GetRecord returns a single record
func (s *PracticeService) GetRecord(ctx context.Context, id string) (*models.PracticeRecord, error) {
	return s.practiceRepo.Get(ctx, id)
}

// ClearHistory deletes every record and reports how many were removed
func (s *PracticeService) ClearHistory(ctx context.Context) (int64, error) {
	deleted, err := s.practiceRepo.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	slog.Info("practice history cleared", slog.Int64("deleted", deleted))
	return deleted, nil
}

// Statistics summarizes the history, including answer streaks
func (s *PracticeService) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.practiceRepo.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	flags, err := s.practiceRepo.RecentCorrectness(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load streaks: %w", err)
	}
	stats.CurrentStreak, stats.BestStreak = streaks(flags)

	return stats, nil
}

// streaks returns the run of correct answers at the end of flags and the longest run overall
func streaks(flags []bool) (current, best int) {
	for _, ok := range flags {
		if ok {
			current++
			if current > best {
				best = current
			}
		} else {
			current = 0
		}
	}
	return current, best
}
