package service

import (
	"context"
	"fmt"
	"log/slog"

	"zahlentrainer/internal/models"
	"zahlentrainer/internal/repository"
	"zahlentrainer/internal/validation"
)

// SettingsService manages the server-wide default practice settings
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// Defaults returns the stored defaults, or the built-in ones when none were saved
func (s *SettingsService) Defaults(ctx context.Context) (models.Settings, error) {
	settings, err := s.settingsRepo.PracticeDefaults(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load practice defaults: %w", err)
	}
	return settings, nil
}

// UpdateDefaults validates and stores new defaults
func (s *SettingsService) UpdateDefaults(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if err := validation.ValidateSettings(settings); err != nil {
		return models.Settings{}, err
	}
	if err := s.settingsRepo.SetPracticeDefaults(ctx, settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save practice defaults: %w", err)
	}

	slog.Info("practice defaults updated",
		slog.Int("min", settings.Min),
		slog.Int("max", settings.Max),
		slog.Bool("allowDecimal", settings.AllowDecimal),
		slog.Int("decimalPlaces", settings.DecimalPlaces))
	return settings, nil
}
