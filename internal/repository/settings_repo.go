package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"zahlentrainer/internal/database"
	"zahlentrainer/internal/models"
)

const practiceDefaultsKey = "practice_defaults"

type SettingsRepository struct {
	db database.DBTX
}

func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT setting_value FROM app_settings WHERE setting_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %s: %w", key, models.ErrNotFound)
	}
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertSettingQuery(), key, value)
	return err
}

// PracticeDefaults returns the stored default generation settings, falling
// back to models.DefaultSettings when none were saved
func (r *SettingsRepository) PracticeDefaults(ctx context.Context) (models.Settings, error) {
	value, err := r.GetSetting(ctx, practiceDefaultsKey)
	if errors.Is(err, models.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}

	settings := models.DefaultSettings()
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to decode practice defaults: %w", err)
	}
	return settings, nil
}

// SetPracticeDefaults stores the default generation settings
func (r *SettingsRepository) SetPracticeDefaults(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode practice defaults: %w", err)
	}
	return r.SetSetting(ctx, practiceDefaultsKey, string(data))
}
