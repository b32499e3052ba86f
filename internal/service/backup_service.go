package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"zahlentrainer/internal/database"
	"zahlentrainer/internal/models"
	"zahlentrainer/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete practice history backup
type BackupData struct {
	Version      string                  `json:"version"`
	ExportedAt   time.Time               `json:"exportedAt"`
	DatabaseType string                  `json:"databaseType"`
	Records      []models.PracticeRecord `json:"records"`
}

// ImportSummary reports what an import changed
type ImportSummary struct {
	Cleared  int64 `json:"cleared"`
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
}

// BackupService handles practice history backup and restore
type BackupService struct {
	db           *database.DB
	practiceRepo *repository.PracticeRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:           db,
		practiceRepo: repository.NewPracticeRepository(db),
	}
}

// Export writes every record as indented JSON, oldest first
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	records, err := s.practiceRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export practice history: %w", err)
	}

	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.Name(),
		Records:      records,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	return backup, nil
}

// ExportToFile creates a backup file at outputPath
func (s *BackupService) ExportToFile(ctx context.Context, outputPath string) (*BackupData, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.Export(ctx, file)
	if err != nil {
		return nil, err
	}

	slog.Info("practice history exported",
		slog.String("file", outputPath),
		slog.Int("records", len(backup.Records)))
	return backup, nil
}

// Import restores records from a JSON backup in a single transaction. With
// clear set, the existing history is deleted first; otherwise records whose
// id already exists are skipped.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) (*ImportSummary, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("%w: failed to decode backup: %v", models.ErrInvalidInput, err)
	}

	for i, record := range backup.Records {
		if record.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", models.ErrInvalidInput, i)
		}
	}

	slog.Info("importing practice history",
		slog.String("version", backup.Version),
		slog.Time("exportedAt", backup.ExportedAt),
		slog.String("source", backup.DatabaseType),
		slog.Int("records", len(backup.Records)))

	summary := &ImportSummary{}
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.practiceRepo.WithTx(tx)

		if clear {
			deleted, err := repo.Clear(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			summary.Cleared = deleted
		}

		for _, record := range backup.Records {
			written, err := repo.ImportRecord(ctx, record)
			if err != nil {
				return fmt.Errorf("failed to import record %s: %w", record.ID, err)
			}
			if written {
				summary.Imported++
			} else {
				summary.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("practice history import completed",
		slog.Int64("cleared", summary.Cleared),
		slog.Int("imported", summary.Imported),
		slog.Int("skipped", summary.Skipped))
	return summary, nil
}

// ImportFromFile restores records from the backup file at inputPath
func (s *BackupService) ImportFromFile(ctx context.Context, inputPath string, clear bool) (*ImportSummary, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.Import(ctx, file, clear)
}
