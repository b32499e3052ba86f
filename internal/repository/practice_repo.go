package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"zahlentrainer/internal/database"
	"zahlentrainer/internal/models"
)

const recordColumns = `id, practiced_at, number, german_word, user_answer, is_correct, time_spent, settings`

// PracticeRepository handles practice history database operations
type PracticeRepository struct {
	db database.DBTX
}

// NewPracticeRepository creates a new practice repository
func NewPracticeRepository(db database.DBTX) *PracticeRepository {
	return &PracticeRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PracticeRepository) WithTx(tx *database.Tx) *PracticeRepository {
	return &PracticeRepository{db: tx}
}

// Save inserts a practice record
func (r *PracticeRepository) Save(ctx context.Context, record models.PracticeRecord) error {
	query := `
		INSERT INTO practice_history (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	args, err := recordArgs(record)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// ImportRecord inserts a record unless one with the same ID exists.
// It reports whether a row was written.
func (r *PracticeRepository) ImportRecord(ctx context.Context, record models.PracticeRecord) (bool, error) {
	query := r.db.GetDialect().InsertIgnore(
		`INSERT INTO practice_history (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	args, err := recordArgs(record)
	if err != nil {
		return false, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func recordArgs(record models.PracticeRecord) ([]any, error) {
	settings, err := json.Marshal(record.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return []any{
		record.ID,
		record.Timestamp.UTC(),
		record.Number,
		record.GermanWord,
		record.UserAnswer,
		record.IsCorrect,
		record.TimeSpent,
		string(settings),
	}, nil
}

// Get retrieves a record by ID
func (r *PracticeRepository) Get(ctx context.Context, id string) (*models.PracticeRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM practice_history WHERE id = ?`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("practice record %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns a page of records, newest first
func (r *PracticeRepository) List(ctx context.Context, limit, offset int) (*models.HistoryPage, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + recordColumns + `
		FROM practice_history
		ORDER BY practiced_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	records, err := r.queryRecords(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return &models.HistoryPage{
		Records: records,
		Total:   total,
		HasMore: offset+limit < total,
	}, nil
}

// All returns every record, oldest first
func (r *PracticeRepository) All(ctx context.Context) ([]models.PracticeRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM practice_history
		ORDER BY practiced_at ASC, id ASC
	`
	return r.queryRecords(ctx, query)
}

// RecentCorrectness returns the is_correct flags of all records, oldest first
func (r *PracticeRepository) RecentCorrectness(ctx context.Context) ([]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT is_correct FROM practice_history ORDER BY practiced_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flags []bool
	for rows.Next() {
		var ok bool
		if err := rows.Scan(&ok); err != nil {
			return nil, err
		}
		flags = append(flags, ok)
	}
	return flags, rows.Err()
}

// Count returns the number of stored records
func (r *PracticeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM practice_history`).Scan(&count)
	return count, err
}

// Clear deletes all records and returns how many were removed
func (r *PracticeRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM practice_history`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Trim deletes all but the newest keep records
func (r *PracticeRepository) Trim(ctx context.Context, keep int) (int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	excess := total - keep
	if excess <= 0 {
		return 0, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM practice_history
		ORDER BY practiced_at ASC, id ASC
		LIMIT ?
	`, excess)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	var deleted int64
	for _, id := range ids {
		result, err := r.db.ExecContext(ctx, `DELETE FROM practice_history WHERE id = ?`, id)
		if err != nil {
			return deleted, err
		}
		n, _ := result.RowsAffected()
		deleted += n
	}
	return deleted, nil
}

// Statistics aggregates totals, accuracy and average answer times
func (r *PracticeRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_correct THEN 0 ELSE 1 END), 0),
			AVG(CASE WHEN is_correct AND time_spent > 0 THEN time_spent END),
			AVG(CASE WHEN NOT is_correct AND time_spent > 0 THEN time_spent END)
		FROM practice_history
	`

	var stats models.Statistics
	var avgCorrect, avgIncorrect sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Correct,
		&stats.Incorrect,
		&avgCorrect,
		&avgIncorrect,
	)
	if err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		stats.Accuracy = int(math.Round(float64(stats.Correct) / float64(stats.Total) * 100))
	}
	if avgCorrect.Valid {
		stats.AvgCorrectTime = int(math.Round(avgCorrect.Float64))
	}
	if avgIncorrect.Valid {
		stats.AvgIncorrectTime = int(math.Round(avgIncorrect.Float64))
	}

	return &stats, nil
}

func (r *PracticeRepository) queryRecords(ctx context.Context, query string, args ...any) ([]models.PracticeRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.PracticeRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.PracticeRecord, error) {
	var record models.PracticeRecord
	var settings string

	err := s.Scan(
		&record.ID,
		&record.Timestamp,
		&record.Number,
		&record.GermanWord,
		&record.UserAnswer,
		&record.IsCorrect,
		&record.TimeSpent,
		&settings,
	)
	if err != nil {
		return nil, err
	}

	if settings != "" {
		if err := json.Unmarshal([]byte(settings), &record.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings for %s: %w", record.ID, err)
		}
	}
	record.Timestamp = record.Timestamp.UTC()

	return &record, nil
}
