package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo persists analyses in Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis row.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	reportJSON, err := marshalReport(analysis.Report)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO analyses (id, document_id, user_id, job_description, file_name, provider, model, status, report, error_code, error_message, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		analysis.ID,
		analysis.DocumentID,
		analysis.UserID,
		analysis.JobDescription,
		analysis.FileName,
		analysis.Provider,
		analysis.Model,
		analysis.Status,
		reportJSON,
		analysis.ErrorCode,
		analysis.ErrorMessage,
		analysis.StartedAt,
		analysis.CompletedAt,
		analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

const analysisColumns = `id, document_id, user_id, job_description, file_name, provider, model, status, report, error_code, error_message, started_at, completed_at, created_at`

// GetByID returns an analysis by its ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, analysisID)
	return scanAnalysis(row)
}

// ListByUser returns analyses for a user, newest first, with limit/offset.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

// MarkProcessing transitions the analysis to processing.
func (r *PGRepo) MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	return r.exec(ctx,
		`UPDATE analyses SET status = $2, started_at = $3 WHERE id = $1`,
		analysisID, StatusProcessing, startedAt)
}

// MarkCompleted stores the finished report.
func (r *PGRepo) MarkCompleted(ctx context.Context, analysisID string, report *Report, completedAt time.Time) error {
	reportJSON, err := marshalReport(report)
	if err != nil {
		return err
	}
	return r.exec(ctx,
		`UPDATE analyses SET status = $2, report = $3, completed_at = $4 WHERE id = $1`,
		analysisID, StatusCompleted, reportJSON, completedAt)
}

// MarkFailed records a terminal failure with a classified error code.
func (r *PGRepo) MarkFailed(ctx context.Context, analysisID, code, message string, completedAt time.Time) error {
	return r.exec(ctx,
		`UPDATE analyses SET status = $2, error_code = $3, error_message = $4, completed_at = $5 WHERE id = $1`,
		analysisID, StatusFailed, code, message, completedAt)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var reportJSON []byte
	err := row.Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&analysis.UserID,
		&analysis.JobDescription,
		&analysis.FileName,
		&analysis.Provider,
		&analysis.Model,
		&analysis.Status,
		&reportJSON,
		&analysis.ErrorCode,
		&analysis.ErrorMessage,
		&analysis.StartedAt,
		&analysis.CompletedAt,
		&analysis.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("scan analysis: %w", err)
	}
	if len(reportJSON) > 0 {
		var report Report
		if err := json.Unmarshal(reportJSON, &report); err != nil {
			return Analysis{}, fmt.Errorf("decode report: %w", err)
		}
		analysis.Report = &report
	}
	return analysis, nil
}

// marshalReport returns an untyped nil for an absent report so the driver
// stores SQL NULL instead of an empty jsonb value.
func marshalReport(report *Report) (any, error) {
	if report == nil {
		return nil, nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

var _ Repo = (*PGRepo)(nil)
