package analysis

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	analysis := Analysis{
		ID:             "an-1",
		DocumentID:     "doc-1",
		UserID:         "user-1",
		JobDescription: "Go engineer",
		FileName:       "resume.pdf",
		Provider:       "openai",
		Model:          "mistral-large-3:675b",
		Status:         StatusQueued,
		CreatedAt:      now,
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.DocumentID,
			analysis.UserID,
			analysis.JobDescription,
			analysis.FileName,
			analysis.Provider,
			analysis.Model,
			analysis.Status,
			nil,
			nil,
			nil,
			nil,
			nil,
			analysis.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDDecodesReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	reportJSON := []byte(`{"overall_score": 82, "overall_fit": "Strong match"}`)

	rows := sqlmock.NewRows([]string{
		"id", "document_id", "user_id", "job_description", "file_name",
		"provider", "model", "status", "report", "error_code", "error_message",
		"started_at", "completed_at", "created_at",
	}).AddRow(
		"an-1", "doc-1", "user-1", "Go engineer", "resume.pdf",
		"openai", "mistral-large-3:675b", StatusCompleted, reportJSON, nil, nil,
		now, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id").
		WithArgs("an-1").
		WillReturnRows(rows)

	analysis, err := repo.GetByID(context.Background(), "an-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if analysis.Report == nil || analysis.Report.OverallScore != 82 {
		t.Fatalf("report = %+v, want overall score 82", analysis.Report)
	}
	if analysis.Report.OverallFit != "Strong match" {
		t.Fatalf("overall fit = %q", analysis.Report.OverallFit)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoMarkFailedUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE analyses SET status").
		WithArgs("missing", StatusFailed, ErrorCodeInternal, "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkFailed(context.Background(), "missing", ErrorCodeInternal, "boom", time.Now().UTC()); err != ErrNotFound {
		t.Fatalf("MarkFailed = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
