package analysis

import (
	"context"
	"time"
)

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	MarkProcessing(ctx context.Context, analysisID string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, analysisID string, report *Report, completedAt time.Time) error
	MarkFailed(ctx context.Context, analysisID, code, message string, completedAt time.Time) error
}
