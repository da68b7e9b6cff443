package repository

import (
	"context"

	"github.com/rpattn/csvgate/internal/domain"

	"github.com/google/uuid"
)

// IngestionLogRepository stores file and row issues for observability.
type IngestionLogRepository interface {
	Record(ctx context.Context, entry domain.IngestionLogEntry) error
	RecordBatch(ctx context.Context, entries []domain.IngestionLogEntry) error
	ListByRun(ctx context.Context, runID uuid.UUID, limit int, offset int) ([]domain.IngestionLogEntry, error)
	ListByFile(ctx context.Context, fileName string, limit int, offset int) ([]domain.IngestionLogEntry, error)
}
