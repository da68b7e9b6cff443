package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/csvgate/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertIngestionLog = `INSERT INTO ingestion_logs (id, run_id, stage, file_name, row_number, issue_type, error_message, created_at)
 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const selectIngestionLogs = `SELECT id, run_id, stage, file_name, row_number, issue_type, error_message, created_at
 FROM ingestion_logs`

type ingestionLogRepository struct {
	pool *pgxpool.Pool
}

// NewIngestionLogRepository wires a repository backed by pgxpool.
func NewIngestionLogRepository(pool *pgxpool.Pool) IngestionLogRepository {
	return &ingestionLogRepository{pool: pool}
}

func (r *ingestionLogRepository) Record(ctx context.Context, entry domain.IngestionLogEntry) error {
	if r.pool == nil {
		return fmt.Errorf("ingestion log repository not initialized")
	}

	_, err := r.pool.Exec(ctx, insertIngestionLog, insertArgs(entry)...)
	if err != nil {
		return fmt.Errorf("failed to record ingestion log: %w", err)
	}

	return nil
}

func (r *ingestionLogRepository) RecordBatch(ctx context.Context, entries []domain.IngestionLogEntry) error {
	if r.pool == nil {
		return fmt.Errorf("ingestion log repository not initialized")
	}
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(insertIngestionLog, insertArgs(entry)...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to record ingestion log %d of %d: %w", i+1, len(entries), err)
		}
	}

	return nil
}

func (r *ingestionLogRepository) ListByRun(ctx context.Context, runID uuid.UUID, limit int, offset int) ([]domain.IngestionLogEntry, error) {
	limit, offset = normalizePage(limit, offset)
	return r.list(ctx,
		selectIngestionLogs+`
		 WHERE run_id = $1
		 ORDER BY created_at ASC, row_number ASC NULLS FIRST
		 LIMIT $2 OFFSET $3`,
		runID, limit, offset,
	)
}

func (r *ingestionLogRepository) ListByFile(ctx context.Context, fileName string, limit int, offset int) ([]domain.IngestionLogEntry, error) {
	limit, offset = normalizePage(limit, offset)
	return r.list(ctx,
		selectIngestionLogs+`
		 WHERE file_name = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		fileName, limit, offset,
	)
}

func (r *ingestionLogRepository) list(ctx context.Context, query string, args ...any) ([]domain.IngestionLogEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("ingestion log repository not initialized")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.IngestionLogEntry{}
	for rows.Next() {
		var (
			entry     domain.IngestionLogEntry
			stage     string
			rowNumber pgtype.Int4
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&stage,
			&entry.FileName,
			&rowNumber,
			&entry.IssueType,
			&entry.ErrorMessage,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ingestion log: %w", scanErr)
		}

		entry.Stage = domain.IngestionStage(stage)
		if rowNumber.Valid {
			value := int(rowNumber.Int32)
			entry.RowNumber = &value
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}

		logs = append(logs, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate ingestion logs: %w", rowsErr)
	}

	return logs, nil
}

func insertArgs(entry domain.IngestionLogEntry) []any {
	var rowNumber any
	if entry.RowNumber != nil {
		rowNumber = *entry.RowNumber
	}

	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return []any{
		id,
		entry.RunID,
		string(entry.Stage),
		entry.FileName,
		rowNumber,
		entry.IssueType,
		entry.ErrorMessage,
		entry.CreatedAt,
	}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
