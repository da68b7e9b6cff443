package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestionStage identifies which pipeline stage produced a log entry.
type IngestionStage string

const (
	StageFileCheck   IngestionStage = "file_check"
	StageDataQuality IngestionStage = "data_quality"
)

// IngestionLogEntry captures file and row level issues raised during a run.
type IngestionLogEntry struct {
	ID           uuid.UUID      `json:"id"`
	RunID        uuid.UUID      `json:"run_id"`
	Stage        IngestionStage `json:"stage"`
	FileName     string         `json:"file_name"`
	RowNumber    *int           `json:"row_number,omitempty"`
	IssueType    string         `json:"issue_type"`
	ErrorMessage string         `json:"error_message"`
	CreatedAt    time.Time      `json:"created_at"`
}

// FileIssueEntry builds a log entry for a rejected or failed file raised in stage.
func FileIssueEntry(runID uuid.UUID, stage IngestionStage, fileName, issueType, message string) IngestionLogEntry {
	return IngestionLogEntry{
		ID:           uuid.New(),
		RunID:        runID,
		Stage:        stage,
		FileName:     fileName,
		IssueType:    issueType,
		ErrorMessage: message,
		CreatedAt:    time.Now().UTC(),
	}
}

// RowIssueEntry builds a log entry for a rejected row.
func RowIssueEntry(runID uuid.UUID, fileName string, issue RowIssue) IngestionLogEntry {
	rowNumber := issue.RowNumber
	return IngestionLogEntry{
		ID:           uuid.New(),
		RunID:        runID,
		Stage:        StageDataQuality,
		FileName:     fileName,
		RowNumber:    &rowNumber,
		IssueType:    string(issue.Reason),
		ErrorMessage: "row rejected: " + string(issue.Reason),
		CreatedAt:    time.Now().UTC(),
	}
}
