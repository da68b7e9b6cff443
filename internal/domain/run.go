package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileResult is everything a run learned about one inbox file.
type FileResult struct {
	Verdict     Verdict            `json:"verdict"`
	Artifacts   *OutputArtifactSet `json:"artifacts,omitempty"`
	Err         error              `json:"-"`
	FailedStage IngestionStage     `json:"failed_stage,omitempty"` // stage that produced Err; empty means file_check
}

// ErrorStage returns the stage Err was raised in.
func (r FileResult) ErrorStage() IngestionStage {
	if r.FailedStage == "" {
		return StageFileCheck
	}
	return r.FailedStage
}

// ErrorMessage returns the file error text, or an empty string.
func (r FileResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// RunSummary aggregates a single pipeline run.
type RunSummary struct {
	RunID      uuid.UUID    `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Files      []FileResult `json:"files"`
	ReportPath string       `json:"report_path,omitempty"`
}

// NewRunSummary starts a summary stamped with a fresh run ID.
func NewRunSummary(now time.Time) RunSummary {
	return RunSummary{
		RunID:     uuid.New(),
		StartedAt: now,
		Files:     []FileResult{},
	}
}

// Counts returns accepted, rejected and failed file totals.
func (s RunSummary) Counts() (accepted, rejected, failed int) {
	for _, f := range s.Files {
		switch {
		case f.Err != nil:
			failed++
		case f.Verdict.Accepted:
			accepted++
		default:
			rejected++
		}
	}
	return accepted, rejected, failed
}

// RowTotals returns good and bad row totals across validated files.
func (s RunSummary) RowTotals() (good, bad int) {
	for _, f := range s.Files {
		if f.Artifacts == nil {
			continue
		}
		good += f.Artifacts.GoodRows
		bad += f.Artifacts.BadRows
	}
	return good, bad
}
