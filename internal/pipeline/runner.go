// Package pipeline runs the gatekeeper and the row validator as one batch.
//
// A run ensures the working directories exist, lets the gatekeeper move every
// inbox file, validates the files it accepted, audits rejections and finally
// writes an optional XLSX report. Only environment failures abort a run; any
// error tied to a single file is kept on that file's result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpattn/csvgate/internal/domain"
	"github.com/rpattn/csvgate/internal/ingestion"
	"github.com/rpattn/csvgate/internal/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Gatekeeper classifies and moves inbox files.
type Gatekeeper interface {
	Run(ctx context.Context) ([]domain.FileResult, error)
}

// Validator validates one accepted file.
type Validator interface {
	Validate(ctx context.Context, req ingestion.Request) (domain.OutputArtifactSet, error)
}

// DirEnsurer creates working directories.
type DirEnsurer interface {
	EnsureDirs(dirs ...string) error
}

// ReportWriter renders a summary into dir and returns the written path.
type ReportWriter func(dir string, summary domain.RunSummary) (string, error)

// Config lists the directories a run needs and where its outputs go.
type Config struct {
	Directories []string
	OutputDir   string
}

// Runner executes pipeline runs.
type Runner struct {
	cfg       Config
	gate      Gatekeeper
	validator Validator
	dirs      DirEnsurer
	logRepo   repository.IngestionLogRepository
	report    ReportWriter
	log       *slog.Logger
	now       func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithIngestionLog audits rejected and failed files in repo.
func WithIngestionLog(repo repository.IngestionLogRepository) Option {
	return func(r *Runner) {
		r.logRepo = repo
	}
}

// WithReport writes a report after every run.
func WithReport(w ReportWriter) Option {
	return func(r *Runner) {
		r.report = w
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner wires a Runner.
func NewRunner(cfg Config, gate Gatekeeper, validator Validator, dirs DirEnsurer, log *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		gate:      gate,
		validator: validator,
		dirs:      dirs,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one full gatekeeper + validation pass.
func (r *Runner) Run(ctx context.Context) (domain.RunSummary, error) {
	summary := domain.NewRunSummary(r.now())
	log := r.log.With("run_id", summary.RunID.String())

	if err := r.dirs.EnsureDirs(r.cfg.Directories...); err != nil {
		return summary, fmt.Errorf("failed to prepare directories: %w", err)
	}

	results, err := r.gate.Run(ctx)
	if err != nil {
		summary.Files = results
		summary.FinishedAt = r.now()
		return summary, fmt.Errorf("file check failed: %w", err)
	}

	for i := range results {
		result := &results[i]
		if result.Err != nil || !result.Verdict.Accepted {
			continue
		}
		if err := ctx.Err(); err != nil {
			// Files already moved stay in processed; the next validate call picks them up.
			summary.Files = results
			summary.FinishedAt = r.now()
			return summary, err
		}
		r.validate(ctx, log, summary.RunID, result)
	}

	summary.Files = results
	r.audit(ctx, log, summary)
	summary.FinishedAt = r.now()
	r.writeReport(log, &summary)

	accepted, rejected, failed := summary.Counts()
	good, bad := summary.RowTotals()
	log.Info("pipeline.finished",
		"accepted", accepted,
		"rejected", rejected,
		"failed", failed,
		"good_rows", good,
		"bad_rows", bad,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String(),
	)
	return summary, nil
}

// Revalidate runs only the row validator over paths, outside the gatekeeper.
func (r *Runner) Revalidate(ctx context.Context, paths []string) (domain.RunSummary, error) {
	summary := domain.NewRunSummary(r.now())
	log := r.log.With("run_id", summary.RunID.String())

	if err := r.dirs.EnsureDirs(r.cfg.OutputDir); err != nil {
		return summary, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = r.now()
			return summary, err
		}
		file := domain.InboxFile{Name: filepath.Base(path), Path: path}
		result := domain.FileResult{Verdict: domain.Accept(file)}
		result.Verdict.Destination = path
		r.validate(ctx, log, summary.RunID, &result)
		summary.Files = append(summary.Files, result)
	}

	r.audit(ctx, log, summary)
	summary.FinishedAt = r.now()
	r.writeReport(log, &summary)
	return summary, nil
}

func (r *Runner) validate(ctx context.Context, log *slog.Logger, runID uuid.UUID, result *domain.FileResult) {
	artifacts, err := r.validator.Validate(ctx, ingestion.Request{
		RunID: runID,
		Path:  result.Verdict.Destination,
	})
	if err != nil {
		log.Error("pipeline.validate_failed", "file", result.Verdict.File.Name, "error", err)
		result.Err = err
		result.FailedStage = domain.StageDataQuality
		return
	}
	result.Artifacts = &artifacts
}

func (r *Runner) audit(ctx context.Context, log *slog.Logger, summary domain.RunSummary) {
	if r.logRepo == nil {
		return
	}

	var entries []domain.IngestionLogEntry
	for _, result := range summary.Files {
		name := result.Verdict.File.Name
		switch {
		case result.Err != nil:
			entries = append(entries, domain.FileIssueEntry(summary.RunID, result.ErrorStage(), name, IssueType(result.Err), result.Err.Error()))
		case !result.Verdict.Accepted:
			entries = append(entries, domain.FileIssueEntry(summary.RunID, domain.StageFileCheck, name, string(result.Verdict.Reason), result.Verdict.Err().Error()))
		}
	}

	var err error
	switch len(entries) {
	case 0:
		return
	case 1:
		err = r.logRepo.Record(ctx, entries[0])
	default:
		err = r.logRepo.RecordBatch(ctx, entries)
	}
	if err != nil {
		log.Warn("pipeline.audit_failed", "entries", len(entries), "error", err)
	}
}

func (r *Runner) writeReport(log *slog.Logger, summary *domain.RunSummary) {
	if r.report == nil {
		return
	}
	path, err := r.report(r.cfg.OutputDir, *summary)
	if err != nil {
		log.Warn("pipeline.report_failed", "error", err)
		return
	}
	summary.ReportPath = path
	log.Info("pipeline.report_written", "path", path)
}

// IssueType classifies a file error for the audit log.
func IssueType(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedData):
		return "malformed_data"
	case errors.Is(err, domain.ErrIO):
		return "io_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

// FileErrors folds every per-file error of summary into one error, or nil.
func FileErrors(summary domain.RunSummary) error {
	var result *multierror.Error
	for _, f := range summary.Files {
		if f.Err != nil {
			result = multierror.Append(result, f.Err)
		}
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = func(errs []error) string {
		lines := make([]string, len(errs))
		for i, err := range errs {
			lines[i] = err.Error()
		}
		return fmt.Sprintf("%d file(s) failed: %s", len(errs), strings.Join(lines, "; "))
	}
	return result.ErrorOrNil()
}
