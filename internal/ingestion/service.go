// Package ingestion validates and cleans the rows of accepted CSV files.
package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpattn/csvgate/internal/domain"
	"github.com/rpattn/csvgate/internal/repository"

	"github.com/google/uuid"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// MetadataHeader is the header row of every bad_<file>_metadata.csv.
var MetadataHeader = []string{"Type_of_issue", "Row_num_list"}

// Service validates accepted files and writes their artifacts.
type Service struct {
	outputDir string
	logRepo   repository.IngestionLogRepository
	log       *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithOutputDirectory sets where artifacts are written. Defaults to ".".
func WithOutputDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.outputDir = filepath.Clean(dir)
		}
	}
}

// WithIngestionLog records every rejected row in repo.
func WithIngestionLog(repo repository.IngestionLogRepository) Option {
	return func(s *Service) {
		s.logRepo = repo
	}
}

// NewService creates a new ingestion service.
func NewService(log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		outputDir: ".",
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request describes one file to validate.
type Request struct {
	RunID uuid.UUID
	Path  string
}

type tableData struct {
	headers []string
	rows    [][]string
}

// ArtifactPaths returns the clean, bad and metadata paths for fileName inside dir.
func ArtifactPaths(dir, fileName string) (clean, bad, metadata string) {
	return filepath.Join(dir, "clean_"+fileName+".out"),
		filepath.Join(dir, "bad_"+fileName+".bad"),
		filepath.Join(dir, "bad_"+fileName+"_metadata.csv")
}

// Validate reads the file at req.Path, validates every row and writes the
// three artifacts. Errors are per file: an *domain.IOError or a
// *domain.MalformedDataError.
func (s *Service) Validate(ctx context.Context, req Request) (domain.OutputArtifactSet, error) {
	fileName := filepath.Base(req.Path)

	f, err := os.Open(req.Path)
	if err != nil {
		return domain.OutputArtifactSet{}, &domain.IOError{Op: "open", Path: req.Path, Err: err}
	}
	defer f.Close()

	table, err := parseCSV(fileName, f)
	if err != nil {
		return domain.OutputArtifactSet{}, err
	}

	outcomes := make([]domain.ValidationOutcome, 0, len(table.rows))
	for idx, values := range table.rows {
		if err := ctx.Err(); err != nil {
			return domain.OutputArtifactSet{}, err
		}
		outcomes = append(outcomes, ValidateRow(domain.NewRow(idx, table.headers, values)))
	}
	partition := PartitionOutcomes(outcomes)

	artifacts, err := s.writeArtifacts(fileName, table.headers, partition)
	if err != nil {
		return domain.OutputArtifactSet{}, err
	}
	artifacts.Source = req.Path

	s.log.Info("ingestion.validated",
		"file", fileName,
		"rows", artifacts.TotalRows(),
		"good", artifacts.GoodRows,
		"bad", artifacts.BadRows,
	)
	s.recordIssues(ctx, req.RunID, fileName, partition.Issues)

	return artifacts, nil
}

func parseCSV(fileName string, r io.Reader) (tableData, error) {
	reader := bufio.NewReader(r)
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return tableData{}, &domain.MalformedDataError{File: fileName, Detail: "failed to read csv", Err: err}
		}
		return tableData{}, &domain.IOError{Op: "read", Path: fileName, Err: err}
	}
	if len(records) == 0 {
		return tableData{}, &domain.MalformedDataError{File: fileName, Detail: "no header row detected"}
	}

	headers := make([]string, len(records[0]))
	for i, value := range records[0] {
		headers[i] = strings.TrimSpace(value)
	}
	if missing := missingColumns(headers); len(missing) > 0 {
		return tableData{}, &domain.MalformedDataError{
			File:   fileName,
			Detail: "missing required columns: " + strings.Join(missing, ", "),
		}
	}

	rows := records[1:]
	for idx, row := range rows {
		if len(row) > len(headers) {
			return tableData{}, &domain.MalformedDataError{
				File:   fileName,
				Detail: fmt.Sprintf("data row %d has %d fields, header has %d", idx, len(row), len(headers)),
			}
		}
	}

	return tableData{headers: headers, rows: rows}, nil
}

func missingColumns(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	var missing []string
	for _, required := range domain.RequiredColumns {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

func (s *Service) writeArtifacts(fileName string, headers []string, p Partition) (domain.OutputArtifactSet, error) {
	cleanPath, badPath, metadataPath := ArtifactPaths(s.outputDir, fileName)

	if err := writeCSV(cleanPath, headers, rowValues(p.Good)); err != nil {
		return domain.OutputArtifactSet{}, err
	}
	if err := writeCSV(badPath, headers, rowValues(p.Bad)); err != nil {
		return domain.OutputArtifactSet{}, err
	}

	metadata := make([][]string, 0, len(p.Issues))
	for _, issue := range p.Issues {
		metadata = append(metadata, []string{string(issue.Reason), fmt.Sprintf("%d", issue.RowNumber)})
	}
	if err := writeCSV(metadataPath, MetadataHeader, metadata); err != nil {
		return domain.OutputArtifactSet{}, err
	}

	return domain.OutputArtifactSet{
		CleanPath:    cleanPath,
		BadPath:      badPath,
		MetadataPath: metadataPath,
		GoodRows:     len(p.Good),
		BadRows:      len(p.Bad),
		Issues:       p.Issues,
	}, nil
}

func rowValues(rows []domain.Row) [][]string {
	values := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = row.Values
	}
	return values
}

// writeCSV replaces path with header and records. The content goes to a
// temporary file in the same directory first so readers never see a partial file.
func writeCSV(path string, header []string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &domain.IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		_ = tmp.Close()
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := w.WriteAll(records); err != nil {
		_ = tmp.Close()
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &domain.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func (s *Service) recordIssues(ctx context.Context, runID uuid.UUID, fileName string, issues []domain.RowIssue) {
	if s.logRepo == nil || len(issues) == 0 {
		return
	}
	entries := make([]domain.IngestionLogEntry, 0, len(issues))
	for _, issue := range issues {
		entries = append(entries, domain.RowIssueEntry(runID, fileName, issue))
	}
	if err := s.logRepo.RecordBatch(ctx, entries); err != nil {
		s.log.Warn("ingestion.audit_failed", "file", fileName, "entries", len(entries), "error", err)
	}
}
