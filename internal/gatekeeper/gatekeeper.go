// Package gatekeeper admits or rejects whole inbox files before row validation.
//
// Each file passes three checks in a fixed order (extension, novelty,
// emptiness). The first failing check decides the verdict and the file is moved
// to the invalid directory; files that pass every check move to the processed
// directory, which doubles as the registry of names already seen.
package gatekeeper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpattn/csvgate/internal/domain"
)

// DirectoryLister lists the regular files of a directory.
type DirectoryLister interface {
	List(ctx context.Context, dir string) ([]domain.InboxFile, error)
}

// Mover moves a file into a directory and returns its new path.
type Mover interface {
	Move(ctx context.Context, src, dstDir string) (string, error)
}

// Config names the three directories the gatekeeper works with.
type Config struct {
	InboxPath     string
	ProcessedPath string
	InvalidPath   string
}

// Gatekeeper classifies and relocates inbox files.
type Gatekeeper struct {
	cfg    Config
	lister DirectoryLister
	mover  Mover
	log    *slog.Logger
}

// New wires a Gatekeeper.
func New(cfg Config, lister DirectoryLister, mover Mover, log *slog.Logger) *Gatekeeper {
	return &Gatekeeper{
		cfg:    cfg,
		lister: lister,
		mover:  mover,
		log:    log,
	}
}

// Classify applies the file checks to file. seen holds the names already in
// the processed directory.
func Classify(file domain.InboxFile, seen map[string]struct{}) domain.Verdict {
	if !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
		return domain.Reject(file, domain.RejectExtension)
	}
	if _, ok := seen[file.Name]; ok {
		return domain.Reject(file, domain.RejectDuplicate)
	}
	if file.Size == 0 {
		return domain.Reject(file, domain.RejectEmpty)
	}
	return domain.Accept(file)
}

// Run classifies every file in the inbox and moves it to its destination.
// The processed directory is listed once, before any file moves.
// Errors listing either directory abort the run; a failed move is recorded on
// that file's result and the run continues.
func (g *Gatekeeper) Run(ctx context.Context) ([]domain.FileResult, error) {
	seen, err := g.seenNames(ctx)
	if err != nil {
		return nil, err
	}

	inbox, err := g.lister.List(ctx, g.cfg.InboxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	g.log.Info("gatekeeper.scan", "inbox", g.cfg.InboxPath, "files", len(inbox), "seen", len(seen))

	results := make([]domain.FileResult, 0, len(inbox))
	for _, file := range inbox {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, g.admit(ctx, file, seen))
	}
	return results, nil
}

func (g *Gatekeeper) admit(ctx context.Context, file domain.InboxFile, seen map[string]struct{}) domain.FileResult {
	verdict := Classify(file, seen)

	target := g.cfg.ProcessedPath
	if !verdict.Accepted {
		target = g.cfg.InvalidPath
	}

	dst, err := g.mover.Move(ctx, file.Path, target)
	if err != nil {
		g.log.Error("gatekeeper.move_failed",
			"file", file.Name,
			"verdict", verdict.Label(),
			"target", target,
			"error", err,
		)
		return domain.FileResult{Verdict: verdict, Err: fmt.Errorf("failed to move %s: %w", file.Name, err)}
	}
	verdict.Destination = dst

	if verdict.Accepted {
		g.log.Info("gatekeeper.accepted", "file", file.Name, "destination", dst)
	} else {
		g.log.Warn("gatekeeper.rejected", "file", file.Name, "reason", string(verdict.Reason), "destination", dst)
	}
	return domain.FileResult{Verdict: verdict}
}

func (g *Gatekeeper) seenNames(ctx context.Context) (map[string]struct{}, error) {
	processed, err := g.lister.List(ctx, g.cfg.ProcessedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list processed files: %w", err)
	}
	seen := make(map[string]struct{}, len(processed))
	for _, f := range processed {
		seen[f.Name] = struct{}{}
	}
	return seen, nil
}
