// Package fsdir adapts the gatekeeper and pipeline to the local filesystem.
package fsdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rpattn/csvgate/internal/domain"
)

// Store lists and moves files on the local filesystem.
type Store struct {
	log *slog.Logger
}

// NewStore returns a Store that reports skipped entries to log.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{log: log}
}

// List returns the regular files directly inside dir, sorted by name.
// Subdirectories and other non-regular entries are skipped.
func (s *Store) List(ctx context.Context, dir string) ([]domain.InboxFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.IOError{Op: "list", Path: dir, Err: err}
	}

	files := make([]domain.InboxFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := s.stat(dir, entry)
		if err != nil {
			s.log.Warn("fsdir.stat_failed", "dir", dir, "entry", entry.Name(), "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			s.log.Warn("fsdir.skipped", "dir", dir, "entry", entry.Name(), "mode", info.Mode().String())
			continue
		}

		files = append(files, domain.NewInboxFile(dir, entry.Name(), info.Size()))
	}
	return files, nil
}

func (s *Store) stat(dir string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(filepath.Join(dir, entry.Name()))
	}
	return entry.Info()
}

// Move relocates src into dstDir keeping its base name and returns the new path.
// A rename across devices falls back to copy then remove.
func (s *Store) Move(ctx context.Context, src, dstDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(dstDir, filepath.Base(src))
	err := os.Rename(src, dst)
	if err == nil {
		return dst, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", &domain.IOError{Op: "move", Path: src, Err: err}
	}

	s.log.Debug("fsdir.cross_device_move", "src", src, "dst", dst)
	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return "", &domain.IOError{Op: "copy", Path: src, Err: err}
	}
	if err := os.Remove(src); err != nil {
		return dst, &domain.IOError{Op: "remove", Path: src, Err: err}
	}
	return dst, nil
}

// EnsureDirs creates every directory in dirs.
func (s *Store) EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync: %w", err)
	}
	return out.Close()
}
