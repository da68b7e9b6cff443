package gatekeeper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rpattn/csvgate/internal/domain"
	"github.com/rpattn/csvgate/internal/fsdir"
	"github.com/rpattn/csvgate/internal/logging"
)

const (
	inbox     = "source_files"
	processed = "processed_files"
	invalid   = "invalid_files"
)

var testConfig = Config{InboxPath: inbox, ProcessedPath: processed, InvalidPath: invalid}

// memFS is an in-memory DirectoryLister and Mover keyed by dir then name.
type memFS struct {
	dirs     map[string]map[string]int64
	failMove map[string]error
	listErr  map[string]error
	moves    int
}

func newMemFS() *memFS {
	return &memFS{
		dirs: map[string]map[string]int64{
			inbox:     {},
			processed: {},
			invalid:   {},
		},
		failMove: map[string]error{},
		listErr:  map[string]error{},
	}
}

func (m *memFS) List(ctx context.Context, dir string) ([]domain.InboxFile, error) {
	if err := m.listErr[dir]; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.dirs[dir]))
	for name := range m.dirs[dir] {
		names = append(names, name)
	}
	sort.Strings(names)

	files := make([]domain.InboxFile, 0, len(names))
	for _, name := range names {
		files = append(files, domain.NewInboxFile(dir, name, m.dirs[dir][name]))
	}
	return files, nil
}

func (m *memFS) Move(ctx context.Context, src, dstDir string) (string, error) {
	m.moves++
	dir, name := filepath.Dir(src), filepath.Base(src)
	if err := m.failMove[name]; err != nil {
		return "", err
	}
	size, ok := m.dirs[dir][name]
	if !ok {
		return "", os.ErrNotExist
	}
	delete(m.dirs[dir], name)
	m.dirs[dstDir][name] = size
	return filepath.Join(dstDir, name), nil
}

func (m *memFS) has(dir, name string) bool {
	_, ok := m.dirs[dir][name]
	return ok
}

var (
	_ DirectoryLister = (*memFS)(nil)
	_ Mover           = (*memFS)(nil)
)

func TestClassifyOrder(t *testing.T) {
	seen := map[string]struct{}{"dup.csv": {}, "dup.txt": {}}

	tests := []struct {
		name         string
		file         domain.InboxFile
		wantAccepted bool
		wantReason   domain.RejectReason
	}{
		{"accepted", domain.InboxFile{Name: "zomato.csv", Size: 10}, true, domain.RejectNone},
		{"upper case extension", domain.InboxFile{Name: "ZOMATO.CSV", Size: 10}, true, domain.RejectNone},
		{"wrong extension", domain.InboxFile{Name: "zomato.json", Size: 10}, false, domain.RejectExtension},
		{"no extension", domain.InboxFile{Name: "csv", Size: 10}, false, domain.RejectExtension},
		{"csv inside name", domain.InboxFile{Name: "data.csv.bak", Size: 10}, false, domain.RejectExtension},
		{"extension wins over duplicate", domain.InboxFile{Name: "dup.txt", Size: 0}, false, domain.RejectExtension},
		{"duplicate", domain.InboxFile{Name: "dup.csv", Size: 10}, false, domain.RejectDuplicate},
		{"duplicate wins over empty", domain.InboxFile{Name: "dup.csv", Size: 0}, false, domain.RejectDuplicate},
		{"empty", domain.InboxFile{Name: "empty.csv", Size: 0}, false, domain.RejectEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Classify(tt.file, seen)
			if verdict.Accepted != tt.wantAccepted || verdict.Reason != tt.wantReason {
				t.Fatalf("Classify(%+v) = accepted %v reason %q, want %v %q",
					tt.file, verdict.Accepted, verdict.Reason, tt.wantAccepted, tt.wantReason)
			}
		})
	}
}

func TestClassifyNoveltyIsCaseSensitiveOnName(t *testing.T) {
	seen := map[string]struct{}{"Data.csv": {}}
	if verdict := Classify(domain.InboxFile{Name: "data.csv", Size: 1}, seen); !verdict.Accepted {
		t.Fatalf("different name should be novel, got reason %q", verdict.Reason)
	}
}

func TestRunRoutesEveryFileToOneDestination(t *testing.T) {
	fs := newMemFS()
	fs.dirs[inbox]["good.csv"] = 120
	fs.dirs[inbox]["notes.txt"] = 50
	fs.dirs[inbox]["empty.csv"] = 0
	fs.dirs[inbox]["seen.csv"] = 80
	fs.dirs[processed]["seen.csv"] = 75

	gk := New(testConfig, fs, fs, logging.Discard())
	results, err := gk.Run(context.Background())
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if len(fs.dirs[inbox]) != 0 {
		t.Fatalf("inbox should be empty after run, has %v", fs.dirs[inbox])
	}
	if !fs.has(processed, "good.csv") || fs.has(invalid, "good.csv") {
		t.Fatalf("good.csv should be only in processed")
	}
	for _, name := range []string{"notes.txt", "empty.csv"} {
		if !fs.has(invalid, name) || fs.has(processed, name) {
			t.Fatalf("%s should be only in invalid", name)
		}
	}
	if !fs.has(invalid, "seen.csv") {
		t.Fatalf("duplicate should be routed to invalid")
	}
	if fs.dirs[processed]["seen.csv"] != 75 {
		t.Fatalf("previously processed file must not be replaced")
	}

	reasons := map[string]domain.RejectReason{}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("unexpected error for %s: %v", r.Verdict.File.Name, r.Err)
		}
		reasons[r.Verdict.File.Name] = r.Verdict.Reason
	}
	want := map[string]domain.RejectReason{
		"good.csv":  domain.RejectNone,
		"notes.txt": domain.RejectExtension,
		"empty.csv": domain.RejectEmpty,
		"seen.csv":  domain.RejectDuplicate,
	}
	for name, reason := range want {
		if reasons[name] != reason {
			t.Fatalf("%s: reason %q, want %q", name, reasons[name], reason)
		}
	}
}

func TestRunIsolatesMoveFailures(t *testing.T) {
	fs := newMemFS()
	fs.dirs[inbox]["a.csv"] = 10
	fs.dirs[inbox]["b.csv"] = 10
	fs.failMove["a.csv"] = &domain.IOError{Op: "move", Path: "a.csv", Err: os.ErrPermission}

	results, err := New(testConfig, fs, fs, logging.Discard()).Run(context.Background())
	if err != nil {
		t.Fatalf("move failure must not abort the batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err == nil || !errors.Is(results[0].Err, domain.ErrIO) {
		t.Fatalf("expected io error on a.csv, got %v", results[0].Err)
	}
	if results[1].Err != nil || !fs.has(processed, "b.csv") {
		t.Fatalf("b.csv should still be processed: %+v", results[1])
	}
	if results[1].Verdict.Destination != filepath.Join(processed, "b.csv") {
		t.Fatalf("unexpected destination %q", results[1].Verdict.Destination)
	}
}

func TestRunAbortsWhenInboxUnreadable(t *testing.T) {
	fs := newMemFS()
	fs.listErr[inbox] = os.ErrPermission

	if _, err := New(testConfig, fs, fs, logging.Discard()).Run(context.Background()); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if fs.moves != 0 {
		t.Fatalf("no file should move when the inbox cannot be listed")
	}
}

func TestRunAbortsWhenProcessedUnreadable(t *testing.T) {
	fs := newMemFS()
	fs.dirs[inbox]["a.csv"] = 10
	fs.listErr[processed] = os.ErrNotExist

	if _, err := New(testConfig, fs, fs, logging.Discard()).Run(context.Background()); err == nil {
		t.Fatalf("expected error when processed registry is unreadable")
	}
	if !fs.has(inbox, "a.csv") {
		t.Fatalf("file should stay in inbox when novelty cannot be decided")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	fs := newMemFS()
	fs.dirs[inbox]["a.csv"] = 10

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(testConfig, fs, fs, logging.Discard()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 || fs.moves != 0 {
		t.Fatalf("no file should be handled after cancellation")
	}
}

func TestRunOnRealFilesystem(t *testing.T) {
	root := t.TempDir()
	cfg := Config{
		InboxPath:     filepath.Join(root, inbox),
		ProcessedPath: filepath.Join(root, processed),
		InvalidPath:   filepath.Join(root, invalid),
	}
	store := fsdir.NewStore(logging.Discard())
	if err := store.EnsureDirs(cfg.InboxPath, cfg.ProcessedPath, cfg.InvalidPath); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	files := map[string]string{
		"restaurants.csv": "name,phone,location,address,reviews_list\n",
		"empty.csv":       "",
		"image.png":       "png",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(cfg.InboxPath, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	results, err := New(cfg, store, store, logging.Discard()).Run(context.Background())
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	assertExists(t, filepath.Join(cfg.ProcessedPath, "restaurants.csv"))
	assertExists(t, filepath.Join(cfg.InvalidPath, "empty.csv"))
	assertExists(t, filepath.Join(cfg.InvalidPath, "image.png"))

	left, err := os.ReadDir(cfg.InboxPath)
	if err != nil {
		t.Fatalf("read inbox: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("inbox should be empty, has %d entries", len(left))
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}
