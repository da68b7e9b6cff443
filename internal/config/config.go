package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rpattn/csvgate/internal/db"
)

// Paths holds the directories the pipeline reads from and writes to.
type Paths struct {
	Inbox     string
	Processed string
	Invalid   string
	Output    string
}

// Log controls the slog handler built at startup.
type Log struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// Config is the full runtime configuration handed to each component at construction.
type Config struct {
	Paths Paths
	Log   Log

	ReportEnabled bool

	DatabaseEnabled bool
	Database        db.Config

	WatchSchedule string
}

// DefaultConfig returns the conventional directory layout relative to the working directory.
func DefaultConfig() Config {
	return Config{
		Paths: Paths{
			Inbox:     "source_files",
			Processed: "processed_files",
			Invalid:   "invalid_files",
			Output:    ".",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		ReportEnabled:   false,
		DatabaseEnabled: false,
		Database:        db.DefaultConfig(),
		WatchSchedule:   "@every 5m",
	}
}

// Validate rejects empty, clashing or unknown settings.
func (c *Config) Validate() error {
	dirs := map[string]string{
		"inbox":     c.Paths.Inbox,
		"processed": c.Paths.Processed,
		"invalid":   c.Paths.Invalid,
		"output":    c.Paths.Output,
	}
	for key, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("paths.%s must not be empty", key)
		}
	}

	inbox := filepath.Clean(c.Paths.Inbox)
	processed := filepath.Clean(c.Paths.Processed)
	invalid := filepath.Clean(c.Paths.Invalid)
	if inbox == processed || inbox == invalid || processed == invalid {
		return errors.New("inbox, processed and invalid directories must be distinct")
	}
	// Artifacts written to the inbox or processed directory would be picked up as input.
	if output := filepath.Clean(c.Paths.Output); output == inbox || output == processed {
		return errors.New("output directory must differ from the inbox and processed directories")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (use debug, info, warn or error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (use text or json)", c.Log.Format)
	}

	if strings.TrimSpace(c.WatchSchedule) == "" {
		return errors.New("watch.schedule must not be empty")
	}
	return nil
}
