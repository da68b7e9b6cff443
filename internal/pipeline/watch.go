package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RunFunc is one scheduled unit of work.
type RunFunc func(ctx context.Context)

// Watch invokes run on schedule until ctx is cancelled. A tick that fires while
// the previous run is still busy is skipped, so runs never overlap and the
// gatekeeper stays the single writer of its directories. Watch returns after
// the in-flight run, if any, has finished.
func Watch(ctx context.Context, schedule string, run RunFunc, log *slog.Logger) error {
	logger := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	if _, err := c.AddFunc(schedule, func() { run(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	log.Info("watch.started", "schedule", schedule)
	c.Start()

	<-ctx.Done()
	log.Info("watch.stopping")
	<-c.Stop().Done()
	log.Info("watch.stopped")
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron."+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron."+msg, append(keysAndValues, "error", err)...)
}
