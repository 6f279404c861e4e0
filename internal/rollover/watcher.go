// Package rollover notices when the date changes under a running server and
// rebuilds today's list.
package rollover

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/senseflash/internal/logger"
)

// Checker rebuilds today's list when the date has moved on.
type Checker interface {
	RolloverCheck(ctx context.Context) (bool, error)
}

// Watcher runs the check on a fixed interval.
type Watcher struct {
	scheduler *gocron.Scheduler
	checker   Checker
	interval  time.Duration
	log       *logger.Logger
}

// New creates a watcher. Intervals under a second are raised to one second.
func New(checker Checker, interval time.Duration) *Watcher {
	if interval < time.Second {
		interval = time.Second
	}
	return &Watcher{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		interval:  interval,
		log:       logger.Default().WithPrefix("rollover"),
	}
}

// Start schedules the check and returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	ctx = logger.NewContext(ctx, w.log)
	_, err := w.scheduler.Every(w.interval).SingletonMode().Do(func() {
		w.Check(ctx)
	})
	if err != nil {
		return err
	}
	w.log.Info("checking for date rollover every %v", w.interval)
	w.scheduler.StartAsync()
	return nil
}

// Check runs one rollover check. Errors are logged.
func (w *Watcher) Check(ctx context.Context) bool {
	changed, err := w.checker.RolloverCheck(ctx)
	if err != nil {
		w.log.Error("rollover check failed: %v", err)
		return false
	}
	if changed {
		w.log.Info("today's list was rebuilt")
	}
	return changed
}

// Stop terminates the schedule.
func (w *Watcher) Stop() {
	w.scheduler.Stop()
}
