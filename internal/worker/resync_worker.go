// Package worker runs queued mirror maintenance jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"financeiro/internal/amqp"
	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/services"
)

// Rebuilder rebuilds one month sheet from the primary store.
type Rebuilder interface {
	Month(ctx context.Context, key core.SheetKey) (services.ResyncReport, error)
}

// ResyncWorker handles resync requests delivered over AMQP.
type ResyncWorker struct {
	rebuilder Rebuilder
	timeout   time.Duration

	processed atomic.Int64
	failed    atomic.Int64
}

// NewResyncWorker creates a worker giving each rebuild at most timeout.
func NewResyncWorker(r Rebuilder, timeout time.Duration) *ResyncWorker {
	return &ResyncWorker{rebuilder: r, timeout: timeout}
}

// HandleResyncMessage rebuilds the month named by msg.
func (w *ResyncWorker) HandleResyncMessage(ctx context.Context, msg *amqp.ResyncMonthMessage) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := w.rebuilder.Month(ctx, msg.Key())
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("resync %s: %w", msg.Key(), err)
	}
	w.processed.Add(1)

	slog.InfoContext(ctx, "Resync request completed",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldMessageID, msg.ID,
		applog.FieldSheet, report.Key.String(),
		applog.FieldDuration, time.Since(start).Milliseconds(),
		"updated", report.Updated,
		"appended", report.Appended,
		"deleted", report.Deleted)
	return nil
}

// Stats returns the number of completed and failed rebuilds.
func (w *ResyncWorker) Stats() (processed, failed int64) {
	return w.processed.Load(), w.failed.Load()
}
