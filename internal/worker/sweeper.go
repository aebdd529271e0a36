package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/db"
)

// DateSweeper periodically moves accepted events whose date has passed to
// pending-upload, standing in for a scheduled trigger. Each moved event goes
// through the normal service transition, so the notifier fires for it.
type DateSweeper struct {
	eventRepo    db.EventRepository
	eventService core.EventService
	interval     time.Duration
	logger       *zap.Logger
	now          func() time.Time // injectable clock for tests
}

// NewDateSweeper creates a DateSweeper.
func NewDateSweeper(eventRepo db.EventRepository, eventService core.EventService, interval time.Duration, logger *zap.Logger) *DateSweeper {
	return &DateSweeper{
		eventRepo:    eventRepo,
		eventService: eventService,
		interval:     interval,
		logger:       logger,
		now:          time.Now,
	}
}

// Run blocks, sweeping once per interval until the context is cancelled.
func (w *DateSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Date sweeper started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Date sweeper stopped")
			return
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single pass. Failures on individual events are logged and
// do not stop the rest of the batch.
func (w *DateSweeper) SweepOnce(ctx context.Context) {
	due, err := w.eventRepo.GetDueForUpload(ctx, w.now().UTC())
	if err != nil {
		w.logger.Error("Failed to query events due for upload", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	w.logger.Info("Sweeping events past their date", zap.Int("count", len(due)))
	for _, event := range due {
		if _, err := w.eventService.MarkPendingUpload(ctx, event.ID); err != nil {
			w.logger.Error("Failed to move event to pending-upload",
				zap.String("eventId", event.ID), zap.Error(err))
			continue
		}
		w.logger.Info("Event moved to pending-upload", zap.String("eventId", event.ID))
	}
}
