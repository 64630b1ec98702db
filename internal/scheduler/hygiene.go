package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

// Backfiller assigns ids to legacy links lacking them.
type Backfiller interface {
	BackfillUniqueIDs(ctx context.Context) (int, error)
}

// Hygiene periodically enforces the backup cap and backfills missing link
// ids. Both are no-ops on a healthy store; the sweep exists for data
// written by older versions or hand-edited imports.
type Hygiene struct {
	store      store.Store
	backfiller Backfiller
	logger     logger.Logger
	interval   time.Duration
	stopCh     chan struct{}
}

// NewHygiene creates a new hygiene sweeper.
func NewHygiene(
	s store.Store,
	backfiller Backfiller,
	log logger.Logger,
	interval time.Duration,
) *Hygiene {
	return &Hygiene{
		store:      s,
		backfiller: backfiller,
		logger:     log,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start runs one sweep immediately, then sweeps periodically.
func (h *Hygiene) Start(ctx context.Context) error {
	if err := h.Sweep(ctx); err != nil {
		h.logger.Warn("initial hygiene sweep failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(h.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := h.Sweep(ctx); err != nil {
					h.logger.Error("hygiene sweep failed",
						logger.Error(err))
				}
			case <-h.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper.
func (h *Hygiene) Stop() {
	close(h.stopCh)
}

// Sweep trims the backup ledger to its cap and backfills missing link ids.
func (h *Hygiene) Sweep(ctx context.Context) error {
	backups, err := h.store.Backups(ctx)
	if err != nil {
		return err
	}

	trimmed := domain.TrimBackups(backups)
	if len(trimmed) != len(backups) {
		if err := h.store.SaveBackups(ctx, trimmed); err != nil {
			return err
		}
		h.logger.Info("backup ledger trimmed",
			logger.Int("evicted", len(backups)-len(trimmed)),
			logger.Int("kept", len(trimmed)))
	}

	if h.backfiller != nil {
		filled, err := h.backfiller.BackfillUniqueIDs(ctx)
		if err != nil {
			return err
		}
		if filled > 0 {
			h.logger.Info("backfilled link ids",
				logger.Int("count", filled))
		}
	}

	return nil
}
