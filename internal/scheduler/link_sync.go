package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/index"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

// EventSource delivers store change notifications. The Redis store
// implements it over pub/sub.
type EventSource interface {
	Subscribe(ctx context.Context) <-chan string
}

// ChangeListener is poked after every index refresh so derived views
// (the context menu) can rebuild.
type ChangeListener interface {
	NotifyChange()
}

// LinkSyncer keeps the memory index in step with the persisted link log:
// an initial sync at startup, a periodic safety resync, a manual trigger,
// and an immediate refresh on store change events.
type LinkSyncer struct {
	store         store.Store
	events        EventSource
	index         *index.MemoryIndex
	listener      ChangeListener
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewLinkSyncer creates a new link syncer. events and listener may be nil.
func NewLinkSyncer(
	s store.Store,
	events EventSource,
	idx *index.MemoryIndex,
	listener ChangeListener,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *LinkSyncer {
	return &LinkSyncer{
		store:         s,
		events:        events,
		index:         idx,
		listener:      listener,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start syncs once immediately, then keeps syncing until stopped.
func (ls *LinkSyncer) Start(ctx context.Context) error {
	if err := ls.Sync(ctx); err != nil {
		return fmt.Errorf("initial link sync failed: %w", err)
	}

	var events <-chan string
	if ls.events != nil {
		events = ls.events.Subscribe(ctx)
	}

	ticker := time.NewTicker(ls.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ls.Sync(ctx); err != nil {
					ls.logger.Error("failed to sync links",
						logger.Error(err))
				}
			case <-ls.manualTrigger:
				ls.logger.Info("manual link sync triggered")
				if err := ls.Sync(ctx); err != nil {
					ls.logger.Error("failed to sync links",
						logger.Error(err))
				}
			case key, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				ls.logger.Debug("store change event",
					logger.String("key", key))
				if err := ls.Sync(ctx); err != nil {
					ls.logger.Error("failed to sync links",
						logger.Error(err))
				}
			case <-ls.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the syncer.
func (ls *LinkSyncer) Stop() {
	close(ls.stopCh)
}

// Sync reloads the link log into the memory index and pokes the listener.
func (ls *LinkSyncer) Sync(ctx context.Context) error {
	links, err := ls.store.Links(ctx)
	if err != nil {
		return fmt.Errorf("failed to read links: %w", err)
	}

	ls.index.UpdateLinks(links)

	if ls.listener != nil {
		ls.listener.NotifyChange()
	}

	ls.logger.Debug("link index synced",
		logger.Int("links", ls.index.Count()),
		logger.Int("sessions", ls.index.SessionCount()))

	return nil
}
