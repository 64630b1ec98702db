package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

// ErrRebuildInFlight is returned when a rebuild is already running. The
// caller simply skips; the running rebuild will produce a fresh model.
var ErrRebuildInFlight = errors.New("menu rebuild already in flight")

// Item is one context-menu entry.
type Item struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Command    string `json:"command"`
	SessionKey string `json:"sessionKey,omitempty"`
}

// Model is the derived context-menu: the fixed capture commands plus one
// add-to-session entry per pinned session.
type Model struct {
	Items   []Item `json:"items"`
	BuiltAt string `json:"builtAt"`
}

// Builder maintains the menu model. Rebuilds are guarded by a single-slot
// in-flight lock so concurrent triggers collapse to one run, and store
// change notifications are debounced before triggering a rebuild.
type Builder struct {
	store    store.Store
	logger   logger.Logger
	debounce time.Duration
	now      func() time.Time

	mu       sync.Mutex
	building bool
	model    Model
	timer    *time.Timer
}

func NewBuilder(s store.Store, log logger.Logger, debounce time.Duration) *Builder {
	return &Builder{
		store:    s,
		logger:   log,
		debounce: debounce,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Model returns the last built menu.
func (b *Builder) Model() Model {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model
}

// Rebuild recomputes the model from the store. A second caller while one
// rebuild runs gets ErrRebuildInFlight instead of queuing.
func (b *Builder) Rebuild(ctx context.Context) error {
	b.mu.Lock()
	if b.building {
		b.mu.Unlock()
		return ErrRebuildInFlight
	}
	b.building = true
	b.mu.Unlock()

	// The slot must be released on every path, failure included.
	defer func() {
		b.mu.Lock()
		b.building = false
		b.mu.Unlock()
	}()

	links, err := b.store.Links(ctx)
	if err != nil {
		return fmt.Errorf("failed to read links: %w", err)
	}

	model := Model{
		Items: []Item{
			{ID: "quick-save", Title: "Quick save this page", Command: "quick-save"},
			{ID: "new-session", Title: "Save to a new session", Command: "new-session"},
			{ID: "add-to-whitelist", Title: "Whitelist this domain", Command: "add-to-whitelist"},
			{ID: "open-dashboard", Title: "Open dashboard", Command: "open-dashboard"},
		},
		BuiltAt: domain.FormatTimestamp(b.now()),
	}

	sessions := domain.GroupSessions(links)
	domain.SortSessions(sessions)
	for _, sess := range sessions {
		if !sess.IsPinned {
			continue
		}
		model.Items = append(model.Items, Item{
			ID:         "add-to-session:" + sess.Key,
			Title:      "Add to: " + sess.Label,
			Command:    "add-to-session",
			SessionKey: sess.Key,
		})
	}

	b.mu.Lock()
	b.model = model
	b.mu.Unlock()

	b.logger.Debug("menu rebuilt", logger.Int("items", len(model.Items)))
	return nil
}

// NotifyChange schedules a rebuild after the debounce window. Bursts of
// store changes collapse into one rebuild.
func (b *Builder) NotifyChange() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		if err := b.Rebuild(context.Background()); err != nil && !errors.Is(err, ErrRebuildInFlight) {
			b.logger.Warn("menu rebuild failed", logger.Error(err))
		}
	})
}

// Stop cancels any pending debounced rebuild.
func (b *Builder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
