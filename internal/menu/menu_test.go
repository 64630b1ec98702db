package menu

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store/memory"
)

var testTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

type gatedStore struct {
	*memory.Store
	reads   atomic.Int64
	release chan struct{}
}

func (g *gatedStore) Links(ctx context.Context) ([]domain.Link, error) {
	g.reads.Add(1)
	if g.release != nil {
		<-g.release
	}
	return g.Store.Links(ctx)
}

func seedLinks() []domain.Link {
	return []domain.Link{
		{URL: "https://a.example/", UniqueID: "u1", SessionID: "s1", SessionLabel: "Work", IsPinned: true, Timestamp: "2026-08-01T10:00:00Z"},
		{URL: "https://b.example/", UniqueID: "u2", SessionID: "s2", SessionLabel: "Play", Timestamp: "2026-08-02T10:00:00Z"},
	}
}

func TestRebuildModel(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	if err := s.SaveLinks(ctx, seedLinks()); err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(s, logger.New("error", false), time.Millisecond).
		WithClock(func() time.Time { return testTime })

	if err := b.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild() error: %v", err)
	}

	model := b.Model()
	if len(model.Items) != 5 {
		t.Fatalf("got %d items, want 4 commands + 1 pinned session", len(model.Items))
	}
	last := model.Items[4]
	if last.Command != "add-to-session" || last.SessionKey != "s1" {
		t.Errorf("pinned session entry = %+v", last)
	}
	if last.Title != "Add to: Work" {
		t.Errorf("title = %q", last.Title)
	}
	for _, item := range model.Items[:4] {
		if item.SessionKey != "" {
			t.Errorf("fixed command %s must not carry a session key", item.ID)
		}
	}
	if model.BuiltAt != domain.FormatTimestamp(testTime) {
		t.Errorf("builtAt = %q", model.BuiltAt)
	}
}

func TestRebuildSingleSlot(t *testing.T) {
	ctx := context.Background()
	g := &gatedStore{Store: memory.NewStore(), release: make(chan struct{})}
	b := NewBuilder(g, logger.New("error", false), time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- b.Rebuild(ctx) }()

	// Wait until the first rebuild holds the slot.
	for g.reads.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := b.Rebuild(ctx); !errors.Is(err, ErrRebuildInFlight) {
		t.Errorf("second rebuild error = %v, want ErrRebuildInFlight", err)
	}

	close(g.release)
	if err := <-done; err != nil {
		t.Fatalf("first rebuild error: %v", err)
	}

	// Slot released: a fresh rebuild must run.
	if err := b.Rebuild(ctx); err != nil {
		t.Errorf("rebuild after release error: %v", err)
	}
}

func TestNotifyChangeDebounces(t *testing.T) {
	g := &gatedStore{Store: memory.NewStore()}
	b := NewBuilder(g, logger.New("error", false), 30*time.Millisecond)
	defer b.Stop()

	for i := 0; i < 5; i++ {
		b.NotifyChange()
		time.Sleep(2 * time.Millisecond)
	}

	deadline := time.Now().Add(500 * time.Millisecond)
	for g.reads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	// Burst collapses into a single rebuild.
	time.Sleep(50 * time.Millisecond)
	if got := g.reads.Load(); got != 1 {
		t.Errorf("store read %d times, want 1 debounced rebuild", got)
	}
}

func TestStopCancelsPendingRebuild(t *testing.T) {
	g := &gatedStore{Store: memory.NewStore()}
	b := NewBuilder(g, logger.New("error", false), 20*time.Millisecond)

	b.NotifyChange()
	b.Stop()

	time.Sleep(60 * time.Millisecond)
	if got := g.reads.Load(); got != 0 {
		t.Errorf("store read %d times after Stop, want 0", got)
	}
}
