package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/index"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store/memory"
)

type countingListener struct{ calls int }

func (c *countingListener) NotifyChange() { c.calls++ }

func TestLinkSyncerSync(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	links := []domain.Link{
		{URL: "https://a.example/", UniqueID: "u1", SessionID: "s1", SessionLabel: "Work", Timestamp: "2026-08-01T10:00:00Z"},
		{URL: "https://b.example/", UniqueID: "u2", SessionID: "s1", SessionLabel: "Work", Timestamp: "2026-08-01T10:00:00Z"},
	}
	if err := s.SaveLinks(ctx, links); err != nil {
		t.Fatal(err)
	}

	idx := index.NewMemoryIndex()
	listener := &countingListener{}
	ls := NewLinkSyncer(s, nil, idx, listener, logger.New("error", false), time.Hour, make(chan struct{}))

	if err := ls.Sync(ctx); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if idx.Count() != 2 {
		t.Errorf("index has %d links, want 2", idx.Count())
	}
	if idx.SessionCount() != 1 {
		t.Errorf("index has %d sessions, want 1", idx.SessionCount())
	}
	if listener.calls != 1 {
		t.Errorf("listener poked %d times, want 1", listener.calls)
	}
}

type staticBackfiller struct{ filled int }

func (b staticBackfiller) BackfillUniqueIDs(ctx context.Context) (int, error) {
	return b.filled, nil
}

func TestHygieneSweepTrimsBackups(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	over := make([]domain.Backup, domain.MaxBackups+5)
	for i := range over {
		over[i] = domain.Backup{ID: fmt.Sprintf("b-%d", i), Timestamp: "2026-08-01T10:00:00Z"}
	}
	if err := s.SaveBackups(ctx, over); err != nil {
		t.Fatal(err)
	}

	h := NewHygiene(s, staticBackfiller{filled: 2}, logger.New("error", false), time.Hour)
	if err := h.Sweep(ctx); err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}

	backups, _ := s.Backups(ctx)
	if len(backups) != domain.MaxBackups {
		t.Errorf("ledger holds %d backups, want trimmed to %d", len(backups), domain.MaxBackups)
	}
	// Oldest first in overflow: the first five must be gone.
	if backups[0].ID != "b-5" {
		t.Errorf("oldest surviving backup = %s, want b-5", backups[0].ID)
	}
}

func TestHygieneSweepNoWriteWhenUnderCap(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	if err := s.SaveBackups(ctx, []domain.Backup{{ID: "b-1"}}); err != nil {
		t.Fatal(err)
	}

	h := NewHygiene(s, nil, logger.New("error", false), time.Hour)
	if err := h.Sweep(ctx); err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}

	backups, _ := s.Backups(ctx)
	if len(backups) != 1 {
		t.Errorf("ledger holds %d backups, want 1 untouched", len(backups))
	}
}
