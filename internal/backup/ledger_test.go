package backup

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store/memory"
)

func testLedger() (*Ledger, *memory.Store) {
	s := memory.NewStore()
	log := logger.New("error", false)
	return NewLedger(s, log), s
}

func TestRecordAppends(t *testing.T) {
	ctx := context.Background()
	ledger, s := testLedger()

	links := []domain.Link{{URL: "https://github.com/a"}}
	b, err := ledger.Record(ctx, links, 2)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if b.Label != "Github.com" {
		t.Errorf("label = %q, want Github.com", b.Label)
	}
	if b.TabsClosed != 2 {
		t.Errorf("tabsClosed = %d, want 2", b.TabsClosed)
	}

	backups, _ := s.Backups(ctx)
	if len(backups) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(backups))
	}
}

func TestRecordNoDeduplication(t *testing.T) {
	ctx := context.Background()
	ledger, s := testLedger()

	links := []domain.Link{{URL: "https://github.com/a"}}
	for i := 0; i < 3; i++ {
		if _, err := ledger.Record(ctx, links, 0); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	backups, _ := s.Backups(ctx)
	if len(backups) != 3 {
		t.Errorf("identical batches must all append, got %d entries", len(backups))
	}
}

func TestRecordCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	ledger, s := testLedger()

	var firstID string
	for i := 0; i < domain.MaxBackups+1; i++ {
		b, err := ledger.Record(ctx, nil, 0)
		if err != nil {
			t.Fatalf("Record() error: %v", err)
		}
		if i == 0 {
			firstID = b.ID
		}
	}

	backups, _ := s.Backups(ctx)
	if len(backups) != domain.MaxBackups {
		t.Fatalf("ledger has %d entries, want capped at %d", len(backups), domain.MaxBackups)
	}
	for _, b := range backups {
		if b.ID == firstID {
			t.Error("the oldest entry should have been evicted")
		}
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	ledger, s := testLedger()

	b, _ := ledger.Record(ctx, nil, 0)
	if err := ledger.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	backups, _ := s.Backups(ctx)
	if len(backups) != 0 {
		t.Errorf("ledger has %d entries after delete, want 0", len(backups))
	}

	if err := ledger.Delete(ctx, "missing"); err == nil {
		t.Error("Delete() of unknown id should fail")
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	ledger, s := testLedger()
	now := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	ledger.WithClock(func() time.Time { return now })

	links := []domain.Link{
		{URL: "https://a.example/", Timestamp: "2026-08-01T10:00:00Z", SessionID: "clean-old"},
		{URL: "https://b.example/", Timestamp: "2026-08-01T10:00:00Z", SessionID: "clean-old", OriginalTimestamp: "2026-07-01T10:00:00Z"},
	}
	b, _ := ledger.Record(ctx, links, 2)

	// Something already lives in the log; restore must prepend, not clobber.
	_ = s.SaveLinks(ctx, []domain.Link{{URL: "https://existing.example/", SessionID: "s0"}})

	n, err := ledger.Restore(ctx, b.ID)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Restore() = %d links, want 2", n)
	}

	log, _ := s.Links(ctx)
	if len(log) != 3 {
		t.Fatalf("log has %d links, want 3", len(log))
	}
	restored := log[0]
	if restored.SessionID != "restored-"+"1788082200000" {
		t.Errorf("sessionId = %q, want restored-<epochms>", restored.SessionID)
	}
	if restored.SessionLabel != "09:30 - Restored Backup" {
		t.Errorf("sessionLabel = %q", restored.SessionLabel)
	}
	if restored.OriginalTimestamp != "2026-08-01T10:00:00Z" {
		t.Errorf("originalTimestamp = %q, want the pre-restore timestamp", restored.OriginalTimestamp)
	}
	if log[1].OriginalTimestamp != "2026-07-01T10:00:00Z" {
		t.Error("an existing originalTimestamp must be preserved, not overwritten")
	}
	if log[2].URL != "https://existing.example/" {
		t.Error("restore must prepend to the existing log")
	}
}
