package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

// Ledger maintains the rolling backup list: append-only snapshots of
// archived batches, capped at domain.MaxBackups with FIFO eviction.
// Every record call appends unconditionally; there is no deduplication.
type Ledger struct {
	store  store.Store
	logger logger.Logger
	now    func() time.Time
}

func NewLedger(s store.Store, log logger.Logger) *Ledger {
	return &Ledger{
		store:  s,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Record appends one snapshot built from the archived batch.
// Read-modify-write against the ledger, trimming the oldest past the cap.
func (l *Ledger) Record(ctx context.Context, links []domain.Link, tabsClosed int) (domain.Backup, error) {
	b := domain.NewBackup(uuid.NewString(), links, tabsClosed, l.now())

	backups, err := l.store.Backups(ctx)
	if err != nil {
		return domain.Backup{}, fmt.Errorf("failed to read backups: %w", err)
	}

	backups = domain.TrimBackups(append(backups, b))
	if err := l.store.SaveBackups(ctx, backups); err != nil {
		return domain.Backup{}, fmt.Errorf("failed to save backups: %w", err)
	}

	l.logger.Info("backup recorded",
		logger.String("backup_id", b.ID),
		logger.String("label", b.Label),
		logger.Int("links", b.Count),
		logger.Int("tabs_closed", tabsClosed))

	return b, nil
}

// List returns the ledger, newest last.
func (l *Ledger) List(ctx context.Context) ([]domain.Backup, error) {
	return l.store.Backups(ctx)
}

// Get returns one backup by id.
func (l *Ledger) Get(ctx context.Context, id string) (domain.Backup, error) {
	backups, err := l.store.Backups(ctx)
	if err != nil {
		return domain.Backup{}, err
	}
	for _, b := range backups {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Backup{}, fmt.Errorf("backup not found: %s", id)
}

// Delete removes one backup by id.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	backups, err := l.store.Backups(ctx)
	if err != nil {
		return err
	}

	kept := backups[:0]
	found := false
	for _, b := range backups {
		if b.ID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return fmt.Errorf("backup not found: %s", id)
	}
	return l.store.SaveBackups(ctx, kept)
}

// Restore re-materializes a backup's links into the live log as a new
// session. Each link keeps its original instant under originalTimestamp and
// gets fresh position timestamps, then the batch is prepended to a freshly
// read log.
func (l *Ledger) Restore(ctx context.Context, id string) (int, error) {
	b, err := l.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	now := l.now()
	sessionID := fmt.Sprintf("restored-%d", now.UnixMilli())
	label := fmt.Sprintf("%s - Restored Backup", domain.FormatTimeLabel(now))

	restored := make([]domain.Link, 0, len(b.Data.Links))
	for _, link := range b.Data.Links {
		orig := link.OriginalTimestamp
		if orig == "" {
			orig = link.Timestamp
		}
		link.OriginalTimestamp = orig
		link.Timestamp = domain.FormatTimestamp(now)
		link.DateGroup = domain.FormatDateGroup(now)
		link.SessionID = sessionID
		link.SessionLabel = label
		link.IsPinned = false
		link.RestoredAt = domain.FormatTimestamp(now)
		link.UniqueID = uuid.NewString()
		restored = append(restored, link)
	}

	// Fresh re-read right before the single write.
	current, err := l.store.Links(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read links: %w", err)
	}
	if err := l.store.SaveLinks(ctx, append(restored, current...)); err != nil {
		return 0, fmt.Errorf("failed to save links: %w", err)
	}

	l.logger.Info("backup restored",
		logger.String("backup_id", id),
		logger.Int("links", len(restored)))

	return len(restored), nil
}
