package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
	"github.com/MrSnakeDoc/tabkeeper/internal/tabs"
)

// NewSessionTarget asks MoveSelected to mint a fresh session instead of
// merging into an existing one.
const NewSessionTarget = "NEW_SESSION"

// Reconciler owns every mutation of the persisted link log. Each operation
// re-reads the log immediately before its single write, so the at-risk
// window is one round trip, never user-think time.
type Reconciler struct {
	store    store.Store
	provider tabs.Provider
	logger   logger.Logger
	now      func() time.Time
}

func NewReconciler(s store.Store, p tabs.Provider, log logger.Logger) *Reconciler {
	return &Reconciler{
		store:    s,
		provider: p,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Sessions returns the current log grouped and display-sorted.
func (r *Reconciler) Sessions(ctx context.Context) ([]domain.Session, error) {
	links, err := r.store.Links(ctx)
	if err != nil {
		return nil, err
	}
	sessions := domain.GroupSessions(links)
	domain.SortSessions(sessions)
	return sessions, nil
}

// Rename sets the session label on every member of the grouping key.
func (r *Reconciler) Rename(ctx context.Context, key, label string) error {
	if label == "" {
		return fmt.Errorf("session label must not be empty")
	}
	return r.rewrite(ctx, key, "rename", func(l *domain.Link) {
		l.SessionLabel = label
	})
}

// TogglePin flips the pin on every member. The new value is the negation of
// the first member's pin, which the invariant makes representative.
func (r *Reconciler) TogglePin(ctx context.Context, key string) error {
	links, err := r.store.Links(ctx)
	if err != nil {
		return fmt.Errorf("failed to read links: %w", err)
	}

	target := false
	found := false
	for i := range links {
		if links[i].GroupingKey() == key {
			if !found {
				target = !links[i].IsPinned
				found = true
			}
			links[i].IsPinned = target
		}
	}
	if !found {
		return fmt.Errorf("session not found: %s", key)
	}
	if err := r.store.SaveLinks(ctx, links); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// Bump re-timestamps every member to now, moving the session to the top of
// the recency sort without touching its contents.
func (r *Reconciler) Bump(ctx context.Context, key string) error {
	now := r.now()
	ts := domain.FormatTimestamp(now)
	dg := domain.FormatDateGroup(now)
	return r.rewrite(ctx, key, "bump", func(l *domain.Link) {
		l.Timestamp = ts
		l.DateGroup = dg
	})
}

// MoveSelected reassigns a subset of links (by uniqueId) to another session.
// target NewSessionTarget mints a fresh unpinned session; an existing target
// key makes the moved links adopt its label and pin. The one operation that
// can split a session, and the invariant must hold on both halves.
func (r *Reconciler) MoveSelected(ctx context.Context, uniqueIDs []string, target string) (string, error) {
	if len(uniqueIDs) == 0 {
		return "", fmt.Errorf("no links selected")
	}
	selected := make(map[string]bool, len(uniqueIDs))
	for _, id := range uniqueIDs {
		selected[id] = true
	}

	links, err := r.store.Links(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read links: %w", err)
	}

	var sessionID, label string
	pinned := false
	if target == NewSessionTarget || target == "" {
		now := r.now()
		sessionID = fmt.Sprintf("manual-move-%d", now.UnixMilli())
		label = fmt.Sprintf("Moved Session (%s)", domain.FormatTimeLabel(now))
	} else {
		found := false
		for _, l := range links {
			if l.GroupingKey() == target {
				sessionID = l.SessionID
				label = l.SessionLabel
				pinned = l.IsPinned
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("target session not found: %s", target)
		}
	}

	moved := 0
	for i := range links {
		if !selected[links[i].UniqueID] {
			continue
		}
		links[i].SessionID = sessionID
		links[i].SessionLabel = label
		links[i].IsPinned = pinned
		moved++
	}
	if moved == 0 {
		return "", fmt.Errorf("selected links not found")
	}

	if err := r.store.SaveLinks(ctx, links); err != nil {
		return "", fmt.Errorf("failed to save links: %w", err)
	}

	r.logger.Info("links moved",
		logger.Int("count", moved),
		logger.String("target", sessionID))
	return sessionID, nil
}

// DeleteSelected removes links by uniqueId.
func (r *Reconciler) DeleteSelected(ctx context.Context, uniqueIDs []string) (int, error) {
	selected := make(map[string]bool, len(uniqueIDs))
	for _, id := range uniqueIDs {
		selected[id] = true
	}
	return r.remove(ctx, func(l domain.Link) bool { return selected[l.UniqueID] })
}

// DeleteSession removes every member of the grouping key.
func (r *Reconciler) DeleteSession(ctx context.Context, key string) (int, error) {
	return r.remove(ctx, func(l domain.Link) bool { return l.GroupingKey() == key })
}

// ClearAll empties the log.
func (r *Reconciler) ClearAll(ctx context.Context) error {
	if err := r.store.SaveLinks(ctx, nil); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	r.logger.Warn("link log cleared")
	return nil
}

// EditCategory sets the category on every link sharing the url.
func (r *Reconciler) EditCategory(ctx context.Context, url, category string) error {
	links, err := r.store.Links(ctx)
	if err != nil {
		return fmt.Errorf("failed to read links: %w", err)
	}
	changed := false
	for i := range links {
		if links[i].URL == url {
			links[i].Category = category
			changed = true
		}
	}
	if !changed {
		return fmt.Errorf("no link with url: %s", url)
	}
	if err := r.store.SaveLinks(ctx, links); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// rewrite applies mutate to every member of key, fresh-read-then-write.
func (r *Reconciler) rewrite(ctx context.Context, key, op string, mutate func(*domain.Link)) error {
	links, err := r.store.Links(ctx)
	if err != nil {
		return fmt.Errorf("failed to read links: %w", err)
	}

	found := false
	for i := range links {
		if links[i].GroupingKey() == key {
			mutate(&links[i])
			found = true
		}
	}
	if !found {
		return fmt.Errorf("session not found: %s", key)
	}

	if err := r.store.SaveLinks(ctx, links); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}

	r.logger.Debug("session rewritten",
		logger.String("op", op),
		logger.String("key", key))
	return nil
}

func (r *Reconciler) remove(ctx context.Context, drop func(domain.Link) bool) (int, error) {
	links, err := r.store.Links(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read links: %w", err)
	}

	kept := make([]domain.Link, 0, len(links))
	removed := 0
	for _, l := range links {
		if drop(l) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := r.store.SaveLinks(ctx, kept); err != nil {
		return 0, fmt.Errorf("failed to save links: %w", err)
	}
	return removed, nil
}

// BackfillUniqueIDs assigns ids to legacy links lacking them. Returns how
// many were filled. No write happens when nothing is missing.
func (r *Reconciler) BackfillUniqueIDs(ctx context.Context) (int, error) {
	links, err := r.store.Links(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read links: %w", err)
	}

	filled := 0
	for i := range links {
		if links[i].UniqueID == "" {
			links[i].UniqueID = uuid.NewString()
			filled++
		}
	}
	if filled == 0 {
		return 0, nil
	}

	if err := r.store.SaveLinks(ctx, links); err != nil {
		return 0, fmt.Errorf("failed to save links: %w", err)
	}
	return filled, nil
}
