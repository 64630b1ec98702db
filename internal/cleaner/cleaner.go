package cleaner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
	"github.com/MrSnakeDoc/tabkeeper/internal/tabs"
)

// Confirmer is the user decision point gating destructive cleans.
// The HTTP surface implements it as a dry-run/confirm exchange; tests stub it.
type Confirmer interface {
	ConfirmClean(ctx context.Context, summary CleanSummary) (bool, error)
}

// StaticConfirmer answers every confirmation with a fixed verdict.
type StaticConfirmer struct {
	Answer bool
}

func (c StaticConfirmer) ConfirmClean(ctx context.Context, summary CleanSummary) (bool, error) {
	return c.Answer, nil
}

// CleanSummary describes what a clean is about to do, computed entirely from
// the live tab snapshot before anything is written or closed.
type CleanSummary struct {
	Scope          domain.Scope     `json:"scope"`
	Contexts       []ContextSummary `json:"contexts"`
	TabsToClose    int              `json:"tabsToClose"`
	LinksToArchive int              `json:"linksToArchive"`
}

// ContextSummary is the per-context slice of a CleanSummary.
type ContextSummary struct {
	Key            string `json:"key"`
	Label          string `json:"label"`
	Current        bool   `json:"current"`
	TabsToClose    int    `json:"tabsToClose"`
	LinksToArchive int    `json:"linksToArchive"`
}

// CleanResult reports what a clean actually did.
type CleanResult struct {
	Aborted       bool         `json:"aborted"`
	Summary       CleanSummary `json:"summary"`
	TabsClosed    int          `json:"tabsClosed"`
	LinksArchived int          `json:"linksArchived"`
	BackupID      string       `json:"backupId,omitempty"`
}

// Ledger is the slice of the backup ledger the cleaner needs.
type Ledger interface {
	Record(ctx context.Context, links []domain.Link, tabsClosed int) (domain.Backup, error)
}

// Service runs the tab-cleanup pipeline: partition, retention, archive,
// persist, close. Settings and whitelist are read once up front; the link
// log is only touched in one fresh-read-then-write step after the user has
// confirmed, so the race window never spans confirmation latency.
type Service struct {
	store        store.Store
	provider     tabs.Provider
	ledger       Ledger
	logger       logger.Logger
	dashboardURL string
	now          func() time.Time
}

func NewService(s store.Store, p tabs.Provider, l Ledger, log logger.Logger, dashboardURL string) *Service {
	return &Service{
		store:        s,
		provider:     p,
		ledger:       l,
		logger:       log,
		dashboardURL: dashboardURL,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Clean archives and closes tabs per the current policy. scope may be empty,
// in which case the settings default decides.
func (s *Service) Clean(ctx context.Context, scope domain.Scope, confirmer Confirmer) (CleanResult, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to read settings: %w", err)
	}
	whitelist, err := s.store.Whitelist(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to read whitelist: %w", err)
	}

	if scope == "" {
		scope = domain.ScopeCurrent
		if settings.CleanAllWorkspaces {
			scope = domain.ScopeGlobal
		}
	}

	all, err := s.provider.Tabs(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to query tabs: %w", err)
	}
	active, err := s.provider.ActiveTab(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to query active tab: %w", err)
	}
	if scope == domain.ScopeCurrent && active == nil {
		// Without an anchor the current scope cannot be resolved; widening
		// to every window would sweep them all with keep forced to 0.
		return CleanResult{}, fmt.Errorf("no active tab: cannot resolve the current context")
	}

	contexts := domain.Partition(all, active, scope)
	now := s.now()

	var batch []domain.Link
	var closeIDs []int
	summary := CleanSummary{Scope: scope}

	for _, c := range contexts {
		sessionID := fmt.Sprintf("clean-%s-%d", c.Key, now.UnixMilli())
		label := fmt.Sprintf("%s - %s", domain.FormatTimeLabel(now), c.Label)
		links := s.archiveContext(c, sessionID, label, now)

		candidates := domain.CloseCandidates(c.Tabs, c.Current, settings.KeepLastTabs, whitelist)

		summary.Contexts = append(summary.Contexts, ContextSummary{
			Key:            c.Key,
			Label:          c.Label,
			Current:        c.Current,
			TabsToClose:    len(candidates),
			LinksToArchive: len(links),
		})
		summary.TabsToClose += len(candidates)
		summary.LinksToArchive += len(links)

		batch = append(batch, links...)
		for _, t := range candidates {
			closeIDs = append(closeIDs, t.ID)
		}
	}

	if settings.ConfirmBeforeClose {
		ok, err := confirmer.ConfirmClean(ctx, summary)
		if err != nil {
			return CleanResult{}, err
		}
		if !ok {
			return CleanResult{Aborted: true, Summary: summary}, nil
		}
	}

	result := CleanResult{Summary: summary}

	if len(batch) > 0 {
		// Fresh re-read right before the single write: anything another
		// caller appended during confirmation survives.
		current, err := s.store.Links(ctx)
		if err != nil {
			return CleanResult{}, fmt.Errorf("failed to read links: %w", err)
		}
		if err := s.store.SaveLinks(ctx, append(batch, current...)); err != nil {
			return CleanResult{}, fmt.Errorf("failed to save links: %w", err)
		}
		result.LinksArchived = len(batch)
	}

	if settings.AutoBackup {
		b, err := s.ledger.Record(ctx, batch, len(closeIDs))
		if err != nil {
			s.logger.Warn("auto backup failed", logger.Error(err))
		} else {
			result.BackupID = b.ID
		}
	}

	if len(closeIDs) > 0 {
		if err := s.provider.Remove(ctx, closeIDs); err != nil {
			return result, fmt.Errorf("failed to close tabs: %w", err)
		}
		result.TabsClosed = len(closeIDs)
	}

	s.logger.Info("clean completed",
		logger.String("scope", string(scope)),
		logger.Int("contexts", len(contexts)),
		logger.Int("archived", result.LinksArchived),
		logger.Int("closed", result.TabsClosed))

	return result, nil
}

// BackgroundClean is the keyboard-shortcut variant: no confirmation, window
// granularity only, and hard protection for pinned tabs and tabs active in
// any window.
func (s *Service) BackgroundClean(ctx context.Context) (CleanResult, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to read settings: %w", err)
	}
	whitelist, err := s.store.Whitelist(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to read whitelist: %w", err)
	}

	all, err := s.provider.Tabs(ctx)
	if err != nil {
		return CleanResult{}, fmt.Errorf("failed to query tabs: %w", err)
	}

	activeIDs := domain.ActiveTabIDs(all)
	byWindow := make(map[int][]domain.Tab)
	var windowOrder []int
	for _, t := range all {
		if _, ok := byWindow[t.WindowID]; !ok {
			windowOrder = append(windowOrder, t.WindowID)
		}
		byWindow[t.WindowID] = append(byWindow[t.WindowID], t)
	}

	now := s.now()
	label := fmt.Sprintf("%s - Background Clean", domain.FormatTimeLabel(now))

	var batch []domain.Link
	var closeIDs []int
	summary := CleanSummary{Scope: domain.ScopeGlobal}

	for _, windowID := range windowOrder {
		winTabs := byWindow[windowID]
		sessionID := fmt.Sprintf("clean-shortcut-%d-%d", windowID, now.UnixMilli())
		c := domain.TabContext{
			Key:      domain.ContextKey(windowID, ""),
			Label:    label,
			WindowID: windowID,
			Tabs:     winTabs,
		}
		links := s.archiveContext(c, sessionID, label, now)
		candidates := domain.BackgroundCandidates(winTabs, settings.KeepLastTabs, whitelist, activeIDs)

		summary.TabsToClose += len(candidates)
		summary.LinksToArchive += len(links)
		batch = append(batch, links...)
		for _, t := range candidates {
			closeIDs = append(closeIDs, t.ID)
		}
	}

	result := CleanResult{Summary: summary}

	if len(batch) > 0 {
		current, err := s.store.Links(ctx)
		if err != nil {
			return CleanResult{}, fmt.Errorf("failed to read links: %w", err)
		}
		if err := s.store.SaveLinks(ctx, append(batch, current...)); err != nil {
			return CleanResult{}, fmt.Errorf("failed to save links: %w", err)
		}
		result.LinksArchived = len(batch)
	}

	if settings.AutoBackup {
		b, err := s.ledger.Record(ctx, batch, len(closeIDs))
		if err != nil {
			s.logger.Warn("auto backup failed", logger.Error(err))
		} else {
			result.BackupID = b.ID
		}
	}

	if len(closeIDs) > 0 {
		if err := s.provider.Remove(ctx, closeIDs); err != nil {
			return result, fmt.Errorf("failed to close tabs: %w", err)
		}
		result.TabsClosed = len(closeIDs)
	}

	return result, nil
}

// Reset is the emergency exit: archive nothing, just clear the current
// context. The safety tab is created before any removal so the window never
// transiently hits zero tabs.
func (s *Service) Reset(ctx context.Context) (int, error) {
	all, err := s.provider.Tabs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query tabs: %w", err)
	}
	active, err := s.provider.ActiveTab(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query active tab: %w", err)
	}

	contexts := domain.Partition(all, active, domain.ScopeCurrent)
	var ids []int
	windowID := 0
	for _, c := range contexts {
		if !c.Current {
			continue
		}
		windowID = c.WindowID
		for _, t := range c.Tabs {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if _, err := s.provider.Create(ctx, "about:blank", windowID, true); err != nil {
		return 0, fmt.Errorf("failed to create safety tab: %w", err)
	}
	if err := s.provider.Remove(ctx, ids); err != nil {
		return 0, fmt.Errorf("failed to close tabs: %w", err)
	}

	s.logger.Info("emergency reset completed", logger.Int("closed", len(ids)))
	return len(ids), nil
}

// OpenDashboard focuses an existing dashboard tab in the active window and
// workspace, or opens a new one there. The workspace check is mandatory:
// activating a dashboard tab in another workspace would switch the user's
// workspace as a side effect.
func (s *Service) OpenDashboard(ctx context.Context) error {
	if s.dashboardURL == "" {
		return fmt.Errorf("dashboard URL not configured")
	}

	all, err := s.provider.Tabs(ctx)
	if err != nil {
		return fmt.Errorf("failed to query tabs: %w", err)
	}
	active, err := s.provider.ActiveTab(ctx)
	if err != nil {
		return fmt.Errorf("failed to query active tab: %w", err)
	}

	if active != nil {
		for _, t := range all {
			if t.WindowID != active.WindowID || t.WorkspaceID != active.WorkspaceID {
				continue
			}
			if strings.HasPrefix(t.URL, s.dashboardURL) {
				return s.provider.Activate(ctx, t.ID)
			}
		}
	}

	windowID := 0
	if active != nil {
		windowID = active.WindowID
	}
	_, err = s.provider.Create(ctx, s.dashboardURL, windowID, true)
	return err
}

// archiveContext turns a context's non-system tabs into link records sharing
// one session. A context with no archivable tabs yields no session at all.
func (s *Service) archiveContext(c domain.TabContext, sessionID, label string, now time.Time) []domain.Link {
	var links []domain.Link
	for _, t := range c.Tabs {
		if domain.IsSystemURL(t.URL, s.dashboardURL) {
			continue
		}
		title := t.Title
		if title == "" {
			title = t.URL
		}
		links = append(links, domain.Link{
			URL:          t.URL,
			Title:        title,
			Favicon:      t.FavIconURL,
			Category:     domain.CategoryFor(t.URL),
			Timestamp:    domain.FormatTimestamp(now),
			DateGroup:    domain.FormatDateGroup(now),
			WindowID:     t.WindowID,
			WorkspaceID:  t.WorkspaceID,
			SessionID:    sessionID,
			SessionLabel: label,
			UniqueID:     uuid.NewString(),
		})
	}
	return links
}
