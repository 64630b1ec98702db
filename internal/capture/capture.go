package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

const quickSaveLabelPrefix = "Quick Saves"

// Titler resolves a page title for a URL, best effort.
type Titler interface {
	Title(ctx context.Context, rawURL string) string
}

// Service handles single-link saves: quick-save, new-session, add to a
// named session, and whitelist additions. Every write follows the
// fresh-read-then-prepend discipline.
type Service struct {
	store  store.Store
	titles Titler
	logger logger.Logger
	now    func() time.Time
}

func NewService(s store.Store, titles Titler, log logger.Logger) *Service {
	return &Service{store: s, titles: titles, logger: log, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// QuickSave files the link under today's quick-save session. The day's
// session is reused only while it is still "pure": unpinned and its label
// still starting with the quick-save prefix. Once the user renames or pins
// it, a fresh suffixed session is minted so their curation stays intact.
func (s *Service) QuickSave(ctx context.Context, rawURL, title string) (domain.Link, error) {
	if rawURL == "" {
		return domain.Link{}, fmt.Errorf("url must not be empty")
	}

	links, err := s.store.Links(ctx)
	if err != nil {
		return domain.Link{}, fmt.Errorf("failed to read links: %w", err)
	}

	now := s.now()
	base := "manual-save-" + now.Format("2006-01-02")

	sessionID := base
	label := fmt.Sprintf("%s - %s", quickSaveLabelPrefix, domain.FormatDateGroup(now))
	variants := 0
	seen := make(map[string]bool)
	for _, l := range links {
		if l.SessionID != base && !strings.HasPrefix(l.SessionID, base+"-") {
			continue
		}
		if seen[l.SessionID] {
			continue
		}
		seen[l.SessionID] = true
		variants++
		if !l.IsPinned && strings.HasPrefix(l.SessionLabel, quickSaveLabelPrefix) {
			sessionID = l.SessionID
			label = l.SessionLabel
			variants = -1
			break
		}
	}
	if variants > 0 {
		sessionID = fmt.Sprintf("%s-%d", base, variants)
	}

	link := s.buildLink(ctx, rawURL, title, now)
	link.SessionID = sessionID
	link.SessionLabel = label
	return link, s.prepend(ctx, link)
}

// NewSession saves the link into a freshly minted single-link session.
func (s *Service) NewSession(ctx context.Context, rawURL, title string) (domain.Link, error) {
	if rawURL == "" {
		return domain.Link{}, fmt.Errorf("url must not be empty")
	}
	now := s.now()
	link := s.buildLink(ctx, rawURL, title, now)
	link.SessionID = fmt.Sprintf("manual-session-%d", now.UnixMilli())
	link.SessionLabel = fmt.Sprintf("%s - New Session", domain.FormatTimeLabel(now))
	return link, s.prepend(ctx, link)
}

// AddToSession saves the link into an existing session, adopting its
// label, pin state and date group.
func (s *Service) AddToSession(ctx context.Context, rawURL, title, key string) (domain.Link, error) {
	if rawURL == "" {
		return domain.Link{}, fmt.Errorf("url must not be empty")
	}

	links, err := s.store.Links(ctx)
	if err != nil {
		return domain.Link{}, fmt.Errorf("failed to read links: %w", err)
	}
	var target *domain.Link
	for i := range links {
		if links[i].GroupingKey() == key {
			target = &links[i]
			break
		}
	}
	if target == nil {
		return domain.Link{}, fmt.Errorf("session not found: %s", key)
	}

	link := s.buildLink(ctx, rawURL, title, s.now())
	link.SessionID = target.SessionID
	link.SessionLabel = target.SessionLabel
	link.IsPinned = target.IsPinned
	link.DateGroup = target.DateGroup
	return link, s.prepend(ctx, link)
}

// CreateSession mints a named session seeded with one link.
func (s *Service) CreateSession(ctx context.Context, name, rawURL, title string) (domain.Link, error) {
	if name == "" {
		return domain.Link{}, fmt.Errorf("session name must not be empty")
	}
	if rawURL == "" {
		return domain.Link{}, fmt.Errorf("url must not be empty")
	}
	now := s.now()
	link := s.buildLink(ctx, rawURL, title, now)
	link.SessionID = fmt.Sprintf("manual-%d", now.UnixMilli())
	link.SessionLabel = name
	return link, s.prepend(ctx, link)
}

// AddWhitelist normalizes and appends a domain. A domain already present
// is rejected so the caller can tell the user instead of silently no-oping.
func (s *Service) AddWhitelist(ctx context.Context, raw string) (string, error) {
	normalized, err := domain.NormalizeDomain(raw)
	if err != nil {
		return "", err
	}

	domains, err := s.store.Whitelist(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read whitelist: %w", err)
	}
	for _, d := range domains {
		if d == normalized {
			return "", fmt.Errorf("domain already whitelisted: %s", normalized)
		}
	}

	domains = append(domains, normalized)
	if err := s.store.SaveWhitelist(ctx, domains); err != nil {
		return "", fmt.Errorf("failed to save whitelist: %w", err)
	}

	s.logger.Info("domain whitelisted", logger.String("domain", normalized))
	return normalized, nil
}

// RemoveWhitelist deletes a domain from the whitelist.
func (s *Service) RemoveWhitelist(ctx context.Context, raw string) error {
	normalized, err := domain.NormalizeDomain(raw)
	if err != nil {
		return err
	}

	domains, err := s.store.Whitelist(ctx)
	if err != nil {
		return fmt.Errorf("failed to read whitelist: %w", err)
	}
	kept := domains[:0]
	found := false
	for _, d := range domains {
		if d == normalized {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return fmt.Errorf("domain not whitelisted: %s", normalized)
	}
	return s.store.SaveWhitelist(ctx, kept)
}

func (s *Service) buildLink(ctx context.Context, rawURL, title string, now time.Time) domain.Link {
	if title == "" {
		title = s.titles.Title(ctx, rawURL)
	}
	return domain.Link{
		URL:       rawURL,
		UniqueID:  uuid.NewString(),
		Title:     title,
		Category:  domain.CategoryFor(rawURL),
		Timestamp: domain.FormatTimestamp(now),
		DateGroup: domain.FormatDateGroup(now),
	}
}

func (s *Service) prepend(ctx context.Context, link domain.Link) error {
	current, err := s.store.Links(ctx)
	if err != nil {
		return fmt.Errorf("failed to re-read links: %w", err)
	}
	merged := append([]domain.Link{link}, current...)
	if err := s.store.SaveLinks(ctx, merged); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}

	s.logger.Debug("link captured",
		logger.String("url", link.URL),
		logger.String("session", link.SessionID))
	return nil
}
