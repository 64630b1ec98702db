package importer

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// FullExport is the entire store dump. Feeding it back through import
// round-trips the links, and ApplyConfig restores settings and whitelist.
type FullExport struct {
	SavedLinks []domain.Link   `json:"savedLinks"`
	Whitelist  []string        `json:"whitelist"`
	Settings   domain.Settings `json:"settings"`
	Backups    []domain.Backup `json:"backups"`
	ExportedAt string          `json:"exportedAt"`
	Version    string          `json:"version"`
}

// ExportAll dumps the whole store.
func (s *Service) ExportAll(ctx context.Context) (FullExport, error) {
	links, err := s.store.Links(ctx)
	if err != nil {
		return FullExport{}, fmt.Errorf("failed to read links: %w", err)
	}
	whitelist, err := s.store.Whitelist(ctx)
	if err != nil {
		return FullExport{}, fmt.Errorf("failed to read whitelist: %w", err)
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return FullExport{}, fmt.Errorf("failed to read settings: %w", err)
	}
	backups, err := s.store.Backups(ctx)
	if err != nil {
		return FullExport{}, fmt.Errorf("failed to read backups: %w", err)
	}
	return FullExport{
		SavedLinks: links,
		Whitelist:  whitelist,
		Settings:   settings,
		Backups:    backups,
		ExportedAt: domain.FormatTimestamp(s.now()),
		Version:    domain.BackupVersion,
	}, nil
}

// ExportSession returns the raw Link records of one session.
func (s *Service) ExportSession(ctx context.Context, key string) ([]domain.Link, error) {
	links, err := s.store.Links(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}
	var members []domain.Link
	for _, l := range links {
		if l.GroupingKey() == key {
			members = append(members, l)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("session not found: %s", key)
	}
	return members, nil
}

// ExportLinks wraps the current log in the {savedLinks} import shape.
func (s *Service) ExportLinks(ctx context.Context) (map[string][]domain.Link, error) {
	links, err := s.store.Links(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}
	return map[string][]domain.Link{"savedLinks": links}, nil
}
