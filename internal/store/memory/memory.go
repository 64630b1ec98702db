package memory

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// Store is an in-memory implementation of the persisted store. Used by
// tests and as a scratch backend when Redis is deliberately absent.
type Store struct {
	mu       sync.RWMutex
	links    []domain.Link
	settings *domain.Settings
	domains  []string
	backups  []domain.Backup
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Links(ctx context.Context) ([]domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Link, len(s.links))
	copy(out, s.links)
	return out, nil
}

func (s *Store) SaveLinks(ctx context.Context, links []domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.links = make([]domain.Link, len(links))
	copy(s.links, links)
	return nil
}

func (s *Store) Settings(ctx context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings = settings.Normalize()
	s.settings = &settings
	return nil
}

func (s *Store) Whitelist(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.domains))
	copy(out, s.domains)
	return out, nil
}

func (s *Store) SaveWhitelist(ctx context.Context, domains []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.domains = make([]string, len(domains))
	copy(s.domains, domains)
	return nil
}

func (s *Store) Backups(ctx context.Context) ([]domain.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Backup, len(s.backups))
	copy(out, s.backups)
	return out, nil
}

func (s *Store) SaveBackups(ctx context.Context, backups []domain.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backups = make([]domain.Backup, len(backups))
	copy(s.backups, backups)
	return nil
}
