package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// Store handles Redis operations for the link log, settings, whitelist and
// backup ledger. Every record is one JSON value written whole; a set either
// fully replaces the value or fails.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Links retrieves the full link log. A missing key reads as an empty log.
func (s *Store) Links(ctx context.Context) ([]domain.Link, error) {
	data, err := s.client.Get(ctx, KeyLinks).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Link{}, nil
		}
		return nil, fmt.Errorf("failed to get links: %w", err)
	}

	var links []domain.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("failed to unmarshal links: %w", err)
	}
	return links, nil
}

// SaveLinks replaces the full link log in a single set.
func (s *Store) SaveLinks(ctx context.Context, links []domain.Link) error {
	if links == nil {
		links = []domain.Link{}
	}
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("failed to marshal links: %w", err)
	}

	if err := s.client.Set(ctx, KeyLinks, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}

	s.publish(ctx, KeyLinks)
	return nil
}

// Settings retrieves the settings record, fully defaulted when absent.
func (s *Store) Settings(ctx context.Context) (domain.Settings, error) {
	data, err := s.client.Get(ctx, KeySettings).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces the settings record.
func (s *Store) SaveSettings(ctx context.Context, settings domain.Settings) error {
	data, err := json.Marshal(settings.Normalize())
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := s.client.Set(ctx, KeySettings, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.publish(ctx, KeySettings)
	return nil
}

// Whitelist retrieves the domain whitelist. A missing key reads as empty.
func (s *Store) Whitelist(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, KeyWhitelist).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get whitelist: %w", err)
	}

	var domains []string
	if err := json.Unmarshal(data, &domains); err != nil {
		return nil, fmt.Errorf("failed to unmarshal whitelist: %w", err)
	}
	return domains, nil
}

// SaveWhitelist replaces the whitelist.
func (s *Store) SaveWhitelist(ctx context.Context, domains []string) error {
	if domains == nil {
		domains = []string{}
	}
	data, err := json.Marshal(domains)
	if err != nil {
		return fmt.Errorf("failed to marshal whitelist: %w", err)
	}

	if err := s.client.Set(ctx, KeyWhitelist, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save whitelist: %w", err)
	}

	s.publish(ctx, KeyWhitelist)
	return nil
}

// Backups retrieves the backup ledger. A missing key reads as empty.
func (s *Store) Backups(ctx context.Context) ([]domain.Backup, error) {
	data, err := s.client.Get(ctx, KeyBackups).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Backup{}, nil
		}
		return nil, fmt.Errorf("failed to get backups: %w", err)
	}

	var backups []domain.Backup
	if err := json.Unmarshal(data, &backups); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backups: %w", err)
	}
	return backups, nil
}

// SaveBackups replaces the backup ledger.
func (s *Store) SaveBackups(ctx context.Context, backups []domain.Backup) error {
	if backups == nil {
		backups = []domain.Backup{}
	}
	data, err := json.Marshal(backups)
	if err != nil {
		return fmt.Errorf("failed to marshal backups: %w", err)
	}

	if err := s.client.Set(ctx, KeyBackups, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save backups: %w", err)
	}

	s.publish(ctx, KeyBackups)
	return nil
}
