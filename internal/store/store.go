package store

import (
	"context"

	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
)

// Store is the persisted key-value substrate: four independent records,
// each read and written whole. No transaction spans them; callers follow
// the fresh-read-then-single-write discipline.
type Store interface {
	Links(ctx context.Context) ([]domain.Link, error)
	SaveLinks(ctx context.Context, links []domain.Link) error

	Settings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, s domain.Settings) error

	Whitelist(ctx context.Context) ([]string, error)
	SaveWhitelist(ctx context.Context, domains []string) error

	Backups(ctx context.Context) ([]domain.Backup, error)
	SaveBackups(ctx context.Context, backups []domain.Backup) error
}
