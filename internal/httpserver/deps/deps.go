package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tabkeeper/internal/backup"
	"github.com/MrSnakeDoc/tabkeeper/internal/capture"
	"github.com/MrSnakeDoc/tabkeeper/internal/cleaner"
	"github.com/MrSnakeDoc/tabkeeper/internal/importer"
	"github.com/MrSnakeDoc/tabkeeper/internal/index"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/menu"
	"github.com/MrSnakeDoc/tabkeeper/internal/sessions"
	"github.com/MrSnakeDoc/tabkeeper/internal/store"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy

	RedisClient *redis.Client      // Redis client connection, nil when degraded
	MemoryIndex *index.MemoryIndex // read-optimized link/session snapshot
	Store       store.Store        // persisted link log / settings / whitelist / backups

	Cleaner    *cleaner.Service
	Reconciler *sessions.Reconciler
	Importer   *importer.Service
	Ledger     *backup.Ledger
	Capture    *capture.Service
	Menu       *menu.Builder

	SyncTrigger  chan struct{} // channel to trigger a manual index sync
	DashboardURL string
}
