package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tabkeeper/internal/backup"
	"github.com/MrSnakeDoc/tabkeeper/internal/capture"
	"github.com/MrSnakeDoc/tabkeeper/internal/cleaner"
	"github.com/MrSnakeDoc/tabkeeper/internal/config"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/importer"
	"github.com/MrSnakeDoc/tabkeeper/internal/index"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/menu"
	"github.com/MrSnakeDoc/tabkeeper/internal/redis"
	"github.com/MrSnakeDoc/tabkeeper/internal/scheduler"
	"github.com/MrSnakeDoc/tabkeeper/internal/sessions"
	"github.com/MrSnakeDoc/tabkeeper/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/tabkeeper/internal/store/redis"
	"github.com/MrSnakeDoc/tabkeeper/internal/tabs"
	"github.com/MrSnakeDoc/tabkeeper/internal/titlefetch"
	"github.com/MrSnakeDoc/tabkeeper/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	syncer      *scheduler.LinkSyncer
	hygiene     *scheduler.Hygiene
	menu        *menu.Builder
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	memIndex := index.NewMemoryIndex()

	// First-run seeding: settings and whitelist defaults, optionally from
	// a seed file.
	seedFirstRun(context.Background(), store, cfg.SeedFile, loggerClient)

	// Tab provider: the companion bridge exposing the browser's tab API.
	provider := tabs.NewBridge(cfg.BridgeURL, cfg.BridgeTimeout)

	// Services
	ledger := backup.NewLedger(store, loggerClient)
	cleanSvc := cleaner.NewService(store, provider, ledger, loggerClient, cfg.DashboardURL)
	reconciler := sessions.NewReconciler(store, provider, loggerClient)
	importSvc := importer.NewService(store, loggerClient)
	titler := titlefetch.New(cfg.TitleFetchTimeout)
	captureSvc := capture.NewService(store, titler, loggerClient)
	menuBuilder := menu.NewBuilder(store, loggerClient, cfg.MenuDebounce)

	// Schedulers
	syncTrigger := make(chan struct{}, 1)
	syncer := scheduler.NewLinkSyncer(
		store,
		store, // redis store doubles as the change event source
		memIndex,
		menuBuilder,
		loggerClient,
		cfg.SyncInterval,
		syncTrigger,
	)
	hygiene := scheduler.NewHygiene(store, reconciler, loggerClient, cfg.SweepInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		RedisClient:  redisClient,
		MemoryIndex:  memIndex,
		Store:        store,
		Cleaner:      cleanSvc,
		Reconciler:   reconciler,
		Importer:     importSvc,
		Ledger:       ledger,
		Capture:      captureSvc,
		Menu:         menuBuilder,
		SyncTrigger:  syncTrigger,
		DashboardURL: cfg.DashboardURL,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		memIndex:    memIndex,
		syncer:      syncer,
		hygiene:     hygiene,
		menu:        menuBuilder,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Tabkeeper v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Tabkeeper %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start link syncer (initial sync + periodic refresh + change events)
	if err := a.syncer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start link syncer: %w", err)
	}
	a.logger.Info("link syncer started",
		logger.Duration("interval", a.cfg.SyncInterval))

	// Start hygiene sweeper (backup cap, id backfill)
	if err := a.hygiene.Start(ctx); err != nil {
		return fmt.Errorf("failed to start hygiene sweeper: %w", err)
	}
	a.logger.Info("hygiene sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	// Build the initial menu model
	if err := a.menu.Rebuild(ctx); err != nil {
		a.logger.Warn("initial menu build failed", logger.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.syncer.Stop()
	a.hygiene.Stop()
	a.menu.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Tabkeeper stopped cleanly")
	return nil
}

// seedFirstRun writes default settings and whitelist when the store holds
// none. An empty whitelist is the first-run marker: settings reads always
// default, so they cannot distinguish a fresh install.
func seedFirstRun(ctx context.Context, s *redisstore.Store, seedFile string, log logger.Logger) {
	whitelist, err := s.Whitelist(ctx)
	if err != nil {
		log.Warn("failed to read whitelist, skipping first-run seed",
			logger.Error(err))
		return
	}
	if len(whitelist) > 0 {
		return
	}

	var file *seed.File
	if seedFile != "" {
		file, err = seed.NewLoader(seedFile).Load()
		if err != nil {
			log.Warn("failed to load seed file, using built-in defaults",
				logger.String("file", seedFile),
				logger.Error(err))
			file = nil
		}
	}

	mapper := seed.NewMapper()
	settings := mapper.MapSettings(file)
	domains := mapper.MapWhitelist(file)

	if err := s.SaveSettings(ctx, settings); err != nil {
		log.Warn("failed to seed settings", logger.Error(err))
	}
	if err := s.SaveWhitelist(ctx, domains); err != nil {
		log.Warn("failed to seed whitelist", logger.Error(err))
	}

	log.Info("first-run seed applied",
		logger.Int("whitelist", len(domains)),
		logger.Bool("fromFile", file != nil))
}
