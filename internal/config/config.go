package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile      string        // path to the seed.yaml with first-run settings/whitelist (optional)
	DashboardURL  string        // URL of the dashboard page (own pages are never archived)
	SyncInterval  time.Duration // interval to refresh the in-memory link index (default: 1m)
	SweepInterval time.Duration // interval to run the hygiene sweep (default: 1h)
	MenuDebounce  time.Duration // debounce for menu rebuilds after store changes (default: 100ms)

	// Tab bridge (companion endpoint exposing the browser's tab API)
	BridgeURL     string        // ex: "http://localhost:9222"
	BridgeTimeout time.Duration // per-call timeout (default: 3s)

	// Title fetching (best effort)
	TitleFetchTimeout time.Duration // timeout for page-title fetches (default: 2s)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateLimitBurst  int // per-IP token bucket capacity
	RateLimitPerMin int // per-IP refill rate (tokens per minute)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TABKEEPER_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TABKEEPER_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TABKEEPER_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TABKEEPER_PRETTY_LOG", true),

		// Housekeeping
		SeedFile:      getenv("TABKEEPER_SEED_FILE", ""), // Optional, empty = built-in defaults
		DashboardURL:  getenv("TABKEEPER_DASHBOARD_URL", ""),
		SyncInterval:  mustDuration("TABKEEPER_SYNC_INTERVAL", time.Minute),
		SweepInterval: mustDuration("TABKEEPER_SWEEP_INTERVAL", time.Hour),
		MenuDebounce:  mustDuration("TABKEEPER_MENU_DEBOUNCE", 100*time.Millisecond),

		// Tab bridge
		BridgeURL:     requireEnv("TABKEEPER_BRIDGE_URL"),
		BridgeTimeout: mustDuration("TABKEEPER_BRIDGE_TIMEOUT", 3*time.Second),

		// Title fetching
		TitleFetchTimeout: mustDuration("TABKEEPER_TITLE_FETCH_TIMEOUT", 2*time.Second),

		// Redis settings
		RedisAddr:             requireEnv("TABKEEPER_REDIS_ADDR"),
		RedisUser:             getenv("TABKEEPER_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("TABKEEPER_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("TABKEEPER_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("TABKEEPER_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("TABKEEPER_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("TABKEEPER_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TABKEEPER_TRUST_PROXY", true),

		// Rate limiting (per client IP)
		RateLimitBurst:  getenvInt("TABKEEPER_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("TABKEEPER_RATE_LIMIT_PER_MIN", 120),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TABKEEPER_REDIS_PASSWORD is required when TABKEEPER_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
