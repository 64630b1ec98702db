package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type statusResponse struct {
	Mode        string                     `json:"mode"`
	Links       int                        `json:"links"`
	Sessions    int                        `json:"sessions"`
	LastRefresh string                     `json:"last_refresh"`
	Components  map[string]componentStatus `json:"components"`
}

// Status reports the engine's view of the world: index freshness, counts,
// and backing component health.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lastRefresh := "never"
		if t := d.MemoryIndex.LastRefresh(); !t.IsZero() {
			lastRefresh = t.Format("2006-01-02 15:04:05")
		}

		redisStatus := checkRedis(d)
		components := map[string]componentStatus{
			"redis": redisStatus,
			"index": {
				OK: !d.MemoryIndex.LastRefresh().IsZero(),
			},
		}

		mode := "ok"
		if !redisStatus.OK {
			mode = "degraded"
		}

		writeJSON(w, http.StatusOK, statusResponse{
			Mode:        mode,
			Links:       d.MemoryIndex.Count(),
			Sessions:    d.MemoryIndex.SessionCount(),
			LastRefresh: lastRefresh,
			Components:  components,
		})
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{OK: true, Mode: "optimal"}
}
