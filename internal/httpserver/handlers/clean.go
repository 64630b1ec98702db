package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/tabkeeper/internal/cleaner"
	"github.com/MrSnakeDoc/tabkeeper/internal/domain"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
)

var errInvalidScope = errors.New(`scope must be "current" or "global"`)

type cleanRequest struct {
	Scope     string `json:"scope,omitempty"` // "current" | "global", empty = settings default
	Confirmed bool   `json:"confirmed"`       // second phase of the confirm exchange
}

// Clean runs the cleanup pipeline. With confirmBeforeClose enabled the
// exchange is two-phase: the first call (confirmed=false) answers 409 with
// the computed summary, the client re-sends with confirmed=true, and the
// pipeline re-enumerates from scratch so the summary can only shrink or
// grow with reality, never act on a stale snapshot.
func Clean(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cleanRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		scope := domain.Scope(req.Scope)
		if scope != "" && scope != domain.ScopeCurrent && scope != domain.ScopeGlobal {
			writeError(w, http.StatusBadRequest, errInvalidScope)
			return
		}

		result, err := d.Cleaner.Clean(r.Context(), scope, cleaner.StaticConfirmer{Answer: req.Confirmed})
		if err != nil {
			d.Logger.Error("clean failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		if result.Aborted {
			// Decision needed: the summary tells the client what a
			// confirmed call would do.
			writeJSON(w, http.StatusConflict, result)
			return
		}

		notifySync(d)
		writeJSON(w, http.StatusOK, result)
	}
}

// BackgroundClean is the shortcut variant: no confirmation, pinned and
// active tabs hard-protected.
func BackgroundClean(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := d.Cleaner.BackgroundClean(r.Context())
		if err != nil {
			d.Logger.Error("background clean failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		notifySync(d)
		writeJSON(w, http.StatusOK, result)
	}
}

type resetResponse struct {
	TabsClosed int `json:"tabsClosed"`
}

// Reset is the emergency exit: close everything in the current context
// without archiving, after planting a safety tab.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		closed, err := d.Cleaner.Reset(r.Context())
		if err != nil {
			d.Logger.Error("reset failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, resetResponse{TabsClosed: closed})
	}
}

// OpenDashboard focuses or opens the dashboard tab.
func OpenDashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Cleaner.OpenDashboard(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// notifySync pokes the link syncer so the index catches up with the write
// without waiting for the next tick. Best effort: a full trigger channel
// means a sync is already pending.
func notifySync(d deps.Deps) {
	if d.SyncTrigger == nil {
		return
	}
	select {
	case d.SyncTrigger <- struct{}{}:
	default:
	}
}
