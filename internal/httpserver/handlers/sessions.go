package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
	"github.com/MrSnakeDoc/tabkeeper/internal/sessions"
)

// ListSessions serves the grouped, display-sorted session view from the
// memory index. Mutations go through the store; reads hit the snapshot.
func ListSessions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.MemoryIndex.Sessions())
	}
}

type renameRequest struct {
	Label string `json:"label"`
}

func RenameSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renameRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		key := chi.URLParam(r, "key")
		if err := d.Reconciler.Rename(r.Context(), key, req.Label); err != nil {
			writeSessionError(w, err)
			return
		}
		notifySync(d)
		w.WriteHeader(http.StatusNoContent)
	}
}

func TogglePinSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if err := d.Reconciler.TogglePin(r.Context(), key); err != nil {
			writeSessionError(w, err)
			return
		}
		notifySync(d)
		w.WriteHeader(http.StatusNoContent)
	}
}

func BumpSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if err := d.Reconciler.Bump(r.Context(), key); err != nil {
			writeSessionError(w, err)
			return
		}
		notifySync(d)
		w.WriteHeader(http.StatusNoContent)
	}
}

type moveRequest struct {
	UniqueIDs []string `json:"uniqueIds"`
	Target    string   `json:"target"` // existing session key, or "NEW_SESSION"
}

type moveResponse struct {
	SessionID string `json:"sessionId"`
}

func MoveLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		sessionID, err := d.Reconciler.MoveSelected(r.Context(), req.UniqueIDs, req.Target)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusOK, moveResponse{SessionID: sessionID})
	}
}

type deleteLinksRequest struct {
	UniqueIDs []string `json:"uniqueIds"`
}

type deletedResponse struct {
	Deleted int `json:"deleted"`
}

func DeleteLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteLinksRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		n, err := d.Reconciler.DeleteSelected(r.Context(), req.UniqueIDs)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
	}
}

func DeleteSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		n, err := d.Reconciler.DeleteSession(r.Context(), key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusOK, deletedResponse{Deleted: n})
	}
}

func ClearAllSessions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Reconciler.ClearAll(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		d.Logger.Warn("link log cleared via endpoint",
			logger.String("remote_ip", r.RemoteAddr))
		notifySync(d)
		w.WriteHeader(http.StatusNoContent)
	}
}

type restoreRequest struct {
	Mode string `json:"mode,omitempty"` // "restore" (default) | "replace"
}

func RestoreSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req restoreRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		mode := sessions.RestoreAdditive
		switch req.Mode {
		case "", string(sessions.RestoreAdditive):
		case string(sessions.RestoreReplace):
			mode = sessions.RestoreReplace
		default:
			writeError(w, http.StatusBadRequest, errors.New(`mode must be "restore" or "replace"`))
			return
		}

		key := chi.URLParam(r, "key")
		result, err := d.Reconciler.Restore(r.Context(), key, mode)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusOK, result)
	}
}

type editCategoryRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
}

func EditCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editCategoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := d.Reconciler.EditCategory(r.Context(), req.URL, req.Category); err != nil {
			writeSessionError(w, err)
			return
		}
		notifySync(d)
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeSessionError maps reconciler failures: not-found style errors are
// the client's fault, the rest are ours.
func writeSessionError(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		writeError(w, http.StatusNotFound, err)
	case strings.Contains(msg, "must not be empty"), strings.Contains(msg, "no link"):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
