package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/menu"
)

// GetMenu serves the derived context-menu model.
func GetMenu(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Menu.Model())
	}
}

// RebuildMenu forces an immediate rebuild. A rebuild already in flight
// answers 429; its result will be just as fresh.
func RebuildMenu(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Menu.Rebuild(r.Context()); err != nil {
			if errors.Is(err, menu.ErrRebuildInFlight) {
				writeError(w, http.StatusTooManyRequests, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Menu.Model())
	}
}
