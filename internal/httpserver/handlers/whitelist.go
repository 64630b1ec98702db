package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
)

// GetWhitelist serves the protected-domain list.
func GetWhitelist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domains, err := d.Store.Whitelist(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, domains)
	}
}

type whitelistRequest struct {
	Domain string `json:"domain"`
}

type whitelistResponse struct {
	Domain string `json:"domain"`
}

// AddWhitelist normalizes and appends a domain. Duplicates answer 409 so
// the UI can tell the user instead of silently no-oping.
func AddWhitelist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req whitelistRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		normalized, err := d.Capture.AddWhitelist(r.Context(), req.Domain)
		if err != nil {
			switch {
			case strings.Contains(err.Error(), "already whitelisted"):
				writeError(w, http.StatusConflict, err)
			case strings.Contains(err.Error(), "invalid domain"):
				writeError(w, http.StatusBadRequest, err)
			default:
				writeError(w, http.StatusInternalServerError, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, whitelistResponse{Domain: normalized})
	}
}

// RemoveWhitelist deletes a domain from the whitelist.
func RemoveWhitelist(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req whitelistRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := d.Capture.RemoveWhitelist(r.Context(), req.Domain); err != nil {
			switch {
			case strings.Contains(err.Error(), "not whitelisted"):
				writeError(w, http.StatusNotFound, err)
			case strings.Contains(err.Error(), "invalid domain"):
				writeError(w, http.StatusBadRequest, err)
			default:
				writeError(w, http.StatusInternalServerError, err)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
