package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/importer"
	"github.com/MrSnakeDoc/tabkeeper/internal/logger"
)

var errImportShape = errors.New(`request body must be {"data": <links payload>, ...}`)

type importRequest struct {
	// Data is the raw import payload: {links}, {savedLinks} or a bare array.
	Data any `json:"data"`
	// Confirmed moves past the 409 analysis phase.
	Confirmed bool `json:"confirmed"`
	// Decisions taken by the user after seeing the analysis.
	PreserveStructure bool `json:"preserveStructure"`
	IncludeDuplicates bool `json:"includeDuplicates"`
	// RestoreConfig also restores settings/whitelist from a full export.
	RestoreConfig bool `json:"restoreConfig"`
}

// Import is a two-phase exchange mirroring the clean confirmation: the
// first call answers 409 with the duplicate analysis, the client decides,
// then re-sends with confirmed=true and its decisions.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var req importRequest
		if err := json.Unmarshal(body, &req); err != nil || req.Data == nil {
			writeError(w, http.StatusBadRequest, errImportShape)
			return
		}
		raw, err := json.Marshal(req.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		payload, err := importer.ParsePayload(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if !req.Confirmed {
			analysis, err := d.Importer.Analyze(r.Context(), payload.Links)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusConflict, analysis)
			return
		}

		result, err := d.Importer.Apply(r.Context(), payload.Links, importer.ApplyOptions{
			PreserveStructure: req.PreserveStructure,
			IncludeDuplicates: req.IncludeDuplicates,
		})
		if err != nil {
			d.Logger.Error("import failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		if req.RestoreConfig {
			if err := d.Importer.ApplyConfig(r.Context(), payload); err != nil {
				d.Logger.Warn("config restore failed", logger.Error(err))
			}
		}

		notifySync(d)
		writeJSON(w, http.StatusOK, result)
	}
}

// ExportAll serves the full store dump.
func ExportAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		full, err := d.Importer.ExportAll(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="tabkeeper-export.json"`)
		writeJSON(w, http.StatusOK, full)
	}
}

// ExportLinks serves the log in the {savedLinks} import shape.
func ExportLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := d.Importer.ExportLinks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ExportSession serves one session as a raw Link array.
func ExportSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		links, err := d.Importer.ExportSession(r.Context(), key)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				writeError(w, http.StatusNotFound, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, links)
	}
}
