package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
)

// ListBackups serves the backup ledger, newest last.
func ListBackups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backups, err := d.Ledger.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, backups)
	}
}

// DownloadBackup serves one backup in the standalone download shape.
func DownloadBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, err := d.Ledger.Get(r.Context(), id)
		if err != nil {
			writeBackupError(w, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="tabkeeper-backup-`+id+`.json"`)
		writeJSON(w, http.StatusOK, b.Data)
	}
}

type backupRestoreResponse struct {
	Restored int `json:"restored"`
}

// RestoreBackup merges a backup's links back into the log as one session.
func RestoreBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		n, err := d.Ledger.Restore(r.Context(), id)
		if err != nil {
			writeBackupError(w, err)
			return
		}
		notifySync(d)
		writeJSON(w, http.StatusOK, backupRestoreResponse{Restored: n})
	}
}

// DeleteBackup removes one backup from the ledger.
func DeleteBackup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Ledger.Delete(r.Context(), id); err != nil {
			writeBackupError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeBackupError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "not found") {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}
