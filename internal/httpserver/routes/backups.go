package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/mw"
)

func init() { Register(registerBackups) }

func registerBackups(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Get("/v1/backups", handlers.ListBackups(d))
	guarded.Get("/v1/backups/{id}/download", handlers.DownloadBackup(d))
	guarded.Post("/v1/backups/{id}/restore", handlers.RestoreBackup(d))
	guarded.Delete("/v1/backups/{id}", handlers.DeleteBackup(d))
}
