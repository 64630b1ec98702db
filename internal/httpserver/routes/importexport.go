package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/mw"
)

func init() { Register(registerImportExport) }

func registerImportExport(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Post("/v1/import", handlers.Import(d))
	guarded.Get("/v1/export/full", handlers.ExportAll(d))
	guarded.Get("/v1/export/links", handlers.ExportLinks(d))
	guarded.Get("/v1/export/session/{key}", handlers.ExportSession(d))
}
