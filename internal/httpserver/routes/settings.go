package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/mw"
)

func init() { Register(registerSettings) }

func registerSettings(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Get("/v1/settings", handlers.GetSettings(d))
	guarded.Put("/v1/settings", handlers.UpdateSettings(d))
	guarded.Get("/v1/whitelist", handlers.GetWhitelist(d))
	guarded.Post("/v1/whitelist", handlers.AddWhitelist(d))
	guarded.Delete("/v1/whitelist", handlers.RemoveWhitelist(d))
}
