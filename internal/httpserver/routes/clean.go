package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/mw"
)

func init() { Register(registerClean) }

func registerClean(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Post("/v1/clean", handlers.Clean(d))
	guarded.Post("/v1/clean/background", handlers.BackgroundClean(d))
	guarded.Post("/v1/reset", handlers.Reset(d))
	guarded.Post("/v1/dashboard/open", handlers.OpenDashboard(d))
}
