package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/mw"
)

func init() { Register(registerCapture) }

func registerCapture(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Post("/v1/capture/quick-save", handlers.QuickSave(d))
	guarded.Post("/v1/capture/new-session", handlers.NewSession(d))
	guarded.Post("/v1/capture/add-to-session", handlers.AddToSession(d))
	guarded.Post("/v1/capture/create-session", handlers.CreateSession(d))
}
