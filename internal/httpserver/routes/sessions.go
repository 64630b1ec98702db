package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tabkeeper/internal/httpserver/mw"
)

func init() { Register(registerSessions) }

func registerSessions(r chi.Router, d deps.Deps) {
	guarded := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	guarded.Get("/v1/sessions", handlers.ListSessions(d))
	guarded.Delete("/v1/sessions", handlers.ClearAllSessions(d))
	guarded.Post("/v1/sessions/{key}/rename", handlers.RenameSession(d))
	guarded.Post("/v1/sessions/{key}/pin", handlers.TogglePinSession(d))
	guarded.Post("/v1/sessions/{key}/bump", handlers.BumpSession(d))
	guarded.Post("/v1/sessions/{key}/restore", handlers.RestoreSession(d))
	guarded.Delete("/v1/sessions/{key}", handlers.DeleteSession(d))
	guarded.Post("/v1/links/move", handlers.MoveLinks(d))
	guarded.Post("/v1/links/delete", handlers.DeleteLinks(d))
	guarded.Post("/v1/links/category", handlers.EditCategory(d))
	guarded.Get("/v1/links", handlers.ListLinks(d))
}
