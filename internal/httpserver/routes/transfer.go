package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
)

func init() { RegisterAPI(registerTransfer) }

func registerTransfer(r chi.Router, d deps.Deps) {
	cidrs := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)

	r.With(cidrs).Get("/export", handlers.Export(d))
	r.With(cidrs, mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/import", handlers.Import(d))
}
