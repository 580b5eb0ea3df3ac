package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var (
	root []entry // mounted at /
	api  []entry // mounted under /api
)

// Register a top-level registrar (probes, metrics, ops) with optional middlewares.
func Register(reg Registrar, mws ...Middleware) {
	root = append(root, entry{reg: reg, mws: mws})
}

// RegisterAPI adds a registrar to the /api subrouter used by the extension.
func RegisterAPI(reg Registrar, mws ...Middleware) {
	api = append(api, entry{reg: reg, mws: mws})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	mount(r, root, d)
	r.Route("/api", func(sub chi.Router) {
		mount(sub, api, d)
	})
}

func mount(r chi.Router, entries []entry, d deps.Deps) {
	for _, e := range entries {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}
}
