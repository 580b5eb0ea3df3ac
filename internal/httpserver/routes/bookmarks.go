package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
)

func init() { RegisterAPI(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	cidrs := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	hosts := mw.EnforceHost(d.AllowedHosts, d.Logger)

	r.With(cidrs).Get("/bookmarks", handlers.ListBookmarks(d))
	r.With(cidrs).Get("/tags", handlers.Tags(d))

	r.With(cidrs, hosts, captureLimit(d)).Post("/bookmarks", handlers.CreateBookmark(d))
	r.With(cidrs, hosts).Delete("/bookmarks/{id}", handlers.DeleteBookmark(d))
	r.With(cidrs, hosts).Put("/bookmarks/{id}/tags", handlers.EditTags(d))
}

func captureLimit(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.CaptureBurst,
		RefillPerIPPerMin: d.CapturePerMinute,
		MaxEntries:        10000,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})
}
