package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// Readyz answers 503 until the collection has been loaded and the store answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Collection.LoadedAt().IsZero() {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "collection not loaded"})
			return
		}

		if d.StorePing != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.StorePing(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Reason: "store unreachable"})
				return
			}
		}

		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
