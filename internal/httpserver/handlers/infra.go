package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	BookmarksLoaded *int   `json:"bookmarks_loaded,omitempty"`
	LastLoad        string `json:"last_load,omitempty"`
	Backend         string `json:"backend,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the collection, the store and the capture pipeline
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Collection.Len()
		lastLoad := d.Collection.LoadedAt()
		lastLoadStr := "never"
		if !lastLoad.IsZero() {
			lastLoadStr = lastLoad.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"collection": {
				OK:              !lastLoad.IsZero(),
				BookmarksLoaded: &count,
				LastLoad:        lastLoadStr,
			},
			"store": checkStore(r.Context(), d),
			"capture": {
				OK:   d.Capture != nil,
				Mode: "manual+hotkey",
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func determineStatus(components map[string]componentStatus) string {
	if c, ok := components["collection"]; ok && !c.OK {
		return "critical"
	}
	if s, ok := components["store"]; ok && !s.OK {
		return "degraded" // reads still served from memory, writes fail
	}
	return "operational"
}

func checkStore(parent context.Context, d deps.Deps) componentStatus {
	if d.StorePing == nil {
		return componentStatus{
			OK:      true,
			Backend: d.StoreBackend,
			Mode:    "local",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.StorePing(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.StoreBackend,
			Mode:    "degraded",
			Impact:  "writes-failing",
			Error:   err.Error(),
		}
	}

	return componentStatus{
		OK:      true,
		Backend: d.StoreBackend,
		Mode:    "optimal",
	}
}
