package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type tagsResponse struct {
	Tags []domain.TagCount `json:"tags"`
}

// Tags serves the tag-frequency index. ?limit= overrides the configured size.
func Tags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := d.TagLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = n
		}

		writeJSON(w, http.StatusOK, tagsResponse{Tags: d.Collection.TagFrequencies(limit)})
	}
}
