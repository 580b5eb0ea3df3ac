package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/capture"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type commandRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Command handles a keyboard shortcut forwarded by the extension
func Command(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		command := chi.URLParam(r, "command")

		var req commandRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		b, err := d.Capture.Hotkey(r.Context(), capture.StaticTab{URL: req.URL, Title: req.Title}, command)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownCommand) {
				writeError(w, http.StatusNotFound, "unknown command")
				return
			}
			d.Logger.Error("hotkey capture failed", logger.String("command", command), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save bookmark")
			return
		}
		if b == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusCreated, b)
	}
}
