package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type importResponse struct {
	Imported int `json:"imported"`
}

// Export downloads the whole collection as bookmarks-<unixms>.json
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := d.Collection.ExportJSON()
		if err != nil {
			d.Logger.Error("export failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, collection.ExportFilename(d.Now())))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// Import merges an export file sent as the request body
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		n, err := d.Collection.ImportMerge(r.Context(), payload)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidImportFormat) {
				d.Logger.Warn("rejected import", logger.Error(err))
				writeError(w, http.StatusBadRequest, "invalid file")
				return
			}
			d.Logger.Error("import failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "import failed")
			return
		}

		writeJSON(w, http.StatusOK, importResponse{Imported: n})
	}
}
