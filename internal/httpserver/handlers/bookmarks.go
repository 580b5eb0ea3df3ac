package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/capture"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type bookmarksResponse struct {
	Count     int               `json:"count"`
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

type createRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

type editTagsRequest struct {
	Tags string `json:"tags"`
}

// ListBookmarks serves ?tag= (exact filter) or ?q= (search). tag wins when both are set.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var list []domain.Bookmark
		if tag := strings.TrimSpace(q.Get("tag")); tag != "" {
			list = d.Collection.FilterByTag(tag)
		} else {
			list = d.Collection.Search(q.Get("q"))
		}

		writeJSON(w, http.StatusOK, bookmarksResponse{Count: len(list), Bookmarks: list})
	}
}

// CreateBookmark captures the tab described by the body. An empty url means no active tab.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		b, err := d.Capture.Manual(r.Context(), capture.StaticTab{URL: req.URL, Title: req.Title}, req.Tags)
		if err != nil {
			d.Logger.Error("capture failed", logger.String("url", req.URL), logger.Error(err))
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

// DeleteBookmark removes a record. Unknown ids still answer 204.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		if err := d.Collection.DeleteByID(r.Context(), id); err != nil {
			d.Logger.Error("delete failed", logger.Int64("id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete bookmark")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// EditTags replaces the tags of a record. Unknown ids answer 204 with no body.
func EditTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		var req editTagsRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		b, found, err := d.Collection.EditTags(r.Context(), id, req.Tags)
		if err != nil {
			d.Logger.Error("tag edit failed", logger.Int64("id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to edit tags")
			return
		}
		if !found {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, b)
	}
}
