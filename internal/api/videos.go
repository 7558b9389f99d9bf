package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

func (r *Router) addVideo(w http.ResponseWriter, req *http.Request) {
	var body VideoRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	videoID := youtube.ExtractVideoID(body.URL)
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "Invalid YouTube URL")
		return
	}

	id, err := r.videos.Create(req.Context(), body.URL, videoID, body.IsSearchable)
	if err != nil {
		r.log.WithRequest(req).WithField("error", err.Error()).Error("failed to insert video")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (r *Router) getVideo(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	video, err := r.videos.Get(req.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}
	if err != nil {
		r.log.WithRequest(req).WithField("error", err.Error()).Error("failed to load video")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, video)
}

func (r *Router) listVideos(w http.ResponseWriter, req *http.Request) {
	videos, err := r.videos.List(req.Context())
	if err != nil {
		r.log.WithRequest(req).WithField("error", err.Error()).Error("failed to list videos")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, videos)
}

func (r *Router) searchVideos(w http.ResponseWriter, req *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Query == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: query")
		return
	}
	if body.Limit == 0 {
		body.Limit = 5
	}

	embedding, err := r.embed.Embed(req.Context(), body.Query)
	if err != nil {
		r.log.WithRequest(req).WithField("error", err.Error()).Error("failed to embed query")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	results, err := r.chunks.Search(req.Context(), embedding, body.Limit)
	if err != nil {
		r.log.WithRequest(req).WithField("error", err.Error()).Error("chunk search failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
