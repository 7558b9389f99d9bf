package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/audio"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcriber"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcription"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

func (r *Router) getTranscript(w http.ResponseWriter, req *http.Request) {
	var body TranscriptRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: url")
		return
	}

	result, err := r.service.Transcribe(req.Context(), body.URL)
	if err != nil {
		status, message := classify(err)
		if status == http.StatusInternalServerError {
			r.log.WithRequest(req).WithField("error", err.Error()).Error("transcript request failed")
		} else {
			r.log.WithRequest(req).WithField("error", err.Error()).Info("transcript request rejected")
		}
		videoID := youtube.ExtractVideoID(body.URL)
		writeJSON(w, status, TranscriptResponse{Success: false, VideoID: videoID, Error: message})
		return
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{
		Success:    true,
		Transcript: result.Transcript,
		VideoID:    result.VideoID,
		Title:      result.Title,
		Method:     result.Method,
	})
}

// classify maps an internal error condition to a stable status code and a
// user-facing message. Full detail stays in the server logs; nothing
// internal leaks to the client.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, transcriber.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid YouTube URL"
	case errors.Is(err, transcription.ErrVideoTooLong):
		return http.StatusBadRequest, "Video is too long to transcribe"
	case errors.Is(err, youtube.ErrVideoNotAccessible):
		return http.StatusForbidden, "Video is private, removed or unavailable in this region"
	case errors.Is(err, youtube.ErrNoCaptions):
		return http.StatusNotFound, "No captions or transcript available for this video"
	case errors.Is(err, youtube.ErrTranscriptEmpty), errors.Is(err, youtube.ErrTranscriptFetch):
		return http.StatusNotFound, "No captions or transcript available for this video"
	case errors.Is(err, audio.ErrDownloadTimeout):
		return http.StatusInternalServerError, "Audio download timed out; please try again"
	case errors.Is(err, transcription.ErrBackend):
		return http.StatusInternalServerError, "Transcription service failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
