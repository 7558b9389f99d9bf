package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/search"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/postgres"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcriber"
)

// Transcriber is the orchestrator as the handlers see it.
type Transcriber interface {
	Transcribe(ctx context.Context, rawURL string) (*transcriber.Result, error)
}

type Router struct {
	*mux.Router

	service Transcriber
	videos  *postgres.VideoRepository
	chunks  *postgres.ChunkRepository
	embed   *search.Embedder
	apiKey  string
	log     *logger.Logger
}

// Deps carries the router's collaborators. Videos, Chunks and Embed are
// optional; their routes are only registered when they are present.
type Deps struct {
	Service Transcriber
	Videos  *postgres.VideoRepository
	Chunks  *postgres.ChunkRepository
	Embed   *search.Embedder
	APIKey  string
	Log     *logger.Logger
}

func NewRouter(deps Deps) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		service: deps.Service,
		videos:  deps.Videos,
		chunks:  deps.Chunks,
		embed:   deps.Embed,
		apiKey:  deps.APIKey,
		log:     deps.Log,
	}

	r.Use(r.corsMiddleware, r.loggingMiddleware)
	r.MethodNotAllowedHandler = http.HandlerFunc(r.methodNotAllowed)

	// Public routes
	public := r.Router.PathPrefix("/public").Subrouter()
	public.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Protected routes
	protected := r.Router.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware)

	protected.HandleFunc("/transcript", r.getTranscript).Methods(http.MethodPost)

	if r.videos != nil {
		videos := protected.PathPrefix("/videos").Subrouter()
		videos.HandleFunc("", r.listVideos).Methods(http.MethodGet)
		videos.HandleFunc("", r.addVideo).Methods(http.MethodPost)
		videos.HandleFunc("/{id}", r.getVideo).Methods(http.MethodGet)
	}
	if r.chunks != nil && r.embed != nil {
		protected.HandleFunc("/search", r.searchVideos).Methods(http.MethodPost)
	}

	return r
}

// corsMiddleware attaches permissive cross-origin headers to every response
// and short-circuits preflight requests with an empty 204.
func (r *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodOptions {
			r.log.WithRequest(req).Info("handling request")
		}
		next.ServeHTTP(w, req)
	})
}

// authMiddleware validates the caller's X-API-Key before anything else
// runs; no upstream call happens for an unauthenticated request.
func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		key := req.Header.Get("X-API-Key")
		if key == "" {
			writeError(w, http.StatusUnauthorized, "Missing API key")
			return
		}
		if key != r.apiKey {
			writeError(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	// The CORS middleware does not wrap this handler, so set the headers
	// here too. Preflight requests for single-method routes land here.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
	if req.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (r *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, TranscriptResponse{Success: false, Error: message})
}
