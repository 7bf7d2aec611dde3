package server

import (
	"net/http"

	"ChromaFM/core/playlist"
	"ChromaFM/logger"
	"ChromaFM/repository"
	"ChromaFM/spotify"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// APIHandler holds the dependencies of every HTTP handler.
type APIHandler struct {
	libraryRepo repository.LibraryRepository
	analyzer    *playlist.Analyzer
	partitioner *playlist.Partitioner
	library     spotify.LibraryService
	playlists   spotify.PlaylistService
}

// NewAPIHandler creates the API handler set.
func NewAPIHandler(repo repository.LibraryRepository,
	analyzer *playlist.Analyzer, partitioner *playlist.Partitioner,
	sp *spotify.Client) *APIHandler {
	return &APIHandler{
		libraryRepo: repo,
		analyzer:    analyzer,
		partitioner: partitioner,
		library:     sp,
		playlists:   sp,
	}
}

// RegisterRoutes attaches all API routes to the router.
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/library/sync", h.handleLibrarySync).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/library", h.handleLibraryList).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tracks/{id}/features", h.handleTrackFeatures).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/playlists/generate", h.handleGenerate).Methods(http.MethodPost, http.MethodOptions)
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
