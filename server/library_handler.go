package server

import (
	"net/http"
	"strconv"

	"ChromaFM/logger"
	"ChromaFM/model"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

type librarySyncRequest struct {
	UserID   int64  `json:"userId"`
	Selector string `json:"selector"` // "saved" (default) or "playlist:<id>"
}

// handleLibrarySync ingests the user's library from the music service and
// persists it.
func (h *APIHandler) handleLibrarySync(w http.ResponseWriter, r *http.Request) {
	var req librarySyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	tracks, err := h.library.FetchLibrary(r.Context(), req.Selector)
	if err != nil {
		logger.Error("library fetch failed",
			logger.Int64("userId", req.UserID), logger.ErrorField(err))
		writeError(w, http.StatusBadGateway, "failed to fetch library from music service")
		return
	}

	for i := range tracks {
		tracks[i].UserID = req.UserID
	}
	if err := h.libraryRepo.UpsertTracks(r.Context(), tracks); err != nil {
		logger.Error("library persist failed",
			logger.Int64("userId", req.UserID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to persist library")
		return
	}

	logger.Info("library synced",
		logger.Int64("userId", req.UserID), logger.Int("tracks", len(tracks)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"synced": len(tracks)})
}

// handleLibraryList returns the user's ingested library.
func (h *APIHandler) handleLibraryList(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	tracks, err := h.libraryRepo.GetTracksByUserID(r.Context(), userID)
	if err != nil {
		logger.Error("library list failed",
			logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load library")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// handleTrackFeatures resolves the feature record of one track through the
// cache, computing it on first sight of the artwork.
func (h *APIHandler) handleTrackFeatures(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}
	trackID := mux.Vars(r)["id"]

	track, err := h.libraryRepo.GetTrackByID(r.Context(), userID, trackID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load track")
		return
	}
	if track == nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	features, manifest, err := h.analyzer.Analyze(r.Context(), []model.Track{*track}, nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	if len(features) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{"manifest": manifest})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record":   features[0].Record,
		"mood":     features[0].Mood,
		"timeBin":  features[0].TimeBin,
		"manifest": manifest,
	})
}
