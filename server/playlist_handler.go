package server

import (
	"errors"
	"net/http"

	"ChromaFM/core/artwork"
	"ChromaFM/core/mosaic"
	"ChromaFM/core/playlist"
	"ChromaFM/logger"
	"ChromaFM/model"

	"github.com/goccy/go-json"
)

type generateRequest struct {
	UserID  int64               `json:"userId"`
	Policy  model.Policy        `json:"policy"`
	Options model.PolicyOptions `json:"options"`
	// Create pushes the generated playlists to the music service.
	Create bool `json:"create"`
}

type createdPlaylist struct {
	Name       string `json:"name"`
	PlaylistID string `json:"playlistId"`
}

// handleGenerate runs playlist generation over the user's ingested library.
// With create=true the resulting playlists are also pushed to the music
// service, with a solid cover for color playlists.
func (h *APIHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	pool, err := h.libraryRepo.GetTracksByUserID(r.Context(), req.UserID)
	if err != nil {
		logger.Error("library load failed",
			logger.Int64("userId", req.UserID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load library")
		return
	}

	lists, manifest, err := h.partitioner.Generate(r.Context(), req.Policy, req.Options, pool)
	if err != nil {
		switch {
		case errors.Is(err, playlist.ErrPolicyUnsupported):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, playlist.ErrEmptyPool):
			writeError(w, http.StatusUnprocessableEntity, "library is empty, sync it first")
		case errors.Is(err, mosaic.ErrInsufficientPool):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			logger.Error("playlist generation failed",
				logger.Int64("userId", req.UserID),
				logger.String("policy", string(req.Policy)), logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "playlist generation failed")
		}
		return
	}

	var created []createdPlaylist
	if req.Create {
		created = h.createPlaylists(r, req, lists)
	}

	logger.Info("playlists generated",
		logger.Int64("userId", req.UserID),
		logger.String("policy", string(req.Policy)),
		logger.Int("playlists", len(lists)),
		logger.Int("failures", len(manifest.Failures)))

	resp := map[string]interface{}{
		"playlists": lists,
		"manifest":  manifest,
	}
	if created != nil {
		resp["created"] = created
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) createPlaylists(r *http.Request, req generateRequest, lists []playlist.Playlist) []createdPlaylist {
	created := make([]createdPlaylist, 0, len(lists))
	for _, pl := range lists {
		var cover []byte
		if pl.CoverColor != nil {
			var err error
			cover, err = artwork.SolidCover(*pl.CoverColor)
			if err != nil {
				logger.Warn("failed to render cover",
					logger.String("playlist", pl.Name), logger.ErrorField(err))
			}
		}

		id, err := h.playlists.CreatePlaylist(r.Context(), pl.Name,
			"Generated by the "+string(req.Policy)+" policy", pl.TrackIDs, cover)
		if err != nil {
			// One failed creation should not abandon the rest.
			logger.Error("failed to create playlist",
				logger.String("playlist", pl.Name), logger.ErrorField(err))
			continue
		}
		created = append(created, createdPlaylist{Name: pl.Name, PlaylistID: id})
	}
	return created
}
