package spotify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ChromaFM/config"
	"ChromaFM/logger"
	"ChromaFM/model"

	"github.com/goccy/go-json"
)

// LibraryService fetches a user's library from the music service.
type LibraryService interface {
	FetchLibrary(ctx context.Context, selector string) ([]model.Track, error)
}

// PlaylistService creates playlists on the music service from an ordered
// track list, optionally with a cover image.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, name, description string, trackIDs []string, cover []byte) (string, error)
}

// trackBatchLimit is the service's cap on tracks added per request.
const trackBatchLimit = 100

// Client talks to the Spotify Web API. Token acquisition and refresh are
// outside this client; the token arrives via configuration.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an API client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.SpotifyAPIURL, "/"),
		token:   cfg.SpotifyToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("request %s %s returned status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

type apiTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

type savedTracksPage struct {
	Items []struct {
		AddedAt string   `json:"added_at"`
		Track   apiTrack `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

// FetchLibrary retrieves the user's saved tracks ("saved", the default) or
// a playlist's tracks ("playlist:<id>"), then backfills audio features.
func (c *Client) FetchLibrary(ctx context.Context, selector string) ([]model.Track, error) {
	var tracks []model.Track
	var err error

	switch {
	case selector == "" || selector == "saved":
		tracks, err = c.fetchSaved(ctx)
	case strings.HasPrefix(selector, "playlist:"):
		tracks, err = c.fetchPlaylist(ctx, strings.TrimPrefix(selector, "playlist:"))
	default:
		return nil, fmt.Errorf("unknown library selector %q", selector)
	}
	if err != nil {
		return nil, err
	}

	if err := c.attachAudioFeatures(ctx, tracks); err != nil {
		// Audio features refine mood scoring but are not required.
		logger.Warn("failed to fetch audio features", logger.ErrorField(err))
	}
	return tracks, nil
}

func (c *Client) fetchSaved(ctx context.Context) ([]model.Track, error) {
	var all []model.Track
	path := "/me/tracks?limit=50"
	for path != "" {
		var page savedTracksPage
		if err := c.do(ctx, http.MethodGet, path, nil, "", &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			t := toModelTrack(item.Track)
			if added, err := time.Parse(time.RFC3339, item.AddedAt); err == nil {
				t.AddedAt = added
			}
			all = append(all, t)
		}
		path = relativize(page.Next, c.baseURL)
	}
	return all, nil
}

func (c *Client) fetchPlaylist(ctx context.Context, playlistID string) ([]model.Track, error) {
	var all []model.Track
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks?limit=50"
	for path != "" {
		var page savedTracksPage
		if err := c.do(ctx, http.MethodGet, path, nil, "", &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			all = append(all, toModelTrack(item.Track))
		}
		path = relativize(page.Next, c.baseURL)
	}
	return all, nil
}

// relativize converts the API's absolute "next" URL into a request path.
func relativize(next, base string) string {
	if next == "" {
		return ""
	}
	return strings.TrimPrefix(next, base)
}

func toModelTrack(t apiTrack) model.Track {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	artworkURL := ""
	if len(t.Album.Images) > 0 {
		artworkURL = t.Album.Images[0].URL
	}
	return model.Track{
		ID:          t.ID,
		Title:       t.Name,
		Artist:      artist,
		Album:       t.Album.Name,
		ReleaseDate: parseReleaseDate(t.Album.ReleaseDate),
		ArtworkURL:  artworkURL,
	}
}

// parseReleaseDate handles the API's three precisions: year, month, day.
func parseReleaseDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c *Client) attachAudioFeatures(ctx context.Context, tracks []model.Track) error {
	index := make(map[string]int, len(tracks))
	ids := make([]string, 0, len(tracks))
	for i, t := range tracks {
		index[t.ID] = i
		ids = append(ids, t.ID)
	}

	for start := 0; start < len(ids); start += trackBatchLimit {
		end := start + trackBatchLimit
		if end > len(ids) {
			end = len(ids)
		}

		var payload struct {
			AudioFeatures []struct {
				ID           string  `json:"id"`
				Energy       float64 `json:"energy"`
				Danceability float64 `json:"danceability"`
				Tempo        float64 `json:"tempo"`
				Valence      float64 `json:"valence"`
				Acousticness float64 `json:"acousticness"`
			} `json:"audio_features"`
		}
		path := "/audio-features?ids=" + url.QueryEscape(strings.Join(ids[start:end], ","))
		if err := c.do(ctx, http.MethodGet, path, nil, "", &payload); err != nil {
			return err
		}

		for _, f := range payload.AudioFeatures {
			if f.ID == "" {
				continue
			}
			i, ok := index[f.ID]
			if !ok {
				continue
			}
			tracks[i].Audio = &model.AudioFeatures{
				Energy:       f.Energy,
				Danceability: f.Danceability,
				Tempo:        f.Tempo,
				Valence:      f.Valence,
				Acousticness: f.Acousticness,
			}
		}
	}
	return nil
}

// CreatePlaylist creates a playlist, fills it in batches of 100 and
// uploads the cover when one is provided. Returns the playlist ID.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, trackIDs []string, cover []byte) (string, error) {
	var me struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, "", &me); err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]interface{}{
		"name":        name,
		"description": description,
		"public":      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode playlist request: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	path := "/users/" + url.PathEscape(me.ID) + "/playlists"
	if err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", &created); err != nil {
		return "", err
	}

	for start := 0; start < len(trackIDs); start += trackBatchLimit {
		end := start + trackBatchLimit
		if end > len(trackIDs) {
			end = len(trackIDs)
		}

		uris := make([]string, 0, end-start)
		for _, id := range trackIDs[start:end] {
			uris = append(uris, "spotify:track:"+id)
		}
		body, err := json.Marshal(map[string]interface{}{"uris": uris})
		if err != nil {
			return "", fmt.Errorf("failed to encode track batch: %w", err)
		}
		if err := c.do(ctx, http.MethodPost, "/playlists/"+created.ID+"/tracks", bytes.NewReader(body), "application/json", nil); err != nil {
			return "", err
		}
	}

	if len(cover) > 0 {
		encoded := base64.StdEncoding.EncodeToString(cover)
		if err := c.do(ctx, http.MethodPut, "/playlists/"+created.ID+"/images", strings.NewReader(encoded), "image/jpeg", nil); err != nil {
			// Cover upload failing should not lose the playlist.
			logger.Warn("failed to upload playlist cover",
				logger.String("playlistId", created.ID), logger.ErrorField(err))
		}
	}

	return created.ID, nil
}
