package model

import "time"

// AudioFeatures holds the audio-feature scalars reported by the music
// service. All values except Tempo are in [0,1]; Tempo is BPM.
type AudioFeatures struct {
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Tempo        float64 `json:"tempo"`
	Valence      float64 `json:"valence"`
	Acousticness float64 `json:"acousticness"`
}

// Track represents one track of a user's music library as ingested from
// the music service. Tracks are immutable after ingestion.
type Track struct {
	ID          string         `json:"id"`
	UserID      int64          `json:"userId"`
	Title       string         `json:"title"`
	Artist      string         `json:"artist"`
	Album       string         `json:"album"`
	ReleaseDate time.Time      `json:"releaseDate"`
	Audio       *AudioFeatures `json:"audio,omitempty"`
	ArtworkURL  string         `json:"artworkUrl"`
	ArtworkKey  string         `json:"artworkKey,omitempty"` // content hash, set once artwork bytes are fetched
	AddedAt     time.Time      `json:"addedAt"`
}
