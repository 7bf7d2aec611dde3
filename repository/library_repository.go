package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ChromaFM/model"
)

// LibraryRepository defines the interface for ingested library data.
type LibraryRepository interface {
	UpsertTracks(ctx context.Context, tracks []model.Track) error
	GetTracksByUserID(ctx context.Context, userID int64) ([]model.Track, error)
	GetTrackByID(ctx context.Context, userID int64, trackID string) (*model.Track, error)
	UpdateArtworkKey(ctx context.Context, userID int64, trackID, artworkKey string) error
}

// mysqlLibraryRepository implements LibraryRepository for MySQL.
type mysqlLibraryRepository struct {
	DB *sql.DB
}

// NewMySQLLibraryRepository creates a new instance of mysqlLibraryRepository.
func NewMySQLLibraryRepository(db *sql.DB) LibraryRepository {
	return &mysqlLibraryRepository{DB: db}
}

const trackColumns = `id, user_id, title, artist, album, release_date,
	energy, danceability, tempo, valence, acousticness,
	artwork_url, artwork_key, added_at`

// UpsertTracks inserts or refreshes ingested tracks for a user.
func (r *mysqlLibraryRepository) UpsertTracks(ctx context.Context, tracks []model.Track) error {
	query := `INSERT INTO library_tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title), artist = VALUES(artist), album = VALUES(album),
			release_date = VALUES(release_date),
			energy = VALUES(energy), danceability = VALUES(danceability),
			tempo = VALUES(tempo), valence = VALUES(valence),
			acousticness = VALUES(acousticness),
			artwork_url = VALUES(artwork_url), artwork_key = VALUES(artwork_key)`

	stmt, err := r.DB.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpsertTracks: %w", err)
	}
	defer stmt.Close()

	for _, t := range tracks {
		var energy, danceability, tempo, valence, acousticness interface{}
		if t.Audio != nil {
			energy = t.Audio.Energy
			danceability = t.Audio.Danceability
			tempo = t.Audio.Tempo
			valence = t.Audio.Valence
			acousticness = t.Audio.Acousticness
		}
		var releaseDate interface{}
		if !t.ReleaseDate.IsZero() {
			releaseDate = t.ReleaseDate
		}

		if _, err := stmt.ExecContext(ctx, t.ID, t.UserID, t.Title, t.Artist, t.Album, releaseDate,
			energy, danceability, tempo, valence, acousticness,
			t.ArtworkURL, t.ArtworkKey, t.AddedAt); err != nil {
			return fmt.Errorf("failed to upsert track %s: %w", t.ID, err)
		}
	}
	return nil
}

// GetTracksByUserID retrieves a user's ingested library.
func (r *mysqlLibraryRepository) GetTracksByUserID(ctx context.Context, userID int64) ([]model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM library_tracks WHERE user_id = ? ORDER BY added_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks for user %d: %w", userID, err)
	}
	defer rows.Close()

	tracks := make([]model.Track, 0)
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks for user %d: %w", userID, err)
	}
	return tracks, nil
}

// GetTrackByID retrieves one track of a user's library.
func (r *mysqlLibraryRepository) GetTrackByID(ctx context.Context, userID int64, trackID string) (*model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM library_tracks WHERE user_id = ? AND id = ?`
	row := r.DB.QueryRowContext(ctx, query, userID, trackID)

	t, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // track not found
		}
		return nil, fmt.Errorf("failed to scan track %s: %w", trackID, err)
	}
	return t, nil
}

// UpdateArtworkKey records the content key resolved for a track's artwork.
func (r *mysqlLibraryRepository) UpdateArtworkKey(ctx context.Context, userID int64, trackID, artworkKey string) error {
	query := `UPDATE library_tracks SET artwork_key = ? WHERE user_id = ? AND id = ?`
	if _, err := r.DB.ExecContext(ctx, query, artworkKey, userID, trackID); err != nil {
		return fmt.Errorf("failed to update artwork key for track %s: %w", trackID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(row rowScanner) (*model.Track, error) {
	var t model.Track
	var releaseDate sql.NullTime
	var energy, danceability, tempo, valence, acousticness sql.NullFloat64

	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Artist, &t.Album, &releaseDate,
		&energy, &danceability, &tempo, &valence, &acousticness,
		&t.ArtworkURL, &t.ArtworkKey, &t.AddedAt)
	if err != nil {
		return nil, err
	}

	if releaseDate.Valid {
		t.ReleaseDate = releaseDate.Time
	}
	if energy.Valid || danceability.Valid || tempo.Valid || valence.Valid || acousticness.Valid {
		t.Audio = &model.AudioFeatures{
			Energy:       energy.Float64,
			Danceability: danceability.Float64,
			Tempo:        tempo.Float64,
			Valence:      valence.Float64,
			Acousticness: acousticness.Float64,
		}
	}
	return &t, nil
}
