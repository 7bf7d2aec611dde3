package artwork

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"

	// register decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"ChromaFM/logger"
	"ChromaFM/storage"
)

// ErrDecode marks artwork bytes that could not be decoded as an image.
// Callers skip the track and continue the batch.
var ErrDecode = errors.New("artwork image could not be decoded")

// maxArtworkBytes caps a single cover download.
const maxArtworkBytes = 16 << 20

// Key computes the ArtworkContentKey: a stable hash of the raw artwork
// bytes. URLs rot and get reused across releases; pixel bytes don't.
func Key(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Decode parses artwork bytes into an image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Fetcher downloads artwork and mirrors the bytes into the blob store so a
// cover is pulled from its URL at most once globally.
type Fetcher struct {
	httpClient *http.Client
	store      *storage.ArtworkStore // nil disables mirroring
}

// NewFetcher creates a fetcher. store may be nil.
func NewFetcher(store *storage.ArtworkStore) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
	}
}

// Fetch returns the artwork bytes and their content key. When the content
// key is already known from an earlier run, the blob store is tried first
// and the download is skipped on a hit.
func (f *Fetcher) Fetch(ctx context.Context, url, knownKey string) ([]byte, string, error) {
	if knownKey != "" && f.store != nil {
		if data, ok, err := f.store.Get(ctx, knownKey); err == nil && ok {
			return data, knownKey, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build artwork request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download artwork %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("artwork download %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read artwork %s: %w", url, err)
	}

	key := Key(data)

	if f.store != nil && !f.store.Has(ctx, key) {
		contentType := resp.Header.Get("Content-Type")
		if err := f.store.Put(ctx, key, data, contentType); err != nil {
			// Mirroring is best effort; analysis proceeds with the bytes in hand.
			logger.Warn("failed to mirror artwork", logger.String("artworkKey", key), logger.ErrorField(err))
		}
	}

	return data, key, nil
}
