package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnavailable marks the sentiment collaborator as down, unconfigured or
// timed out. Mood scoring then falls back to a neutral contribution.
var ErrUnavailable = errors.New("lyric sentiment unavailable")

// SentimentProvider is the lyric sentiment collaborator: it resolves a
// track to a polarity in [-1,1].
type SentimentProvider interface {
	Sentiment(ctx context.Context, title, artist string) (float64, error)
}

// HTTPProvider calls a remote sentiment service.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPProvider creates a sentiment client for the given base URL.
func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Sentiment fetches the lyric polarity for a track. Transport failures and
// timeouts map to ErrUnavailable; out-of-range polarity is clamped.
func (p *HTTPProvider) Sentiment(ctx context.Context, title, artist string) (float64, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("artist", artist)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/sentiment?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: sentiment service returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Polarity float64 `json:"polarity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: bad sentiment response: %v", ErrUnavailable, err)
	}

	polarity := payload.Polarity
	if polarity < -1 {
		polarity = -1
	}
	if polarity > 1 {
		polarity = 1
	}
	return polarity, nil
}
