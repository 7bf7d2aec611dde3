package objects

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetector struct {
	detections []RawDetection
	err        error
}

func (f *fakeDetector) Detect(ctx context.Context, image []byte) ([]RawDetection, error) {
	return f.detections, f.err
}

func TestExtractorUnavailableWithoutDetector(t *testing.T) {
	e := NewExtractor(nil, 0.4)
	assert.False(t, e.Available())

	_, err := e.Extract(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestExtractNormalizesAndFilters(t *testing.T) {
	det := &fakeDetector{detections: []RawDetection{
		{Label: "Puppy", Confidence: 0.9},
		{Label: "dog", Confidence: 0.7},   // folds onto puppy's canonical label
		{Label: "CAR ", Confidence: 0.55}, // trimmed and lowercased
		{Label: "cat", Confidence: 0.2},   // below threshold
	}}
	e := NewExtractor(det, 0.4)
	require.True(t, e.Available())

	tags, err := e.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)

	assert.Equal(t, []model.ObjectTag{
		{Label: "dog", Confidence: 0.9},
		{Label: "car", Confidence: 0.55},
	}, tags)
}

func TestExtractKeepsMaxConfidencePerLabel(t *testing.T) {
	det := &fakeDetector{detections: []RawDetection{
		{Label: "automobile", Confidence: 0.5},
		{Label: "car", Confidence: 0.8},
		{Label: "auto", Confidence: 0.6},
	}}
	e := NewExtractor(det, 0.4)

	tags, err := e.Extract(context.Background(), []byte("img"))
	require.NoError(t, err)

	require.Len(t, tags, 1)
	assert.Equal(t, model.ObjectTag{Label: "car", Confidence: 0.8}, tags[0])
}

func TestExtractPropagatesDetectorError(t *testing.T) {
	det := &fakeDetector{err: ErrUnavailable}
	e := NewExtractor(det, 0.4)

	_, err := e.Extract(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "dog", Canonical("Puppy"))
	assert.Equal(t, "airplane", Canonical("plane"))
	assert.Equal(t, "television", Canonical("tvmonitor"))
	assert.Equal(t, "person", Canonical("People"))
	assert.Equal(t, "guitar", Canonical(" Guitar "))
}

func TestHTTPDetector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/detect", r.URL.Path)
		w.Write([]byte(`{"detections":[{"label":"dog","confidence":0.9}]}`))
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL)
	raw, err := d.Detect(context.Background(), []byte("img"))
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, "dog", raw[0].Label)
}

func TestHTTPDetectorErrorStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewHTTPDetector(srv.URL)
	_, err := d.Detect(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrUnavailable)
}
