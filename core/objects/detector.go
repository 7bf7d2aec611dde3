package objects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnavailable marks the detection collaborator as down, unconfigured or
// timed out. Object-based policies degrade for the affected tracks instead
// of aborting the batch.
var ErrUnavailable = errors.New("object detection unavailable")

// RawDetection is one detection as reported by the external model.
type RawDetection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Detector is the black-box object detection collaborator.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]RawDetection, error)
}

// HTTPDetector calls a remote detection service over HTTP.
type HTTPDetector struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPDetector creates a detector client for the given base URL.
func NewHTTPDetector(baseURL string) *HTTPDetector {
	return &HTTPDetector{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Detect posts the image to the detection service and returns its raw
// detections. Any transport failure or timeout maps to ErrUnavailable.
func (d *HTTPDetector) Detect(ctx context.Context, image []byte) ([]RawDetection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/detect", bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: detector returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload struct {
		Detections []RawDetection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: bad detector response: %v", ErrUnavailable, err)
	}
	return payload.Detections, nil
}
