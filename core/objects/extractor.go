package objects

import (
	"context"
	"strings"

	"ChromaFM/model"
)

// synonyms folds raw detector labels into the canonical vocabulary.
var synonyms = map[string]string{
	"puppy":      "dog",
	"kitten":     "cat",
	"automobile": "car",
	"auto":       "car",
	"motorbike":  "motorcycle",
	"aeroplane":  "airplane",
	"plane":      "airplane",
	"tv":         "television",
	"tvmonitor":  "television",
	"cell phone": "phone",
	"cellphone":  "phone",
	"human":      "person",
	"people":     "person",
}

// Extractor normalizes the external detector's output into canonical
// object tags: case-folded, synonym-mapped, confidence-filtered and
// deduplicated to the max confidence per label.
type Extractor struct {
	detector      Detector
	minConfidence float64
}

// NewExtractor wraps a detector. detector may be nil when the collaborator
// is unconfigured; Extract then reports ErrUnavailable.
func NewExtractor(detector Detector, minConfidence float64) *Extractor {
	return &Extractor{detector: detector, minConfidence: minConfidence}
}

// Available reports whether a detector is configured.
func (e *Extractor) Available() bool {
	return e != nil && e.detector != nil
}

// Extract runs detection on the image and returns canonical tags sorted by
// descending confidence.
func (e *Extractor) Extract(ctx context.Context, image []byte) ([]model.ObjectTag, error) {
	if !e.Available() {
		return nil, ErrUnavailable
	}

	raw, err := e.detector.Detect(ctx, image)
	if err != nil {
		return nil, err
	}

	best := make(map[string]float64)
	for _, det := range raw {
		if det.Confidence < e.minConfidence {
			continue
		}
		label := Canonical(det.Label)
		if label == "" {
			continue
		}
		if det.Confidence > best[label] {
			best[label] = det.Confidence
		}
	}

	tags := make([]model.ObjectTag, 0, len(best))
	for label, conf := range best {
		tags = append(tags, model.ObjectTag{Label: label, Confidence: conf})
	}
	model.SortObjects(tags)
	return tags, nil
}

// Canonical maps a raw label to its canonical form.
func Canonical(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := synonyms[label]; ok {
		return mapped
	}
	return label
}
