package model

import (
	"sort"
	"time"
)

// RGB is an opaque 8-bit-per-channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ColorWeight pairs a cluster color with the fraction of pixels it covers.
type ColorWeight struct {
	Color      RGB     `json:"color"`
	Proportion float64 `json:"proportion"`
}

// ColorProfile is the clustered color summary of one artwork image.
// Clusters are sorted by descending proportion and proportions sum to 1.0.
type ColorProfile struct {
	Clusters     []ColorWeight `json:"clusters"`
	MeanColor    RGB           `json:"meanColor"`    // arithmetic mean over all sampled pixels
	BlendedColor RGB           `json:"blendedColor"` // proportion-weighted mean over cluster centers
}

// Dominant returns the highest-proportion cluster color, or gray when the
// profile is empty.
func (p *ColorProfile) Dominant() RGB {
	if len(p.Clusters) == 0 {
		return RGB{R: 128, G: 128, B: 128}
	}
	return p.Clusters[0].Color
}

// ObjectTag is one detected object label with its confidence.
type ObjectTag struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Mood is one of the closed set of mood labels.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodAngry     Mood = "angry"
	MoodNeutral   Mood = "neutral"
	MoodEnergetic Mood = "energetic"
	MoodCalm      Mood = "calm"
)

// MoodPriority is the fixed tie-break order: when two moods score equally,
// the one appearing earlier here wins.
var MoodPriority = []Mood{MoodHappy, MoodSad, MoodAngry, MoodNeutral, MoodEnergetic, MoodCalm}

// MoodScores maps each mood label to its affinity score.
type MoodScores map[Mood]float64

// Best returns the mood with the maximum score. Ties resolve to the
// earliest entry in MoodPriority.
func (m MoodScores) Best() Mood {
	best := MoodNeutral
	bestScore := 0.0
	found := false
	for _, mood := range MoodPriority {
		score, ok := m[mood]
		if !ok {
			continue
		}
		if !found || score > bestScore {
			best = mood
			bestScore = score
			found = true
		}
	}
	return best
}

// FeatureRecord aggregates every derived feature for one artwork. Records
// are owned by the feature cache: extractors produce them, nothing mutates
// a cached instance. TrackID references the track whose analysis populated
// the record; tracks sharing the artwork share the record.
type FeatureRecord struct {
	ArtworkKey string       `json:"artworkKey"`
	TrackID    string       `json:"trackId"`
	Colors     ColorProfile `json:"colors"`
	Objects    []ObjectTag  `json:"objects,omitempty"`
	Mood       MoodScores   `json:"mood,omitempty"`
	ComputedAt time.Time    `json:"computedAt"`
}

// SortObjects orders tags by descending confidence, label ascending on ties.
func SortObjects(tags []ObjectTag) {
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Confidence != tags[j].Confidence {
			return tags[i].Confidence > tags[j].Confidence
		}
		return tags[i].Label < tags[j].Label
	})
}
