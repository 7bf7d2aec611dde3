package mood

import (
	"math"

	"ChromaFM/core/color"
	"ChromaFM/model"
)

// Weights scales each input signal's contribution to the mood score.
type Weights struct {
	Warmth    float64
	Energy    float64
	Valence   float64
	Tempo     float64
	Sentiment float64
}

// DefaultWeights is the documented default mix: valence and energy carry
// the most information, artwork warmth and lyric sentiment refine it.
func DefaultWeights() Weights {
	return Weights{
		Warmth:    0.20,
		Energy:    0.25,
		Valence:   0.30,
		Tempo:     0.10,
		Sentiment: 0.15,
	}
}

// Override applies named weight overrides (warmth, energy, valence, tempo,
// sentiment); unknown names are ignored.
func (w Weights) Override(overrides map[string]float64) Weights {
	for name, v := range overrides {
		switch name {
		case "warmth":
			w.Warmth = v
		case "energy":
			w.Energy = v
		case "valence":
			w.Valence = v
		case "tempo":
			w.Tempo = v
		case "sentiment":
			w.Sentiment = v
		}
	}
	return w
}

// signal vector order: warmth, energy, valence, tempo, sentiment,
// each normalized to [0,1].
type signals [5]float64

// moodTemplates holds the target signal vector per mood label. A track's
// affinity for a mood is the weighted closeness of its signals to the
// template.
var moodTemplates = map[model.Mood]signals{
	model.MoodHappy:     {0.80, 0.70, 0.90, 0.60, 0.80},
	model.MoodSad:       {0.30, 0.30, 0.15, 0.35, 0.20},
	model.MoodAngry:     {0.70, 0.85, 0.25, 0.75, 0.30},
	model.MoodNeutral:   {0.50, 0.50, 0.50, 0.50, 0.50},
	model.MoodEnergetic: {0.60, 0.95, 0.70, 0.85, 0.60},
	model.MoodCalm:      {0.40, 0.20, 0.60, 0.25, 0.60},
}

// tempoCeiling normalizes BPM into [0,1].
const tempoCeiling = 200.0

// Classifier derives mood scores and time-of-day bins from a track's color
// profile, audio features and optional lyric sentiment. The scoring is a
// fixed linear model: fully deterministic for a given weight configuration.
type Classifier struct {
	weights Weights
}

// NewClassifier creates a classifier with the given weights.
func NewClassifier(weights Weights) *Classifier {
	return &Classifier{weights: weights}
}

// Score computes the affinity of a track for every mood label.
// sentiment is lyric polarity in [-1,1]; pass 0 when the lyric
// collaborator is absent.
func (c *Classifier) Score(profile *model.ColorProfile, audio *model.AudioFeatures, sentiment float64) model.MoodScores {
	x := c.signalsOf(profile, audio, sentiment)

	scores := make(model.MoodScores, len(moodTemplates))
	for _, mood := range model.MoodPriority {
		t := moodTemplates[mood]
		scores[mood] = c.closeness(x, t)
	}
	return scores
}

// closeness is the weighted per-signal agreement between x and template t:
// each signal contributes weight * (1 - |x - t|).
func (c *Classifier) closeness(x, t signals) float64 {
	w := [5]float64{c.weights.Warmth, c.weights.Energy, c.weights.Valence, c.weights.Tempo, c.weights.Sentiment}
	score := 0.0
	for i := 0; i < 5; i++ {
		score += w[i] * (1 - math.Abs(x[i]-t[i]))
	}
	return score
}

func (c *Classifier) signalsOf(profile *model.ColorProfile, audio *model.AudioFeatures, sentiment float64) signals {
	warmth := color.Warmth(profile)

	energy := 0.5
	valence := 0.5
	tempo := 0.5
	if audio != nil {
		energy = clamp01(audio.Energy)
		valence = clamp01(audio.Valence)
		tempo = clamp01(audio.Tempo / tempoCeiling)
	}

	// polarity [-1,1] -> [0,1]
	sent := clamp01((sentiment + 1) / 2)

	return signals{warmth, energy, valence, tempo, sent}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
