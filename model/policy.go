package model

// Policy names one playlist-generation strategy.
type Policy string

const (
	PolicyColor     Policy = "color"
	PolicySeasonal  Policy = "seasonal"
	PolicyTimeOfDay Policy = "time_of_day"
	PolicyMood      Policy = "mood"
	PolicyObjects   Policy = "objects"
	PolicyGradient  Policy = "gradient"
	PolicyImage     Policy = "image"
	PolicyVibes     Policy = "vibes"
)

// Policies lists every supported policy.
var Policies = []Policy{
	PolicyColor, PolicySeasonal, PolicyTimeOfDay, PolicyMood,
	PolicyObjects, PolicyGradient, PolicyImage, PolicyVibes,
}

// Valid reports whether p names a supported policy.
func (p Policy) Valid() bool {
	for _, known := range Policies {
		if p == known {
			return true
		}
	}
	return false
}

// StartRule selects the deterministic starting track for the gradient
// sequencer.
type StartRule string

const (
	StartMinHue   StartRule = "min_hue"
	StartDarkest  StartRule = "darkest"
	StartLightest StartRule = "lightest"
)

// GradientOptions configures the gradient policy.
type GradientOptions struct {
	StartRule StartRule `json:"startRule,omitempty"`
}

// ImageOptions configures the image (mosaic) policy.
type ImageOptions struct {
	Target     []byte `json:"target,omitempty"`
	GridWidth  int    `json:"gridWidth"`
	GridHeight int    `json:"gridHeight"`
}

// MoodOptions configures the mood policy. Weights override the default
// signal weights by name (warmth, energy, valence, tempo, sentiment).
type MoodOptions struct {
	Weights map[string]float64 `json:"weights,omitempty"`
}

// PolicyOptions carries the per-policy configuration of a generation
// request. Only the member matching the requested policy is consulted.
type PolicyOptions struct {
	Gradient *GradientOptions `json:"gradient,omitempty"`
	Image    *ImageOptions    `json:"image,omitempty"`
	Mood     *MoodOptions     `json:"mood,omitempty"`
}
