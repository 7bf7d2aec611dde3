package mood

import (
	"math"

	"ChromaFM/core/color"
	"ChromaFM/model"
)

// TimeBin is one of the enumerated time-of-day windows.
type TimeBin string

const (
	BinSunrise   TimeBin = "sunrise"
	BinMorning   TimeBin = "morning"
	BinAfternoon TimeBin = "afternoon"
	BinEvening   TimeBin = "evening"
	BinNight     TimeBin = "night"
	BinLateNight TimeBin = "late_night"
)

// timeBinsLex lists the bins in lexicographic order. Iterating in this
// order with a strict comparison makes the distance tie-break "first bin
// name" without a separate pass.
var timeBinsLex = []TimeBin{
	BinAfternoon, BinEvening, BinLateNight, BinMorning, BinNight, BinSunrise,
}

// time-of-day templates over (energy, tempo, valence, warmth). Energy and
// tempo dominate the spread between bins; valence and warmth separate
// sunrise/evening from the midday bins.
var timeTemplates = map[TimeBin][4]float64{
	BinSunrise:   {0.30, 0.30, 0.60, 0.70},
	BinMorning:   {0.65, 0.60, 0.70, 0.55},
	BinAfternoon: {0.60, 0.55, 0.60, 0.50},
	BinEvening:   {0.50, 0.45, 0.50, 0.60},
	BinNight:     {0.45, 0.50, 0.35, 0.35},
	BinLateNight: {0.25, 0.30, 0.30, 0.25},
}

// TimeOfDay bins a track into the time window whose template vector is
// closest (minimum Euclidean distance) to the track's signal vector, and
// returns that distance. Ties resolve to the lexicographically first bin
// name.
func (c *Classifier) TimeOfDay(profile *model.ColorProfile, audio *model.AudioFeatures) (TimeBin, float64) {
	warmth := color.Warmth(profile)

	energy := 0.5
	tempo := 0.5
	valence := 0.5
	if audio != nil {
		energy = clamp01(audio.Energy)
		tempo = clamp01(audio.Tempo / tempoCeiling)
		valence = clamp01(audio.Valence)
	}

	x := [4]float64{energy, tempo, valence, warmth}

	best := timeBinsLex[0]
	bestD := math.Inf(1)
	for _, bin := range timeBinsLex {
		t := timeTemplates[bin]
		d := 0.0
		for i := 0; i < 4; i++ {
			diff := x[i] - t[i]
			d += diff * diff
		}
		if d < bestD {
			bestD = d
			best = bin
		}
	}
	return best, math.Sqrt(bestD)
}
