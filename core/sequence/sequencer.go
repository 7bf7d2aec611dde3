package sequence

import (
	"math"
	"sort"

	"ChromaFM/core/color"
	"ChromaFM/model"
)

// Entry is one track with its resolved representative color
// (ColorProfile.BlendedColor).
type Entry struct {
	TrackID string
	Color   model.RGB
}

// Order arranges the entries into a gradient: a sequence minimizing the sum
// of perceptual (Lab) color distances between consecutive tracks. The exact
// problem is an open-path ordering, so this uses greedy nearest neighbor
// from a deterministic start followed by one pairwise-swap improvement
// pass. Identical input and rule always produce the identical order.
func Order(entries []Entry, rule model.StartRule) *model.AssignmentPlan {
	if len(entries) == 0 {
		return &model.AssignmentPlan{}
	}

	// Canonical input order; every later tie-break falls back to this.
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TrackID < sorted[j].TrackID
	})

	labs := make([]color.Lab, len(sorted))
	for i, e := range sorted {
		labs[i] = color.RGBToLab(e.Color)
	}
	dist := func(i, j int) float64 {
		dl := labs[i].L - labs[j].L
		da := labs[i].A - labs[j].A
		db := labs[i].B - labs[j].B
		return math.Sqrt(dl*dl + da*da + db*db)
	}

	path := nearestNeighborPath(sorted, labs, dist, startIndex(sorted, rule))
	path = swapImprove(path, dist)

	plan := &model.AssignmentPlan{Slots: make([]model.Slot, len(path))}
	for slot, idx := range path {
		plan.Slots[slot] = model.Slot{Index: slot, TrackID: sorted[idx].TrackID}
	}
	plan.TotalCost = pathCost(path, dist)
	return plan
}

// startIndex picks the deterministic starting track. min_hue takes the
// track with the smallest hue angle; darkest/lightest use HSV value.
// Ties resolve to the lowest index, i.e. the smallest track ID.
func startIndex(entries []Entry, rule model.StartRule) int {
	best := 0
	bestKey := startKey(entries[0], rule)
	for i := 1; i < len(entries); i++ {
		if k := startKey(entries[i], rule); k < bestKey {
			bestKey = k
			best = i
		}
	}
	return best
}

func startKey(e Entry, rule model.StartRule) float64 {
	h, _, v := color.RGBToHSV(e.Color)
	switch rule {
	case model.StartDarkest:
		return v
	case model.StartLightest:
		return -v
	default: // StartMinHue
		return h
	}
}

func nearestNeighborPath(entries []Entry, labs []color.Lab, dist func(i, j int) float64, start int) []int {
	n := len(entries)
	visited := make([]bool, n)
	path := make([]int, 0, n)

	cur := start
	visited[cur] = true
	path = append(path, cur)

	for len(path) < n {
		next := -1
		nextD := 0.0
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := dist(cur, i)
			if next == -1 || d < nextD {
				next = i
				nextD = d
			}
		}
		visited[next] = true
		path = append(path, next)
		cur = next
	}
	return path
}

// swapImprove makes one bounded pass over all position pairs, applying a
// swap whenever it strictly reduces total path cost. One pass keeps the
// whole ordering polynomial and deterministic.
func swapImprove(path []int, dist func(i, j int) float64) []int {
	n := len(path)
	const eps = 1e-12
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			before := pathCost(path, dist)
			path[i], path[j] = path[j], path[i]
			after := pathCost(path, dist)
			if after >= before-eps {
				path[i], path[j] = path[j], path[i] // revert
			}
		}
	}
	return path
}

func pathCost(path []int, dist func(i, j int) float64) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += dist(path[i-1], path[i])
	}
	return total
}
