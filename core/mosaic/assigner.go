package mosaic

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"ChromaFM/core/color"
	"ChromaFM/model"
)

// ErrInsufficientPool is returned when the target grid has more cells than
// there are candidate tracks. Mosaic assignment is all-or-nothing: a
// partially filled mosaic is worse than no mosaic.
var ErrInsufficientPool = errors.New("not enough tracks for mosaic grid")

// Candidate is one pool track with its representative color.
type Candidate struct {
	TrackID string
	Color   model.RGB
}

// Grid is a downsampled target image: one mean color per cell, row-major.
type Grid struct {
	Width  int
	Height int
	Cells  []model.RGB
}

// TargetGrid downsamples an image to a gridW x gridH grid of cell mean
// colors. Transparent pixels are excluded from a cell's mean; a fully
// transparent cell falls back to mid gray.
func TargetGrid(img image.Image, gridW, gridH int) (*Grid, error) {
	if gridW <= 0 || gridH <= 0 {
		return nil, fmt.Errorf("invalid mosaic grid %dx%d", gridW, gridH)
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty target image")
	}

	cells := make([]model.RGB, 0, gridW*gridH)
	for gy := 0; gy < gridH; gy++ {
		y0 := bounds.Min.Y + gy*h/gridH
		y1 := bounds.Min.Y + (gy+1)*h/gridH
		if y1 == y0 {
			y1 = y0 + 1
		}
		for gx := 0; gx < gridW; gx++ {
			x0 := bounds.Min.X + gx*w/gridW
			x1 := bounds.Min.X + (gx+1)*w/gridW
			if x1 == x0 {
				x1 = x0 + 1
			}
			cells = append(cells, cellMean(img, x0, y0, x1, y1))
		}
	}

	return &Grid{Width: gridW, Height: gridH, Cells: cells}, nil
}

func cellMean(img image.Image, x0, y0, x1, y1 int) model.RGB {
	var rSum, gSum, bSum, n uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
			n++
		}
	}
	if n == 0 {
		return model.RGB{R: 128, G: 128, B: 128}
	}
	return model.RGB{
		R: uint8(rSum / n),
		G: uint8(gSum / n),
		B: uint8(bSum / n),
	}
}

// Assign matches every grid cell to a distinct pool track minimizing total
// Lab color distance. The Hungarian method guarantees a globally optimal
// bijection; greedy per-cell matching exhausts the good candidates early
// and produces visibly worse mosaics. Slot index is the row-major cell
// index.
func Assign(grid *Grid, pool []Candidate) (*model.AssignmentPlan, error) {
	n := len(grid.Cells)
	m := len(pool)
	if m < n {
		return nil, fmt.Errorf("%w: grid needs %d tracks, pool has %d", ErrInsufficientPool, n, m)
	}
	if n == 0 {
		return &model.AssignmentPlan{}, nil
	}

	// Canonical pool order so equal-cost assignments resolve identically.
	sorted := make([]Candidate, m)
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TrackID < sorted[j].TrackID
	})

	cost := make([][]float64, n)
	for i, cell := range grid.Cells {
		cost[i] = make([]float64, m)
		for j, cand := range sorted {
			cost[i][j] = color.Distance(cell, cand.Color)
		}
	}

	match, total := hungarian(cost)

	plan := &model.AssignmentPlan{
		Slots:     make([]model.Slot, n),
		TotalCost: total,
	}
	for i, j := range match {
		plan.Slots[i] = model.Slot{Index: i, TrackID: sorted[j].TrackID}
	}
	return plan, nil
}

// hungarian solves the rectangular assignment problem (rows <= columns)
// by shortest augmenting paths with dual potentials, O(n^2 m). Returns the
// matched column per row and the total cost of the optimal matching.
func hungarian(cost [][]float64) ([]int, float64) {
	n := len(cost)
	m := len(cost[0])

	const inf = 1e18
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j]: row matched to column j (1-based, 0 = free)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the found path.
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	match := make([]int, n)
	total := 0.0
	for j := 1; j <= m; j++ {
		if p[j] > 0 {
			match[p[j]-1] = j - 1
			total += cost[p[j]-1][j-1]
		}
	}
	return match, total
}
