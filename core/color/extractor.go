package color

import (
	"errors"
	"image"
	"math"
	"sort"

	"ChromaFM/model"
)

// ErrNoPixels is returned for images with no opaque pixels to cluster.
var ErrNoPixels = errors.New("image has no opaque pixels")

// Extractor clusters artwork pixels into dominant colors. Extraction is
// fully deterministic: centroid seeding is farthest-point from the mean and
// every tie resolves to the lowest pixel index, so identical input always
// yields an identical profile.
type Extractor struct {
	K             int     // cluster count upper bound
	MinProportion float64 // clusters below this share of pixels are folded away
	SampleSize    int     // images are downsampled to SampleSize x SampleSize
	MaxIterations int
}

// NewExtractor returns an extractor with the default configuration
// (k=5 over a 100x100 downsample, matching the dataset the cache already
// holds).
func NewExtractor() *Extractor {
	return &Extractor{
		K:             5,
		MinProportion: 0.02,
		SampleSize:    100,
		MaxIterations: 30,
	}
}

type pixel [3]float64

// Extract clusters the image's opaque pixels and returns its color profile.
func (e *Extractor) Extract(img image.Image) (*model.ColorProfile, error) {
	pixels := e.sample(img)
	if len(pixels) == 0 {
		return nil, ErrNoPixels
	}

	mean := meanOf(pixels)

	distinct := distinctCount(pixels, e.K+1)
	k := e.K
	if distinct < k {
		k = distinct
	}

	var centers []pixel
	var counts []int
	if distinct <= e.K {
		// Few distinct colors: exact counting beats clustering and a
		// uniform image collapses to a single full-proportion cluster.
		centers, counts = exactClusters(pixels)
	} else {
		centers, counts = e.kmeans(pixels, k)
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	clusters := make([]model.ColorWeight, 0, len(centers))
	for i, c := range centers {
		p := float64(counts[i]) / float64(total)
		if p < e.MinProportion {
			continue
		}
		clusters = append(clusters, model.ColorWeight{
			Color:      toRGB(c),
			Proportion: p,
		})
	}
	if len(clusters) == 0 {
		// Everything fell below the floor; keep the largest cluster.
		best := 0
		for i := range counts {
			if counts[i] > counts[best] {
				best = i
			}
		}
		clusters = append(clusters, model.ColorWeight{
			Color:      toRGB(centers[best]),
			Proportion: 1.0,
		})
	}

	// Renormalize so proportions sum to exactly 1.0.
	sum := 0.0
	for _, c := range clusters {
		sum += c.Proportion
	}
	for i := range clusters {
		clusters[i].Proportion /= sum
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Proportion != clusters[j].Proportion {
			return clusters[i].Proportion > clusters[j].Proportion
		}
		return rgbLess(clusters[i].Color, clusters[j].Color)
	})

	blended := pixel{}
	for _, c := range clusters {
		blended[0] += float64(c.Color.R) * c.Proportion
		blended[1] += float64(c.Color.G) * c.Proportion
		blended[2] += float64(c.Color.B) * c.Proportion
	}

	return &model.ColorProfile{
		Clusters:     clusters,
		MeanColor:    toRGB(mean),
		BlendedColor: model.RGB{R: clamp8(blended[0]), G: clamp8(blended[1]), B: clamp8(blended[2])},
	}, nil
}

// sample downsamples the image to SampleSize x SampleSize by nearest
// neighbor and drops transparent pixels (alpha below half).
func (e *Extractor) sample(img image.Image) []pixel {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	sw := e.SampleSize
	sh := e.SampleSize
	if w < sw {
		sw = w
	}
	if h < sh {
		sh = h
	}

	pixels := make([]pixel, 0, sw*sh)
	for sy := 0; sy < sh; sy++ {
		y := bounds.Min.Y + sy*h/sh
		for sx := 0; sx < sw; sx++ {
			x := bounds.Min.X + sx*w/sw
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			pixels = append(pixels, pixel{
				float64(r >> 8),
				float64(g >> 8),
				float64(b >> 8),
			})
		}
	}
	return pixels
}

func meanOf(pixels []pixel) pixel {
	var m pixel
	for _, p := range pixels {
		m[0] += p[0]
		m[1] += p[1]
		m[2] += p[2]
	}
	n := float64(len(pixels))
	return pixel{m[0] / n, m[1] / n, m[2] / n}
}

// distinctCount counts distinct colors, stopping once limit is reached.
func distinctCount(pixels []pixel, limit int) int {
	seen := make(map[pixel]struct{}, limit)
	for _, p := range pixels {
		seen[p] = struct{}{}
		if len(seen) >= limit {
			return limit
		}
	}
	return len(seen)
}

// exactClusters treats each distinct color as its own cluster, ordered by
// first appearance.
func exactClusters(pixels []pixel) ([]pixel, []int) {
	index := make(map[pixel]int)
	var centers []pixel
	var counts []int
	for _, p := range pixels {
		if i, ok := index[p]; ok {
			counts[i]++
			continue
		}
		index[p] = len(centers)
		centers = append(centers, p)
		counts = append(counts, 1)
	}
	return centers, counts
}

// kmeans runs Lloyd's algorithm with deterministic farthest-point seeding.
func (e *Extractor) kmeans(pixels []pixel, k int) ([]pixel, []int) {
	centers := make([]pixel, 0, k)

	// First centroid: the pixel farthest from the global mean.
	mean := meanOf(pixels)
	centers = append(centers, farthestFrom(pixels, []pixel{mean}))

	// Remaining centroids: farthest-point seeding.
	for len(centers) < k {
		centers = append(centers, farthestFrom(pixels, centers))
	}

	assign := make([]int, len(pixels))
	counts := make([]int, k)
	for iter := 0; iter < e.MaxIterations; iter++ {
		changed := false
		for i, p := range pixels {
			best := 0
			bestD := sqDist(p, centers[0])
			for c := 1; c < k; c++ {
				if d := sqDist(p, centers[c]); d < bestD {
					bestD = d
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([]pixel, k)
		for i := range counts {
			counts[i] = 0
		}
		for i, p := range pixels {
			c := assign[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			sums[c][2] += p[2]
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue // empty cluster keeps its centroid
			}
			n := float64(counts[c])
			centers[c] = pixel{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
		}
	}

	// Final counts for the returned centroids.
	for i := range counts {
		counts[i] = 0
	}
	for _, c := range assign {
		counts[c]++
	}
	return centers, counts
}

// farthestFrom returns the pixel maximizing the minimum distance to the
// given reference points. Ties resolve to the lowest pixel index.
func farthestFrom(pixels []pixel, refs []pixel) pixel {
	best := pixels[0]
	bestD := -1.0
	for _, p := range pixels {
		minD := math.MaxFloat64
		for _, r := range refs {
			if d := sqDist(p, r); d < minD {
				minD = d
			}
		}
		if minD > bestD {
			bestD = minD
			best = p
		}
	}
	return best
}

func sqDist(a, b pixel) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

func toRGB(p pixel) model.RGB {
	return model.RGB{R: clamp8(p[0]), G: clamp8(p[1]), B: clamp8(p[2])}
}

func clamp8(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

func rgbLess(a, b model.RGB) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	if a.G != b.G {
		return a.G < b.G
	}
	return a.B < b.B
}
