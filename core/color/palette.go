package color

import "ChromaFM/model"

// namedColor pairs a bucket name with its representative sRGB value.
type namedColor struct {
	Name  string
	Color model.RGB
}

// palette is the fixed vocabulary used by the color grouping policy.
// Order matters: the first entry wins distance ties.
var palette = []namedColor{
	{"red", model.RGB{R: 220, G: 60, B: 60}},
	{"orange", model.RGB{R: 230, G: 140, B: 50}},
	{"yellow", model.RGB{R: 230, G: 220, B: 60}},
	{"green", model.RGB{R: 70, G: 180, B: 70}},
	{"turquoise", model.RGB{R: 64, G: 224, B: 208}},
	{"blue", model.RGB{R: 65, G: 105, B: 225}},
	{"purple", model.RGB{R: 150, G: 60, B: 200}},
	{"pink", model.RGB{R: 255, G: 105, B: 180}},
	{"brown", model.RGB{R: 139, G: 94, B: 60}},
	{"black", model.RGB{R: 20, G: 20, B: 20}},
	{"white", model.RGB{R: 245, G: 245, B: 245}},
	{"gray", model.RGB{R: 128, G: 128, B: 128}},
}

// PaletteNames returns the bucket vocabulary in palette order.
func PaletteNames() []string {
	names := make([]string, len(palette))
	for i, n := range palette {
		names[i] = n.Name
	}
	return names
}

// PaletteColor returns the representative color of a palette bucket.
func PaletteColor(name string) (model.RGB, bool) {
	for _, n := range palette {
		if n.Name == name {
			return n.Color, true
		}
	}
	return model.RGB{}, false
}

// NameOf buckets a color into the nearest palette entry by Lab distance.
func NameOf(c model.RGB) string {
	best := palette[0].Name
	bestD := Distance(c, palette[0].Color)
	for _, n := range palette[1:] {
		if d := Distance(c, n.Color); d < bestD {
			bestD = d
			best = n.Name
		}
	}
	return best
}

// Warmth scores how warm a profile reads, in [0,1]. Hues near red/orange
// score high, hues near blue score low; the score is proportion-weighted
// across clusters and saturation-scaled so gray images land near 0.5.
func Warmth(p *model.ColorProfile) float64 {
	if p == nil || len(p.Clusters) == 0 {
		return 0.5
	}
	total := 0.0
	sum := 0.0
	for _, c := range p.Clusters {
		h, s, _ := RGBToHSV(c.Color)
		// Map hue to warmth: 0 deg (red) -> 1.0, 180 deg (cyan) -> 0.0.
		diff := h
		if diff > 180 {
			diff = 360 - diff
		}
		w := 1.0 - diff/180.0
		// Desaturated colors carry little hue information.
		w = 0.5 + (w-0.5)*s
		sum += w * c.Proportion
		total += c.Proportion
	}
	if total == 0 {
		return 0.5
	}
	return sum / total
}
