package color

import (
	"math"

	"ChromaFM/model"
)

// Lab is a color in CIE L*a*b* (D65 reference white). All perceptual
// distances in this codebase are Euclidean distances in this space; raw RGB
// distance weights channels unevenly and makes gradients look wrong.
type Lab struct {
	L float64
	A float64
	B float64
}

// RGBToHSV converts an sRGB color to HSV. Hue is in degrees [0,360),
// saturation and value in [0,1].
func RGBToHSV(c model.RGB) (h, s, v float64) {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v = max
	d := max - min

	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

func srgbToLinear(u float64) float64 {
	if u <= 0.04045 {
		return u / 12.92
	}
	return math.Pow((u+0.055)/1.055, 2.4)
}

// D65 reference white in XYZ.
const (
	refX = 0.95047
	refY = 1.00000
	refZ = 1.08883
)

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// RGBToLab converts an sRGB color to CIE L*a*b* under D65.
func RGBToLab(c model.RGB) Lab {
	r := srgbToLinear(float64(c.R) / 255.0)
	g := srgbToLinear(float64(c.G) / 255.0)
	b := srgbToLinear(float64(c.B) / 255.0)

	x := 0.4124564*r + 0.3575761*g + 0.1804375*b
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := 0.0193339*r + 0.1191920*g + 0.9503041*b

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// Distance returns the Euclidean L*a*b* distance between two sRGB colors.
func Distance(a, b model.RGB) float64 {
	la := RGBToLab(a)
	lb := RGBToLab(b)
	dl := la.L - lb.L
	da := la.A - lb.A
	db := la.B - lb.B
	return math.Sqrt(dl*dl + da*da + db*db)
}
