package color

import (
	"testing"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		in      model.RGB
		h, s, v float64
	}{
		{"red", model.RGB{R: 255}, 0, 1, 1},
		{"green", model.RGB{G: 255}, 120, 1, 1},
		{"blue", model.RGB{B: 255}, 240, 1, 1},
		{"white", model.RGB{R: 255, G: 255, B: 255}, 0, 0, 1},
		{"black", model.RGB{}, 0, 0, 0},
		{"gray", model.RGB{R: 128, G: 128, B: 128}, 0, 0, 128.0 / 255.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.in)
			assert.InDelta(t, tt.h, h, 1e-9)
			assert.InDelta(t, tt.s, s, 1e-9)
			assert.InDelta(t, tt.v, v, 1e-9)
		})
	}
}

func TestRGBToLabReferencePoints(t *testing.T) {
	white := RGBToLab(model.RGB{R: 255, G: 255, B: 255})
	assert.InDelta(t, 100.0, white.L, 0.01)
	assert.InDelta(t, 0.0, white.A, 0.01)
	assert.InDelta(t, 0.0, white.B, 0.01)

	black := RGBToLab(model.RGB{})
	assert.InDelta(t, 0.0, black.L, 0.01)
}

func TestDistance(t *testing.T) {
	red := model.RGB{R: 255}
	blue := model.RGB{B: 255}

	assert.Equal(t, 0.0, Distance(red, red))
	assert.Equal(t, Distance(red, blue), Distance(blue, red))
	assert.Greater(t, Distance(red, blue), 0.0)

	// A near-red must be closer to red than blue is.
	nearRed := model.RGB{R: 240, G: 10, B: 10}
	assert.Less(t, Distance(red, nearRed), Distance(red, blue))
}

func TestNameOfPaletteColors(t *testing.T) {
	for _, name := range PaletteNames() {
		c, ok := PaletteColor(name)
		assert.True(t, ok)
		assert.Equal(t, name, NameOf(c), "a palette color must bucket onto itself")
	}
}

func TestWarmth(t *testing.T) {
	warm := &model.ColorProfile{Clusters: []model.ColorWeight{
		{Color: model.RGB{R: 255}, Proportion: 1.0},
	}}
	cool := &model.ColorProfile{Clusters: []model.ColorWeight{
		{Color: model.RGB{B: 255}, Proportion: 1.0},
	}}
	gray := &model.ColorProfile{Clusters: []model.ColorWeight{
		{Color: model.RGB{R: 128, G: 128, B: 128}, Proportion: 1.0},
	}}

	assert.Greater(t, Warmth(warm), 0.8)
	assert.Less(t, Warmth(cool), Warmth(gray))
	assert.InDelta(t, 0.5, Warmth(gray), 1e-9)
	assert.Equal(t, 0.5, Warmth(nil))
	assert.Greater(t, Warmth(warm), Warmth(gray))
}
