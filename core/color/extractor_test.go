package color

import (
	"image"
	imgcolor "image/color"
	"testing"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, c imgcolor.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestExtractUniformImageSingleCluster(t *testing.T) {
	e := NewExtractor()
	img := uniformImage(64, 64, imgcolor.RGBA{R: 200, G: 30, B: 30, A: 255})

	profile, err := e.Extract(img)
	require.NoError(t, err)

	require.Len(t, profile.Clusters, 1)
	assert.Equal(t, model.RGB{R: 200, G: 30, B: 30}, profile.Clusters[0].Color)
	assert.Equal(t, 1.0, profile.Clusters[0].Proportion)
	assert.Equal(t, model.RGB{R: 200, G: 30, B: 30}, profile.BlendedColor)
	assert.Equal(t, model.RGB{R: 200, G: 30, B: 30}, profile.MeanColor)
}

func TestExtractTwoColorImage(t *testing.T) {
	e := NewExtractor()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				img.SetRGBA(x, y, imgcolor.RGBA{R: 255, A: 255})
			} else {
				img.SetRGBA(x, y, imgcolor.RGBA{B: 255, A: 255})
			}
		}
	}

	profile, err := e.Extract(img)
	require.NoError(t, err)

	require.Len(t, profile.Clusters, 2)
	assert.InDelta(t, 0.5, profile.Clusters[0].Proportion, 0.02)
	assert.InDelta(t, 0.5, profile.Clusters[1].Proportion, 0.02)

	sum := 0.0
	for _, c := range profile.Clusters {
		sum += c.Proportion
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestExtractProportionsSumToOne(t *testing.T) {
	e := NewExtractor()
	// Many distinct colors force the clustering path.
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.SetRGBA(x, y, imgcolor.RGBA{
				R: uint8((x * 2) % 256),
				G: uint8((y * 3) % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}

	profile, err := e.Extract(img)
	require.NoError(t, err)
	require.NotEmpty(t, profile.Clusters)
	assert.LessOrEqual(t, len(profile.Clusters), e.K)

	sum := 0.0
	for i, c := range profile.Clusters {
		sum += c.Proportion
		if i > 0 {
			assert.GreaterOrEqual(t, profile.Clusters[i-1].Proportion, c.Proportion,
				"clusters must be sorted by descending proportion")
		}
		assert.GreaterOrEqual(t, c.Proportion, e.MinProportion)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := NewExtractor()
	img := image.NewRGBA(image.Rect(0, 0, 90, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 90; x++ {
			img.SetRGBA(x, y, imgcolor.RGBA{
				R: uint8((x * 7) % 256),
				G: uint8((y * 11) % 256),
				B: uint8((x * y) % 256),
				A: 255,
			})
		}
	}

	first, err := e.Extract(img)
	require.NoError(t, err)
	second, err := e.Extract(img)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input must produce an identical profile")
}

func TestExtractSkipsTransparentPixels(t *testing.T) {
	e := NewExtractor()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x < 16 {
				img.SetNRGBA(x, y, imgcolor.NRGBA{R: 10, G: 200, B: 10, A: 255})
			} else {
				img.SetNRGBA(x, y, imgcolor.NRGBA{R: 255, G: 255, B: 255, A: 0})
			}
		}
	}

	profile, err := e.Extract(img)
	require.NoError(t, err)

	require.Len(t, profile.Clusters, 1)
	assert.Equal(t, model.RGB{R: 10, G: 200, B: 10}, profile.Clusters[0].Color)
	assert.Equal(t, 1.0, profile.Clusters[0].Proportion)
}

func TestExtractFullyTransparentImage(t *testing.T) {
	e := NewExtractor()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))

	_, err := e.Extract(img)
	assert.ErrorIs(t, err, ErrNoPixels)
}
