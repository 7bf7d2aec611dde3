package artwork

import (
	"bytes"
	"context"
	"image"
	imgcolor "image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"ChromaFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c imgcolor.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestKeyIsContentAddressed(t *testing.T) {
	a := pngBytes(t, imgcolor.RGBA{R: 255, A: 255})
	b := pngBytes(t, imgcolor.RGBA{B: 255, A: 255})

	assert.Equal(t, Key(a), Key(a), "identical bytes must hash identically")
	assert.NotEqual(t, Key(a), Key(b))
	assert.Len(t, Key(a), 40) // sha1 hex
}

func TestDecode(t *testing.T) {
	img, err := Decode(pngBytes(t, imgcolor.RGBA{G: 255, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = Decode([]byte("not an image"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFetcherFetch(t *testing.T) {
	data := pngBytes(t, imgcolor.RGBA{R: 128, G: 64, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	f := NewFetcher(nil)
	got, key, err := f.Fetch(context.Background(), srv.URL+"/cover.png", "")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, Key(data), key)
}

func TestFetcherFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(nil)
	_, _, err := f.Fetch(context.Background(), srv.URL+"/missing.png", "")
	assert.Error(t, err)
}

func TestSolidCover(t *testing.T) {
	data, err := SolidCover(model.RGB{R: 220, G: 60, B: 60})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 640, img.Bounds().Dy())

	// JPEG is lossy; the center pixel must still be close to the fill.
	r, g, b, _ := img.At(320, 320).RGBA()
	assert.InDelta(t, 220, float64(r>>8), 10)
	assert.InDelta(t, 60, float64(g>>8), 10)
	assert.InDelta(t, 60, float64(b>>8), 10)
}
