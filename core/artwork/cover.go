package artwork

import (
	"bytes"
	"image"
	imgcolor "image/color"
	"image/jpeg"

	"ChromaFM/model"
)

// coverSize is the edge length of generated playlist covers, matching the
// music service's recommended cover dimensions.
const coverSize = 640

// SolidCover renders a solid-color JPEG playlist cover. Used when no
// album art is suitable for the playlist's cover image.
func SolidCover(c model.RGB) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, coverSize, coverSize))
	fill := imgcolor.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	for y := 0; y < coverSize; y++ {
		for x := 0; x < coverSize; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
