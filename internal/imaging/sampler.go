package imaging

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// SampleGrid reads one sample per pixel from an already-downscaled board
// image, in row-major order, and returns the samples with the grid width.
// Components are normalized to [0, 1]. Alpha is ignored; the board
// photograph pipeline never produces transparency.
func SampleGrid(img image.Image) ([]colorful.Color, int, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, 0, fmt.Errorf("empty image %dx%d", w, h)
	}

	samples := make([]colorful.Color, 0, w*h)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			samples = append(samples, colorful.Color{
				R: float64(r>>8) / 255.0,
				G: float64(g>>8) / 255.0,
				B: float64(b>>8) / 255.0,
			})
		}
	}
	return samples, w, nil
}
