package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"math"
	"os"

	"github.com/df07/go-distribution-raytracer/pkg/core"
)

// ImageData contains loaded image data as a Color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// LoadImage loads a PNG or JPEG image, typically a reference render, and converts it to colors
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img), nil
}

// FromImage converts any image to a Color array
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewColor(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// MaxDifference returns the largest per-channel difference between two images
// of the same size
func (d *ImageData) MaxDifference(other *ImageData) (float64, error) {
	if d.Width != other.Width || d.Height != other.Height {
		return 0, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", d.Width, d.Height, other.Width, other.Height)
	}

	maxDiff := 0.0
	for i, p := range d.Pixels {
		q := other.Pixels[i]
		maxDiff = math.Max(maxDiff, math.Abs(p.R-q.R))
		maxDiff = math.Max(maxDiff, math.Abs(p.G-q.G))
		maxDiff = math.Max(maxDiff, math.Abs(p.B-q.B))
	}
	return maxDiff, nil
}
