package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-distribution-raytracer/pkg/core"
)

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	imageData, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if imageData.Width != 2 || imageData.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
	}
	if len(imageData.Pixels) != 4 {
		t.Fatalf("Expected 4 pixels, got %d", len(imageData.Pixels))
	}

	checkColor := func(name string, got, expected core.Color) {
		const tolerance = 0.01
		if abs(got.R-expected.R) > tolerance ||
			abs(got.G-expected.G) > tolerance ||
			abs(got.B-expected.B) > tolerance {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}

	// Verify colors (row-major order)
	checkColor("Top-left (white)", imageData.Pixels[0], core.White)
	checkColor("Top-right (red)", imageData.Pixels[1], core.NewColor(1, 0, 0))
	checkColor("Bottom-left (green)", imageData.Pixels[2], core.NewColor(0, 1, 0))
	checkColor("Bottom-right (blue)", imageData.Pixels[3], core.NewColor(0, 0, 1))
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestImageData_MaxDifference(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 2, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 1))
	a.Set(0, 0, color.RGBA{R: 255, A: 255})
	b.Set(0, 0, color.RGBA{R: 255, A: 255})
	a.Set(1, 0, color.RGBA{G: 0, A: 255})
	b.Set(1, 0, color.RGBA{G: 255, A: 255})

	same, err := FromImage(a).MaxDifference(FromImage(a))
	if err != nil || same != 0 {
		t.Errorf("Expected zero difference for identical images, got %f (err %v)", same, err)
	}

	diff, err := FromImage(a).MaxDifference(FromImage(b))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if abs(diff-1.0) > 1e-9 {
		t.Errorf("Expected max difference 1.0, got %f", diff)
	}

	small := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if _, err := FromImage(a).MaxDifference(FromImage(small)); err == nil {
		t.Error("Expected error comparing images of different sizes")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
