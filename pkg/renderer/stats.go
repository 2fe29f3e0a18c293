package renderer

import "github.com/df07/go-distribution-raytracer/pkg/core"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int     // Logical pixels rendered
	TotalSamples     int     // Primary rays traced
	AverageSamples   float64 // Average primary rays per pixel
	SamplesPerPixel  int     // Configured primary rays per pixel (samples²)
	RowsCompleted    int     // Logical rows finished
	AverageLightness float64 // Mean lightness of the rendered pixels
	lightnessAccum   float64
}

// NewRenderStats starts statistics for a frame with the given samples per axis
func NewRenderStats(samplesPerAxis int) RenderStats {
	return RenderStats{
		SamplesPerPixel: samplesPerAxis * samplesPerAxis,
	}
}

// AddRow folds a rendered row into the statistics
func (rs *RenderStats) AddRow(row []PixelStats) {
	for i := range row {
		rs.TotalPixels++
		rs.TotalSamples += row[i].SampleCount
		rs.lightnessAccum += row[i].GetColor().Lightness()
	}
	rs.RowsCompleted++
}

// Finalize computes the averages
func (rs *RenderStats) Finalize() {
	if rs.TotalPixels == 0 {
		return
	}
	rs.AverageSamples = float64(rs.TotalSamples) / float64(rs.TotalPixels)
	rs.AverageLightness = rs.lightnessAccum / float64(rs.TotalPixels)
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Color // RGB accumulator for final result
	SampleCount int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Black
	}
	return ps.ColorAccum.Scale(1.0 / float64(ps.SampleCount))
}
