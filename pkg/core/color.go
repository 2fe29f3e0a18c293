package core

import "math"

// Color is an unclamped RGB triple. Channels may exceed [0,1] until the
// driver quantizes them for display.
type Color struct {
	R, G, B float64
}

// Common colors
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
	Grey  = Color{0.5, 0.5, 0.5}
)

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply returns the channel-wise (Hadamard) product of two colors
func (c Color) Multiply(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Scale returns the color with every channel multiplied by k
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k}
}

// Max returns the channel-wise maximum of two colors
func (c Color) Max(other Color) Color {
	return Color{math.Max(c.R, other.R), math.Max(c.G, other.G), math.Max(c.B, other.B)}
}

// Lightness returns the Euclidean length of the color
func (c Color) Lightness() float64 {
	return math.Sqrt(c.R*c.R + c.G*c.G + c.B*c.B)
}
