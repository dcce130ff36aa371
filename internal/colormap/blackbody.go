// Package colormap converts CPU temperatures to RGB colors using the
// Tanner Helland blackbody radiation curve fit
// (https://tannerhelland.com/2012/09/18/convert-temperature-rgb-algorithm-code.html).
//
// The original fit takes color temperatures in Kelvin divided by 100,
// so its interesting range is roughly 10-400. CPU temperatures in
// Celsius happen to land in the same range, which lets us feed them
// to the fit directly after subtracting a fixed ambient offset. With
// the default offset the output reaches pure white around 85 C.
package colormap

import "math"

const (
	// ambientOffset is the calibration constant subtracted from raw
	// temperatures before the curve fit. It stands in for ambient
	// room temperature and anchors the pure-white crossover near
	// 85 C at zero colorshift.
	ambientOffset = 20.0

	// whitePoint is the adjusted value at which all three channels
	// saturate. Corresponds to 6600 K in the original fit.
	whitePoint = 66.0

	// blueFloor is the adjusted value below which blue is fully off.
	blueFloor = 19.0

	// minInput keeps the logarithmic branches away from ln(0).
	minInput = 0.1
)

// Color is an 8-bit RGB triplet.
type Color struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// Map converts a CPU temperature in Celsius to a color. shift moves
// the gradient: positive values lower the temperature at which the
// output turns white, negative values raise it.
//
// Map is pure: identical inputs always produce identical colors, and
// every channel is clamped to [0, 255] regardless of input, including
// NaN and absurd magnitudes.
func Map(tempC, shift float64) Color {
	t := adjust(tempC, shift)
	return Color{
		Red:   red(t),
		Green: green(t),
		Blue:  blue(t),
	}
}

// adjust applies the ambient offset and colorshift, flooring the
// result so the log/pow branches stay defined.
func adjust(tempC, shift float64) float64 {
	t := tempC - ambientOffset + shift
	if math.IsNaN(t) || t <= 0 {
		return minInput
	}
	return t
}

func red(t float64) uint8 {
	if t <= whitePoint {
		return 255
	}
	return clamp8(329.698727446 * math.Pow(t-60.0, -0.1332047592))
}

func green(t float64) uint8 {
	if t <= whitePoint {
		return clamp8(99.4708025861*math.Log(t) - 161.1195681661)
	}
	return clamp8(288.1221695283 * math.Pow(t-60.0, -0.0755148492))
}

func blue(t float64) uint8 {
	if t >= whitePoint {
		return 255
	}
	if t <= blueFloor {
		return 0
	}
	return clamp8(138.5177312231*math.Log(t-10.0) - 305.0447927307)
}

// clamp8 rounds a channel value to the nearest integer and constrains
// it to [0, 255]. NaN clamps to 0.
func clamp8(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
