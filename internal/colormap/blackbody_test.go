package colormap

import (
	"math"
	"testing"
)

func TestMap_WhiteCrossoverNearDefault(t *testing.T) {
	// With zero colorshift the output should be pure white around
	// 85 C (exact saturation one degree above).
	c := Map(85, 0)
	if c.Red < 250 || c.Green < 250 || c.Blue < 245 {
		t.Errorf("Expected near-white at 85C, got %+v", c)
	}

	c = Map(86, 0)
	if c != (Color{255, 255, 255}) {
		t.Errorf("Expected pure white at 86C, got %+v", c)
	}
}

func TestMap_ColdIsWarmTone(t *testing.T) {
	// Low temperatures produce a low color temperature: full red,
	// no blue. Never black or white.
	c := Map(0, 0)
	if c.Red != 255 {
		t.Errorf("Expected full red at 0C, got %+v", c)
	}
	if c.Blue != 0 {
		t.Errorf("Expected no blue at 0C, got %+v", c)
	}
}

func TestMap_HotIsCoolTone(t *testing.T) {
	// High temperatures swing blue-dominant with reduced red.
	c := Map(150, 0)
	if c.Blue != 255 {
		t.Errorf("Expected full blue at 150C, got %+v", c)
	}
	if c.Red >= 255 {
		t.Errorf("Expected reduced red at 150C, got %+v", c)
	}
}

func TestMap_Deterministic(t *testing.T) {
	for _, temp := range []float64{-40, 0, 25, 55.5, 85, 120, 1000} {
		for _, shift := range []float64{-15, 0, 7.5} {
			a := Map(temp, shift)
			b := Map(temp, shift)
			if a != b {
				t.Errorf("Map(%v, %v) not deterministic: %+v != %+v", temp, shift, a, b)
			}
		}
	}
}

func TestMap_ExtremeInputsStayClamped(t *testing.T) {
	// Malformed or absurd readings must still yield a valid triplet.
	inputs := []float64{
		math.NaN(),
		math.Inf(1),
		math.Inf(-1),
		-273.15,
		10000,
	}
	for _, temp := range inputs {
		c := Map(temp, 0)
		// uint8 fields cannot leave [0,255]; what matters is that the
		// formula branches did not blow up and black is only produced
		// where the model says so.
		if temp > 0 && !math.IsNaN(temp) && c == (Color{0, 0, 0}) {
			t.Errorf("Map(%v, 0) produced black unexpectedly", temp)
		}
	}

	// NaN falls through to the cold floor, not a crash.
	c := Map(math.NaN(), 0)
	if c != (Color{255, 0, 0}) {
		t.Errorf("Expected cold-floor color for NaN input, got %+v", c)
	}
}

func TestMap_ColorshiftMovesCrossover(t *testing.T) {
	// More positive shift must lower the white crossover
	// temperature, more negative must raise it.
	crossover := func(shift float64) float64 {
		for temp := -50.0; temp <= 200; temp += 0.5 {
			if Map(temp, shift) == (Color{255, 255, 255}) {
				return temp
			}
		}
		t.Fatalf("No white crossover found for shift %v", shift)
		return 0
	}

	prev := crossover(-10)
	for _, shift := range []float64{-5, 0, 5, 10} {
		cur := crossover(shift)
		if cur >= prev {
			t.Errorf("Crossover did not decrease: shift %v -> %vC (previous %vC)", shift, cur, prev)
		}
		prev = cur
	}
}

func TestClamp8(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{127.4, 127},
		{127.6, 128},
		{255, 255},
		{300, 255},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := clamp8(tc.in); got != tc.want {
			t.Errorf("clamp8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
