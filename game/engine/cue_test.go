package engine

import (
	"math"
	"testing"
)

func newReferenceMapper(t *testing.T) CueMapper {
	t.Helper()
	grid, err := NewGrid(referenceLayout)
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	return NewCueMapper(grid)
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{90, 90},
		{-90, 270},
		{180, 180},
		{-180, 180},
		{359, 359},
		{-359, 1},
		{360, 0},
		{-360, 0},
		{720, 0},
		{450, 90},
		{-450, 270},
		{359.6, 0},
		{44.4, 44},
	}

	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); got != tt.want {
			t.Errorf("NormalizeAngle(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCueMapper_AttenuationRange(t *testing.T) {
	m := newReferenceMapper(t)

	tests := []struct {
		distance float64
		want     uint8
	}{
		{0, 0},
		{0.5, 0},
		{1, 0},
		{m.Diagonal(), 255},
		{m.Diagonal() * 2, 255},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		got := m.MixerParameters(Bearing{Distance: tt.distance}).Distance
		if got != tt.want {
			t.Errorf("distance %g -> %d, want %d", tt.distance, got, tt.want)
		}
	}
}

func TestCueMapper_AttenuationMonotonic(t *testing.T) {
	m := newReferenceMapper(t)

	prev := uint8(0)
	for d := 0.0; d <= m.Diagonal()+1; d += 0.25 {
		got := m.MixerParameters(Bearing{Distance: d}).Distance
		if got < prev {
			t.Fatalf("attenuation decreased at distance %g: %d < %d", d, got, prev)
		}
		prev = got
	}
}

func TestCueMapper_AngleInRange(t *testing.T) {
	m := newReferenceMapper(t)

	for a := -1000.0; a <= 1000; a += 7.3 {
		got := m.MixerParameters(Bearing{AngleDeg: a}).Angle
		if got < 0 || got >= 360 {
			t.Fatalf("angle %g mapped outside [0,360): %d", a, got)
		}
	}
}

func TestRescale(t *testing.T) {
	if got := Rescale(5, 0, 10, 0, 100); got != 50 {
		t.Errorf("Rescale midpoint = %g, want 50", got)
	}
	if got := Rescale(3, 3, 3, 7, 9); got != 7 {
		t.Errorf("Rescale with empty source range = %g, want 7", got)
	}
	if got := Rescale(20, 0, 10, 0, 100); got != 200 {
		t.Errorf("Rescale extrapolated = %g, want 200", got)
	}
}
