package glm

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSmoothStep(t *testing.T) {
	tests := []struct {
		edge0, edge1, v, want float64
	}{
		{0, 1, -1, 0},
		{0, 1, 0, 0},
		{0, 1, 0.5, 0.5},
		{0, 1, 1, 1},
		{0, 1, 2, 1},
		{0.55, 1.05, 0.55, 0},
		{0.55, 1.05, 1.05, 1},
	}

	for _, tt := range tests {
		if got := SmoothStep(tt.edge0, tt.edge1, tt.v); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SmoothStep(%v, %v, %v) = %v, want %v", tt.edge0, tt.edge1, tt.v, got, tt.want)
		}
	}
}

func TestSmoothStepMonotonic(t *testing.T) {
	previous := -1.0
	for v := 0.0; v <= 1.0; v += 0.05 {
		got := SmoothStep(0, 1, v)
		if got < previous {
			t.Fatalf("SmoothStep(0, 1, %v) = %v, below previous %v", v, got, previous)
		}
		previous = got
	}
}

func TestMix(t *testing.T) {
	if got := Mix(2.0, 4.0, 0.5); got != 3.0 {
		t.Errorf("Mix(2, 4, 0.5) = %v, want 3", got)
	}

	if got := Mix(2.0, 4.0, 0.0); got != 2.0 {
		t.Errorf("Mix(2, 4, 0) = %v, want 2", got)
	}

	if got := Mix(2.0, 4.0, 1.0); got != 4.0 {
		t.Errorf("Mix(2, 4, 1) = %v, want 4", got)
	}
}
