package shadow

import (
	"math"
	"testing"
)

func TestReductionStatic(t *testing.T) {
	tests := []struct {
		name     string
		distance float32
		rng      float32
		want     int
	}{
		{"inside range", 5, 10, 0},
		{"at range", 10, 10, 0},
		{"below first step", 14, 10, 0},
		{"first step", 25, 10, 1},
		{"four and a half ranges", 45, 10, 2},
		{"far away", 1e6, 10, MaxReduction},
		{"zero range floored", 0.5, 0, 0},
		{"negative range floored", 45, -3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReductionStatic(tt.distance, tt.rng); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestReductionDynamic(t *testing.T) {
	// range 10 at factor 0.5 acts like range 5
	if got := ReductionDynamic(45, 10, DefaultDynamicRangeFactor); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := ReductionDynamic(5, 10, DefaultDynamicRangeFactor); got != 0 {
		t.Errorf("expected 0 inside scaled range, got %d", got)
	}
	// scaled range is floored at 1
	if got := ReductionDynamic(1, 1, DefaultDynamicRangeFactor); got != 0 {
		t.Errorf("expected 0 with floored range, got %d", got)
	}
}

func TestReductionProperties(t *testing.T) {
	ranges := []float32{0, 1, 3, 10, 250}
	for _, r := range ranges {
		prevStatic, prevDynamic := 0, 0
		for d := float32(0); d < 1e5; d = d*1.3 + 0.7 {
			s := ReductionStatic(d, r)
			dy := ReductionDynamic(d, r, DefaultDynamicRangeFactor)
			if s < 0 || s > MaxReduction {
				t.Fatalf("static reduction %d out of range at d=%v r=%v", s, d, r)
			}
			if s < prevStatic {
				t.Fatalf("static reduction not monotonic at d=%v r=%v", d, r)
			}
			if dy < prevDynamic {
				t.Fatalf("dynamic reduction not monotonic at d=%v r=%v", d, r)
			}
			if dy < s {
				t.Fatalf("dynamic reduction %d below static %d at d=%v r=%v", dy, s, d, r)
			}
			prevStatic, prevDynamic = s, dy
		}
	}
}

func TestReductionNonFinite(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())

	if got := ReductionStatic(inf, 10); got != MaxReduction {
		t.Errorf("expected %d for infinite distance, got %d", MaxReduction, got)
	}
	if got := ReductionStatic(nan, 10); got != 0 {
		t.Errorf("expected 0 for NaN distance, got %d", got)
	}
}

func TestReduceSize(t *testing.T) {
	tests := []struct {
		base, reduction, want int
	}{
		{1024, 0, 1024},
		{1024, 2, 256},
		{1024, 8, MinMapSize},
		{4096, 8, 16},
		{2048, 20, MinMapSize},
		{512, -1, 512},
		{16, 1, MinMapSize},
	}

	for _, tt := range tests {
		if got := ReduceSize(tt.base, tt.reduction); got != tt.want {
			t.Errorf("ReduceSize(%d, %d): expected %d, got %d", tt.base, tt.reduction, tt.want, got)
		}
	}
}
