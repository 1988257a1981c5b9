package alignment

import (
	"testing"
	"time"
)

func TestCadenceFor(t *testing.T) {
	tests := []struct {
		distance float64
		delay    time.Duration
		tone     time.Duration
		tier     int
	}{
		{0, 50 * time.Millisecond, 30 * time.Millisecond, 0},
		{2, 50 * time.Millisecond, 30 * time.Millisecond, 0},
		{2.01, 100 * time.Millisecond, 40 * time.Millisecond, 1},
		{5, 100 * time.Millisecond, 40 * time.Millisecond, 1},
		{7, 200 * time.Millisecond, 50 * time.Millisecond, 2},
		{10, 200 * time.Millisecond, 50 * time.Millisecond, 2},
		{20, 400 * time.Millisecond, 60 * time.Millisecond, 3},
		{45, 800 * time.Millisecond, 70 * time.Millisecond, 4},
		{46, 1500 * time.Millisecond, 80 * time.Millisecond, 5},
		{180, 1500 * time.Millisecond, 80 * time.Millisecond, 5},
	}
	for _, tt := range tests {
		c := CadenceFor(tt.distance)
		if c.Delay != tt.delay || c.Tone != tt.tone || c.Tier != tt.tier {
			t.Errorf("CadenceFor(%v) = %+v, want delay %v tone %v tier %d",
				tt.distance, c, tt.delay, tt.tone, tt.tier)
		}
	}
}

func TestCadenceFor_MonotonicDelay(t *testing.T) {
	prev := time.Duration(0)
	for d := 0.0; d <= 180; d += 0.25 {
		c := CadenceFor(d)
		if c.Delay < prev {
			t.Fatalf("delay decreased at %v: %v < %v", d, c.Delay, prev)
		}
		prev = c.Delay
	}
}
