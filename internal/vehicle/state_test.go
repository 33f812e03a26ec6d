package vehicle

import (
	"math"
	"testing"
	"time"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.0, 1.0},
		{-1.0, -1.0},
		{math.Pi, -math.Pi},
		{-math.Pi, -math.Pi},
		{2 * math.Pi, 0},
		{-2 * math.Pi, 0},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{7 * math.Pi, -math.Pi},
		{100.5, 100.5 - 32*math.Pi},
	}

	for _, tt := range tests {
		got := WrapAngle(tt.in)

		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%g): got %g, expected %g", tt.in, got, tt.want)
		}
		if got < -math.Pi || got >= math.Pi {
			t.Errorf("WrapAngle(%g) = %g outside [-pi, pi)", tt.in, got)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s := State{X: 1, Y: 2, Psi: 0.3, Vx: 4, Vy: 0.5, Wz: 0.6, Acc: 0.7, Df: 0.08}
	ts := time.Unix(100, 0)

	est := s.Snapshot(ts)

	if est.Timestamp != ts {
		t.Errorf("timestamp: got %v, expected %v", est.Timestamp, ts)
	}
	if est.X != s.X || est.Y != s.Y || est.Psi != s.Psi {
		t.Errorf("pose mismatch: %+v vs %+v", est, s)
	}
	if est.V != s.Vx {
		t.Errorf("published v should be vx: got %g, expected %g", est.V, s.Vx)
	}
	if est.A != s.Acc || est.Df != s.Df {
		t.Errorf("actuation mismatch: %+v vs %+v", est, s)
	}
}
