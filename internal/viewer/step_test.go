package viewer

import "testing"

func TestStepUpSequence(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 5},
		{5, 10},
		{10, 20},
		{20, 20}, // saturates
	}
	for _, tt := range tests {
		if got := stepUp(tt.in); got != tt.want {
			t.Errorf("stepUp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStepDownSequence(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{20, 10},
		{10, 5},
		{5, 1},
		{1, 1}, // saturates
	}
	for _, tt := range tests {
		if got := stepDown(tt.in); got != tt.want {
			t.Errorf("stepDown(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStepSaturationIsIdempotent(t *testing.T) {
	s := 20
	for i := 0; i < 10; i++ {
		s = stepUp(s)
	}
	if s != 20 {
		t.Errorf("repeated stepUp at 20 = %d, want 20", s)
	}

	s = 1
	for i := 0; i < 10; i++ {
		s = stepDown(s)
	}
	if s != 1 {
		t.Errorf("repeated stepDown at 1 = %d, want 1", s)
	}
}
