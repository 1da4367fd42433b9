package xchain

import (
	"testing"
	"time"
)

func TestPolicyNextDelayIsConstant(t *testing.T) {
	p := Policy{MaxAttempts: 5, Interval: 250 * time.Millisecond}
	for i := 0; i < 4; i++ {
		if got := p.NextDelay(); got != 250*time.Millisecond {
			t.Fatalf("NextDelay() = %v, want 250ms", got)
		}
	}
}

func TestPolicyExhausted(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		attempts    int
		want        bool
	}{
		{"bounded below budget", 3, 2, false},
		{"bounded at budget", 3, 3, true},
		{"bounded past budget", 3, 5, true},
		{"unbounded never exhausts", 0, 1000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Policy{MaxAttempts: tt.maxAttempts}
			if got := p.Exhausted(tt.attempts); got != tt.want {
				t.Errorf("Exhausted(%d) = %v, want %v", tt.attempts, got, tt.want)
			}
		})
	}
}

func TestPolicyUnbounded(t *testing.T) {
	if !(Policy{MaxAttempts: 0}).Unbounded() {
		t.Error("MaxAttempts 0 should be unbounded")
	}
	if (Policy{MaxAttempts: 1}).Unbounded() {
		t.Error("MaxAttempts 1 should be bounded")
	}
}
