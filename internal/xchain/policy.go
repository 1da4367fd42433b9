package xchain

import "time"

// Policy controls one polling phase: a fixed interval between attempts and
// an attempt budget. MaxAttempts 0 means unbounded; a phase configured
// unbounded can only end through the shared deadline or cancellation.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
}

// NextDelay returns the delay before the next attempt. Intervals are
// constant: remote finality has no useful correlation with retry count, so
// backoff would only slow detection down.
func (p Policy) NextDelay() time.Duration {
	return p.Interval
}

// Unbounded reports whether the policy has no attempt budget.
func (p Policy) Unbounded() bool {
	return p.MaxAttempts == 0
}

// Exhausted reports whether the given number of completed attempts has used
// up the budget.
func (p Policy) Exhausted(attempts int) bool {
	return !p.Unbounded() && attempts >= p.MaxAttempts
}
