package xchain

import "time"

// Deadline tracks the single wall-clock budget shared by every phase of one
// workflow run. It is created once at workflow start and never reset; the
// global deadline always dominates any per-phase attempt budget.
type Deadline struct {
	start  time.Time
	budget time.Duration
	now    func() time.Time
}

// NewDeadline starts a deadline with the given budget. A zero budget means
// unbounded.
func NewDeadline(budget time.Duration) *Deadline {
	return newDeadlineAt(budget, time.Now)
}

func newDeadlineAt(budget time.Duration, now func() time.Time) *Deadline {
	return &Deadline{start: now(), budget: budget, now: now}
}

// Remaining returns the time left before the deadline. ok is false when the
// deadline is unbounded. The returned value is monotonically non-increasing
// across calls.
func (d *Deadline) Remaining() (left time.Duration, ok bool) {
	if d.budget == 0 {
		return 0, false
	}
	return d.budget - d.now().Sub(d.start), true
}

// Exceeded reports whether the budget has run out.
func (d *Deadline) Exceeded() bool {
	left, ok := d.Remaining()
	return ok && left <= 0
}
