package xchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestDeadlineUnbounded(t *testing.T) {
	d := NewDeadline(0)
	_, ok := d.Remaining()
	assert.False(t, ok, "zero budget means unbounded")
	assert.False(t, d.Exceeded())
}

func TestDeadlineRemaining(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	d := newDeadlineAt(time.Minute, clock.Now)

	left, ok := d.Remaining()
	require.True(t, ok)
	assert.Equal(t, time.Minute, left)

	clock.Advance(40 * time.Second)
	left, ok = d.Remaining()
	require.True(t, ok)
	assert.Equal(t, 20*time.Second, left)
	assert.False(t, d.Exceeded())

	clock.Advance(20 * time.Second)
	assert.True(t, d.Exceeded())

	clock.Advance(time.Hour)
	assert.True(t, d.Exceeded(), "a deadline never un-expires")
}

func TestDeadlineRemainingMonotonic(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	d := newDeadlineAt(10*time.Second, clock.Now)

	prev, ok := d.Remaining()
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		clock.Advance(time.Duration(i%3) * 100 * time.Millisecond)
		left, ok := d.Remaining()
		require.True(t, ok)
		assert.LessOrEqual(t, left, prev, "remaining must never increase")
		prev = left
	}
}
