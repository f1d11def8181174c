package booking

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown_FiresAfterDuration(t *testing.T) {
	clock := newFakeClock()
	var fired atomic.Int32
	c := StartCountdown(clock, 5*time.Second, func() { fired.Add(1) })

	assert.Equal(t, 5, c.Remaining())
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 4, c.Remaining())
	clock.Advance(3499 * time.Millisecond)
	assert.Equal(t, 1, c.Remaining())
	assert.Zero(t, fired.Load())

	clock.Advance(time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
	assert.False(t, c.Active())
	assert.Zero(t, c.Remaining())
	assert.False(t, c.Stop(), "stopping a fired countdown reports false")
}

func TestCountdown_StopPreventsFiring(t *testing.T) {
	clock := newFakeClock()
	var fired atomic.Int32
	c := StartCountdown(clock, 5*time.Second, func() { fired.Add(1) })

	clock.Advance(2 * time.Second)
	assert.True(t, c.Stop())
	assert.False(t, c.Stop())
	clock.Advance(10 * time.Second)

	assert.Zero(t, fired.Load())
	assert.Zero(t, c.Remaining())
}

func TestCountdown_NilSafe(t *testing.T) {
	var c *Countdown
	assert.False(t, c.Stop())
	assert.False(t, c.Active())
	assert.Zero(t, c.Remaining())
}
