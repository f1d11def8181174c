package booking

import (
	"sync"
	"time"
)

// Countdown fires once after its duration unless stopped first. Remaining
// reports whole seconds left, rounded up, so a fresh 5s countdown reads 5.
type Countdown struct {
	clock    Clock
	deadline time.Time

	mu      sync.Mutex
	timer   Timer
	stopped bool
	fired   bool
}

// StartCountdown schedules onDue after d.
func StartCountdown(clock Clock, d time.Duration, onDue func()) *Countdown {
	c := &Countdown{clock: clock, deadline: clock.Now().Add(d)}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = clock.AfterFunc(d, func() {
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return
		}
		c.fired = true
		c.mu.Unlock()
		onDue()
	})
	return c
}

// Stop cancels the countdown. It reports whether the countdown was still
// pending.
func (c *Countdown) Stop() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.fired {
		return false
	}
	c.stopped = true
	c.timer.Stop()
	return true
}

// Active reports whether the countdown is still pending.
func (c *Countdown) Active() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.stopped && !c.fired
}

// Remaining returns the whole seconds left, or 0 once fired or stopped.
func (c *Countdown) Remaining() int {
	if !c.Active() {
		return 0
	}
	left := c.deadline.Sub(c.clock.Now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}
