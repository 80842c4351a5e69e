package timer

import (
	"sync"
	"time"
)

// clock is a per-room countdown. It is a small state machine: idle
// until start, running while ticking, idle again after stop or expiry.
// Expiry is reported exactly once per started countdown.
type clock struct {
	mu        sync.Mutex
	running   bool
	remaining int
	cancel    chan struct{}
}

// start begins a countdown of the given number of seconds, one tick per
// interval. Starting a running clock is a no-op and returns false.
func (c *clock) start(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) bool {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return false
	}
	c.running = true
	c.remaining = seconds
	cancel := make(chan struct{})
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(cancel, interval, onTick, onExpire)
	return true
}

func (c *clock) run(cancel chan struct{}, interval time.Duration, onTick func(int), onExpire func()) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-tick.C:
			c.mu.Lock()
			if !c.running || c.cancel != cancel {
				// stop raced the tick; a fresh countdown owns the clock
				c.mu.Unlock()
				return
			}
			c.remaining--
			remaining := c.remaining
			expired := remaining <= 0
			if expired {
				c.running = false
				c.cancel = nil
			}
			c.mu.Unlock()

			if onTick != nil {
				onTick(remaining)
			}
			if expired {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

// stop halts the countdown without firing expiry.
func (c *clock) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.cancel)
	c.cancel = nil
}

func (c *clock) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *clock) timeLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
