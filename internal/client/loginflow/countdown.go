package loginflow

import (
	"sync"
	"time"
)

// Countdown is the resend cooldown: a local one-second timer owned by its
// flow instance, restarted on every send and torn down on flow reset. It is
// purely presentational — nothing server-side depends on it.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stop      chan struct{}
	interval  time.Duration
}

// NewCountdown creates a stopped countdown. interval <= 0 means one second;
// tests inject something shorter.
func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start (re)starts the countdown from seconds. Any previous run is cancelled.
func (c *Countdown) Start(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	if seconds <= 0 {
		return
	}

	c.remaining = seconds
	stop := make(chan struct{})
	c.stop = stop

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.mu.Lock()
				if c.stop != stop {
					c.mu.Unlock()
					return
				}
				c.remaining--
				done := c.remaining <= 0
				if done {
					c.remaining = 0
					c.stop = nil
				}
				c.mu.Unlock()
				if done {
					return
				}
			}
		}
	}()
}

// Stop cancels the countdown and zeroes the remaining time.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.remaining = 0
}

// Remaining returns the seconds left; zero once expired or stopped.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether the cooldown is still running.
func (c *Countdown) Active() bool {
	return c.Remaining() > 0
}
