// Package clock implements the chess clock that sits outside the engine and
// reports when a side runs out of time.
package clock

import (
	"sync"
	"time"
)

// Clock is one side's countdown.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func New(initialTime time.Duration) *Clock {
	return newClock(initialTime, time.Now)
}

func newClock(initialTime time.Duration, now func() time.Time) *Clock {
	return &Clock{
		timeLeft: initialTime,
		now:      now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

// Add credits d to the clock, as an increment does after a move.
func (c *Clock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeLeft += d
}

// TimeLeft never reports less than zero.
func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	left := c.timeLeft
	if c.isRunning {
		left -= c.now().Sub(c.lastStarted)
	}
	return max(left, 0)
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
