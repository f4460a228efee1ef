package timer

import (
	"sync"
	"time"
)

// Clock drives the display refresh: a ticker goroutine invoking onTick at
// every interval until stopped.
type Clock struct {
	interval time.Duration
	onTick   func(now time.Time)

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewClock creates a stopped Clock. An interval of zero or less falls back
// to one second.
func NewClock(interval time.Duration, onTick func(time.Time)) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{
		interval: interval,
		onTick:   onTick,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop.
func (c *Clock) Start() {
	go c.run()
}

func (c *Clock) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.onTick(now)
		}
	}
}

// Stop signals the loop and blocks until it has exited, so no tick can write
// to the terminal afterwards. Safe to call more than once; Start must have
// run first.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}
