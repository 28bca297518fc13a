package application

import (
	"sync"
	"time"
)

// monotonicClock hands out strictly increasing timestamps at microsecond
// precision, the finest the stores keep. Folder creation and upload times
// use it so that "newest first" never ties.
type monotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newMonotonicClock(now func() time.Time) *monotonicClock {
	if now == nil {
		now = time.Now
	}
	return &monotonicClock{now: now}
}

// Now returns the current UTC time, or one microsecond after the previous
// result when the wall clock did not move forward.
func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
