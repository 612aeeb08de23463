package inmem

import "time"

func (l *Locker) SetClock(clock func() time.Time) {
	l.clock = clock
}

func (c *SurgeCache) SetClock(clock func() time.Time) {
	c.clock = clock
}
