package scoreboard

import "sync/atomic"

// IDAllocator hands out match ids.
type IDAllocator interface {
	Next() MatchID
}

// Counter is an IDAllocator backed by an atomic counter. The zero value is
// ready to use and its first id is 1.
type Counter struct {
	last atomic.Int64
}

// NewCounter returns a Counter whose next id is start+1.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.last.Store(start)
	return c
}

func (c *Counter) Next() MatchID {
	return MatchID(c.last.Add(1))
}
