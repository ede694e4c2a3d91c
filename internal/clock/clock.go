package clock

import "time"

// Clock reports elapsed seconds between calls.
type Clock interface {
	// Delta returns seconds since the previous call; the first call returns 0.
	Delta() float32
}

// Real is a monotonic wall clock.
type Real struct {
	last time.Time
	now  func() time.Time
}

// NewReal returns a clock reading time.Now, whose readings carry the
// monotonic component.
func NewReal() *Real {
	return &Real{now: time.Now}
}

func (c *Real) Delta() float32 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return 0
	}
	d := t.Sub(c.last)
	c.last = t
	return float32(d.Seconds())
}

// Manual is a clock advanced by hand, for tests and fixed-step playback.
type Manual struct {
	pending float32
}

// Advance adds d seconds to the next Delta.
func (c *Manual) Advance(d float32) { c.pending += d }

func (c *Manual) Delta() float32 {
	d := c.pending
	c.pending = 0
	return d
}
