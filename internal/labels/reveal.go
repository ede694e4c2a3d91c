package labels

import (
	"portfolio-scene/internal/config"
	"portfolio-scene/internal/geom"
)

// Label is an overlay annotation whose text appears one character at a time.
type Label struct {
	Text     []rune
	At       geom.Vec3
	Style    Style
	Interval float32 // seconds per character
	After    int     // index of the label to wait for, -1 for none
	Delay    float32 // extra wait after the predecessor finishes

	shown   int
	elapsed float32
	started bool
}

// Visible returns the revealed prefix.
func (l *Label) Visible() string { return string(l.Text[:l.shown]) }

// Started reports whether the reveal has begun.
func (l *Label) Started() bool { return l.started }

// Done reports whether every character is visible.
func (l *Label) Done() bool { return l.shown == len(l.Text) }

// Background returns the box color for the current reveal state.
func (l *Label) Background() (r, g, b, a uint8) {
	c := l.Style.Background
	if l.started {
		c = l.Style.RevealBackground
	}
	return c.R, c.G, c.B, c.A
}

// Set is the ordered group of labels for one scene.
type Set struct {
	Labels []*Label
}

// NewSet builds labels from config.
func NewSet(cfg []config.Label) *Set {
	s := &Set{}
	for _, c := range cfg {
		after := -1
		if c.After != nil {
			after = *c.After
		}
		s.Labels = append(s.Labels, &Label{
			Text:     []rune(c.Text),
			At:       geom.FromArray(c.At),
			Style:    ResolveStyle(c.Style),
			Interval: c.Interval,
			After:    after,
			Delay:    c.Delay,
		})
	}
	return s
}

// Len returns the number of labels.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Labels)
}

// Advance moves every reveal forward by dt seconds. A label waits until its
// predecessor is done and its delay has elapsed; a zero interval reveals the
// whole text at once.
func (s *Set) Advance(dt float32) {
	if s == nil {
		return
	}
	for _, l := range s.Labels {
		if l.Done() && l.started {
			continue
		}
		if !l.started {
			if l.After >= 0 && !s.Labels[l.After].Done() {
				continue
			}
			l.elapsed += dt
			if l.elapsed < l.Delay {
				continue
			}
			l.started = true
			l.elapsed -= l.Delay
		} else {
			l.elapsed += dt
		}
		if l.Interval <= 0 {
			l.shown = len(l.Text)
			continue
		}
		n := int(l.elapsed / l.Interval)
		if n > len(l.Text) {
			n = len(l.Text)
		}
		l.shown = n
	}
}
