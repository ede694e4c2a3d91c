package interaction

import "portfolio-scene/internal/geom"

// State is the normalized pointer offset read by the render loop.
// Both axes lie in [-1, 1]: X grows to the right, Y grows upward, and the
// viewport center is the origin.
type State struct {
	X, Y float32
}

// Normalize maps client pixel coordinates to a State. Coordinates outside the
// viewport are clamped to the edge; a zero-size viewport yields the origin.
func Normalize(clientX, clientY, width, height float32) State {
	if width <= 0 || height <= 0 {
		return State{}
	}
	return State{
		X: geom.Clamp(clientX/width*2-1, -1, 1),
		Y: geom.Clamp(-(clientY/height)*2+1, -1, 1),
	}
}

// Cell holds the current State. It has exactly one writer (the pointer-move
// listener) and one reader (the render loop), both on the main thread, so a
// plain overwrite is enough.
type Cell struct {
	s State
}

// Set overwrites the state.
func (c *Cell) Set(s State) { c.s = s }

// Get returns the current state. Reading never resets it.
func (c *Cell) Get() State { return c.s }

// WheelTarget names what an accumulated wheel delta drives.
type WheelTarget string

const (
	WheelNone      WheelTarget = "none"
	WheelPositionZ WheelTarget = "position_z"
	WheelFov       WheelTarget = "fov"
)

// Valid reports whether t is a known target. Empty means none.
func (t WheelTarget) Valid() bool {
	switch t {
	case "", WheelNone, WheelPositionZ, WheelFov:
		return true
	}
	return false
}

// WheelAccumulator sums fixed steps per wheel event. The sign follows the
// scroll direction; the magnitude of the event is ignored.
type WheelAccumulator struct {
	Step  float32
	delta float32
}

// Add records one wheel event.
func (w *WheelAccumulator) Add(dy float32) {
	switch {
	case dy > 0:
		w.delta += w.Step
	case dy < 0:
		w.delta -= w.Step
	}
}

// Delta returns the accumulated value.
func (w *WheelAccumulator) Delta() float32 { return w.delta }
