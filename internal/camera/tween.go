package camera

import (
	"fmt"

	"github.com/chewxy/math32"

	"portfolio-scene/internal/geom"
)

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float32) float32

// ParseEase resolves an easing name. Empty means linear.
func ParseEase(name string) (Ease, error) {
	switch name {
	case "", "linear":
		return func(t float32) float32 { return t }, nil
	case "quad.inOut":
		return func(t float32) float32 {
			if t < 0.5 {
				return 2 * t * t
			}
			return 1 - math32.Pow(-2*t+2, 2)/2
		}, nil
	case "cubic.inOut":
		return func(t float32) float32 {
			if t < 0.5 {
				return 4 * t * t * t
			}
			return 1 - math32.Pow(-2*t+2, 3)/2
		}, nil
	case "sine.inOut":
		return func(t float32) float32 {
			return -(math32.Cos(math32.Pi*t) - 1) / 2
		}, nil
	case "power2.out":
		return func(t float32) float32 {
			return 1 - (1-t)*(1-t)
		}, nil
	}
	return nil, fmt.Errorf("camera: unknown ease %q", name)
}

// Tween moves a position from From to To over Duration seconds. It is
// stepped by the render loop and never blocks it.
type Tween struct {
	From, To geom.Vec3
	Duration float32
	Ease     Ease
	elapsed  float32
}

// Step advances the tween by dt and returns the current position and whether
// the tween has finished.
func (t *Tween) Step(dt float32) (geom.Vec3, bool) {
	t.elapsed += dt
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		t.elapsed = t.Duration
		return t.To, true
	}
	p := t.elapsed / t.Duration
	if t.Ease != nil {
		p = t.Ease(p)
	}
	return geom.Lerp(t.From, t.To, p), false
}

// Done reports whether the tween reached its end.
func (t *Tween) Done() bool { return t.elapsed >= t.Duration }
