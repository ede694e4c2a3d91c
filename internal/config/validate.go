package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid variant")

var (
	axes      = map[string]bool{"x": true, "y": true, "z": true}
	actions   = map[string]bool{"rotate": true, "pan": true, "dolly": true, "none": true}
	buttons   = map[string]bool{"primary": true, "middle": true, "secondary": true, "touch": true}
	wheelTgts = map[string]bool{"": true, "none": true, "position_z": true, "fov": true}
	eases     = map[string]bool{
		"": true, "linear": true, "quad.inOut": true, "cubic.inOut": true,
		"sine.inOut": true, "power2.out": true,
	}
)

// Validate reports the first inconsistency in v.
func (v Variant) Validate() error {
	if v.AssetPath == "" {
		return fmt.Errorf("%w: asset path is empty", ErrInvalid)
	}
	if v.CameraIndex < 0 {
		return fmt.Errorf("%w: camera_index %d is negative", ErrInvalid, v.CameraIndex)
	}
	for _, c := range v.Clamp {
		if !axes[c.Axis] {
			return fmt.Errorf("%w: clamp axis %q", ErrInvalid, c.Axis)
		}
		if c.Min > c.Max {
			return fmt.Errorf("%w: clamp %s min %v > max %v", ErrInvalid, c.Axis, c.Min, c.Max)
		}
	}
	for b, a := range v.Controls.Buttons {
		if !buttons[b] {
			return fmt.Errorf("%w: unknown button %q", ErrInvalid, b)
		}
		if !actions[a] {
			return fmt.Errorf("%w: unknown action %q for %s", ErrInvalid, a, b)
		}
	}
	if v.Intro.To != nil && v.Intro.Duration <= 0 {
		return fmt.Errorf("%w: intro duration must be positive", ErrInvalid)
	}
	if !eases[v.Intro.Ease] {
		return fmt.Errorf("%w: unknown ease %q", ErrInvalid, v.Intro.Ease)
	}
	if !wheelTgts[v.Wheel.Target] {
		return fmt.Errorf("%w: unknown wheel target %q", ErrInvalid, v.Wheel.Target)
	}
	for i, l := range v.Labels {
		if l.After != nil && (*l.After < 0 || *l.After >= i) {
			return fmt.Errorf("%w: label %d waits on label %d", ErrInvalid, i, *l.After)
		}
	}
	for _, vt := range v.VideoTextures {
		if vt.Node == "" || vt.Source == "" {
			return fmt.Errorf("%w: video texture needs node and source", ErrInvalid)
		}
	}
	return nil
}
