package camera

import (
	"fmt"

	"portfolio-scene/internal/config"
	"portfolio-scene/internal/geom"
	"portfolio-scene/internal/interaction"
	"portfolio-scene/internal/scenegraph"
)

// Pose is a camera position and rotation.
type Pose struct {
	Position geom.Vec3
	Rotation geom.Euler
}

// AxisClamp bounds one position axis (0=x, 1=y, 2=z).
type AxisClamp struct {
	Axis     int
	Min, Max float32
}

// Parallax multiplies the interaction state into rotation and position offsets.
type Parallax struct {
	RotationFromX, RotationFromY geom.Vec3
	PositionFromX, PositionFromY geom.Vec3
}

func (p Parallax) rotates() bool {
	return p.RotationFromX != (geom.Vec3{}) || p.RotationFromY != (geom.Vec3{})
}

// Rotation returns the rotation offset for s.
func (p Parallax) Rotation(s interaction.State) geom.Euler {
	return geom.EulerFromVec3(p.RotationFromX.Scale(s.X).Add(p.RotationFromY.Scale(s.Y)))
}

// Position returns the position offset for s.
func (p Parallax) Position(s interaction.State) geom.Vec3 {
	return p.PositionFromX.Scale(s.X).Add(p.PositionFromY.Scale(s.Y))
}

const (
	minFov = 0.05
	maxFov = 3.0
)

// Controller owns everything that moves the camera after load: the orbit
// rig, the intro tween, parallax, wheel consumption and clamping.
//
// Baseline is recorded once in NewController and never changes. The rig is
// the pose moved by the orbit controls and the tween; the live camera is the
// rig (or the baseline, for parallax rotation) plus interaction offsets.
type Controller struct {
	cam      *scenegraph.Camera
	orbit    *Orbit
	tween    *Tween
	parallax Parallax
	clamps   []AxisClamp
	wheel    interaction.WheelTarget
	baseFov  float32
	baseline Pose
	rig      Pose
}

// Viewport is the size the camera is configured against.
type Viewport struct {
	Width, Height float32
}

// NewController configures cam for variant v: aspect from the viewport,
// responsive framing, orbit tunables, then the baseline, then the intro.
func NewController(cam *scenegraph.Camera, v config.Variant, vp Viewport) (*Controller, error) {
	if vp.Height > 0 {
		cam.SetAspect(vp.Width / vp.Height)
	}
	if r := v.Responsive; r.MaxWidth > 0 && vp.Width < float32(r.MaxWidth) {
		if r.Position != nil {
			cam.Position = geom.FromArray(*r.Position)
		}
		if r.Rotation != nil {
			cam.Rotation = geom.EulerFromVec3(geom.FromArray(*r.Rotation))
		}
	}

	c := &Controller{
		cam:     cam,
		wheel:   interaction.WheelTarget(v.Wheel.Target),
		baseFov: cam.YFov,
		parallax: Parallax{
			RotationFromX: geom.FromArray(v.Parallax.RotationFromX),
			RotationFromY: geom.FromArray(v.Parallax.RotationFromY),
			PositionFromX: geom.FromArray(v.Parallax.PositionFromX),
			PositionFromY: geom.FromArray(v.Parallax.PositionFromY),
		},
	}
	for _, cl := range v.Clamp {
		axis, err := axisIndex(cl.Axis)
		if err != nil {
			return nil, err
		}
		c.clamps = append(c.clamps, AxisClamp{Axis: axis, Min: cl.Min, Max: cl.Max})
	}

	if ctl := v.Controls; ctl.Enabled {
		o := NewOrbit(geom.FromArray(ctl.Target))
		o.RotateSpeed = ctl.RotateSpeed
		o.ZoomSpeed = ctl.ZoomSpeed
		o.PanSpeed = ctl.PanSpeed
		o.EnableDamping = ctl.Damping
		if ctl.DampingFactor > 0 {
			o.DampingFactor = ctl.DampingFactor
		}
		o.EnableRotate = !ctl.DisableRotate
		o.EnableZoom = !ctl.DisableZoom
		o.EnablePan = !ctl.DisablePan
		for name, act := range ctl.Buttons {
			b, err := buttonFor(name)
			if err != nil {
				return nil, err
			}
			a, err := ParseAction(act)
			if err != nil {
				return nil, err
			}
			o.Buttons[b] = a
		}
		c.orbit = o
	}

	c.baseline = Pose{Position: cam.Position, Rotation: cam.Rotation}
	c.rig = c.baseline

	if in := v.Intro; in.To != nil {
		ease, err := ParseEase(in.Ease)
		if err != nil {
			return nil, err
		}
		c.tween = &Tween{
			From:     c.baseline.Position,
			To:       geom.FromArray(*in.To),
			Duration: in.Duration,
			Ease:     ease,
		}
	}
	return c, nil
}

func axisIndex(s string) (int, error) {
	switch s {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("camera: unknown axis %q", s)
}

func buttonFor(s string) (interaction.Button, error) {
	switch s {
	case "primary":
		return interaction.ButtonPrimary, nil
	case "middle":
		return interaction.ButtonMiddle, nil
	case "secondary":
		return interaction.ButtonSecondary, nil
	case "touch":
		return interaction.ButtonTouch, nil
	}
	return 0, fmt.Errorf("camera: unknown button %q", s)
}

// Baseline returns the pose recorded at configuration time.
func (c *Controller) Baseline() Pose { return c.baseline }

// Rig returns the controls/tween-driven pose before interaction offsets.
func (c *Controller) Rig() Pose { return c.rig }

// Orbit returns the orbit controller, or nil when controls are disabled.
func (c *Controller) Orbit() *Orbit { return c.orbit }

// Tweening reports whether the intro move is still running.
func (c *Controller) Tweening() bool { return c.tween != nil && !c.tween.Done() }

// HandleDrag forwards a drag to the orbit controller.
func (c *Controller) HandleDrag(e interaction.DragEvent, viewportH float32) {
	if c.orbit != nil {
		c.orbit.HandleDrag(e, viewportH)
	}
}

// HandleWheel forwards a wheel step to the orbit controller.
func (c *Controller) HandleWheel(e interaction.WheelEvent) {
	if c.orbit != nil {
		c.orbit.HandleWheel(e)
	}
}

// Frame runs one camera update: orbit controls, intro tween, parallax,
// wheel consumption and finally clamping, which always runs last.
func (c *Controller) Frame(dt float32, s interaction.State, wheelDelta, viewportH float32) {
	if c.orbit != nil && !c.orbit.Idle() {
		c.rig.Position, c.rig.Rotation = c.orbit.Update(c.rig.Position, c.cam.YFov, viewportH)
	}
	if c.tween != nil && !c.tween.Done() {
		c.rig.Position, _ = c.tween.Step(dt)
	}

	pos := c.rig.Position.Add(c.parallax.Position(s))
	switch c.wheel {
	case interaction.WheelPositionZ:
		pos.Z += wheelDelta
	case interaction.WheelFov:
		fov := geom.Clamp(c.baseFov+wheelDelta, minFov, maxFov)
		if fov != c.cam.YFov {
			c.cam.YFov = fov
			c.cam.SetAspect(c.cam.Aspect)
		}
	}
	for _, cl := range c.clamps {
		pos = pos.With(cl.Axis, geom.Clamp(pos.Get(cl.Axis), cl.Min, cl.Max))
		c.rig.Position = c.rig.Position.With(cl.Axis, geom.Clamp(c.rig.Position.Get(cl.Axis), cl.Min, cl.Max))
	}
	c.cam.Position = pos

	if c.parallax.rotates() {
		c.cam.Rotation = c.baseline.Rotation.Add(c.parallax.Rotation(s))
	} else {
		c.cam.Rotation = c.rig.Rotation
	}
}

// Resize updates the aspect ratio in place.
func (c *Controller) Resize(vp Viewport) {
	if vp.Height > 0 {
		c.cam.SetAspect(vp.Width / vp.Height)
	}
}
