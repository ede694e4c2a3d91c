package camera

import (
	"fmt"

	"github.com/chewxy/math32"

	"portfolio-scene/internal/geom"
	"portfolio-scene/internal/interaction"
)

// Action is what a pointer drag does to the orbit rig.
type Action int

const (
	ActionNone Action = iota
	ActionRotate
	ActionPan
	ActionDolly
)

// ParseAction maps a config string to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "rotate":
		return ActionRotate, nil
	case "pan":
		return ActionPan, nil
	case "dolly":
		return ActionDolly, nil
	case "none", "":
		return ActionNone, nil
	}
	return ActionNone, fmt.Errorf("camera: unknown action %q", s)
}

// Orbit is an orbit/pan/zoom controller around Target. Input is accumulated
// between frames and applied by Update; with damping the applied motion
// decays over several frames instead of stopping immediately.
type Orbit struct {
	Target        geom.Vec3
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	EnableDamping bool
	DampingFactor float32
	EnableRotate  bool
	EnableZoom    bool
	EnablePan     bool
	MinDistance   float32
	MaxDistance   float32
	Buttons       map[interaction.Button]Action

	dTheta, dPhi float32
	scale        float32
	panOffset    geom.Vec3
	pendingPan   [2]float32
}

// NewOrbit returns a controller with the usual button layout: primary
// rotates, middle dollies, secondary pans, one-finger touch rotates.
func NewOrbit(target geom.Vec3) *Orbit {
	return &Orbit{
		Target:        target,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		DampingFactor: 0.05,
		EnableRotate:  true,
		EnableZoom:    true,
		EnablePan:     true,
		MaxDistance:   math32.Inf(1),
		Buttons: map[interaction.Button]Action{
			interaction.ButtonPrimary:   ActionRotate,
			interaction.ButtonMiddle:    ActionDolly,
			interaction.ButtonSecondary: ActionPan,
			interaction.ButtonTouch:     ActionRotate,
		},
		scale: 1,
	}
}

// HandleDrag records a drag in pixels; viewportH converts pixels to angles.
func (o *Orbit) HandleDrag(e interaction.DragEvent, viewportH float32) {
	if viewportH <= 0 {
		return
	}
	switch o.Buttons[e.Button] {
	case ActionRotate:
		if !o.EnableRotate {
			return
		}
		o.dTheta -= 2 * math32.Pi * e.DX / viewportH * o.RotateSpeed
		o.dPhi -= 2 * math32.Pi * e.DY / viewportH * o.RotateSpeed
	case ActionPan:
		if !o.EnablePan {
			return
		}
		o.pendingPan[0] += e.DX * o.PanSpeed
		o.pendingPan[1] += e.DY * o.PanSpeed
	case ActionDolly:
		if !o.EnableZoom {
			return
		}
		switch {
		case e.DY > 0:
			o.scale /= o.zoomScale()
		case e.DY < 0:
			o.scale *= o.zoomScale()
		}
	}
}

// HandleWheel zooms one step per event.
func (o *Orbit) HandleWheel(e interaction.WheelEvent) {
	if !o.EnableZoom {
		return
	}
	switch {
	case e.DY < 0:
		o.scale *= o.zoomScale()
	case e.DY > 0:
		o.scale /= o.zoomScale()
	}
}

func (o *Orbit) zoomScale() float32 {
	return math32.Pow(0.95, o.ZoomSpeed)
}

// Update applies pending input to position and returns the new position and
// the rotation that looks at Target. fovY and viewportH size pan steps so a
// drag moves the scene under the pointer.
func (o *Orbit) Update(position geom.Vec3, fovY, viewportH float32) (geom.Vec3, geom.Euler) {
	offset := position.Sub(o.Target)
	radius := offset.Len()
	theta := math32.Atan2(offset.X, offset.Z)
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(geom.Clamp(offset.Y/radius, -1, 1))
	}

	if o.pendingPan != [2]float32{} && viewportH > 0 {
		rot := geom.LookAt(position, o.Target, geom.V3(0, 1, 0))
		m := rot.Mat3()
		left := geom.V3(m[0][0], m[1][0], m[2][0]).Scale(-1)
		up := geom.V3(m[0][1], m[1][1], m[2][1])
		dist := radius * math32.Tan(fovY/2)
		o.panOffset = o.panOffset.
			Add(left.Scale(2 * o.pendingPan[0] * dist / viewportH)).
			Add(up.Scale(2 * o.pendingPan[1] * dist / viewportH))
		o.pendingPan = [2]float32{}
	}

	factor := float32(1)
	if o.EnableDamping {
		factor = o.DampingFactor
	}
	theta += o.dTheta * factor
	phi += o.dPhi * factor
	const eps = 1e-6
	phi = geom.Clamp(phi, eps, math32.Pi-eps)

	radius = geom.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)
	o.Target = o.Target.Add(o.panOffset.Scale(factor))

	sinPhi := math32.Sin(phi)
	offset = geom.V3(radius*sinPhi*math32.Sin(theta), radius*math32.Cos(phi), radius*sinPhi*math32.Cos(theta))
	position = o.Target.Add(offset)

	if o.EnableDamping {
		o.dTheta *= 1 - o.DampingFactor
		o.dPhi *= 1 - o.DampingFactor
		o.panOffset = o.panOffset.Scale(1 - o.DampingFactor)
	} else {
		o.dTheta, o.dPhi = 0, 0
		o.panOffset = geom.Vec3{}
	}
	o.scale = 1
	return position, geom.LookAt(position, o.Target, geom.V3(0, 1, 0))
}

// Idle reports whether no motion is pending.
func (o *Orbit) Idle() bool {
	const eps = 1e-5
	return math32.Abs(o.dTheta) < eps && math32.Abs(o.dPhi) < eps &&
		o.panOffset.Len() < eps && o.pendingPan == [2]float32{} && o.scale == 1
}
