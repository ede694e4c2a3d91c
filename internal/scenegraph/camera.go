package scenegraph

import (
	"portfolio-scene/internal/geom"
)

// CameraNode is a camera definition embedded in an asset.
type CameraNode struct {
	Name  string
	Node  int
	YFov  float32 // radians
	Near  float32
	Far   float32
	World geom.Transform
}

// Camera is the live camera a scene renders through. It is created from a
// CameraNode at load completion and mutated every frame by the render loop.
type Camera struct {
	Name     string
	Position geom.Vec3
	Rotation geom.Euler
	YFov     float32
	Near     float32
	Far      float32
	Aspect   float32

	projectionDirty bool
}

// NewCamera instantiates a live camera from the embedded definition.
func NewCamera(def CameraNode) *Camera {
	return &Camera{
		Name:     def.Name,
		Position: def.World.Translation,
		Rotation: geom.EulerFromQuat(def.World.Rotation),
		YFov:     def.YFov,
		Near:     def.Near,
		Far:      def.Far,
		Aspect:   1,
	}
}

// SetAspect changes the aspect ratio and marks the projection stale.
func (c *Camera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.Aspect = aspect
	c.projectionDirty = true
}

// ProjectionDirty reports whether UpdateProjection has to run before drawing.
func (c *Camera) ProjectionDirty() bool { return c.projectionDirty }

// UpdateProjection marks the projection as recomputed.
func (c *Camera) UpdateProjection() { c.projectionDirty = false }

// Target returns a point one unit in front of the camera.
func (c *Camera) Target() geom.Vec3 {
	fwd, _ := c.Rotation.Basis()
	return c.Position.Add(fwd)
}

// InView reports whether p lies between the near and far planes along the
// view direction. Points behind the camera would project mirrored.
func (c *Camera) InView(p geom.Vec3) bool {
	fwd, _ := c.Rotation.Basis()
	depth := p.Sub(c.Position).Dot(fwd)
	return depth >= c.Near && depth <= c.Far
}

// Up returns the camera's up direction.
func (c *Camera) Up() geom.Vec3 {
	_, up := c.Rotation.Basis()
	return up
}
