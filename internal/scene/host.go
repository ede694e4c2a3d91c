package scene

import (
	"portfolio-scene/internal/animation"
	"portfolio-scene/internal/asset"
	"portfolio-scene/internal/clock"
	"portfolio-scene/internal/interaction"
	"portfolio-scene/internal/labels"
	"portfolio-scene/internal/media"
	"portfolio-scene/internal/scenegraph"
)

// Viewport reports the current drawable size in pixels.
type Viewport interface {
	Size() (width, height int)
}

// Scheduler is the host's main-thread queue. RequestFrame runs fn once at
// the next frame; Post runs fn on the main thread as soon as possible and
// must be safe to call from any goroutine.
type Scheduler interface {
	RequestFrame(fn func())
	Post(fn func())
}

// Surface is a drawable target attached to the window for the life of a
// mount. Render is called at most once per frame.
type Surface interface {
	Render(v *View) error
	Resize(width, height int)
	Detach() error
}

// Surfaces creates the raster and overlay passes.
type Surfaces interface {
	NewRaster(width, height int) (Surface, error)
	NewOverlay(width, height int) (Surface, error)
}

// MediaOpener opens a dynamic texture source scaled to width x height.
type MediaOpener func(path string, width, height int) (*media.Sequence, error)

// Host bundles the collaborators a Manager drives. Clock, Hub and OpenMedia
// are optional.
type Host struct {
	Viewport  Viewport
	Hub       *interaction.Hub
	Scheduler Scheduler
	Surfaces  Surfaces
	Clock     clock.Clock
	Loader    asset.Loader
	OpenMedia MediaOpener
}

// VideoTexture is a dynamic texture bound to the meshes of one named node.
type VideoTexture struct {
	Node   string
	Meshes []int
	Source *media.Sequence
}

// View is what surfaces draw for one frame. It is rebuilt every frame and
// must not be retained.
type View struct {
	Asset     *scenegraph.Asset
	Selection scenegraph.Selection
	Meshes    []int
	Camera    *scenegraph.Camera
	Mixer     *animation.Mixer
	Labels    *labels.Set
	Videos    []VideoTexture
	Width     int
	Height    int
}
