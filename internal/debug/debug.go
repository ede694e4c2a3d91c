package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"portfolio-scene/internal/scenegraph"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds runtime debugging features (FPS, memory and camera readouts). All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowCamera   bool
	camera       func() *scenegraph.Camera
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastCamText  string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetCamera sets the accessor the camera readout polls; it may return nil while the scene loads.
func (d *Debug) SetCamera(fn func() *scenegraph.Camera) {
	d.camera = fn
	d.ShowCamera = fn != nil
}

// Draw renders any enabled debug overlays. Call after the scene surfaces in the draw loop.
// FPS is drawn at the top-right in green when ShowFPS is true.
// Memory (heap alloc) is drawn under FPS when ShowMemAlloc is true, then the camera pose.
// Text is only recomputed every updateInterval frames to limit allocations.
func (d *Debug) Draw() {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	y := int32(fpsPadding)

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawLine(d.lastFpsText, y)
		y += fpsLineHeight
	}

	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		d.drawLine(d.lastMemText, y)
		y += fpsLineHeight
	}

	if d.ShowCamera && d.camera != nil {
		if update || d.lastCamText == "" {
			d.lastCamText = cameraText(d.camera())
		}
		d.drawLine(d.lastCamText, y)
	}
}

func cameraText(c *scenegraph.Camera) string {
	if c == nil {
		return "Cam: loading"
	}
	return fmt.Sprintf("Cam: %.2f %.2f %.2f  rot %.3f %.3f %.3f  fov %.1f",
		c.Position.X, c.Position.Y, c.Position.Z,
		c.Rotation.X, c.Rotation.Y, c.Rotation.Z, c.YFov*rl.Rad2deg)
}

// drawLine draws text right-aligned at height y in green.
func (d *Debug) drawLine(text string, y int32) {
	if text == "" {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	w := rl.MeasureText(text, fpsFontSize)
	rl.DrawText(text, screenW-w-fpsPadding, y, fpsFontSize, rl.Green)
}
