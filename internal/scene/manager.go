package scene

import (
	"context"
	"errors"
	"fmt"

	"portfolio-scene/internal/animation"
	"portfolio-scene/internal/asset"
	"portfolio-scene/internal/camera"
	"portfolio-scene/internal/clock"
	"portfolio-scene/internal/config"
	"portfolio-scene/internal/interaction"
	"portfolio-scene/internal/labels"
	"portfolio-scene/internal/logger"
	"portfolio-scene/internal/resources"
	"portfolio-scene/internal/scenegraph"
)

// State is the lifecycle phase of a Manager.
type State int

const (
	StateUnmounted State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrAlreadyMounted = errors.New("scene: already mounted")
	ErrNoCamera       = errors.New("scene: no camera")
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for lifecycle messages.
func WithLogger(l *logger.Logger) Option { return func(m *Manager) { m.log = l } }

// WithOnLoaded sets the callback fired once after the first successful render of a mount.
func WithOnLoaded(fn func()) Option { return func(m *Manager) { m.onLoaded = fn } }

// WithOnError sets the callback fired once when a mount's load fails.
func WithOnError(fn func(error)) Option { return func(m *Manager) { m.onError = fn } }

// WithOverlay forces the overlay surface even when the variant has no labels.
func WithOverlay(on bool) Option { return func(m *Manager) { m.forceOverlay = on } }

// mount is everything owned by one Mount..Unmount span. Load completions
// carry the mount they were started for and are dropped when it is no
// longer current.
type mount struct {
	cancel   context.CancelFunc
	raster   Surface
	overlay  Surface
	removers []func()
	arena    resources.Arena
	alive    bool
	looping  bool
	notified bool
}

// Manager runs one scene variant: surfaces, async load, interaction,
// camera control, the render loop and teardown. All methods must be called
// from the host's main thread.
type Manager struct {
	variant      config.Variant
	host         Host
	log          *logger.Logger
	onLoaded     func()
	onError      func(error)
	forceOverlay bool

	cur   *mount
	state State
	err   error

	cell   interaction.Cell
	wheel  interaction.WheelAccumulator
	asset  *scenegraph.Asset
	sel    scenegraph.Selection
	meshes []int
	cam    *scenegraph.Camera
	ctrl   *camera.Controller
	mixer  *animation.Mixer
	labels *labels.Set
	videos []VideoTexture
	frames int
}

// New validates the variant and returns an unmounted Manager.
func New(v config.Variant, host Host, opts ...Option) (*Manager, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	switch {
	case host.Viewport == nil:
		return nil, errors.New("scene: host has no viewport")
	case host.Scheduler == nil:
		return nil, errors.New("scene: host has no scheduler")
	case host.Surfaces == nil:
		return nil, errors.New("scene: host has no surfaces")
	case host.Loader == nil:
		return nil, errors.New("scene: host has no loader")
	}
	if host.Hub == nil {
		host.Hub = interaction.NewHub()
	}
	if host.Clock == nil {
		host.Clock = clock.NewReal()
	}
	m := &Manager{variant: v, host: host}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Mount creates the surfaces, binds listeners and starts loading the asset.
// The load is cancelled by Unmount or by ctx.
func (m *Manager) Mount(ctx context.Context) error {
	if m.cur != nil {
		return ErrAlreadyMounted
	}
	w, h := m.host.Viewport.Size()
	mt := &mount{alive: true}

	raster, err := m.host.Surfaces.NewRaster(w, h)
	if err != nil {
		return fmt.Errorf("scene: raster surface: %w", err)
	}
	mt.raster = raster
	_ = mt.arena.Track("raster", resources.ReleaseFunc(raster.Detach))
	if m.forceOverlay || len(m.variant.Labels) > 0 {
		overlay, err := m.host.Surfaces.NewOverlay(w, h)
		if err != nil {
			_ = mt.arena.ReleaseAll()
			return fmt.Errorf("scene: overlay surface: %w", err)
		}
		mt.overlay = overlay
		_ = mt.arena.Track("overlay", resources.ReleaseFunc(overlay.Detach))
	}

	m.reset()
	m.wheel = interaction.WheelAccumulator{Step: m.variant.Wheel.Step}
	hub := m.host.Hub
	mt.removers = append(mt.removers,
		hub.OnPointerMove(func(e interaction.PointerEvent) {
			m.cell.Set(interaction.Normalize(e.X, e.Y, e.Width, e.Height))
		}),
		hub.OnWheel(m.handleWheel),
		hub.OnDrag(m.handleDrag),
	)

	lctx, cancel := context.WithCancel(ctx)
	mt.cancel = cancel
	m.cur = mt
	m.setState(StateLoading)

	path := m.variant.AssetPath
	done := asset.LoadAsync(lctx, m.host.Loader, path)
	go func() {
		res := <-done
		m.host.Scheduler.Post(func() { m.complete(mt, res) })
	}()
	return nil
}

func (m *Manager) handleWheel(e interaction.WheelEvent) {
	if m.variant.Wheel.Enabled {
		m.wheel.Add(e.DY)
	}
	if m.ctrl != nil {
		m.ctrl.HandleWheel(e)
	}
}

func (m *Manager) handleDrag(e interaction.DragEvent) {
	if m.ctrl == nil {
		return
	}
	_, h := m.host.Viewport.Size()
	m.ctrl.HandleDrag(e, float32(h))
}

// complete runs on the main thread once the load for mt resolves.
func (m *Manager) complete(mt *mount, res asset.Result) {
	if m.cur != mt || !mt.alive {
		m.log.Infof("scene %s: load finished after unmount, discarded", m.variant.Name)
		return
	}
	if res.Err != nil {
		m.fail(mt, res.Err)
		return
	}
	if err := m.configure(mt, res.Asset); err != nil {
		m.fail(mt, &asset.LoadError{Path: m.variant.AssetPath, Err: err})
		return
	}
	m.setState(StateReady)
	if !mt.looping {
		mt.looping = true
		m.host.Clock.Delta()
		m.host.Scheduler.RequestFrame(func() { m.loop(mt) })
	}
}

// configure wires a freshly loaded asset: sub-graph, camera, controls,
// mixer, video textures and labels.
func (m *Manager) configure(mt *mount, a *scenegraph.Asset) error {
	v := m.variant
	sel := a.Select(v.TargetNode)
	if sel.Fallback {
		m.log.Warnf("scene %s: node %q not found, rendering whole graph", v.Name, v.TargetNode)
	}
	if v.CameraIndex < 0 || v.CameraIndex >= len(a.Cameras) {
		return fmt.Errorf("%w: index %d, asset has %d", ErrNoCamera, v.CameraIndex, len(a.Cameras))
	}
	cam := scenegraph.NewCamera(a.Cameras[v.CameraIndex])
	w, h := m.host.Viewport.Size()
	ctrl, err := camera.NewController(cam, v, camera.Viewport{Width: float32(w), Height: float32(h)})
	if err != nil {
		return err
	}

	m.asset = a
	m.sel = sel
	m.meshes = a.SelectedMeshes(sel)
	m.cam = cam
	m.ctrl = ctrl
	m.mixer = animation.ForAsset(a, sel, v.OnceClips)
	m.labels = labels.NewSet(v.Labels)
	m.videos = m.openVideos(mt, a)
	return nil
}

func (m *Manager) openVideos(mt *mount, a *scenegraph.Asset) []VideoTexture {
	var out []VideoTexture
	for _, vt := range m.variant.VideoTextures {
		node, ok := a.FindByName(vt.Node)
		if !ok {
			m.log.Warnf("scene %s: video target %q not found, skipped", m.variant.Name, vt.Node)
			continue
		}
		if m.host.OpenMedia == nil {
			continue
		}
		seq, err := m.host.OpenMedia(vt.Source, vt.Width, vt.Height)
		if err != nil {
			m.log.Warnf("scene %s: video %s: %v", m.variant.Name, vt.Source, err)
			continue
		}
		_ = mt.arena.Track("video:"+vt.Node, seq)
		out = append(out, VideoTexture{
			Node:   vt.Node,
			Meshes: a.SelectedMeshes(scenegraph.Selection{Roots: []*scenegraph.Node{node}}),
			Source: seq,
		})
	}
	return out
}

func (m *Manager) fail(mt *mount, err error) {
	m.err = err
	m.setState(StateFailed)
	m.log.Errorf("scene %s: %v", m.variant.Name, err)
	if m.onError != nil && !mt.notified {
		mt.notified = true
		m.onError(err)
	}
}

// loop is the self-rescheduling frame callback. It lapses once mt is
// unmounted or has failed.
func (m *Manager) loop(mt *mount) {
	if !mt.alive || m.cur != mt {
		return
	}
	m.Frame()
	if mt.alive && m.cur == mt && m.state == StateReady {
		m.host.Scheduler.RequestFrame(func() { m.loop(mt) })
	}
}

// Frame runs one render-loop iteration: camera update, animation, labels,
// video textures, then one render per surface. It does nothing unless the
// scene is Ready.
func (m *Manager) Frame() {
	if m.state != StateReady || m.cur == nil {
		return
	}
	mt := m.cur
	dt := m.host.Clock.Delta()
	w, h := m.host.Viewport.Size()

	m.ctrl.Frame(dt, m.cell.Get(), m.WheelDelta(), float32(h))
	if m.mixer != nil {
		m.mixer.Update(dt)
	}
	m.labels.Advance(dt)
	for _, vt := range m.videos {
		vt.Source.Advance(dt)
	}

	view := &View{
		Asset:     m.asset,
		Selection: m.sel,
		Meshes:    m.meshes,
		Camera:    m.cam,
		Mixer:     m.mixer,
		Labels:    m.labels,
		Videos:    m.videos,
		Width:     w,
		Height:    h,
	}
	if m.cam.ProjectionDirty() {
		m.cam.UpdateProjection()
	}
	err := mt.raster.Render(view)
	if err != nil {
		if !mt.notified {
			// the renderer could not upload an asset the loader accepted
			m.fail(mt, &asset.LoadError{Path: m.variant.AssetPath, Err: err})
			return
		}
		m.log.Errorf("scene %s: render: %v", m.variant.Name, err)
	}
	if mt.overlay != nil {
		if oerr := mt.overlay.Render(view); oerr != nil {
			m.log.Errorf("scene %s: overlay: %v", m.variant.Name, oerr)
		}
	}
	m.frames++

	if err == nil && !mt.notified {
		mt.notified = true
		if m.onLoaded != nil {
			m.onLoaded()
		}
	}
}

// Resize adjusts aspect and surface sizes in place; the state is unchanged.
func (m *Manager) Resize(width, height int) {
	mt := m.cur
	if mt == nil {
		return
	}
	mt.raster.Resize(width, height)
	if mt.overlay != nil {
		mt.overlay.Resize(width, height)
	}
	if m.ctrl != nil {
		m.ctrl.Resize(camera.Viewport{Width: float32(width), Height: float32(height)})
	}
}

// Unmount removes listeners, stops the loop, cancels a pending load and
// releases every surface and side resource. Calling it again is a no-op.
func (m *Manager) Unmount() error {
	mt := m.cur
	if mt == nil {
		return nil
	}
	mt.alive = false
	mt.cancel()
	for _, remove := range mt.removers {
		remove()
	}
	err := mt.arena.ReleaseAll()
	m.cur = nil
	m.reset()
	m.setState(StateUnmounted)
	if err != nil {
		m.log.Errorf("scene %s: teardown: %v", m.variant.Name, err)
	}
	return err
}

func (m *Manager) reset() {
	m.err = nil
	m.cell = interaction.Cell{}
	m.wheel = interaction.WheelAccumulator{}
	m.asset = nil
	m.sel = scenegraph.Selection{}
	m.meshes = nil
	m.cam = nil
	m.ctrl = nil
	m.mixer = nil
	m.labels = nil
	m.videos = nil
	m.frames = 0
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.log.Infof("scene %s: %s -> %s", m.variant.Name, m.state, s)
	m.state = s
}

// State returns the lifecycle phase.
func (m *Manager) State() State { return m.state }

// Err returns the load error of a Failed scene.
func (m *Manager) Err() error { return m.err }

// Camera returns the live camera, or nil until the scene is Ready.
func (m *Manager) Camera() *scenegraph.Camera {
	if m.state != StateReady {
		return nil
	}
	return m.cam
}

// Controller returns the camera controller, or nil until the scene is Ready.
func (m *Manager) Controller() *camera.Controller {
	if m.state != StateReady {
		return nil
	}
	return m.ctrl
}

// Interaction returns the current normalized pointer state.
func (m *Manager) Interaction() interaction.State { return m.cell.Get() }

// Mixer returns the animation mixer, nil when the asset has no clips.
func (m *Manager) Mixer() *animation.Mixer { return m.mixer }

// WheelDelta returns the accumulated wheel value, 0 when the wheel is disabled.
func (m *Manager) WheelDelta() float32 {
	if !m.variant.Wheel.Enabled {
		return 0
	}
	return m.wheel.Delta()
}

// Frames returns how many frames have been rendered since the last Mount.
func (m *Manager) Frames() int { return m.frames }

// Variant returns the configuration the manager runs.
func (m *Manager) Variant() config.Variant { return m.variant }
