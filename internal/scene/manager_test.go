package scene

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-scene/internal/asset"
	"portfolio-scene/internal/clock"
	"portfolio-scene/internal/config"
	"portfolio-scene/internal/geom"
	"portfolio-scene/internal/interaction"
	"portfolio-scene/internal/logger"
	"portfolio-scene/internal/media"
	"portfolio-scene/internal/scenegraph"
)

type fixedViewport struct{ w, h int }

func (v *fixedViewport) Size() (int, int) { return v.w, v.h }

type fakeScheduler struct {
	mu     sync.Mutex
	frames []func()
	posted []func()
}

func (s *fakeScheduler) RequestFrame(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, fn)
}

func (s *fakeScheduler) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, fn)
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *fakeScheduler) postedLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posted)
}

// drain waits for the async load to post its completion and runs it.
func (s *fakeScheduler) drain(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return s.postedLen() > 0 }, time.Second, time.Millisecond)
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

// tick runs the frame callbacks that are currently scheduled.
func (s *fakeScheduler) tick() {
	s.mu.Lock()
	frames := s.frames
	s.frames = nil
	s.mu.Unlock()
	for _, fn := range frames {
		fn()
	}
}

type fakeSurface struct {
	renders  int
	detached int
	w, h     int
	last     *View
	err      error
	// stale is set when a render sees a projection not yet recomputed
	stale bool
}

func (s *fakeSurface) Render(v *View) error {
	s.renders++
	s.last = v
	if v.Camera != nil && v.Camera.ProjectionDirty() {
		s.stale = true
	}
	return s.err
}

func (s *fakeSurface) Resize(w, h int) { s.w, s.h = w, h }

func (s *fakeSurface) Detach() error {
	s.detached++
	return nil
}

type fakeSurfaces struct {
	raster  *fakeSurface
	overlay *fakeSurface
}

func (f *fakeSurfaces) NewRaster(w, h int) (Surface, error) {
	f.raster = &fakeSurface{w: w, h: h}
	return f.raster, nil
}

func (f *fakeSurfaces) NewOverlay(w, h int) (Surface, error) {
	f.overlay = &fakeSurface{w: w, h: h}
	return f.overlay, nil
}

type fakeLoader struct {
	asset   *scenegraph.Asset
	err     error
	release chan struct{}
	ctxErr  chan error
}

func (l *fakeLoader) Load(ctx context.Context, path string) (*scenegraph.Asset, error) {
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
			l.ctxErr <- ctx.Err()
			return nil, ctx.Err()
		}
	}
	return l.asset, l.err
}

type fixture struct {
	sched    *fakeScheduler
	surfaces *fakeSurfaces
	hub      *interaction.Hub
	clk      *clock.Manual
	view     *fixedViewport
	loader   *fakeLoader
}

func newFixture(a *scenegraph.Asset) *fixture {
	return &fixture{
		sched:    &fakeScheduler{},
		surfaces: &fakeSurfaces{},
		hub:      interaction.NewHub(),
		clk:      &clock.Manual{},
		view:     &fixedViewport{w: 1280, h: 640},
		loader:   &fakeLoader{asset: a},
	}
}

func (f *fixture) host() Host {
	return Host{
		Viewport:  f.view,
		Hub:       f.hub,
		Scheduler: f.sched,
		Surfaces:  f.surfaces,
		Clock:     f.clk,
		Loader:    f.loader,
		OpenMedia: func(path string, w, h int) (*media.Sequence, error) {
			img := image.NewRGBA(image.Rect(0, 0, 2, 2))
			img.Set(0, 0, color.White)
			return media.NewSequence(path, []image.Image{img}, nil, w, h)
		},
	}
}

// editorAsset is a root with a pencil sub-graph, a monitor, one camera at
// z=5 and one two-second clip.
func editorAsset() *scenegraph.Asset {
	a := scenegraph.NewAsset("scene_editor.glb")
	root := a.AddNode("Root", nil)
	pencil := a.AddNode("Gpencil", root)
	pencil.Mesh, pencil.Primitives = 0, 2
	monitor := a.AddNode("Monitor", root)
	monitor.Mesh, monitor.Primitives = 1, 1
	world := geom.Identity()
	world.Translation = geom.V3(0, 0, 5)
	a.Cameras = []scenegraph.CameraNode{{Name: "Camera", YFov: 0.8, Near: 0.1, Far: 100, World: world}}
	a.Clips = []scenegraph.Clip{{Name: "Spin", Duration: 2}}
	a.ComputeWorld()
	return a
}

func variant(t *testing.T, name string) config.Variant {
	t.Helper()
	v, err := config.Builtin(name)
	require.NoError(t, err)
	return v
}

func mountReady(t *testing.T, f *fixture, v config.Variant, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(logger.New("-"))}, opts...)
	m, err := New(v, f.host(), opts...)
	require.NoError(t, err)
	require.NoError(t, m.Mount(context.Background()))
	assert.Equal(t, StateLoading, m.State())
	assert.Nil(t, m.Camera(), "no camera before load completes")
	f.sched.drain(t)
	require.Equal(t, StateReady, m.State(), "err: %v", m.Err())
	return m
}

func TestEndToEndFrameAndUnmount(t *testing.T) {
	f := newFixture(editorAsset())
	loaded := 0
	m := mountReady(t, f, variant(t, "editor"), WithOnLoaded(func() { loaded++ }))

	require.NotNil(t, m.Camera())
	require.NotNil(t, m.Mixer())
	assert.Equal(t, 1, f.sched.pending(), "loop starts exactly once")

	f.clk.Advance(0.25)
	f.sched.tick()
	assert.InDelta(t, 0.25, m.Mixer().Time(), 1e-6)
	assert.Equal(t, 1, f.surfaces.raster.renders)
	require.NotNil(t, f.surfaces.overlay)
	assert.Equal(t, 1, f.surfaces.overlay.renders)
	assert.Equal(t, 1, loaded)

	f.clk.Advance(0.1)
	f.sched.tick()
	assert.Equal(t, 2, f.surfaces.raster.renders)
	assert.Equal(t, 1, loaded, "OnLoaded fires once")

	require.NoError(t, m.Unmount())
	assert.Equal(t, StateUnmounted, m.State())
	assert.Equal(t, 1, f.surfaces.raster.detached)
	assert.Equal(t, 1, f.surfaces.overlay.detached)

	f.sched.tick()
	assert.Zero(t, f.sched.pending(), "no frames scheduled after unmount")
	assert.Equal(t, 2, f.surfaces.raster.renders)
}

func TestTeardownRemovesListeners(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "editor"))
	assert.Equal(t, 3, f.hub.Len())

	f.hub.EmitPointerMove(interaction.PointerEvent{X: 1280, Y: 0, Width: 1280, Height: 640})
	assert.Equal(t, interaction.State{X: 1, Y: 1}, m.Interaction())

	require.NoError(t, m.Unmount())
	assert.Zero(t, f.hub.Len())
	before := m.Interaction()
	for i := 0; i < 10; i++ {
		f.hub.EmitPointerMove(interaction.PointerEvent{X: float32(i * 50), Y: 300, Width: 1280, Height: 640})
	}
	assert.Equal(t, before, m.Interaction())
	require.NoError(t, m.Unmount(), "second unmount is a no-op")
}

func TestParallaxRotationFollowsPointer(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "editor"))
	base := m.Controller().Baseline().Rotation

	tests := []struct {
		name   string
		x, y   float32
		expect geom.Euler
	}{
		{name: "origin", x: 640, y: 320, expect: base},
		{name: "right top", x: 1280, y: 0, expect: base.Add(geom.Euler{X: 0.05, Y: -0.05})},
		{name: "left quarter", x: 320, y: 320, expect: base.Add(geom.Euler{Y: 0.025})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.hub.EmitPointerMove(interaction.PointerEvent{X: tt.x, Y: tt.y, Width: 1280, Height: 640})
			f.clk.Advance(1.0 / 60)
			f.sched.tick()
			rot := m.Camera().Rotation
			assert.InDelta(t, tt.expect.X, rot.X, 1e-6)
			assert.InDelta(t, tt.expect.Y, rot.Y, 1e-6)
			assert.InDelta(t, tt.expect.Z, rot.Z, 1e-6)
		})
	}
	f.hub.EmitPointerMove(interaction.PointerEvent{X: 640, Y: 320, Width: 1280, Height: 640})
	f.sched.tick()
	assert.Equal(t, base, m.Camera().Rotation, "origin reproduces the baseline exactly")
}

func TestMissingTargetNodeFallsBack(t *testing.T) {
	f := newFixture(editorAsset())
	v := variant(t, "editor")
	v.TargetNode = "Nope"
	m := mountReady(t, f, v)
	assert.NoError(t, m.Err())

	f.sched.tick()
	view := f.surfaces.raster.last
	require.NotNil(t, view)
	assert.True(t, view.Selection.Fallback)
	assert.Equal(t, []int{0, 1, 2}, view.Meshes)
}

func TestTargetNodeSelectsSubGraph(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "editor"))
	f.sched.tick()
	assert.Equal(t, []int{0, 1}, f.surfaces.raster.last.Meshes)
	assert.Equal(t, "Gpencil", m.Mixer().Root)
}

func TestLoadErrorFails(t *testing.T) {
	f := newFixture(nil)
	f.loader.err = errors.New("404")
	var got []error
	m, err := New(variant(t, "two"), f.host(), WithOnError(func(err error) { got = append(got, err) }))
	require.NoError(t, err)
	require.NoError(t, m.Mount(context.Background()))
	f.sched.drain(t)

	assert.Equal(t, StateFailed, m.State())
	require.Len(t, got, 1)
	var le *asset.LoadError
	assert.ErrorAs(t, got[0], &le)
	assert.Nil(t, m.Camera())
	assert.Zero(t, f.sched.pending())
	assert.Nil(t, f.surfaces.overlay, "no labels, no overlay")

	require.NoError(t, m.Unmount())
	assert.Equal(t, 1, f.surfaces.raster.detached)
}

func TestRenderErrorBeforeFirstFrameFails(t *testing.T) {
	f := newFixture(editorAsset())
	loaded := 0
	var got []error
	m := mountReady(t, f, variant(t, "two"),
		WithOnLoaded(func() { loaded++ }),
		WithOnError(func(err error) { got = append(got, err) }),
	)
	f.surfaces.raster.err = errors.New("unsupported primitive")

	for i := 0; i < 50; i++ {
		f.clk.Advance(0.016)
		f.sched.tick()
	}

	assert.Equal(t, StateFailed, m.State())
	assert.Zero(t, loaded)
	require.Len(t, got, 1, "OnError fires once")
	var le *asset.LoadError
	require.ErrorAs(t, m.Err(), &le)
	assert.Equal(t, "assets/models/scenetwo.glb", le.Path)
	assert.Equal(t, 1, f.surfaces.raster.renders, "loop stops after the failure")
	assert.Zero(t, f.sched.pending())

	require.NoError(t, m.Unmount())
	assert.Equal(t, 1, f.surfaces.raster.detached)
}

func TestRenderErrorAfterFirstFrameIsLogged(t *testing.T) {
	f := newFixture(editorAsset())
	var got []error
	m := mountReady(t, f, variant(t, "two"), WithOnError(func(err error) { got = append(got, err) }))
	f.sched.tick()
	f.surfaces.raster.err = errors.New("texture upload")
	f.sched.tick()
	f.sched.tick()

	assert.Equal(t, StateReady, m.State())
	assert.Empty(t, got)
	assert.Equal(t, 3, f.surfaces.raster.renders)
}

func TestProjectionUpdatedBeforeRender(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "editor"))
	f.sched.tick()
	m.Resize(800, 600)
	f.sched.tick()

	assert.False(t, f.surfaces.raster.stale)
	assert.False(t, f.surfaces.overlay.stale)
	assert.False(t, m.Camera().ProjectionDirty())
}

func TestMissingCameraFails(t *testing.T) {
	a := editorAsset()
	a.Cameras = nil
	f := newFixture(a)
	m, err := New(variant(t, "two"), f.host())
	require.NoError(t, err)
	require.NoError(t, m.Mount(context.Background()))
	f.sched.drain(t)
	assert.Equal(t, StateFailed, m.State())
	assert.ErrorIs(t, m.Err(), ErrNoCamera)
}

func TestUnmountBeforeLoadResolves(t *testing.T) {
	f := newFixture(editorAsset())
	f.loader.release = make(chan struct{})
	f.loader.ctxErr = make(chan error, 1)
	m, err := New(variant(t, "editor"), f.host())
	require.NoError(t, err)
	require.NoError(t, m.Mount(context.Background()))
	require.NoError(t, m.Unmount())

	select {
	case err := <-f.loader.ctxErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("load context was not cancelled")
	}
	f.sched.drain(t)
	assert.Equal(t, StateUnmounted, m.State())
	assert.Nil(t, m.Camera())
	assert.Zero(t, f.sched.pending())
	assert.Zero(t, f.surfaces.raster.renders)
	assert.Equal(t, 1, f.surfaces.raster.detached)
}

func TestMountTwice(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "two"))
	assert.ErrorIs(t, m.Mount(context.Background()), ErrAlreadyMounted)
	assert.Equal(t, 1, f.sched.pending())
}

func TestRemountAfterUnmount(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "two"))
	f.sched.tick()
	require.NoError(t, m.Unmount())
	f.sched.tick()

	require.NoError(t, m.Mount(context.Background()))
	f.sched.drain(t)
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, 1, f.sched.pending())
	assert.Zero(t, m.Frames())
}

func TestResizeKeepsReady(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "editor"))
	m.Resize(800, 400)
	assert.Equal(t, StateReady, m.State())
	assert.InDelta(t, 2, m.Camera().Aspect, 1e-6)
	assert.True(t, m.Camera().ProjectionDirty())
	assert.Equal(t, 800, f.surfaces.raster.w)
	assert.Equal(t, 400, f.surfaces.overlay.h)

	f.sched.tick()
	assert.False(t, m.Camera().ProjectionDirty())
}

func TestVideoTexturesReleasedOnUnmount(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "studio"))
	f.sched.tick()
	videos := f.surfaces.raster.last.Videos
	require.Len(t, videos, 1)
	assert.Equal(t, []int{2}, videos[0].Meshes)
	seq := videos[0].Source
	assert.Equal(t, 512, seq.Width)

	require.NoError(t, m.Unmount())
	assert.Nil(t, seq.Current(), "sequence frames released")
}

func TestVideoTargetMissingIsSkipped(t *testing.T) {
	a := scenegraph.NewAsset("studio.glb")
	a.AddNode("Desk", nil)
	a.Cameras = []scenegraph.CameraNode{{YFov: 0.8, Near: 0.1, Far: 100, World: geom.Identity()}}
	a.ComputeWorld()
	f := newFixture(a)
	m := mountReady(t, f, variant(t, "studio"))
	f.sched.tick()
	assert.Empty(t, f.surfaces.raster.last.Videos)
	assert.Nil(t, m.Mixer(), "no clips, no mixer")
}

func TestWheelAccumulates(t *testing.T) {
	f := newFixture(editorAsset())
	m := mountReady(t, f, variant(t, "studio"))
	f.hub.EmitWheel(interaction.WheelEvent{DY: 3})
	f.hub.EmitWheel(interaction.WheelEvent{DY: 1})
	f.hub.EmitWheel(interaction.WheelEvent{DY: -2})
	assert.InDelta(t, 0.1, m.WheelDelta(), 1e-6)

	editor := mountReady(t, newFixture(editorAsset()), variant(t, "editor"))
	assert.Zero(t, editor.WheelDelta(), "wheel disabled")
}

func TestNewRejectsIncompleteHost(t *testing.T) {
	f := newFixture(nil)
	h := f.host()
	h.Loader = nil
	_, err := New(variant(t, "two"), h)
	assert.Error(t, err)

	v := variant(t, "two")
	v.AssetPath = ""
	_, err = New(v, f.host())
	assert.ErrorIs(t, err, config.ErrInvalid)
}
