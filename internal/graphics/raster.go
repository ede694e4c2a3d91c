package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"portfolio-scene/internal/geom"
	"portfolio-scene/internal/logger"
	"portfolio-scene/internal/scene"
	"portfolio-scene/internal/scenegraph"
)

// animFrameTime is the sampling step raylib's glTF loader bakes animations at.
const animFrameTime = 0.017

var errDetached = errors.New("graphics: surface detached")

// Surfaces creates raylib draw passes; it implements scene.Surfaces.
type Surfaces struct {
	Log *logger.Logger
}

func (s Surfaces) NewRaster(width, height int) (scene.Surface, error) {
	return &RasterSurface{width: width, height: height, log: s.Log, videos: make(map[string]*videoTexture)}, nil
}

func (s Surfaces) NewOverlay(width, height int) (scene.Surface, error) {
	return &OverlaySurface{width: width, height: height, log: s.Log}, nil
}

// videoTexture is a GPU texture fed from a media.Sequence.
type videoTexture struct {
	tex     rl.Texture2D
	mtl     rl.Material
	version int
	pixels  []color.RGBA
}

// RasterSurface draws the selected sub-graph of the scene. GPU resources are
// created lazily inside Render, after the GL context exists, and freed by
// Detach.
type RasterSurface struct {
	width, height int
	log           *logger.Logger

	path     string
	model    rl.Model
	loaded   bool
	anims    []rl.ModelAnimation
	sky      skybox
	videos   map[string]*videoTexture
	detached bool
}

// Render draws one frame of v.
func (r *RasterSurface) Render(v *scene.View) error {
	if r.detached {
		return errDetached
	}
	if v.Asset == nil || v.Camera == nil {
		return nil
	}
	if err := r.ensureModel(v.Asset); err != nil {
		return err
	}
	r.animate(v)
	r.updateVideos(v.Videos)

	cam := camera3D(v.Camera)
	rl.BeginMode3D(cam)
	r.sky.draw(cam.Position)
	meshes := r.model.GetMeshes()
	mtls := r.model.GetMaterials()
	meshMtl := unsafe.Slice(r.model.MeshMaterial, r.model.MeshCount)
	override := r.overrides(v.Videos)
	for _, i := range v.Meshes {
		if i < 0 || i >= len(meshes) {
			continue
		}
		mtl := mtls[meshMtl[i]]
		if o, ok := override[i]; ok {
			mtl = o
		}
		rl.DrawMesh(meshes[i], mtl, r.model.Transform)
	}
	rl.EndMode3D()
	return nil
}

func (r *RasterSurface) ensureModel(a *scenegraph.Asset) error {
	if r.loaded && r.path == a.Path {
		return nil
	}
	r.unloadModel()
	model := rl.LoadModel(a.Path)
	if !rl.IsModelValid(model) {
		return fmt.Errorf("graphics: load model %s", a.Path)
	}
	r.model = model
	r.path = a.Path
	r.loaded = true
	r.anims = rl.LoadModelAnimations(a.Path)
	want := 0
	for _, rg := range a.MeshRanges() {
		want += rg.End - rg.Start
	}
	if int(model.MeshCount) != want {
		r.log.Warnf("graphics: %s has %d renderer meshes, scene graph expects %d", a.Path, model.MeshCount, want)
	}
	if a.EnvMapPath != "" && !r.sky.setPath(a.EnvMapPath) {
		r.log.Warnf("graphics: env map %s could not be decoded", a.EnvMapPath)
	}
	return nil
}

// animate poses the model for every playing clip. Clips and raylib
// animations share the file's animation order.
func (r *RasterSurface) animate(v *scene.View) {
	if v.Mixer == nil || len(r.anims) == 0 {
		return
	}
	for i, act := range v.Mixer.Actions() {
		if i >= len(r.anims) {
			break
		}
		anim := r.anims[i]
		if anim.FrameCount <= 0 {
			continue
		}
		frame := int32(act.Time/animFrameTime) % anim.FrameCount
		rl.UpdateModelAnimation(r.model, anim, frame)
	}
}

func (r *RasterSurface) updateVideos(videos []scene.VideoTexture) {
	for _, vt := range videos {
		img := vt.Source.Current()
		if img == nil {
			continue
		}
		t, ok := r.videos[vt.Node]
		if !ok {
			rimg := rl.NewImageFromImage(img)
			t = &videoTexture{tex: rl.LoadTextureFromImage(rimg), version: vt.Source.Version()}
			rl.UnloadImage(rimg)
			t.mtl = rl.LoadMaterialDefault()
			rl.SetMaterialTexture(&t.mtl, rl.MapDiffuse, t.tex)
			r.videos[vt.Node] = t
			continue
		}
		if t.version == vt.Source.Version() {
			continue
		}
		t.version = vt.Source.Version()
		t.pixels = rgbaPixels(img, t.pixels)
		rl.UpdateTexture(t.tex, t.pixels)
	}
}

func (r *RasterSurface) overrides(videos []scene.VideoTexture) map[int]rl.Material {
	if len(videos) == 0 {
		return nil
	}
	out := make(map[int]rl.Material)
	for _, vt := range videos {
		t, ok := r.videos[vt.Node]
		if !ok {
			continue
		}
		for _, i := range vt.Meshes {
			out[i] = t.mtl
		}
	}
	return out
}

// rgbaPixels copies img into buf, reusing its capacity.
func rgbaPixels(img *image.RGBA, buf []color.RGBA) []color.RGBA {
	n := len(img.Pix) / 4
	if cap(buf) < n {
		buf = make([]color.RGBA, n)
	}
	buf = buf[:n]
	for i := range buf {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		buf[i] = color.RGBA{p[0], p[1], p[2], p[3]}
	}
	return buf
}

// Resize records the new output size; raylib tracks the framebuffer itself.
func (r *RasterSurface) Resize(width, height int) {
	r.width, r.height = width, height
}

// Detach frees every GPU resource the surface created.
func (r *RasterSurface) Detach() error {
	if r.detached {
		return nil
	}
	r.detached = true
	for name, t := range r.videos {
		rl.UnloadMaterial(t.mtl)
		delete(r.videos, name)
	}
	r.sky.unload()
	r.unloadModel()
	return nil
}

func (r *RasterSurface) unloadModel() {
	if !r.loaded {
		return
	}
	if len(r.anims) > 0 {
		rl.UnloadModelAnimations(r.anims)
		r.anims = nil
	}
	rl.UnloadModel(r.model)
	r.loaded = false
	r.path = ""
}

func vec3(v geom.Vec3) rl.Vector3 { return rl.NewVector3(v.X, v.Y, v.Z) }

func camera3D(c *scenegraph.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Position),
		Target:     vec3(c.Target()),
		Up:         vec3(c.Up()),
		Fovy:       c.YFov * rl.Rad2deg,
		Projection: rl.CameraPerspective,
	}
}
