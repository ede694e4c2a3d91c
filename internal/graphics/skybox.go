package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const skyboxScale = 1000

// equirectAspectMin/Max: width/height ratio for equirectangular panorama (typically 2:1).
const (
	equirectAspectMin = 1.8
	equirectAspectMax = 2.2
)

// skybox draws an environment map around the camera, either a cubemap or an
// equirectangular panorama such as an .hdr env map.
type skybox struct {
	tex      rl.Texture2D
	mesh     rl.Mesh
	mtl      rl.Material
	loaded   bool
	pending  bool   // path known, GPU load deferred until the first draw
	path     string // set while pending
	equirect bool
	camPos   int32
	texLoc   int32
}

// setPath inspects the image and defers GPU loading to ensureLoaded, which
// runs inside the frame once the GL context exists.
func (s *skybox) setPath(path string) bool {
	img := rl.LoadImage(path)
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return false
	}
	aspect := float32(img.Width) / float32(img.Height)
	s.equirect = aspect >= equirectAspectMin && aspect <= equirectAspectMax
	rl.UnloadImage(img)
	s.path = path
	s.pending = true
	return true
}

func (s *skybox) ensureLoaded() {
	if !s.pending || s.path == "" {
		return
	}
	path := s.path
	s.pending = false
	s.path = ""

	if !s.equirect {
		img := rl.LoadImage(path)
		if img == nil || img.Width <= 0 || img.Height <= 0 {
			return
		}
		s.tex = rl.LoadTextureCubemap(img, rl.CubemapLayoutAutoDetect)
		rl.UnloadImage(img)
		if !rl.IsTextureValid(s.tex) {
			return
		}
		s.mesh = rl.GenMeshCube(1, 1, 1)
		s.mtl = rl.LoadMaterialDefault()
		rl.SetMaterialTexture(&s.mtl, rl.MapCubemap, s.tex)
		s.loaded = true
		return
	}

	s.tex = rl.LoadTexture(path)
	if !rl.IsTextureValid(s.tex) {
		return
	}
	shader := rl.LoadShaderFromMemory(equirectVS, equirectFS)
	if !rl.IsShaderValid(shader) {
		rl.UnloadTexture(s.tex)
		return
	}
	s.mesh = rl.GenMeshCube(1, 1, 1)
	s.mtl = rl.LoadMaterialDefault()
	s.mtl.Shader = shader
	s.camPos = rl.GetShaderLocation(shader, "cameraPosition")
	s.texLoc = rl.GetShaderLocation(shader, "skybox")
	s.loaded = true
}

// Equirectangular skybox shader: samples a 2D panorama by view direction.
const (
	equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`
	equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  float u = lon / 6.28318530718 + 0.5;
  float v = 0.5 - lat / 3.14159265359;
  finalColor = texture(skybox, vec2(u, v));
}
`
)

// draw renders the skybox as a large cube centered on pos. Call inside BeginMode3D.
func (s *skybox) draw(pos rl.Vector3) {
	s.ensureLoaded()
	if !s.loaded {
		return
	}
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	scale := rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale)
	trans := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)
	transform := rl.MatrixMultiply(scale, trans)
	if s.equirect {
		if s.camPos >= 0 {
			rl.SetShaderValueV(s.mtl.Shader, s.camPos, []float32{pos.X, pos.Y, pos.Z}, rl.ShaderUniformVec3, 1)
		}
		if s.texLoc >= 0 {
			rl.SetShaderValueTexture(s.mtl.Shader, s.texLoc, s.tex)
		}
	}
	rl.DrawMesh(s.mesh, s.mtl, transform)
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// unload frees GPU resources. UnloadMaterial frees the shader and the
// cubemap; the panorama texture is bound per draw and freed here.
func (s *skybox) unload() {
	s.pending = false
	s.path = ""
	if !s.loaded {
		return
	}
	s.loaded = false
	rl.UnloadMaterial(s.mtl)
	if s.equirect {
		rl.UnloadTexture(s.tex)
	}
	rl.UnloadMesh(&s.mesh)
}
