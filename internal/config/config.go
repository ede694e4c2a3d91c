package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the viewer looks for a variant file, relative to the
// process working directory.
const DefaultPath = "config/scene.yaml"

// Variant describes one scene: which asset to load and how the camera behaves.
// Zero values mean "feature off" except where Builtin fills a default.
type Variant struct {
	Name        string `yaml:"name"`
	AssetPath   string `yaml:"asset"`
	EnvMapPath  string `yaml:"env_map,omitempty"`
	TargetNode  string `yaml:"target_node,omitempty"`
	CameraIndex int    `yaml:"camera_index"`
	// CacheDir receives remote assets before they are parsed.
	CacheDir string `yaml:"cache_dir,omitempty"`

	Controls      Controls       `yaml:"controls"`
	Parallax      Parallax       `yaml:"parallax"`
	Clamp         []AxisClamp    `yaml:"clamp,omitempty"`
	Responsive    Responsive     `yaml:"responsive,omitempty"`
	Intro         Transition     `yaml:"intro,omitempty"`
	Wheel         Wheel          `yaml:"wheel,omitempty"`
	VideoTextures []VideoTexture `yaml:"video_textures,omitempty"`
	Labels        []Label        `yaml:"labels,omitempty"`
	OnceClips     []string       `yaml:"once_clips,omitempty"`
	ShowFPS       bool           `yaml:"show_fps"`
}

// Controls tunes the orbit controller.
type Controls struct {
	Enabled       bool       `yaml:"enabled"`
	RotateSpeed   float32    `yaml:"rotate_speed"`
	ZoomSpeed     float32    `yaml:"zoom_speed"`
	PanSpeed      float32    `yaml:"pan_speed"`
	Damping       bool       `yaml:"damping"`
	DampingFactor float32    `yaml:"damping_factor,omitempty"`
	DisableRotate bool       `yaml:"disable_rotate,omitempty"`
	DisableZoom   bool       `yaml:"disable_zoom,omitempty"`
	DisablePan    bool       `yaml:"disable_pan,omitempty"`
	Target        [3]float32 `yaml:"target,omitempty"`
	// Buttons maps "primary", "middle", "secondary" and "touch" to
	// "rotate", "pan", "dolly" or "none". Unset buttons keep the defaults.
	Buttons map[string]string `yaml:"buttons,omitempty"`
}

// Parallax multipliers applied to the interaction state each frame.
type Parallax struct {
	RotationFromX [3]float32 `yaml:"rotation_from_x,omitempty"`
	RotationFromY [3]float32 `yaml:"rotation_from_y,omitempty"`
	PositionFromX [3]float32 `yaml:"position_from_x,omitempty"`
	PositionFromY [3]float32 `yaml:"position_from_y,omitempty"`
}

// AxisClamp bounds one camera position axis ("x", "y" or "z").
type AxisClamp struct {
	Axis string  `yaml:"axis"`
	Min  float32 `yaml:"min"`
	Max  float32 `yaml:"max"`
}

// Responsive swaps the camera pose on narrow viewports at load time.
type Responsive struct {
	MaxWidth int         `yaml:"max_width,omitempty"`
	Position *[3]float32 `yaml:"position,omitempty"`
	Rotation *[3]float32 `yaml:"rotation,omitempty"`
}

// Transition is a one-shot eased camera move started after configuration.
type Transition struct {
	To       *[3]float32 `yaml:"to,omitempty"`
	Duration float32     `yaml:"duration,omitempty"` // seconds
	Ease     string      `yaml:"ease,omitempty"`
}

// Wheel configures the scroll-delta accumulator.
type Wheel struct {
	Enabled bool    `yaml:"enabled"`
	Step    float32 `yaml:"step,omitempty"`
	Target  string  `yaml:"target,omitempty"` // none, position_z, fov
}

// VideoTexture plays a frame source on the meshes of a named node.
type VideoTexture struct {
	Node   string `yaml:"node"`
	Source string `yaml:"source"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// Label is an overlay annotation anchored at a world position.
type Label struct {
	Text string     `yaml:"text"`
	At   [3]float32 `yaml:"at"`
	// Interval between revealed characters, seconds.
	Interval float32 `yaml:"interval,omitempty"`
	// After is the index of a label that must finish first; nil starts immediately.
	After *int    `yaml:"after,omitempty"`
	Delay float32 `yaml:"delay,omitempty"`
	Style Style   `yaml:"style,omitempty"`
}

// Style is a small CSS-like style block for a label.
type Style struct {
	Color       string `yaml:"color,omitempty"`
	Background  string `yaml:"background,omitempty"`
	RevealColor string `yaml:"reveal_background,omitempty"`
	Padding     string `yaml:"padding,omitempty"`
	FontSize    string `yaml:"font_size,omitempty"`
	Width       string `yaml:"width,omitempty"`
	Height      string `yaml:"height,omitempty"`
	// Font is a CSS font-family list resolved against assets/fonts.
	Font string `yaml:"font,omitempty"`
}

// Load reads a variant file and overlays it onto a builtin. The builtin is
// the file's "name" when it matches one, else base. If the file is missing,
// the builtin for base is returned without error.
func Load(path, base string) (Variant, error) {
	def, err := Builtin(base)
	if err != nil {
		return Variant{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return Variant{}, fmt.Errorf("config: %w", err)
	}
	file := Variant{CameraIndex: -1}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Variant{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if file.Name != "" && file.Name != base {
		if b, err := Builtin(file.Name); err == nil {
			def = b
		}
	}
	v, err := Merge(def, file)
	if err != nil {
		return Variant{}, err
	}
	keys, err := setKeys(data)
	if err != nil {
		return Variant{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applySet(&v, file, keys)
	return v, v.Validate()
}

// setKeys lists the keys a YAML file sets, nested ones as "section.key".
func setKeys(data []byte) (map[string]bool, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	keys := make(map[string]bool)
	for k, val := range raw {
		keys[k] = true
		if sub, ok := val.(map[string]any); ok {
			for sk := range sub {
				keys[k+"."+sk] = true
			}
		}
	}
	return keys, nil
}

// applySet copies fields whose zero value is meaningful (false flags, zero
// parallax vectors) when the file sets them. Merge skips those as empty.
func applySet(out *Variant, file Variant, keys map[string]bool) {
	flags := []struct {
		key      string
		dst, src *bool
	}{
		{"show_fps", &out.ShowFPS, &file.ShowFPS},
		{"controls.enabled", &out.Controls.Enabled, &file.Controls.Enabled},
		{"controls.damping", &out.Controls.Damping, &file.Controls.Damping},
		{"controls.disable_rotate", &out.Controls.DisableRotate, &file.Controls.DisableRotate},
		{"controls.disable_zoom", &out.Controls.DisableZoom, &file.Controls.DisableZoom},
		{"controls.disable_pan", &out.Controls.DisablePan, &file.Controls.DisablePan},
		{"wheel.enabled", &out.Wheel.Enabled, &file.Wheel.Enabled},
	}
	for _, f := range flags {
		if keys[f.key] {
			*f.dst = *f.src
		}
	}
	vectors := []struct {
		key      string
		dst, src *[3]float32
	}{
		{"parallax.rotation_from_x", &out.Parallax.RotationFromX, &file.Parallax.RotationFromX},
		{"parallax.rotation_from_y", &out.Parallax.RotationFromY, &file.Parallax.RotationFromY},
		{"parallax.position_from_x", &out.Parallax.PositionFromX, &file.Parallax.PositionFromX},
		{"parallax.position_from_y", &out.Parallax.PositionFromY, &file.Parallax.PositionFromY},
	}
	for _, vec := range vectors {
		if keys[vec.key] {
			*vec.dst = *vec.src
		}
	}
	// an empty parallax block switches parallax off
	if keys["parallax"] && !keys["parallax.rotation_from_x"] && !keys["parallax.rotation_from_y"] &&
		!keys["parallax.position_from_x"] && !keys["parallax.position_from_y"] {
		out.Parallax = file.Parallax
	}
}

// Merge copies every non-empty field of override onto a copy of base.
// Nested structs merge field by field; lists and the button map replace the
// base value when the override sets them. CameraIndex is taken from override
// unless it is negative.
func Merge(base, override Variant) (Variant, error) {
	out := base
	ov := override
	ov.Clamp, ov.VideoTextures, ov.Labels, ov.OnceClips = nil, nil, nil, nil
	ov.Controls.Buttons = nil
	if err := copier.CopyWithOption(&out, &ov, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return Variant{}, fmt.Errorf("config: merge: %w", err)
	}
	out.CameraIndex = base.CameraIndex
	if override.CameraIndex >= 0 {
		out.CameraIndex = override.CameraIndex
	}
	if override.Clamp != nil {
		out.Clamp = override.Clamp
	}
	if override.VideoTextures != nil {
		out.VideoTextures = override.VideoTextures
	}
	if override.Labels != nil {
		out.Labels = override.Labels
	}
	if override.OnceClips != nil {
		out.OnceClips = override.OnceClips
	}
	if override.Controls.Buttons != nil {
		out.Controls.Buttons = override.Controls.Buttons
	}
	return out, nil
}

// Save writes v as YAML, creating the directory if needed.
func Save(path string, v Variant) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
