package config

import (
	"fmt"
	"sort"
	"strings"
)

var builtins = map[string]func() Variant{
	"editor": editor,
	"two":    two,
	"studio": studio,
}

// Names lists the builtin variant names in sorted order.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for n := range builtins {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Builtin returns a fresh copy of the named builtin variant.
func Builtin(name string) (Variant, error) {
	fn, ok := builtins[name]
	if !ok {
		return Variant{}, fmt.Errorf("config: unknown variant %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

func after(i int) *int { return &i }

// editor is the landing scene: the pencil sub-graph with mouse parallax and
// two typewriter labels.
func editor() Variant {
	return Variant{
		Name:        "editor",
		AssetPath:   "assets/models/scene_editor.glb",
		TargetNode:  "Gpencil",
		CameraIndex: 0,
		CacheDir:    "assets/cache",
		Controls: Controls{
			Enabled:     true,
			RotateSpeed: 0.03,
			ZoomSpeed:   0.1,
			PanSpeed:    0.04,
		},
		Parallax: Parallax{
			RotationFromX: [3]float32{0, -0.05, 0},
			RotationFromY: [3]float32{0.05, 0, 0},
		},
		Labels: []Label{
			{
				Text:     "lorem ipsum dolor\nsit amet\nconsectetur adipisicing\nelit. Quisquam, quos.",
				At:       [3]float32{0, -2, 0},
				Interval: 0.04,
				Style: Style{
					Color:    "#000000",
					Padding:  "8px",
					FontSize: "18px",
					Width:    "320px",
					Height:   "240px",
				},
			},
			{
				Text:     "About Me",
				At:       [3]float32{-9, -2, -4},
				Interval: 0.1,
				After:    after(0),
				Delay:    0.3,
				Style: Style{
					Color:       "#000000",
					RevealColor: "#f2ff00",
					Padding:     "8px",
					FontSize:    "24px",
					Font:        "Inter, sans-serif",
				},
			},
		},
	}
}

// two is the environment-mapped scene: whole graph, no controls, clips only.
func two() Variant {
	return Variant{
		Name:        "two",
		AssetPath:   "assets/models/scenetwo.glb",
		EnvMapPath:  "assets/images/envMap.hdr",
		CameraIndex: 0,
		CacheDir:    "assets/cache",
	}
}

// studio exercises the scripted-camera features: no free rotation, remapped
// buttons, an intro move, clamped travel and responsive framing.
func studio() Variant {
	to := [3]float32{0, 1.5, 6}
	narrowPos := [3]float32{0, 2, 10}
	narrowRot := [3]float32{-0.1, 0, 0}
	return Variant{
		Name:        "studio",
		AssetPath:   "assets/models/studio.glb",
		EnvMapPath:  "assets/images/envMap.hdr",
		CameraIndex: 0,
		CacheDir:    "assets/cache",
		Controls: Controls{
			Enabled:       true,
			RotateSpeed:   0.5,
			ZoomSpeed:     0.4,
			PanSpeed:      0.6,
			Damping:       true,
			DampingFactor: 0.05,
			DisableRotate: true,
			Buttons: map[string]string{
				"primary":   "pan",
				"secondary": "rotate",
				"touch":     "pan",
			},
		},
		Parallax: Parallax{
			RotationFromX: [3]float32{0, -0.02, 0},
			RotationFromY: [3]float32{0.02, 0, 0},
			PositionFromX: [3]float32{0.1, 0, 0},
		},
		Clamp: []AxisClamp{
			{Axis: "x", Min: -3, Max: 3},
			{Axis: "z", Min: 4, Max: 12},
		},
		Responsive: Responsive{MaxWidth: 768, Position: &narrowPos, Rotation: &narrowRot},
		Intro:      Transition{To: &to, Duration: 2.5, Ease: "power2.out"},
		Wheel:      Wheel{Enabled: true, Step: 0.1, Target: "none"},
		VideoTextures: []VideoTexture{
			{Node: "Monitor", Source: "assets/video/monitor.gif", Width: 512, Height: 288},
		},
	}
}
