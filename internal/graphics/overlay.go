package graphics

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"portfolio-scene/internal/fonts"
	"portfolio-scene/internal/labels"
	"portfolio-scene/internal/logger"
	"portfolio-scene/internal/scene"
)

const textLineSpacing = 2

type fontKey struct {
	family string
	size   int32
}

// OverlaySurface draws labels in screen space above the raster pass. It only
// draws; input reaches the interaction hub regardless of what it covers.
type OverlaySurface struct {
	width, height int
	log           *logger.Logger
	fonts         map[fontKey]rl.Font
	detached      bool
}

// Render draws every label whose reveal has started at its projected anchor.
func (o *OverlaySurface) Render(v *scene.View) error {
	if o.detached {
		return errDetached
	}
	if v.Camera == nil || v.Labels.Len() == 0 {
		return nil
	}
	cam := camera3D(v.Camera)
	for _, l := range v.Labels.Labels {
		if !l.Started() || !v.Camera.InView(l.At) {
			continue
		}
		at := rl.GetWorldToScreen(vec3(l.At), cam)
		o.drawLabel(l, int32(at.X), int32(at.Y))
	}
	return nil
}

// font returns the loaded font for a style; ok is false for the default font.
func (o *OverlaySurface) font(st labels.Style) (rl.Font, bool) {
	if st.Font == "" {
		return rl.Font{}, false
	}
	key := fontKey{st.Font, st.FontSize}
	if f, seen := o.fonts[key]; seen {
		return f, f.Texture.ID != 0
	}
	var f rl.Font
	if path, err := fonts.Find(st.Font); err == nil {
		f = rl.LoadFontEx(path, st.FontSize, nil)
	} else {
		o.log.Warnf("graphics: font %q not found, using default", st.Font)
	}
	if o.fonts == nil {
		o.fonts = make(map[fontKey]rl.Font)
	}
	o.fonts[key] = f
	return f, f.Texture.ID != 0
}

// drawLabel draws the box centered horizontally on x with its top at y.
func (o *OverlaySurface) drawLabel(l *labels.Label, x, y int32) {
	st := l.Style
	font, custom := o.font(st)
	w, h := st.Width, st.Height
	if w == 0 || h == 0 {
		tw, th := measure(string(l.Text), st.FontSize, font, custom)
		if w == 0 {
			w = tw + 2*st.Padding
		}
		if h == 0 {
			h = th + 2*st.Padding
		}
	}
	left := x - w/2
	r, g, b, a := l.Background()
	if a > 0 {
		rl.DrawRectangle(left, y, w, h, rl.NewColor(r, g, b, a))
	}
	text := l.Visible()
	if text == "" {
		return
	}
	if custom {
		pos := rl.NewVector2(float32(left+st.Padding), float32(y+st.Padding))
		rl.DrawTextEx(font, text, pos, float32(st.FontSize), 1, st.Color)
		return
	}
	rl.DrawText(text, left+st.Padding, y+st.Padding, st.FontSize, st.Color)
}

// measure sizes the full text so the box does not grow while revealing.
func measure(text string, fontSize int32, font rl.Font, custom bool) (w, h int32) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		var lw int32
		if custom {
			lw = int32(rl.MeasureTextEx(font, line, float32(fontSize), 1).X)
		} else {
			lw = rl.MeasureText(line, fontSize)
		}
		if lw > w {
			w = lw
		}
	}
	// raylib advances each line by the font size plus textLineSpacing
	h = int32(len(lines))*fontSize + int32(len(lines)-1)*textLineSpacing
	return w, h
}

func (o *OverlaySurface) Resize(width, height int) {
	o.width, o.height = width, height
}

// Detach unloads the fonts the overlay loaded.
func (o *OverlaySurface) Detach() error {
	if o.detached {
		return nil
	}
	o.detached = true
	for k, f := range o.fonts {
		if f.Texture.ID != 0 {
			rl.UnloadFont(f)
		}
		delete(o.fonts, k)
	}
	return nil
}
