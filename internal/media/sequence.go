package media

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultFrameDelay is used for frame directories, which carry no timing.
const DefaultFrameDelay = float32(1.0 / 24)

// ErrNoFrames is returned for sources that decode to nothing.
var ErrNoFrames = errors.New("media: no frames")

var frameExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// Sequence is a looping series of equally sized RGBA frames: the pixel
// source of a dynamic texture.
type Sequence struct {
	Path    string
	Width   int
	Height  int
	frames  []*image.RGBA
	delays  []float32
	index   int
	elapsed float32
	version int
}

// NewSequence builds a sequence from already decoded frames. Every frame is
// scaled to width x height; zero sizes take the first frame's size.
func NewSequence(path string, frames []image.Image, delays []float32, width, height int) (*Sequence, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, path)
	}
	if width <= 0 || height <= 0 {
		b := frames[0].Bounds()
		width, height = b.Dx(), b.Dy()
	}
	s := &Sequence{Path: path, Width: width, Height: height}
	for i, f := range frames {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), f, f.Bounds(), xdraw.Src, nil)
		s.frames = append(s.frames, dst)
		d := DefaultFrameDelay
		if i < len(delays) && delays[i] > 0 {
			d = delays[i]
		}
		s.delays = append(s.delays, d)
	}
	return s, nil
}

// Open decodes path: an animated GIF, or a directory of still frames played
// in lexical order.
func Open(path string, width, height int) (*Sequence, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	if info.IsDir() {
		return openDir(path, width, height)
	}
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return openGIF(path, width, height)
	}
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return NewSequence(path, []image.Image{img}, nil, width, height)
}

func openGIF(path string, width, height int) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", path, err)
	}
	// GIF frames are deltas over the previous canvas.
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]float32, 0, len(g.Image))
	for i, p := range g.Image {
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		snap := image.NewRGBA(bounds)
		copy(snap.Pix, canvas.Pix)
		frames = append(frames, snap)
		delay := float32(0)
		if i < len(g.Delay) {
			delay = float32(g.Delay[i]) / 100
		}
		delays = append(delays, delay)
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalBackground {
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		}
	}
	return NewSequence(path, frames, delays, width, height)
}

func openDir(dir string, width, height int) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && frameExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	frames := make([]image.Image, 0, len(names))
	for _, n := range names {
		img, err := decodeFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return NewSequence(dir, frames, nil, width, height)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("media: decode %s: %w", path, err)
	}
	return img, nil
}

// Len returns the frame count (0 after Release).
func (s *Sequence) Len() int { return len(s.frames) }

// Index returns the current frame index.
func (s *Sequence) Index() int { return s.index }

// Version increases every time the current frame changes, so uploaders can
// skip frames they already pushed.
func (s *Sequence) Version() int { return s.version }

// Current returns the frame to display, or nil after Release.
func (s *Sequence) Current() *image.RGBA {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[s.index]
}

// Advance moves playback forward by dt seconds, looping at the end.
func (s *Sequence) Advance(dt float32) {
	if len(s.frames) < 2 || dt <= 0 {
		return
	}
	s.elapsed += dt
	for s.elapsed >= s.delays[s.index] {
		s.elapsed -= s.delays[s.index]
		s.index = (s.index + 1) % len(s.frames)
		s.version++
	}
}

// Release drops the decoded frames.
func (s *Sequence) Release() error {
	s.frames = nil
	s.delays = nil
	s.index = 0
	return nil
}
