package media

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestAdvanceLoopsAndBumpsVersion(t *testing.T) {
	frames := []image.Image{solid(2, 2, color.White), solid(2, 2, color.Black), solid(2, 2, color.White)}
	s, err := NewSequence("mem", frames, []float32{0.5, 0.5, 0.5}, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Current().Bounds().Dx())

	s.Advance(0.25)
	assert.Equal(t, 0, s.Index())
	s.Advance(0.25)
	assert.Equal(t, 1, s.Index())
	s.Advance(1.0)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 3, s.Version())
}

func TestNewSequenceRejectsEmpty(t *testing.T) {
	_, err := NewSequence("empty", nil, nil, 0, 0)
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestReleaseDropsFrames(t *testing.T) {
	s, err := NewSequence("mem", []image.Image{solid(1, 1, color.White)}, nil, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.Release())
	assert.Nil(t, s.Current())
	assert.Zero(t, s.Len())
	s.Advance(1)
}

func TestOpenGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.gif")
	g := &gif.GIF{}
	for _, c := range []color.Color{color.White, color.Black} {
		p := image.NewPaletted(image.Rect(0, 0, 8, 8), palette.Plan9)
		for i := range p.Pix {
			p.Pix[i] = uint8(p.Palette.Index(c))
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 10)
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, g))
	require.NoError(t, f.Close())

	s, err := Open(path, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 16, s.Width)
	s.Advance(0.1)
	assert.Equal(t, 1, s.Index())
}

func TestOpenDirectorySortsFrames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002.png", "001.png", "notes.txt"} {
		path := filepath.Join(dir, name)
		if filepath.Ext(name) != ".png" {
			require.NoError(t, os.WriteFile(path, []byte("skip"), 0644))
			continue
		}
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, solid(3, 3, color.White)))
		require.NoError(t, f.Close())
	}
	s, err := Open(dir, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Width)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.gif"), 0, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
