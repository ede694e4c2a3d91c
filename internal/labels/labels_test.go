package labels

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"portfolio-scene/internal/config"
)

func intp(i int) *int { return &i }

func TestRevealChainsAfterPredecessor(t *testing.T) {
	s := NewSet([]config.Label{
		{Text: "hey", Interval: 0.25},
		{Text: "ok", Interval: 0.5, After: intp(0), Delay: 0.5},
	})
	first, second := s.Labels[0], s.Labels[1]

	s.Advance(0)
	assert.True(t, first.Started())
	assert.Equal(t, "", first.Visible())

	s.Advance(0.5)
	assert.Equal(t, "he", first.Visible())
	assert.False(t, second.Started())

	s.Advance(0.25)
	assert.True(t, first.Done())
	assert.False(t, second.Started(), "second waits for its delay")

	s.Advance(0.25)
	assert.True(t, second.Started())
	assert.Equal(t, "", second.Visible())
	s.Advance(1)
	assert.Equal(t, "ok", second.Visible())
	assert.True(t, second.Done())
}

func TestRevealIsRuneSafe(t *testing.T) {
	s := NewSet([]config.Label{{Text: "héllo", Interval: 0.25}})
	s.Advance(0.5)
	assert.Equal(t, "hé", s.Labels[0].Visible())
}

func TestZeroIntervalShowsEverything(t *testing.T) {
	s := NewSet([]config.Label{{Text: "instant"}})
	s.Advance(0.01)
	assert.Equal(t, "instant", s.Labels[0].Visible())
}

func TestNilSetIsInert(t *testing.T) {
	var s *Set
	s.Advance(1)
	assert.Zero(t, s.Len())
}

func TestRevealBackgroundSwitchesOnStart(t *testing.T) {
	s := NewSet([]config.Label{
		{Text: "a", Interval: 1},
		{Text: "b", After: intp(0), Style: config.Style{Background: "transparent", RevealColor: "rgb(242, 255, 0)"}},
	})
	_, _, _, a := s.Labels[1].Background()
	assert.Zero(t, a)
	s.Advance(2)
	r, g, b, a := s.Labels[1].Background()
	assert.Equal(t, [4]uint8{242, 255, 0, 255}, [4]uint8{r, g, b, a})
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#fff", color.RGBA{255, 255, 255, 255}, true},
		{"#f2ff00", color.RGBA{242, 255, 0, 255}, true},
		{"rgb(0, 0, 0)", color.RGBA{0, 0, 0, 255}, true},
		{"transparent", color.RGBA{}, true},
		{"#ggg", color.RGBA{}, false},
		{"rgb(300, 0, 0)", color.RGBA{}, false},
		{"red", color.RGBA{}, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, ok := ParseColor(c.in)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestResolveStyle(t *testing.T) {
	st := ResolveStyle(config.Style{Padding: "8px", FontSize: "18", Width: "320px", Color: "#123", Font: " Inter, sans-serif "})
	assert.Equal(t, "Inter, sans-serif", st.Font)
	assert.Equal(t, int32(8), st.Padding)
	assert.Equal(t, int32(18), st.FontSize)
	assert.Equal(t, int32(320), st.Width)
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 255}, st.Color)

	def := ResolveStyle(config.Style{FontSize: "huge"})
	assert.Equal(t, DefaultStyle().FontSize, def.FontSize)
}
