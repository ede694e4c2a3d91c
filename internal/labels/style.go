package labels

import (
	"image/color"
	"strconv"
	"strings"

	"portfolio-scene/internal/config"
)

// Style holds resolved values used for drawing a label.
// RevealBackground replaces Background once the reveal starts; zero alpha
// means no box is drawn.
type Style struct {
	Color            color.RGBA
	Background       color.RGBA
	RevealBackground color.RGBA
	Padding          int32
	FontSize         int32
	Width            int32  // 0 = fit text
	Height           int32  // 0 = fit text
	Font             string // CSS font-family list; empty uses the default font
}

// DefaultStyle is black 20px text on no background with 4px padding.
func DefaultStyle() Style {
	return Style{
		Color:    color.RGBA{0, 0, 0, 255},
		Padding:  4,
		FontSize: 20,
	}
}

// ResolveStyle builds a Style from config strings; unparsable values keep
// the default.
func ResolveStyle(s config.Style) Style {
	out := DefaultStyle()
	if c, ok := ParseColor(s.Color); ok {
		out.Color = c
	}
	if c, ok := ParseColor(s.Background); ok {
		out.Background = c
	}
	out.RevealBackground = out.Background
	if c, ok := ParseColor(s.RevealColor); ok {
		out.RevealBackground = c
	}
	if n, ok := ParsePx(s.Padding); ok && n >= 0 {
		out.Padding = n
	}
	if n, ok := ParsePx(s.FontSize); ok && n > 0 {
		out.FontSize = n
	}
	if n, ok := ParsePx(s.Width); ok && n >= 0 {
		out.Width = n
	}
	if n, ok := ParsePx(s.Height); ok && n >= 0 {
		out.Height = n
	}
	out.Font = strings.TrimSpace(s.Font)
	return out
}

// ParseColor accepts #RGB, #RRGGBB, rgb(r, g, b) and "transparent".
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "transparent" || s == "none":
		return color.RGBA{}, true
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		var ch [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return color.RGBA{}, false
			}
			ch[i] = uint8(n)
		}
		return color.RGBA{ch[0], ch[1], ch[2], 255}, true
	}
	return color.RGBA{}, false
}

func parseHex(hex string) (color.RGBA, bool) {
	for i := 0; i < len(hex); i++ {
		if hexByte(hex[i]) < 0 {
			return color.RGBA{}, false
		}
	}
	switch len(hex) {
	case 3:
		return color.RGBA{
			uint8(hexByte(hex[0]) * 17),
			uint8(hexByte(hex[1]) * 17),
			uint8(hexByte(hex[2]) * 17),
			255,
		}, true
	case 6:
		return color.RGBA{
			uint8(hexByte(hex[0])<<4 + hexByte(hex[1])),
			uint8(hexByte(hex[2])<<4 + hexByte(hex[3])),
			uint8(hexByte(hex[4])<<4 + hexByte(hex[5])),
			255,
		}, true
	}
	return color.RGBA{}, false
}

func hexByte(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// ParsePx parses a number with optional "px" suffix. Unitless is pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
