package color

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA value. Channels are not clamped so multiplier tables
// can push them above 1 the same way the renderer's HDR colours do.
type Color struct {
	R, G, B, A float64
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Clear = Color{0, 0, 0, 0}
)

// RGB returns an opaque colour.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// HSV builds an opaque colour from hue in [0,1), saturation and value.
func HSV(h, s, v float64) Color {
	h = Repeat(h, 1)
	c := colorful.Hsv(h*360, s, v)
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// Mul multiplies component-wise, alpha included.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

// MultAlpha scales only the alpha channel.
func (c Color) MultAlpha(a float64) Color {
	c.A *= a
	return c
}

// WithAlpha replaces the alpha channel.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// HSV returns hue in [0,1), saturation and value.
func (c Color) HSV() (h, s, v float64) {
	h, s, v = c.colorful().Hsv()
	return h / 360, s, v
}

// Lerp interpolates linearly in RGB space with t clamped to [0,1].
func Lerp(a, b Color, t float64) Color {
	return LerpUnclamped(a, b, clamp01(t))
}

// LerpUnclamped interpolates linearly without clamping t, so overshooting
// easings (back, elastic) extrapolate past the endpoints.
func LerpUnclamped(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// LerpHSV interpolates hue, saturation and value along the shortest hue arc.
// Alpha is interpolated linearly.
func LerpHSV(a, b Color, t float64) Color {
	c := a.colorful().BlendHsv(b.colorful(), t)
	return Color{R: c.R, G: c.G, B: c.B, A: a.A + (b.A-a.A)*t}
}

// Clamped limits every channel to [0,1].
func (c Color) Clamped() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// RGBA8 returns the clamped colour as 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	cc := c.Clamped()
	return to8(cc.R), to8(cc.G), to8(cc.B), to8(cc.A)
}

// Premultiplied returns the colour with RGB scaled by alpha and full opacity,
// which is how an additive light looks on a black background.
func (c Color) Premultiplied() Color {
	a := clamp01(c.A)
	return Color{R: c.R * a, G: c.G * a, B: c.B * a, A: 1}
}

// Hex formats the clamped RGB channels as #rrggbb.
func (c Color) Hex() string {
	return c.Clamped().colorful().Hex()
}

// ParseHex reads #rgb or #rrggbb into an opaque colour.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return RGB(c.R, c.G, c.B), nil
}

// ApproxEqual reports whether every channel differs by at most eps.
func (c Color) ApproxEqual(o Color, eps float64) bool {
	return math.Abs(c.R-o.R) <= eps &&
		math.Abs(c.G-o.G) <= eps &&
		math.Abs(c.B-o.B) <= eps &&
		math.Abs(c.A-o.A) <= eps
}

func (c Color) String() string {
	return fmt.Sprintf("RGBA(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Repeat wraps t into [0,length).
func Repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	r := t - math.Floor(t/length)*length
	if r >= length {
		r = 0
	}
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
