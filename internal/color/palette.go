package color

// Palette is an ordered colour sequence sampled cyclically.
type Palette []Color

// Lerped samples the palette at position t, where each whole unit moves one
// entry forward. Positions wrap, so t == len(p) returns the first entry and
// the last entry blends back into the first.
func (p Palette) Lerped(t float64) Color {
	n := len(p)
	if n == 0 {
		return Clear
	}
	tm := Repeat(t, float64(n))
	i0 := int(tm)
	if i0 >= n {
		i0 = 0
	}
	i1 := i0 + 1
	if i1 >= n {
		i1 = 0
	}
	return Lerp(p[i0], p[i1], tm-float64(i0))
}

var (
	// WarmPalette and ColdPalette are the default left/right saber palettes.
	WarmPalette = Palette{
		RGB(1, 0, 0),
		RGB(1, 0, 1),
		RGB(1, 0.6, 0),
		RGB(1, 0, 0.4),
	}
	ColdPalette = Palette{
		RGB(0, 0.501, 1),
		RGB(0, 1, 0),
		RGB(0, 0, 1),
		RGB(0, 1, 0.8),
	}
)

// CombinedPalette returns warm followed by cold entries.
func CombinedPalette() Palette {
	out := make(Palette, 0, len(WarmPalette)+len(ColdPalette))
	out = append(out, WarmPalette...)
	return append(out, ColdPalette...)
}
