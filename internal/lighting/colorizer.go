package lighting

import "github.com/cbegin/chroma-go/internal/color"

// Slot indices into a Colorizer.
const (
	SlotColor0 = iota
	SlotColor1
	SlotColor0Boost
	SlotColor1Boost
	slotCount
)

// Colorizer holds a channel's four base colours and any authored
// overrides on top of them.
type Colorizer struct {
	base     [slotCount]color.Color
	override [slotCount]*color.Color
}

func newColorizer(s Scheme) Colorizer {
	return Colorizer{base: [slotCount]color.Color{s.Color0, s.Color1, s.Color0Boost, s.Color1Boost}}
}

// Color returns the effective colour for a slot.
func (z *Colorizer) Color(slot int) color.Color {
	if o := z.override[slot]; o != nil {
		return *o
	}
	return z.base[slot]
}

// Overridden reports whether any slot carries an authored colour.
func (z *Colorizer) Overridden() bool {
	for _, o := range z.override {
		if o != nil {
			return true
		}
	}
	return false
}

func (z *Colorizer) set(colors [slotCount]*color.Color) {
	for i, c := range colors {
		if c == nil {
			z.override[i] = nil
			continue
		}
		v := *c
		z.override[i] = &v
	}
}
