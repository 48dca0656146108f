package lighting

import (
	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
)

// Scheme is the environment colour set a channel starts from.
type Scheme struct {
	Color0      color.Color
	Color1      color.Color
	Color0Boost color.Color
	Color1Boost color.Color
	White       color.Color
	WhiteBoost  color.Color
}

func DefaultScheme() Scheme {
	return Scheme{
		Color0:      color.RGB(0.85, 0.08, 0.08),
		Color1:      color.RGB(0.1, 0.45, 0.95),
		Color0Boost: color.RGB(0.95, 0.4, 0.05),
		Color1Boost: color.RGB(0.6, 0.1, 0.95),
		White:       color.White,
		WhiteBoost:  color.White,
	}
}

// Multipliers scale scheme colours per light role. The zero value is not
// useful; start from DefaultMultipliers.
type Multipliers struct {
	Light0          color.Color
	Light1          color.Color
	Highlight0      color.Color
	Highlight1      color.Color
	Light0Boost     color.Color
	Light1Boost     color.Color
	Highlight0Boost color.Color
	Highlight1Boost color.Color
}

// DefaultMultipliers leaves every colour as authored.
func DefaultMultipliers() Multipliers {
	w := color.White
	return Multipliers{w, w, w, w, w, w, w, w}
}

// DefaultFixture is a light group that starts on with a dark off state.
func DefaultFixture(t beatmap.EventType) Fixture {
	return Fixture{EventType: t, OffColorIntensity: 0, LightOnStart: true, Multipliers: DefaultMultipliers()}
}

// Fixture describes the light switch a channel drives: which event stream
// it follows, which light group it is, and how it dims.
type Fixture struct {
	EventType         beatmap.EventType
	LightsID          int
	OffColorIntensity float64
	LightOnStart      bool
	Multipliers       Multipliers
}
