package lighting

import (
	"fmt"

	"github.com/cbegin/chroma-go/internal/easing"
)

// Shape is the transition an event value asks for.
type Shape int

const (
	// ShapeNone leaves the light untouched.
	ShapeNone Shape = iota
	// ShapeOff snaps to the normal colour at off intensity.
	ShapeOff
	// ShapeInstant snaps to the normal colour.
	ShapeInstant
	// ShapeFlash fades highlight to normal.
	ShapeFlash
	// ShapeFade fades highlight to normal at off intensity.
	ShapeFade
)

const (
	FlashDuration = 0.6
	FadeDuration  = 1.5
)

var shapeNames = [...]string{"None", "Off", "Instant", "Flash", "Fade"}

func (s Shape) String() string {
	if s >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// shapes maps every defined event value to its transition. Values 4, 8
// and 12 are instant here; the fade they declare is planned by the
// preceding event's lookahead.
var shapes = map[int]Shape{
	-1: ShapeFade,
	0:  ShapeOff,
	1:  ShapeInstant,
	2:  ShapeFlash,
	3:  ShapeFade,
	4:  ShapeInstant,
	5:  ShapeInstant,
	6:  ShapeFlash,
	7:  ShapeFade,
	8:  ShapeInstant,
	9:  ShapeInstant,
	10: ShapeFlash,
	11: ShapeFade,
	12: ShapeInstant,
}

// ShapeFor returns the transition for an event value. Undefined values
// map to ShapeNone.
func ShapeFor(value int) Shape {
	return shapes[value]
}

// Timing returns the default duration and easing of a timed shape. Snap
// shapes report zero duration with linear easing.
func (s Shape) Timing() (float64, easing.Function) {
	switch s {
	case ShapeFlash:
		return FlashDuration, easing.OutCubic
	case ShapeFade:
		return FadeDuration, easing.OutExpo
	default:
		return 0, easing.Linear
	}
}
