package color

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSpace is returned by ParseSpace for names other than RGB and HSV.
var ErrUnknownSpace = errors.New("unknown interpolation space")

// Space selects how two colours are blended.
type Space int

const (
	SpaceRGB Space = iota
	SpaceHSV
)

func (s Space) String() string {
	switch s {
	case SpaceRGB:
		return "RGB"
	case SpaceHSV:
		return "HSV"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}

func ParseSpace(name string) (Space, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "RGB":
		return SpaceRGB, nil
	case "HSV":
		return SpaceHSV, nil
	default:
		return SpaceRGB, fmt.Errorf("%w %q", ErrUnknownSpace, name)
	}
}

// Interpolate blends a toward b by t in the given space without clamping t.
func Interpolate(space Space, a, b Color, t float64) Color {
	if space == SpaceHSV {
		return LerpHSV(a, b, t)
	}
	return LerpUnclamped(a, b, t)
}
