package technicolour

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStyle = errors.New("unknown technicolour style")

// Style selects how a category is recoloured. Only sabers honour every
// style; other categories are driven by the generator only for Gradient.
type Style int

const (
	WarmCold Style = iota
	AnyPalette
	PureRandom
	Gradient
)

var styleNames = [...]string{"WARM_COLD", "ANY_PALETTE", "PURE_RANDOM", "GRADIENT"}

func (s Style) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle accepts the upper-case names as well as lower-case or
// dashed spellings.
func ParseStyle(name string) (Style, error) {
	n := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for i, s := range styleNames {
		if s == n {
			return Style(i), nil
		}
	}
	return WarmCold, fmt.Errorf("%w %q", ErrUnknownStyle, name)
}

func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Category is a kind of target the generator can recolour.
type Category int

const (
	Lights Category = iota
	Notes
	Walls
	Bombs
	Sabers
)

var categoryNames = [...]string{"lights", "notes", "walls", "bombs", "sabers"}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}
