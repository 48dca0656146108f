package beatmap

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/easing"
)

// ErrMalformedPayload wraps every custom data decoding failure.
var ErrMalformedPayload = errors.New("malformed custom data")

// CustomData is the decoded lighting payload attached to a basic event.
// Optional fields stay nil when absent.
type CustomData struct {
	Color    *color.Color
	LightIDs []int
	// PropIDs is the deprecated propagation-group selector. Both the single
	// integer and the list form decode into this slice.
	PropIDs  []int
	Gradient *Gradient
	Easing   *easing.Function
	LerpType *color.Space
}

// Gradient is an authored colour transition for one event type.
type Gradient struct {
	Duration float64
	Start    color.Color
	End      color.Color
	Easing   easing.Function
	LerpType color.Space
}

// ParseCustomData decodes a JSON object payload. Keys are accepted with the
// v2 underscore prefix ("_color") or without it ("color"). An empty payload
// decodes to nil.
func ParseCustomData(raw []byte) (*CustomData, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedPayload)
	}
	return decodeCustomData(gjson.ParseBytes(raw))
}

func decodeCustomData(root gjson.Result) (*CustomData, error) {
	if root.Type == gjson.Null {
		return nil, nil
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedPayload)
	}
	cd := &CustomData{}

	if r := field(root, "color"); r.Exists() {
		c, err := decodeColor(r)
		if err != nil {
			return nil, fmt.Errorf("%w: color: %v", ErrMalformedPayload, err)
		}
		cd.Color = &c
	}
	if r := field(root, "lightID"); r.Exists() {
		ids, err := decodeIDs(r)
		if err != nil {
			return nil, fmt.Errorf("%w: lightID: %v", ErrMalformedPayload, err)
		}
		cd.LightIDs = ids
	}
	if r := field(root, "propID"); r.Exists() {
		ids, err := decodeIDs(r)
		if err != nil {
			return nil, fmt.Errorf("%w: propID: %v", ErrMalformedPayload, err)
		}
		cd.PropIDs = ids
	}
	if r := field(root, "easing"); r.Exists() {
		f, err := decodeEasing(r)
		if err != nil {
			return nil, fmt.Errorf("%w: easing: %v", ErrMalformedPayload, err)
		}
		cd.Easing = &f
	}
	if r := field(root, "lerpType"); r.Exists() {
		s, err := decodeSpace(r)
		if err != nil {
			return nil, fmt.Errorf("%w: lerpType: %v", ErrMalformedPayload, err)
		}
		cd.LerpType = &s
	}
	if r := field(root, "lightGradient"); r.Exists() {
		g, err := decodeGradient(r)
		if err != nil {
			return nil, fmt.Errorf("%w: lightGradient: %v", ErrMalformedPayload, err)
		}
		cd.Gradient = g
	}
	return cd, nil
}

// field looks a key up in its v2 (underscore) form first, then v3.
func field(obj gjson.Result, key string) gjson.Result {
	if r := obj.Get("_" + key); r.Exists() {
		return r
	}
	return obj.Get(key)
}

func decodeColor(r gjson.Result) (color.Color, error) {
	if !r.IsArray() {
		return color.Color{}, errors.New("expected an array")
	}
	vals := r.Array()
	if len(vals) < 3 || len(vals) > 4 {
		return color.Color{}, fmt.Errorf("expected 3 or 4 components, got %d", len(vals))
	}
	ch := [4]float64{0, 0, 0, 1}
	for i, v := range vals {
		if v.Type != gjson.Number {
			return color.Color{}, fmt.Errorf("component %d is not a number", i)
		}
		ch[i] = v.Float()
	}
	return color.Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func decodeIDs(r gjson.Result) ([]int, error) {
	switch {
	case r.Type == gjson.Number:
		return []int{int(r.Int())}, nil
	case r.IsArray():
		var ids []int
		for i, v := range r.Array() {
			if v.Type != gjson.Number {
				return nil, fmt.Errorf("entry %d is not a number", i)
			}
			ids = append(ids, int(v.Int()))
		}
		return ids, nil
	default:
		return nil, errors.New("expected a number or a list of numbers")
	}
}

func decodeEasing(r gjson.Result) (easing.Function, error) {
	if r.Type != gjson.String {
		return easing.Linear, errors.New("expected a string")
	}
	return easing.Parse(r.Str)
}

func decodeSpace(r gjson.Result) (color.Space, error) {
	if r.Type != gjson.String {
		return color.SpaceRGB, errors.New("expected a string")
	}
	return color.ParseSpace(r.Str)
}

func decodeGradient(r gjson.Result) (*Gradient, error) {
	if !r.IsObject() {
		return nil, errors.New("expected an object")
	}
	d := field(r, "duration")
	if d.Type != gjson.Number {
		return nil, errors.New("duration must be a number")
	}
	g := &Gradient{Duration: d.Float(), Easing: easing.Linear, LerpType: color.SpaceRGB}
	if g.Duration < 0 {
		return nil, errors.New("duration must not be negative")
	}
	start, err := decodeColor(field(r, "startColor"))
	if err != nil {
		return nil, fmt.Errorf("startColor: %v", err)
	}
	end, err := decodeColor(field(r, "endColor"))
	if err != nil {
		return nil, fmt.Errorf("endColor: %v", err)
	}
	g.Start, g.End = start, end
	if e := field(r, "easing"); e.Exists() {
		if g.Easing, err = decodeEasing(e); err != nil {
			return nil, err
		}
	}
	if l := field(r, "lerpType"); l.Exists() {
		if g.LerpType, err = decodeSpace(l); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ObstacleColor decodes an "_obstacleColor" custom event payload holding
// r, g and b numbers.
func ObstacleColor(raw []byte) (color.Color, error) {
	if !gjson.ValidBytes(raw) {
		return color.Color{}, fmt.Errorf("%w: invalid json", ErrMalformedPayload)
	}
	root := gjson.ParseBytes(raw)
	var ch [3]float64
	for i, key := range []string{"r", "g", "b"} {
		v := field(root, key)
		if v.Type != gjson.Number {
			return color.Color{}, fmt.Errorf("%w: %s must be a number", ErrMalformedPayload, key)
		}
		ch[i] = v.Float()
	}
	return color.RGB(ch[0], ch[1], ch[2]), nil
}
