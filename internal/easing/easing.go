// Package easing implements the named easing curves used by lighting events.
// Every curve maps progress in [0,1] to an eased fraction with f(0)=0 and
// f(1)=1; back and elastic curves overshoot in between.
package easing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknown is returned by Parse for names outside the table.
var ErrUnknown = errors.New("unknown easing")

type Function int

const (
	Linear Function = iota
	Step
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InSine
	OutSine
	InOutSine
	InCirc
	OutCirc
	InOutCirc
	InExpo
	OutExpo
	InOutExpo
	InElastic
	OutElastic
	InOutElastic
	InBack
	OutBack
	InOutBack
	InBounce
	OutBounce
	InOutBounce
	numFunctions
)

var names = [numFunctions]string{
	"easeLinear", "easeStep",
	"easeInQuad", "easeOutQuad", "easeInOutQuad",
	"easeInCubic", "easeOutCubic", "easeInOutCubic",
	"easeInQuart", "easeOutQuart", "easeInOutQuart",
	"easeInQuint", "easeOutQuint", "easeInOutQuint",
	"easeInSine", "easeOutSine", "easeInOutSine",
	"easeInCirc", "easeOutCirc", "easeInOutCirc",
	"easeInExpo", "easeOutExpo", "easeInOutExpo",
	"easeInElastic", "easeOutElastic", "easeInOutElastic",
	"easeInBack", "easeOutBack", "easeInOutBack",
	"easeInBounce", "easeOutBounce", "easeInOutBounce",
}

var curves = [numFunctions]func(float64) float64{
	func(t float64) float64 { return t },
	math.Floor,
	func(t float64) float64 { return t * t },
	func(t float64) float64 { return -t * (t - 2) },
	inOut(func(t float64) float64 { return t * t }),
	func(t float64) float64 { return t * t * t },
	func(t float64) float64 { t--; return t*t*t + 1 },
	inOut(func(t float64) float64 { return t * t * t }),
	func(t float64) float64 { return t * t * t * t },
	func(t float64) float64 { t--; return 1 - t*t*t*t },
	inOut(func(t float64) float64 { return t * t * t * t }),
	func(t float64) float64 { return t * t * t * t * t },
	func(t float64) float64 { t--; return t*t*t*t*t + 1 },
	inOut(func(t float64) float64 { return t * t * t * t * t }),
	func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 },
	func(t float64) float64 { return 1 - math.Sqrt(1-t*t) },
	func(t float64) float64 { t--; return math.Sqrt(1 - t*t) },
	inOut(func(t float64) float64 { return 1 - math.Sqrt(1-t*t) }),
	inExpo,
	outExpo,
	func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		case t < 0.5:
			return math.Pow(2, 20*t-10) / 2
		default:
			return (2 - math.Pow(2, -20*t+10)) / 2
		}
	},
	inElastic,
	func(t float64) float64 { return 1 - inElastic(1-t) },
	inOut(inElastic),
	inBack,
	func(t float64) float64 { return 1 - inBack(1-t) },
	inOut(inBack),
	func(t float64) float64 { return 1 - outBounce(1-t) },
	outBounce,
	func(t float64) float64 {
		if t < 0.5 {
			return (1 - outBounce(1-2*t)) / 2
		}
		return (1 + outBounce(2*t-1)) / 2
	},
}

// Apply evaluates the curve at t.
func (f Function) Apply(t float64) float64 {
	if f < 0 || f >= numFunctions {
		return t
	}
	return curves[f](t)
}

func (f Function) String() string {
	if f < 0 || f >= numFunctions {
		return fmt.Sprintf("Function(%d)", int(f))
	}
	return names[f]
}

// Parse resolves a curve by name. Names match case-insensitively and the
// "ease" prefix is optional, so "easeOutCubic" and "outcubic" are equal.
func Parse(name string) (Function, error) {
	key := normalize(name)
	for i, n := range names {
		if normalize(n) == key {
			return Function(i), nil
		}
	}
	return Linear, fmt.Errorf("%w %q", ErrUnknown, name)
}

// All lists every curve in table order.
func All() []Function {
	out := make([]Function, numFunctions)
	for i := range out {
		out[i] = Function(i)
	}
	return out
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(n, "ease")
}

// inOut mirrors an ease-in curve into a symmetric ease-in-out curve.
func inOut(in func(float64) float64) func(float64) float64 {
	return func(t float64) float64 {
		if t < 0.5 {
			return in(2*t) / 2
		}
		return 1 - in(2-2*t)/2
	}
}

func inExpo(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

func outExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func inElastic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	const c4 = 2 * math.Pi / 3
	return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*c4)
}

func inBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return c3*t*t*t - c1*t*t
}

func outBounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}
