package easing

import (
	"errors"
	"math"
	"testing"
)

func TestEveryCurveHitsEndpoints(t *testing.T) {
	for _, f := range All() {
		if f == Step {
			continue
		}
		if got := f.Apply(0); math.Abs(got) > 1e-9 {
			t.Errorf("%v(0) = %v, want 0", f, got)
		}
		if got := f.Apply(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%v(1) = %v, want 1", f, got)
		}
	}
}

func TestStepHoldsUntilEnd(t *testing.T) {
	if Step.Apply(0.99) != 0 || Step.Apply(1) != 1 {
		t.Fatalf("step should be 0 before the end and 1 at the end")
	}
}

func TestOutCubicAndOutExpoShape(t *testing.T) {
	if got := OutCubic.Apply(0.5); math.Abs(got-0.875) > 1e-9 {
		t.Errorf("easeOutCubic(0.5) = %v, want 0.875", got)
	}
	if got := OutExpo.Apply(0.5); math.Abs(got-(1-math.Pow(2, -5))) > 1e-9 {
		t.Errorf("easeOutExpo(0.5) = %v", got)
	}
	if got := InOutQuad.Apply(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("easeInOutQuad(0.5) = %v, want 0.5", got)
	}
}

func TestParseAcceptsLooseNames(t *testing.T) {
	cases := map[string]Function{
		"easeOutCubic":  OutCubic,
		"outcubic":      OutCubic,
		" EaseInOutExpo": InOutExpo,
		"easeLinear":    Linear,
	}
	for name, want := range cases {
		got, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	if _, err := Parse("easeSideways"); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestNamesRoundTrip(t *testing.T) {
	for _, f := range All() {
		got, err := Parse(f.String())
		if err != nil || got != f {
			t.Errorf("Parse(%q) = %v, %v", f.String(), got, err)
		}
	}
}
