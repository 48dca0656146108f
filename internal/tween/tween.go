// Package tween animates colours on song time. A Tween holds one
// target's transition; a Manager advances the Fading ones each tick.
package tween

import (
	"fmt"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/easing"
)

// State is a tween's position in its lifecycle.
type State int

const (
	Idle State = iota
	Fading
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Fading:
		return "Fading"
	case Settled:
		return "Settled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Tween interpolates From toward To between two song times. From and To
// may be rewritten while Fading; timing only changes through the Manager
// or SetStartAndEnd.
type Tween struct {
	From     color.Color
	To       color.Color
	Easing   easing.Function
	Space    color.Space
	Duration float64

	// ID is the light ID the tween animates, used for per-light lookahead.
	ID int
	// PreviousEvent is the last event a hard refresh applied.
	PreviousEvent *beatmap.TimedEvent

	start    float64
	end      float64
	progress float64
	value    color.Color
	state    State
	queued   bool
	onUpdate func(color.Color)
}

// New returns an Idle tween showing from. onUpdate, when set, receives
// every new value.
func New(from, to color.Color, id int, onUpdate func(color.Color)) *Tween {
	return &Tween{From: from, To: to, ID: id, value: from, onUpdate: onUpdate}
}

func (t *Tween) Value() color.Color { return t.value }
func (t *Tween) State() State       { return t.state }
func (t *Tween) Progress() float64  { return t.progress }

// Start and End are the song times bounding the current transition.
func (t *Tween) Start() float64 { return t.start }
func (t *Tween) End() float64   { return t.end }

// Kill stops the transition and snaps to To.
func (t *Tween) Kill() {
	t.state = Settled
	t.progress = 1
	t.set(t.To)
}

// SetColor shows c immediately without touching timing or state.
func (t *Tween) SetColor(c color.Color) { t.set(c) }

// ForceOnUpdate recomputes the value from the current endpoints at the
// current progress and publishes it.
func (t *Tween) ForceOnUpdate() { t.set(t.valueAt(t.progress)) }

// SetStartAndEnd retimes the transition to run between two song times.
func (t *Tween) SetStartAndEnd(start, end float64) {
	t.start = start
	t.end = end
	t.Duration = end - start
}

func (t *Tween) valueAt(p float64) color.Color {
	return color.Interpolate(t.Space, t.From, t.To, t.Easing.Apply(p))
}

func (t *Tween) set(c color.Color) {
	t.value = c
	if t.onUpdate != nil {
		t.onUpdate(c)
	}
}

// advance moves the tween to song time now and reports whether it is
// still Fading.
func (t *Tween) advance(now float64) bool {
	if t.state != Fading {
		return false
	}
	span := t.end - t.start
	if span <= 0 || now >= t.end {
		t.state = Settled
		t.progress = 1
		t.set(t.To)
		return false
	}
	p := (now - t.start) / span
	if p < 0 {
		p = 0
	}
	t.progress = p
	t.set(t.valueAt(p))
	return true
}
