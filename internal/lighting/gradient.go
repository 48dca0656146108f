package lighting

import (
	"maps"
	"slices"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
)

// GradientController runs authored gradients, at most one per event type,
// and pushes their colour into every channel of that type.
type GradientController struct {
	runs     map[beatmap.EventType]*gradientRun
	channels map[beatmap.EventType][]*Channel
}

type gradientRun struct {
	beatmap.Gradient
	start float64
}

// at returns the gradient colour at song time now and whether the
// gradient has finished.
func (r *gradientRun) at(now float64) (color.Color, bool) {
	elapsed := now - r.start
	switch {
	case elapsed < 0:
		return r.Start, false
	case elapsed < r.Duration:
		return color.Interpolate(r.LerpType, r.Start, r.End, r.Easing.Apply(elapsed/r.Duration)), false
	default:
		return r.End, true
	}
}

func NewGradientController() *GradientController {
	return &GradientController{
		runs:     map[beatmap.EventType]*gradientRun{},
		channels: map[beatmap.EventType][]*Channel{},
	}
}

func (gc *GradientController) attach(c *Channel) {
	t := c.EventType()
	gc.channels[t] = append(gc.channels[t], c)
}

// Add starts g for event type t at song time start, replacing any running
// gradient of that type, and returns its starting colour.
func (gc *GradientController) Add(g beatmap.Gradient, t beatmap.EventType, start float64) color.Color {
	gc.Cancel(t)
	r := &gradientRun{Gradient: g, start: start}
	gc.runs[t] = r
	c, _ := r.at(start)
	return c
}

func (gc *GradientController) Cancel(t beatmap.EventType) {
	delete(gc.runs, t)
}

func (gc *GradientController) IsActive(t beatmap.EventType) bool {
	_, ok := gc.runs[t]
	return ok
}

// Update colours every channel of each active gradient's type for song
// time now. Finished gradients apply their end colour and stop.
func (gc *GradientController) Update(now float64) {
	for _, t := range slices.Sorted(maps.Keys(gc.runs)) {
		c, done := gc.runs[t].at(now)
		if done {
			delete(gc.runs, t)
		}
		for _, ch := range gc.channels[t] {
			ch.Colorize(true, &c, &c, &c, &c)
		}
	}
}
