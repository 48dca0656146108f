// Package lighting resolves beatmap light events into per-light colour
// transitions. A Channel owns one light switch (an event type and light
// group) and a tween for every light registered with it.
package lighting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/easing"
	"github.com/cbegin/chroma-go/internal/tween"
)

var (
	ErrDuplicateTarget      = errors.New("light already registered")
	ErrNoGradientController = errors.New("custom lighting features need a gradient controller")
)

// noCustomData stands in for events without a payload so that they clear
// earlier overrides.
var noCustomData beatmap.CustomData

// Light receives the colour its channel resolves. Lights are map keys,
// so implementations must be comparable; pointer types are typical.
type Light interface {
	SetColor(color.Color)
}

type Options struct {
	// Features enables custom data handling: colour overrides, light
	// selection, gradients and per-light lookahead.
	Features bool
	// Gradients is required when Features is set.
	Gradients *GradientController
	Logger    *slog.Logger
	// OnEventTriggered runs after custom data is applied and before the
	// lights refresh.
	OnEventTriggered func(*beatmap.TimedEvent)
	// OnRefresh runs after every hard or soft refresh.
	OnRefresh func()
}

// Transition is what an event value resolves to under a channel's
// current colours.
type Transition struct {
	Shape    Shape
	From     color.Color
	To       color.Color
	Duration float64
	Easing   easing.Function
}

type Channel struct {
	fixture   Fixture
	scheme    Scheme
	colorizer Colorizer
	boost     bool

	tweens  *tween.Manager
	lights  []Light
	byLight map[Light]*tween.Tween
	byID    map[int][]Light
	byProp  map[int][]Light

	features         bool
	gradients        *GradientController
	logger           *slog.Logger
	onEventTriggered func(*beatmap.TimedEvent)
	onRefresh        func()
}

func NewChannel(f Fixture, s Scheme, tweens *tween.Manager) *Channel {
	return NewChannelWithOptions(f, s, tweens, Options{})
}

func NewChannelWithOptions(f Fixture, s Scheme, tweens *tween.Manager, opts Options) *Channel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Channel{
		fixture:          f,
		scheme:           s,
		colorizer:        newColorizer(s),
		tweens:           tweens,
		byLight:          map[Light]*tween.Tween{},
		byID:             map[int][]Light{},
		byProp:           map[int][]Light{},
		features:         opts.Features,
		gradients:        opts.Gradients,
		logger:           logger.With("event", f.EventType.String(), "lightsID", f.LightsID),
		onEventTriggered: opts.OnEventTriggered,
		onRefresh:        opts.OnRefresh,
	}
	if c.gradients != nil {
		c.gradients.attach(c)
	}
	return c
}

func (c *Channel) EventType() beatmap.EventType { return c.fixture.EventType }
func (c *Channel) LightsID() int                { return c.fixture.LightsID }
func (c *Channel) Boosted() bool                { return c.boost }
func (c *Channel) Colorizer() *Colorizer        { return &c.colorizer }

// NormalColor is the resting colour for an event value, honouring
// authored overrides and boost.
func (c *Channel) NormalColor(value int) color.Color {
	m := c.fixture.Multipliers
	switch beatmap.SlotForValue(value) {
	case beatmap.Color1:
		if c.boost {
			return c.colorizer.Color(SlotColor1Boost).Mul(m.Light1Boost)
		}
		return c.colorizer.Color(SlotColor1).Mul(m.Light1)
	case beatmap.ColorW:
		return c.white()
	default:
		if c.boost {
			return c.colorizer.Color(SlotColor0Boost).Mul(m.Light0Boost)
		}
		return c.colorizer.Color(SlotColor0).Mul(m.Light0)
	}
}

// HighlightColor is the flash colour for an event value.
func (c *Channel) HighlightColor(value int) color.Color {
	slot := beatmap.SlotForValue(value)
	if slot == beatmap.ColorW {
		return c.white()
	}
	base := c.colorizer.Color(SlotColor0)
	switch {
	case slot == beatmap.Color1 && c.boost:
		base = c.colorizer.Color(SlotColor1Boost)
	case slot == beatmap.Color1:
		base = c.colorizer.Color(SlotColor1)
	case c.boost:
		base = c.colorizer.Color(SlotColor0Boost)
	}
	return base.Mul(c.highlightMultiplier(slot))
}

// baseNormalColor ignores authored overrides.
func (c *Channel) baseNormalColor(value int) color.Color {
	m := c.fixture.Multipliers
	switch beatmap.SlotForValue(value) {
	case beatmap.Color1:
		if c.boost {
			return c.scheme.Color1Boost.Mul(m.Light1Boost)
		}
		return c.scheme.Color1.Mul(m.Light1)
	case beatmap.ColorW:
		return c.white()
	default:
		if c.boost {
			return c.scheme.Color0Boost.Mul(m.Light0Boost)
		}
		return c.scheme.Color0.Mul(m.Light0)
	}
}

func (c *Channel) highlightMultiplier(slot beatmap.ColorSlot) color.Color {
	m := c.fixture.Multipliers
	switch {
	case slot == beatmap.Color1 && c.boost:
		return m.Highlight1Boost
	case slot == beatmap.Color1:
		return m.Highlight1
	case c.boost:
		return m.Highlight0Boost
	default:
		return m.Highlight0
	}
}

func (c *Channel) white() color.Color {
	if c.boost {
		return c.scheme.WhiteBoost
	}
	return c.scheme.White
}

// Resolve computes the transition for an event value and float value
// under the channel's current colours and boost state. It has no side
// effects.
func (c *Channel) Resolve(value int, floatValue float64) Transition {
	shape := ShapeFor(value)
	tr := Transition{Shape: shape}
	tr.Duration, tr.Easing = shape.Timing()
	switch shape {
	case ShapeOff:
		col := c.NormalColor(0).WithAlpha(c.fixture.OffColorIntensity * floatValue)
		tr.From, tr.To = col, col
	case ShapeInstant:
		col := c.NormalColor(value).MultAlpha(floatValue)
		tr.From, tr.To = col, col
	case ShapeFlash:
		tr.From = c.HighlightColor(value).MultAlpha(floatValue)
		tr.To = c.NormalColor(value).MultAlpha(floatValue)
	case ShapeFade:
		tr.From = c.HighlightColor(value).MultAlpha(floatValue)
		tr.To = c.NormalColor(value).WithAlpha(c.fixture.OffColorIntensity * floatValue)
	}
	return tr
}

// Register starts driving l. id is the light's ID within the group and
// propGroup its propagation group. A second registration of the same
// light is logged and rejected without touching the existing tween.
func (c *Channel) Register(l Light, id, propGroup int) error {
	if _, ok := c.byLight[l]; ok {
		c.logger.Error("attempted to register duplicate light", "id", id)
		return fmt.Errorf("%w: id %d", ErrDuplicateTarget, id)
	}
	col := c.NormalColor(0)
	if !c.fixture.LightOnStart {
		col = col.WithAlpha(c.fixture.OffColorIntensity)
	}
	tw := tween.New(col, col, id, l.SetColor)
	c.byLight[l] = tw
	c.lights = append(c.lights, l)
	c.byID[id] = append(c.byID[id], l)
	c.byProp[propGroup] = append(c.byProp[propGroup], l)
	tw.ForceOnUpdate()
	return nil
}

// Unregister kills the light's tween and forgets it. It reports whether
// the light was registered.
func (c *Channel) Unregister(l Light) bool {
	tw, ok := c.byLight[l]
	if !ok {
		return false
	}
	c.tweens.Remove(tw)
	delete(c.byLight, l)
	c.lights = without(c.lights, l)
	for id, ls := range c.byID {
		if ls = without(ls, l); len(ls) == 0 {
			delete(c.byID, id)
		} else {
			c.byID[id] = ls
		}
	}
	for g, ls := range c.byProp {
		if ls = without(ls, l); len(ls) == 0 {
			delete(c.byProp, g)
		} else {
			c.byProp[g] = ls
		}
	}
	return true
}

// Tween returns the tween driving l, or nil.
func (c *Channel) Tween(l Light) *tween.Tween { return c.byLight[l] }

// Len returns the number of registered lights.
func (c *Channel) Len() int { return len(c.lights) }

// Each visits registered lights in registration order.
func (c *Channel) Each(fn func(Light, *tween.Tween)) {
	for _, l := range c.lights {
		fn(l, c.byLight[l])
	}
}

// Colorize replaces the four slot overrides; nil clears a slot. With
// refresh set the lights pick up the new colours through a soft refresh.
func (c *Channel) Colorize(refresh bool, c0, c1, c0Boost, c1Boost *color.Color) {
	c.colorizer.set([slotCount]*color.Color{c0, c1, c0Boost, c1Boost})
	if refresh {
		c.Refresh(false, nil, nil, nil, nil)
	}
}

// HandleEvent applies a light event: custom data first (when enabled),
// then the event-triggered hook, then a hard refresh of the selected
// lights.
func (c *Channel) HandleEvent(ev *beatmap.TimedEvent) error {
	var (
		selected []Light
		ease     *easing.Function
		space    *color.Space
	)
	if c.features {
		if c.gradients == nil {
			return ErrNoGradientController
		}
		cd := ev.Custom
		if cd == nil {
			cd = &noCustomData
		}
		if cd.LightIDs != nil {
			selected = c.pick(c.byID, cd.LightIDs)
		}
		if cd.PropIDs != nil {
			selected = c.pick(c.byProp, cd.PropIDs)
		}
		var col *color.Color
		if cd.Gradient != nil {
			g := c.gradients.Add(*cd.Gradient, ev.Type, ev.Time)
			col = &g
		}
		if cd.Color != nil {
			col = cd.Color
			c.gradients.Cancel(ev.Type)
		}
		if col != nil {
			c.Colorize(false, col, col, col, col)
		} else if !c.gradients.IsActive(ev.Type) {
			c.Colorize(false, nil, nil, nil, nil)
		}
		ease, space = cd.Easing, cd.LerpType
	}
	if c.onEventTriggered != nil {
		c.onEventTriggered(ev)
	}
	c.Refresh(true, selected, ev, ease, space)
	return nil
}

// HandleBoost switches the boost colour set and soft-refreshes when the
// state changes.
func (c *Channel) HandleBoost(on bool) {
	if on == c.boost {
		return
	}
	c.boost = on
	c.Refresh(false, nil, nil, nil, nil)
}

// pick returns the lights for the given IDs. The result is never nil so
// unknown IDs select nothing rather than everything.
func (c *Channel) pick(index map[int][]Light, ids []int) []Light {
	out := []Light{}
	for _, id := range ids {
		out = append(out, index[id]...)
	}
	return out
}

// Refresh recomputes the selected lights (all lights when selected is
// nil). A hard refresh applies ev and retimes the tweens; a soft refresh
// replays each tween's previous event with the current colours and keeps
// its timing. Tweens with no previous event are skipped by a soft refresh.
func (c *Channel) Refresh(hard bool, selected []Light, ev *beatmap.TimedEvent, ease *easing.Function, space *color.Space) {
	if hard && ev == nil {
		panic("lighting: hard refresh without an event")
	}
	if selected == nil {
		selected = c.lights
	}
	for _, l := range selected {
		tw, ok := c.byLight[l]
		if !ok {
			continue
		}
		prev := tw.PreviousEvent
		if hard {
			tw.PreviousEvent = ev
			prev = ev
		} else if prev == nil {
			continue
		}
		c.apply(tw, prev, hard, ease, space)
	}
	if c.onRefresh != nil {
		c.onRefresh()
	}
}

func (c *Channel) apply(tw *tween.Tween, prev *beatmap.TimedEvent, hard bool, ease *easing.Function, space *color.Space) {
	tr := c.Resolve(prev.Value, prev.FloatValue)
	switch tr.Shape {
	case ShapeOff, ShapeInstant:
		if hard {
			c.tweens.Kill(tw)
		}
		tw.From, tw.To = tr.From, tr.To
		tw.SetColor(tr.To)
		c.lookahead(tw, prev, hard, ease, space)
	case ShapeFlash, ShapeFade:
		tw.From, tw.To = tr.From, tr.To
		tw.ForceOnUpdate()
		if hard {
			tw.Duration = tr.Duration
			tw.Easing = tr.Easing
			if ease != nil {
				tw.Easing = *ease
			}
			tw.Space = color.SpaceRGB
			if space != nil {
				tw.Space = *space
			}
			c.tweens.Restart(tw)
		}
	}
}

// lookahead turns a snap into a crossfade when the next event of the same
// type for this light declares a fade.
func (c *Channel) lookahead(tw *tween.Tween, prev *beatmap.TimedEvent, hard bool, ease *easing.Function, space *color.Space) {
	next := prev.NextSameType()
	if c.features {
		next = prev.NextSameTypeFor(tw.ID)
	}
	if next == nil || !beatmap.IsFadeValue(next.Value) {
		return
	}

	slot := beatmap.SlotForValue(next.Value)
	var nextColor color.Color
	if slot != beatmap.ColorW && c.features && next.Custom != nil && next.Custom.Color != nil {
		nextColor = next.Custom.Color.Mul(c.highlightMultiplier(slot))
	} else {
		nextColor = c.baseNormalColor(next.Value)
	}
	nextColor = nextColor.MultAlpha(next.FloatValue)

	prevColor := tw.To
	if prev.Value == 0 {
		prevColor = nextColor.WithAlpha(0)
	} else if !beatmap.IsFixedDurationValue(prev.Value) {
		prevColor = c.NormalColor(prev.Value).MultAlpha(prev.FloatValue)
	}

	tw.From, tw.To = prevColor, nextColor
	tw.ForceOnUpdate()
	if !hard {
		return
	}
	tw.SetStartAndEnd(prev.Time, next.Time)
	tw.Easing = easing.Linear
	if ease != nil {
		tw.Easing = *ease
	}
	tw.Space = color.SpaceRGB
	if space != nil {
		tw.Space = *space
	}
	c.tweens.Resume(tw)
}

func without(ls []Light, l Light) []Light {
	for i, x := range ls {
		if x == l {
			return append(ls[:i:i], ls[i+1:]...)
		}
	}
	return ls
}
