// Package dispatch walks a beatmap timeline as song time advances and hands
// due events to their subscribers.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/cbegin/chroma-go/internal/beatmap"
)

type (
	Handler       func(*beatmap.TimedEvent) error
	BoostHandler  func(on bool)
	CustomHandler func(beatmap.CustomEvent) error
)

type Options struct {
	Logger *slog.Logger
	// OnFinished fires once, after the last event has been dispatched.
	OnFinished func()
}

// Dispatcher keeps a cursor into the basic and custom event lists. It is
// driven from the tick loop and is not safe for concurrent use.
type Dispatcher struct {
	timeline *beatmap.Timeline
	events   []*beatmap.TimedEvent
	custom   []beatmap.CustomEvent
	next     int
	nextCust int

	subs     map[beatmap.EventType][]Handler
	boost    []BoostHandler
	handlers map[string][]CustomHandler

	logger     *slog.Logger
	onFinished func()
	finished   bool
	failures   int
}

func New(tl *beatmap.Timeline) *Dispatcher {
	return NewWithOptions(tl, Options{})
}

func NewWithOptions(tl *beatmap.Timeline, opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		timeline:   tl,
		events:     tl.Events(),
		custom:     tl.CustomEvents(),
		subs:       map[beatmap.EventType][]Handler{},
		handlers:   map[string][]CustomHandler{},
		logger:     logger,
		onFinished: opts.OnFinished,
	}
}

// Subscribe registers h for basic events of type t. Handlers run in
// subscription order.
func (d *Dispatcher) Subscribe(t beatmap.EventType, h Handler) {
	d.subs[t] = append(d.subs[t], h)
}

// SubscribeBoost registers h for colour boost toggles.
func (d *Dispatcher) SubscribeBoost(h BoostHandler) {
	d.boost = append(d.boost, h)
}

// SubscribeCustom registers h for custom events of the given type.
func (d *Dispatcher) SubscribeCustom(typ string, h CustomHandler) {
	d.handlers[typ] = append(d.handlers[typ], h)
}

func (d *Dispatcher) Timeline() *beatmap.Timeline { return d.timeline }

// Failures counts handler errors and panics since the last Reset.
func (d *Dispatcher) Failures() int { return d.failures }

// Done reports whether every event has been dispatched.
func (d *Dispatcher) Done() bool {
	return d.next >= len(d.events) && d.nextCust >= len(d.custom)
}

// Reset rewinds to the start of the timeline.
func (d *Dispatcher) Reset() {
	d.next, d.nextCust = 0, 0
	d.finished = false
	d.failures = 0
}

// Advance dispatches every event at or before songTime in time order and
// returns how many it dispatched. Custom events go before basic events at
// the same time. A failing handler is logged and the remaining events are
// still dispatched.
func (d *Dispatcher) Advance(songTime float64) int {
	n := 0
	for {
		useCustom := d.nextCust < len(d.custom) && d.custom[d.nextCust].Time <= songTime
		useBasic := d.next < len(d.events) && d.events[d.next].Time <= songTime
		if useCustom && useBasic && d.events[d.next].Time < d.custom[d.nextCust].Time {
			useCustom = false
		}
		switch {
		case useCustom:
			d.dispatchCustom(d.custom[d.nextCust])
			d.nextCust++
		case useBasic:
			d.dispatchBasic(d.events[d.next])
			d.next++
		default:
			if !d.finished && d.Done() {
				d.finished = true
				if d.onFinished != nil {
					d.onFinished()
				}
			}
			return n
		}
		n++
	}
}

func (d *Dispatcher) dispatchBasic(ev *beatmap.TimedEvent) {
	if ev.Type == beatmap.ColorBoost {
		on := ev.Value == 1
		for _, h := range d.boost {
			d.guard(ev.String(), func() error { h(on); return nil })
		}
	}
	for _, h := range d.subs[ev.Type] {
		d.guard(ev.String(), func() error { return h(ev) })
	}
}

func (d *Dispatcher) dispatchCustom(ev beatmap.CustomEvent) {
	for _, h := range d.handlers[ev.Type] {
		d.guard(ev.Type, func() error { return h(ev) })
	}
}

// guard runs one handler, turning errors and panics into a logged failure.
func (d *Dispatcher) guard(what string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}()
	if err != nil {
		d.failures++
		d.logger.Warn("event handler failed, skipping", "event", what, "err", err)
	}
}
