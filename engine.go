package chroma

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/cbegin/chroma-go/internal/beatmap"
	intcolor "github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/config"
	"github.com/cbegin/chroma-go/internal/dispatch"
	"github.com/cbegin/chroma-go/internal/lighting"
	"github.com/cbegin/chroma-go/internal/technicolour"
	"github.com/cbegin/chroma-go/internal/tween"
)

type (
	Color     = intcolor.Color
	EventType = beatmap.EventType
	Beatmap   = beatmap.Beatmap
	Config    = config.Config
)

var (
	ErrUnknownTarget = errors.New("unknown target handle")
	ErrNotALight     = errors.New("event type does not drive lights")
)

var (
	defaultWallColor = intcolor.RGB(1, 0.188, 0.188)
	defaultBombColor = intcolor.RGB(0.25, 0.25, 0.25)
)

// Notification is sent on the Watch channel.
type Notification struct {
	Kind     int // NotifyEventTriggered, NotifyTweenRefreshed or NotifyTimelineEnded
	Type     EventType
	LightsID int
	Time     float64
}

const (
	NotifyEventTriggered int = iota
	NotifyTweenRefreshed
	NotifyTimelineEnded
)

// Handle identifies a registered target.
type Handle int

type Option func(*engineConfig)

type engineConfig struct {
	cfg      *config.Config
	logger   *slog.Logger
	features *bool
	rng      *rand.Rand
}

func WithConfig(cfg *config.Config) Option {
	return func(ec *engineConfig) {
		ec.cfg = cfg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(ec *engineConfig) {
		ec.logger = l
	}
}

// WithFeatures overrides the config's custom data switch.
func WithFeatures(enabled bool) Option {
	return func(ec *engineConfig) {
		ec.features = &enabled
	}
}

// WithRand seeds technicolour's random walk, mainly for tests.
func WithRand(r *rand.Rand) Option {
	return func(ec *engineConfig) {
		ec.rng = r
	}
}

// target is one registered entity. Lights receive their colour from a
// channel tween; the other kinds hold a fixed authored colour.
type target struct {
	kind     technicolour.Category
	channel  *lighting.Channel
	left     bool
	authored Color
	tech     Color
	hasTech  bool
}

func (t *target) SetColor(c Color) { t.authored = c }

// Engine plays one beatmap. It is driven by Tick from a single goroutine;
// only Watch may be called concurrently.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	features bool
	bpm      float64

	tweens     *tween.Manager
	gradients  *lighting.GradientController
	channels   []*lighting.Channel
	dispatcher *dispatch.Dispatcher
	obstacles  *dispatch.ObstacleColors
	generator  *technicolour.Generator

	targets  map[Handle]*target
	byKind   map[technicolour.Category][]*target
	handles  int
	songTime float64

	eventCh   chan Notification
	eventChMu sync.Mutex
}

// Open loads a beatmap file and builds an engine for it.
func Open(path string, opts ...Option) (*Engine, error) {
	ec := resolveOptions(opts)
	bm, err := beatmap.Load(path, beatmap.Options{Features: ec.featuresOn(), Logger: ec.logger})
	if err != nil {
		return nil, err
	}
	return NewEngine(bm, opts...)
}

func resolveOptions(opts []Option) engineConfig {
	ec := engineConfig{}
	for _, opt := range opts {
		opt(&ec)
	}
	if ec.cfg == nil {
		ec.cfg = config.DefaultConfig()
	}
	if ec.logger == nil {
		ec.logger = slog.Default()
	}
	return ec
}

func (ec engineConfig) featuresOn() bool {
	if ec.features != nil {
		return *ec.features
	}
	return ec.cfg.Features
}

// NewEngine builds light channels for the configured fixtures, subscribes
// them to the beatmap's events and sets up technicolour when any category
// is enabled.
func NewEngine(bm *beatmap.Beatmap, opts ...Option) (*Engine, error) {
	if bm == nil || bm.Timeline == nil {
		return nil, errors.New("beatmap has no timeline")
	}
	ec := resolveOptions(opts)
	if err := ec.cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:       ec.cfg,
		logger:    ec.logger,
		features:  ec.featuresOn(),
		bpm:       bm.BPM,
		tweens:    tween.NewManager(),
		gradients: lighting.NewGradientController(),
		targets:   map[Handle]*target{},
		byKind:    map[technicolour.Category][]*target{},
	}
	e.dispatcher = dispatch.NewWithOptions(bm.Timeline, dispatch.Options{
		Logger: e.logger,
		OnFinished: func() {
			e.sendEvent(Notification{Kind: NotifyTimelineEnded, Time: e.songTime})
		},
	})
	e.obstacles = dispatch.LoadObstacleColors(bm.Timeline.CustomEvents(), e.logger)

	for i, fc := range e.cfg.Fixtures {
		fx, err := fc.Fixture()
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		if e.channel(fx.EventType, fx.LightsID) != nil {
			return nil, fmt.Errorf("fixture %d: %v group %d declared twice", i, fx.EventType, fx.LightsID)
		}
		e.addChannel(fx)
	}

	if err := e.setupTechnicolour(ec.rng); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) addChannel(fx lighting.Fixture) *lighting.Channel {
	var ch *lighting.Channel
	ch = lighting.NewChannelWithOptions(fx, e.cfg.LightingScheme(), e.tweens, lighting.Options{
		Features:  e.features,
		Gradients: e.gradients,
		Logger:    e.logger,
		OnEventTriggered: func(ev *beatmap.TimedEvent) {
			e.sendEvent(Notification{Kind: NotifyEventTriggered, Type: ev.Type, LightsID: ch.LightsID(), Time: ev.Time})
		},
		OnRefresh: func() {
			e.sendEvent(Notification{Kind: NotifyTweenRefreshed, Type: ch.EventType(), LightsID: ch.LightsID(), Time: e.songTime})
		},
	})
	e.channels = append(e.channels, ch)
	e.dispatcher.Subscribe(fx.EventType, ch.HandleEvent)
	e.dispatcher.SubscribeBoost(ch.HandleBoost)
	return ch
}

func (e *Engine) channel(t EventType, lightsID int) *lighting.Channel {
	for _, ch := range e.channels {
		if ch.EventType() == t && ch.LightsID() == lightsID {
			return ch
		}
	}
	return nil
}

func (e *Engine) setupTechnicolour(rng *rand.Rand) error {
	tc := e.cfg.TechnicolourSettings(e.bpm)
	if !(tc.Lights.Enabled || tc.Notes.Enabled || tc.Walls.Enabled || tc.Bombs.Enabled || tc.Sabers.Enabled) {
		return nil
	}
	if tc.Walls.Enabled && e.obstacles.Len() > 0 {
		e.logger.Info("obstacle colours present, technicolour walls disabled")
		tc.Walls.Enabled = false
	}
	opts := []technicolour.Option{technicolour.WithLogger(e.logger)}
	if rng != nil {
		opts = append(opts, technicolour.WithRand(rng))
	}
	g, err := technicolour.New(tc, technicolour.Targets{
		Lights: e.techLights,
		Notes:  e.techSides(technicolour.Notes),
		Walls:  e.techGlobal(technicolour.Walls),
		Bombs:  e.techGlobal(technicolour.Bombs),
		Sabers: e.techSides(technicolour.Sabers),
	}, opts...)
	if err != nil {
		return err
	}
	e.generator = g
	return nil
}

// techLights recolours each light by the slot of its last event: Color0
// takes the left gradient, Color1 the right and white the global one.
func (e *Engine) techLights(global, left, right Color) error {
	for _, t := range e.byKind[technicolour.Lights] {
		slot := beatmap.Color0
		if tw := t.channel.Tween(t); tw != nil && tw.PreviousEvent != nil {
			slot = beatmap.SlotForValue(tw.PreviousEvent.Value)
		}
		switch slot {
		case beatmap.Color1:
			t.tech = right
		case beatmap.ColorW:
			t.tech = global
		default:
			t.tech = left
		}
		t.hasTech = true
	}
	return nil
}

func (e *Engine) techSides(c technicolour.Category) func(left, right Color) error {
	return func(left, right Color) error {
		for _, t := range e.byKind[c] {
			t.tech = right
			if t.left {
				t.tech = left
			}
			t.hasTech = true
		}
		return nil
	}
}

func (e *Engine) techGlobal(c technicolour.Category) func(global Color) error {
	return func(global Color) error {
		for _, t := range e.byKind[c] {
			t.tech, t.hasTech = global, true
		}
		return nil
	}
}

// RegisterLight attaches a light to the channel for event type t and light
// group lightsID, creating the channel from defaults when the config does
// not declare it. id selects the light in lightID payloads and propGroup in
// legacy propID payloads.
func (e *Engine) RegisterLight(t EventType, lightsID, id, propGroup int) (Handle, error) {
	if !t.IsLight() {
		return 0, fmt.Errorf("%w: %v", ErrNotALight, t)
	}
	ch := e.channel(t, lightsID)
	if ch == nil {
		fx := lighting.DefaultFixture(t)
		fx.LightsID = lightsID
		ch = e.addChannel(fx)
	}
	tg := &target{kind: technicolour.Lights, channel: ch}
	if err := ch.Register(tg, id, propGroup); err != nil {
		return 0, err
	}
	return e.add(tg), nil
}

// RegisterConfiguredLights registers every light the config's fixtures
// declare, numbering light IDs from 1 within each fixture.
func (e *Engine) RegisterConfiguredLights() ([]Handle, error) {
	var out []Handle
	for _, fc := range e.cfg.Fixtures {
		fx, err := fc.Fixture()
		if err != nil {
			return out, err
		}
		for i := 0; i < fc.Lights; i++ {
			h, err := e.RegisterLight(fx.EventType, fx.LightsID, i+1, fc.PropGroup(i))
			if err != nil {
				return out, err
			}
			out = append(out, h)
		}
	}
	return out, nil
}

// RegisterNote registers a note glyph for the left or right hand.
func (e *Engine) RegisterNote(left bool) Handle {
	s := e.cfg.LightingScheme()
	c := s.Color1
	if left {
		c = s.Color0
	}
	return e.add(&target{kind: technicolour.Notes, left: left, authored: c})
}

// RegisterWall registers a wall spawned at song time t. It takes the
// latest obstacle colour at or before t.
func (e *Engine) RegisterWall(t float64) Handle {
	c, ok := e.obstacles.ColorAt(t)
	if !ok {
		c = defaultWallColor
	}
	return e.add(&target{kind: technicolour.Walls, authored: c})
}

func (e *Engine) RegisterBomb() Handle {
	return e.add(&target{kind: technicolour.Bombs, authored: defaultBombColor})
}

func (e *Engine) RegisterSaber(left bool) Handle {
	s := e.cfg.LightingScheme()
	c := s.Color1
	if left {
		c = s.Color0
	}
	return e.add(&target{kind: technicolour.Sabers, left: left, authored: c})
}

func (e *Engine) add(t *target) Handle {
	e.handles++
	h := Handle(e.handles)
	e.targets[h] = t
	e.byKind[t.kind] = append(e.byKind[t.kind], t)
	return h
}

// UnregisterTarget detaches a target. A light's tween is killed and
// dropped with it.
func (e *Engine) UnregisterTarget(h Handle) error {
	t, ok := e.targets[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTarget, h)
	}
	if t.channel != nil {
		t.channel.Unregister(t)
	}
	delete(e.targets, h)
	list := e.byKind[t.kind]
	for i, x := range list {
		if x == t {
			e.byKind[t.kind] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	return nil
}

// Tick advances the engine: due events are dispatched, gradients and
// tweens advance on song time, then technicolour runs on wall time.
func (e *Engine) Tick(songTime, wallTime float64) {
	e.songTime = songTime
	e.tweens.SetTime(songTime)
	e.dispatcher.Advance(songTime)
	e.gradients.Update(songTime)
	e.tweens.Tick(songTime)
	if e.generator != nil {
		e.generator.Tick(wallTime)
	}
}

// ResolvedColor returns the colour a target should show now. Categories
// owned by a running technicolour generator show its colour; lights keep
// their authored alpha.
func (e *Engine) ResolvedColor(h Handle) (Color, bool) {
	t, ok := e.targets[h]
	if !ok {
		return Color{}, false
	}
	if t.hasTech && e.generator != nil && !e.generator.Halted() {
		if t.kind == technicolour.Lights {
			return t.tech.WithAlpha(t.authored.A), true
		}
		return t.tech, true
	}
	return t.authored, true
}

// SubscribeCustom forwards custom events of the given type to h.
func (e *Engine) SubscribeCustom(typ string, h func(at float64, data []byte) error) {
	e.dispatcher.SubscribeCustom(typ, func(ev beatmap.CustomEvent) error {
		return h(ev.Time, ev.Data)
	})
}

func (e *Engine) SongTime() float64 { return e.songTime }

// Length is the time of the last event in the timeline.
func (e *Engine) Length() float64 { return e.dispatcher.Timeline().End() }

// Done reports whether every event has been dispatched.
func (e *Engine) Done() bool { return e.dispatcher.Done() }

// Failures counts event handlers that failed and were skipped.
func (e *Engine) Failures() int { return e.dispatcher.Failures() }

// ActiveTweens counts lights that are still fading.
func (e *Engine) ActiveTweens() int { return e.tweens.Active() }

// Technicolour returns the generator, or nil when every category is off.
func (e *Engine) Technicolour() *technicolour.Generator { return e.generator }

// Channels lists light channels in creation order.
func (e *Engine) Channels() []*lighting.Channel {
	out := make([]*lighting.Channel, len(e.channels))
	copy(out, e.channels)
	return out
}

// Watch returns a channel that receives notifications:
//   - NotifyEventTriggered: a light event was applied to a channel
//   - NotifyTweenRefreshed: a channel recomputed its tweens
//   - NotifyTimelineEnded: the last event has been dispatched
//
// The channel is buffered; notifications are dropped while it is full.
// Only the most recent Watch channel receives notifications.
func (e *Engine) Watch() <-chan Notification {
	ch := make(chan Notification, 64)
	e.eventChMu.Lock()
	e.eventCh = ch
	e.eventChMu.Unlock()
	return ch
}

func (e *Engine) sendEvent(n Notification) {
	e.eventChMu.Lock()
	ch := e.eventCh
	e.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- n:
		default:
		}
	}
}
