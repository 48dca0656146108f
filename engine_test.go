package chroma

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/cbegin/chroma-go/internal/beatmap"
	intcolor "github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/config"
	"github.com/cbegin/chroma-go/internal/technicolour"
)

var (
	red  = intcolor.RGB(1, 0, 0)
	blue = intcolor.RGB(0, 0, 1)
	cyan = intcolor.RGB(0, 1, 1)
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scheme.Color0 = config.Color(red)
	cfg.Scheme.Color1 = config.Color(blue)
	cfg.Scheme.Color0Boost = config.Color(intcolor.RGB(0, 1, 0))
	cfg.Fixtures = []config.FixtureConfig{{Event: "BackLasers", Lights: 2, OffIntensity: 0.2}}
	return cfg
}

func parseBeatmap(t *testing.T, js string, features bool) *beatmap.Beatmap {
	t.Helper()
	bm, err := beatmap.Parse([]byte(js), beatmap.Options{Features: features})
	if err != nil {
		t.Fatalf("parse beatmap: %v", err)
	}
	return bm
}

func newTestEngine(t *testing.T, js string, cfg *config.Config, opts ...Option) (*Engine, []Handle) {
	t.Helper()
	e, err := NewEngine(parseBeatmap(t, js, cfg.Features), append([]Option{WithConfig(cfg)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	lights, err := e.RegisterConfiguredLights()
	if err != nil {
		t.Fatalf("register lights: %v", err)
	}
	return e, lights
}

func mustColor(t *testing.T, e *Engine, h Handle) Color {
	t.Helper()
	c, ok := e.ResolvedColor(h)
	if !ok {
		t.Fatalf("handle %d not registered", h)
	}
	return c
}

const onThenOff = `{"bpm": 120, "events": [
	{"time": 0, "type": 0, "value": 1, "customData": {"color": [1, 0, 0]}},
	{"time": 1, "type": 0, "value": 0}
]}`

func TestRedThenOffSnapsAtEachEvent(t *testing.T) {
	e, lights := newTestEngine(t, onThenOff, testConfig())
	off := red.WithAlpha(0.2)
	steps := []struct {
		at   float64
		want Color
	}{
		{0, red},
		{0.5, red},
		{0.999, red},
		{1, off},
		{1.5, off},
	}
	for _, s := range steps {
		e.Tick(s.at, s.at)
		if n := e.ActiveTweens(); n != 0 {
			t.Fatalf("t=%v: %d tweens fading, want snaps only", s.at, n)
		}
		for _, h := range lights {
			if got := mustColor(t, e, h); !got.ApproxEqual(s.want, 1e-9) {
				t.Fatalf("t=%v light %d = %v, want %v", s.at, h, got, s.want)
			}
		}
	}
}

func TestFlashSettlesOnNormalColour(t *testing.T) {
	js := `{"bpm": 120, "events": [{"time": 0, "type": 0, "value": 2}]}`
	e, lights := newTestEngine(t, js, testConfig())
	e.Tick(0, 0)
	if n := e.ActiveTweens(); n != len(lights) {
		t.Fatalf("active tweens = %d, want %d", n, len(lights))
	}
	e.Tick(0.5, 0.5)
	if n := e.ActiveTweens(); n != len(lights) {
		t.Fatalf("flash ended early: %d tweens active at 0.5s", n)
	}
	e.Tick(0.7, 0.7)
	if n := e.ActiveTweens(); n != 0 {
		t.Fatalf("active tweens after window = %d", n)
	}
	if got := mustColor(t, e, lights[0]); !got.ApproxEqual(blue, 1e-9) {
		t.Fatalf("settled colour = %v, want %v", got, blue)
	}
}

func TestBoostEventRecolours(t *testing.T) {
	js := `{"bpm": 120, "events": [
		{"time": 0, "type": 0, "value": 5},
		{"time": 1, "type": 5, "value": 1},
		{"time": 2, "type": 5, "value": 0}
	]}`
	e, lights := newTestEngine(t, js, testConfig())
	e.Tick(0, 0)
	if got := mustColor(t, e, lights[0]); !got.ApproxEqual(red, 1e-9) {
		t.Fatalf("before boost = %v", got)
	}
	e.Tick(1, 1)
	if got := mustColor(t, e, lights[0]); !got.ApproxEqual(intcolor.RGB(0, 1, 0), 1e-9) {
		t.Fatalf("boosted = %v, want green", got)
	}
	e.Tick(2, 2)
	if got := mustColor(t, e, lights[0]); !got.ApproxEqual(red, 1e-9) {
		t.Fatalf("after boost = %v", got)
	}
}

func TestFeaturesOffIgnoresCustomColour(t *testing.T) {
	e, lights := newTestEngine(t, onThenOff, testConfig(), WithFeatures(false))
	e.Tick(0, 0)
	if got := mustColor(t, e, lights[0]); !got.ApproxEqual(blue, 1e-9) {
		t.Fatalf("colour = %v, want scheme blue", got)
	}
}

func TestWatchOrdersNotifications(t *testing.T) {
	js := `{"bpm": 120, "events": [{"time": 0, "type": 0, "value": 1}]}`
	e, _ := newTestEngine(t, js, testConfig())
	ch := e.Watch()
	e.Tick(0, 0)
	var kinds []int
	for len(ch) > 0 {
		n := <-ch
		kinds = append(kinds, n.Kind)
		if n.Kind != NotifyTimelineEnded && (n.Type != beatmap.BackLasers || n.LightsID != 0) {
			t.Fatalf("notification for %v/%d", n.Type, n.LightsID)
		}
	}
	want := []int{NotifyEventTriggered, NotifyTweenRefreshed, NotifyTimelineEnded}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	if !e.Done() {
		t.Fatal("engine should be done")
	}
}

func TestUnregisterTarget(t *testing.T) {
	e, lights := newTestEngine(t, onThenOff, testConfig())
	ch := e.Channels()[0]
	if err := e.UnregisterTarget(lights[0]); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if ch.Len() != 1 {
		t.Fatalf("channel still has %d lights", ch.Len())
	}
	if _, ok := e.ResolvedColor(lights[0]); ok {
		t.Fatal("unregistered light still resolves")
	}
	if err := e.UnregisterTarget(lights[0]); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("second unregister err = %v", err)
	}
	e.Tick(0, 0)
	if got := mustColor(t, e, lights[1]); !got.ApproxEqual(red, 1e-9) {
		t.Fatalf("remaining light = %v", got)
	}
}

func TestRegisterLightCreatesUndeclaredChannel(t *testing.T) {
	e, _ := newTestEngine(t, onThenOff, testConfig())
	if _, err := e.RegisterLight(beatmap.ColorBoost, 0, 1, 0); !errors.Is(err, ErrNotALight) {
		t.Fatalf("boost registration err = %v", err)
	}
	before := len(e.Channels())
	if _, err := e.RegisterLight(beatmap.RingLights, 3, 1, 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := e.RegisterLight(beatmap.RingLights, 3, 2, 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := len(e.Channels()); got != before+1 {
		t.Fatalf("channels = %d, want %d", got, before+1)
	}
}

func TestDuplicateFixtureRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Fixtures = append(cfg.Fixtures, cfg.Fixtures[0])
	if _, err := NewEngine(parseBeatmap(t, onThenOff, true), WithConfig(cfg)); err == nil {
		t.Fatal("expected duplicate fixture error")
	}
}

const obstacleMap = `{"bpm": 120, "events": [], "customEvents": [
	{"time": 0, "type": "_obstacleColor", "data": {"r": 1, "g": 1, "b": 0}},
	{"time": 2, "type": "_obstacleColor", "data": {"r": 0, "g": 1, "b": 1}}
]}`

func TestWallsTakeObstacleColour(t *testing.T) {
	e, _ := newTestEngine(t, obstacleMap, testConfig())
	cases := []struct {
		at   float64
		want Color
	}{
		{-1, defaultWallColor},
		{0, intcolor.RGB(1, 1, 0)},
		{1.5, intcolor.RGB(1, 1, 0)},
		{2, cyan},
	}
	for _, c := range cases {
		if got := mustColor(t, e, e.RegisterWall(c.at)); !got.ApproxEqual(c.want, 1e-9) {
			t.Errorf("wall at %v = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestObstacleColoursDisableTechnicolourWalls(t *testing.T) {
	cfg := testConfig()
	cfg.Technicolour.Walls = technicolour.CategoryConfig{Enabled: true, Style: technicolour.Gradient}
	e, _ := newTestEngine(t, obstacleMap, cfg)
	if e.Technicolour() == nil {
		t.Fatal("generator not created")
	}
	if e.Technicolour().Owns(technicolour.Walls) {
		t.Fatal("walls should be left to obstacle colours")
	}
}

func TestTechnicolourSupersedesAuthoredColours(t *testing.T) {
	cfg := testConfig()
	cfg.Technicolour.Lights = technicolour.CategoryConfig{Enabled: true, Style: technicolour.Gradient}
	cfg.Technicolour.Sabers = technicolour.CategoryConfig{Enabled: true, Style: technicolour.Gradient}
	js := `{"bpm": 60, "events": [{"time": 0, "type": 0, "value": 1, "floatValue": 0.5}]}`
	e, lights := newTestEngine(t, js, cfg, WithRand(rand.New(rand.NewPCG(1, 2))))
	left, right := e.RegisterSaber(true), e.RegisterSaber(false)
	note := e.RegisterNote(true)

	e.Tick(0, 0)
	// At beat 0 the right side hue is 0 and the left is offset by half a turn.
	if got := mustColor(t, e, lights[0]); !got.ApproxEqual(red.WithAlpha(0.5), 1e-6) {
		t.Fatalf("light = %v, want right gradient at authored alpha", got)
	}
	if got := mustColor(t, e, left); !got.ApproxEqual(cyan, 1e-6) {
		t.Fatalf("left saber = %v, want %v", got, cyan)
	}
	if got := mustColor(t, e, right); !got.ApproxEqual(red, 1e-6) {
		t.Fatalf("right saber = %v, want %v", got, red)
	}
	// notes are not enabled and keep the scheme colour
	if got := mustColor(t, e, note); !got.ApproxEqual(red, 1e-9) {
		t.Fatalf("note = %v, want scheme colour", got)
	}
}

func TestTechnicolourNeedsTempo(t *testing.T) {
	cfg := testConfig()
	cfg.Technicolour.Sabers.Enabled = true
	js := `{"events": [{"time": 0, "type": 0, "value": 1}]}`
	if _, err := NewEngine(parseBeatmap(t, js, true), WithConfig(cfg)); err == nil {
		t.Fatal("expected an error without bpm")
	}
}

func TestFailingCustomHandlerDoesNotStopPlayback(t *testing.T) {
	js := `{"bpm": 120, "events": [{"time": 1, "type": 0, "value": 5}],
		"customEvents": [{"time": 0.5, "type": "ping", "data": {"n": 1}}]}`
	e, lights := newTestEngine(t, js, testConfig())
	var got []float64
	e.SubscribeCustom("ping", func(at float64, data []byte) error {
		got = append(got, at)
		return errors.New("boom")
	})
	e.Tick(1, 1)
	if len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("custom handler calls = %v", got)
	}
	if e.Failures() != 1 {
		t.Fatalf("failures = %d, want 1", e.Failures())
	}
	if c := mustColor(t, e, lights[0]); !c.ApproxEqual(red, 1e-9) {
		t.Fatalf("light after failed custom event = %v", c)
	}
}
