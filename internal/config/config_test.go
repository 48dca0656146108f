package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/technicolour"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Fixtures) != 5 || !cfg.Features {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Technicolour.Interval != technicolour.DefaultInterval {
		t.Fatalf("interval = %v", cfg.Technicolour.Interval)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "chroma.yaml")
	cfg := DefaultConfig()
	cfg.Scheme.Color0 = Color(color.RGB(1, 0, 0))
	cfg.Scheme.Color1 = Color(color.Color{R: 0.5, G: 0.25, B: 0.125, A: 0.5})
	cfg.Technicolour.Sabers = technicolour.CategoryConfig{Enabled: true, Style: technicolour.PureRandom}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "#ff0000") || !strings.Contains(string(data), "PURE_RANDOM") {
		t.Fatalf("unexpected encoding:\n%s", data)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scheme.Color0 != cfg.Scheme.Color0 || got.Scheme.Color1 != cfg.Scheme.Color1 {
		t.Fatalf("scheme = %+v", got.Scheme)
	}
	if got.Technicolour.Sabers != cfg.Technicolour.Sabers {
		t.Fatalf("sabers = %+v", got.Technicolour.Sabers)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chroma.yaml")
	doc := `
scheme:
  color0: "#00ff00"
fixtures:
  - {event: CenterLights, lights: 2, offIntensity: 0.1, startOff: true}
technicolour:
  walls: {enabled: true, style: gradient}
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if color.Color(cfg.Scheme.Color0) != color.RGB(0, 1, 0) {
		t.Fatalf("color0 = %v", cfg.Scheme.Color0)
	}
	if cfg.Scheme.White != DefaultConfig().Scheme.White {
		t.Fatalf("white lost its default")
	}
	if len(cfg.Fixtures) != 1 {
		t.Fatalf("fixtures = %+v", cfg.Fixtures)
	}
	fx, err := cfg.Fixtures[0].Fixture()
	if err != nil {
		t.Fatal(err)
	}
	if fx.EventType != beatmap.CenterLights || fx.LightOnStart || fx.OffColorIntensity != 0.1 {
		t.Fatalf("fixture = %+v", fx)
	}
	ts := cfg.TechnicolourSettings(128)
	if ts.BPM != 128 || !ts.Walls.Enabled || ts.Walls.Style != technicolour.Gradient {
		t.Fatalf("technicolour = %+v", ts)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad colour":     "scheme: {color0: red}\n",
		"short colour":   "scheme: {color0: [1, 0]}\n",
		"not a light":    "fixtures: [{event: RingZoom, lights: 1}]\n",
		"unknown event":  "fixtures: [{event: Lasers, lights: 1}]\n",
		"unknown style":  "technicolour: {sabers: {enabled: true, style: rainbow}}\n",
		"negative count": "fixtures: [{event: BackLasers, lights: -1}]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chroma.yaml")
			if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPropGroup(t *testing.T) {
	f := FixtureConfig{Lights: 4, PropGroups: 2}
	want := []int{0, 0, 1, 1}
	for i, g := range want {
		if got := f.PropGroup(i); got != g {
			t.Errorf("PropGroup(%d) = %d, want %d", i, got, g)
		}
	}
	if (FixtureConfig{Lights: 3}).PropGroup(2) != 0 {
		t.Error("single group should be 0")
	}
}
