// Package config loads and saves the engine settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/lighting"
	"github.com/cbegin/chroma-go/internal/technicolour"
)

// Color is a colour in the settings file, written as "#rrggbb" when that
// is exact and as [r, g, b, a] otherwise.
type Color color.Color

func (c Color) MarshalYAML() (any, error) {
	v := color.Color(c)
	if v.A == 1 {
		h := v.Hex()
		if p, err := color.ParseHex(h); err == nil && p == v {
			return h, nil
		}
	}
	return []float64{v.R, v.G, v.B, v.A}, nil
}

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		v, err := color.ParseHex(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: colour %q: %w", n.Line, n.Value, err)
		}
		*c = Color(v)
		return nil
	case yaml.SequenceNode:
		var ch []float64
		if err := n.Decode(&ch); err != nil {
			return err
		}
		if len(ch) < 3 || len(ch) > 4 {
			return fmt.Errorf("line %d: colour needs 3 or 4 components, got %d", n.Line, len(ch))
		}
		v := color.RGB(ch[0], ch[1], ch[2])
		if len(ch) == 4 {
			v.A = ch[3]
		}
		*c = Color(v)
		return nil
	default:
		return fmt.Errorf("line %d: colour must be a hex string or a list", n.Line)
	}
}

type SchemeConfig struct {
	Color0      Color `yaml:"color0"`
	Color1      Color `yaml:"color1"`
	Color0Boost Color `yaml:"color0Boost"`
	Color1Boost Color `yaml:"color1Boost"`
	White       Color `yaml:"white"`
	WhiteBoost  Color `yaml:"whiteBoost"`
}

// FixtureConfig declares one light group and how many lights it holds.
type FixtureConfig struct {
	Event        string  `yaml:"event"`
	LightsID     int     `yaml:"lightsID,omitempty"`
	Lights       int     `yaml:"lights"`
	OffIntensity float64 `yaml:"offIntensity,omitempty"`
	// StartOff registers the lights dimmed instead of lit.
	StartOff bool `yaml:"startOff,omitempty"`
	// PropGroups splits the lights into this many propagation groups.
	PropGroups int `yaml:"propGroups,omitempty"`
}

type TechnicolourConfig struct {
	Match    bool                        `yaml:"match"`
	Interval float64                     `yaml:"interval,omitempty"`
	Lights   technicolour.CategoryConfig `yaml:"lights"`
	Notes    technicolour.CategoryConfig `yaml:"notes"`
	Walls    technicolour.CategoryConfig `yaml:"walls"`
	Bombs    technicolour.CategoryConfig `yaml:"bombs"`
	Sabers   technicolour.CategoryConfig `yaml:"sabers"`
}

type LaunchpadConfig struct {
	PortName string `yaml:"portName,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	// Features enables custom colour data in beatmaps.
	Features     bool               `yaml:"features"`
	Scheme       SchemeConfig       `yaml:"scheme"`
	Fixtures     []FixtureConfig    `yaml:"fixtures"`
	Technicolour TechnicolourConfig `yaml:"technicolour"`
	Launchpad    LaunchpadConfig    `yaml:"launchpad,omitempty"`
}

// DefaultConfig returns the stock scheme with four lights on each of the
// five classic light groups and technicolour off.
func DefaultConfig() *Config {
	s := lighting.DefaultScheme()
	cfg := &Config{
		Features: true,
		Scheme: SchemeConfig{
			Color0:      Color(s.Color0),
			Color1:      Color(s.Color1),
			Color0Boost: Color(s.Color0Boost),
			Color1Boost: Color(s.Color1Boost),
			White:       Color(s.White),
			WhiteBoost:  Color(s.WhiteBoost),
		},
		Technicolour: TechnicolourConfig{
			Interval: technicolour.DefaultInterval,
			Sabers:   technicolour.CategoryConfig{Style: technicolour.WarmCold},
		},
		Launchpad: LaunchpadConfig{PortName: "Launchpad X LPX MIDI"},
	}
	for _, t := range []beatmap.EventType{beatmap.BackLasers, beatmap.RingLights, beatmap.LeftLasers, beatmap.RightLasers, beatmap.CenterLights} {
		cfg.Fixtures = append(cfg.Fixtures, FixtureConfig{Event: t.String(), Lights: 4, PropGroups: 2})
	}
	return cfg
}

// Load reads the config at path, or returns defaults if it does not exist.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks fixture declarations.
func (c *Config) Validate() error {
	for i, f := range c.Fixtures {
		if _, err := f.Fixture(); err != nil {
			return fmt.Errorf("fixture %d: %w", i, err)
		}
		if f.Lights < 0 {
			return fmt.Errorf("fixture %d: negative light count", i)
		}
	}
	return nil
}

func (c *Config) LightingScheme() lighting.Scheme {
	s := c.Scheme
	return lighting.Scheme{
		Color0:      color.Color(s.Color0),
		Color1:      color.Color(s.Color1),
		Color0Boost: color.Color(s.Color0Boost),
		Color1Boost: color.Color(s.Color1Boost),
		White:       color.Color(s.White),
		WhiteBoost:  color.Color(s.WhiteBoost),
	}
}

// Fixture converts the declaration into a lighting fixture.
func (f FixtureConfig) Fixture() (lighting.Fixture, error) {
	t, err := beatmap.ParseEventType(f.Event)
	if err != nil {
		return lighting.Fixture{}, err
	}
	if !t.IsLight() {
		return lighting.Fixture{}, fmt.Errorf("%v is not a light event type", t)
	}
	fx := lighting.DefaultFixture(t)
	fx.LightsID = f.LightsID
	fx.OffColorIntensity = f.OffIntensity
	fx.LightOnStart = !f.StartOff
	return fx, nil
}

// PropGroup returns the propagation group of the light at index i.
func (f FixtureConfig) PropGroup(i int) int {
	if f.PropGroups <= 1 || f.Lights <= 0 {
		return 0
	}
	per := (f.Lights + f.PropGroups - 1) / f.PropGroups
	return i / per
}

// TechnicolourSettings builds generator settings for a song tempo.
func (c *Config) TechnicolourSettings(bpm float64) technicolour.Config {
	t := c.Technicolour
	return technicolour.Config{
		BPM:      bpm,
		Match:    t.Match,
		Interval: t.Interval,
		Lights:   t.Lights,
		Notes:    t.Notes,
		Walls:    t.Walls,
		Bombs:    t.Bombs,
		Sabers:   t.Sabers,
	}
}
