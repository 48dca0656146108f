// Package technicolour generates procedural colours on wall-clock time and
// hands them to target categories through an ordered callback chain.
package technicolour

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/cbegin/chroma-go/internal/color"
)

// DefaultInterval is the wall-clock spacing between generator updates.
const DefaultInterval = 0.04

var ErrGeneratorHalted = errors.New("technicolour generator halted")

const (
	sideRate   = 0.1
	globalRate = 0.2
)

// CategoryConfig enables one category and picks its style.
type CategoryConfig struct {
	Enabled bool  `yaml:"enabled"`
	Style   Style `yaml:"style"`
}

type Config struct {
	BPM float64
	// Match gives both saber sides the same colours.
	Match    bool
	Interval float64
	Lights   CategoryConfig
	Notes    CategoryConfig
	Walls    CategoryConfig
	Bombs    CategoryConfig
	Sabers   CategoryConfig
}

// Targets receives generator output. Nil hooks are left out of the chain.
type Targets struct {
	Lights func(global, left, right color.Color) error
	Notes  func(left, right color.Color) error
	Walls  func(global color.Color) error
	Bombs  func(global color.Color) error
	Sabers func(left, right color.Color) error
}

// Step is one record of the callback chain.
type Step struct {
	Category Category
	Name     string
	run      func(now float64) error
}

type Generator struct {
	cfg            Config
	secondsPerBeat float64
	mismatch       float64
	steps          []Step
	logger         *slog.Logger
	rng            *rand.Rand

	lastRun  float64
	ran      bool
	halted   bool
	err      error
	gradient color.Color
	left     color.Color
	right    color.Color

	leftPalette  color.Palette
	rightPalette color.Palette

	h           float64
	lastRandom  float64
	randomLeft  [2]color.Color
	randomRight [2]color.Color
	saberLeft   color.Color
	saberRight  color.Color
}

type Option func(*Generator)

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithRand sets the source for random-walk hues.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// New builds the callback chain for the enabled categories. Lights, notes,
// walls and bombs join only with the Gradient style; sabers join with any
// style, preceded by the step that computes their colours.
func New(cfg Config, t Targets, opts ...Option) (*Generator, error) {
	if cfg.BPM <= 0 {
		return nil, fmt.Errorf("technicolour: bpm must be positive, got %v", cfg.BPM)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	g := &Generator{
		cfg:            cfg,
		secondsPerBeat: 60 / cfg.BPM,
		logger:         slog.Default(),
	}
	if !cfg.Match {
		g.mismatch = 0.5
	}
	for _, o := range opts {
		o(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	gradientOnly := func(c CategoryConfig) bool { return c.Enabled && c.Style == Gradient }
	if gradientOnly(cfg.Lights) && t.Lights != nil {
		g.add(Lights, "lights", func(float64) error { return t.Lights(g.gradient, g.left, g.right) })
	}
	if gradientOnly(cfg.Notes) && t.Notes != nil {
		g.add(Notes, "notes", func(float64) error { return t.Notes(g.left, g.right) })
	}
	if gradientOnly(cfg.Walls) && t.Walls != nil {
		g.add(Walls, "walls", func(float64) error { return t.Walls(g.gradient) })
	}
	if gradientOnly(cfg.Bombs) && t.Bombs != nil {
		g.add(Bombs, "bombs", func(float64) error { return t.Bombs(g.gradient) })
	}
	if cfg.Sabers.Enabled {
		switch cfg.Sabers.Style {
		case Gradient:
			g.add(Sabers, "gradient", g.gradientTick)
		case AnyPalette:
			g.leftPalette, g.rightPalette = color.CombinedPalette(), color.CombinedPalette()
			g.add(Sabers, "palette", g.paletteTick)
		case PureRandom:
			g.setupRandom()
			g.add(Sabers, "random", g.randomTick)
		default:
			g.leftPalette, g.rightPalette = color.WarmPalette, color.ColdPalette
			g.add(Sabers, "palette", g.paletteTick)
		}
		if t.Sabers != nil {
			g.add(Sabers, "sabers", func(float64) error { return t.Sabers(g.saberLeft, g.saberRight) })
		}
	}
	return g, nil
}

func (g *Generator) add(c Category, name string, run func(float64) error) {
	g.steps = append(g.steps, Step{Category: c, Name: name, run: run})
}

// Steps returns the callback chain in invocation order.
func (g *Generator) Steps() []Step {
	out := make([]Step, len(g.steps))
	copy(out, g.steps)
	return out
}

// Owns reports whether the generator drives a category.
func (g *Generator) Owns(c Category) bool {
	for _, s := range g.steps {
		if s.Category == c {
			return true
		}
	}
	return false
}

func (g *Generator) Halted() bool { return g.halted }

// Err returns the failure that halted the generator.
func (g *Generator) Err() error { return g.err }

func (g *Generator) Gradient() color.Color { return g.gradient }

// SideGradients returns the left and right gradient colours.
func (g *Generator) SideGradients() (left, right color.Color) { return g.left, g.right }

// SaberColors returns the last saber colours computed by the chain.
func (g *Generator) SaberColors() (left, right color.Color) { return g.saberLeft, g.saberRight }

// Tick runs the chain when at least one interval has passed since the last
// run. It reports whether the chain ran. A callback error or panic is
// logged and halts the generator; later ticks do nothing.
func (g *Generator) Tick(now float64) bool {
	if g.halted {
		return false
	}
	if g.ran && now-g.lastRun < g.cfg.Interval {
		return false
	}
	g.ran = true
	g.lastRun = now

	beats := now / g.secondsPerBeat
	g.gradient = color.HSV(color.Repeat(beats*globalRate, 1), 1, 1)
	g.left = color.HSV(color.Repeat(beats*sideRate+g.mismatch, 1), 1, 1)
	g.right = color.HSV(color.Repeat(beats*sideRate, 1), 1, 1)

	if err := g.runSteps(now); err != nil {
		g.halted = true
		g.err = fmt.Errorf("%w: %w", ErrGeneratorHalted, err)
		g.logger.Error("technicolour generator halted", "err", err)
		return false
	}
	return true
}

func (g *Generator) runSteps(now float64) (err error) {
	var current string
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", current, r)
		}
	}()
	for _, s := range g.steps {
		current = s.Name
		if err := s.run(now); err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
	}
	return nil
}

func (g *Generator) gradientTick(float64) error {
	g.saberLeft, g.saberRight = g.left, g.right
	return nil
}

func (g *Generator) paletteTick(now float64) error {
	g.saberLeft = g.leftPalette.Lerped((now + g.mismatch) / g.secondsPerBeat)
	g.saberRight = g.rightPalette.Lerped(now / g.secondsPerBeat)
	return nil
}
