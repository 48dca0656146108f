package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/chroma-go"
	"github.com/cbegin/chroma-go/internal/config"
)

const (
	windowW = 960
	windowH = 600

	padW   = 48
	padH   = 32
	padGap = 8
	rowH   = padH + 24
)

var (
	bgColor     = color.RGBA{12, 12, 18, 255}
	panelColor  = color.RGBA{28, 28, 40, 255}
	borderColor = color.RGBA{64, 64, 84, 255}
)

type fixtureRow struct {
	label  string
	lights []chroma.Handle
}

type game struct {
	beatmapPath string
	cfg         *config.Config
	logger      *slog.Logger

	engine *chroma.Engine
	events <-chan chroma.Notification
	rows   []fixtureRow
	sabers [2]chroma.Handle
	notes  [2]chroma.Handle
	bomb   chroma.Handle

	start    time.Time
	wall     time.Time
	pausedAt float64
	paused   bool
	speed    float64

	flashes int
	status  string
}

func newGame(path string, cfg *config.Config, logger *slog.Logger, speed float64) (*game, error) {
	g := &game{beatmapPath: path, cfg: cfg, logger: logger, speed: speed, wall: time.Now()}
	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// restart rebuilds the engine; all state is derived from the timeline.
func (g *game) restart() error {
	e, err := chroma.Open(g.beatmapPath, chroma.WithConfig(g.cfg), chroma.WithLogger(g.logger))
	if err != nil {
		return err
	}
	g.engine = e
	g.events = e.Watch()
	g.rows = g.rows[:0]
	for _, fc := range g.cfg.Fixtures {
		fx, err := fc.Fixture()
		if err != nil {
			return err
		}
		row := fixtureRow{label: fmt.Sprintf("%v/%d", fx.EventType, fx.LightsID)}
		for i := 0; i < fc.Lights; i++ {
			h, err := e.RegisterLight(fx.EventType, fx.LightsID, i+1, fc.PropGroup(i))
			if err != nil {
				return err
			}
			row.lights = append(row.lights, h)
		}
		g.rows = append(g.rows, row)
	}
	g.sabers = [2]chroma.Handle{e.RegisterSaber(true), e.RegisterSaber(false)}
	g.notes = [2]chroma.Handle{e.RegisterNote(true), e.RegisterNote(false)}
	g.bomb = e.RegisterBomb()
	g.start = time.Now()
	g.pausedAt = 0
	g.paused = false
	g.flashes = 0
	g.status = "Playing"
	return nil
}

func (g *game) songTime() float64 {
	if g.paused {
		return g.pausedAt
	}
	return time.Since(g.start).Seconds() * g.speed
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.restart(); err != nil {
			g.status = "Restart failed: " + err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !g.paused {
		g.engine.Tick(g.songTime(), time.Since(g.wall).Seconds())
	}
	g.pollEvents()
	return nil
}

func (g *game) togglePause() {
	if g.paused {
		// shift the start so song time resumes where it stopped
		g.start = time.Now().Add(-time.Duration(g.pausedAt / g.speed * float64(time.Second)))
		g.paused = false
		g.status = "Playing"
		return
	}
	g.pausedAt = g.songTime()
	g.paused = true
	g.status = "Paused"
}

func (g *game) pollEvents() {
	for {
		select {
		case ev := <-g.events:
			switch ev.Kind {
			case chroma.NotifyEventTriggered:
				g.flashes++
			case chroma.NotifyTimelineEnded:
				g.status = "Timeline ended"
			}
		default:
			return
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	y := 16
	for _, row := range g.rows {
		ebitenutil.DebugPrintAt(screen, row.label, 16, y)
		for i, h := range row.lights {
			x := 16 + i*(padW+padGap)
			g.drawTarget(screen, image.Rect(x, y+16, x+padW, y+16+padH), h)
		}
		y += rowH
	}

	y += 8
	ebitenutil.DebugPrintAt(screen, "sabers / notes / bomb", 16, y)
	y += 16
	g.drawTarget(screen, image.Rect(16, y, 16+padW*3, y+padH/2), g.sabers[0])
	g.drawTarget(screen, image.Rect(24+padW*3, y, 24+padW*6, y+padH/2), g.sabers[1])
	g.drawTarget(screen, image.Rect(40+padW*6, y, 40+padW*7, y+padH), g.notes[0])
	g.drawTarget(screen, image.Rect(48+padW*7, y, 48+padW*8, y+padH), g.notes[1])
	g.drawTarget(screen, image.Rect(64+padW*8, y, 64+padW*8+padH, y+padH), g.bomb)

	tech := "off"
	if gen := g.engine.Technicolour(); gen != nil {
		tech = "on"
		if gen.Halted() {
			tech = "halted"
		}
	}
	info := fmt.Sprintf("%s  t=%.2fs / %.2fs  events=%d  fading=%d  failures=%d  technicolour=%s\nspace: pause  r: restart  esc: quit",
		g.status, g.songTime(), g.engine.Length(), g.flashes, g.engine.ActiveTweens(), g.engine.Failures(), tech)
	ebitenutil.DebugPrintAt(screen, info, 16, windowH-40)
}

// drawTarget fills rect with the target's colour as an additive light on
// the panel background.
func (g *game) drawTarget(screen *ebiten.Image, rect image.Rectangle, h chroma.Handle) {
	x, y := float64(rect.Min.X), float64(rect.Min.Y)
	w, ht := float64(rect.Dx()), float64(rect.Dy())
	ebitenutil.DrawRect(screen, x-1, y-1, w+2, ht+2, borderColor)
	ebitenutil.DrawRect(screen, x, y, w, ht, panelColor)
	c, ok := g.engine.ResolvedColor(h)
	if !ok {
		return
	}
	r, gr, b, _ := c.Premultiplied().RGBA8()
	ebitenutil.DrawRect(screen, x, y, w, ht, color.RGBA{r, gr, b, 255})
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

func main() {
	var (
		configPath = flag.String("config", "chroma.yaml", "path to the config file")
		speed      = flag.Float64("speed", 1, "playback speed")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: chroma_preview [flags] <beatmap>")
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *speed <= 0 {
		log.Fatal("-speed must be positive")
	}
	g, err := newGame(flag.Arg(0), cfg, logger, *speed)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("chroma-go preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
