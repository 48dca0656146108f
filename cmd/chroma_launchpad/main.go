package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/cbegin/chroma-go"
	"github.com/cbegin/chroma-go/internal/config"
	"github.com/cbegin/chroma-go/internal/launchpad"
)

func main() {
	var (
		configPath = flag.String("config", "chroma.yaml", "path to the config file")
		port       = flag.String("port", "", "MIDI output port (default from config)")
		fps        = flag.Int("fps", 60, "grid refresh rate")
		loop       = flag.Bool("loop", false, "restart the beatmap when it ends")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: chroma_launchpad [flags] <beatmap>")
	}
	defer gomidi.CloseDriver()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	name := cfg.Launchpad.PortName
	if *port != "" {
		name = *port
	}
	out, err := launchpad.FindOut(name)
	if err != nil {
		log.Fatalf("find port %q: %v", name, err)
	}
	grid, err := launchpad.Open(out)
	if err != nil {
		log.Fatal(err)
	}
	defer grid.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		done, err := play(flag.Arg(0), cfg, logger, grid, *fps, stop)
		if err != nil {
			log.Fatal(err)
		}
		if !done || !*loop {
			return
		}
	}
}

// play runs the beatmap once. Fixtures fill the grid from the bottom row,
// one light per pad; the top row shows the sabers. It reports false when
// interrupted.
func play(path string, cfg *config.Config, logger *slog.Logger, grid *launchpad.Grid, fps int, stop <-chan os.Signal) (bool, error) {
	e, err := chroma.Open(path, chroma.WithConfig(cfg), chroma.WithLogger(logger))
	if err != nil {
		return false, err
	}
	type pad struct {
		row, col int
		h        chroma.Handle
	}
	var pads []pad
	for row, fc := range cfg.Fixtures {
		if row >= launchpad.Rows-1 {
			logger.Warn("fixture does not fit on the grid", "event", fc.Event)
			continue
		}
		fx, err := fc.Fixture()
		if err != nil {
			return false, err
		}
		for i := 0; i < fc.Lights && i < launchpad.Cols; i++ {
			h, err := e.RegisterLight(fx.EventType, fx.LightsID, i+1, fc.PropGroup(i))
			if err != nil {
				return false, err
			}
			pads = append(pads, pad{row, i, h})
		}
	}
	left, right := e.RegisterSaber(true), e.RegisterSaber(false)
	for col := 0; col < launchpad.Cols; col++ {
		h := right
		if col < launchpad.Cols/2 {
			h = left
		}
		pads = append(pads, pad{launchpad.Rows - 1, col, h})
	}

	ticker := time.NewTicker(time.Second / time.Duration(max(1, fps)))
	defer ticker.Stop()
	start := time.Now()
	end := e.Length() + 2
	for {
		select {
		case <-stop:
			return false, nil
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			e.Tick(t, t)
			for _, p := range pads {
				c, _ := e.ResolvedColor(p.h)
				if err := grid.Set(p.row, p.col, c); err != nil {
					return false, err
				}
			}
			if t > end {
				logger.Info("beatmap finished", "midiMessages", grid.Sent(), "failures", e.Failures())
				return true, nil
			}
		}
	}
}
