package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cbegin/chroma-go"
	"github.com/cbegin/chroma-go/internal/config"
)

func main() {
	var (
		beatmapPath = flag.String("beatmap", "", "path to a beatmap (json or yaml)")
		configPath  = flag.String("config", "chroma.yaml", "path to the config file")
		fps         = flag.Float64("fps", 30, "frames sampled per second")
		seconds     = flag.Float64("seconds", 0, "length to render (0 = until the last event plus two seconds)")
		every       = flag.Int("every", 3, "print every Nth frame")
		csvPath     = flag.String("csv", "", "also write the frames as csv to this path")
		noFeatures  = flag.Bool("no-features", false, "ignore custom colour data")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if strings.TrimSpace(*beatmapPath) == "" {
		log.Fatal("-beatmap is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	opts := []chroma.Option{chroma.WithConfig(cfg), chroma.WithLogger(logger)}
	if *noFeatures {
		opts = append(opts, chroma.WithFeatures(false))
	}
	e, err := chroma.Open(*beatmapPath, opts...)
	if err != nil {
		log.Fatal(err)
	}
	lights, err := e.RegisterConfiguredLights()
	if err != nil {
		log.Fatal(err)
	}
	handles := append(lights, e.RegisterSaber(true), e.RegisterSaber(false))

	length := *seconds
	if length <= 0 {
		length = e.Length() + 2
	}
	frames := chroma.Render(e, *fps, length, handles...)
	step := max(1, *every)
	for i := 0; i < len(frames); i += step {
		fmt.Println(renderRow(frames[i], len(lights)))
	}
	logger.Info("rendered", "frames", len(frames), "failures", e.Failures())

	if *csvPath != "" {
		if err := os.WriteFile(*csvPath, chroma.EncodeFramesCSV(frames), 0644); err != nil {
			log.Fatal(err)
		}
	}
}

// renderRow prints the frame time, one swatch per light and the two
// sabers after a separator.
func renderRow(f chroma.Frame, lights int) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%7.2fs ", f.Time)
	for i, c := range f.Colors {
		if i == lights {
			out.WriteString(" | ")
		}
		r, g, b, _ := c.Premultiplied().RGBA8()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)))
		out.WriteString(style.Render("■"))
	}
	return out.String()
}
