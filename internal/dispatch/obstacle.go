package dispatch

import (
	"log/slog"
	"sort"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
)

// ObstacleColorEvent is the custom event type that recolours walls.
const ObstacleColorEvent = "_obstacleColor"

// ObstacleColors indexes wall colours by the time they take effect.
type ObstacleColors struct {
	times  []float64
	colors []color.Color
}

// LoadObstacleColors collects every obstacle colour event. Malformed
// payloads and repeated times are logged and skipped.
func LoadObstacleColors(events []beatmap.CustomEvent, logger *slog.Logger) *ObstacleColors {
	if logger == nil {
		logger = slog.Default()
	}
	seen := map[float64]bool{}
	o := &ObstacleColors{}
	for _, ev := range events {
		if ev.Type != ObstacleColorEvent {
			continue
		}
		c, err := beatmap.ObstacleColor(ev.Data)
		if err != nil {
			logger.Warn("invalid obstacle colour event", "time", ev.Time, "err", err)
			continue
		}
		if seen[ev.Time] {
			logger.Warn("duplicate obstacle colour event", "time", ev.Time)
			continue
		}
		seen[ev.Time] = true
		o.times = append(o.times, ev.Time)
		o.colors = append(o.colors, c)
	}
	sort.Sort(byTime{o})
	return o
}

func (o *ObstacleColors) Len() int { return len(o.times) }

// ColorAt returns the latest colour at or before t.
func (o *ObstacleColors) ColorAt(t float64) (color.Color, bool) {
	i := sort.SearchFloat64s(o.times, t)
	if i < len(o.times) && o.times[i] == t {
		return o.colors[i], true
	}
	if i == 0 {
		return color.Color{}, false
	}
	return o.colors[i-1], true
}

type byTime struct{ *ObstacleColors }

func (b byTime) Len() int           { return len(b.times) }
func (b byTime) Less(i, j int) bool { return b.times[i] < b.times[j] }
func (b byTime) Swap(i, j int) {
	b.times[i], b.times[j] = b.times[j], b.times[i]
	b.colors[i], b.colors[j] = b.colors[j], b.colors[i]
}
