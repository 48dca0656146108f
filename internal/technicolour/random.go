package technicolour

import "github.com/cbegin/chroma-go/internal/color"

func (g *Generator) randomHue() color.Color {
	return color.HSV(g.rng.Float64(), 1, 1)
}

func (g *Generator) setupRandom() {
	g.randomLeft = [2]color.Color{g.randomHue(), g.randomHue()}
	if g.cfg.Match {
		g.randomRight = g.randomLeft
		return
	}
	g.randomRight = [2]color.Color{g.randomHue(), g.randomHue()}
}

// randomTick walks h across one beat and rolls both buffers each time it
// passes 1.
func (g *Generator) randomTick(now float64) error {
	g.h += (now - g.lastRandom) / g.secondsPerBeat
	if g.h > 1 {
		g.h = 0
		g.roll()
	}
	g.saberLeft = color.Lerp(g.randomLeft[0], g.randomLeft[1], g.h)
	g.saberRight = color.Lerp(g.randomRight[0], g.randomRight[1], g.h)
	g.lastRandom = now
	return nil
}

func (g *Generator) roll() {
	g.randomLeft[0] = g.randomLeft[1]
	g.randomRight[0] = g.randomRight[1]
	g.randomLeft[1] = g.randomHue()
	if g.cfg.Match {
		g.randomRight = g.randomLeft
		return
	}
	g.randomRight[1] = g.randomHue()
}
