// Package launchpad shows resolved light colours on a Novation Launchpad
// grid in programmer mode.
package launchpad

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/cbegin/chroma-go/internal/color"
)

const (
	Rows = 8
	Cols = 8
)

// palette lists Launchpad X velocities with their approximate RGB.
var palette = [][4]uint8{
	{0, 0, 0, 0},
	{5, 255, 0, 0},
	{6, 255, 80, 80},
	{7, 180, 60, 60},
	{9, 255, 100, 0},
	{11, 180, 80, 40},
	{13, 255, 200, 0},
	{17, 0, 180, 0},
	{19, 0, 100, 0},
	{21, 0, 255, 0},
	{37, 0, 200, 200},
	{43, 40, 60, 120},
	{45, 0, 100, 255},
	{47, 80, 150, 255},
	{49, 150, 0, 200},
	{53, 255, 80, 180},
	{78, 100, 100, 255},
	{84, 255, 150, 50},
	{87, 150, 255, 100},
	{97, 180, 180, 60},
	{119, 255, 255, 255},
}

// Grid drives the 8x8 pads. Unchanged pads are not resent.
type Grid struct {
	send func(gomidi.Message) error
	last map[uint8]uint8
	sent int
}

// New wraps a message sender, typically from gomidi.SendTo.
func New(send func(gomidi.Message) error) *Grid {
	return &Grid{send: send, last: map[uint8]uint8{}}
}

// Open connects to an output port and switches it to programmer mode with
// full brightness.
func Open(out drivers.Out) (*Grid, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	g := New(send)
	// F0 00 20 29 02 0C 00 7F F7
	if err := send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F})); err != nil {
		return nil, fmt.Errorf("programmer mode: %w", err)
	}
	// F0 00 20 29 02 0C 08 <brightness> F7
	if err := send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F})); err != nil {
		return nil, fmt.Errorf("brightness: %w", err)
	}
	return g, nil
}

// FindOut looks up an output port by name.
func FindOut(name string) (drivers.Out, error) {
	return gomidi.FindOutPort(name)
}

// Set shows c on a pad. Alpha dims the colour before palette matching.
func (g *Grid) Set(row, col int, c color.Color) error {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return fmt.Errorf("pad %d,%d out of range", row, col)
	}
	note := Note(row, col)
	vel := Nearest(c)
	if v, ok := g.last[note]; ok && v == vel {
		return nil
	}
	if err := g.send(gomidi.NoteOn(0, note, vel)); err != nil {
		return err
	}
	g.last[note] = vel
	g.sent++
	return nil
}

// Sent counts messages written since New.
func (g *Grid) Sent() int { return g.sent }

// Clear turns every pad off.
func (g *Grid) Clear() error {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if err := g.Set(row, col, color.Clear); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Grid) Close() error {
	return g.Clear()
}

// Note maps a pad to its programmer-mode note; row 0 is the bottom row.
func Note(row, col int) uint8 {
	return uint8((row+1)*10 + col + 1)
}

// Nearest picks the palette velocity closest to c after applying alpha.
func Nearest(c color.Color) uint8 {
	r, gr, b, _ := c.Premultiplied().RGBA8()
	best, bestDist := uint8(0), -1
	for _, p := range palette {
		dr, dg, db := int(r)-int(p[1]), int(gr)-int(p[2]), int(b)-int(p[3])
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = p[0], d
		}
	}
	return best
}
