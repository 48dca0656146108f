package chroma

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// Frame holds the colours sampled after one tick.
type Frame struct {
	Time   float64
	Colors []Color
}

// Render ticks e from song time 0 up to seconds at fps frames per second,
// using song time as wall time, and samples the given targets after each
// tick. Unknown handles sample as the zero colour.
func Render(e *Engine, fps, seconds float64, handles ...Handle) []Frame {
	if fps <= 0 || seconds < 0 {
		return nil
	}
	frames := int(seconds*fps) + 1
	out := make([]Frame, 0, frames)
	for i := 0; i < frames; i++ {
		t := float64(i) / fps
		e.Tick(t, t)
		f := Frame{Time: t, Colors: make([]Color, len(handles))}
		for j, h := range handles {
			f.Colors[j], _ = e.ResolvedColor(h)
		}
		out = append(out, f)
	}
	return out
}

// EncodeFramesCSV writes one row per frame: the time followed by each
// target's colour as #rrggbbaa.
func EncodeFramesCSV(frames []Frame) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, f := range frames {
		row := make([]string, 0, len(f.Colors)+1)
		row = append(row, strconv.FormatFloat(f.Time, 'f', 4, 64))
		for _, c := range f.Colors {
			r, g, b, a := c.RGBA8()
			row = append(row, fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a))
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

