package tween

import (
	"math"
	"testing"

	"github.com/cbegin/chroma-go/internal/color"
	"github.com/cbegin/chroma-go/internal/easing"
)

type recordingSink struct {
	values []color.Color
}

func (r *recordingSink) set(c color.Color) { r.values = append(r.values, c) }

func (r *recordingSink) last() color.Color { return r.values[len(r.values)-1] }

var (
	red  = color.RGB(1, 0, 0)
	blue = color.RGB(0, 0, 1)
)

func TestNewTweenIsIdle(t *testing.T) {
	tw := New(red, blue, 3, nil)
	if tw.State() != Idle || tw.Value() != red || tw.ID != 3 {
		t.Fatalf("state=%v value=%v id=%d", tw.State(), tw.Value(), tw.ID)
	}
}

func TestRestartFadesOverDuration(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager()
	tw := New(red, blue, 0, sink.set)
	tw.Duration = 2
	m.SetTime(10)
	m.Restart(tw)

	if tw.State() != Fading || tw.Start() != 10 || tw.End() != 12 {
		t.Fatalf("state=%v start=%v end=%v", tw.State(), tw.Start(), tw.End())
	}
	if sink.last() != red {
		t.Fatalf("restart should publish the from colour, got %v", sink.last())
	}
	m.Tick(11)
	if !tw.Value().ApproxEqual(color.RGB(0.5, 0, 0.5), 1e-9) {
		t.Fatalf("midpoint = %v", tw.Value())
	}
	m.Tick(12.5)
	if tw.State() != Settled || tw.Value() != blue {
		t.Fatalf("after end state=%v value=%v", tw.State(), tw.Value())
	}
	if m.Active() != 0 {
		t.Fatalf("settled tween still active")
	}
}

func TestEasingShapesProgress(t *testing.T) {
	m := NewManager()
	tw := New(color.RGB(0, 0, 0), color.RGB(1, 1, 1), 0, nil)
	tw.Duration = 1
	tw.Easing = easing.OutCubic
	m.Restart(tw)
	m.Tick(0.5)
	if got := tw.Value().R; math.Abs(got-0.875) > 1e-9 {
		t.Fatalf("eased value = %v, want 0.875", got)
	}
}

func TestHSVSpaceInterpolation(t *testing.T) {
	m := NewManager()
	tw := New(color.RGB(1, 0, 0), color.RGB(0, 0, 1), 0, nil)
	tw.Duration = 1
	tw.Space = color.SpaceHSV
	m.Restart(tw)
	m.Tick(0.5)
	// red to blue through the short hue arc passes magenta
	if !tw.Value().ApproxEqual(color.RGB(1, 0, 1), 1e-6) {
		t.Fatalf("hsv midpoint = %v", tw.Value())
	}
}

func TestKillSnapsToTarget(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager()
	tw := New(red, blue, 0, sink.set)
	tw.Duration = 5
	m.Restart(tw)
	m.Kill(tw)
	if tw.State() != Settled || sink.last() != blue || m.Active() != 0 {
		t.Fatalf("state=%v last=%v active=%d", tw.State(), sink.last(), m.Active())
	}
}

func TestTweenKillLeavesActiveSetOnNextTick(t *testing.T) {
	m := NewManager()
	tw := New(red, blue, 0, nil)
	tw.Duration = 5
	m.Restart(tw)
	tw.Kill()
	m.Tick(1)
	if m.Active() != 0 || tw.Value() != blue {
		t.Fatalf("active=%d value=%v", m.Active(), tw.Value())
	}
}

func TestSoftUpdateKeepsTiming(t *testing.T) {
	m := NewManager()
	tw := New(red, blue, 0, nil)
	tw.Duration = 1
	m.Restart(tw)
	m.Tick(0.25)
	start, end, p := tw.Start(), tw.End(), tw.Progress()

	green := color.RGB(0, 1, 0)
	tw.To = green
	tw.ForceOnUpdate()
	if tw.Start() != start || tw.End() != end || tw.Progress() != p {
		t.Fatalf("timing changed by endpoint update")
	}
	want := color.Lerp(red, green, 0.25)
	if !tw.Value().ApproxEqual(want, 1e-9) {
		t.Fatalf("value = %v, want %v", tw.Value(), want)
	}
	m.Tick(1)
	if tw.Value() != green {
		t.Fatalf("final = %v", tw.Value())
	}
}

func TestResumeUsesExistingWindow(t *testing.T) {
	m := NewManager()
	tw := New(red, blue, 0, nil)
	tw.SetStartAndEnd(2, 4)
	m.SetTime(3)
	m.Resume(tw)
	if !tw.Value().ApproxEqual(color.RGB(0.5, 0, 0.5), 1e-9) {
		t.Fatalf("resume should jump to current progress, got %v", tw.Value())
	}
	if tw.Duration != 2 {
		t.Fatalf("duration = %v", tw.Duration)
	}

	early := New(red, blue, 0, nil)
	early.SetStartAndEnd(5, 6)
	m.Resume(early)
	if early.Value() != red || early.State() != Fading {
		t.Fatalf("before window value=%v state=%v", early.Value(), early.State())
	}
}

func TestRestartTwiceKeepsSingleActiveEntry(t *testing.T) {
	m := NewManager()
	tw := New(red, blue, 0, nil)
	tw.Duration = 1
	m.Restart(tw)
	m.Restart(tw)
	m.Resume(tw)
	if m.Active() != 1 {
		t.Fatalf("active = %d, want 1", m.Active())
	}
}

func TestRemoveDetachesSink(t *testing.T) {
	sink := &recordingSink{}
	m := NewManager()
	tw := New(red, blue, 0, sink.set)
	tw.Duration = 1
	m.Restart(tw)
	m.Remove(tw)
	n := len(sink.values)
	tw.SetColor(red)
	if len(sink.values) != n {
		t.Fatalf("removed tween still publishes")
	}
	if m.Active() != 0 || tw.PreviousEvent != nil {
		t.Fatalf("removed tween still referenced")
	}
}

func TestZeroDurationSettlesOnNextTick(t *testing.T) {
	m := NewManager()
	tw := New(red, blue, 0, nil)
	m.Restart(tw)
	m.Tick(0)
	if tw.State() != Settled || tw.Value() != blue {
		t.Fatalf("state=%v value=%v", tw.State(), tw.Value())
	}
}
