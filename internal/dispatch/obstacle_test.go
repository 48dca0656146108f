package dispatch

import (
	"testing"

	"github.com/cbegin/chroma-go/internal/beatmap"
	"github.com/cbegin/chroma-go/internal/color"
)

func TestObstacleColorsLatestAtOrBefore(t *testing.T) {
	events := []beatmap.CustomEvent{
		{Time: 4, Type: ObstacleColorEvent, Data: []byte(`{"r":0,"g":0,"b":1}`)},
		{Time: 1, Type: ObstacleColorEvent, Data: []byte(`{"r":1,"g":0,"b":0}`)},
		{Time: 2, Type: ObstacleColorEvent, Data: []byte(`{"r":"x","g":0,"b":0}`)},
		{Time: 1, Type: ObstacleColorEvent, Data: []byte(`{"r":0,"g":1,"b":0}`)},
		{Time: 3, Type: "somethingElse", Data: []byte(`{}`)},
	}
	o := LoadObstacleColors(events, nil)
	if o.Len() != 2 {
		t.Fatalf("len = %d, want 2", o.Len())
	}
	if _, ok := o.ColorAt(0.5); ok {
		t.Fatal("colour before the first event")
	}
	cases := map[float64]color.Color{
		1:   color.RGB(1, 0, 0),
		3.9: color.RGB(1, 0, 0),
		4:   color.RGB(0, 0, 1),
		100: color.RGB(0, 0, 1),
	}
	for at, want := range cases {
		if got, ok := o.ColorAt(at); !ok || got != want {
			t.Errorf("ColorAt(%v) = %v, %v, want %v", at, got, ok, want)
		}
	}
}
