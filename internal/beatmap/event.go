package beatmap

import (
	"fmt"
	"strconv"
	"strings"
)

// EventType identifies a basic beatmap event stream. Light types own their
// own channels; ColorBoost toggles the boost colour set for every channel.
type EventType int

const (
	BackLasers       EventType = 0
	RingLights       EventType = 1
	LeftLasers       EventType = 2
	RightLasers      EventType = 3
	CenterLights     EventType = 4
	ColorBoost       EventType = 5
	ExtraLeftLights  EventType = 6
	ExtraRightLights EventType = 7
	RingRotation     EventType = 8
	RingZoom         EventType = 9
	ExtraLeftLasers  EventType = 10
	ExtraRightLasers EventType = 11
	LeftLasersSpeed  EventType = 12
	RightLasersSpeed EventType = 13
	EarlyRotation    EventType = 14
	LateRotation     EventType = 15
)

var eventTypeNames = map[EventType]string{
	BackLasers:       "BackLasers",
	RingLights:       "RingLights",
	LeftLasers:       "LeftLasers",
	RightLasers:      "RightLasers",
	CenterLights:     "CenterLights",
	ColorBoost:       "ColorBoost",
	ExtraLeftLights:  "ExtraLeftLights",
	ExtraRightLights: "ExtraRightLights",
	RingRotation:     "RingRotation",
	RingZoom:         "RingZoom",
	ExtraLeftLasers:  "ExtraLeftLasers",
	ExtraRightLasers: "ExtraRightLasers",
	LeftLasersSpeed:  "LeftLasersSpeed",
	RightLasersSpeed: "RightLasersSpeed",
	EarlyRotation:    "EarlyRotation",
	LateRotation:     "LateRotation",
}

func (t EventType) String() string {
	if n, ok := eventTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// ParseEventType accepts a type name (case-insensitive) or its number.
func ParseEventType(s string) (EventType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return EventType(n), nil
	}
	for t, name := range eventTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// IsLight reports whether events of this type drive a light channel.
func (t EventType) IsLight() bool {
	switch t {
	case BackLasers, RingLights, LeftLasers, RightLasers, CenterLights,
		ExtraLeftLights, ExtraRightLights, ExtraLeftLasers, ExtraRightLasers:
		return true
	}
	return false
}

// LightTypes lists every light event type in ascending order.
func LightTypes() []EventType {
	return []EventType{
		BackLasers, RingLights, LeftLasers, RightLasers, CenterLights,
		ExtraLeftLights, ExtraRightLights, ExtraLeftLasers, ExtraRightLasers,
	}
}

// ColorSlot is the logical colour an event value selects.
type ColorSlot int

const (
	Color0 ColorSlot = iota
	Color1
	ColorW
)

func (s ColorSlot) String() string {
	switch s {
	case Color0:
		return "Color0"
	case Color1:
		return "Color1"
	case ColorW:
		return "ColorW"
	default:
		return fmt.Sprintf("ColorSlot(%d)", int(s))
	}
}

// SlotForValue maps a light event value to its colour slot. Values 1-4 are
// Color1, 5-8 Color0 and 9-12 white; off, -1 and anything unknown fall back
// to Color0.
func SlotForValue(value int) ColorSlot {
	switch {
	case value >= 1 && value <= 4:
		return Color1
	case value >= 5 && value <= 8:
		return Color0
	case value >= 9 && value <= 12:
		return ColorW
	default:
		return Color0
	}
}

// IsFadeValue reports whether the value asks the previous event to fade into
// it (the transition values 4, 8 and 12).
func IsFadeValue(value int) bool {
	return value == 4 || value == 8 || value == 12
}

// IsFixedDurationValue reports whether the value plays a flash or a
// flash-and-release with its own duration.
func IsFixedDurationValue(value int) bool {
	switch value {
	case 2, 3, 6, 7, 10, 11, -1:
		return true
	}
	return false
}

// TimedEvent is one parsed basic event. It is immutable once the timeline
// that owns it has been built.
type TimedEvent struct {
	Time       float64 // song seconds
	Type       EventType
	Value      int
	FloatValue float64
	Custom     *CustomData

	index       int
	next        *TimedEvent
	nextGeneral *TimedEvent
	nextByLight map[int]*TimedEvent
	perLight    bool
}

// Index is the event's position in its timeline.
func (e *TimedEvent) Index() int { return e.index }

// NextSameType returns the following event of the same type, or nil.
func (e *TimedEvent) NextSameType() *TimedEvent { return e.next }

// NextSameTypeFor returns the next event of the same type that affects the
// given light. Without per-light lookahead it is NextSameType.
func (e *TimedEvent) NextSameTypeFor(lightID int) *TimedEvent {
	if !e.perLight {
		return e.next
	}
	if n, ok := e.nextByLight[lightID]; ok {
		return n
	}
	return e.nextGeneral
}

// Affects reports whether the event applies to the given light ID. Events
// without a light selector apply to every light.
func (e *TimedEvent) Affects(lightID int) bool {
	if e.Custom == nil || len(e.Custom.LightIDs) == 0 {
		return true
	}
	for _, id := range e.Custom.LightIDs {
		if id == lightID {
			return true
		}
	}
	return false
}

func (e *TimedEvent) String() string {
	return fmt.Sprintf("%v@%.3f value=%d float=%.2f", e.Type, e.Time, e.Value, e.FloatValue)
}

// CustomEvent is a time-stamped custom event with its raw JSON payload.
type CustomEvent struct {
	Time float64
	Type string
	Data []byte
}
