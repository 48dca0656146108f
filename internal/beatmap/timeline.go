package beatmap

import "sort"

// Timeline is the ordered, linked set of events for one playback.
type Timeline struct {
	events []*TimedEvent
	custom []CustomEvent
}

// NewTimeline orders events by time (stable, so equal times keep their
// authored order), assigns indices and links every event to the next event
// of the same type. With perLight set, events also learn the next event of
// their type for each light ID that any event of that type selects.
func NewTimeline(events []*TimedEvent, custom []CustomEvent, perLight bool) *Timeline {
	sorted := make([]*TimedEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	for i, e := range sorted {
		e.index = i
		e.next, e.nextGeneral, e.nextByLight, e.perLight = nil, nil, nil, false
	}

	byType := map[EventType][]*TimedEvent{}
	for _, e := range sorted {
		byType[e.Type] = append(byType[e.Type], e)
	}
	for _, list := range byType {
		for i := 0; i+1 < len(list); i++ {
			list[i].next = list[i+1]
		}
		if perLight {
			linkPerLight(list)
		}
	}

	cs := make([]CustomEvent, len(custom))
	copy(cs, custom)
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Time < cs[j].Time })
	return &Timeline{events: sorted, custom: cs}
}

func linkPerLight(list []*TimedEvent) {
	ids := map[int]struct{}{}
	for _, e := range list {
		if e.Custom != nil {
			for _, id := range e.Custom.LightIDs {
				ids[id] = struct{}{}
			}
		}
	}
	if len(ids) == 0 {
		return
	}
	lastFor := make(map[int]*TimedEvent, len(ids))
	var lastGeneral *TimedEvent
	for i := len(list) - 1; i >= 0; i-- {
		e := list[i]
		e.perLight = true
		e.nextGeneral = lastGeneral
		e.nextByLight = make(map[int]*TimedEvent, len(ids))
		for id := range ids {
			e.nextByLight[id] = lastFor[id]
		}
		if e.Custom == nil || len(e.Custom.LightIDs) == 0 {
			lastGeneral = e
			for id := range ids {
				lastFor[id] = e
			}
		} else {
			for _, id := range e.Custom.LightIDs {
				lastFor[id] = e
			}
		}
	}
}

// Events returns the ordered events. Callers must not modify the slice.
func (t *Timeline) Events() []*TimedEvent { return t.events }

// CustomEvents returns the ordered custom events.
func (t *Timeline) CustomEvents() []CustomEvent { return t.custom }

func (t *Timeline) Len() int { return len(t.events) }

// End returns the time of the last basic or custom event.
func (t *Timeline) End() float64 {
	end := 0.0
	if n := len(t.events); n > 0 {
		end = t.events[n-1].Time
	}
	if n := len(t.custom); n > 0 && t.custom[n-1].Time > end {
		end = t.custom[n-1].Time
	}
	return end
}
