package beatmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Beatmap is a parsed lighting timeline.
type Beatmap struct {
	BPM      float64
	Timeline *Timeline
	// Skipped counts events dropped because they were malformed.
	Skipped int
}

type Options struct {
	// Features enables decoding of custom lighting data and per-light
	// lookahead. When false, custom payloads are ignored.
	Features bool
	Logger   *slog.Logger
}

// Load reads a beatmap from a JSON or YAML file.
func Load(path string, opts Options) (*Beatmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bm, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

// Parse decodes a beatmap document. JSON is read directly; anything else is
// treated as YAML and normalised to JSON first. Event lists are accepted in
// the v2 form ("_events" with "_time", "_type", "_value"), the v3 form
// ("basicBeatmapEvents" with "b", "et", "i", "f") or the plain form
// ("events" with "time", "type", "value"). v2 and v3 times are in beats
// unless "timeUnit" says otherwise.
func Parse(data []byte, opts Options) (*Beatmap, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	js := bytes.TrimSpace(data)
	if !gjson.ValidBytes(js) {
		var err error
		if js, err = yamlToJSON(data); err != nil {
			return nil, err
		}
	}
	root := gjson.ParseBytes(js)
	if !root.IsObject() {
		return nil, errors.New("beatmap document must be an object")
	}

	bm := &Beatmap{BPM: firstNumber(root, "bpm", "_beatsPerMinute", "beatsPerMinute")}
	beats := root.Get("_events").Exists() || root.Get("basicBeatmapEvents").Exists()
	if u := root.Get("timeUnit"); u.Exists() {
		switch strings.ToLower(u.String()) {
		case "beats":
			beats = true
		case "seconds":
			beats = false
		default:
			return nil, fmt.Errorf("unknown timeUnit %q", u.String())
		}
	}
	if beats && bm.BPM <= 0 {
		return nil, errors.New("beat-timed beatmap needs a positive bpm")
	}
	toSeconds := func(t float64) float64 {
		if beats {
			return t * 60 / bm.BPM
		}
		return t
	}

	var events []*TimedEvent
	add := func(e *TimedEvent) {
		e.Time = toSeconds(e.Time)
		if e.Custom != nil && e.Custom.Gradient != nil {
			e.Custom.Gradient.Duration = toSeconds(e.Custom.Gradient.Duration)
		}
		events = append(events, e)
	}
	skip := func(kind string, i int, err error) {
		bm.Skipped++
		logger.Warn("skipping malformed event", "list", kind, "index", i, "err", err)
	}
	for _, list := range []string{"events", "_events"} {
		for i, v := range root.Get(list).Array() {
			e, err := decodeEvent(v, opts.Features, "time", "type", "value", "floatValue", "customData")
			if err != nil {
				skip(list, i, err)
				continue
			}
			add(e)
		}
	}
	for i, v := range root.Get("basicBeatmapEvents").Array() {
		e, err := decodeEvent(v, opts.Features, "b", "et", "i", "f", "customData")
		if err != nil {
			skip("basicBeatmapEvents", i, err)
			continue
		}
		add(e)
	}
	for i, v := range root.Get("colorBoostBeatmapEvents").Array() {
		b := v.Get("b")
		if b.Type != gjson.Number {
			skip("colorBoostBeatmapEvents", i, errors.New("b must be a number"))
			continue
		}
		value := 0
		if v.Get("o").Bool() {
			value = 1
		}
		events = append(events, &TimedEvent{Time: toSeconds(b.Float()), Type: ColorBoost, Value: value, FloatValue: 1})
	}

	var custom []CustomEvent
	for _, path := range []string{"customEvents", "_customEvents", "_customData._customEvents", "customData.customEvents"} {
		for i, v := range root.Get(path).Array() {
			t := v.Get("time")
			if !t.Exists() {
				t = v.Get("_time")
			}
			if !t.Exists() {
				t = v.Get("b")
			}
			typ := firstString(v, "type", "_type", "t")
			if t.Type != gjson.Number || typ == "" {
				skip(path, i, errors.New("custom event needs a numeric time and a type"))
				continue
			}
			data := v.Get("data")
			if !data.Exists() {
				data = v.Get("_data")
			}
			if !data.Exists() {
				data = v.Get("d")
			}
			custom = append(custom, CustomEvent{Time: toSeconds(t.Float()), Type: typ, Data: []byte(data.Raw)})
		}
	}

	bm.Timeline = NewTimeline(events, custom, opts.Features)
	return bm, nil
}

func decodeEvent(v gjson.Result, features bool, timeKey, typeKey, valueKey, floatKey, customKey string) (*TimedEvent, error) {
	t := field(v, timeKey)
	typ := field(v, typeKey)
	val := field(v, valueKey)
	if t.Type != gjson.Number || typ.Type != gjson.Number || val.Type != gjson.Number {
		return nil, fmt.Errorf("%s, %s and %s must be numbers", timeKey, typeKey, valueKey)
	}
	e := &TimedEvent{
		Time:       t.Float(),
		Type:       EventType(typ.Int()),
		Value:      int(val.Int()),
		FloatValue: 1,
	}
	if f := field(v, floatKey); f.Exists() {
		if f.Type != gjson.Number {
			return nil, fmt.Errorf("%s must be a number", floatKey)
		}
		e.FloatValue = f.Float()
	}
	if features {
		if cd := field(v, customKey); cd.Exists() {
			data, err := decodeCustomData(cd)
			if err != nil {
				return nil, err
			}
			e.Custom = data
		}
	}
	return e, nil
}

func firstNumber(obj gjson.Result, keys ...string) float64 {
	for _, k := range keys {
		if r := obj.Get(k); r.Type == gjson.Number {
			return r.Float()
		}
	}
	return 0
}

func firstString(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		if r := obj.Get(k); r.Type == gjson.String {
			return r.Str
		}
	}
	return ""
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("beatmap is neither json nor yaml: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalise yaml: %w", err)
	}
	return js, nil
}
