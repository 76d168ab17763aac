// Package settings holds the per-user overlay preferences and the stores that
// persist them across page reloads and daemon restarts.
package settings

import (
	"context"
	"math"
	"strconv"
)

// Declared ranges. Values outside them are clamped before use or persistence.
const (
	MinMoveSensitivity  = 0.2
	MaxMoveSensitivity  = 2.0
	MinBlinkSensitivity = 0.001
	MaxBlinkSensitivity = 0.02

	DefaultMoveSensitivity  = 1.0
	DefaultBlinkSensitivity = 0.004
)

// Persisted record keys. Each is stored and read independently; a missing key
// means the field's default.
const (
	KeyEnabled          = "tracking_enabled"
	KeyBlinkSensitivity = "blink_sensitivity"
	KeyMoveSensitivity  = "move_sensitivity"
	KeyControlsVisible  = "controls_visible"
)

// Keys lists the persisted keys in write order.
var Keys = []string{KeyEnabled, KeyBlinkSensitivity, KeyMoveSensitivity, KeyControlsVisible}

// Settings are the user preferences read by the pointer mapper and click
// resolver and written by the overlay controller.
type Settings struct {
	Enabled          bool    `json:"enabled"`
	MoveSensitivity  float64 `json:"moveSensitivity"`
	BlinkSensitivity float64 `json:"blinkSensitivity"`
	ControlsVisible  bool    `json:"controlsVisible"`
}

// Store is the storage port behind the overlay. Implementations must make a
// Save visible to the next Load immediately and never expose a partial write.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Defaults returns the settings used when nothing has been persisted yet.
func Defaults() Settings {
	return Settings{
		Enabled:          false,
		MoveSensitivity:  DefaultMoveSensitivity,
		BlinkSensitivity: DefaultBlinkSensitivity,
		ControlsVisible:  true,
	}
}

// Clamp returns a copy with every numeric field forced into its range.
// NaN falls back to the default rather than a bound.
func (s Settings) Clamp() Settings {
	s.MoveSensitivity = clampFloat(s.MoveSensitivity, MinMoveSensitivity, MaxMoveSensitivity, DefaultMoveSensitivity)
	s.BlinkSensitivity = clampFloat(s.BlinkSensitivity, MinBlinkSensitivity, MaxBlinkSensitivity, DefaultBlinkSensitivity)
	return s
}

func clampFloat(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Min(math.Max(v, lo), hi)
}

// encode renders the clamped record as independent key/value strings.
func encode(s Settings) map[string]string {
	s = s.Clamp()
	return map[string]string{
		KeyEnabled:          strconv.FormatBool(s.Enabled),
		KeyBlinkSensitivity: strconv.FormatFloat(s.BlinkSensitivity, 'g', -1, 64),
		KeyMoveSensitivity:  strconv.FormatFloat(s.MoveSensitivity, 'g', -1, 64),
		KeyControlsVisible:  strconv.FormatBool(s.ControlsVisible),
	}
}

// decode builds settings from a lookup of individual keys. Missing or
// malformed values leave the corresponding default in place.
func decode(lookup func(key string) (string, bool)) Settings {
	s := Defaults()
	if v, ok := lookup(KeyEnabled); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.Enabled = b
		}
	}
	if v, ok := lookup(KeyBlinkSensitivity); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) {
			s.BlinkSensitivity = f
		}
	}
	if v, ok := lookup(KeyMoveSensitivity); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) {
			s.MoveSensitivity = f
		}
	}
	if v, ok := lookup(KeyControlsVisible); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.ControlsVisible = b
		}
	}
	return s.Clamp()
}
