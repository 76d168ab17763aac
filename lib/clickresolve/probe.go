package clickresolve

import "github.com/onkernel/gaze-overlay/lib/pointer"

// ProbeConfig sets how far the probe points sit from the cursor center,
// approximating the cursor glyph's footprint.
type ProbeConfig struct {
	// Cardinal is the offset along the horizontal and vertical axes.
	Cardinal float64 `json:"cardinal"`
	// Diagonal is the per-axis offset of the diagonal points.
	Diagonal float64 `json:"diagonal"`
}

func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{Cardinal: 15, Diagonal: 10}
}

// Probe is one named coordinate examined around the cursor.
type Probe struct {
	Name  string        `json:"name"`
	Point pointer.Point `json:"point"`
}

// ProbeStack names targets found by the full element stack fallback.
const ProbeStack = "stack"

// ProbePoints returns the nine probes in evaluation order: center, left,
// right, up, down, then the four diagonals.
func ProbePoints(center pointer.Point, cfg ProbeConfig) []Probe {
	c, d := cfg.Cardinal, cfg.Diagonal
	return []Probe{
		{"center", center},
		{"left", center.Offset(-c, 0)},
		{"right", center.Offset(c, 0)},
		{"up", center.Offset(0, -c)},
		{"down", center.Offset(0, c)},
		{"up-left", center.Offset(-d, -d)},
		{"up-right", center.Offset(d, -d)},
		{"down-left", center.Offset(-d, d)},
		{"down-right", center.Offset(d, d)},
	}
}
