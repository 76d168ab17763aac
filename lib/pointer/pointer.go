// Package pointer maps normalized gaze samples onto viewport pixels.
package pointer

import (
	"math"

	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/settings"
)

// Viewport is the host page's visible area in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a viewport coordinate in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset returns p shifted by dx, dy.
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Calibration compensates for the systematic camera-to-screen bias. The
// offsets are added to the recentered normalized coordinates.
type Calibration struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

func DefaultCalibration() Calibration {
	return Calibration{OffsetX: 0.02, OffsetY: 0.05}
}

// Project recenters the sample around the middle of the screen scaled by the
// move sensitivity, applies the calibration offsets, clamps to [0,1] and
// scales to pixels. The result always lies inside the viewport.
func Project(s gazestream.Sample, st settings.Settings, vp Viewport, cal Calibration) Point {
	st = st.Clamp()
	nx := clampUnit(recenter(s.X, st.MoveSensitivity) + cal.OffsetX)
	ny := clampUnit(recenter(s.Y, st.MoveSensitivity) + cal.OffsetY)
	return Point{
		X: nx * math.Max(vp.Width, 0),
		Y: ny * math.Max(vp.Height, 0),
	}
}

func recenter(v, sensitivity float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0.5
	}
	return (v-0.5)*sensitivity + 0.5
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	return math.Min(math.Max(v, 0), 1)
}
