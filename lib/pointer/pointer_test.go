package pointer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/settings"
)

func TestProjectCenter(t *testing.T) {
	viewports := []Viewport{{1280, 720}, {1920, 1080}, {375, 812}}
	for _, vp := range viewports {
		st := settings.Settings{MoveSensitivity: 1.0, BlinkSensitivity: 0.004}
		got := Project(gazestream.Sample{X: 0.5, Y: 0.5}, st, vp, DefaultCalibration())
		require.InDelta(t, 0.52*vp.Width, got.X, 1e-9)
		require.InDelta(t, 0.55*vp.Height, got.Y, 1e-9)
	}
}

func TestProjectStaysInsideViewport(t *testing.T) {
	vp := Viewport{Width: 1366, Height: 768}
	extremes := []float64{0, 1}
	for _, sens := range []float64{0.2, 0.5, 1.0, 1.5, 2.0, 3.0, -1} {
		for _, x := range extremes {
			for _, y := range extremes {
				st := settings.Settings{MoveSensitivity: sens}
				got := Project(gazestream.Sample{X: x, Y: y}, st, vp, DefaultCalibration())
				require.GreaterOrEqual(t, got.X, 0.0)
				require.LessOrEqual(t, got.X, vp.Width)
				require.GreaterOrEqual(t, got.Y, 0.0)
				require.LessOrEqual(t, got.Y, vp.Height)
			}
		}
	}
}

func TestProjectSensitivityScalesDistanceFromCenter(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	noOffset := Calibration{}
	st := settings.Settings{MoveSensitivity: 2.0}
	got := Project(gazestream.Sample{X: 0.6, Y: 0.4}, st, vp, noOffset)
	require.InDelta(t, 700, got.X, 1e-9)
	require.InDelta(t, 300, got.Y, 1e-9)
}

func TestProjectClampsToEdges(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	st := settings.Settings{MoveSensitivity: 2.0}
	got := Project(gazestream.Sample{X: 1, Y: 1}, st, vp, DefaultCalibration())
	require.Equal(t, Point{X: 800, Y: 600}, got)

	got = Project(gazestream.Sample{X: 0, Y: 0}, st, vp, DefaultCalibration())
	require.Equal(t, Point{X: 0, Y: 0}, got)
}

func TestProjectToleratesGarbage(t *testing.T) {
	vp := Viewport{Width: 100, Height: 100}
	got := Project(gazestream.Sample{X: math.NaN(), Y: math.Inf(1)}, settings.Defaults(), vp, Calibration{})
	require.Equal(t, Point{X: 50, Y: 50}, got)

	got = Project(gazestream.Sample{X: 0.5, Y: 0.5}, settings.Defaults(), Viewport{Width: -5, Height: 0}, DefaultCalibration())
	require.Equal(t, Point{}, got)
}
