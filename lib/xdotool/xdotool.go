// Package xdotool mirrors the overlay cursor onto the X11 pointer.
package xdotool

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/onkernel/gaze-overlay/lib/pointer"
)

// Tool is a thin wrapper around the xdotool CLI. DISPLAY is injected ahead of
// the existing environment so that it always takes precedence.
type Tool struct {
	display string
}

// New targets the display ":<num>".
func New(displayNum int) *Tool {
	return &Tool{display: ":" + strconv.Itoa(displayNum)}
}

func (x *Tool) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "xdotool", args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("DISPLAY=%s", x.display))
	return cmd.CombinedOutput()
}

// Placement locates the page viewport on the X screen.
type Placement struct {
	// OffsetX/OffsetY is the screen position of the viewport's top-left
	// corner (window position plus browser chrome).
	OffsetX int `json:"offsetX"`
	OffsetY int `json:"offsetY"`
	// Scale converts CSS pixels to screen pixels (device pixel ratio).
	Scale float64 `json:"scale"`
}

// Mirror moves the X pointer along with the overlay cursor. Moves smaller
// than a screen pixel are skipped.
type Mirror struct {
	run       func(ctx context.Context, args ...string) ([]byte, error)
	placement Placement
	logger    *slog.Logger

	mu         sync.Mutex
	lastX      int
	lastY      int
	hasLast    bool
	failures   int
	maxFailure int
}

func NewMirror(tool *Tool, placement Placement, logger *slog.Logger) *Mirror {
	if placement.Scale <= 0 {
		placement.Scale = 1
	}
	return &Mirror{run: tool.Run, placement: placement, logger: logger, maxFailure: 5}
}

// ScreenPoint converts a viewport point to integer screen coordinates.
func (m *Mirror) ScreenPoint(p pointer.Point, vp pointer.Viewport) (int, int) {
	x := math.Min(math.Max(p.X, 0), math.Max(vp.Width-1, 0))
	y := math.Min(math.Max(p.Y, 0), math.Max(vp.Height-1, 0))
	return m.placement.OffsetX + int(math.Round(x*m.placement.Scale)),
		m.placement.OffsetY + int(math.Round(y*m.placement.Scale))
}

// MoveTo issues an xdotool mousemove. After repeated failures (no X server,
// missing binary) the mirror disables itself and returns nil.
func (m *Mirror) MoveTo(ctx context.Context, p pointer.Point, vp pointer.Viewport) error {
	x, y := m.ScreenPoint(p, vp)

	m.mu.Lock()
	if m.failures >= m.maxFailure || (m.hasLast && x == m.lastX && y == m.lastY) {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	args := []string{"mousemove", strconv.Itoa(x), strconv.Itoa(y)}
	output, err := m.run(ctx, args...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failures++
		if m.failures == m.maxFailure {
			m.logger.Warn("[xdotool] disabling pointer mirror after repeated failures", "err", err, "output", string(output))
		}
		return fmt.Errorf("xdotool mousemove: %w", err)
	}
	m.failures = 0
	m.lastX, m.lastY, m.hasLast = x, y, true
	return nil
}
