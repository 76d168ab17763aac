package overlay

import (
	"context"

	"github.com/onkernel/gaze-overlay/lib/clickresolve"
	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/pointer"
	"github.com/onkernel/gaze-overlay/lib/settings"
)

// Controls is the state shown by the toggle button and settings panel.
type Controls struct {
	TrackingEnabled bool              `json:"trackingEnabled"`
	PanelVisible    bool              `json:"panelVisible"`
	Settings        settings.Settings `json:"settings"`
	Affordances     []Affordance      `json:"affordances,omitempty"`
}

// Renderer draws the overlay into the host page and performs the page-level
// side effects the controller decides on. Implementations must tolerate
// repeated EnsureOverlay calls (after every navigation).
type Renderer interface {
	clickresolve.CursorFeedback

	EnsureOverlay(ctx context.Context) error
	MoveCursor(ctx context.Context, p pointer.Point) error
	ShowStatus(ctx context.Context, ind Indicator) error
	RenderControls(ctx context.Context, c Controls) error
	ShowDebug(ctx context.Context, d gazestream.Debug) error
	ScrollBy(ctx context.Context, dy float64) error

	Viewport(ctx context.Context) (pointer.Viewport, error)
	Origin(ctx context.Context) (string, error)

	// SetInterceptLinks enables reporting of same-document link clicks as
	// ActionNavigate instead of letting the page follow them.
	SetInterceptLinks(ctx context.Context, enabled bool) error
	SoftNavigate(ctx context.Context, href string) error
	OpenInNewContext(ctx context.Context, href string) error
}

// PointerMirror optionally moves a second pointer (for example the OS
// cursor) along with the overlay cursor.
type PointerMirror interface {
	MoveTo(ctx context.Context, p pointer.Point, vp pointer.Viewport) error
}

// ActionKind names an input raised by the overlay UI inside the page.
type ActionKind string

const (
	ActionActivate         ActionKind = "activate"
	ActionToggleTracking   ActionKind = "toggle-tracking"
	ActionTogglePanel      ActionKind = "toggle-panel"
	ActionMoveSensitivity  ActionKind = "move-sensitivity"
	ActionBlinkSensitivity ActionKind = "blink-sensitivity"
	ActionScrollUp         ActionKind = "scroll-up"
	ActionScrollDown       ActionKind = "scroll-down"
	ActionNavigate         ActionKind = "navigate"
	ActionResize           ActionKind = "resize"
	ActionLoaded           ActionKind = "loaded"
)

// Action is one input event from the page.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Clicks int        `json:"clicks,omitempty"`
	Value  float64    `json:"value,omitempty"`
	Href   string     `json:"href,omitempty"`
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
}
