package overlay

import (
	"time"

	"github.com/onkernel/gaze-overlay/lib/gazestream"
)

// DefaultStatusAutoHide is how long a non-error indicator stays on screen.
const DefaultStatusAutoHide = 3 * time.Second

type Color string

const (
	ColorNone  Color = ""
	ColorAmber Color = "amber"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
	ColorRed   Color = "red"
)

// Indicator is the rendered form of a connection state.
type Indicator struct {
	Visible bool   `json:"visible"`
	Color   Color  `json:"color,omitempty"`
	Label   string `json:"label,omitempty"`
	Pulse   bool   `json:"pulse,omitempty"`
	// Persistent indicators stay until the state changes.
	Persistent bool `json:"persistent,omitempty"`
}

// IndicatorFor maps a connection state to its fixed color and label.
func IndicatorFor(s gazestream.State) Indicator {
	switch s {
	case gazestream.StateConnecting:
		return Indicator{Visible: true, Color: ColorAmber, Label: "Connecting..."}
	case gazestream.StateConnected:
		return Indicator{Visible: true, Color: ColorGreen, Label: "Connected"}
	case gazestream.StateTracking:
		return Indicator{Visible: true, Color: ColorBlue, Label: "Tracking", Pulse: true}
	case gazestream.StateError:
		return Indicator{Visible: true, Color: ColorRed, Label: "Connection error", Persistent: true}
	default:
		return Indicator{}
	}
}
