package overlay

import (
	"github.com/onkernel/gaze-overlay/lib/clickresolve"
	"github.com/onkernel/gaze-overlay/lib/pointer"
)

const (
	DefaultScrollStep = 300

	affordanceSize   = 120
	affordanceMargin = 40
)

// Affordance is an on-screen target that triggers an overlay action when a
// blink lands on it.
type Affordance struct {
	Name string            `json:"name"`
	Rect clickresolve.Rect `json:"rect"`
}

const (
	AffordanceScrollUp   = "scroll-up"
	AffordanceScrollDown = "scroll-down"
)

// Affordances lays out the scroll targets along the right edge of vp: the up
// target at a quarter of the height, the down target at 65%.
func Affordances(vp pointer.Viewport) []Affordance {
	x := vp.Width - affordanceSize - affordanceMargin
	if x < 0 {
		x = 0
	}
	return []Affordance{
		{Name: AffordanceScrollUp, Rect: clickresolve.Rect{X: x, Y: float64(int(vp.Height * 0.25)), Width: affordanceSize, Height: affordanceSize}},
		{Name: AffordanceScrollDown, Rect: clickresolve.Rect{X: x, Y: float64(int(vp.Height * 0.65)), Width: affordanceSize, Height: affordanceSize}},
	}
}

// AffordanceAt returns the affordance under p, if any.
func AffordanceAt(vp pointer.Viewport, p pointer.Point) (Affordance, bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return Affordance{}, false
	}
	for _, a := range Affordances(vp) {
		if a.Rect.Contains(p) {
			return a, true
		}
	}
	return Affordance{}, false
}
