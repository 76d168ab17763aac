// Package clickresolve turns a blink at the cursor position into exactly one
// click on the most plausible interactive element of the host page.
package clickresolve

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/onkernel/gaze-overlay/lib/pointer"
)

var (
	// ErrNotApplicable is returned by a Page when an activation step does
	// not apply to the element (for example it has no native click).
	ErrNotApplicable = errors.New("activation step not applicable")
	// ErrStaleElement is returned when the element reference no longer
	// resolves on the page.
	ErrStaleElement = errors.New("element reference is stale")
)

// Rect is a bounding box in viewport pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r (edges inclusive on the
// top/left, exclusive on the bottom/right).
func (r Rect) Contains(p pointer.Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Element describes one host page element. It is a transient reference
// resolved during click resolution, never an owned object.
type Element struct {
	// Ref is an opaque handle the Page uses to act on the element.
	Ref     string            `json:"ref"`
	Tag     string            `json:"tag"`
	ID      string            `json:"id,omitempty"`
	Classes []string          `json:"classes,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
	Role    string            `json:"role,omitempty"`
	Href    string            `json:"href,omitempty"`
	Rect    Rect              `json:"rect"`
	Parent  *Element          `json:"-"`
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[strings.ToLower(name)]
	return v, ok
}

// HasAttr reports whether the attribute is present, whatever its value.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// IsDocumentRoot reports whether e is the <html> element.
func (e *Element) IsDocumentRoot() bool {
	return e == nil || strings.EqualFold(e.Tag, "html")
}

// Page is the host page as seen by the resolver.
type Page interface {
	// TopElementAt returns the topmost element under p, or nil.
	TopElementAt(ctx context.Context, p pointer.Point) (*Element, error)
	// ElementsAt returns every element stacked under p, nearest first.
	ElementsAt(ctx context.Context, p pointer.Point) ([]*Element, error)
	// SetCursorInteractive toggles hit-testing of the overlay cursor.
	SetCursorInteractive(ctx context.Context, interactive bool) error

	NativeActivate(ctx context.Context, el *Element) error
	DispatchSyntheticClick(ctx context.Context, el *Element) error
	Navigate(ctx context.Context, href string) error
	ActivateTab(ctx context.Context, el *Element, tabID string) error

	Highlight(ctx context.Context, r Rect, d time.Duration) error
}

// CursorFeedback renders the cursor's click-cycle state.
type CursorFeedback interface {
	SetCursorClicking(ctx context.Context, clicking bool) error
}
