package clickresolve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/onkernel/gaze-overlay/lib/pointer"
)

// Action is one side effect recorded by MemoryPage.
type Action struct {
	Method Method `json:"method"`
	Ref    string `json:"ref,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// MemoryPage is an in-memory Page. Elements are painted in insertion order,
// so the last added element is on top. It records every activation and
// highlight and lets callers choose which activation steps fail.
type MemoryPage struct {
	mu sync.Mutex

	layers            []*Element
	cursor            *Element
	cursorInteractive bool

	nativeErr    map[string]error
	syntheticErr map[string]error
	navigateErr  error
	tabErr       error

	actions    []Action
	highlights []Rect
	toggles    []bool
}

func NewMemoryPage() *MemoryPage {
	return &MemoryPage{
		cursorInteractive: true,
		nativeErr:         map[string]error{},
		syntheticErr:      map[string]error{},
	}
}

// Add paints el on top of everything added before it. A missing Ref is
// filled in.
func (m *MemoryPage) Add(el *Element) *Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el.Ref == "" {
		el.Ref = fmt.Sprintf("el-%d", len(m.layers)+1)
	}
	m.layers = append(m.layers, el)
	return el
}

// SetCursor places the overlay cursor glyph. While it is interactive it sits
// above every page element.
func (m *MemoryPage) SetCursor(el *Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = el
}

// FailNative makes native activation of el fail with err.
func (m *MemoryPage) FailNative(el *Element, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nativeErr[el.Ref] = err
}

// FailSynthetic makes the synthetic click on el fail with err.
func (m *MemoryPage) FailSynthetic(el *Element, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syntheticErr[el.Ref] = err
}

func (m *MemoryPage) FailNavigate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.navigateErr = err
}

func (m *MemoryPage) FailTab(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabErr = err
}

func (m *MemoryPage) TopElementAt(_ context.Context, p pointer.Point) (*Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.stackLocked(p)
	if len(stack) == 0 {
		return nil, nil
	}
	return stack[0], nil
}

func (m *MemoryPage) ElementsAt(_ context.Context, p pointer.Point) ([]*Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stackLocked(p), nil
}

func (m *MemoryPage) stackLocked(p pointer.Point) []*Element {
	var out []*Element
	if m.cursor != nil && m.cursorInteractive && m.cursor.Rect.Contains(p) {
		out = append(out, m.cursor)
	}
	for i := len(m.layers) - 1; i >= 0; i-- {
		if m.layers[i].Rect.Contains(p) {
			out = append(out, m.layers[i])
		}
	}
	return out
}

func (m *MemoryPage) SetCursorInteractive(_ context.Context, interactive bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorInteractive = interactive
	m.toggles = append(m.toggles, interactive)
	return nil
}

func (m *MemoryPage) NativeActivate(_ context.Context, el *Element) error {
	return m.act(MethodNative, el, "", m.nativeErr[el.Ref])
}

func (m *MemoryPage) DispatchSyntheticClick(_ context.Context, el *Element) error {
	return m.act(MethodSynthetic, el, "", m.syntheticErr[el.Ref])
}

func (m *MemoryPage) Navigate(_ context.Context, href string) error {
	return m.act(MethodNavigate, nil, href, m.navigateErr)
}

func (m *MemoryPage) ActivateTab(_ context.Context, el *Element, tabID string) error {
	return m.act(MethodTab, el, tabID, m.tabErr)
}

func (m *MemoryPage) act(method Method, el *Element, detail string, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return err
	}
	a := Action{Method: method, Detail: detail}
	if el != nil {
		a.Ref = el.Ref
	}
	m.actions = append(m.actions, a)
	return nil
}

func (m *MemoryPage) Highlight(_ context.Context, r Rect, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highlights = append(m.highlights, r)
	return nil
}

// Actions returns the successful activations in order.
func (m *MemoryPage) Actions() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Action(nil), m.actions...)
}

func (m *MemoryPage) Highlights() []Rect {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Rect(nil), m.highlights...)
}

// CursorToggles returns every SetCursorInteractive argument in order.
func (m *MemoryPage) CursorToggles() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.toggles...)
}

func (m *MemoryPage) CursorInteractive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorInteractive
}
