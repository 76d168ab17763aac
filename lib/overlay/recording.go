package overlay

import (
	"context"
	"sync"

	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/pointer"
)

// RecordingRenderer is an in-memory Renderer that records what would have
// been drawn. It backs the controller and API tests and the daemon's
// headless mode.
type RecordingRenderer struct {
	mu sync.Mutex

	viewport pointer.Viewport
	origin   string

	ensured     int
	cursor      []pointer.Point
	clicking    []bool
	statuses    []Indicator
	controls    []Controls
	debug       []gazestream.Debug
	scrolls     []float64
	intercept   []bool
	softNavs    []string
	newContexts []string
}

var _ Renderer = (*RecordingRenderer)(nil)

func NewRecordingRenderer(vp pointer.Viewport, origin string) *RecordingRenderer {
	return &RecordingRenderer{viewport: vp, origin: origin}
}

func (r *RecordingRenderer) EnsureOverlay(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensured++
	return nil
}

func (r *RecordingRenderer) MoveCursor(_ context.Context, p pointer.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = append(r.cursor, p)
	return nil
}

func (r *RecordingRenderer) SetCursorClicking(_ context.Context, clicking bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicking = append(r.clicking, clicking)
	return nil
}

func (r *RecordingRenderer) ShowStatus(_ context.Context, ind Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, ind)
	return nil
}

func (r *RecordingRenderer) RenderControls(_ context.Context, c Controls) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controls = append(r.controls, c)
	return nil
}

func (r *RecordingRenderer) ShowDebug(_ context.Context, d gazestream.Debug) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = append(r.debug, d)
	return nil
}

func (r *RecordingRenderer) ScrollBy(_ context.Context, dy float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls = append(r.scrolls, dy)
	return nil
}

func (r *RecordingRenderer) Viewport(context.Context) (pointer.Viewport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport, nil
}

// SetViewport changes what Viewport reports.
func (r *RecordingRenderer) SetViewport(vp pointer.Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = vp
}

func (r *RecordingRenderer) Origin(context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.origin, nil
}

func (r *RecordingRenderer) SetInterceptLinks(_ context.Context, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intercept = append(r.intercept, enabled)
	return nil
}

func (r *RecordingRenderer) SoftNavigate(_ context.Context, href string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.softNavs = append(r.softNavs, href)
	return nil
}

func (r *RecordingRenderer) OpenInNewContext(_ context.Context, href string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.newContexts = append(r.newContexts, href)
	return nil
}

// Recorded is a copy of everything a RecordingRenderer has seen.
type Recorded struct {
	Ensured     int
	Cursor      []pointer.Point
	Clicking    []bool
	Statuses    []Indicator
	Controls    []Controls
	Debug       []gazestream.Debug
	Scrolls     []float64
	Intercept   []bool
	SoftNavs    []string
	NewContexts []string
}

func (r *RecordingRenderer) Recorded() Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Recorded{
		Ensured:     r.ensured,
		Cursor:      append([]pointer.Point(nil), r.cursor...),
		Clicking:    append([]bool(nil), r.clicking...),
		Statuses:    append([]Indicator(nil), r.statuses...),
		Controls:    append([]Controls(nil), r.controls...),
		Debug:       append([]gazestream.Debug(nil), r.debug...),
		Scrolls:     append([]float64(nil), r.scrolls...),
		Intercept:   append([]bool(nil), r.intercept...),
		SoftNavs:    append([]string(nil), r.softNavs...),
		NewContexts: append([]string(nil), r.newContexts...),
	}
}
