package clickresolve

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/onkernel/gaze-overlay/lib/logger"
	"github.com/onkernel/gaze-overlay/lib/pointer"
)

// Method names the activation step that produced the click.
type Method string

const (
	MethodNone      Method = "none"
	MethodNative    Method = "native"
	MethodSynthetic Method = "synthetic"
	MethodNavigate  Method = "navigate"
	MethodTab       Method = "tab"
)

// Config holds the resolver timings and probe geometry.
type Config struct {
	Debounce          time.Duration `json:"debounce"`
	Probe             ProbeConfig   `json:"probe"`
	MaxDepth          int           `json:"maxDepth"`
	HighlightDuration time.Duration `json:"highlightDuration"`
	CursorResetDelay  time.Duration `json:"cursorResetDelay"`

	// AfterFunc schedules the cursor reset after a click. Callers that own
	// the renderer from a single goroutine hand the reset back to it here.
	// Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) *time.Timer `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		Debounce:          1200 * time.Millisecond,
		Probe:             DefaultProbeConfig(),
		MaxDepth:          10,
		HighlightDuration: 600 * time.Millisecond,
		CursorResetDelay:  500 * time.Millisecond,
	}
}

// Outcome reports what a blink did.
type Outcome struct {
	Accepted bool      `json:"accepted"`
	Target   *Element  `json:"target,omitempty"`
	Probe    string    `json:"probe,omitempty"`
	Method   Method    `json:"method"`
	At       time.Time `json:"at"`
}

// Resolver debounces blinks and resolves them into clicks.
type Resolver struct {
	page   Page
	cursor CursorFeedback
	vocab  Vocabulary
	cfg    Config
	logger *slog.Logger

	afterFunc func(d time.Duration, f func()) *time.Timer

	mu           sync.Mutex
	lastAccepted time.Time
	hasAccepted  bool
}

func New(page Page, cursor CursorFeedback, vocab Vocabulary, cfg Config, log *slog.Logger) *Resolver {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.Probe == (ProbeConfig{}) {
		cfg.Probe = def.Probe
	}
	if cfg.HighlightDuration <= 0 {
		cfg.HighlightDuration = def.HighlightDuration
	}
	if cfg.CursorResetDelay <= 0 {
		cfg.CursorResetDelay = def.CursorResetDelay
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = time.AfterFunc
	}
	return &Resolver{
		page:      page,
		cursor:    cursor,
		vocab:     vocab,
		cfg:       cfg,
		logger:    logger.Component(log, "click"),
		afterFunc: cfg.AfterFunc,
	}
}

// Gate applies the debounce window. It accepts the blink at time at when no
// blink was accepted within the window before it, and records it.
func (r *Resolver) Gate(at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasAccepted && at.Sub(r.lastAccepted) < r.cfg.Debounce {
		return false
	}
	r.lastAccepted = at
	r.hasAccepted = true
	return true
}

// HandleBlink gates the blink and, if accepted, clicks under cursor.
func (r *Resolver) HandleBlink(ctx context.Context, at time.Time, cursor pointer.Point) Outcome {
	if !r.Gate(at) {
		return Outcome{Accepted: false, Method: MethodNone, At: at}
	}
	out := r.Click(ctx, cursor)
	out.At = at
	return out
}

// Click resolves a target around cursor and activates it. Failing to find a
// target is a normal outcome: the cursor flashes and resets.
func (r *Resolver) Click(ctx context.Context, cursor pointer.Point) Outcome {
	out := Outcome{Accepted: true, Method: MethodNone}

	r.setClicking(ctx, true)
	defer r.scheduleCursorReset(context.WithoutCancel(ctx))

	target, probe := r.Resolve(ctx, cursor)
	if target == nil {
		r.logger.Debug("[click] no clickable target", "x", cursor.X, "y", cursor.Y)
		return out
	}
	out.Target, out.Probe = target, probe
	out.Method = r.Activate(ctx, target)

	if err := r.page.Highlight(ctx, target.Rect, r.cfg.HighlightDuration); err != nil {
		r.logger.Debug("[click] highlight failed", "err", err)
	}
	r.logger.Info("[click] activated", "tag", target.Tag, "id", target.ID, "probe", probe, "method", out.Method)
	return out
}

// Resolve runs the probe walk and, failing that, the full stack fallback.
func (r *Resolver) Resolve(ctx context.Context, cursor pointer.Point) (*Element, string) {
	if err := r.page.SetCursorInteractive(ctx, false); err != nil {
		r.logger.Debug("[click] could not disable cursor hit-testing", "err", err)
	}
	defer func() {
		if err := r.page.SetCursorInteractive(context.WithoutCancel(ctx), true); err != nil {
			r.logger.Debug("[click] could not restore cursor hit-testing", "err", err)
		}
	}()

	for _, probe := range ProbePoints(cursor, r.cfg.Probe) {
		el, err := r.page.TopElementAt(ctx, probe.Point)
		if err != nil {
			r.logger.Debug("[click] probe failed", "probe", probe.Name, "err", err)
			continue
		}
		if target := r.climb(el); target != nil {
			return target, probe.Name
		}
	}

	stack, err := r.page.ElementsAt(ctx, cursor)
	if err != nil {
		r.logger.Debug("[click] element stack lookup failed", "err", err)
		return nil, ""
	}
	for _, el := range stack {
		if Clickable(el, r.vocab) {
			return el, ProbeStack
		}
	}
	return nil, ""
}

// climb walks from el toward the document root, at most MaxDepth elements.
func (r *Resolver) climb(el *Element) *Element {
	for depth := 0; el != nil && !el.IsDocumentRoot() && depth < r.cfg.MaxDepth; depth++ {
		if Clickable(el, r.vocab) {
			return el
		}
		el = el.Parent
	}
	return nil
}

// Activate runs the fallback chain: native activation, then a synthetic
// click event, then direct navigation or tab activation.
func (r *Resolver) Activate(ctx context.Context, el *Element) Method {
	err := r.page.NativeActivate(ctx, el)
	if err == nil {
		return MethodNative
	}
	r.logger.Debug("[click] native activation failed", "err", err)

	if err = r.page.DispatchSyntheticClick(ctx, el); err == nil {
		return MethodSynthetic
	}
	r.logger.Debug("[click] synthetic click failed", "err", err)

	if strings.EqualFold(el.Tag, "a") && navigable(el.Href) {
		if err = r.page.Navigate(ctx, el.Href); err == nil {
			return MethodNavigate
		}
		r.logger.Debug("[click] navigation failed", "href", el.Href, "err", err)
	}
	if tabID, ok := TabID(el, r.vocab); ok {
		if err = r.page.ActivateTab(ctx, el, tabID); err == nil {
			return MethodTab
		}
		r.logger.Debug("[click] tab activation failed", "tab", tabID, "err", err)
	}
	return MethodNone
}

func (r *Resolver) setClicking(ctx context.Context, clicking bool) {
	if r.cursor == nil {
		return
	}
	if err := r.cursor.SetCursorClicking(ctx, clicking); err != nil {
		r.logger.Debug("[click] cursor feedback failed", "err", err)
	}
}

func (r *Resolver) scheduleCursorReset(ctx context.Context) {
	r.afterFunc(r.cfg.CursorResetDelay, func() { r.setClicking(ctx, false) })
}

func navigable(href string) bool {
	h := strings.TrimSpace(strings.ToLower(href))
	return h != "" && !strings.HasPrefix(h, "javascript:")
}
