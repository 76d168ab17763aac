// Package cdppage drives a Chromium page over the DevTools protocol: it
// injects the overlay UI, hit-tests and activates host page elements, and
// reports overlay input back as overlay actions.
package cdppage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/nrednav/cuid2"

	"github.com/onkernel/gaze-overlay/lib/clickresolve"
	"github.com/onkernel/gaze-overlay/lib/devtools"
	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/overlay"
	"github.com/onkernel/gaze-overlay/lib/pointer"
)

//go:embed overlay.js
var overlayScript string

const bindingName = "__gazeOverlayCallback__"

// ErrOverlayMissing is returned when the overlay script is not present in
// the current document.
var ErrOverlayMissing = errors.New("overlay script not present in page")

type Options struct {
	AttachAttempts uint
	AttachDelay    time.Duration
	// UpstreamWait bounds each wait for a DevTools URL.
	UpstreamWait time.Duration
}

func DefaultOptions() Options {
	return Options{AttachAttempts: 10, AttachDelay: 500 * time.Millisecond, UpstreamWait: time.Minute}
}

// Page is the CDP-backed host page. It implements clickresolve.Page and
// overlay.Renderer.
type Page struct {
	upstream *devtools.UpstreamManager
	logger   *slog.Logger
	opts     Options

	actions   chan overlay.Action
	handlerMu sync.RWMutex
	handler   func(ctx context.Context, a overlay.Action)

	mu        sync.RWMutex
	sess      *session
	sessionID string
	target    targetInfo
}

var (
	_ clickresolve.Page = (*Page)(nil)
	_ overlay.Renderer  = (*Page)(nil)
)

func New(upstream *devtools.UpstreamManager, opts Options, logger *slog.Logger) *Page {
	def := DefaultOptions()
	if opts.AttachAttempts == 0 {
		opts.AttachAttempts = def.AttachAttempts
	}
	if opts.AttachDelay <= 0 {
		opts.AttachDelay = def.AttachDelay
	}
	if opts.UpstreamWait <= 0 {
		opts.UpstreamWait = def.UpstreamWait
	}
	return &Page{
		upstream: upstream,
		logger:   logger,
		opts:     opts,
		actions:  make(chan overlay.Action, 64),
	}
}

// OnAction sets the receiver of overlay input. It runs on a dedicated
// goroutine in arrival order, so it may block on the overlay controller.
func (p *Page) OnAction(fn func(ctx context.Context, a overlay.Action)) {
	p.handlerMu.Lock()
	p.handler = fn
	p.handlerMu.Unlock()
}

// Connected reports whether a page target is attached.
func (p *Page) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sess != nil
}

// Run keeps a page attached until ctx is done, reattaching whenever the
// connection drops or Chromium restarts with a new DevTools URL.
func (p *Page) Run(ctx context.Context) error {
	go p.dispatch(ctx)

	updates, unsubscribe := p.upstream.Subscribe()
	defer unsubscribe()

	backoff := 250 * time.Millisecond
	for {
		if ctx.Err() != nil {
			return nil
		}
		upstreamURL, err := p.upstream.WaitForInitial(ctx, p.opts.UpstreamWait)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Warn("[cdp-page] waiting for devtools upstream", "err", err)
			continue
		}

		sess, err := p.connect(ctx, upstreamURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("[cdp-page] failed to attach to page", "err", err)
			select {
			case <-ctx.Done():
				return nil
			case <-updates:
			case <-time.After(backoff):
			}
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = 250 * time.Millisecond
		p.queueAction(overlay.Action{Kind: overlay.ActionLoaded})

		select {
		case <-ctx.Done():
			p.detach(sess)
			return nil
		case <-sess.Done():
			p.logger.Warn("[cdp-page] connection lost, reattaching")
		case url := <-updates:
			p.logger.Info("[cdp-page] devtools upstream changed, reattaching", "url", url)
		}
		p.detach(sess)
	}
}

func (p *Page) connect(ctx context.Context, upstreamURL string) (*session, error) {
	var sess *session
	err := retry.New(
		retry.Attempts(p.opts.AttachAttempts),
		retry.Delay(p.opts.AttachDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	).Do(func() error {
		s, err := dialSession(ctx, upstreamURL, p.logger, p.handleEvent)
		if err != nil {
			return err
		}
		if err := p.setup(ctx, s); err != nil {
			s.Close()
			return err
		}
		sess = s
		return nil
	})
	return sess, err
}

// setup attaches to the page, exposes the binding and injects the overlay
// script into the current and every future document.
func (p *Page) setup(ctx context.Context, s *session) error {
	target, sessionID, err := s.attachFirstPage(ctx)
	if err != nil {
		return err
	}
	for _, step := range []struct {
		method string
		params any
	}{
		{"Runtime.enable", nil},
		{"Page.enable", nil},
		{"Runtime.addBinding", map[string]string{"name": bindingName}},
		{"Page.addScriptToEvaluateOnNewDocument", map[string]string{"source": overlayScript}},
	} {
		if _, err := s.call(ctx, step.method, step.params, sessionID); err != nil {
			return fmt.Errorf("%s: %w", step.method, err)
		}
	}
	if _, err := s.evaluate(ctx, sessionID, overlayScript, false); err != nil {
		return fmt.Errorf("inject overlay: %w", err)
	}

	p.mu.Lock()
	p.sess, p.sessionID, p.target = s, sessionID, target
	p.mu.Unlock()
	p.logger.Info("[cdp-page] attached to page target", "id", target.TargetID, "url", target.URL, "session", sessionID)
	return nil
}

func (p *Page) detach(s *session) {
	p.mu.Lock()
	if p.sess == s {
		p.sess, p.sessionID = nil, ""
	}
	p.mu.Unlock()
	s.Close()
}

// handleEvent runs on the CDP read goroutine and must not call back into
// the session.
func (p *Page) handleEvent(msg cdpMessage) {
	p.mu.RLock()
	sessionID := p.sessionID
	p.mu.RUnlock()
	if msg.SessionID == "" || msg.SessionID != sessionID {
		return
	}

	switch msg.Method {
	case "Runtime.bindingCalled":
		var params struct {
			Name    string `json:"name"`
			Payload string `json:"payload"`
		}
		if err := json.Unmarshal(msg.Params, &params); err != nil || params.Name != bindingName {
			return
		}
		var action overlay.Action
		if err := json.Unmarshal([]byte(params.Payload), &action); err != nil {
			p.logger.Debug("[cdp-page] dropping malformed overlay action", "payload", params.Payload, "err", err)
			return
		}
		p.queueAction(action)
	case "Page.loadEventFired":
		p.queueAction(overlay.Action{Kind: overlay.ActionLoaded})
	}
}

func (p *Page) queueAction(a overlay.Action) {
	select {
	case p.actions <- a:
	default:
		p.logger.Warn("[cdp-page] overlay action queue full, dropping", "kind", a.Kind)
	}
}

func (p *Page) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-p.actions:
			p.handlerMu.RLock()
			fn := p.handler
			p.handlerMu.RUnlock()
			if fn != nil {
				fn(ctx, a)
			}
		}
	}
}

func (p *Page) current() (*session, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sess, p.sessionID
}

// invoke calls window.__gazeOverlay.<fn>(args...) and decodes the result
// into out when out is non-nil.
func (p *Page) invoke(ctx context.Context, out any, fn string, args ...any) error {
	sess, sessionID := p.current()
	if sess == nil {
		return ErrNotConnected
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal %s argument: %w", fn, err)
		}
		parts = append(parts, string(b))
	}
	expr := fmt.Sprintf("window.__gazeOverlay ? window.__gazeOverlay.%s(%s) : null", fn, strings.Join(parts, ","))
	raw, err := sess.evaluate(ctx, sessionID, expr, true)
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return ErrOverlayMissing
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}

// invokeOK is invoke for overlay calls that report success as a boolean.
func (p *Page) invokeOK(ctx context.Context, fn string, args ...any) error {
	var ok bool
	if err := p.invoke(ctx, &ok, fn, args...); err != nil {
		return err
	}
	if !ok {
		return ErrOverlayMissing
	}
	return nil
}

type elementDescriptor struct {
	Ref     string            `json:"ref"`
	Tag     string            `json:"tag"`
	ID      string            `json:"id"`
	Classes []string          `json:"classes"`
	Attrs   map[string]string `json:"attrs"`
	Role    string            `json:"role"`
	Href    string            `json:"href"`
	Rect    clickresolve.Rect `json:"rect"`
	Parent  string            `json:"parent"`
}

type probeResult struct {
	Hits     []string            `json:"hits"`
	Elements []elementDescriptor `json:"elements"`
}

// elements links descriptors into Element trees and returns the hits in
// stacking order.
func (r probeResult) elements() []*clickresolve.Element {
	byRef := make(map[string]*clickresolve.Element, len(r.Elements))
	for _, d := range r.Elements {
		byRef[d.Ref] = &clickresolve.Element{
			Ref:     d.Ref,
			Tag:     d.Tag,
			ID:      d.ID,
			Classes: d.Classes,
			Attrs:   d.Attrs,
			Role:    d.Role,
			Href:    d.Href,
			Rect:    d.Rect,
		}
	}
	for _, d := range r.Elements {
		if parent, ok := byRef[d.Parent]; ok {
			byRef[d.Ref].Parent = parent
		}
	}
	hits := make([]*clickresolve.Element, 0, len(r.Hits))
	for _, ref := range r.Hits {
		if el, ok := byRef[ref]; ok {
			hits = append(hits, el)
		}
	}
	return hits
}

func (p *Page) probe(ctx context.Context, pt pointer.Point, all bool) ([]*clickresolve.Element, error) {
	var res probeResult
	if err := p.invoke(ctx, &res, "elementsAt", pt.X, pt.Y, cuid2.Generate(), all); err != nil {
		return nil, err
	}
	return res.elements(), nil
}

func (p *Page) TopElementAt(ctx context.Context, pt pointer.Point) (*clickresolve.Element, error) {
	els, err := p.probe(ctx, pt, false)
	if err != nil || len(els) == 0 {
		return nil, err
	}
	return els[0], nil
}

func (p *Page) ElementsAt(ctx context.Context, pt pointer.Point) ([]*clickresolve.Element, error) {
	return p.probe(ctx, pt, true)
}

func (p *Page) SetCursorInteractive(ctx context.Context, interactive bool) error {
	return p.invokeOK(ctx, "setCursorInteractive", interactive)
}

type activation struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

func (p *Page) activate(ctx context.Context, el *clickresolve.Element, mode, tabID string) error {
	var res activation
	if err := p.invoke(ctx, &res, "activate", el.Ref, mode, tabID); err != nil {
		return err
	}
	switch {
	case res.OK:
		return nil
	case res.Reason == "stale":
		return clickresolve.ErrStaleElement
	case res.Reason == "not-applicable":
		return clickresolve.ErrNotApplicable
	default:
		return fmt.Errorf("%s activation: %s", mode, res.Reason)
	}
}

func (p *Page) NativeActivate(ctx context.Context, el *clickresolve.Element) error {
	return p.activate(ctx, el, "native", "")
}

func (p *Page) DispatchSyntheticClick(ctx context.Context, el *clickresolve.Element) error {
	return p.activate(ctx, el, "synthetic", "")
}

func (p *Page) ActivateTab(ctx context.Context, el *clickresolve.Element, tabID string) error {
	return p.activate(ctx, el, "tab", tabID)
}

func (p *Page) Navigate(ctx context.Context, href string) error {
	return p.invokeOK(ctx, "navigate", href)
}

func (p *Page) Highlight(ctx context.Context, r clickresolve.Rect, d time.Duration) error {
	return p.invokeOK(ctx, "highlight", r, d.Milliseconds())
}

func (p *Page) EnsureOverlay(ctx context.Context) error {
	sess, sessionID := p.current()
	if sess == nil {
		return ErrNotConnected
	}
	// soft navigation keeps the script but replaces the document body
	if _, err := sess.evaluate(ctx, sessionID, overlayScript, false); err != nil {
		return fmt.Errorf("inject overlay: %w", err)
	}
	return p.invokeOK(ctx, "ensure")
}

func (p *Page) MoveCursor(ctx context.Context, pt pointer.Point) error {
	return p.invokeOK(ctx, "moveCursor", pt.X, pt.Y)
}

func (p *Page) SetCursorClicking(ctx context.Context, clicking bool) error {
	return p.invokeOK(ctx, "setClicking", clicking)
}

func (p *Page) ShowStatus(ctx context.Context, ind overlay.Indicator) error {
	return p.invokeOK(ctx, "showStatus", ind)
}

func (p *Page) RenderControls(ctx context.Context, c overlay.Controls) error {
	return p.invokeOK(ctx, "renderControls", c)
}

func (p *Page) ShowDebug(ctx context.Context, d gazestream.Debug) error {
	return p.invokeOK(ctx, "showDebug", d)
}

func (p *Page) ScrollBy(ctx context.Context, dy float64) error {
	return p.invokeOK(ctx, "scrollBy", dy)
}

func (p *Page) Viewport(ctx context.Context) (pointer.Viewport, error) {
	var vp pointer.Viewport
	err := p.invoke(ctx, &vp, "viewport")
	return vp, err
}

func (p *Page) Origin(ctx context.Context) (string, error) {
	var origin string
	err := p.invoke(ctx, &origin, "origin")
	return origin, err
}

func (p *Page) SetInterceptLinks(ctx context.Context, enabled bool) error {
	return p.invokeOK(ctx, "interceptLinks", enabled)
}

func (p *Page) SoftNavigate(ctx context.Context, href string) error {
	return p.invokeOK(ctx, "softNavigate", href)
}

// OpenInNewContext opens href in a new page target, leaving the current
// page untouched.
func (p *Page) OpenInNewContext(ctx context.Context, href string) error {
	sess, _ := p.current()
	if sess == nil {
		return ErrNotConnected
	}
	if _, err := sess.call(ctx, "Target.createTarget", map[string]string{"url": href}, ""); err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	return nil
}
