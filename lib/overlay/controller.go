// Package overlay owns the overlay UI state and wires the stream client,
// pointer mapping, click resolution and the settings store together. All
// state changes happen on one event goroutine started by Run.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onkernel/gaze-overlay/lib/clickresolve"
	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/logger"
	"github.com/onkernel/gaze-overlay/lib/pointer"
	"github.com/onkernel/gaze-overlay/lib/settings"
)

var (
	ErrClosed              = errors.New("overlay controller closed")
	ErrUnknownAction       = errors.New("unknown overlay action")
	ErrInvalidActivation   = errors.New("activation must be a single or double click")
	ErrInvalidNavigateHref = errors.New("invalid navigation target")
)

type Options struct {
	Store    settings.Store
	Stream   gazestream.Client
	Renderer Renderer
	// Page is the host page the click resolver acts on.
	Page       clickresolve.Page
	Vocabulary clickresolve.Vocabulary
	Click      clickresolve.Config

	Calibration    pointer.Calibration
	StatusAutoHide time.Duration
	ScrollStep     float64

	// Mirror is optional.
	Mirror PointerMirror
	Logger *slog.Logger

	// AfterFunc schedules status auto-hide; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) *time.Timer
	Now       func() time.Time
}

// Snapshot is a point-in-time view of the overlay for status consumers.
type Snapshot struct {
	ID              string                `json:"id"`
	State           string                `json:"state"`
	Indicator       Indicator             `json:"indicator"`
	TrackingEnabled bool                  `json:"trackingEnabled"`
	PanelVisible    bool                  `json:"panelVisible"`
	Settings        settings.Settings     `json:"settings"`
	Cursor          pointer.Point         `json:"cursor"`
	Viewport        pointer.Viewport      `json:"viewport"`
	FaceDetected    *bool                 `json:"faceDetected,omitempty"`
	Debug           *gazestream.Debug     `json:"debug,omitempty"`
	LastClick       *clickresolve.Outcome `json:"lastClick,omitempty"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// NavigationKind reports how HandleNavigation treated a link.
type NavigationKind string

const (
	NavigationSoft       NavigationKind = "soft"
	NavigationNewContext NavigationKind = "new-context"
	NavigationDirect     NavigationKind = "direct"
)

// Controller is the overlay instance. Construct one per page with New and
// drive it with Run.
type Controller struct {
	opts     Options
	logger   *slog.Logger
	resolver *clickresolve.Resolver
	queue    *queue
	done     chan struct{}
	runOnce  sync.Once
	stopOnce sync.Once

	// owned by the event goroutine
	id          string
	settings    settings.Settings
	state       gazestream.State
	indicator   Indicator
	viewport    pointer.Viewport
	cursor      pointer.Point
	face        *bool
	debug       *gazestream.Debug
	lastClick   *clickresolve.Outcome
	hideTimer   *time.Timer
	hideGen     uint64
	initialized bool

	snapMu    sync.RWMutex
	snap      Snapshot
	listeners []func(Snapshot)
}

func New(opts Options) *Controller {
	if opts.StatusAutoHide <= 0 {
		opts.StatusAutoHide = DefaultStatusAutoHide
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = DefaultScrollStep
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = time.AfterFunc
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Vocabulary.Tags == nil {
		opts.Vocabulary = clickresolve.DefaultVocabulary()
	}

	c := &Controller{
		opts:     opts,
		logger:   logger.Component(opts.Logger, "overlay"),
		queue:    newQueue(),
		done:     make(chan struct{}),
		id:       uuid.NewString(),
		settings: settings.Defaults(),
		state:    gazestream.StateDisconnected,
	}
	c.snap = c.buildSnapshot()

	// cursor resets go through the event queue like every other render
	click := opts.Click
	click.AfterFunc = func(d time.Duration, f func()) *time.Timer {
		return opts.AfterFunc(d, func() {
			c.queue.push(func(context.Context) { f() })
		})
	}
	c.resolver = clickresolve.New(opts.Page, opts.Renderer, opts.Vocabulary, click, opts.Logger)

	opts.Stream.OnSample(func(s gazestream.Sample) {
		c.queue.push(func(ctx context.Context) { c.handleSample(ctx, s) })
	})
	opts.Stream.OnBlink(func(at time.Time) {
		c.queue.push(func(ctx context.Context) { c.handleBlink(ctx, at) })
	})
	opts.Stream.OnFace(func(detected bool) {
		c.queue.push(func(context.Context) { c.handleFace(detected) })
	})
	opts.Stream.OnStateChange(func(st gazestream.State) {
		c.queue.push(func(ctx context.Context) { c.handleState(ctx, st) })
	})
	return c
}

// Run processes overlay events in arrival order until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	started := false
	c.runOnce.Do(func() { started = true })
	if !started {
		return errors.New("overlay controller already running")
	}
	defer close(c.done)
	c.logger.Info("[overlay] event loop started", "id", c.id)
	c.queue.run(ctx)
	c.logger.Info("[overlay] event loop stopped", "id", c.id)
	return nil
}

// do runs fn on the event goroutine and waits for its result.
func (c *Controller) do(ctx context.Context, fn func(ctx context.Context) error) error {
	result := make(chan error, 1)
	if !c.queue.push(func(context.Context) { result <- fn(ctx) }) {
		return ErrClosed
	}
	select {
	case err := <-result:
		return err
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Init loads persisted settings, (re)draws the overlay and starts the stream
// when tracking was left enabled.
func (c *Controller) Init(ctx context.Context) error {
	return c.do(ctx, c.init)
}

func (c *Controller) init(ctx context.Context) error {
	loaded, err := c.opts.Store.Load(ctx)
	if err != nil {
		c.logger.Error("[overlay] failed to load settings, using defaults", "err", err)
		loaded = settings.Defaults()
	}
	c.settings = loaded

	if err := c.opts.Renderer.EnsureOverlay(ctx); err != nil {
		return fmt.Errorf("ensure overlay: %w", err)
	}
	c.refreshViewport(ctx)
	c.renderControls(ctx)
	c.renderIndicator(ctx)
	if err := c.opts.Renderer.SetInterceptLinks(ctx, c.settings.Enabled); err != nil {
		c.logger.Warn("[overlay] failed to toggle link interception", "err", err)
	}

	if c.settings.Enabled {
		c.opts.Stream.PushSettings(c.settings)
		// an exhausted connection stays down until the user re-enables
		if c.opts.Stream.State() == gazestream.StateDisconnected {
			c.opts.Stream.Start()
		}
	}
	if !c.initialized {
		c.logger.Info("[overlay] initialized", "id", c.id, "enabled", c.settings.Enabled, "panel", c.settings.ControlsVisible)
	} else {
		c.logger.Debug("[overlay] reinitialized", "id", c.id)
	}
	c.initialized = true
	c.publish()
	return nil
}

// ToggleTracking flips the tracking flag, persists it and starts or stops
// the stream. It returns the new flag.
func (c *Controller) ToggleTracking(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.do(ctx, func(ctx context.Context) error {
		enabled = !c.settings.Enabled
		return c.setTracking(ctx, enabled)
	})
	return enabled, err
}

func (c *Controller) setTracking(ctx context.Context, enabled bool) error {
	c.settings.Enabled = enabled
	saveErr := c.save(ctx)

	if enabled {
		c.opts.Stream.PushSettings(c.settings)
		c.opts.Stream.Start()
	} else {
		c.opts.Stream.Stop()
	}
	if err := c.opts.Renderer.SetInterceptLinks(ctx, enabled); err != nil {
		c.logger.Warn("[overlay] failed to toggle link interception", "err", err)
	}
	c.renderControls(ctx)
	c.publish()
	c.logger.Info("[overlay] tracking toggled", "enabled", enabled)
	return saveErr
}

// TogglePanel shows or hides the settings panel and persists the choice.
func (c *Controller) TogglePanel(ctx context.Context) (bool, error) {
	var visible bool
	err := c.do(ctx, func(ctx context.Context) error {
		c.settings.ControlsVisible = !c.settings.ControlsVisible
		visible = c.settings.ControlsVisible
		saveErr := c.save(ctx)
		c.renderControls(ctx)
		c.publish()
		return saveErr
	})
	return visible, err
}

// Activate handles the toggle button: one click toggles tracking, two
// toggle the panel.
func (c *Controller) Activate(ctx context.Context, clicks int) error {
	switch clicks {
	case 1:
		_, err := c.ToggleTracking(ctx)
		return err
	case 2:
		_, err := c.TogglePanel(ctx)
		return err
	default:
		return fmt.Errorf("%w: %d", ErrInvalidActivation, clicks)
	}
}

func (c *Controller) SetMoveSensitivity(ctx context.Context, v float64) (settings.Settings, error) {
	return c.updateSettings(ctx, func(s *settings.Settings) { s.MoveSensitivity = v })
}

func (c *Controller) SetBlinkSensitivity(ctx context.Context, v float64) (settings.Settings, error) {
	return c.updateSettings(ctx, func(s *settings.Settings) { s.BlinkSensitivity = v })
}

func (c *Controller) updateSettings(ctx context.Context, mutate func(*settings.Settings)) (settings.Settings, error) {
	var out settings.Settings
	err := c.do(ctx, func(ctx context.Context) error {
		mutate(&c.settings)
		c.settings = c.settings.Clamp()
		out = c.settings
		saveErr := c.save(ctx)
		c.opts.Stream.PushSettings(c.settings)
		c.renderControls(ctx)
		c.publish()
		return saveErr
	})
	return out, err
}

func (c *Controller) ScrollUp(ctx context.Context) error {
	return c.do(ctx, func(ctx context.Context) error { return c.scroll(ctx, -c.opts.ScrollStep) })
}

func (c *Controller) ScrollDown(ctx context.Context) error {
	return c.do(ctx, func(ctx context.Context) error { return c.scroll(ctx, c.opts.ScrollStep) })
}

func (c *Controller) scroll(ctx context.Context, dy float64) error {
	if err := c.opts.Renderer.ScrollBy(ctx, dy); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// HandleNavigation follows an intercepted link. Same-origin links are
// swapped in place and the overlay is reinitialized; other origins open in a
// new browsing context. With tracking off the page navigates normally.
func (c *Controller) HandleNavigation(ctx context.Context, href string) (NavigationKind, error) {
	var kind NavigationKind
	err := c.do(ctx, func(ctx context.Context) error {
		var err error
		kind, err = c.navigate(ctx, href)
		return err
	})
	return kind, err
}

func (c *Controller) navigate(ctx context.Context, href string) (NavigationKind, error) {
	origin, err := c.opts.Renderer.Origin(ctx)
	if err != nil {
		return "", fmt.Errorf("read page origin: %w", err)
	}
	target, same, err := resolveLink(origin, href)
	if err != nil {
		return "", err
	}

	if !c.settings.Enabled {
		return NavigationDirect, c.opts.Page.Navigate(ctx, target)
	}
	if !same {
		c.logger.Info("[overlay] opening cross-origin link in new context", "href", target)
		return NavigationNewContext, c.opts.Renderer.OpenInNewContext(ctx, target)
	}

	c.logger.Info("[overlay] soft navigation", "href", target)
	if err := c.opts.Renderer.SoftNavigate(ctx, target); err != nil {
		return NavigationSoft, fmt.Errorf("soft navigate: %w", err)
	}
	return NavigationSoft, c.init(ctx)
}

// resolveLink resolves href against the page origin and reports whether it
// stays on that origin.
func resolveLink(origin, href string) (string, bool, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return "", false, fmt.Errorf("%w: origin %q: %v", ErrInvalidNavigateHref, origin, err)
	}
	ref, err := url.Parse(href)
	if err != nil || href == "" {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidNavigateHref, href)
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidNavigateHref, abs.Scheme)
	}
	same := abs.Scheme == base.Scheme && abs.Host == base.Host
	return abs.String(), same, nil
}

// HandleAction dispatches an input raised by the overlay UI in the page.
func (c *Controller) HandleAction(ctx context.Context, a Action) error {
	switch a.Kind {
	case ActionActivate:
		return c.Activate(ctx, a.Clicks)
	case ActionToggleTracking:
		_, err := c.ToggleTracking(ctx)
		return err
	case ActionTogglePanel:
		_, err := c.TogglePanel(ctx)
		return err
	case ActionMoveSensitivity:
		_, err := c.SetMoveSensitivity(ctx, a.Value)
		return err
	case ActionBlinkSensitivity:
		_, err := c.SetBlinkSensitivity(ctx, a.Value)
		return err
	case ActionScrollUp:
		return c.ScrollUp(ctx)
	case ActionScrollDown:
		return c.ScrollDown(ctx)
	case ActionNavigate:
		_, err := c.HandleNavigation(ctx, a.Href)
		return err
	case ActionResize:
		return c.do(ctx, func(ctx context.Context) error {
			if a.Width > 0 && a.Height > 0 {
				c.viewport = pointer.Viewport{Width: a.Width, Height: a.Height}
			} else {
				c.refreshViewport(ctx)
			}
			c.renderControls(ctx)
			c.publish()
			return nil
		})
	case ActionLoaded:
		return c.Init(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}

func (c *Controller) handleFace(detected bool) {
	if c.face != nil && *c.face == detected {
		return
	}
	c.face = &detected
	c.publish()
}

func (c *Controller) handleSample(ctx context.Context, s gazestream.Sample) {
	if s.Debug != nil {
		c.debug = s.Debug
		if c.settings.ControlsVisible {
			if err := c.opts.Renderer.ShowDebug(ctx, *s.Debug); err != nil {
				c.logger.Debug("[overlay] failed to render debug values", "err", err)
			}
		}
	}
	if !c.settings.Enabled {
		return
	}

	c.cursor = pointer.Project(s, c.settings, c.viewport, c.opts.Calibration)
	if err := c.opts.Renderer.MoveCursor(ctx, c.cursor); err != nil {
		c.logger.Debug("[overlay] failed to move cursor", "err", err)
	}
	if c.opts.Mirror != nil {
		if err := c.opts.Mirror.MoveTo(ctx, c.cursor, c.viewport); err != nil {
			c.logger.Debug("[overlay] pointer mirror failed", "err", err)
		}
	}
	c.publish()
}

func (c *Controller) handleBlink(ctx context.Context, at time.Time) {
	if !c.settings.Enabled {
		return
	}
	if a, ok := AffordanceAt(c.viewport, c.cursor); ok {
		if !c.resolver.Gate(at) {
			return
		}
		dy := c.opts.ScrollStep
		if a.Name == AffordanceScrollUp {
			dy = -dy
		}
		if err := c.scroll(ctx, dy); err != nil {
			c.logger.Warn("[overlay] affordance scroll failed", "affordance", a.Name, "err", err)
		}
		return
	}

	out := c.resolver.HandleBlink(ctx, at, c.cursor)
	if !out.Accepted {
		return
	}
	c.lastClick = &out
	c.publish()
}

func (c *Controller) handleState(ctx context.Context, st gazestream.State) {
	c.state = st
	c.renderIndicator(ctx)
	c.publish()
}

func (c *Controller) renderIndicator(ctx context.Context) {
	c.indicator = IndicatorFor(c.state)
	c.hideGen++
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
	if err := c.opts.Renderer.ShowStatus(ctx, c.indicator); err != nil {
		c.logger.Debug("[overlay] failed to render status", "err", err)
	}
	if !c.indicator.Visible || c.indicator.Persistent {
		return
	}

	gen := c.hideGen
	c.hideTimer = c.opts.AfterFunc(c.opts.StatusAutoHide, func() {
		c.queue.push(func(ctx context.Context) {
			if gen != c.hideGen {
				return
			}
			c.indicator = Indicator{}
			if err := c.opts.Renderer.ShowStatus(ctx, c.indicator); err != nil {
				c.logger.Debug("[overlay] failed to hide status", "err", err)
			}
			c.publish()
		})
	})
}

func (c *Controller) renderControls(ctx context.Context) {
	ctl := Controls{
		TrackingEnabled: c.settings.Enabled,
		PanelVisible:    c.settings.ControlsVisible,
		Settings:        c.settings,
		Affordances:     Affordances(c.viewport),
	}
	if err := c.opts.Renderer.RenderControls(ctx, ctl); err != nil {
		c.logger.Debug("[overlay] failed to render controls", "err", err)
	}
}

func (c *Controller) refreshViewport(ctx context.Context) {
	vp, err := c.opts.Renderer.Viewport(ctx)
	if err != nil {
		c.logger.Warn("[overlay] failed to read viewport", "err", err)
		return
	}
	c.viewport = vp
}

func (c *Controller) save(ctx context.Context) error {
	if err := c.opts.Store.Save(ctx, c.settings); err != nil {
		c.logger.Error("[overlay] failed to persist settings", "err", err)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Snapshot returns the latest published view of the overlay.
func (c *Controller) Snapshot() Snapshot {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// OnSnapshot registers fn to receive every published snapshot. fn runs on
// the event goroutine and must not block.
func (c *Controller) OnSnapshot(fn func(Snapshot)) {
	c.snapMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.snapMu.Unlock()
}

func (c *Controller) publish() {
	snap := c.buildSnapshot()
	c.snapMu.Lock()
	c.snap = snap
	listeners := slices.Clone(c.listeners)
	c.snapMu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (c *Controller) buildSnapshot() Snapshot {
	return Snapshot{
		ID:              c.id,
		State:           c.state.String(),
		Indicator:       c.indicator,
		TrackingEnabled: c.settings.Enabled,
		PanelVisible:    c.settings.ControlsVisible,
		Settings:        c.settings,
		Cursor:          c.cursor,
		Viewport:        c.viewport,
		FaceDetected:    c.face,
		Debug:           c.debug,
		LastClick:       c.lastClick,
		UpdatedAt:       c.opts.Now(),
	}
}

// Shutdown stops the stream and rejects further work. Run should be
// cancelled by its caller afterwards.
func (c *Controller) Shutdown(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		err = c.do(ctx, func(context.Context) error {
			c.hideGen++
			if c.hideTimer != nil {
				c.hideTimer.Stop()
				c.hideTimer = nil
			}
			c.opts.Stream.Stop()
			return nil
		})
		c.queue.close()
		if errors.Is(err, ErrClosed) {
			c.opts.Stream.Stop()
			err = nil
		}
	})
	return err
}
