package overlay

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onkernel/gaze-overlay/lib/clickresolve"
	"github.com/onkernel/gaze-overlay/lib/gazestream"
	"github.com/onkernel/gaze-overlay/lib/pointer"
	"github.com/onkernel/gaze-overlay/lib/settings"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTimers struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (f *fakeTimers) AfterFunc(d time.Duration, fn func()) *time.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fn)
	f.delays = append(f.delays, d)
	return nil
}

func (f *fakeTimers) fireAll() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

type harness struct {
	c        *Controller
	store    *settings.MemoryStore
	stream   *gazestream.FakeClient
	renderer *RecordingRenderer
	page     *clickresolve.MemoryPage
	timers   *fakeTimers
}

func newHarness(t *testing.T, seed *settings.Settings) *harness {
	t.Helper()
	h := &harness{
		store:    settings.NewMemoryStore(),
		stream:   gazestream.NewFakeClient(),
		renderer: NewRecordingRenderer(pointer.Viewport{Width: 1000, Height: 800}, "https://app.example.com"),
		page:     clickresolve.NewMemoryPage(),
		timers:   &fakeTimers{},
	}
	if seed != nil {
		require.NoError(t, h.store.Save(context.Background(), *seed))
	}
	html := h.page.Add(&clickresolve.Element{Tag: "html", Rect: clickresolve.Rect{Width: 1000, Height: 800}})
	h.page.Add(&clickresolve.Element{Tag: "body", Rect: clickresolve.Rect{Width: 1000, Height: 800}, Parent: html})

	h.c = New(Options{
		Store:       h.store,
		Stream:      h.stream,
		Renderer:    h.renderer,
		Page:        h.page,
		Calibration: pointer.DefaultCalibration(),
		Logger:      silentLogger(),
		AfterFunc:   h.timers.AfterFunc,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

// sync waits until every event queued so far has been handled.
func (h *harness) sync(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.c.do(ctx, func(context.Context) error { return nil }))
}

func (h *harness) body() *clickresolve.Element {
	els, _ := h.page.ElementsAt(context.Background(), pointer.Point{X: 1, Y: 1})
	return els[0]
}

func enabledSettings() *settings.Settings {
	s := settings.Defaults()
	s.Enabled = true
	return &s
}

func TestInitRestoresPersistedState(t *testing.T) {
	seed := settings.Settings{Enabled: true, MoveSensitivity: 1.4, BlinkSensitivity: 0.006, ControlsVisible: false}
	h := newHarness(t, &seed)
	ctx := context.Background()

	require.NoError(t, h.c.Init(ctx))
	h.sync(t)

	rec := h.renderer.Recorded()
	require.Equal(t, 1, rec.Ensured)
	require.Equal(t, []bool{true}, rec.Intercept)
	last := rec.Controls[len(rec.Controls)-1]
	require.True(t, last.TrackingEnabled)
	require.False(t, last.PanelVisible)
	require.Equal(t, 1.4, last.Settings.MoveSensitivity)
	require.Len(t, last.Affordances, 2)

	require.Equal(t, 1, h.stream.Starts())
	require.Equal(t, gazestream.StateConnecting, h.stream.State())

	h.stream.Open()
	require.Equal(t, []settings.Settings{seed}, h.stream.Pushed())

	snap := h.c.Snapshot()
	require.True(t, snap.TrackingEnabled)
	require.False(t, snap.PanelVisible)
	require.Equal(t, pointer.Viewport{Width: 1000, Height: 800}, snap.Viewport)
}

func TestInitWithDefaultsStaysIdle(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.c.Init(context.Background()))

	require.Zero(t, h.stream.Starts())
	snap := h.c.Snapshot()
	require.False(t, snap.TrackingEnabled)
	require.True(t, snap.PanelVisible)
	require.Equal(t, "disconnected", snap.State)
	require.False(t, snap.Indicator.Visible)
}

func TestActivateTogglesTrackingAndPanelIndependently(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.c.Init(ctx))

	require.NoError(t, h.c.Activate(ctx, 1))
	raw, _ := h.store.Raw(settings.KeyEnabled)
	require.Equal(t, "true", raw)
	require.Equal(t, 1, h.stream.Starts())

	require.NoError(t, h.c.Activate(ctx, 2))
	raw, _ = h.store.Raw(settings.KeyControlsVisible)
	require.Equal(t, "false", raw)
	require.True(t, h.c.Snapshot().TrackingEnabled, "panel toggle leaves tracking alone")

	h.stream.Open()
	require.NoError(t, h.c.Activate(ctx, 1))
	h.sync(t)
	require.Equal(t, 1, h.stream.Stops())
	require.Equal(t, gazestream.StateDisconnected, h.stream.State())
	snap := h.c.Snapshot()
	require.False(t, snap.TrackingEnabled)
	require.False(t, snap.PanelVisible, "tracking toggle leaves the panel alone")
	require.Equal(t, "disconnected", snap.State)
	require.Equal(t, []bool{false, true, false}, h.renderer.Recorded().Intercept)

	require.ErrorIs(t, h.c.Activate(ctx, 3), ErrInvalidActivation)
}

func TestCursorResetRunsOnEventLoop(t *testing.T) {
	h := newHarness(t, enabledSettings())
	h.page.Add(&clickresolve.Element{Tag: "button", Rect: clickresolve.Rect{X: 500, Y: 420, Width: 60, Height: 40}, Parent: h.body()})
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.Open()
	h.stream.EmitSample(gazestream.Sample{X: 0.5, Y: 0.5})
	h.stream.EmitBlink(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	h.sync(t)
	require.Equal(t, []bool{true}, h.renderer.Recorded().Clicking)
	require.Contains(t, h.timers.delays, clickresolve.DefaultConfig().CursorResetDelay)

	blocked, release := make(chan struct{}), make(chan struct{})
	go func() {
		_ = h.c.do(context.Background(), func(context.Context) error {
			close(blocked)
			<-release
			return nil
		})
	}()
	<-blocked

	h.timers.fireAll()
	require.Equal(t, []bool{true}, h.renderer.Recorded().Clicking, "reset waits for the event loop")

	close(release)
	h.sync(t)
	require.Equal(t, []bool{true, false}, h.renderer.Recorded().Clicking)
}

func TestStatusIndicatorMappingAndAutoHide(t *testing.T) {
	h := newHarness(t, enabledSettings())
	require.NoError(t, h.c.Init(context.Background()))
	h.sync(t)
	require.Equal(t, ColorAmber, h.c.Snapshot().Indicator.Color)

	h.stream.Open()
	h.sync(t)
	require.Equal(t, Indicator{Visible: true, Color: ColorGreen, Label: "Connected"}, h.c.Snapshot().Indicator)

	// the stale connecting timer must not hide the connected indicator
	h.timers.mu.Lock()
	stale := h.timers.pending[0]
	h.timers.pending = h.timers.pending[1:]
	h.timers.mu.Unlock()
	stale()
	h.sync(t)
	require.True(t, h.c.Snapshot().Indicator.Visible)

	h.timers.fireAll()
	h.sync(t)
	require.False(t, h.c.Snapshot().Indicator.Visible)
	require.Equal(t, []time.Duration{DefaultStatusAutoHide, DefaultStatusAutoHide}, h.timers.delays)

	h.stream.Fail()
	h.sync(t)
	ind := h.c.Snapshot().Indicator
	require.Equal(t, ColorRed, ind.Color)
	require.True(t, ind.Persistent)
	h.timers.fireAll()
	h.sync(t)
	require.True(t, h.c.Snapshot().Indicator.Visible, "error indicator persists")
}

func TestIndicatorFor(t *testing.T) {
	tests := []struct {
		state gazestream.State
		color Color
		pulse bool
	}{
		{gazestream.StateConnecting, ColorAmber, false},
		{gazestream.StateConnected, ColorGreen, false},
		{gazestream.StateTracking, ColorBlue, true},
		{gazestream.StateError, ColorRed, false},
		{gazestream.StateDisconnected, ColorNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			ind := IndicatorFor(tt.state)
			require.Equal(t, tt.color, ind.Color)
			require.Equal(t, tt.pulse, ind.Pulse)
			require.Equal(t, tt.state != gazestream.StateDisconnected, ind.Visible)
			require.Equal(t, tt.state == gazestream.StateError, ind.Persistent)
		})
	}
}

func TestSamplesMoveCursorOnlyWhileEnabled(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.EmitSample(gazestream.Sample{X: 0.5, Y: 0.5})
	h.sync(t)
	require.Empty(t, h.renderer.Recorded().Cursor)

	_, err := h.c.ToggleTracking(context.Background())
	require.NoError(t, err)
	h.stream.Open()
	h.stream.EmitSample(gazestream.Sample{X: 0.5, Y: 0.5})
	h.sync(t)

	cursor := h.renderer.Recorded().Cursor
	require.Len(t, cursor, 1)
	require.InDelta(t, 520, cursor[0].X, 1e-9)
	require.InDelta(t, 440, cursor[0].Y, 1e-9)
	require.Equal(t, "tracking", h.c.Snapshot().State)
}

func TestSampleMetadataReachesSnapshot(t *testing.T) {
	h := newHarness(t, enabledSettings())
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.Open()

	dbg := &gazestream.Debug{LeftEyeHeight: 0.01, RightEyeHeight: 0.012, EyeRatio: 0.83, Threshold: 0.004}
	h.stream.EmitFace(true)
	h.stream.EmitSample(gazestream.Sample{X: 0.4, Y: 0.6, Debug: dbg})
	h.sync(t)

	snap := h.c.Snapshot()
	require.NotNil(t, snap.FaceDetected)
	require.True(t, *snap.FaceDetected)
	require.Equal(t, dbg, snap.Debug)
	require.Equal(t, []gazestream.Debug{*dbg}, h.renderer.Recorded().Debug)
}

func TestFaceLossWithoutGazeClearsFaceDetected(t *testing.T) {
	h := newHarness(t, enabledSettings())
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.Open()

	h.stream.EmitFace(true)
	h.stream.EmitSample(gazestream.Sample{X: 0.4, Y: 0.6})
	h.sync(t)
	require.True(t, *h.c.Snapshot().FaceDetected)
	cursor := h.c.Snapshot().Cursor

	// the sensing process sends {"face_detected": false, "wink": false}
	h.stream.EmitFace(false)
	h.sync(t)
	snap := h.c.Snapshot()
	require.NotNil(t, snap.FaceDetected)
	require.False(t, *snap.FaceDetected)
	require.Equal(t, cursor, snap.Cursor)
}

func TestBlinkClicksWithDebounce(t *testing.T) {
	h := newHarness(t, enabledSettings())
	button := h.page.Add(&clickresolve.Element{Tag: "button", Rect: clickresolve.Rect{X: 500, Y: 420, Width: 60, Height: 40}, Parent: h.body()})
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.Open()
	h.stream.EmitSample(gazestream.Sample{X: 0.5, Y: 0.5})

	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	h.stream.EmitBlink(t0)
	h.stream.EmitBlink(t0.Add(500 * time.Millisecond))
	h.sync(t)
	require.Len(t, h.page.Actions(), 1)

	h.stream.EmitBlink(t0.Add(1300 * time.Millisecond))
	h.sync(t)
	actions := h.page.Actions()
	require.Len(t, actions, 2)
	require.Equal(t, button.Ref, actions[1].Ref)

	last := h.c.Snapshot().LastClick
	require.NotNil(t, last)
	require.Equal(t, clickresolve.MethodNative, last.Method)
	require.Equal(t, "center", last.Probe)
}

func TestBlinkIgnoredWhileDisabled(t *testing.T) {
	h := newHarness(t, nil)
	h.page.Add(&clickresolve.Element{Tag: "button", Rect: clickresolve.Rect{Width: 1000, Height: 800}, Parent: h.body()})
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.EmitBlink(time.Now())
	h.sync(t)
	require.Empty(t, h.page.Actions())
}

func TestBlinkOnScrollAffordances(t *testing.T) {
	h := newHarness(t, enabledSettings())
	require.NoError(t, h.c.Init(context.Background()))
	h.stream.Open()
	t0 := time.Now()

	// projects to (900, 260): inside the up target at x 840..960, y 200..320
	h.stream.EmitSample(gazestream.Sample{X: 0.88, Y: 0.275})
	h.stream.EmitBlink(t0)
	// projects to (900, 580): inside the down target at y 520..640
	h.stream.EmitSample(gazestream.Sample{X: 0.88, Y: 0.675})
	h.stream.EmitBlink(t0.Add(300 * time.Millisecond))
	h.stream.EmitBlink(t0.Add(1300 * time.Millisecond))
	h.sync(t)

	require.Equal(t, []float64{-DefaultScrollStep, DefaultScrollStep}, h.renderer.Recorded().Scrolls)
	require.Empty(t, h.page.Actions())
}

func TestAffordanceGeometry(t *testing.T) {
	aff := Affordances(pointer.Viewport{Width: 1280, Height: 720})
	require.Equal(t, clickresolve.Rect{X: 1120, Y: 180, Width: 120, Height: 120}, aff[0].Rect)
	require.Equal(t, clickresolve.Rect{X: 1120, Y: 468, Width: 120, Height: 120}, aff[1].Rect)

	_, ok := AffordanceAt(pointer.Viewport{}, pointer.Point{})
	require.False(t, ok)
}

func TestScrollActions(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.c.ScrollDown(ctx))
	require.NoError(t, h.c.ScrollUp(ctx))
	require.Equal(t, []float64{300, -300}, h.renderer.Recorded().Scrolls)
}

func TestSensitivityChangesPersistAndPush(t *testing.T) {
	h := newHarness(t, enabledSettings())
	ctx := context.Background()
	require.NoError(t, h.c.Init(ctx))
	h.stream.Open()

	s, err := h.c.SetMoveSensitivity(ctx, 3.0)
	require.NoError(t, err)
	require.Equal(t, settings.MaxMoveSensitivity, s.MoveSensitivity)

	s, err = h.c.SetBlinkSensitivity(ctx, 0.008)
	require.NoError(t, err)
	require.Equal(t, 0.008, s.BlinkSensitivity)

	loaded, err := h.store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, s, loaded)

	pushed := h.stream.Pushed()
	require.Equal(t, s, pushed[len(pushed)-1])
}

func TestHandleNavigation(t *testing.T) {
	h := newHarness(t, enabledSettings())
	ctx := context.Background()
	require.NoError(t, h.c.Init(ctx))
	_, err := h.c.TogglePanel(ctx)
	require.NoError(t, err)

	kind, err := h.c.HandleNavigation(ctx, "/docs?page=2")
	require.NoError(t, err)
	require.Equal(t, NavigationSoft, kind)

	rec := h.renderer.Recorded()
	require.Equal(t, []string{"https://app.example.com/docs?page=2"}, rec.SoftNavs)
	require.Equal(t, 2, rec.Ensured, "overlay reinitialized after the swap")
	last := rec.Controls[len(rec.Controls)-1]
	require.False(t, last.PanelVisible, "panel state restored from the store")
	require.True(t, last.TrackingEnabled)
	require.Equal(t, 1, h.stream.Starts(), "a live stream survives navigation")

	kind, err = h.c.HandleNavigation(ctx, "https://other.example.org/login")
	require.NoError(t, err)
	require.Equal(t, NavigationNewContext, kind)
	require.Equal(t, []string{"https://other.example.org/login"}, h.renderer.Recorded().NewContexts)

	_, err = h.c.HandleNavigation(ctx, "javascript:alert(1)")
	require.ErrorIs(t, err, ErrInvalidNavigateHref)

	_, err = h.c.ToggleTracking(ctx)
	require.NoError(t, err)
	kind, err = h.c.HandleNavigation(ctx, "/plain")
	require.NoError(t, err)
	require.Equal(t, NavigationDirect, kind)
	require.Equal(t, []clickresolve.Action{{Method: clickresolve.MethodNavigate, Detail: "https://app.example.com/plain"}}, h.page.Actions())
}

func TestReinitDoesNotReviveExhaustedStream(t *testing.T) {
	h := newHarness(t, enabledSettings())
	ctx := context.Background()
	require.NoError(t, h.c.Init(ctx))
	h.stream.Fail()

	require.NoError(t, h.c.HandleAction(ctx, Action{Kind: ActionLoaded}))
	require.Equal(t, 1, h.stream.Starts())
	require.Equal(t, gazestream.StateError, h.stream.State())

	// explicit re-enable is the way back
	require.NoError(t, h.c.Activate(ctx, 1))
	require.NoError(t, h.c.Activate(ctx, 1))
	require.Equal(t, 2, h.stream.Starts())
}

func TestHandleActionDispatch(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.c.Init(ctx))

	require.NoError(t, h.c.HandleAction(ctx, Action{Kind: ActionMoveSensitivity, Value: 0.5}))
	require.NoError(t, h.c.HandleAction(ctx, Action{Kind: ActionScrollDown}))
	require.NoError(t, h.c.HandleAction(ctx, Action{Kind: ActionResize, Width: 640, Height: 480}))
	require.NoError(t, h.c.HandleAction(ctx, Action{Kind: ActionActivate, Clicks: 2}))

	snap := h.c.Snapshot()
	require.Equal(t, 0.5, snap.Settings.MoveSensitivity)
	require.Equal(t, pointer.Viewport{Width: 640, Height: 480}, snap.Viewport)
	require.False(t, snap.PanelVisible)
	require.Equal(t, []float64{300}, h.renderer.Recorded().Scrolls)

	require.ErrorIs(t, h.c.HandleAction(ctx, Action{Kind: "dance"}), ErrUnknownAction)
}

func TestOnSnapshotReceivesUpdates(t *testing.T) {
	h := newHarness(t, nil)
	var mu sync.Mutex
	var got []Snapshot
	h.c.OnSnapshot(func(s Snapshot) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	require.NoError(t, h.c.Init(context.Background()))
	_, err := h.c.ToggleTracking(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(got), 2)
	require.True(t, got[len(got)-1].TrackingEnabled)
}

func TestShutdownStopsStream(t *testing.T) {
	h := newHarness(t, enabledSettings())
	ctx := context.Background()
	require.NoError(t, h.c.Init(ctx))
	require.NoError(t, h.c.Shutdown(ctx))
	require.Equal(t, gazestream.StateDisconnected, h.stream.State())
	require.ErrorIs(t, h.c.Init(ctx), ErrClosed)
	require.NoError(t, h.c.Shutdown(ctx))
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		href string
		abs  string
		same bool
		err  bool
	}{
		{"/a", "https://app.example.com/a", true, false},
		{"b?x=1", "https://app.example.com/b?x=1", true, false},
		{"https://app.example.com/c#top", "https://app.example.com/c#top", true, false},
		{"http://app.example.com/c", "http://app.example.com/c", false, false},
		{"https://cdn.example.com/", "https://cdn.example.com/", false, false},
		{"mailto:a@b.c", "", false, true},
		{"", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			abs, same, err := resolveLink("https://app.example.com", tt.href)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidNavigateHref)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.abs, abs)
			require.Equal(t, tt.same, same)
		})
	}
}
