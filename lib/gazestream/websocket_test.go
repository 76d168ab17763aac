package gazestream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/onkernel/gaze-overlay/lib/settings"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sensingServer stands in for the external eye tracking process.
type sensingServer struct {
	*httptest.Server
	hits   atomic.Int32
	reject atomic.Bool
	conns  chan *websocket.Conn
}

func newSensingServer(t *testing.T) *sensingServer {
	t.Helper()
	s := &sensingServer{conns: make(chan *websocket.Conn, 8)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.reject.Load() {
			http.Error(w, "camera unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		s.conns <- conn
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *sensingServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *sensingServer) next(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-s.conns:
		t.Cleanup(func() { conn.CloseNow() })
		return conn
	case <-time.After(3 * time.Second):
		t.Fatal("client never connected")
		return nil
	}
}

// manualTimers stands in for time.AfterFunc; tests fire reconnects by hand.
type manualTimers struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *manualTimers) AfterFunc(d time.Duration, fn func()) *time.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
	m.delays = append(m.delays, d)
	return nil
}

func (m *manualTimers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *manualTimers) scheduled() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.delays)
}

func (m *manualTimers) fire() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

type recorder struct {
	mu      sync.Mutex
	states  []State
	samples []Sample
	blinks  []time.Time
	faces   []bool
}

func record(c Client) *recorder {
	r := &recorder{}
	c.OnStateChange(func(s State) {
		r.mu.Lock()
		r.states = append(r.states, s)
		r.mu.Unlock()
	})
	c.OnSample(func(s Sample) {
		r.mu.Lock()
		r.samples = append(r.samples, s)
		r.mu.Unlock()
	})
	c.OnBlink(func(at time.Time) {
		r.mu.Lock()
		r.blinks = append(r.blinks, at)
		r.mu.Unlock()
	})
	c.OnFace(func(detected bool) {
		r.mu.Lock()
		r.faces = append(r.faces, detected)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) faceReports() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.faces)
}

func (r *recorder) snapshot() ([]State, []Sample, []time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...), append([]Sample(nil), r.samples...), append([]time.Time(nil), r.blinks...)
}

func TestClientConnectsAndDeliversInOrder(t *testing.T) {
	srv := newSensingServer(t)
	c := NewWebSocketClient(srv.wsURL(), Config{ReconnectDelay: 20 * time.Millisecond}, silentLogger())
	rec := record(c)

	c.PushSettings(settings.Settings{MoveSensitivity: 1.4, BlinkSensitivity: 0.006})
	c.Start()
	defer c.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn := srv.next(t)

	_, handshake, err := conn.Read(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"settings":{"blink":0.006,"move":1.4}}`, string(handshake))
	require.Eventually(t, func() bool { return c.State() == StateConnected }, 2*time.Second, 5*time.Millisecond)

	for _, frame := range []string{
		`not json at all`,
		`{"face_detected":false,"wink":false}`,
		`{"gaze":{"x":0.25,"y":0.75},"face_detected":true,"wink":false}`,
		`{"wink":true}`,
	} {
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(frame)))
	}

	require.Eventually(t, func() bool {
		_, _, blinks := rec.snapshot()
		return len(blinks) == 1
	}, 2*time.Second, 5*time.Millisecond)

	states, samples, _ := rec.snapshot()
	require.Equal(t, []State{StateConnecting, StateConnected, StateTracking}, states)
	require.Len(t, samples, 1)
	require.Equal(t, 0.25, samples[0].X)
	require.Equal(t, 0.75, samples[0].Y)
	require.Equal(t, []bool{false, true}, rec.faceReports())
	require.Equal(t, StateTracking, c.State())
}

func TestClientPushesSettingsWhileLive(t *testing.T) {
	srv := newSensingServer(t)
	c := NewWebSocketClient(srv.wsURL(), Config{}, silentLogger())
	c.Start()
	defer c.Stop()

	conn := srv.next(t)
	require.Eventually(t, func() bool { return c.State() == StateConnected }, 2*time.Second, 5*time.Millisecond)

	c.PushSettings(settings.Settings{MoveSensitivity: 0.8, BlinkSensitivity: 0.01})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"settings":{"blink":0.01,"move":0.8}}`, string(data))
}

func TestClientDropsSettingsWhileDisconnected(t *testing.T) {
	c := NewWebSocketClient("ws://127.0.0.1:1", Config{}, silentLogger())
	c.PushSettings(settings.Settings{MoveSensitivity: 1.2, BlinkSensitivity: 0.004})
	require.Equal(t, StateDisconnected, c.State())
}

func TestClientStopsAfterMaxAttempts(t *testing.T) {
	srv := newSensingServer(t)
	srv.reject.Store(true)

	timers := &manualTimers{}
	c := NewWebSocketClient(srv.wsURL(), Config{
		ReconnectDelay:       3 * time.Second,
		MaxReconnectAttempts: 5,
		AfterFunc:            timers.AfterFunc,
	}, silentLogger())
	c.Start()
	defer c.Stop()

	for i := 1; i < 5; i++ {
		require.Eventually(t, func() bool { return timers.count() == 1 }, 2*time.Second, time.Millisecond)
		require.EqualValues(t, i, srv.hits.Load())
		require.Equal(t, StateError, c.State())
		timers.fire()
	}
	require.Eventually(t, func() bool {
		return srv.hits.Load() == 5 && c.State() == StateError && c.Attempts() == 5
	}, 2*time.Second, time.Millisecond)
	require.Zero(t, timers.count(), "no reconnect after exhaustion")
	require.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second}, timers.scheduled())

	// explicit re-enable resets the counter and retries
	c.Start()
	require.Eventually(t, func() bool {
		return srv.hits.Load() == 6 && timers.count() == 1
	}, 2*time.Second, time.Millisecond)
	require.Equal(t, 1, c.Attempts())
}

func TestStopCancelsPendingReconnect(t *testing.T) {
	srv := newSensingServer(t)
	srv.reject.Store(true)

	timers := &manualTimers{}
	c := NewWebSocketClient(srv.wsURL(), Config{AfterFunc: timers.AfterFunc}, silentLogger())
	rec := record(c)
	c.Start()

	require.Eventually(t, func() bool {
		return timers.count() == 1 && c.State() == StateError
	}, 2*time.Second, time.Millisecond)

	c.Stop()
	require.Equal(t, StateDisconnected, c.State())

	// the cancelled reconnect fires late and must be discarded
	timers.fire()
	require.Equal(t, StateDisconnected, c.State())
	require.EqualValues(t, 1, srv.hits.Load())
	states, _, _ := rec.snapshot()
	require.Equal(t, []State{StateConnecting, StateError, StateDisconnected}, states)
}

func TestClientReconnectsAfterDrop(t *testing.T) {
	srv := newSensingServer(t)
	timers := &manualTimers{}
	c := NewWebSocketClient(srv.wsURL(), Config{AfterFunc: timers.AfterFunc}, silentLogger())
	rec := record(c)
	c.Start()
	defer c.Stop()

	first := srv.next(t)
	require.Eventually(t, func() bool { return c.State() == StateConnected }, 2*time.Second, time.Millisecond)
	require.NoError(t, first.Close(websocket.StatusGoingAway, "camera restart"))

	require.Eventually(t, func() bool { return timers.count() == 1 }, 2*time.Second, time.Millisecond)
	require.Equal(t, StateError, c.State())
	require.Equal(t, 1, c.Attempts())
	timers.fire()

	srv.next(t)
	require.Eventually(t, func() bool { return c.State() == StateConnected && c.Attempts() == 0 }, 2*time.Second, time.Millisecond)

	states, _, _ := rec.snapshot()
	require.Equal(t, []State{StateConnecting, StateConnected, StateError, StateConnecting, StateConnected}, states)
}

func TestStartIsNoopWhileConnected(t *testing.T) {
	srv := newSensingServer(t)
	c := NewWebSocketClient(srv.wsURL(), Config{}, silentLogger())
	rec := record(c)
	c.Start()
	defer c.Stop()
	srv.next(t)
	require.Eventually(t, func() bool { return c.State() == StateConnected }, 2*time.Second, 5*time.Millisecond)

	c.Start()
	require.Equal(t, StateConnected, c.State())
	require.EqualValues(t, 1, srv.hits.Load())
	states, _, _ := rec.snapshot()
	require.Equal(t, []State{StateConnecting, StateConnected}, states)
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestClientLogsAsComponent(t *testing.T) {
	srv := newSensingServer(t)
	srv.reject.Store(true)

	var buf syncBuffer
	timers := &manualTimers{}
	c := NewWebSocketClient(srv.wsURL(), Config{AfterFunc: timers.AfterFunc}, slog.New(slog.NewTextHandler(&buf, nil)))
	c.Start()
	defer c.Stop()

	require.Eventually(t, func() bool { return timers.count() == 1 }, 2*time.Second, time.Millisecond)
	require.Contains(t, buf.String(), "component=gaze-stream")
	require.Contains(t, buf.String(), "scheduling reconnect")
}

func TestStopWithoutStart(t *testing.T) {
	c := NewWebSocketClient("ws://127.0.0.1:1", Config{}, silentLogger())
	rec := record(c)
	c.Stop()
	c.Stop()
	states, _, _ := rec.snapshot()
	require.Empty(t, states)
	require.Equal(t, StateDisconnected, c.State())
}

func TestFakeClientMirrorsSettingsPolicy(t *testing.T) {
	f := NewFakeClient()
	f.PushSettings(settings.Settings{MoveSensitivity: 1.1, BlinkSensitivity: 0.004})
	require.Empty(t, f.Pushed())

	f.Start()
	require.Equal(t, StateConnecting, f.State())
	f.Open()
	require.Len(t, f.Pushed(), 1)
	require.Equal(t, 1.1, f.Pushed()[0].MoveSensitivity)

	f.EmitSample(Sample{X: 0.5, Y: 0.5})
	require.Equal(t, StateTracking, f.State())
}
