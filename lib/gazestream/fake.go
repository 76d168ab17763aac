package gazestream

import (
	"sync"
	"time"

	"github.com/onkernel/gaze-overlay/lib/settings"
)

// FakeClient is an in-process Client for tests. Start moves it to
// Connecting; the test then drives Open, Fail and the Emit helpers.
type FakeClient struct {
	observers

	mu      sync.Mutex
	state   State
	starts  int
	stops   int
	pushed  []settings.Settings
	current settings.Settings
}

var _ Client = (*FakeClient)(nil)

func NewFakeClient() *FakeClient {
	return &FakeClient{state: StateDisconnected}
}

func (f *FakeClient) Start() {
	f.mu.Lock()
	f.starts++
	if f.state.Live() || f.state == StateConnecting {
		f.mu.Unlock()
		return
	}
	f.state = StateConnecting
	f.mu.Unlock()
	f.emitState(StateConnecting)
}

func (f *FakeClient) Stop() {
	f.mu.Lock()
	f.stops++
	changed := f.state != StateDisconnected
	f.state = StateDisconnected
	f.mu.Unlock()
	if changed {
		f.emitState(StateDisconnected)
	}
}

// PushSettings records settings only while live, mirroring the real client.
func (f *FakeClient) PushSettings(s settings.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = s.Clamp()
	if f.state.Live() {
		f.pushed = append(f.pushed, f.current)
	}
}

func (f *FakeClient) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Open simulates a successful handshake; current settings are re-sent.
func (f *FakeClient) Open() {
	f.mu.Lock()
	f.state = StateConnected
	f.pushed = append(f.pushed, f.current)
	f.mu.Unlock()
	f.emitState(StateConnected)
}

// Fail simulates a transport error.
func (f *FakeClient) Fail() {
	f.SetState(StateError)
}

// SetState forces a state and notifies observers.
func (f *FakeClient) SetState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
	f.emitState(s)
}

// EmitSample delivers a sample, promoting Connected to Tracking first.
func (f *FakeClient) EmitSample(s Sample) {
	f.promote()
	f.emitSample(s)
}

// EmitBlink delivers a blink stamped with at.
func (f *FakeClient) EmitBlink(at time.Time) {
	f.promote()
	f.emitBlink(at)
}

// EmitFace reports face presence the way a frame's face_detected field does.
func (f *FakeClient) EmitFace(detected bool) {
	f.emitFace(detected)
}

func (f *FakeClient) promote() {
	f.mu.Lock()
	promote := f.state == StateConnected
	if promote {
		f.state = StateTracking
	}
	f.mu.Unlock()
	if promote {
		f.emitState(StateTracking)
	}
}

func (f *FakeClient) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *FakeClient) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Pushed returns every settings frame that would have reached the wire.
func (f *FakeClient) Pushed() []settings.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]settings.Settings(nil), f.pushed...)
}
