// Package gazestream maintains the connection to the external sensing process
// and delivers decoded gaze samples, blink events, face presence and
// connection state changes.
package gazestream

import (
	"slices"
	"sync"
	"time"

	"github.com/onkernel/gaze-overlay/lib/settings"
)

// State is the lifecycle of the single logical connection.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateTracking
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateTracking:
		return "tracking"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Live reports whether settings can be pushed in this state.
func (s State) Live() bool {
	return s == StateConnected || s == StateTracking
}

// Client is implemented by the websocket transport and by FakeClient.
// Observers run synchronously on the client's delivery path in registration
// order and must not call back into the client.
type Client interface {
	Start()
	Stop()
	PushSettings(s settings.Settings)
	State() State
	OnSample(fn func(Sample))
	OnBlink(fn func(at time.Time))
	OnFace(fn func(detected bool))
	OnStateChange(fn func(State))
}

// observers is the registration list shared by both implementations.
type observers struct {
	mu      sync.RWMutex
	samples []func(Sample)
	blinks  []func(time.Time)
	faces   []func(bool)
	states  []func(State)
}

func (o *observers) OnSample(fn func(Sample)) {
	o.mu.Lock()
	o.samples = append(o.samples, fn)
	o.mu.Unlock()
}

func (o *observers) OnBlink(fn func(at time.Time)) {
	o.mu.Lock()
	o.blinks = append(o.blinks, fn)
	o.mu.Unlock()
}

func (o *observers) OnFace(fn func(detected bool)) {
	o.mu.Lock()
	o.faces = append(o.faces, fn)
	o.mu.Unlock()
}

func (o *observers) OnStateChange(fn func(State)) {
	o.mu.Lock()
	o.states = append(o.states, fn)
	o.mu.Unlock()
}

func (o *observers) emitSample(s Sample) {
	o.mu.RLock()
	fns := slices.Clone(o.samples)
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (o *observers) emitBlink(at time.Time) {
	o.mu.RLock()
	fns := slices.Clone(o.blinks)
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(at)
	}
}

func (o *observers) emitFace(detected bool) {
	o.mu.RLock()
	fns := slices.Clone(o.faces)
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(detected)
	}
}

func (o *observers) emitState(s State) {
	o.mu.RLock()
	fns := slices.Clone(o.states)
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(s)
	}
}
