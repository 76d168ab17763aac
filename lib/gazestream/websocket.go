package gazestream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/onkernel/gaze-overlay/lib/logger"
	"github.com/onkernel/gaze-overlay/lib/settings"
)

// Config tunes the reconnect policy. The defaults were tuned against the
// reference sensing process and are kept for parity.
type Config struct {
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	DialTimeout          time.Duration
	WriteTimeout         time.Duration

	// AfterFunc schedules reconnects; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) *time.Timer
}

func DefaultConfig() Config {
	return Config{
		ReconnectDelay:       3 * time.Second,
		MaxReconnectAttempts: 5,
		DialTimeout:          5 * time.Second,
		WriteTimeout:         2 * time.Second,
	}
}

// WebSocketClient is the real transport to the sensing process.
//
// All state lives behind mu. Every connection attempt gets a generation
// number; goroutines belonging to an older generation discard their results,
// which is how Stop cancels in-flight dials and readers. At most one reconnect
// is pending at any time.
type WebSocketClient struct {
	observers

	url    string
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	state       State
	enabled     bool
	attempts    int
	gen         uint64
	timer       *time.Timer
	retrying    bool
	conn        *websocket.Conn
	cancel      context.CancelFunc
	current     settings.Settings
	hasSettings bool
	pending     []State

	// emitMu orders observer delivery to match the order of transitions.
	emitMu sync.Mutex
}

var _ Client = (*WebSocketClient)(nil)

func NewWebSocketClient(url string, cfg Config, log *slog.Logger) *WebSocketClient {
	def := DefaultConfig()
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = def.ReconnectDelay
	}
	if cfg.MaxReconnectAttempts <= 0 {
		cfg.MaxReconnectAttempts = def.MaxReconnectAttempts
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = time.AfterFunc
	}
	return &WebSocketClient{
		url:    url,
		cfg:    cfg,
		logger: logger.Component(log, "gaze-stream"),
		now:    time.Now,
		state:  StateDisconnected,
	}
}

// Start connects unless a connection is already live or being set up. An
// explicit start also resets the reconnect attempt counter.
func (c *WebSocketClient) Start() {
	c.mu.Lock()
	c.enabled = true
	switch c.state {
	case StateConnecting, StateConnected, StateTracking:
		c.mu.Unlock()
		return
	}
	c.attempts = 0
	c.stopTimerLocked()
	c.connectLocked()
	c.unlockAndEmit()
}

// Stop closes the connection and cancels any pending reconnect. Safe from
// any state.
func (c *WebSocketClient) Stop() {
	c.mu.Lock()
	c.enabled = false
	c.gen++
	c.stopTimerLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if conn := c.conn; conn != nil {
		c.conn = nil
		go conn.Close(websocket.StatusNormalClosure, "tracking stopped")
	}
	if c.state != StateDisconnected {
		c.setStateLocked(StateDisconnected)
	}
	c.unlockAndEmit()
}

// PushSettings records s as the current settings and sends them if the
// connection is live. Otherwise they go out with the next open handshake.
func (c *WebSocketClient) PushSettings(s settings.Settings) {
	c.mu.Lock()
	c.current = s.Clamp()
	c.hasSettings = true
	conn, live := c.conn, c.state.Live()
	current := c.current
	c.mu.Unlock()

	if !live || conn == nil {
		return
	}
	c.writeSettings(conn, current)
}

func (c *WebSocketClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the number of consecutive failed connections.
func (c *WebSocketClient) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *WebSocketClient) connectLocked() {
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.setStateLocked(StateConnecting)
	go c.run(ctx, gen)
}

func (c *WebSocketClient) run(ctx context.Context, gen uint64) {
	sessionID := uuid.NewString()
	log := c.logger.With("session", sessionID)

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	conn, _, err := websocket.Dial(dialCtx, c.url, nil)
	cancel()
	if err != nil {
		c.fail(gen, fmt.Errorf("dial %s: %w", c.url, err))
		return
	}
	conn.SetReadLimit(1 << 20)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		conn.CloseNow()
		return
	}
	c.conn = conn
	c.attempts = 0
	c.setStateLocked(StateConnected)
	handshake, send := c.current, c.hasSettings
	c.unlockAndEmit()

	log.Info("[gaze-stream] connected", "url", c.url)
	if send {
		c.writeSettings(conn, handshake)
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.fail(gen, fmt.Errorf("read: %w", err))
			return
		}
		msg, err := Decode(data)
		if err != nil {
			log.Debug("[gaze-stream] dropping frame", "err", err, "frame", string(data[:min(len(data), 120)]))
			continue
		}
		c.deliver(gen, msg)
	}
}

func (c *WebSocketClient) deliver(gen uint64, msg Message) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if c.state == StateConnected && (msg.Sample != nil || msg.Wink) {
		c.setStateLocked(StateTracking)
	}
	pending := c.takePendingLocked()
	c.emitMu.Lock()
	c.mu.Unlock()
	defer c.emitMu.Unlock()

	for _, s := range pending {
		c.emitState(s)
	}
	if msg.FaceDetected != nil {
		c.emitFace(*msg.FaceDetected)
	}
	if msg.Sample != nil {
		c.emitSample(*msg.Sample)
	}
	if msg.Wink {
		c.emitBlink(c.now())
	}
}

// fail moves a live generation to Error and schedules at most one retry.
func (c *WebSocketClient) fail(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen || c.state == StateDisconnected {
		c.mu.Unlock()
		return
	}
	if c.conn != nil {
		c.conn.CloseNow()
		c.conn = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.setStateLocked(StateError)
	c.attempts++

	switch {
	case !c.enabled:
		c.logger.Info("[gaze-stream] connection lost while disabled", "err", err)
	case c.attempts >= c.cfg.MaxReconnectAttempts:
		c.logger.Warn("[gaze-stream] reconnect attempts exhausted", "attempts", c.attempts, "err", err)
	case !c.retrying:
		c.logger.Warn("[gaze-stream] connection failed, scheduling reconnect",
			"attempt", c.attempts, "delay", c.cfg.ReconnectDelay, "err", err)
		c.retrying = true
		c.timer = c.cfg.AfterFunc(c.cfg.ReconnectDelay, func() { c.retry(gen) })
	}
	c.unlockAndEmit()
}

func (c *WebSocketClient) retry(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.retrying = false
	if c.state != StateError || !c.enabled {
		c.mu.Unlock()
		return
	}
	c.connectLocked()
	c.unlockAndEmit()
}

func (c *WebSocketClient) writeSettings(conn *websocket.Conn, s settings.Settings) {
	data, err := EncodeSettings(s)
	if err != nil {
		c.logger.Error("[gaze-stream] failed to encode settings", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.WriteTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		c.logger.Warn("[gaze-stream] failed to push settings", "err", err)
	}
}

func (c *WebSocketClient) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.retrying = false
}

func (c *WebSocketClient) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.pending = append(c.pending, s)
}

func (c *WebSocketClient) takePendingLocked() []State {
	p := c.pending
	c.pending = nil
	return p
}

// unlockAndEmit releases mu and delivers queued state changes. emitMu is
// taken before mu is released so deliveries keep transition order.
func (c *WebSocketClient) unlockAndEmit() {
	pending := c.takePendingLocked()
	if len(pending) == 0 {
		c.mu.Unlock()
		return
	}
	c.emitMu.Lock()
	c.mu.Unlock()
	defer c.emitMu.Unlock()
	for _, s := range pending {
		c.emitState(s)
	}
}
