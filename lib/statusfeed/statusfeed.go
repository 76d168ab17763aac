// Package statusfeed fans overlay snapshots out to websocket clients such as
// dashboards. Slow clients only ever miss intermediate snapshots; publishing
// never blocks the overlay event loop.
package statusfeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/onkernel/gaze-overlay/lib/overlay"
)

const writeTimeout = 2 * time.Second

// Message is the wire envelope sent to clients.
type Message struct {
	Event string           `json:"event"`
	Seq   int64            `json:"seq"`
	Data  overlay.Snapshot `json:"data"`
}

type client struct {
	conn    *websocket.Conn
	updates chan []byte
}

// offer replaces any undelivered update with data.
func (c *client) offer(data []byte) {
	select {
	case c.updates <- data:
		return
	default:
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- data:
	default:
	}
}

type Feed struct {
	logger *slog.Logger

	clientsMu sync.RWMutex
	clients   map[*client]struct{}

	lastMu sync.RWMutex
	last   []byte

	seq atomic.Int64
}

func New(logger *slog.Logger) *Feed {
	return &Feed{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish sends snap to every connected client and keeps it for new ones.
func (f *Feed) Publish(snap overlay.Snapshot) {
	data, err := json.Marshal(Message{Event: "overlay/status", Seq: f.seq.Add(1), Data: snap})
	if err != nil {
		f.logger.Error("[status-feed] failed to marshal snapshot", "err", err)
		return
	}

	f.lastMu.Lock()
	f.last = data
	f.lastMu.Unlock()

	f.clientsMu.RLock()
	defer f.clientsMu.RUnlock()
	for c := range f.clients {
		c.offer(data)
	}
}

// HandleWebSocket serves one feed client until it disconnects.
func (f *Feed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		f.logger.Error("[status-feed] websocket accept failed", "err", err)
		return
	}

	c := &client{conn: conn, updates: make(chan []byte, 1)}
	f.lastMu.RLock()
	if f.last != nil {
		c.updates <- f.last
	}
	f.clientsMu.Lock()
	f.clients[c] = struct{}{}
	f.clientsMu.Unlock()
	f.lastMu.RUnlock()
	f.logger.Info("[status-feed] client connected", "clients", f.ClientCount())

	defer func() {
		f.clientsMu.Lock()
		delete(f.clients, c)
		f.clientsMu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
		f.logger.Info("[status-feed] client disconnected")
	}()

	// clients never send anything; CloseRead handles control frames and
	// cancels ctx once the peer goes away
	ctx := conn.CloseRead(context.Background())
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-c.updates:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				f.logger.Debug("[status-feed] failed to send to client", "err", err)
				return
			}
		}
	}
}

func (f *Feed) Handler() http.Handler {
	return http.HandlerFunc(f.HandleWebSocket)
}

func (f *Feed) ClientCount() int {
	f.clientsMu.RLock()
	defer f.clientsMu.RUnlock()
	return len(f.clients)
}

// Close disconnects every client.
func (f *Feed) Close() {
	f.clientsMu.Lock()
	defer f.clientsMu.Unlock()
	for c := range f.clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(f.clients, c)
	}
}
