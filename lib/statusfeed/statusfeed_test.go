package statusfeed

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/onkernel/gaze-overlay/lib/overlay"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestFeedSendsLastSnapshotOnConnect(t *testing.T) {
	feed := New(silentLogger())
	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()

	feed.Publish(overlay.Snapshot{ID: "a", State: "connecting"})
	feed.Publish(overlay.Snapshot{ID: "a", State: "connected"})

	conn := dial(t, srv)
	msg := read(t, conn)
	require.Equal(t, "overlay/status", msg.Event)
	require.Equal(t, int64(2), msg.Seq)
	require.Equal(t, "connected", msg.Data.State)
}

func TestFeedBroadcastsToEveryClient(t *testing.T) {
	feed := New(silentLogger())
	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	require.Eventually(t, func() bool { return feed.ClientCount() == 2 }, 2*time.Second, 5*time.Millisecond)

	feed.Publish(overlay.Snapshot{State: "tracking", TrackingEnabled: true})
	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		require.Equal(t, "tracking", msg.Data.State)
		require.True(t, msg.Data.TrackingEnabled)
	}

	require.NoError(t, a.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	feed.Close()
	require.Zero(t, feed.ClientCount())
}

func TestOfferKeepsLatest(t *testing.T) {
	c := &client{updates: make(chan []byte, 1)}
	c.offer([]byte("1"))
	c.offer([]byte("2"))
	c.offer([]byte("3"))
	require.Equal(t, []byte("3"), <-c.updates)
	require.Empty(t, c.updates)
}
