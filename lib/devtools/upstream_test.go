package devtools

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestWaitForInitialTimeoutWhenLogMissing(t *testing.T) {
	mgr := NewUpstreamManager(filepath.Join(t.TempDir(), "missing", "chromium.log"), silentLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()

	_, err := mgr.WaitForInitial(ctx, 300*time.Millisecond)
	require.Error(t, err)
}

func TestUpstreamFollowsLogAndRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chromium.log")
	appendLine(t, path, "[launcher] starting chromium")
	appendLine(t, path, "DevTools listening on ws://127.0.0.1:9222/devtools/browser/first")

	mgr := NewUpstreamManager(path, silentLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()

	url, err := mgr.WaitForInitial(ctx, 3*time.Second)
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:9222/devtools/browser/first", url)

	updates, unsubscribe := mgr.Subscribe()
	defer unsubscribe()

	appendLine(t, path, "DevTools listening on ws://127.0.0.1:9222/devtools/browser/second")
	select {
	case got := <-updates:
		require.Equal(t, "ws://127.0.0.1:9222/devtools/browser/second", got)
	case <-time.After(3 * time.Second):
		t.Fatal("no update after chromium restart")
	}

	// log rotation: the file is replaced by a fresh one
	require.NoError(t, os.Remove(path))
	appendLine(t, path, "DevTools listening on ws://127.0.0.1:9222/devtools/browser/third")
	require.Eventually(t, func() bool {
		return mgr.Current() == "ws://127.0.0.1:9222/devtools/browser/third"
	}, 3*time.Second, 10*time.Millisecond)
}

func TestWaitForInitialPicksUpLateLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chromium.log")
	mgr := NewUpstreamManager(path, silentLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()

	go func() {
		time.Sleep(100 * time.Millisecond)
		appendLine(t, path, "DevTools listening on ws://127.0.0.1:9333/devtools/browser/late")
	}()
	url, err := mgr.WaitForInitial(ctx, 3*time.Second)
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:9333/devtools/browser/late", url)
}

func TestStaticUpstream(t *testing.T) {
	mgr := NewStaticUpstream("ws://host/devtools/browser/x", silentLogger())
	mgr.Start(context.Background())
	url, err := mgr.WaitForInitial(context.Background(), time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "ws://host/devtools/browser/x", url)
}

func TestResolveBrowserURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/version" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"Browser":"Chrome/140","webSocketDebuggerUrl":"ws://127.0.0.1:9222/devtools/browser/abc"}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	got, err := ResolveBrowserURL(ctx, srv.Client(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", got)

	got, err = ResolveBrowserURL(ctx, nil, "ws://already/devtools/browser/1")
	require.NoError(t, err)
	require.Equal(t, "ws://already/devtools/browser/1", got)

	_, err = ResolveBrowserURL(ctx, nil, "ftp://nope")
	require.Error(t, err)
}
