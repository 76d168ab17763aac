// Package devtools discovers the Chromium DevTools websocket endpoint the
// overlay attaches to.
package devtools

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

var devtoolsListeningRegexp = regexp.MustCompile(`DevTools listening on (ws://\S+)`)

// UpstreamManager follows the Chromium log and extracts the current DevTools
// websocket URL, updating it whenever Chromium restarts and prints a new line.
type UpstreamManager struct {
	logFilePath string
	logger      *slog.Logger

	currentURL atomic.Value // string

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc

	subsMu sync.RWMutex
	subs   map[chan string]struct{}
}

func NewUpstreamManager(logFilePath string, logger *slog.Logger) *UpstreamManager {
	um := &UpstreamManager{logFilePath: logFilePath, logger: logger}
	um.currentURL.Store("")
	return um
}

// NewStaticUpstream returns a manager that always reports url.
func NewStaticUpstream(url string, logger *slog.Logger) *UpstreamManager {
	um := NewUpstreamManager("", logger)
	um.currentURL.Store(url)
	return um
}

// Start follows the log in the background until ctx is done or Stop is
// called. It is a no-op for static upstreams.
func (u *UpstreamManager) Start(ctx context.Context) {
	if u.logFilePath == "" {
		return
	}
	u.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		u.cancel = cancel
		go u.followLoop(ctx)
	})
}

func (u *UpstreamManager) Stop() {
	u.stopOnce.Do(func() {
		if u.cancel != nil {
			u.cancel()
		}
	})
}

// WaitForInitial blocks until an upstream URL is known, the timeout elapses
// or ctx is done.
func (u *UpstreamManager) WaitForInitial(ctx context.Context, timeout time.Duration) (string, error) {
	if url := u.Current(); url != "" {
		return url, nil
	}
	ch, cancel := u.Subscribe()
	defer cancel()
	if url := u.Current(); url != "" {
		return url, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case url := <-ch:
		return url, nil
	case <-timer.C:
		return "", fmt.Errorf("devtools upstream not found within %s", timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Current returns the current upstream websocket URL, or "" when unknown.
func (u *UpstreamManager) Current() string {
	val, _ := u.currentURL.Load().(string)
	return val
}

func (u *UpstreamManager) setCurrent(url string) {
	prev := u.Current()
	if url == "" || url == prev {
		return
	}
	u.logger.Info("[devtools] upstream updated", slog.String("url", url))
	u.currentURL.Store(url)

	// latest wins: a full subscriber channel has its stale value replaced
	u.subsMu.RLock()
	defer u.subsMu.RUnlock()
	for ch := range u.subs {
		select {
		case ch <- url:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- url:
			default:
			}
		}
	}
}

// Subscribe returns a channel receiving every newly discovered URL. Call the
// returned func to unsubscribe.
func (u *UpstreamManager) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)
	u.subsMu.Lock()
	if u.subs == nil {
		u.subs = make(map[chan string]struct{})
	}
	u.subs[ch] = struct{}{}
	u.subsMu.Unlock()
	cancel := func() {
		u.subsMu.Lock()
		if _, ok := u.subs[ch]; ok {
			delete(u.subs, ch)
			close(ch)
		}
		u.subsMu.Unlock()
	}
	return ch, cancel
}

func (u *UpstreamManager) followLoop(ctx context.Context) {
	backoff := 250 * time.Millisecond
	for {
		if ctx.Err() != nil {
			return
		}
		if err := u.followOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			u.logger.Debug("[devtools] log follow interrupted; will retry", slog.String("path", u.logFilePath), slog.String("err", err.Error()))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
}

// followOnce watches the log's directory so that creation, truncation and
// rotation of the file are all observed, and scans every appended line.
func (u *UpstreamManager) followOnce(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(u.logFilePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(u.logFilePath), err)
	}

	var offset int64
	scan := func() error {
		next, err := u.scanFrom(offset)
		if err != nil {
			return err
		}
		offset = next
		return nil
	}
	if err := scan(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(ev.Name) != filepath.Clean(u.logFilePath) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				offset = 0
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if ev.Op&fsnotify.Create != 0 {
					offset = 0
				}
				if err := scan(); err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return err
		}
	}
}

// scanFrom reads complete lines starting at offset and returns the offset
// after the last complete line. A truncated file is rescanned from the top.
func (u *UpstreamManager) scanFrom(offset int64) (int64, error) {
	f, err := os.Open(u.logFilePath)
	if err != nil {
		return offset, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return offset, err
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			// an unterminated tail is picked up on the next write
			return offset, nil
		}
		offset += int64(len(line))
		if m := devtoolsListeningRegexp.FindStringSubmatch(line); len(m) == 2 {
			u.setCurrent(m[1])
		}
	}
}

// ResolveBrowserURL turns an http DevTools endpoint (for example
// http://127.0.0.1:9222) into its browser websocket URL using /json/version.
// Websocket URLs are returned unchanged.
func ResolveBrowserURL(ctx context.Context, client *http.Client, endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse devtools url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		return endpoint, nil
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported devtools url scheme %q", u.Scheme)
	}
	if client == nil {
		client = http.DefaultClient
	}

	u.Path = "/json/version"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("query %s: unexpected status %d", u, resp.StatusCode)
	}
	var version struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&version); err != nil {
		return "", fmt.Errorf("decode %s: %w", u, err)
	}
	if version.WebSocketDebuggerURL == "" {
		return "", fmt.Errorf("%s did not report a websocket url", u)
	}
	return version.WebSocketDebuggerURL, nil
}
