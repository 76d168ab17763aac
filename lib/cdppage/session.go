package cdppage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

// ErrNotConnected is returned for page operations while no page is attached.
var ErrNotConnected = errors.New("devtools page not attached")

const callTimeout = 30 * time.Second

type cdpMessage struct {
	ID        int64           `json:"id,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *cdpError       `json:"error,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

type cdpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *cdpError) Error() string {
	return fmt.Sprintf("cdp error %d: %s", e.Code, e.Message)
}

type cdpResponse struct {
	result json.RawMessage
	err    error
}

// session is one browser-level CDP connection with flattened target
// sessions multiplexed over it.
type session struct {
	logger  *slog.Logger
	conn    *websocket.Conn
	onEvent func(msg cdpMessage)

	msgID   atomic.Int64
	mu      sync.Mutex
	pending map[int64]chan cdpResponse
	done    chan struct{}
	err     error
}

func dialSession(ctx context.Context, upstreamURL string, logger *slog.Logger, onEvent func(cdpMessage)) (*session, error) {
	parsed, err := url.Parse(upstreamURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL: %w", err)
	}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, upstreamURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Host": []string{parsed.Host}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CDP: %w", err)
	}
	conn.SetReadLimit(100 * 1024 * 1024)

	s := &session{
		logger:  logger,
		conn:    conn,
		onEvent: onEvent,
		pending: make(map[int64]chan cdpResponse),
		done:    make(chan struct{}),
	}
	go s.readLoop(ctx)
	return s, nil
}

// Done is closed when the connection is lost.
func (s *session) Done() <-chan struct{} {
	return s.done
}

func (s *session) Close() {
	_ = s.conn.Close(websocket.StatusNormalClosure, "overlay closing")
}

func (s *session) call(ctx context.Context, method string, params any, sessionID string) (json.RawMessage, error) {
	id := s.msgID.Add(1)

	var paramsRaw json.RawMessage
	if params != nil {
		var err error
		if paramsRaw, err = json.Marshal(params); err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
	}
	data, err := json.Marshal(cdpMessage{ID: id, Method: method, Params: paramsRaw, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("marshal CDP message: %w", err)
	}

	resultCh := make(chan cdpResponse, 1)
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return nil, ErrNotConnected
	}
	s.pending[id] = resultCh
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return nil, fmt.Errorf("write CDP: %w", err)
	}

	timer := time.NewTimer(callTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-resultCh:
		return resp.result, resp.err
	case <-timer.C:
		return nil, fmt.Errorf("CDP call timed out: %s", method)
	case <-s.done:
		return nil, ErrNotConnected
	}
}

func (s *session) readLoop(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		if s.err == nil {
			s.err = ErrNotConnected
		}
		s.mu.Unlock()
		close(s.done)
	}()
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("[cdp-page] CDP read error", "err", err)
			}
			return
		}

		var msg cdpMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("[cdp-page] CDP unmarshal error", "err", err)
			continue
		}
		if msg.ID > 0 {
			s.mu.Lock()
			ch, ok := s.pending[msg.ID]
			s.mu.Unlock()
			if ok {
				if msg.Error != nil {
					ch <- cdpResponse{err: msg.Error}
				} else {
					ch <- cdpResponse{result: msg.Result}
				}
			}
			continue
		}
		if s.onEvent != nil {
			s.onEvent(msg)
		}
	}
}

// evaluate runs expression in the page session and returns result.value.
func (s *session) evaluate(ctx context.Context, sessionID, expression string, awaitPromise bool) (json.RawMessage, error) {
	result, err := s.call(ctx, "Runtime.evaluate", map[string]any{
		"expression":    expression,
		"awaitPromise":  awaitPromise,
		"returnByValue": true,
	}, sessionID)
	if err != nil {
		return nil, err
	}

	var evalResult struct {
		Result struct {
			Type        string          `json:"type"`
			Value       json.RawMessage `json:"value"`
			Description string          `json:"description"`
			Subtype     string          `json:"subtype"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text      string `json:"text"`
			Exception struct {
				Description string `json:"description"`
			} `json:"exception"`
		} `json:"exceptionDetails"`
	}
	if err := json.Unmarshal(result, &evalResult); err != nil {
		return nil, fmt.Errorf("unmarshal eval result: %w", err)
	}
	if evalResult.ExceptionDetails != nil {
		errMsg := evalResult.ExceptionDetails.Text
		if evalResult.ExceptionDetails.Exception.Description != "" {
			errMsg = evalResult.ExceptionDetails.Exception.Description
		}
		return nil, fmt.Errorf("JS exception: %s", errMsg)
	}
	if evalResult.Result.Subtype == "error" {
		return nil, fmt.Errorf("JS error: %s", evalResult.Result.Description)
	}
	return evalResult.Result.Value, nil
}

type targetInfo struct {
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Attached bool   `json:"attached"`
}

// attachFirstPage attaches to the first page target with flatten=true and
// returns its session id.
func (s *session) attachFirstPage(ctx context.Context) (targetInfo, string, error) {
	result, err := s.call(ctx, "Target.getTargets", nil, "")
	if err != nil {
		return targetInfo{}, "", fmt.Errorf("getTargets: %w", err)
	}
	var targets struct {
		TargetInfos []targetInfo `json:"targetInfos"`
	}
	if err := json.Unmarshal(result, &targets); err != nil {
		return targetInfo{}, "", fmt.Errorf("unmarshal targets: %w", err)
	}

	for _, t := range targets.TargetInfos {
		if t.Type != "page" {
			continue
		}
		attachResult, err := s.call(ctx, "Target.attachToTarget", map[string]any{
			"targetId": t.TargetID,
			"flatten":  true,
		}, "")
		if err != nil {
			return targetInfo{}, "", fmt.Errorf("attachToTarget: %w", err)
		}
		var attach struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(attachResult, &attach); err != nil {
			return targetInfo{}, "", fmt.Errorf("unmarshal attach: %w", err)
		}
		return t, attach.SessionID, nil
	}
	return targetInfo{}, "", errors.New("no page target found")
}
