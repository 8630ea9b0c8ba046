package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
)

type socketFrame struct {
	Event string                  `json:"event"`
	Data  realtime.AnalyticsEvent `json:"data"`
}

type joinFrame struct {
	Event     string `json:"event"`
	UserID    string `json:"userId,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

const (
	defaultMaxRetries  = 8
	defaultBaseBackoff = time.Second
	defaultMaxBackoff  = 30 * time.Second
)

// SocketClient keeps one websocket connection to the analytics channel and
// feeds incoming deltas to the engine. Reconnection is client-initiated
// with exponential backoff and a bounded retry count; every successful
// reconnect starts from scratch (fresh handshake, fresh joins) and leans
// on an immediate refresh instead of any replayed history. Losing the
// socket entirely is a degradation, never a failure: REST polling carries
// on regardless.
type SocketClient struct {
	log         *logger.Logger
	url         string
	token       string
	scope       Scope
	engine      *Engine
	dialer      *websocket.Dialer
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewSocketClient(log *logger.Logger, url, token string, scope Scope, engine *Engine) *SocketClient {
	return &SocketClient{
		log:         log.With("component", "SocketClient"),
		url:         url,
		token:       token,
		scope:       scope,
		engine:      engine,
		dialer:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
		maxBackoff:  defaultMaxBackoff,
	}
}

// Run dials, reads until the connection drops, and redials. It returns nil
// once the retry budget is exhausted or ctx is cancelled.
func (sc *SocketClient) Run(ctx context.Context) error {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := sc.dial(ctx)
		if err != nil {
			attempt++
			if attempt > sc.maxRetries {
				sc.log.Warn("real-time channel unavailable, continuing on REST polling only", "attempts", attempt-1)
				return nil
			}
			backoff := sc.backoff(attempt)
			sc.log.Debug("websocket dial failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}

		attempt = 0
		sc.joinRooms(conn)

		// Missed events are never replayed; an immediate refresh
		// resynchronizes instead.
		_ = sc.engine.RefreshNow(ctx)

		// A blocked ReadMessage only returns when the conn closes, so
		// cancellation has to close it from the outside.
		readDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.Close()
			case <-readDone:
			}
		}()

		sc.readLoop(ctx, conn)
		close(readDone)
		_ = conn.Close()
	}
}

func (sc *SocketClient) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := sc.dialer.DialContext(ctx, sc.url+"?token="+sc.token, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// joinRooms sends the explicit join frames once after connect. The server
// has already joined us to the same rooms at handshake; these are
// idempotent by contract.
func (sc *SocketClient) joinRooms(conn *websocket.Conn) {
	if sc.scope.UserID != uuid.Nil && !sc.scope.Admin && sc.scope.CompanyID == nil {
		_ = conn.WriteJSON(joinFrame{Event: "join-user-room", UserID: sc.scope.UserID.String()})
	}
	if sc.scope.CompanyID != nil {
		_ = conn.WriteJSON(joinFrame{Event: "join-company-room", CompanyID: sc.scope.CompanyID.String()})
	}
}

func (sc *SocketClient) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		if ctx.Err() != nil {
			return
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			sc.log.Debug("websocket connection lost", "error", err)
			return
		}

		var frame socketFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			sc.log.Debug("dropping malformed server frame")
			continue
		}
		if frame.Event != "analytics-update" {
			continue
		}
		sc.engine.ApplyEvent(frame.Data)
	}
}

func (sc *SocketClient) backoff(attempt int) time.Duration {
	d := sc.baseBackoff << (attempt - 1)
	if d > sc.maxBackoff || d <= 0 {
		return sc.maxBackoff
	}
	return d
}
