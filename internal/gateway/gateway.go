package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
	"github.com/careerbridge/careerbridge-backend/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// EventAnalyticsUpdate is the only server-to-client frame.
const EventAnalyticsUpdate = "analytics-update"

// Client-to-server frames. Joins are honored only when they match the
// authenticated identity; everything else is ignored.
const (
	EventJoinUserRoom    = "join-user-room"
	EventJoinCompanyRoom = "join-company-room"
)

type serverFrame struct {
	Event string                  `json:"event"`
	Data  realtime.AnalyticsEvent `json:"data"`
}

type clientFrame struct {
	Event     string `json:"event"`
	UserID    string `json:"userId,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

// Gateway owns the websocket side of the analytics channel: handshake
// authentication, room membership, and fan-out of published events to the
// connections that subscribed. It holds no session state across
// disconnects; a reconnecting client re-authenticates and re-joins from
// scratch.
type Gateway struct {
	log      *logger.Logger
	hub      *realtime.Hub
	auth     services.AuthService
	upgrader websocket.Upgrader
}

func New(log *logger.Logger, hub *realtime.Hub, auth services.AuthService) *Gateway {
	return &Gateway{
		log:  log.With("component", "Gateway"),
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP authenticates the handshake and, only then, upgrades and joins
// rooms. A missing or invalid token is refused before any room membership
// exists, so an unauthenticated connection can never receive a broadcast.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	identity, err := g.auth.VerifyToken(token)
	if err != nil {
		g.log.Debug("websocket handshake rejected", "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := g.hub.NewClient(identity)
	for _, room := range realtime.RoomsFor(identity, g.log) {
		g.hub.Join(client, room)
	}
	g.log.Debug("websocket connected", "client_id", client.ID, "user_id", identity.UserID, "role", identity.Role)

	go g.writePump(conn, client)
	go g.readPump(conn, client)
}

func extractToken(r *http.Request) string {
	if qToken := r.URL.Query().Get("token"); qToken != "" {
		return qToken
	}
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

func (g *Gateway) readPump(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		g.hub.CloseClient(client)
		_ = conn.Close()
		g.log.Debug("websocket disconnected", "client_id", client.ID)
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Debug("websocket read error", "client_id", client.ID, "error", err)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			g.log.Debug("dropping malformed client frame", "client_id", client.ID)
			continue
		}
		g.handleClientFrame(client, frame)
	}
}

// handleClientFrame accepts explicit join requests, but only for rooms the
// room router already assigned to the authenticated identity. Join is
// idempotent at the hub, so a repeated request never doubles delivery, and
// a request for any other room is rejected outright.
func (g *Gateway) handleClientFrame(client *realtime.Client, frame clientFrame) {
	var requested realtime.RoomID
	switch frame.Event {
	case EventJoinUserRoom:
		id, err := uuid.Parse(frame.UserID)
		if err != nil {
			return
		}
		requested = realtime.UserRoom(id)
	case EventJoinCompanyRoom:
		id, err := uuid.Parse(frame.CompanyID)
		if err != nil {
			return
		}
		requested = realtime.CompanyRoom(id)
	default:
		// Forward compatible: unknown client frames are dropped silently.
		return
	}

	for _, allowed := range realtime.RoomsFor(client.Identity, nil) {
		if allowed == requested {
			g.hub.Join(client, requested)
			return
		}
	}
	g.log.Warn("rejecting join for room outside identity scope", "client_id", client.ID, "room", requested)
}

func (g *Gateway) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-client.Outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(serverFrame{Event: EventAnalyticsUpdate, Data: ev}); err != nil {
				g.log.Debug("websocket write error", "client_id", client.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
