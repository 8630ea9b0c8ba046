package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/requestdata"
)

const outboundBuffer = 16

// Client is one live socket connection. Owned by the hub between
// NewClient and CloseClient; destroyed on disconnect.
type Client struct {
	ID       uuid.UUID
	Identity *requestdata.Identity
	Rooms    map[RoomID]bool
	Outbound chan AnalyticsEvent
	done     chan struct{}
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Hub is the in-process room-membership directory. Broadcast never blocks:
// a slow consumer loses events, the periodic REST refresh corrects it.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[RoomID]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "Hub"),
		subscriptions: make(map[RoomID]map[*Client]bool),
	}
}

func (h *Hub) NewClient(identity *requestdata.Identity) *Client {
	return &Client{
		ID:       uuid.New(),
		Identity: identity,
		Rooms:    make(map[RoomID]bool),
		Outbound: make(chan AnalyticsEvent, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Join is idempotent: re-joining a room the client is already in changes
// nothing, so a duplicate join request never doubles delivery.
func (h *Hub) Join(client *Client, room RoomID) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	client.Rooms[room] = true

	clients, exists := h.subscriptions[room]
	if !exists {
		clients = make(map[*Client]bool)
		h.subscriptions[room] = clients
	}
	clients[client] = true

	h.log.Debug("client joined room", "client_id", client.ID, "room", room)
}

func (h *Hub) Leave(client *Client, room RoomID) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(client.Rooms, room)
	h.dropMembershipLocked(client, room)
	h.log.Debug("client left room", "client_id", client.ID, "room", room)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range client.Rooms {
		h.dropMembershipLocked(client, room)
	}
	client.Rooms = make(map[RoomID]bool)
	h.log.Debug("client removed from all rooms", "client_id", client.ID)
}

func (h *Hub) dropMembershipLocked(client *Client, room RoomID) {
	if clients, ok := h.subscriptions[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscriptions, room)
		}
	}
}

// Broadcast delivers ev to every current member of room. A room with no
// subscribers drops the event; nothing is queued for later.
func (h *Hub) Broadcast(room RoomID, ev AnalyticsEvent) {
	if room == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.subscriptions[room]
	if !ok {
		return
	}
	for c := range clients {
		select {
		case c.Outbound <- ev:
		default:
			h.log.Warn("dropping analytics event, outbound buffer full", "client_id", c.ID, "room", room)
		}
	}
}

func (h *Hub) CloseClient(client *Client) {
	h.RemoveClient(client)
	close(client.done)
	close(client.Outbound)
}

// RoomSize reports current membership, used by tests and the healthcheck.
func (h *Hub) RoomSize(room RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[room])
}
