package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/requestdata"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func studentIdentity(userID uuid.UUID) *requestdata.Identity {
	return &requestdata.Identity{UserID: userID, Role: types.RoleStudent}
}

func recvEvent(t *testing.T, ch <-chan AnalyticsEvent, timeout time.Duration) AnalyticsEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for analytics event")
	}
	return AnalyticsEvent{}
}

func assertNoEvent(t *testing.T, ch <-chan AnalyticsEvent, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event delivered: %+v", ev)
	case <-time.After(wait):
	}
}

func TestHubRoomIsolation(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	companyA := uuid.New()
	companyB := uuid.New()

	clientA := hub.NewClient(studentIdentity(uuid.New()))
	clientB := hub.NewClient(studentIdentity(uuid.New()))
	hub.Join(clientA, CompanyRoom(companyA))
	hub.Join(clientB, CompanyRoom(companyB))

	hub.Broadcast(CompanyRoom(companyA), AnalyticsEvent{Type: MetricJobView, Value: 1})

	got := recvEvent(t, clientA.Outbound, time.Second)
	if got.Type != MetricJobView {
		t.Fatalf("clientA event: want=%s got=%s", MetricJobView, got.Type)
	}
	assertNoEvent(t, clientB.Outbound, 100*time.Millisecond)
}

func TestHubIdempotentJoin(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	room := UserRoom(userID)

	client := hub.NewClient(studentIdentity(userID))
	hub.Join(client, room)
	hub.Join(client, room)
	hub.Join(client, room)

	if size := hub.RoomSize(room); size != 1 {
		t.Fatalf("room size after repeated joins: want=1 got=%d", size)
	}

	hub.Broadcast(room, AnalyticsEvent{Type: MetricApplicationSubmit, Value: 1})

	got := recvEvent(t, client.Outbound, time.Second)
	if got.Type != MetricApplicationSubmit {
		t.Fatalf("event type: want=%s got=%s", MetricApplicationSubmit, got.Type)
	}
	assertNoEvent(t, client.Outbound, 100*time.Millisecond)
}

func TestHubEmptyRoomDropsEvent(t *testing.T) {
	hub := NewHub(mustTestLogger(t))

	// Must not block or panic with zero subscribers.
	hub.Broadcast(CompanyRoom(uuid.New()), AnalyticsEvent{Type: MetricJobView, Value: 1})
}

func TestHubDuplicateEventsAreDelivered(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	room := UserRoom(userID)

	client := hub.NewClient(studentIdentity(userID))
	hub.Join(client, room)

	dup := AnalyticsEvent{Type: MetricJobView, Value: 1}
	hub.Broadcast(room, dup)
	hub.Broadcast(room, dup)

	first := recvEvent(t, client.Outbound, time.Second)
	second := recvEvent(t, client.Outbound, time.Second)
	if first.Type != MetricJobView || second.Type != MetricJobView {
		t.Fatalf("expected duplicate events to both arrive, got=%s and %s", first.Type, second.Type)
	}
}

func TestHubCloseClientCleansUp(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	room := UserRoom(userID)

	client := hub.NewClient(studentIdentity(userID))
	hub.Join(client, room)
	hub.CloseClient(client)

	if size := hub.RoomSize(room); size != 0 {
		t.Fatalf("room size after close: want=0 got=%d", size)
	}
	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatalf("outbound should be closed after CloseClient")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for outbound channel close")
	}

	// Broadcasting after disconnect must not deliver anywhere.
	hub.Broadcast(room, AnalyticsEvent{Type: MetricJobView, Value: 1})
}

func TestHubReconnectReceivesNewEventsOnly(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	room := UserRoom(userID)

	first := hub.NewClient(studentIdentity(userID))
	hub.Join(first, room)
	hub.CloseClient(first)

	// Events published while disconnected are not queued.
	hub.Broadcast(room, AnalyticsEvent{Type: MetricJobView, Value: 1})

	second := hub.NewClient(studentIdentity(userID))
	hub.Join(second, room)
	hub.Broadcast(room, AnalyticsEvent{Type: MetricInterview, Value: 1})

	got := recvEvent(t, second.Outbound, time.Second)
	if got.Type != MetricInterview {
		t.Fatalf("reconnected client should only see new events: want=%s got=%s", MetricInterview, got.Type)
	}
	assertNoEvent(t, second.Outbound, 100*time.Millisecond)
}
