package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// The job-view scenario: user U views job J owned by company C. The user
// room, company room, and admin room must each receive exactly one event.
func TestPublisherJobViewFanOut(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	pub := NewPublisher(HubSink{Hub: hub}, mustTestLogger(t))

	userID := uuid.New()
	jobID := uuid.New()
	companyID := uuid.New()

	userClient := hub.NewClient(studentIdentity(userID))
	hub.Join(userClient, UserRoom(userID))
	companyClient := hub.NewClient(studentIdentity(uuid.New()))
	hub.Join(companyClient, CompanyRoom(companyID))
	adminClient := hub.NewClient(studentIdentity(uuid.New()))
	hub.Join(adminClient, AdminRoom)

	pub.JobViewed(&userID, jobID, companyID)

	for name, ch := range map[string]<-chan AnalyticsEvent{
		"user":    userClient.Outbound,
		"company": companyClient.Outbound,
		"admin":   adminClient.Outbound,
	} {
		ev := recvEvent(t, ch, time.Second)
		if ev.Type != MetricJobView {
			t.Fatalf("%s room event type: want=%s got=%s", name, MetricJobView, ev.Type)
		}
		if ev.Value != 1 {
			t.Fatalf("%s room event value: want=1 got=%d", name, ev.Value)
		}
		if ev.JobID == nil || *ev.JobID != jobID {
			t.Fatalf("%s room event job id: want=%s got=%v", name, jobID, ev.JobID)
		}
		if ev.Timestamp.IsZero() {
			t.Fatalf("%s room event has no timestamp", name)
		}
	}

	assertNoEvent(t, userClient.Outbound, 100*time.Millisecond)
	assertNoEvent(t, companyClient.Outbound, 100*time.Millisecond)
	assertNoEvent(t, adminClient.Outbound, 100*time.Millisecond)
}

// An anonymous view has no viewer room; the company and admin rooms still
// get the event.
func TestPublisherAnonymousView(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	pub := NewPublisher(HubSink{Hub: hub}, mustTestLogger(t))

	companyID := uuid.New()
	companyClient := hub.NewClient(studentIdentity(uuid.New()))
	hub.Join(companyClient, CompanyRoom(companyID))

	pub.JobViewed(nil, uuid.New(), companyID)

	ev := recvEvent(t, companyClient.Outbound, time.Second)
	if ev.UserID != nil {
		t.Fatalf("anonymous view should have no user id, got=%v", ev.UserID)
	}
}

func TestPublisherIsolationAcrossCompanies(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	pub := NewPublisher(HubSink{Hub: hub}, mustTestLogger(t))

	companyA := uuid.New()
	companyB := uuid.New()
	clientB := hub.NewClient(studentIdentity(uuid.New()))
	hub.Join(clientB, CompanyRoom(companyB))

	pub.ApplicationSubmitted(uuid.New(), uuid.New(), companyA)

	assertNoEvent(t, clientB.Outbound, 100*time.Millisecond)
}

// Publishing with zero subscribers anywhere must be a no-op, not a queue.
func TestPublisherFireAndForget(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	pub := NewPublisher(HubSink{Hub: hub}, mustTestLogger(t))

	done := make(chan struct{})
	go func() {
		pub.InterviewScheduled(uuid.New(), uuid.New(), uuid.New())
		pub.JobSaved(uuid.New(), uuid.New(), uuid.New())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked with no subscribers")
	}
}

func TestPublisherEveryMetricKind(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	pub := NewPublisher(HubSink{Hub: hub}, mustTestLogger(t))

	userID := uuid.New()
	client := hub.NewClient(studentIdentity(userID))
	hub.Join(client, UserRoom(userID))

	jobID := uuid.New()
	companyID := uuid.New()
	pub.JobViewed(&userID, jobID, companyID)
	pub.ApplicationSubmitted(userID, jobID, companyID)
	pub.InterviewScheduled(userID, jobID, companyID)
	pub.JobSaved(userID, jobID, companyID)

	want := []MetricKind{MetricJobView, MetricApplicationSubmit, MetricInterview, MetricJobSaved}
	for _, kind := range want {
		ev := recvEvent(t, client.Outbound, time.Second)
		if ev.Type != kind {
			t.Fatalf("event order: want=%s got=%s", kind, ev.Type)
		}
	}
}
