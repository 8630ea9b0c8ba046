package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
)

// EventSink is where the publisher hands events off. The in-process Hub
// satisfies it directly; a bus-backed sink satisfies it for multi-instance
// deployments.
type EventSink interface {
	Deliver(ctx context.Context, rooms []RoomID, ev AnalyticsEvent)
}

// HubSink fans out straight to local room members.
type HubSink struct {
	Hub *Hub
}

func (s HubSink) Deliver(_ context.Context, rooms []RoomID, ev AnalyticsEvent) {
	for _, room := range rooms {
		s.Hub.Broadcast(room, ev)
	}
}

// Publisher turns metric occurrences raised by mutating actions into
// room-scoped broadcasts. Delivery is at-least-once and fire-and-forget:
// a duplicated upstream mutation produces a duplicated event, and nothing
// here waits on socket delivery or deduplicates.
type Publisher interface {
	JobViewed(viewerID *uuid.UUID, jobID, companyID uuid.UUID)
	ApplicationSubmitted(userID, jobID, companyID uuid.UUID)
	InterviewScheduled(userID, jobID, companyID uuid.UUID)
	JobSaved(userID, jobID, companyID uuid.UUID)
}

type publisher struct {
	sink EventSink
	log  *logger.Logger
	now  func() time.Time
}

func NewPublisher(sink EventSink, log *logger.Logger) Publisher {
	return &publisher{
		sink: sink,
		log:  log.With("component", "Publisher"),
		now:  time.Now,
	}
}

func (p *publisher) JobViewed(viewerID *uuid.UUID, jobID, companyID uuid.UUID) {
	p.publish(AnalyticsEvent{
		Type:      MetricJobView,
		UserID:    viewerID,
		JobID:     &jobID,
		CompanyID: &companyID,
	})
}

func (p *publisher) ApplicationSubmitted(userID, jobID, companyID uuid.UUID) {
	p.publish(AnalyticsEvent{
		Type:      MetricApplicationSubmit,
		UserID:    &userID,
		JobID:     &jobID,
		CompanyID: &companyID,
	})
}

func (p *publisher) InterviewScheduled(userID, jobID, companyID uuid.UUID) {
	p.publish(AnalyticsEvent{
		Type:      MetricInterview,
		UserID:    &userID,
		JobID:     &jobID,
		CompanyID: &companyID,
	})
}

func (p *publisher) JobSaved(userID, jobID, companyID uuid.UUID) {
	p.publish(AnalyticsEvent{
		Type:      MetricJobSaved,
		UserID:    &userID,
		JobID:     &jobID,
		CompanyID: &companyID,
	})
}

// publish targets the viewer's personal room when the viewer is
// identified, the owning company's room, and the admin room always.
func (p *publisher) publish(ev AnalyticsEvent) {
	if p == nil || p.sink == nil {
		return
	}
	ev.Value = 1
	ev.Timestamp = p.now()

	rooms := make([]RoomID, 0, 3)
	if ev.UserID != nil && *ev.UserID != uuid.Nil {
		rooms = append(rooms, UserRoom(*ev.UserID))
	}
	if ev.CompanyID != nil && *ev.CompanyID != uuid.Nil {
		rooms = append(rooms, CompanyRoom(*ev.CompanyID))
	}
	rooms = append(rooms, AdminRoom)

	p.sink.Deliver(context.Background(), rooms, ev)
}
