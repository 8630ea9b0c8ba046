package bus

import (
	"context"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
)

// Sink routes published events through the bus so every gateway instance
// (this one included, via its forwarder) fans out to its local rooms. A
// publish failure falls back to local-only delivery rather than losing the
// event outright.
type Sink struct {
	bus   Bus
	local realtime.EventSink
	log   *logger.Logger
}

func NewSink(b Bus, local realtime.EventSink, log *logger.Logger) *Sink {
	return &Sink{bus: b, local: local, log: log.With("component", "BusSink")}
}

func (s *Sink) Deliver(ctx context.Context, rooms []realtime.RoomID, ev realtime.AnalyticsEvent) {
	if s.bus == nil {
		s.local.Deliver(ctx, rooms, ev)
		return
	}
	if err := s.bus.Publish(ctx, Envelope{Rooms: rooms, Event: ev}); err != nil {
		s.log.Warn("bus publish failed, delivering locally", "error", err)
		s.local.Deliver(ctx, rooms, ev)
	}
}
