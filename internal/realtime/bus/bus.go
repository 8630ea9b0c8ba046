package bus

import (
	"context"

	"github.com/careerbridge/careerbridge-backend/internal/realtime"
)

// Envelope pairs an analytics event with the rooms it targets so that any
// gateway instance can fan it out to its own local members.
type Envelope struct {
	Rooms []realtime.RoomID       `json:"rooms"`
	Event realtime.AnalyticsEvent `json:"event"`
}

type Bus interface {
	Publish(ctx context.Context, env Envelope) error
	StartForwarder(ctx context.Context, onMsg func(env Envelope)) error
	Close() error
}
