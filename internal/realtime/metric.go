package realtime

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricKind enumerates the analytics metrics pushed over the socket
// channel. New kinds are added here and handled in every switch below;
// there is no string-keyed dispatch anywhere else.
type MetricKind string

const (
	MetricJobView           MetricKind = "job_view"
	MetricApplicationSubmit MetricKind = "application_submit"
	MetricInterview         MetricKind = "interview"
	MetricJobSaved          MetricKind = "job_saved"
)

func (k MetricKind) Valid() bool {
	switch k {
	case MetricJobView, MetricApplicationSubmit, MetricInterview, MetricJobSaved:
		return true
	default:
		return false
	}
}

func ParseMetricKind(s string) (MetricKind, error) {
	k := MetricKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown metric kind %q", s)
	}
	return k, nil
}

// AnalyticsEvent is transport-only. It is derived from a durable write that
// already exists in the system of record and is never persisted itself.
type AnalyticsEvent struct {
	Type      MetricKind `json:"type"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	JobID     *uuid.UUID `json:"jobId,omitempty"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	Value     int        `json:"value"`
	Timestamp time.Time  `json:"timestamp"`
}
