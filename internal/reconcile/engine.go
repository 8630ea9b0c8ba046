package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
)

// Counters is the in-memory counter set one dashboard tab displays.
type Counters struct {
	JobViews     int64 `json:"job_view"`
	Applications int64 `json:"application_submit"`
	Interviews   int64 `json:"interview"`
	JobsSaved    int64 `json:"job_saved"`
}

// Scope limits which pushed events an engine applies: its own user, its
// own company, or everything for admins.
type Scope struct {
	UserID    uuid.UUID
	CompanyID *uuid.UUID
	Admin     bool
}

func (s Scope) Matches(ev realtime.AnalyticsEvent) bool {
	if s.Admin {
		return true
	}
	if ev.UserID != nil && s.UserID != uuid.Nil && *ev.UserID == s.UserID {
		return true
	}
	if ev.CompanyID != nil && s.CompanyID != nil && *ev.CompanyID == *s.CompanyID {
		return true
	}
	return false
}

// State tracks where a counter set sits in the optimistic-update cycle.
type State string

const (
	StateIdle                  State = "idle"
	StateOptimisticallyUpdated State = "optimistically_updated"
	StateRefreshing            State = "refreshing"
	StateReconciled            State = "reconciled"
)

// SnapshotFunc fetches the authoritative counter set over REST.
type SnapshotFunc func(ctx context.Context) (Counters, error)

const (
	// DefaultRefreshInterval is how often the authoritative snapshot
	// overwrites whatever optimistic state has accumulated.
	DefaultRefreshInterval = 30 * time.Second

	// DefaultFailureThreshold is how many consecutive refresh failures are
	// tolerated before the degradation callback fires.
	DefaultFailureThreshold = 3
)

// Engine applies pushed deltas optimistically and, on a fixed timer,
// overwrites everything with the REST snapshot. Overwrite-not-merge is the
// entire consistency story: duplicated or reordered deltas over-count for
// at most one interval and are then gone.
type Engine struct {
	mu                  sync.Mutex
	log                 *logger.Logger
	scope               Scope
	fetch               SnapshotFunc
	counters            Counters
	state               State
	interval            time.Duration
	failureThreshold    int
	consecutiveFailures int
	onDegraded          func(err error)
}

type EngineOption func(*Engine)

func WithRefreshInterval(d time.Duration) EngineOption {
	return func(e *Engine) { e.interval = d }
}

func WithFailureThreshold(n int) EngineOption {
	return func(e *Engine) { e.failureThreshold = n }
}

// WithDegradationCallback is invoked once consecutive refresh failures
// cross the threshold, e.g. to show an "analytics may be stale" notice.
func WithDegradationCallback(fn func(err error)) EngineOption {
	return func(e *Engine) { e.onDegraded = fn }
}

func NewEngine(log *logger.Logger, scope Scope, fetch SnapshotFunc, opts ...EngineOption) *Engine {
	e := &Engine{
		log:              log.With("component", "ReconcileEngine"),
		scope:            scope,
		fetch:            fetch,
		state:            StateIdle,
		interval:         DefaultRefreshInterval,
		failureThreshold: DefaultFailureThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyEvent increments the matching counter immediately. This is purely a
// latency-hiding measure; the next refresh overwrites it either way.
// Unknown metric kinds are dropped without error.
func (e *Engine) ApplyEvent(ev realtime.AnalyticsEvent) {
	if !ev.Type.Valid() {
		e.log.Debug("dropping event with unknown metric kind", "type", ev.Type)
		return
	}
	if !e.scope.Matches(ev) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Type {
	case realtime.MetricJobView:
		e.counters.JobViews += int64(ev.Value)
	case realtime.MetricApplicationSubmit:
		e.counters.Applications += int64(ev.Value)
	case realtime.MetricInterview:
		e.counters.Interviews += int64(ev.Value)
	case realtime.MetricJobSaved:
		e.counters.JobsSaved += int64(ev.Value)
	}
	e.state = StateOptimisticallyUpdated
}

// RefreshNow fetches the authoritative snapshot and overwrites all
// counters with it, regardless of pending optimistic state. On failure the
// previous counters are kept until the next successful poll.
func (e *Engine) RefreshNow(ctx context.Context) error {
	e.mu.Lock()
	e.state = StateRefreshing
	e.mu.Unlock()

	snapshot, err := e.fetch(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.consecutiveFailures++
		e.state = StateIdle
		e.log.Debug("refresh failed, keeping previous snapshot", "error", err, "consecutive_failures", e.consecutiveFailures)
		if e.consecutiveFailures == e.failureThreshold && e.onDegraded != nil {
			e.onDegraded(err)
		}
		return err
	}

	e.counters = snapshot
	e.consecutiveFailures = 0
	e.state = StateReconciled
	return nil
}

// Run polls on the refresh interval until ctx is cancelled. Optimistic
// activity does not reset or delay the timer.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = e.RefreshNow(ctx)
		}
	}
}

func (e *Engine) Snapshot() Counters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counters
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
