package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-backend/internal/logger"
	"github.com/careerbridge/careerbridge-backend/internal/realtime"
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

func fixedSnapshot(c Counters) SnapshotFunc {
	return func(context.Context) (Counters, error) {
		return c, nil
	}
}

func viewEvent(userID uuid.UUID, value int) realtime.AnalyticsEvent {
	return realtime.AnalyticsEvent{Type: realtime.MetricJobView, UserID: &userID, Value: value}
}

// Eventual correction: however many optimistic increments pile up, one
// refresh sets the counter to exactly the server's number.
func TestEngineRefreshOverwritesOptimisticState(t *testing.T) {
	userID := uuid.New()
	truth := Counters{JobViews: 42, Applications: 7, Interviews: 2}
	engine := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fixedSnapshot(truth))

	for i := 0; i < 250; i++ {
		engine.ApplyEvent(viewEvent(userID, 1))
	}
	if got := engine.Snapshot().JobViews; got != 250 {
		t.Fatalf("optimistic job views: want=250 got=%d", got)
	}
	if engine.State() != StateOptimisticallyUpdated {
		t.Fatalf("state: want=%s got=%s", StateOptimisticallyUpdated, engine.State())
	}

	if err := engine.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}

	if got := engine.Snapshot(); got != truth {
		t.Fatalf("after refresh: want=%+v got=%+v", truth, got)
	}
	if engine.State() != StateReconciled {
		t.Fatalf("state: want=%s got=%s", StateReconciled, engine.State())
	}
}

func TestEngineScopeFiltering(t *testing.T) {
	userID := uuid.New()
	engine := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fixedSnapshot(Counters{}))

	engine.ApplyEvent(viewEvent(userID, 1))
	engine.ApplyEvent(viewEvent(uuid.New(), 1)) // someone else's event

	if got := engine.Snapshot().JobViews; got != 1 {
		t.Fatalf("scoped job views: want=1 got=%d", got)
	}
}

func TestEngineCompanyScope(t *testing.T) {
	companyID := uuid.New()
	engine := NewEngine(mustTestLogger(t), Scope{UserID: uuid.New(), CompanyID: &companyID}, fixedSnapshot(Counters{}))

	otherCompany := uuid.New()
	someUser := uuid.New()
	engine.ApplyEvent(realtime.AnalyticsEvent{Type: realtime.MetricApplicationSubmit, UserID: &someUser, CompanyID: &companyID, Value: 1})
	engine.ApplyEvent(realtime.AnalyticsEvent{Type: realtime.MetricApplicationSubmit, UserID: &someUser, CompanyID: &otherCompany, Value: 1})

	if got := engine.Snapshot().Applications; got != 1 {
		t.Fatalf("company-scoped applications: want=1 got=%d", got)
	}
}

func TestEngineAdminScopeMatchesEverything(t *testing.T) {
	engine := NewEngine(mustTestLogger(t), Scope{UserID: uuid.New(), Admin: true}, fixedSnapshot(Counters{}))

	engine.ApplyEvent(viewEvent(uuid.New(), 1))
	engine.ApplyEvent(viewEvent(uuid.New(), 1))

	if got := engine.Snapshot().JobViews; got != 2 {
		t.Fatalf("admin job views: want=2 got=%d", got)
	}
}

// Unknown metric kinds are dropped silently, for forward compatibility.
func TestEngineDropsUnknownMetricKind(t *testing.T) {
	userID := uuid.New()
	engine := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fixedSnapshot(Counters{}))

	engine.ApplyEvent(realtime.AnalyticsEvent{Type: realtime.MetricKind("profile_ping"), UserID: &userID, Value: 1})

	if got := engine.Snapshot(); got != (Counters{}) {
		t.Fatalf("unknown kind should not change counters, got=%+v", got)
	}
}

// A failed refresh keeps the previous snapshot; the degradation callback
// only fires once the failure threshold is reached.
func TestEngineRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	userID := uuid.New()
	truth := Counters{JobViews: 10}

	var calls int
	var mu sync.Mutex
	fetch := func(context.Context) (Counters, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return truth, nil
		}
		return Counters{}, errors.New("upstream 503")
	}

	var degraded int
	engine := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fetch,
		WithFailureThreshold(2),
		WithDegradationCallback(func(error) { degraded++ }),
	)

	if err := engine.RefreshNow(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	if err := engine.RefreshNow(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if got := engine.Snapshot(); got != truth {
		t.Fatalf("failed refresh should keep previous snapshot: want=%+v got=%+v", truth, got)
	}
	if degraded != 0 {
		t.Fatalf("degradation callback fired before threshold")
	}

	_ = engine.RefreshNow(context.Background())
	if degraded != 1 {
		t.Fatalf("degradation callback after threshold: want=1 got=%d", degraded)
	}
}

// Two independent engines for the same user may disagree during the
// optimistic window but converge to the same value after their refreshes.
func TestEngineTwoTabsConverge(t *testing.T) {
	userID := uuid.New()
	truth := Counters{JobViews: 5}

	tabA := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fixedSnapshot(truth))
	tabB := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fixedSnapshot(truth))

	// Same broadcast reaches both; tabA also sees a duplicate.
	ev := viewEvent(userID, 1)
	tabA.ApplyEvent(ev)
	tabA.ApplyEvent(ev)
	tabB.ApplyEvent(ev)

	if tabA.Snapshot() == tabB.Snapshot() {
		t.Logf("tabs agree during optimistic window (allowed, not required)")
	}

	if err := tabA.RefreshNow(context.Background()); err != nil {
		t.Fatalf("tabA refresh: %v", err)
	}
	if err := tabB.RefreshNow(context.Background()); err != nil {
		t.Fatalf("tabB refresh: %v", err)
	}

	if tabA.Snapshot() != truth || tabB.Snapshot() != truth {
		t.Fatalf("tabs did not converge: A=%+v B=%+v want=%+v", tabA.Snapshot(), tabB.Snapshot(), truth)
	}
}

func TestEngineEventValueIsRespected(t *testing.T) {
	userID := uuid.New()
	engine := NewEngine(mustTestLogger(t), Scope{UserID: userID}, fixedSnapshot(Counters{}))

	engine.ApplyEvent(viewEvent(userID, 3))

	if got := engine.Snapshot().JobViews; got != 3 {
		t.Fatalf("job views: want=3 got=%d", got)
	}
}
