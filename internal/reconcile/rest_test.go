package reconcile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRestClientPersonalSnapshot(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics/personal" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]int64{
			"job_view":           12,
			"application_submit": 3,
			"interview":          1,
		})
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "secret-token")
	counters, err := client.PersonalSnapshot(context.Background())
	if err != nil {
		t.Fatalf("PersonalSnapshot: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization header: want bearer token, got %q", gotAuth)
	}
	want := Counters{JobViews: 12, Applications: 3, Interviews: 1}
	if counters != want {
		t.Errorf("counters: want=%+v got=%+v", want, counters)
	}
}

func TestRestClientSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "try later", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "secret-token")
	if _, err := client.DashboardSnapshot(context.Background()); err == nil {
		t.Fatalf("expected error on 503")
	}
}

// The counter payload ignores fields the engine does not track, so the
// server is free to grow its responses.
func TestRestClientIgnoresExtraFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"job_view":4,"job_saved":2,"window":"30d","generated_at":"2026-08-31T10:00:00Z"}`))
	}))
	defer server.Close()

	client := NewRestClient(server.URL, "secret-token")
	counters, err := client.CompanySnapshot(context.Background())
	if err != nil {
		t.Fatalf("CompanySnapshot: %v", err)
	}
	if counters.JobViews != 4 || counters.JobsSaved != 2 {
		t.Errorf("counters: got=%+v", counters)
	}
}
