package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RestClient polls the read-only analytics endpoints. All three are
// idempotent GETs and safe to issue concurrently with pending optimistic
// updates.
type RestClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewRestClient(baseURL, token string) *RestClient {
	return &RestClient{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RestClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// PersonalSnapshot fetches the caller-scoped 30-day counters.
func (c *RestClient) PersonalSnapshot(ctx context.Context) (Counters, error) {
	var out Counters
	if err := c.get(ctx, "/api/analytics/personal", &out); err != nil {
		return Counters{}, err
	}
	return out, nil
}

// DashboardSnapshot fetches the global aggregate for admin dashboards.
func (c *RestClient) DashboardSnapshot(ctx context.Context) (Counters, error) {
	var out Counters
	if err := c.get(ctx, "/api/analytics/dashboard-stats", &out); err != nil {
		return Counters{}, err
	}
	return out, nil
}

// CompanySnapshot fetches the company-scoped aggregates.
func (c *RestClient) CompanySnapshot(ctx context.Context) (Counters, error) {
	var out Counters
	if err := c.get(ctx, "/api/analytics/company/performance", &out); err != nil {
		return Counters{}, err
	}
	return out, nil
}
