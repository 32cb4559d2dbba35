package alerts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"meme-stock-dashboard/internal/types"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// envelope is the response shape of the alerts backend. Alerts stays raw so
// that a non-array payload can be told apart from a missing one.
type envelope struct {
	Success bool            `json:"success"`
	Alerts  json.RawMessage `json:"alerts,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Fetcher pulls the current alert list from the alerts backend.
type Fetcher struct {
	url    string
	client *http.Client
}

// NewFetcher creates a fetcher for the given endpoint. Every request is
// bounded by timeout; zero means 15 seconds.
func NewFetcher(endpoint string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		url:    endpoint,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchAlerts returns the alerts reported by the backend, or an empty slice
// when the request or the envelope is unusable. Failures are only logged.
func (f *Fetcher) FetchAlerts(ctx context.Context) []types.Alert {
	alerts, err := f.Fetch(ctx)
	if err != nil {
		log.Errorf("❌ Failed to fetch alerts: %v", err)
		return []types.Alert{}
	}
	return alerts
}

// Fetch is FetchAlerts with the failure reported to the caller.
func (f *Fetcher) Fetch(ctx context.Context) ([]types.Alert, error) {
	endpoint, err := refreshURL(f.url)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create alerts request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request alerts")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read alerts response")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrapf(err, "decode alerts response (status %d)", resp.StatusCode)
	}

	if !env.Success {
		log.Debugf("invalid alerts response: %s", spew.Sdump(env))
		return nil, errors.Errorf("alerts backend reported failure: %q", env.Error)
	}

	var alerts []types.Alert
	if len(env.Alerts) == 0 || json.Unmarshal(env.Alerts, &alerts) != nil || alerts == nil {
		log.Debugf("invalid alerts response: %s", spew.Sdump(env))
		return nil, errors.New("alerts response carries no alert list")
	}

	log.Debugf("fetched %d alerts", len(alerts))
	return alerts, nil
}

// refreshURL appends refresh=true so the backend recomputes instead of
// serving its cache.
func refreshURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid alerts url %q", raw)
	}
	q := u.Query()
	q.Set("refresh", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
