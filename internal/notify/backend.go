package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"meme-stock-dashboard/internal/types"

	"github.com/pkg/errors"
)

// PreferencesBackend is the separate service that persists user preferences.
type PreferencesBackend struct {
	url    string
	client *http.Client
}

func NewPreferencesBackend(endpoint string, timeout time.Duration) *PreferencesBackend {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PreferencesBackend{
		url:    endpoint,
		client: &http.Client{Timeout: timeout},
	}
}

type preferencesRequest struct {
	Email       string      `json:"email"`
	Preferences types.Tiers `json:"preferences"`
}

// Update posts the tiers for email. Any 2xx status is an acknowledgement.
func (b *PreferencesBackend) Update(ctx context.Context, email string, tiers types.Tiers) error {
	body, err := json.Marshal(preferencesRequest{Email: email, Preferences: tiers})
	if err != nil {
		return errors.Wrap(err, "marshal preferences")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create preferences request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "update preferences")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("preferences backend returned status %d", resp.StatusCode)
	}
	return nil
}
