package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"meme-stock-dashboard/internal/types"

	"github.com/pkg/errors"
)

const (
	actionSendAlert         = "send-alert"
	actionUpdatePreferences = "update-preferences"
)

// EmailClient talks to the e-mail service's action endpoint.
type EmailClient struct {
	url    string
	client *http.Client
}

// NewEmailClient creates a client for endpoint, e.g. http://host:5002/api/email.
func NewEmailClient(endpoint string, timeout time.Duration) *EmailClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EmailClient{
		url:    endpoint,
		client: &http.Client{Timeout: timeout},
	}
}

type emailAlert struct {
	types.Alert
	EmailSent bool `json:"emailSent"`
}

type emailRequest struct {
	Action      string       `json:"action"`
	Email       string       `json:"email"`
	Alert       *emailAlert  `json:"alert,omitempty"`
	Preferences *types.Tiers `json:"preferences,omitempty"`
}

type emailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SendAlert asks the e-mail service to mail one alert to email.
func (c *EmailClient) SendAlert(ctx context.Context, email string, alert types.Alert) error {
	return c.post(ctx, emailRequest{
		Action: actionSendAlert,
		Email:  email,
		Alert:  &emailAlert{Alert: alert},
	})
}

// UpdatePreferences stores the tier subscriptions for email in the e-mail service.
func (c *EmailClient) UpdatePreferences(ctx context.Context, email string, tiers types.Tiers) error {
	return c.post(ctx, emailRequest{
		Action:      actionUpdatePreferences,
		Email:       email,
		Preferences: &tiers,
	})
}

func (c *EmailClient) post(ctx context.Context, payload emailRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal email request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create email request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request", payload.Action)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s response", payload.Action)
	}

	var result emailResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return errors.Wrapf(err, "decode %s response (status %d)", payload.Action, resp.StatusCode)
	}
	if !result.Success {
		return errors.Errorf("%s rejected by email service: %s", payload.Action, result.Message)
	}
	return nil
}
