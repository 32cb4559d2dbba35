package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meme-stock-dashboard/internal/notify"
	"meme-stock-dashboard/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailClient_SendAlert(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"success":true,"message":"sent"}`))
	}))
	defer server.Close()

	c := notify.NewEmailClient(server.URL, time.Second)
	err := c.SendAlert(context.Background(), "trader@example.com", types.Alert{
		ID: "1", Ticker: "GME", Priority: types.PriorityHigh, MentionCount: 247, VolumeRatio: 4.2,
	})
	require.NoError(t, err)

	assert.Equal(t, "send-alert", received["action"])
	assert.Equal(t, "trader@example.com", received["email"])
	assert.NotContains(t, received, "preferences")

	alert, ok := received["alert"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GME", alert["ticker"])
	assert.Equal(t, "high", alert["priority"])
	assert.Equal(t, float64(247), alert["mentionCount"])
	assert.Equal(t, false, alert["emailSent"])
}

func TestEmailClient_UpdatePreferences(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"success":true,"message":"Preferences updated"}`))
	}))
	defer server.Close()

	c := notify.NewEmailClient(server.URL, time.Second)
	require.NoError(t, c.UpdatePreferences(context.Background(), "a@example.com", types.Tiers{High: true}))

	assert.Equal(t, "update-preferences", received["action"])
	assert.Equal(t, map[string]any{"high": true, "medium": false, "low": false}, received["preferences"])
	assert.NotContains(t, received, "alert")
}

func TestEmailClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"unsuccessful", http.StatusOK, `{"success":false,"message":"SMTP auth failed"}`, "SMTP auth failed"},
		{"bad request", http.StatusBadRequest, `{"success":false,"message":"Email address required"}`, "Email address required"},
		{"not json", http.StatusBadGateway, `bad gateway`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := notify.NewEmailClient(server.URL, time.Second).SendAlert(context.Background(), "a@example.com", types.Alert{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestPreferencesBackend_Update(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b := notify.NewPreferencesBackend(server.URL, time.Second)
	require.NoError(t, b.Update(context.Background(), "a@example.com", types.DefaultTiers()))

	assert.Equal(t, "a@example.com", received["email"])
	assert.Equal(t, map[string]any{"high": true, "medium": true, "low": false}, received["preferences"])
}

func TestPreferencesBackend_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := notify.NewPreferencesBackend(server.URL, time.Second).Update(context.Background(), "a@example.com", types.Tiers{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
