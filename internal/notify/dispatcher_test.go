package notify_test

import (
	"context"
	"errors"
	"testing"

	"meme-stock-dashboard/internal/notify"
	"meme-stock-dashboard/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	email string
	alert types.Alert
}

type recordingSender struct {
	calls []call
	fail  map[string]bool
}

func (r *recordingSender) SendAlert(_ context.Context, email string, alert types.Alert) error {
	r.calls = append(r.calls, call{email, alert})
	if r.fail[alert.ID] {
		return errors.New("smtp unavailable")
	}
	return nil
}

func enabled(tiers types.Tiers) types.Preferences {
	return types.Preferences{Email: "trader@example.com", Enabled: true, Tiers: tiers}
}

var allTiers = types.Tiers{High: true, Medium: true, Low: true}

func TestDispatch_DedupByTickerAndPriority(t *testing.T) {
	sender := &recordingSender{}
	d := notify.NewDispatcher(sender)

	previous := []types.Alert{{ID: "1", Ticker: "GME", Priority: types.PriorityHigh}}
	current := []types.Alert{
		{ID: "2", Ticker: "GME", Priority: types.PriorityHigh},
		{ID: "3", Ticker: "GME", Priority: types.PriorityMedium},
	}

	result := d.Dispatch(context.Background(), previous, current, enabled(types.Tiers{High: true, Medium: true}))

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "3", sender.calls[0].alert.ID)
	assert.Equal(t, "trader@example.com", sender.calls[0].email)
}

func TestDispatch_DifferentFieldsSameKeyIsNotNew(t *testing.T) {
	sender := &recordingSender{}
	d := notify.NewDispatcher(sender)

	previous := []types.Alert{{ID: "a", Ticker: "AMC", Priority: types.PriorityMedium, MentionCount: 10, CurrentPrice: 5}}
	current := []types.Alert{{ID: "b", Ticker: "AMC", Priority: types.PriorityMedium, MentionCount: 900, CurrentPrice: 9}}

	result := d.Dispatch(context.Background(), previous, current, enabled(allTiers))
	assert.Zero(t, result.Sent)
	assert.Empty(t, sender.calls)
}

func TestDispatch_PreferenceGating(t *testing.T) {
	tests := []struct {
		name     string
		previous []types.Alert
	}{
		{"no previous", nil},
		{"unrelated previous", []types.Alert{{Ticker: "BB", Priority: types.PriorityHigh}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			d := notify.NewDispatcher(sender)

			current := []types.Alert{{ID: "1", Ticker: "PLTR", Priority: types.PriorityLow}}
			result := d.Dispatch(context.Background(), tt.previous, current, enabled(types.Tiers{High: true, Medium: true, Low: false}))

			assert.Zero(t, result.Sent)
			assert.Empty(t, sender.calls)
		})
	}
}

func TestDispatch_UnknownPriorityNeverSent(t *testing.T) {
	sender := &recordingSender{}
	d := notify.NewDispatcher(sender)

	current := []types.Alert{{ID: "1", Ticker: "XYZ", Priority: "urgent"}}
	result := d.Dispatch(context.Background(), nil, current, enabled(allTiers))

	assert.Zero(t, result.Sent)
	assert.Empty(t, sender.calls)
}

func TestDispatch_ShortCircuits(t *testing.T) {
	current := []types.Alert{{ID: "1", Ticker: "GME", Priority: types.PriorityHigh}}

	tests := []struct {
		name  string
		prefs types.Preferences
	}{
		{"disabled", types.Preferences{Email: "trader@example.com", Enabled: false, Tiers: allTiers}},
		{"no recipient", types.Preferences{Email: "", Enabled: true, Tiers: allTiers}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			result := notify.NewDispatcher(sender).Dispatch(context.Background(), nil, current, tt.prefs)

			assert.Equal(t, notify.Result{}, result)
			assert.Empty(t, sender.calls)
		})
	}
}

func TestDispatch_PartialFailureIsolation(t *testing.T) {
	sender := &recordingSender{fail: map[string]bool{"1": true}}
	d := notify.NewDispatcher(sender)

	current := []types.Alert{
		{ID: "1", Ticker: "GME", Priority: types.PriorityHigh},
		{ID: "2", Ticker: "AMC", Priority: types.PriorityHigh},
	}

	result := d.Dispatch(context.Background(), nil, current, enabled(allTiers))

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, sender.calls, 2)
	assert.Equal(t, "1", sender.calls[0].alert.ID)
	assert.Equal(t, "2", sender.calls[1].alert.ID)

	require.Len(t, result.Outcomes, 2)
	assert.Error(t, result.Outcomes[0].Err)
	assert.NoError(t, result.Outcomes[1].Err)
}

func TestNewAlerts_PreservesOrder(t *testing.T) {
	current := []types.Alert{
		{ID: "1", Ticker: "NVDA", Priority: types.PriorityMedium},
		{ID: "2", Ticker: "TSLA", Priority: types.PriorityLow},
		{ID: "3", Ticker: "BB", Priority: types.PriorityMedium},
	}

	fresh := notify.NewAlerts(nil, current, allTiers)
	require.Len(t, fresh, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{fresh[0].ID, fresh[1].ID, fresh[2].ID})
}
