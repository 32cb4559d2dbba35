package notify

import (
	"context"

	"meme-stock-dashboard/internal/types"

	log "github.com/sirupsen/logrus"
)

// Sender delivers one alert to one recipient.
type Sender interface {
	SendAlert(ctx context.Context, email string, alert types.Alert) error
}

// Outcome is the result of one send within a dispatch pass.
type Outcome struct {
	Alert types.Alert
	Err   error
}

// Result reports a single dispatch pass.
type Result struct {
	Sent     int
	Failed   int
	Outcomes []Outcome
}

// Dispatcher sends notifications for alerts that appeared since the last fetch.
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

type seenKey struct {
	ticker   string
	priority types.Priority
}

// NewAlerts returns the alerts in current whose tier is subscribed and whose
// (ticker, priority) pair does not occur in previous. The alert id is not
// part of the identity.
func NewAlerts(previous, current []types.Alert, tiers types.Tiers) []types.Alert {
	seen := make(map[seenKey]struct{}, len(previous))
	for _, a := range previous {
		seen[seenKey{a.Ticker, a.Priority}] = struct{}{}
	}

	var fresh []types.Alert
	for _, a := range current {
		if !tiers.Subscribed(a.Priority) {
			continue
		}
		if _, ok := seen[seenKey{a.Ticker, a.Priority}]; ok {
			continue
		}
		fresh = append(fresh, a)
	}
	return fresh
}

// Dispatch sends one notification per new subscribed alert, one after the
// other. A failed send is recorded and the pass continues.
func (d *Dispatcher) Dispatch(ctx context.Context, previous, current []types.Alert, prefs types.Preferences) Result {
	var result Result
	if !prefs.Enabled || prefs.Email == "" {
		return result
	}

	for _, alert := range NewAlerts(previous, current, prefs.Tiers) {
		err := d.sender.SendAlert(ctx, prefs.Email, alert)
		result.Outcomes = append(result.Outcomes, Outcome{Alert: alert, Err: err})
		if err != nil {
			result.Failed++
			log.Errorf("❌ Failed to send %s alert for %s: %v", alert.Priority, alert.Ticker, err)
			continue
		}
		result.Sent++
		log.Infof("✅ %s alert for %s sent to %s", alert.Priority, alert.Ticker, prefs.Email)
	}

	return result
}
