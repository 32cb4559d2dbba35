package dashboard

import (
	"context"
	"sync"
	"time"

	"meme-stock-dashboard/internal/notify"
	"meme-stock-dashboard/internal/stats"
	"meme-stock-dashboard/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AlertSource returns the current alert list or the reason it could not.
type AlertSource interface {
	Fetch(ctx context.Context) ([]types.Alert, error)
}

// Dispatcher runs one notification pass for a completed fetch.
type Dispatcher interface {
	Dispatch(ctx context.Context, previous, current []types.Alert, prefs types.Preferences) notify.Result
}

// PreferenceStore persists the notification settings.
type PreferenceStore interface {
	Load(ctx context.Context) types.Preferences
	Save(ctx context.Context, prefs types.Preferences) error
}

// EmailService is the e-mail backend used by the settings flow.
type EmailService interface {
	notify.Sender
	UpdatePreferences(ctx context.Context, email string, tiers types.Tiers) error
}

// PreferencesBackend is the remote preferences database.
type PreferencesBackend interface {
	Update(ctx context.Context, email string, tiers types.Tiers) error
}

// Metrics receives refresh and dispatch outcomes.
type Metrics interface {
	ObserveFetch(ok bool)
	ObserveStale()
	ObserveDispatch(sent, failed int)
	ObserveAlerts(summary types.Summary)
}

type nopMetrics struct{}

func (nopMetrics) ObserveFetch(bool)           {}
func (nopMetrics) ObserveStale()               {}
func (nopMetrics) ObserveDispatch(int, int)    {}
func (nopMetrics) ObserveAlerts(types.Summary) {}

// Deps are the collaborators of a Service. Metrics may be nil.
type Deps struct {
	Source     AlertSource
	Dispatcher Dispatcher
	Store      PreferenceStore
	Email      EmailService
	Backend    PreferencesBackend
	Metrics    Metrics
}

// Options tune the refresh loop.
type Options struct {
	Interval    time.Duration
	AutoRefresh bool
	Now         func() time.Time
}

// State is a point-in-time copy of what the dashboard shows.
type State struct {
	Alerts        []types.Alert           `json:"alerts"`
	Preferences   types.Preferences       `json:"-"`
	Loading       bool                    `json:"loading"`
	LastUpdated   time.Time               `json:"lastUpdated"`
	AutoRefresh   bool                    `json:"autoRefresh"`
	Notifications types.NotificationTally `json:"notifications"`
}

// Summary recomputes the tiles from the alerts in this state.
func (s State) Summary() types.Summary {
	return stats.Summarize(s.Alerts)
}

// Service owns the alert set and drives fetches, notifications and the
// auto-refresh timer.
type Service struct {
	deps     Deps
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	state     State
	token     uint64
	inFlight  int
	base      context.Context
	stopTimer context.CancelFunc
	wg        sync.WaitGroup
}

func New(deps Deps, opts Options) *Service {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		deps:     deps,
		interval: opts.Interval,
		now:      opts.Now,
		state: State{
			Alerts:      []types.Alert{},
			Preferences: types.DefaultPreferences(),
			AutoRefresh: opts.AutoRefresh,
		},
	}
}

// Run loads the stored preferences, performs the initial refresh and keeps
// the auto-refresh timer running until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	prefs := s.deps.Store.Load(ctx)

	s.mu.Lock()
	s.state.Preferences = prefs
	s.base = ctx
	if s.state.AutoRefresh {
		s.startTimerLocked()
	}
	s.mu.Unlock()

	log.Println("🚀 Dashboard refresh loop started.")
	s.Refresh(ctx)

	<-ctx.Done()

	s.mu.Lock()
	s.stopTimerLocked()
	s.base = nil
	s.mu.Unlock()
	s.wg.Wait()

	log.Println("Dashboard refresh loop stopped.")
	return nil
}

// Refresh fetches the alerts and, unless a newer refresh was started in the
// meantime, replaces the alert set and dispatches notifications for the new
// alerts. It returns the resulting state.
func (s *Service) Refresh(ctx context.Context) State {
	s.mu.Lock()
	s.token++
	token := s.token
	s.inFlight++
	s.state.Loading = true
	s.mu.Unlock()

	log.Debugf("🔄 Refreshing alerts (request %d)...", token)
	alerts, err := s.deps.Source.Fetch(ctx)

	s.mu.Lock()
	s.inFlight--
	s.state.Loading = s.inFlight > 0

	if token != s.token {
		s.mu.Unlock()
		log.Debugf("discarding stale alerts response %d", token)
		s.deps.Metrics.ObserveStale()
		return s.Snapshot()
	}

	if err != nil {
		if len(s.state.Alerts) == 0 {
			s.state.Alerts = SampleAlerts(s.now())
			log.Warnf("⚠️ Failed to fetch alerts, showing sample alerts: %v", err)
		} else {
			log.Errorf("❌ Failed to fetch alerts, keeping last known alerts: %v", err)
		}
		summary := stats.Summarize(s.state.Alerts)
		s.mu.Unlock()
		s.deps.Metrics.ObserveFetch(false)
		s.deps.Metrics.ObserveAlerts(summary)
		return s.Snapshot()
	}

	previous := s.state.Alerts
	s.state.Alerts = alerts
	s.state.LastUpdated = s.now()
	prefs := s.state.Preferences
	s.mu.Unlock()

	s.deps.Metrics.ObserveFetch(true)
	s.deps.Metrics.ObserveAlerts(stats.Summarize(alerts))

	// The pass outlives a cancelled caller so every new alert gets its attempt.
	result := s.deps.Dispatcher.Dispatch(context.WithoutCancel(ctx), previous, alerts, prefs)
	if result.Sent > 0 || result.Failed > 0 {
		s.mu.Lock()
		s.state.Notifications.Sent += result.Sent
		s.state.Notifications.Failed += result.Failed
		s.mu.Unlock()
		s.deps.Metrics.ObserveDispatch(result.Sent, result.Failed)
	}

	log.Debugf("✅ Alerts refreshed: %d alerts, %d notifications sent, %d failed", len(alerts), result.Sent, result.Failed)
	return s.Snapshot()
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Alerts = make([]types.Alert, len(s.state.Alerts))
	copy(st.Alerts, s.state.Alerts)
	return st
}

// SetAutoRefresh turns the recurring refresh on or off. Turning it off
// cancels the pending timer.
func (s *Service) SetAutoRefresh(enabled bool) State {
	s.mu.Lock()
	s.state.AutoRefresh = enabled
	if enabled {
		s.startTimerLocked()
	} else {
		s.stopTimerLocked()
	}
	s.mu.Unlock()

	log.Infof("Auto-refresh enabled: %t", enabled)
	return s.Snapshot()
}

func (s *Service) startTimerLocked() {
	if s.stopTimer != nil || s.base == nil {
		return
	}

	// Refreshes run on the base context: stopping the timer must not
	// cancel a fetch already in flight.
	base := s.base
	ctx, cancel := context.WithCancel(base)
	s.stopTimer = cancel
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(base)
			}
		}
	}()
}

func (s *Service) stopTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// TestAlert is mailed when settings are saved to prove the address works.
func TestAlert(now time.Time) types.Alert {
	return types.Alert{
		Ticker:       "TEST",
		Priority:     types.PriorityHigh,
		MentionCount: 100,
		VolumeRatio:  3.5,
		CurrentPrice: 123.45,
		PriceChange:  15.2,
		DetectedAt:   now.UTC().Format(time.RFC3339),
	}
}

// SaveSettings pushes the new recipient and tiers to both backends, then
// mails a test alert. Only when the test succeeds are the settings stored
// locally, with notifications enabled, and applied.
func (s *Service) SaveSettings(ctx context.Context, email string, tiers types.Tiers) (types.Preferences, error) {
	if email == "" {
		return types.Preferences{}, errors.New("email address required")
	}

	if s.deps.Backend != nil {
		if err := s.deps.Backend.Update(ctx, email, tiers); err != nil {
			log.Warnf("could not store preferences in preferences backend: %v", err)
		}
	}
	if err := s.deps.Email.UpdatePreferences(ctx, email, tiers); err != nil {
		log.Warnf("could not store preferences in email service: %v", err)
	}

	if err := s.deps.Email.SendAlert(ctx, email, TestAlert(s.now())); err != nil {
		return types.Preferences{}, errors.Wrap(err, "failed to send test email")
	}

	prefs := types.Preferences{Email: email, Enabled: true, Tiers: tiers}
	return prefs, s.applyPreferences(ctx, prefs)
}

// DisableNotifications keeps the recipient and tiers but stops dispatching.
func (s *Service) DisableNotifications(ctx context.Context) (types.Preferences, error) {
	prefs := s.Snapshot().Preferences
	prefs.Enabled = false
	return prefs, s.applyPreferences(ctx, prefs)
}

func (s *Service) applyPreferences(ctx context.Context, prefs types.Preferences) error {
	s.mu.Lock()
	s.state.Preferences = prefs
	s.mu.Unlock()

	if err := s.deps.Store.Save(ctx, prefs); err != nil {
		return errors.Wrap(err, "settings applied but not fully persisted")
	}
	return nil
}
