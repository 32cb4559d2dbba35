package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"meme-stock-dashboard/internal/dashboard"
	"meme-stock-dashboard/internal/types"
	"meme-stock-dashboard/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Dashboard is the part of dashboard.Service the API drives.
type Dashboard interface {
	Snapshot() dashboard.State
	Refresh(ctx context.Context) dashboard.State
	SetAutoRefresh(enabled bool) dashboard.State
	SaveSettings(ctx context.Context, email string, tiers types.Tiers) (types.Preferences, error)
	DisableNotifications(ctx context.Context) (types.Preferences, error)
}

// Charts renders volume charts.
type Charts interface {
	VolumePNG(ticker string) ([]byte, error)
}

var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,10}$`)

// Server is the dashboard HTTP API.
type Server struct {
	dashboard Dashboard
	charts    Charts
	now       func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand
}

// DashboardResponse is the body of GET /api/dashboard.
type DashboardResponse struct {
	Alerts        []types.Alert           `json:"alerts"`
	Cards         []view.Card             `json:"cards"`
	Summary       types.Summary           `json:"summary"`
	LastUpdated   *time.Time              `json:"lastUpdated"`
	Loading       bool                    `json:"loading"`
	AutoRefresh   bool                    `json:"autoRefresh"`
	Notifications types.NotificationTally `json:"notifications"`
}

type settingsRequest struct {
	Email       string      `json:"email"`
	Preferences types.Tiers `json:"preferences"`
}

type autoRefreshRequest struct {
	Enabled bool `json:"enabled"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// New creates the API server.
func New(d Dashboard, charts Charts) *Server {
	return &Server{
		dashboard: d,
		charts:    charts,
		now:       time.Now,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Router builds the chi router serving every API route.
func (s *Server) Router() http.Handler {
	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.StandardLogger(),
		NoColor: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", HealthCheckHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/auto-refresh", s.handleAutoRefresh)
		r.Get("/preferences", s.handlePreferences)
		r.Post("/settings", s.handleSettings)
		r.Post("/notifications/disable", s.handleDisable)
		r.Get("/alerts/random", s.handleRandomAlert)
		r.Get("/alerts/{ticker}/volume.png", s.handleVolumeChart)
	})

	return r
}

// HealthCheckHandler reports liveness.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) dashboardResponse(st dashboard.State) DashboardResponse {
	resp := DashboardResponse{
		Alerts:        st.Alerts,
		Cards:         view.NewCards(st.Alerts, s.now()),
		Summary:       st.Summary(),
		Loading:       st.Loading,
		AutoRefresh:   st.AutoRefresh,
		Notifications: st.Notifications,
	}
	if !st.LastUpdated.IsZero() {
		lastUpdated := st.LastUpdated
		resp.LastUpdated = &lastUpdated
	}
	return resp
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboardResponse(s.dashboard.Snapshot()))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboardResponse(s.dashboard.Refresh(r.Context())))
}

func (s *Server) handleAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var req autoRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, s.dashboardResponse(s.dashboard.SetAutoRefresh(req.Enabled)))
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot().Preferences)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	req := settingsRequest{Preferences: types.DefaultTiers()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email address required")
		return
	}

	prefs, err := s.dashboard.SaveSettings(r.Context(), req.Email, req.Preferences)
	if err != nil {
		log.Errorf("❌ Failed to save settings: %v", err)
		status := http.StatusBadGateway
		if prefs.Enabled {
			// applied in memory, not persisted
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleDisable(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.dashboard.DisableNotifications(r.Context())
	if err != nil {
		log.Errorf("❌ Failed to disable notifications: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleRandomAlert(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	s.randMu.Lock()
	alert := dashboard.RandomAlert(s.rand, now)
	s.randMu.Unlock()
	writeJSON(w, http.StatusOK, view.NewCard(alert, now))
}

func (s *Server) handleVolumeChart(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if !tickerPattern.MatchString(ticker) {
		writeError(w, http.StatusBadRequest, "invalid ticker")
		return
	}

	data, err := s.charts.VolumePNG(strings.ToUpper(ticker))
	if err != nil {
		log.Errorf("❌ Failed to render volume chart for %s: %v", ticker, err)
		writeError(w, http.StatusInternalServerError, "chart unavailable")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}
