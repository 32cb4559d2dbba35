package metrics

import (
	"sync"

	"meme-stock-dashboard/internal/database"
	"meme-stock-dashboard/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

const (
	namespace = "memestock"
	subsystem = "dashboard"

	priorityLabel = "priority"
)

// DashboardMetrics are the refresh loop and notification counters.
type DashboardMetrics struct {
	Fetches             prometheus.Counter
	FetchFailures       prometheus.Counter
	StaleDiscarded      prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	AlertsPerPriority   *prometheus.GaugeVec
	Mutex               sync.Mutex
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *DashboardMetrics {
	m := &DashboardMetrics{
		Fetches:             counter("fetches_total", "The total number of alert fetches"),
		FetchFailures:       counter("fetch_failures_total", "The total number of failed alert fetches"),
		StaleDiscarded:      counter("stale_responses_total", "Fetch responses discarded because a newer refresh started"),
		NotificationsSent:   counter("notifications_sent_total", "The total number of alert e-mails sent"),
		NotificationsFailed: counter("notifications_failed_total", "The total number of alert e-mails that failed"),
		AlertsPerPriority: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "alerts",
				Help:      "The current number of alerts per priority tier",
			},
			[]string{priorityLabel},
		),
	}

	reg.MustRegister(m.Fetches)
	reg.MustRegister(m.FetchFailures)
	reg.MustRegister(m.StaleDiscarded)
	reg.MustRegister(m.NotificationsSent)
	reg.MustRegister(m.NotificationsFailed)
	reg.MustRegister(m.AlertsPerPriority)

	return m
}

func (m *DashboardMetrics) ObserveFetch(ok bool) {
	m.Fetches.Inc()
	if !ok {
		m.FetchFailures.Inc()
	}
}

func (m *DashboardMetrics) ObserveStale() {
	m.StaleDiscarded.Inc()
}

func (m *DashboardMetrics) ObserveDispatch(sent, failed int) {
	m.NotificationsSent.Add(float64(sent))
	m.NotificationsFailed.Add(float64(failed))
}

func (m *DashboardMetrics) ObserveAlerts(s types.Summary) {
	m.AlertsPerPriority.WithLabelValues(string(types.PriorityHigh)).Set(float64(s.High))
	m.AlertsPerPriority.WithLabelValues(string(types.PriorityMedium)).Set(float64(s.Medium))
	m.AlertsPerPriority.WithLabelValues(string(types.PriorityLow)).Set(float64(s.Low))
}

func (m *DashboardMetrics) counters() map[string]prometheus.Counter {
	return map[string]prometheus.Counter{
		"fetches":              m.Fetches,
		"fetch_failures":       m.FetchFailures,
		"stale_responses":      m.StaleDiscarded,
		"notifications_sent":   m.NotificationsSent,
		"notifications_failed": m.NotificationsFailed,
	}
}

// LoadFromDB restores the counters and tier gauges saved by SaveToDB.
func (m *DashboardMetrics) LoadFromDB() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	for name, c := range m.counters() {
		value, err := database.GetMetric(name)
		if err != nil {
			log.Errorf("Failed to load metric %s: %v", name, err)
			continue
		}
		c.Add(value)
	}

	labeled, err := database.GetMetricsWithLabels("alerts")
	if err != nil {
		log.Errorf("Failed to load alert gauges: %v", err)
	}
	for priority, value := range labeled[priorityLabel] {
		m.AlertsPerPriority.WithLabelValues(priority).Set(value)
	}

	log.Println("Metrics loaded from database.")
}

// SaveToDB writes the current metric values to the database.
func (m *DashboardMetrics) SaveToDB() {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	for name, c := range m.counters() {
		if err := database.SaveMetric(name, GetMetricValue(c)); err != nil {
			log.Errorf("Failed to save metric %s: %v", name, err)
		}
	}

	metricChan := make(chan prometheus.Metric, len(types.Priorities))
	go func() {
		m.AlertsPerPriority.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read alerts metric: %v", err)
			continue
		}
		var priority string
		for _, label := range metricProto.Label {
			if label.GetName() == priorityLabel {
				priority = label.GetValue()
			}
		}
		if err := database.SaveMetricWithLabels("alerts", priorityLabel, priority, metricProto.Gauge.GetValue()); err != nil {
			log.Errorf("Failed to save alerts metric: %v", err)
		}
	}

	log.Println("Metrics saved to database.")
}

// GetMetricValue reads the value of a single counter or gauge.
func GetMetricValue(metric prometheus.Collector) float64 {
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	m, ok := <-metricChan
	if !ok {
		return 0
	}

	metricProto := &dto.Metric{}
	if err := m.Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		return metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		return metricProto.Gauge.GetValue()
	}
	return 0
}
