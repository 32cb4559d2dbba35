package metrics_test

import (
	"path/filepath"
	"testing"

	"meme-stock-dashboard/internal/database"
	"meme-stock-dashboard/internal/metrics"
	"meme-stock-dashboard/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveFetch(true)
	m.ObserveFetch(false)
	m.ObserveStale()
	m.ObserveDispatch(3, 1)
	m.ObserveAlerts(types.Summary{High: 2, Medium: 1, Low: 0, TotalMentions: 99})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Fetches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleDiscarded))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.NotificationsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AlertsPerPriority.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsPerPriority.WithLabelValues("medium")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AlertsPerPriority.WithLabelValues("low")))
}

func TestGetMetricValue(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.NotificationsSent.Add(4)

	assert.Equal(t, 4.0, metrics.GetMetricValue(m.NotificationsSent))
	assert.Equal(t, 0.0, metrics.GetMetricValue(m.AlertsPerPriority))
}

func TestSaveAndLoadFromDB(t *testing.T) {
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "metrics.db")))
	t.Cleanup(func() { database.CloseDB() })

	before := metrics.New(prometheus.NewRegistry())
	before.ObserveFetch(false)
	before.ObserveFetch(true)
	before.ObserveDispatch(5, 2)
	before.ObserveAlerts(types.Summary{High: 3, Medium: 2, Low: 1})
	before.SaveToDB()

	after := metrics.New(prometheus.NewRegistry())
	after.LoadFromDB()

	assert.Equal(t, 2.0, testutil.ToFloat64(after.Fetches))
	assert.Equal(t, 1.0, testutil.ToFloat64(after.FetchFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(after.StaleDiscarded))
	assert.Equal(t, 5.0, testutil.ToFloat64(after.NotificationsSent))
	assert.Equal(t, 2.0, testutil.ToFloat64(after.NotificationsFailed))
	assert.Equal(t, 3.0, testutil.ToFloat64(after.AlertsPerPriority.WithLabelValues("high")))
	assert.Equal(t, 1.0, testutil.ToFloat64(after.AlertsPerPriority.WithLabelValues("low")))
}
