package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "bubbletea_import"

// ImportMetrics holds the Prometheus metrics of one import run.
// A run owns its registry; nothing is registered globally.
type ImportMetrics struct {
	Registry *prometheus.Registry

	PostalCodesTotal   *prometheus.CounterVec
	BusinessesTotal    *prometheus.CounterVec
	HoursRowsTotal     prometheus.Counter
	APIErrorsTotal     *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	LastRunTimestamp   prometheus.Gauge
}

// NewImportMetrics initializes and returns the metrics of a run
func NewImportMetrics() *ImportMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &ImportMetrics{
		Registry: reg,
		PostalCodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bubbletea_import_postal_codes_total",
				Help: "Postal codes attempted, by outcome",
			},
			[]string{"outcome"},
		),
		BusinessesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bubbletea_import_businesses_total",
				Help: "Business records seen in search results, by outcome",
			},
			[]string{"outcome"},
		),
		HoursRowsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bubbletea_import_hours_rows_total",
				Help: "Opening hours rows written",
			},
		),
		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bubbletea_import_api_errors_total",
				Help: "Failed search API calls, by query and error code",
			},
			[]string{"query", "code"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bubbletea_import_api_request_duration_seconds",
				Help:    "Search API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"query"},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bubbletea_import_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}
}

// ObserveAPICall records the latency of one API call and counts it when it failed
func (m *ImportMetrics) ObserveAPICall(query string, started time.Time, errCode string) {
	m.APIRequestDuration.WithLabelValues(query).Observe(time.Since(started).Seconds())
	if errCode != "" {
		m.APIErrorsTotal.WithLabelValues(query, errCode).Inc()
	}
}

// Push sends the registry to a Prometheus Pushgateway, grouped by region
func (m *ImportMetrics) Push(gatewayURL string, region string) error {
	m.LastRunTimestamp.SetToCurrentTime()

	err := push.New(gatewayURL, pushJobName).
		Gatherer(m.Registry).
		Grouping("region", region).
		Push()
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
