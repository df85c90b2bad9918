package metrics

import (
	"time"

	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics holds the prometheus collectors of the export pipeline.
// A nil *ExportMetrics is valid and records nothing.
type ExportMetrics struct {
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	fetchDuration *prometheus.HistogramVec
	rows          *prometheus.CounterVec
}

// NewExportMetrics creates the collectors and registers them with reg.
func NewExportMetrics(reg prometheus.Registerer) (*ExportMetrics, error) {
	m := &ExportMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_export",
			Name:      "runs_total",
			Help:      "Export pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "order_export",
			Name:      "run_duration_seconds",
			Help:      "Duration of successful export pipeline runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "order_export",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream fetches by source and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_export",
			Name:      "rows_total",
			Help:      "Joined order rows by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.runDuration, m.fetchDuration, m.rows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveFetch records one upstream fetch.
func (m *ExportMetrics) ObserveFetch(source string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(source, outcome(err)).Observe(elapsed.Seconds())
}

// ObserveRun records one pipeline run. result is ignored when err is set.
func (m *ExportMetrics) ObserveRun(result *domain.JoinResult, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome(err)).Inc()
	if err != nil || result == nil {
		return
	}
	m.runDuration.Observe(elapsed.Seconds())
	m.rows.WithLabelValues("matched").Add(float64(result.Matched))
	m.rows.WithLabelValues("unmatched").Add(float64(result.Unmatched))
	m.rows.WithLabelValues("unconverted").Add(float64(result.Unconverted))
	m.rows.WithLabelValues("malformed_date").Add(float64(result.MalformedDates))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
