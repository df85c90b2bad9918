package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/order_export_app/internal/core/domain"
	"github.com/SscSPs/order_export_app/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMetrics_ObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewExportMetrics(reg)
	require.NoError(t, err)

	m.ObserveRun(&domain.JoinResult{Matched: 3, Unmatched: 1}, time.Second, nil)
	m.ObserveRun(nil, time.Second, errors.New("boom"))
	m.ObserveFetch("items", 10*time.Millisecond, nil)

	count, err := testutil.GatherAndCount(reg, "order_export_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	count, err = testutil.GatherAndCount(reg, "order_export_fetch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExportMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.ExportMetrics
	assert.NotPanics(t, func() {
		m.ObserveRun(&domain.JoinResult{}, time.Second, nil)
		m.ObserveFetch("rates", time.Second, nil)
	})
}

func TestNewExportMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewExportMetrics(reg)
	require.NoError(t, err)

	_, err = metrics.NewExportMetrics(reg)
	assert.Error(t, err)
}
