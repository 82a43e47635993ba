package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		return sum
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCollector_Recompute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRecompute(3 * time.Millisecond)
	c.RecordRecompute(5 * time.Millisecond)
	c.RecordSnapshotFailure()

	assert.Equal(t, 2.0, gatherValue(t, reg, "ponto_ledger_recomputes_total"))
	assert.Equal(t, 2.0, gatherValue(t, reg, "ponto_ledger_recompute_seconds"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "ponto_ledger_snapshot_failures_total"))
}

func TestCollector_EventsAndFeeds(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEventRegistered("entrada")
	c.RecordEventRegistered("saida")
	c.RecordEventRegistered("saida")
	c.RecordFeedStarted()
	c.RecordFeedStarted()
	c.RecordFeedStopped()

	assert.Equal(t, 3.0, gatherValue(t, reg, "ponto_clock_events_registered_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "ponto_ledger_active_feeds"))
}

func TestSetupMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRecompute(time.Millisecond)

	srv := httptest.NewServer(SetupMetricsRoute(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ponto_ledger_recomputes_total 1")
	assert.Contains(t, string(body), "# HELP ponto_ledger_recompute_seconds Ledger computation latency, snapshot read excluded")
}
