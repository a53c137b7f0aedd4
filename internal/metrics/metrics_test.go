package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordOutcome(t *testing.T) {
	before := testutil.ToFloat64(outcomeCounter.WithLabelValues("CheckedIn"))
	RecordOutcome("CheckedIn")
	RecordOutcome("CheckedIn")
	require.Equal(t, before+2, testutil.ToFloat64(outcomeCounter.WithLabelValues("CheckedIn")))
}

func TestRecordAttempt(t *testing.T) {
	before := testutil.ToFloat64(attemptCounter.WithLabelValues("failure"))
	RecordAttempt(true)
	require.Equal(t, before+1, testutil.ToFloat64(attemptCounter.WithLabelValues("failure")))
}

func TestRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	Register(registry)

	RecordTokenFetch("cached", false)
	ObserveUpstream("holdings", time.Now().Add(-time.Second))

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
