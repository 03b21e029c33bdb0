package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.RecordSubmission(OutcomeSuccess)
	p.RecordSubmission(OutcomeSuccess)
	p.RecordSubmission(OutcomeStatus)
	p.RecordPrediction("fraud")
	p.ObserveScoring(120 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(p.submissions.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.submissions.WithLabelValues(OutcomeStatus)))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.predictions.WithLabelValues("fraud")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "fraudconsole_scoring_duration_seconds")
}
