package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed_response"
)

// Recorder collects submission metrics.
type Recorder interface {
	RecordSubmission(outcome string)
	RecordPrediction(label string)
	ObserveScoring(d time.Duration)
}

// NoopRecorder is a no-op implementation of Recorder
type NoopRecorder struct{}

func (NoopRecorder) RecordSubmission(string)      {}
func (NoopRecorder) RecordPrediction(string)      {}
func (NoopRecorder) ObserveScoring(time.Duration) {}

type Prometheus struct {
	submissions *prometheus.CounterVec
	predictions *prometheus.CounterVec
	scoring     prometheus.Histogram
}

// NewPrometheus builds the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fraudconsole",
				Name:      "submissions_total",
				Help:      "Form submissions by outcome.",
			}, []string{"outcome"}),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fraudconsole",
				Name:      "predictions_total",
				Help:      "Successful predictions by label.",
			}, []string{"label"}),
		scoring: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "fraudconsole",
				Name:      "scoring_duration_seconds",
				Help:      "Round trip time of scoring API calls.",
				Buckets:   prometheus.DefBuckets,
			}),
	}
	reg.MustRegister(p.submissions, p.predictions, p.scoring)
	return p
}

func (p *Prometheus) RecordSubmission(outcome string) {
	p.submissions.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RecordPrediction(label string) {
	p.predictions.WithLabelValues(label).Inc()
}

func (p *Prometheus) ObserveScoring(d time.Duration) {
	p.scoring.Observe(d.Seconds())
}
