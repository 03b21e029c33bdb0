package prediction

import (
	"context"
	"errors"
	"time"

	"fraudconsole/internal/console"
	"fraudconsole/internal/metrics"
	"fraudconsole/internal/models"
	"fraudconsole/internal/scoring"

	"github.com/rs/zerolog/log"
)

type service struct {
	scorer  scoring.Scorer
	metrics metrics.Recorder
}

// NewService creates a new prediction service
func NewService(scorer scoring.Scorer, recorder metrics.Recorder) Service {
	if scorer == nil {
		panic("scorer is required")
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &service{scorer: scorer, metrics: recorder}
}

func (s *service) Submit(ctx context.Context, sess *console.Session, in models.TransactionInput) (*models.PredictionResult, error) {
	ticket := sess.Dispatch()

	start := time.Now()
	result, err := s.scorer.Predict(ctx, in.Request())
	s.metrics.ObserveScoring(time.Since(start))

	if err != nil {
		s.metrics.RecordSubmission(Outcome(err))
		shown := sess.Fail(ticket, err.Error())
		log.Warn().
			Err(err).
			Str("session", sess.ID).
			Str("transaction_id", in.TransactionID).
			Bool("panel_updated", shown).
			Msg("prediction failed")
		return nil, err
	}

	shown := sess.Resolve(ticket, *result)
	s.metrics.RecordSubmission(metrics.OutcomeSuccess)
	s.metrics.RecordPrediction(Label(*result))
	log.Info().
		Str("session", sess.ID).
		Str("transaction_id", result.TransactionID).
		Bool("fraud", result.IsFraud()).
		Float64("probability", result.FraudProbability).
		Str("risk_level", result.RiskLevel).
		Bool("panel_updated", shown).
		Msg("prediction received")
	return result, nil
}

// Outcome maps a scoring error to its metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, scoring.ErrStatus):
		return metrics.OutcomeStatus
	case errors.Is(err, scoring.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeTransport
	}
}

// Label is the metrics label of a result.
func Label(r models.PredictionResult) string {
	if r.IsFraud() {
		return "fraud"
	}
	return "legitimate"
}
