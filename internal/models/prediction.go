package models

import "time"

// Prediction labels returned by the scoring API.
const (
	PredictionLegitimate = 0
	PredictionFraud      = 1
)

// PredictionResult is a validated response from POST /predict.
type PredictionResult struct {
	TransactionID    string  `json:"transaction_id"`
	Prediction       int     `json:"prediction"`
	FraudProbability float64 `json:"fraud_probability"`
	RiskLevel        string  `json:"risk_level"`
	AnomalyScore     float64 `json:"anomaly_score"`
	Threshold        float64 `json:"threshold"`
	ModelVersion     string  `json:"model_version"`
	Timestamp        string  `json:"timestamp"`
}

// IsFraud reports whether the model flagged the transaction.
func (r PredictionResult) IsFraud() bool {
	return r.Prediction == PredictionFraud
}

// timestampLayouts covers RFC 3339 and the zone-less isoformat() the API emits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp. Zone-less values are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HealthStatus is the scoring API's /health body.
type HealthStatus struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	ModelLoaded bool   `json:"model_loaded"`
	ModelType   string `json:"model_type,omitempty"`
}

// Healthy reports whether the API says it can score.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy" && h.ModelLoaded
}
