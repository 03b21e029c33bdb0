package models

// MaxBatchSize is the most transactions the scoring API accepts in one batch.
const MaxBatchSize = 100

// BatchPredictionRequest is the POST /predict/batch payload.
type BatchPredictionRequest struct {
	Transactions []PredictionRequest `json:"transactions"`
}

// BatchPredictionResult is a validated batch response. The counts always
// agree with Predictions.
type BatchPredictionResult struct {
	Predictions      []PredictionResult `json:"predictions"`
	TotalProcessed   int                `json:"total_processed"`
	FraudDetected    int                `json:"fraud_detected"`
	ProcessingTimeMs float64            `json:"processing_time_ms"`
}
