package scoring

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"fraudconsole/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// wireResult mirrors the response body with pointers so absent numbers are
// told apart from zeros.
type wireResult struct {
	TransactionID    string   `json:"transaction_id" validate:"required"`
	Prediction       *int     `json:"prediction" validate:"required,oneof=0 1"`
	FraudProbability *float64 `json:"fraud_probability" validate:"required,gte=0,lte=1"`
	RiskLevel        string   `json:"risk_level" validate:"required"`
	AnomalyScore     *float64 `json:"anomaly_score" validate:"required"`
	Threshold        *float64 `json:"threshold" validate:"required"`
	ModelVersion     string   `json:"model_version" validate:"required"`
	Timestamp        string   `json:"timestamp" validate:"required,iso8601"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseTimestamp(fl.Field().String())
		return ok
	})
	return v
}

// wireBatch mirrors the batch response body.
type wireBatch struct {
	Predictions      []wireResult `json:"predictions" validate:"dive"`
	TotalProcessed   *int         `json:"total_processed" validate:"required,gte=0"`
	FraudDetected    *int         `json:"fraud_detected" validate:"required,gte=0"`
	ProcessingTimeMs *float64     `json:"processing_time_ms" validate:"required,gte=0"`
}

// decodeResult reads and validates a prediction body.
func decodeResult(body io.Reader, v *validator.Validate) (*models.PredictionResult, error) {
	var w wireResult
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&w); err != nil {
		return nil, malformed("%v", err)
	}
	if err := validate(v, &w); err != nil {
		return nil, err
	}

	result := w.result()
	return &result, nil
}

// decodeBatch reads and validates a batch body. The counts must agree with
// the predictions it carries.
func decodeBatch(body io.Reader, v *validator.Validate) (*models.BatchPredictionResult, error) {
	var w wireBatch
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&w); err != nil {
		return nil, malformed("%v", err)
	}
	if err := validate(v, &w); err != nil {
		return nil, err
	}

	out := &models.BatchPredictionResult{
		Predictions:      make([]models.PredictionResult, 0, len(w.Predictions)),
		TotalProcessed:   *w.TotalProcessed,
		FraudDetected:    *w.FraudDetected,
		ProcessingTimeMs: *w.ProcessingTimeMs,
	}
	fraud := 0
	for _, p := range w.Predictions {
		r := p.result()
		if r.IsFraud() {
			fraud++
		}
		out.Predictions = append(out.Predictions, r)
	}

	if out.TotalProcessed != len(out.Predictions) {
		return nil, malformed("total_processed is %d but %d predictions were returned", out.TotalProcessed, len(out.Predictions))
	}
	if out.FraudDetected != fraud {
		return nil, malformed("fraud_detected is %d but %d predictions are fraud", out.FraudDetected, fraud)
	}
	return out, nil
}

func validate(v *validator.Validate, w interface{}) error {
	err := v.Struct(w)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return malformed("field %q failed %q check", fe.Field(), fe.Tag())
	}
	return malformed("%v", err)
}

func (w wireResult) result() models.PredictionResult {
	return models.PredictionResult{
		TransactionID:    w.TransactionID,
		Prediction:       *w.Prediction,
		FraudProbability: *w.FraudProbability,
		RiskLevel:        w.RiskLevel,
		AnomalyScore:     *w.AnomalyScore,
		Threshold:        *w.Threshold,
		ModelVersion:     w.ModelVersion,
		Timestamp:        w.Timestamp,
	}
}
