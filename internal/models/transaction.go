package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FeatureCount is the number of anonymized features (V1..V28) the scoring model takes.
const FeatureCount = 28

// Features holds V1..V28; index 0 is V1.
type Features [FeatureCount]float64

// FeatureName returns the wire name of the feature at index i ("V1" for 0).
func FeatureName(i int) string {
	return "V" + strconv.Itoa(i+1)
}

// TransactionInput is what the form collects for a single submission.
type TransactionInput struct {
	TransactionID string
	Amount        float64
	Time          float64
	Features      Features
}

// Request assembles the wire payload for POST /predict.
func (in TransactionInput) Request() PredictionRequest {
	return PredictionRequest{
		TransactionID: in.TransactionID,
		Transaction: TransactionFeatures{
			Time:     in.Time,
			Amount:   in.Amount,
			Features: in.Features,
		},
	}
}

// PredictionRequest is the body sent to the scoring API.
type PredictionRequest struct {
	TransactionID string              `json:"transaction_id"`
	Transaction   TransactionFeatures `json:"transaction"`
}

// Input converts a decoded request back into a form input.
func (r PredictionRequest) Input() TransactionInput {
	return TransactionInput{
		TransactionID: r.TransactionID,
		Amount:        r.Transaction.Amount,
		Time:          r.Transaction.Time,
		Features:      r.Transaction.Features,
	}
}

// TransactionFeatures is the flat {"Time", "Amount", "V1".."V28"} object.
// Non-finite values are written as null and null reads back as NaN.
type TransactionFeatures struct {
	Time     float64
	Amount   float64
	Features Features
}

func (t TransactionFeatures) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeNumber(&buf, "Time", t.Time)
	buf.WriteByte(',')
	writeNumber(&buf, "Amount", t.Amount)
	for i, v := range t.Features {
		buf.WriteByte(',')
		writeNumber(&buf, FeatureName(i), v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *TransactionFeatures) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	read := func(name string) (float64, error) {
		v, ok := raw[name]
		if !ok {
			return 0, fmt.Errorf("missing field %q", name)
		}
		if v == nil {
			return math.NaN(), nil
		}
		return *v, nil
	}

	var err error
	if t.Time, err = read("Time"); err != nil {
		return err
	}
	if t.Amount, err = read("Amount"); err != nil {
		return err
	}
	for i := range t.Features {
		if t.Features[i], err = read(FeatureName(i)); err != nil {
			return err
		}
	}
	return nil
}

func writeNumber(buf *bytes.Buffer, key string, v float64) {
	buf.WriteByte('"')
	buf.WriteString(key)
	buf.WriteString(`":`)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		buf.WriteString("null")
		return
	}
	// finite floats never fail to marshal
	b, _ := json.Marshal(v)
	buf.Write(b)
}
