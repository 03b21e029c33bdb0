package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fraudconsole/internal/models"
)

const defaultFeatureValue = "0.0"

// FormState is the raw text of the 31 form fields.
type FormState struct {
	TransactionID string
	Amount        string
	Time          string
	Features      [models.FeatureCount]string
}

// DefaultForm is the form as first rendered: a generated id and zeroed features.
func DefaultForm(now time.Time) FormState {
	f := FormState{
		TransactionID: fmt.Sprintf("TXN-%d", now.UnixMilli()),
		Amount:        "",
		Time:          defaultFeatureValue,
	}
	for i := range f.Features {
		f.Features[i] = defaultFeatureValue
	}
	return f
}

// FormFromInput fills every field from in.
func FormFromInput(in models.TransactionInput) FormState {
	f := FormState{
		TransactionID: in.TransactionID,
		Amount:        FormatNumber(in.Amount),
		Time:          FormatNumber(in.Time),
	}
	for i, v := range in.Features {
		f.Features[i] = FormatNumber(v)
	}
	return f
}

// ParseForm reads the fields through value, keyed by input name.
func ParseForm(value func(key string) string) FormState {
	f := FormState{
		TransactionID: value("transaction_id"),
		Amount:        value("amount"),
		Time:          value("time"),
	}
	for i := range f.Features {
		f.Features[i] = value(models.FeatureName(i))
	}
	return f
}

// Input converts the fields to numbers. Unparseable values become NaN and are
// passed through unchanged.
func (f FormState) Input() models.TransactionInput {
	in := models.TransactionInput{
		TransactionID: f.TransactionID,
		Amount:        parseNumber(f.Amount),
		Time:          parseNumber(f.Time),
	}
	for i, s := range f.Features {
		in.Features[i] = parseNumber(s)
	}
	return in
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
