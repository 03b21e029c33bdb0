package view

import (
	"math"
	"strconv"

	"fraudconsole/internal/models"

	"github.com/shopspring/decimal"
)

// displayTimeLayout is how result timestamps are shown.
const displayTimeLayout = "Jan 2, 2006, 3:04:05 PM"

var hundred = decimal.NewFromInt(100)

// Percent renders a probability as a percentage with two decimals: 0.8765 -> "87.65%".
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "NaN%"
	}
	return decimal.NewFromFloat(p).Mul(hundred).StringFixed(2) + "%"
}

// Fixed4 renders v with four decimals.
func Fixed4(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(4)
}

// Timestamp renders an ISO-8601 timestamp for display, or returns it as is
// when it cannot be parsed.
func Timestamp(s string) string {
	t, ok := models.ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format(displayTimeLayout)
}

// BadgeClass is the CSS modifier of a result: "fraud" or "legitimate".
func BadgeClass(r models.PredictionResult) string {
	if r.IsFraud() {
		return "fraud"
	}
	return "legitimate"
}

// BadgeText is the result panel badge.
func BadgeText(r models.PredictionResult) string {
	if r.IsFraud() {
		return "FRAUD DETECTED"
	}
	return "LEGITIMATE"
}

// HistoryBadgeText is the compact badge of a history row.
func HistoryBadgeText(r models.PredictionResult) string {
	if r.IsFraud() {
		return "FRAUD"
	}
	return "LEGIT"
}

// FormatNumber writes a form value the way a number input shows it.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
