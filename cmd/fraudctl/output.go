package main

import (
	"encoding/json"
	"io"
	"strconv"

	"fraudconsole/internal/models"
	"fraudconsole/internal/view"

	"github.com/olekukonko/tablewriter"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResults prints results with the same formatting as the web console.
func writeResults(w io.Writer, results []models.PredictionResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Transaction", "Result", "Probability", "Risk", "Anomaly", "Threshold", "Model", "Timestamp"})
	table.SetAutoWrapText(false)

	for _, r := range results {
		table.Append([]string{
			r.TransactionID,
			view.BadgeText(r),
			view.Percent(r.FraudProbability),
			r.RiskLevel,
			view.Fixed4(r.AnomalyScore),
			view.Fixed4(r.Threshold),
			r.ModelVersion,
			view.Timestamp(r.Timestamp),
		})
	}
	table.Render()
}

func writeHealth(w io.Writer, status *models.HealthStatus) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Version", "Model Loaded", "Model Type"})
	table.Append([]string{
		status.Status,
		status.Version,
		strconv.FormatBool(status.ModelLoaded),
		status.ModelType,
	})
	table.Render()
}
