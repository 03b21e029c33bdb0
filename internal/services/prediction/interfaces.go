package prediction

import (
	"context"

	"fraudconsole/internal/console"
	"fraudconsole/internal/models"
)

// Service runs one submission against a console session.
type Service interface {
	// Submit shows the loading panel, scores in, then records the outcome on
	// sess. The returned error is the scoring error, already shown on the panel.
	Submit(ctx context.Context, sess *console.Session, in models.TransactionInput) (*models.PredictionResult, error)
}
