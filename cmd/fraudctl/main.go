// fraudctl talks to the fraud scoring API from the terminal.
//
// Usage:
//
//	fraudctl predict --sample
//	fraudctl --json predict --file payload.json
//	fraudctl batch --count 20
//	fraudctl batch --count 500 --sequential
//	fraudctl health
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fraudconsole/internal/config"
	"fraudconsole/internal/logging"
	"fraudconsole/internal/models"
	"fraudconsole/internal/samples"
	"fraudconsole/internal/scoring"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	config.LoadEnv()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "fraudctl",
		Usage:   "Score transactions against the fraud detection API",
		Version: version,
		Writer:  out,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8000/api/v1",
				Usage:   "Scoring API base URL",
				EnvVars: []string{"SCORING_URL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Scoring API key",
				EnvVars: []string{"SCORING_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "health-url",
				Value:   "http://localhost:8000/health",
				Usage:   "Scoring API health endpoint",
				EnvVars: []string{"SCORING_HEALTH_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   30 * time.Second,
				Usage:   "Per-request timeout (0 disables it)",
				EnvVars: []string{"SCORING_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON instead of a table",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},

		Before: func(c *cli.Context) error {
			logging.Setup(c.String("log-level"), false)
			return nil
		},

		Commands: []*cli.Command{
			predictCommand(),
			batchCommand(),
			healthCommand(),
		},
	}
}

func newClient(c *cli.Context) (*scoring.Client, error) {
	if c.String("api-key") == "" {
		return nil, config.ErrMissingAPIKey
	}
	return scoring.NewClient(scoring.Options{
		BaseURL:   c.String("url"),
		APIKey:    c.String("api-key"),
		HealthURL: c.String("health-url"),
		Timeout:   c.Duration("timeout"),
	}), nil
}

func newGenerator(c *cli.Context) *samples.Generator {
	return samples.NewGenerator(gofakeit.New(c.Uint64("seed")))
}

// =============================================================================
// PREDICT COMMAND
// =============================================================================

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Score one transaction",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "sample",
				Usage: "Send the built-in sample transaction",
			},
			&cli.BoolFlag{
				Name:  "random",
				Usage: "Send a randomly generated transaction",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to a JSON prediction request",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Seed for --random (0 picks one)",
			},
		},
		Action: runPredict,
	}
}

func runPredict(c *cli.Context) error {
	in, err := predictInput(c)
	if err != nil {
		return err
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	result, err := client.Predict(c.Context, in.Request())
	if err != nil {
		return fmt.Errorf("prediction for %s failed: %w", in.TransactionID, err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	writeResults(c.App.Writer, []models.PredictionResult{*result})
	return nil
}

func predictInput(c *cli.Context) (models.TransactionInput, error) {
	chosen := 0
	for _, name := range []string{"sample", "random", "file"} {
		if c.IsSet(name) {
			chosen++
		}
	}
	if chosen != 1 {
		return models.TransactionInput{}, errors.New("pass exactly one of --sample, --random or --file")
	}

	now := time.Now()
	switch {
	case c.Bool("sample"):
		return samples.Fixed(now), nil
	case c.Bool("random"):
		return newGenerator(c).Random(now), nil
	default:
		return readRequestFile(c.String("file"))
	}
}

func readRequestFile(path string) (models.TransactionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.TransactionInput{}, fmt.Errorf("failed to read request file: %w", err)
	}

	var req models.PredictionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.TransactionInput{}, fmt.Errorf("failed to parse request file: %w", err)
	}
	if req.TransactionID == "" {
		req.TransactionID = "CLI-" + uuid.NewString()
	}
	return req.Input(), nil
}

// =============================================================================
// BATCH COMMAND
// =============================================================================

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Score a run of random transactions through the batch endpoint",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   10,
				Usage:   fmt.Sprintf("Number of transactions (1-%d)", models.MaxBatchSize),
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Generator seed (0 picks one)",
			},
			&cli.BoolFlag{
				Name:  "sequential",
				Usage: "Send one /predict call per transaction instead of a single batch",
			},
		},
		Action: runBatch,
	}
}

func runBatch(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return errors.New("--count must be positive")
	}

	client, err := newClient(c)
	if err != nil {
		return err
	}

	if c.Bool("sequential") {
		return runSequential(c, client, count)
	}
	if count > models.MaxBatchSize {
		return fmt.Errorf("--count must be at most %d (use --sequential for more)", models.MaxBatchSize)
	}

	gen := newGenerator(c)
	req := models.BatchPredictionRequest{Transactions: make([]models.PredictionRequest, 0, count)}
	for i := 0; i < count; i++ {
		req.Transactions = append(req.Transactions, batchInput(gen).Request())
	}

	result, err := client.PredictBatch(c.Context, req)
	if err != nil {
		return fmt.Errorf("batch prediction failed: %w", err)
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	writeResults(c.App.Writer, result.Predictions)
	fmt.Fprintf(c.App.Writer, "\n%d processed, %d fraud in %.2f ms\n",
		result.TotalProcessed, result.FraudDetected, result.ProcessingTimeMs)
	return nil
}

func batchInput(gen *samples.Generator) models.TransactionInput {
	in := gen.Random(time.Now())
	in.TransactionID = "BATCH-" + uuid.NewString()
	return in
}

// batchReport is the --json form of a --sequential run.
type batchReport struct {
	Results []models.PredictionResult `json:"results"`
	Failed  []batchFailure            `json:"failed"`
	Fraud   int                       `json:"fraud"`
}

type batchFailure struct {
	TransactionID string `json:"transaction_id"`
	Error         string `json:"error"`
}

func runSequential(c *cli.Context, scorer scoring.Scorer, count int) error {
	report := sequential(c.Context, scorer, newGenerator(c), count)

	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, report); err != nil {
			return err
		}
	} else {
		writeResults(c.App.Writer, report.Results)
		for _, f := range report.Failed {
			fmt.Fprintf(c.App.Writer, "FAILED %s: %s\n", f.TransactionID, f.Error)
		}
		fmt.Fprintf(c.App.Writer, "\n%d scored, %d fraud, %d failed\n",
			len(report.Results), report.Fraud, len(report.Failed))
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d predictions failed", len(report.Failed), count)
	}
	return nil
}

// sequential keeps going after a failure so every transaction gets an outcome.
func sequential(ctx context.Context, scorer scoring.Scorer, gen *samples.Generator, count int) batchReport {
	report := batchReport{
		Results: make([]models.PredictionResult, 0, count),
		Failed:  []batchFailure{},
	}

	for i := 0; i < count; i++ {
		in := batchInput(gen)

		result, err := scorer.Predict(ctx, in.Request())
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", in.TransactionID).Msg("prediction failed")
			report.Failed = append(report.Failed, batchFailure{TransactionID: in.TransactionID, Error: err.Error()})
			continue
		}

		report.Results = append(report.Results, *result)
		if result.IsFraud() {
			report.Fraud++
		}
	}
	return report
}

// =============================================================================
// HEALTH COMMAND
// =============================================================================

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the scoring API is up and has a model loaded",
		Action: runHealth,
	}
}

func runHealth(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}

	status, err := client.Health(c.Context)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if c.Bool("json") {
		if err := writeJSON(c.App.Writer, status); err != nil {
			return err
		}
	} else {
		writeHealth(c.App.Writer, status)
	}

	if !status.Healthy() {
		return fmt.Errorf("scoring API is %s", status.Status)
	}
	return nil
}
