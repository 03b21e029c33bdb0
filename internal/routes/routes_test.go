package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"fraudconsole/internal/cache"
	"fraudconsole/internal/console"
	"fraudconsole/internal/metrics"
	"fraudconsole/internal/middleware"
	"fraudconsole/internal/models"
	"fraudconsole/internal/samples"
	"fraudconsole/internal/scoring"
	"fraudconsole/internal/services/health"
	"fraudconsole/internal/services/prediction"
	"fraudconsole/internal/view"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fraudBody = `{
	"transaction_id": "TXN-2024-001",
	"prediction": 1,
	"fraud_probability": 0.8765,
	"risk_level": "HIGH",
	"anomaly_score": -0.1234,
	"threshold": 0.1284,
	"model_version": "1.0.0",
	"timestamp": "2024-11-10T10:30:00"
}`

const healthBody = `{"status":"healthy","version":"1.0.0","model_loaded":true,"model_type":"IsolationForest"}`

// fakeScoring is a stand-in scoring API whose predict reply can be swapped.
type fakeScoring struct {
	mu       sync.Mutex
	status   int
	body     string
	apiKeys  []string
	payloads []map[string]interface{}
}

func (f *fakeScoring) reply(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeScoring) calls() ([]string, []map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.apiKeys...), append([]map[string]interface{}(nil), f.payloads...)
}

func (f *fakeScoring) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		_, _ = w.Write([]byte(healthBody))
	case "/api/v1/predict":
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		_ = json.Unmarshal(raw, &payload)

		f.mu.Lock()
		f.apiKeys = append(f.apiKeys, r.Header.Get(scoring.APIKeyHeader))
		f.payloads = append(f.payloads, payload)
		status, body := f.status, f.body
		f.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	app     *fiber.App
	scoring *fakeScoring
	store   *console.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLimit(t, 1000)
}

func newTestEnvWithLimit(t *testing.T, perMinute int) *testEnv {
	t.Helper()

	fake := &fakeScoring{status: http.StatusOK, body: fraudBody}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := scoring.NewClient(scoring.Options{
		BaseURL:   srv.URL + "/api/v1",
		APIKey:    "test-key",
		HealthURL: srv.URL + "/health",
	})

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	store := console.NewStore(time.Hour)

	app := fiber.New()
	SetupRoutes(app, Deps{
		Predictions:        prediction.NewService(client, metrics.NewPrometheus(reg)),
		Health:             health.NewService(client, cache.NewMemoryCache(), srv.URL, time.Minute),
		Store:              store,
		Sessions:           middleware.NewSessionMiddleware(store, []byte("test-secret"), time.Hour, false),
		Renderer:           renderer,
		Generator:          samples.NewGenerator(gofakeit.New(7)),
		Gatherer:           reg,
		RateLimitPerMinute: perMinute,
	})

	return &testEnv{app: app, scoring: fake, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middleware.SessionCookie)
	return nil
}

func (e *testEnv) open(t *testing.T) *http.Cookie {
	t.Helper()
	resp, _ := e.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return sessionCookie(t, resp)
}

func sampleForm() url.Values {
	in := samples.Fixed(time.UnixMilli(1700000000000))
	form := view.FormFromInput(in)

	values := url.Values{}
	values.Set("transaction_id", form.TransactionID)
	values.Set("amount", form.Amount)
	values.Set("time", form.Time)
	for i, v := range form.Features {
		values.Set(models.FeatureName(i), v)
	}
	return values
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (e *testEnv) history(t *testing.T, cookie *http.Cookie) []models.PredictionResult {
	t.Helper()
	resp, body := e.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		History []models.PredictionResult `json:"history"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out.History
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, models.FeatureCount, strings.Count(body, `class="pca-input"`))
	assert.Contains(t, body, "No predictions yet")
	assert.Contains(t, body, "Scoring API: healthy (v1.0.0)")

	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)
}

func TestSample(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.open(t)

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/sample", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="-1.3598071336738"`)
	assert.Contains(t, body, `value="149.62"`)
	assert.Contains(t, body, `value="SAMPLE-`)
	_, payloads := env.scoring.calls()
	assert.Empty(t, payloads)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/sample/random", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="RAND-`)
	assert.Empty(t, env.history(t, cookie))
}

func TestSubmit_Success(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.open(t)

	resp, body := env.do(t, postForm(sampleForm()), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "FRAUD DETECTED")
	assert.Contains(t, body, "87.65%")
	assert.Contains(t, body, ">FRAUD<")
	assert.Contains(t, body, `value="-1.3598071336738"`)

	keys, payloads := env.scoring.calls()
	require.Len(t, payloads, 1)
	assert.Equal(t, "test-key", keys[0])
	payload := payloads[0]
	txn := payload["transaction"].(map[string]interface{})
	assert.Equal(t, -1.3598071336738, txn["V1"])
	assert.Equal(t, 149.62, txn["Amount"])

	history := env.history(t, cookie)
	require.Len(t, history, 1)
	assert.Equal(t, "TXN-2024-001", history[0].TransactionID)
}

func TestSubmit_UnparseableFieldIsSentAsNull(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.open(t)

	values := sampleForm()
	values.Set("V2", "")
	values.Set("amount", "abc")

	resp, _ := env.do(t, postForm(values), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, payloads := env.scoring.calls()
	require.Len(t, payloads, 1)
	txn := payloads[0]["transaction"].(map[string]interface{})
	assert.Contains(t, txn, "V2")
	assert.Nil(t, txn["V2"])
	assert.Nil(t, txn["Amount"])
}

func TestSubmit_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, message: "HTTP error! status: 500"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: ``, message: "HTTP error! status: 401"},
		{name: "malformed", status: http.StatusOK, body: `{"prediction": 3}`, message: "malformed response"},
		{name: "not json", status: http.StatusOK, body: `<html>`, message: "malformed response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			cookie := env.open(t)

			// One good result first, so we can see history is left alone.
			env.do(t, postForm(sampleForm()), cookie)
			before := env.history(t, cookie)
			require.Len(t, before, 1)

			env.scoring.reply(tt.status, tt.body)
			resp, body := env.do(t, postForm(sampleForm()), cookie)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "<strong>Error:</strong> "+tt.message)
			assert.Contains(t, body, "Please check your input and try again")
			assert.NotContains(t, body, "FRAUD DETECTED")

			assert.Equal(t, before, env.history(t, cookie))
		})
	}
}

func TestPanel(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.open(t)

	_, body := env.do(t, httptest.NewRequest(http.MethodGet, "/panel", nil), cookie)
	assert.NotContains(t, body, "<html")
	assert.NotContains(t, body, "FRAUD DETECTED")

	env.do(t, postForm(sampleForm()), cookie)
	_, body = env.do(t, httptest.NewRequest(http.MethodGet, "/panel", nil), cookie)
	assert.Contains(t, body, "FRAUD DETECTED")
}

func TestSessions(t *testing.T) {
	t.Run("reload starts over", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.open(t)
		env.do(t, postForm(sampleForm()), cookie)
		require.Len(t, env.history(t, cookie), 1)

		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
		assert.Contains(t, body, "No predictions yet")
		assert.Empty(t, env.history(t, sessionCookie(t, resp)))
	})

	t.Run("tampered cookie", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.open(t)
		env.do(t, postForm(sampleForm()), cookie)
		require.Len(t, env.history(t, cookie), 1)

		forged := &http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"}
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil), forged)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"history":[]}`, body)

		fresh := sessionCookie(t, resp)
		assert.NotEqual(t, cookie.Value, fresh.Value)
		assert.Equal(t, 2, env.store.Len())
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.open(t)
		b := env.open(t)
		env.do(t, postForm(sampleForm()), a)

		assert.Len(t, env.history(t, a), 1)
		assert.Empty(t, env.history(t, b))
	})
}

func TestAPIPredict(t *testing.T) {
	payload, err := json.Marshal(samples.Fixed(time.UnixMilli(1)).Request())
	require.NoError(t, err)

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.open(t)

		resp, body := env.do(t, post(string(payload)), cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.PredictionResult
		require.NoError(t, json.Unmarshal([]byte(body), &result))
		assert.True(t, result.IsFraud())
		assert.Len(t, env.history(t, cookie), 1)
	})

	t.Run("upstream errors", func(t *testing.T) {
		tests := []struct {
			status int
			body   string
			code   string
		}{
			{http.StatusInternalServerError, `{}`, "SCORING_REJECTED"},
			{http.StatusOK, `{"prediction": 1}`, "MALFORMED_RESPONSE"},
		}
		for _, tt := range tests {
			t.Run(tt.code, func(t *testing.T) {
				env := newTestEnv(t)
				cookie := env.open(t)
				env.scoring.reply(tt.status, tt.body)

				resp, body := env.do(t, post(string(payload)), cookie)
				require.Equal(t, http.StatusBadGateway, resp.StatusCode)

				var out map[string]string
				require.NoError(t, json.Unmarshal([]byte(body), &out))
				assert.Equal(t, tt.code, out["code"])
				assert.NotEmpty(t, out["error"])
				assert.Empty(t, env.history(t, cookie))
			})
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		env := newTestEnv(t)
		cookie := env.open(t)

		resp, body := env.do(t, post(`{"transaction_id":"x","transaction":{"Time":1}}`), cookie)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "INVALID_PAYLOAD")
		_, payloads := env.scoring.calls()
	assert.Empty(t, payloads)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.open(t)
	env.do(t, postForm(sampleForm()), cookie)

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string                            `json:"status"`
		Sessions int                               `json:"sessions"`
		Services map[string]map[string]interface{} `json:"services"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)
	assert.Equal(t, "healthy", health.Services["scoring"]["status"])
	assert.Equal(t, "memory", health.Services["cache"]["backend"])

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `fraudconsole_submissions_total{outcome="success"} 1`)
	assert.Contains(t, body, `fraudconsole_predictions_total{label="fraud"} 1`)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnvWithLimit(t, 1)
	cookie := env.open(t)

	resp, _ := env.do(t, postForm(sampleForm()), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, postForm(sampleForm()), cookie)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, body)

	_, payloads := env.scoring.calls()
	assert.Len(t, payloads, 1)
}
