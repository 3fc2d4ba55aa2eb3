package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argos/backend/internal/calendar"
	"github.com/wonny/argos/backend/internal/execution"
	"github.com/wonny/argos/backend/internal/global"
	"github.com/wonny/argos/backend/internal/integrity"
	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/internal/sentiment"
	"github.com/wonny/argos/backend/internal/validator"
	"github.com/wonny/argos/backend/internal/weights"
	"github.com/wonny/argos/backend/pkg/logger"
)

type stubProvider struct{}

func (stubProvider) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	return &marketdata.Quote{Symbol: symbol, Price: 100, ChangePct: 0.2}, nil
}

func (stubProvider) DailyCandles(_ context.Context, _ string, days int) ([]marketdata.Candle, error) {
	candles := make([]marketdata.Candle, days)
	for i := range candles {
		candles[i] = marketdata.Candle{Open: 100, High: 101, Low: 99, Close: 100}
	}
	return candles, nil
}

func (stubProvider) MarketBreadth(context.Context, string) (*marketdata.Breadth, error) {
	return nil, errors.New("not served")
}

func newEngine(t *testing.T) *EngineHandler {
	t.Helper()
	log := logger.NewNop()
	defaults := refdata.Defaults()
	provider := stubProvider{}

	fetcher := global.NewFetcher(provider, 5*time.Minute, nil, log)
	return &EngineHandler{
		Meter:     sentiment.NewMeter(provider, 10*time.Minute, log),
		Macro:     calendar.NewMacroFetcher(defaults.Macro, log),
		Passive:   calendar.NewPassiveTracker(defaults.Rebalance, log),
		Sectors:   calendar.NewSectorMonitor(defaults.Sector, log),
		Global:    fetcher,
		Coupling:  global.NewAnalyzer(fetcher, defaults.Coupling, log),
		Weights:   weights.NewOptimizer(provider, nil, log),
		Validator: validator.New(log),
		Integrity: integrity.NewManager(provider, time.Minute, nil, log),
		Simulator: execution.NewSimulator(nil, log),
		Logger:    log,
	}
}

func TestGetWeightsParsesRegime(t *testing.T) {
	h := newEngine(t)

	req := httptest.NewRequest("GET", "/api/weights/BULL", nil)
	req = mux.SetURLVars(req, map[string]string{"regime": "BULL"})
	rec := httptest.NewRecorder()

	h.GetWeights(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var adj weights.Adjustment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adj))
	assert.Equal(t, "BULL", string(adj.Regime))

	var sum float64
	for _, w := range adj.AdjustedWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestValidateEndpoint(t *testing.T) {
	h := newEngine(t)

	body := map[string]interface{}{
		"fusion": map[string]interface{}{
			"code":         "005930",
			"signal":       "buy",
			"trading_halt": true,
			"halt_reason":  "거래정지",
		},
		"avg_traded_value_5d": 50_000_000_000,
	}
	raw, _ := json.Marshal(body)

	rec := httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest("POST", "/api/validate", bytes.NewReader(raw)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result validator.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, validator.DecisionForceSell, result.Decision)
}

func TestValidateRejectsMissingFusion(t *testing.T) {
	h := newEngine(t)

	rec := httptest.NewRecorder()
	h.Validate(rec, httptest.NewRequest("POST", "/api/validate", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateEndpoint(t *testing.T) {
	h := newEngine(t)

	raw, _ := json.Marshal(simulateRequest{
		Ticker: "005930", BuyPrice: 55_000, SellPrice: 56_000, Quantity: 100,
	})
	rec := httptest.NewRecorder()
	h.Simulate(rec, httptest.NewRequest("POST", "/api/simulate", bytes.NewReader(raw)))
	require.Equal(t, http.StatusOK, rec.Code)

	var sim execution.PnLSimulation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sim))
	assert.Equal(t, 100_000.0, sim.GrossProfit)
	assert.Less(t, sim.NetProfit, sim.GrossProfit)
}

func TestSimulateRejectsBadPrices(t *testing.T) {
	h := newEngine(t)

	raw, _ := json.Marshal(simulateRequest{Ticker: "005930", BuyPrice: -1, SellPrice: 100, Quantity: 1})
	rec := httptest.NewRecorder()
	h.Simulate(rec, httptest.NewRequest("POST", "/api/simulate", bytes.NewReader(raw)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCalendarNeverErrors(t *testing.T) {
	h := newEngine(t)

	for _, q := range []string{"", "?days_ahead=0", "?days_ahead=365", "?days_ahead=abc"} {
		rec := httptest.NewRecorder()
		h.GetCalendar(rec, httptest.NewRequest("GET", "/api/calendar"+q, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "query=%q", q)
	}
}
