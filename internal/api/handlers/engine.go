// Package handlers exposes the decision engine over HTTP.
// 모든 응답은 JSON, 분석기 실패는 중립 기본값으로 강등되므로
// 정상 흐름에서 5xx가 나가지 않는다.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/argos/backend/internal/calendar"
	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/internal/execution"
	"github.com/wonny/argos/backend/internal/global"
	"github.com/wonny/argos/backend/internal/integrity"
	"github.com/wonny/argos/backend/internal/sentiment"
	"github.com/wonny/argos/backend/internal/validator"
	"github.com/wonny/argos/backend/internal/weights"
	"github.com/wonny/argos/backend/pkg/logger"
)

// EngineHandler wires every analyzer behind the read/validate API
type EngineHandler struct {
	Meter     *sentiment.Meter
	Macro     *calendar.MacroFetcher
	Passive   *calendar.PassiveTracker
	Sectors   *calendar.SectorMonitor
	Global    *global.Fetcher
	Coupling  *global.Analyzer
	Weights   *weights.Optimizer
	Validator *validator.Validator
	Integrity *integrity.Manager
	Simulator *execution.Simulator

	Logger *logger.Logger
}

// GetSentiment handles GET /api/sentiment[?force=true]
func (h *EngineHandler) GetSentiment(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	writeJSON(w, http.StatusOK, h.Meter.Analyze(r.Context(), force))
}

// GetCalendar handles GET /api/calendar[?days_ahead=N]
func (h *EngineHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	daysAhead := 14
	if v := r.URL.Query().Get("days_ahead"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			daysAhead = n
		}
	}
	writeJSON(w, http.StatusOK, h.Macro.Analyze(daysAhead))
}

// GetPassiveFlow handles GET /api/passive[?code=XXXXXX]
func (h *EngineHandler) GetPassiveFlow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Passive.Analyze(r.URL.Query().Get("code")))
}

// GetSectors handles GET /api/sectors[?sector=반도체]
func (h *EngineHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Sectors.Analyze(r.URL.Query().Get("sector")))
}

// GetGlobal handles GET /api/global[?force=true]
func (h *EngineHandler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	writeJSON(w, http.StatusOK, h.Global.Fetch(r.Context(), force))
}

// GetCoupling handles GET /api/coupling/{code}[?name=...&sector=...]
func (h *EngineHandler) GetCoupling(w http.ResponseWriter, r *http.Request) {
	ref := global.StockRef{
		Code:   mux.Vars(r)["code"],
		Name:   r.URL.Query().Get("name"),
		Sector: r.URL.Query().Get("sector"),
	}
	writeJSON(w, http.StatusOK, h.Coupling.Analyze(r.Context(), ref))
}

// GetWeights handles GET /api/weights/{regime}
func (h *EngineHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	regime := contracts.ParseRegime(mux.Vars(r)["regime"])
	writeJSON(w, http.StatusOK, h.Weights.GetOptimizedWeights(r.Context(), regime, nil))
}

// GetFutures handles GET /api/futures
func (h *EngineHandler) GetFutures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Integrity.AllFutures(r.Context()))
}

// GetPremarket handles GET /api/premarket
func (h *EngineHandler) GetPremarket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Integrity.PremarketSignal(r.Context()))
}

// GetHealth handles GET /api/health (데이터 상태 포함)
func (h *EngineHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Integrity.CheckDataHealth(r.Context()))
}

// validateRequest is the POST /api/validate body
type validateRequest struct {
	Fusion             *contracts.FusionResult `json:"fusion"`
	AvgTradedValue5D   float64                 `json:"avg_traded_value_5d"`
	DailyVolatilityPct *float64                `json:"daily_volatility_pct,omitempty"`
}

// Validate handles POST /api/validate
func (h *EngineHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Fusion == nil {
		writeError(w, http.StatusBadRequest, "fusion 필드가 필요합니다")
		return
	}

	result := h.Validator.Validate(validator.Input{
		Fusion:             req.Fusion,
		AvgTradedValue5D:   req.AvgTradedValue5D,
		DailyVolatilityPct: req.DailyVolatilityPct,
	})
	writeJSON(w, http.StatusOK, result)
}

// simulateRequest is the POST /api/simulate body
type simulateRequest struct {
	Ticker        string  `json:"ticker"`
	BuyPrice      float64 `json:"buy_price"`
	SellPrice     float64 `json:"sell_price"`
	Quantity      int     `json:"quantity"`
	SlippageTicks int     `json:"slippage_ticks"`
}

// Simulate handles POST /api/simulate (왕복 손익 시뮬레이션)
func (h *EngineHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "잘못된 요청 본문")
		return
	}
	if req.BuyPrice <= 0 || req.SellPrice <= 0 || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "buy_price/sell_price/quantity는 양수여야 합니다")
		return
	}
	if req.SlippageTicks <= 0 {
		req.SlippageTicks = 1
	}

	sim := h.Simulator.SimulateRoundTrip(req.Ticker, req.BuyPrice, req.SellPrice, req.Quantity, req.SlippageTicks)
	writeJSON(w, http.StatusOK, sim)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
