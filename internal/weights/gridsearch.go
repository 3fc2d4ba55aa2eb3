package weights

import (
	"math"
	"sort"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/pkg/logger"
)

// Metric selects what a grid search maximizes
type Metric string

const (
	MetricSharpeRatio  Metric = "sharpe_ratio"
	MetricProfitFactor Metric = "profit_factor"
)

// BacktestResult is one caller-supplied backtest outcome tagged with
// the weight combination that produced it
type BacktestResult struct {
	Weights      map[string]float64 `json:"weights"`
	SharpeRatio  float64            `json:"sharpe_ratio"`
	ProfitFactor float64            `json:"profit_factor"`
	MaxDrawdown  float64            `json:"max_drawdown"` // % (양수)
	TotalReturn  float64            `json:"total_return"`
}

// Value extracts the chosen metric
func (r BacktestResult) Value(metric Metric) float64 {
	if metric == MetricProfitFactor {
		return r.ProfitFactor
	}
	return r.SharpeRatio
}

// GridSearcher enumerates weight grids and picks winners (offline tool)
type GridSearcher struct {
	logger *logger.Logger
}

// NewGridSearcher creates the offline grid-search tool
func NewGridSearcher(log *logger.Logger) *GridSearcher {
	return &GridSearcher{logger: log.WithField("component", "weights.gridsearch")}
}

// Combinations enumerates every weight tuple over the categories whose
// values lie on the step grid and whose sum is 1.0 ± 0.01.
// step이 너무 작으면 조합이 폭발하므로 0.05 미만은 0.05로 올린다.
func (g *GridSearcher) Combinations(categories []string, step float64) []map[string]float64 {
	if len(categories) == 0 {
		return nil
	}
	if step < 0.05 {
		step = 0.05
	}

	steps := int(math.Round(1.0 / step))
	var out []map[string]float64
	current := make([]int, len(categories))

	var walk func(idx, remaining int)
	walk = func(idx, remaining int) {
		if idx == len(categories)-1 {
			// 마지막 카테고리는 잔여분으로 확정
			current[idx] = remaining
			combo := make(map[string]float64, len(categories))
			var sum float64
			for i, cat := range categories {
				w := float64(current[i]) * step
				combo[cat] = w
				sum += w
			}
			if math.Abs(sum-1.0) <= 0.01 {
				out = append(out, combo)
			}
			return
		}
		for n := 0; n <= remaining; n++ {
			current[idx] = n
			walk(idx+1, remaining-n)
		}
	}
	walk(0, steps)

	g.logger.WithFields(map[string]interface{}{
		"categories":   len(categories),
		"step":         step,
		"combinations": len(out),
	}).Debug("Weight grid enumerated")
	return out
}

// OptimizeForRegime picks the backtest result maximizing the metric.
// 결과가 없으면 nil.
func (g *GridSearcher) OptimizeForRegime(regime contracts.MarketRegime, results []BacktestResult, metric Metric) *BacktestResult {
	if len(results) == 0 {
		return nil
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Value(metric) > best.Value(metric) {
			best = r
		}
	}

	g.logger.WithFields(map[string]interface{}{
		"regime": regime,
		"metric": metric,
		"value":  best.Value(metric),
	}).Info("Grid search winner selected")
	return &best
}

// StockResult is one panel entry of a robustness run
type StockResult struct {
	StockCode   string  `json:"stock_code"`
	MarketType  string  `json:"market_type"`
	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"` // % (양수)
}

// RobustnessReport is the outcome of one full panel run
type RobustnessReport struct {
	Passed      bool          `json:"passed"`
	Results     []StockResult `json:"results"`
	WorstDD     float64       `json:"worst_drawdown"`
	FailedCodes []string      `json:"failed_codes"`
}

// BacktestFunc runs one (code, marketType, weights) backtest
type BacktestFunc func(stockCode, marketType string, weights map[string]float64) StockResult

// 고정 테스트 패널: 5종목 × 3개 시장 유형 태그
var robustnessPanel = []struct {
	Code       string
	MarketType string
}{
	{"005930", "BULL"},
	{"000660", "BULL"},
	{"373220", "BEAR"},
	{"035420", "SIDEWAY"},
	{"005380", "SIDEWAY"},
}

const maxDrawdownLimit = 10.0 // % — 한 종목이라도 넘으면 전체 실패

// RobustnessTester validates a weight set across the fixed stock panel
type RobustnessTester struct {
	backtest BacktestFunc
	logger   *logger.Logger
}

// NewRobustnessTester creates the tester.
// backtest가 nil이면 가중치 분산 기반의 보수적 시뮬레이션으로 대체.
func NewRobustnessTester(backtest BacktestFunc, log *logger.Logger) *RobustnessTester {
	return &RobustnessTester{
		backtest: backtest,
		logger:   log.WithField("component", "weights.robustness"),
	}
}

// Run executes the panel and fails the whole test if any stock's
// max drawdown exceeds the limit
func (t *RobustnessTester) Run(weights map[string]float64) RobustnessReport {
	report := RobustnessReport{Passed: true}

	for _, entry := range robustnessPanel {
		var r StockResult
		if t.backtest != nil {
			r = t.backtest(entry.Code, entry.MarketType, weights)
		} else {
			r = simulateResult(entry.Code, entry.MarketType, weights)
		}
		report.Results = append(report.Results, r)

		if r.MaxDrawdown > report.WorstDD {
			report.WorstDD = r.MaxDrawdown
		}
		if r.MaxDrawdown > maxDrawdownLimit {
			report.Passed = false
			report.FailedCodes = append(report.FailedCodes, r.StockCode)
		}
	}
	sort.Strings(report.FailedCodes)

	t.logger.WithFields(map[string]interface{}{
		"passed":   report.Passed,
		"worst_dd": report.WorstDD,
	}).Info("Robustness test finished")
	return report
}

// simulateResult: 실제 백테스트 없이 쓰는 대체 모델.
// 가중치가 한 카테고리에 쏠릴수록 낙폭이 커진다고 가정한다.
func simulateResult(code, marketType string, weights map[string]float64) StockResult {
	var maxW float64
	for _, w := range weights {
		if w > maxW {
			maxW = w
		}
	}

	dd := 4.0 + maxW*12.0
	ret := 6.0 - maxW*4.0
	if marketType == "BEAR" {
		dd += 2.0
		ret -= 3.0
	}

	return StockResult{
		StockCode:   code,
		MarketType:  marketType,
		TotalReturn: ret,
		MaxDrawdown: dd,
	}
}
