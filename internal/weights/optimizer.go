package weights

import (
	"context"
	"math"
	"time"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// MarketVolatility buckets the current market into 4 levels
type MarketVolatility string

const (
	VolatilityLow     MarketVolatility = "low"
	VolatilityMedium  MarketVolatility = "medium"
	VolatilityHigh    MarketVolatility = "high"
	VolatilityExtreme MarketVolatility = "extreme"
)

// Confidence returns how much the adjusted weights can be trusted
func (v MarketVolatility) Confidence() float64 {
	switch v {
	case VolatilityLow:
		return 0.9
	case VolatilityMedium:
		return 0.8
	case VolatilityHigh:
		return 0.65
	default:
		return 0.5
	}
}

// Adjustment is one weight-optimization outcome.
// AdjustedWeights는 항상 합계 1.0 (±1e-9)
type Adjustment struct {
	Regime      contracts.MarketRegime `json:"regime"`
	Volatility  MarketVolatility       `json:"volatility"`
	Vol30D      float64                `json:"vol_30d"`       // 연환산 변동성 ×100
	Range5D     float64                `json:"range_5d"`      // 5일 고저폭 / 평균종가 ×100
	BaseWeights map[string]float64     `json:"base_weights"`
	AdjustedWeights map[string]float64 `json:"adjusted_weights"`
	Confidence  float64                `json:"confidence"`
	ComputedAt  time.Time              `json:"computed_at"`
}

// 레짐별 기본 가중치. 각 맵의 합은 반드시 1.0
// ⭐ SSOT: 카테고리 키는 contracts의 상수만 사용
var baseWeights = map[contracts.MarketRegime]map[string]float64{
	contracts.RegimeBull: {
		contracts.CategoryTechnical:     0.25,
		contracts.CategoryFundamental:   0.15,
		contracts.CategorySupplyDemand:  0.20,
		contracts.CategoryNews:          0.10,
		contracts.CategoryAnalyst:       0.10,
		contracts.CategoryMacro:         0.10,
		contracts.CategoryMarketContext: 0.10,
	},
	contracts.RegimeBear: {
		contracts.CategoryTechnical:     0.15,
		contracts.CategoryFundamental:   0.25,
		contracts.CategorySupplyDemand:  0.15,
		contracts.CategoryNews:          0.10,
		contracts.CategoryAnalyst:       0.10,
		contracts.CategoryMacro:         0.15,
		contracts.CategoryMarketContext: 0.10,
	},
	contracts.RegimeSideway: {
		contracts.CategoryTechnical:     0.20,
		contracts.CategoryFundamental:   0.20,
		contracts.CategorySupplyDemand:  0.20,
		contracts.CategoryNews:          0.10,
		contracts.CategoryAnalyst:       0.10,
		contracts.CategoryMacro:         0.10,
		contracts.CategoryMarketContext: 0.10,
	},
}

// 변동성 구간별 카테고리 배율. 명시 안 된 카테고리는 ×1.0
var volatilityMultipliers = map[MarketVolatility]map[string]float64{
	VolatilityLow: {
		contracts.CategoryTechnical: 1.1,
		contracts.CategoryNews:      0.9,
	},
	VolatilityMedium: {},
	VolatilityHigh: {
		contracts.CategoryTechnical:     0.9,
		contracts.CategoryNews:          1.1,
		contracts.CategoryMacro:         1.2,
		contracts.CategoryMarketContext: 1.2,
	},
	VolatilityExtreme: {
		contracts.CategoryTechnical:     0.7,
		contracts.CategoryFundamental:   1.2,
		contracts.CategoryNews:          1.2,
		contracts.CategoryMacro:         1.4,
		contracts.CategoryMarketContext: 1.5,
	},
}

// Optimizer derives regime+volatility adjusted fusion weights
// ⭐ SSOT: 융합 가중치는 반드시 여기서 받아서 사용
type Optimizer struct {
	provider marketdata.Provider
	history  *History
	logger   *logger.Logger
	now      func() time.Time
}

// NewOptimizer creates a dynamic weight optimizer.
// history가 nil이면 성과 기록 없이 가중치 계산만 수행한다.
func NewOptimizer(provider marketdata.Provider, history *History, log *logger.Logger) *Optimizer {
	return &Optimizer{
		provider: provider,
		history:  history,
		logger:   log.WithField("component", "weights.optimizer"),
		now:      time.Now,
	}
}

// GetOptimizedWeights returns the adjusted weight map for a regime.
// candles가 nil이면 KOSPI 일봉을 직접 조회한다(최신순).
// 조회 실패 시 medium 변동성으로 강등하고 계속 진행.
func (o *Optimizer) GetOptimizedWeights(ctx context.Context, regime contracts.MarketRegime, candles []marketdata.Candle) *Adjustment {
	base, ok := baseWeights[regime]
	if !ok {
		// 알 수 없는 레짐은 SIDEWAY로 폴백 (에러 아님)
		o.logger.WithField("regime", string(regime)).Warn("Unknown regime, falling back to SIDEWAY")
		regime = contracts.RegimeSideway
		base = baseWeights[regime]
	}

	if candles == nil && o.provider != nil {
		fetched, err := o.provider.DailyCandles(ctx, marketdata.SymbolKOSPI, 30)
		if err != nil {
			o.logger.WithError(err).Warn("Candle fetch failed, assuming medium volatility")
		} else {
			candles = fetched
		}
	}

	vol30, range5 := MeasureVolatility(candles)
	bucket := classifyVolatility(vol30, range5, len(candles))

	adjusted := make(map[string]float64, len(base))
	multipliers := volatilityMultipliers[bucket]
	var sum float64
	for cat, w := range base {
		m, ok := multipliers[cat]
		if !ok {
			m = 1.0
		}
		adjusted[cat] = w * m
		sum += adjusted[cat]
	}
	// 합계 1.0으로 재정규화
	for cat := range adjusted {
		adjusted[cat] /= sum
	}

	adj := &Adjustment{
		Regime:          regime,
		Volatility:      bucket,
		Vol30D:          vol30,
		Range5D:         range5,
		BaseWeights:     copyWeights(base),
		AdjustedWeights: adjusted,
		Confidence:      bucket.Confidence(),
		ComputedAt:      o.now(),
	}

	o.logger.WithFields(map[string]interface{}{
		"regime":     regime,
		"volatility": bucket,
		"vol_30d":    vol30,
		"confidence": adj.Confidence,
	}).Debug("Weights optimized")

	return adj
}

// RecordPerformance appends one trade outcome to the history.
// 기록은 리포팅용이며 가중치 선택에는 자동 반영하지 않는다.
func (o *Optimizer) RecordPerformance(rec PerformanceRecord) {
	if o.history == nil {
		return
	}
	o.history.Append(rec)
}

// PerformanceStats summarizes recorded outcomes per regime
func (o *Optimizer) PerformanceStats(regime contracts.MarketRegime) Stats {
	if o.history == nil {
		return Stats{}
	}
	return o.history.Stats(regime)
}

// MeasureVolatility computes (30일 연환산 변동성×100, 5일 고저폭 비율×100)
// from newest-first daily candles. 데이터 부족 시 0을 반환.
func MeasureVolatility(candles []marketdata.Candle) (vol30 float64, range5 float64) {
	if len(candles) >= 2 {
		n := len(candles)
		if n > 30 {
			n = 30
		}
		returns := make([]float64, 0, n-1)
		for i := 0; i < n-1; i++ {
			prev := candles[i+1].Close
			if prev > 0 {
				returns = append(returns, (candles[i].Close-prev)/prev)
			}
		}
		vol30 = stddev(returns) * math.Sqrt(252) * 100
	}

	if len(candles) >= 5 {
		high := candles[0].High
		low := candles[0].Low
		var closeSum float64
		for i := 0; i < 5; i++ {
			if candles[i].High > high {
				high = candles[i].High
			}
			if candles[i].Low < low {
				low = candles[i].Low
			}
			closeSum += candles[i].Close
		}
		mean := closeSum / 5
		if mean > 0 {
			range5 = (high - low) / mean * 100
		}
	}

	return vol30, range5
}

// classifyVolatility: 연변동성과 5일 폭 중 더 위험한 쪽을 따른다
func classifyVolatility(vol30, range5 float64, sampleSize int) MarketVolatility {
	if sampleSize < 5 {
		// 데이터가 모자라면 판단 보류
		return VolatilityMedium
	}
	switch {
	case vol30 >= 40 || range5 >= 8:
		return VolatilityExtreme
	case vol30 >= 25 || range5 >= 5:
		return VolatilityHigh
	case vol30 < 15 && range5 < 3:
		return VolatilityLow
	default:
		return VolatilityMedium
	}
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func copyWeights(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// SetClock overrides the time source (tests only)
func (o *Optimizer) SetClock(now func() time.Time) {
	o.now = now
}
