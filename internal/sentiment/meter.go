package sentiment

import (
	"context"
	"time"

	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/pkg/cache"
	"github.com/wonny/argos/backend/pkg/logger"
)

// Indicator blend weights (VIX / RSI / 신용잔고 / ADR)
const (
	weightVIX    = 0.35
	weightRSI    = 0.25
	weightCredit = 0.20
	weightADR    = 0.20
)

const cacheKey = "market"

// Meter derives the 0-100 fear/greed score and market condition
// ⭐ SSOT: 시장 심리 측정은 여기서만
type Meter struct {
	provider marketdata.Provider
	cache    *cache.Cache[*Result]
	logger   *logger.Logger
	now      func() time.Time
}

// NewMeter creates a sentiment meter with the given cache TTL
func NewMeter(provider marketdata.Provider, ttl time.Duration, log *logger.Logger) *Meter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Meter{
		provider: provider,
		cache:    cache.New[*Result](ttl),
		logger:   log.WithField("component", "sentiment"),
		now:      time.Now,
	}
}

// Analyze measures market sentiment, serving from cache within the TTL.
// 지표 수집 실패는 중립 기본값으로 대체되므로 실패하지 않는다.
func (m *Meter) Analyze(ctx context.Context, forceRefresh bool) *Result {
	if forceRefresh {
		m.cache.Invalidate(cacheKey)
	}

	result, _ := m.cache.GetOrRefresh(ctx, cacheKey, func(ctx context.Context) (*Result, error) {
		return m.measure(ctx), nil
	})

	return result
}

// measure collects the four indicators and derives the score
func (m *Meter) measure(ctx context.Context) *Result {
	r := &Result{
		VIX:                 m.fetchVIX(ctx),
		MarketRSI:           m.fetchMarketRSI(ctx),
		CreditRatio:         m.estimateCreditRatio(ctx),
		AdvanceDeclineRatio: m.fetchADR(ctx),
		AnalyzedAt:          m.now(),
	}

	r.Score = weightVIX*vixSubScore(r.VIX) +
		weightRSI*rsiSubScore(r.MarketRSI) +
		weightCredit*creditSubScore(r.CreditRatio) +
		weightADR*adrSubScore(r.AdvanceDeclineRatio)

	r.Condition = classify(r.VIX, r.MarketRSI, r.CreditRatio, r.Score)
	r.PositionMultiplier = r.Condition.PositionMultiplier()
	r.Warning = warningFor(r.Condition)

	m.logger.WithFields(map[string]interface{}{
		"vix":       r.VIX,
		"rsi":       r.MarketRSI,
		"credit":    r.CreditRatio,
		"adr":       r.AdvanceDeclineRatio,
		"score":     r.Score,
		"condition": r.Condition,
	}).Info("Market sentiment measured")

	return r
}

// fetchVIX returns the current VIX level, defaulting on failure
func (m *Meter) fetchVIX(ctx context.Context) float64 {
	q, err := m.provider.Quote(ctx, marketdata.SymbolVIX)
	if err != nil || q.Price <= 0 {
		m.logger.WithError(err).Warn("VIX fetch failed, using neutral default")
		return defaultVIX
	}
	return q.Price
}

// fetchMarketRSI computes the 14-period RSI of KOSPI over 60 days
func (m *Meter) fetchMarketRSI(ctx context.Context) float64 {
	candles, err := m.provider.DailyCandles(ctx, marketdata.SymbolKOSPI, 60)
	if err != nil || len(candles) < 15 {
		m.logger.WithError(err).Warn("KOSPI candles fetch failed, using neutral RSI")
		return defaultRSI
	}
	return calculateRSI(candles, 14)
}

// estimateCreditRatio estimates the credit-balance ratio from the
// 30-day index return. 신용잔고 실시간 피드가 없어 지수 수익률로 근사:
// 상승장일수록 신용이 불어난다는 경험칙.
func (m *Meter) estimateCreditRatio(ctx context.Context) float64 {
	candles, err := m.provider.DailyCandles(ctx, marketdata.SymbolKOSPI, 31)
	if err != nil || len(candles) < 2 {
		m.logger.WithError(err).Warn("Credit ratio estimate failed, using neutral default")
		return defaultCreditRatio
	}

	oldest := candles[len(candles)-1].Close
	latest := candles[0].Close
	if oldest <= 0 {
		return defaultCreditRatio
	}

	ret30Pct := (latest - oldest) / oldest * 100

	est := defaultCreditRatio + ret30Pct*0.15
	if est < 1.0 {
		est = 1.0
	}
	if est > 6.0 {
		est = 6.0
	}
	return est
}

// fetchADR returns the same-day advance/decline ratio
func (m *Meter) fetchADR(ctx context.Context) float64 {
	b, err := m.provider.MarketBreadth(ctx, marketdata.SymbolKOSPI)
	if err != nil {
		m.logger.WithError(err).Warn("Market breadth fetch failed, using neutral ADR")
		return defaultADR
	}
	return b.Ratio()
}

// calculateRSI computes RSI over `period` using newest-first candles
func calculateRSI(candles []marketdata.Candle, period int) float64 {
	if len(candles) < period+1 {
		return defaultRSI
	}

	var gains, losses float64
	for i := 0; i < period; i++ {
		change := candles[i].Close - candles[i+1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100.0
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}

// Sub-score mappings: each indicator maps to 10(공포)~90(탐욕)

func vixSubScore(vix float64) float64 {
	switch {
	case vix < 13:
		return 90
	case vix < 17:
		return 70
	case vix < 22:
		return 50
	case vix < 28:
		return 30
	default:
		return 10
	}
}

func rsiSubScore(rsi float64) float64 {
	switch {
	case rsi > 70:
		return 90
	case rsi > 60:
		return 70
	case rsi >= 40:
		return 50
	case rsi >= 30:
		return 30
	default:
		return 10
	}
}

func creditSubScore(ratio float64) float64 {
	switch {
	case ratio > 4.5:
		return 90
	case ratio > 3.5:
		return 70
	case ratio > 2.5:
		return 50
	case ratio > 2.0:
		return 30
	default:
		return 10
	}
}

func adrSubScore(adr float64) float64 {
	switch {
	case adr > 1.5:
		return 90
	case adr > 1.1:
		return 70
	case adr >= 0.9:
		return 50
	case adr >= 0.6:
		return 30
	default:
		return 10
	}
}

// classify picks the market condition by a fixed priority cascade.
// 순서가 의미를 가진다: VIX 극단이 항상 우선.
func classify(vix, rsi, credit, score float64) MarketCondition {
	switch {
	case vix >= 40:
		return ConditionPanic
	case vix >= 30 && score < 40:
		return ConditionFear
	case vix < 15 && rsi > 70 && credit > 4.0:
		return ConditionEuphoria
	case rsi > 70 && credit > 4.0:
		return ConditionOverheated
	case rsi < 30 && vix >= 25:
		return ConditionFear
	}

	switch {
	case score >= 85:
		return ConditionEuphoria
	case score >= 70:
		return ConditionOverheated
	case score >= 60:
		return ConditionOptimism
	case score >= 40:
		return ConditionNeutral
	case score >= 30:
		return ConditionAnxiety
	case score >= 20:
		return ConditionFear
	default:
		return ConditionPanic
	}
}

func warningFor(c MarketCondition) string {
	switch c {
	case ConditionPanic:
		return "시장 패닉 상태: 신규 진입 금지, 현금 비중 확대 권고"
	case ConditionFear:
		return "공포 구간: 포지션 축소 권고"
	case ConditionEuphoria:
		return "극단적 탐욕: 역발상 관점에서 차익실현 고려"
	case ConditionOverheated:
		return "과열 구간: 추격 매수 자제"
	default:
		return ""
	}
}

// SetClock overrides the time source (tests only)
func (m *Meter) SetClock(now func() time.Time) {
	m.now = now
	m.cache.SetClock(now)
}
