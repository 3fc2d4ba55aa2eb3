package integrity

import (
	"context"
	"time"

	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/pkg/cache"
	"github.com/wonny/argos/backend/pkg/logger"
)

// Freshness grades how stale a futures snapshot is
type Freshness string

const (
	FreshnessLive    Freshness = "live"    // 캐시 TTL 이내
	FreshnessStale   Freshness = "stale"   // TTL 초과, 직전 값 재사용
	FreshnessMissing Freshness = "missing" // 조회 실패, 데이터 없음
)

// GlobexData is one futures quote snapshot
type GlobexData struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_pct"`
	Volume    int64     `json:"volume"`
	Freshness Freshness `json:"freshness"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PremarketSignal maps overnight NQ movement to an opening stance
type PremarketSignal struct {
	Label          string  `json:"label"`
	NQChangePct    float64 `json:"nq_change_pct"`
	WeightMultiplier float64 `json:"weight_multiplier"`
	Recommendation string  `json:"recommendation"`
}

// SymbolHealth is one symbol's entry in the health report
type SymbolHealth struct {
	Symbol    string    `json:"symbol"`
	Freshness Freshness `json:"freshness"`
	AgeSec    float64   `json:"age_sec"`
}

// DataHealthReport summarizes futures data availability
type DataHealthReport struct {
	Healthy   bool           `json:"healthy"`
	Symbols   []SymbolHealth `json:"symbols"`
	CheckedAt time.Time      `json:"checked_at"`
}

// 장 시간대 (KST)
const (
	preMarketStartHour = 8  // 08:00
	marketOpenHour     = 9  // 09:00
	marketCloseHour    = 15 // 15:30
	marketCloseMinute  = 30
	afterHoursStart    = 15 * 60 + 40 // 15:40, 분 단위
	afterHoursEnd      = 18 * 60      // 18:00
)

var futuresSymbols = []string{
	marketdata.SymbolNasdaqFutures,
	marketdata.SymbolSP500Futures,
	marketdata.SymbolDowFutures,
}

// Manager guards the engine against stale or missing futures data
// ⭐ SSOT: 야간선물 시세와 장 시간 판정은 여기서만
type Manager struct {
	provider marketdata.Provider
	cache    *cache.Cache[*GlobexData]
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewManager creates a data integrity manager. ttl 기본 60초.
func NewManager(provider marketdata.Provider, ttl time.Duration, loc *time.Location, log *logger.Logger) *Manager {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if loc == nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &Manager{
		provider: provider,
		cache:    cache.New[*GlobexData](ttl),
		logger:   log.WithField("component", "integrity"),
		loc:      loc,
		now:      time.Now,
	}
}

// NQFutures returns the 나스닥 선물 snapshot (60초 캐시)
func (m *Manager) NQFutures(ctx context.Context) *GlobexData {
	return m.futures(ctx, marketdata.SymbolNasdaqFutures)
}

// ESFutures returns the S&P500 선물 snapshot
func (m *Manager) ESFutures(ctx context.Context) *GlobexData {
	return m.futures(ctx, marketdata.SymbolSP500Futures)
}

// AllFutures returns every tracked futures symbol
func (m *Manager) AllFutures(ctx context.Context) map[string]*GlobexData {
	out := make(map[string]*GlobexData, len(futuresSymbols))
	for _, symbol := range futuresSymbols {
		out[symbol] = m.futures(ctx, symbol)
	}
	return out
}

func (m *Manager) futures(ctx context.Context, symbol string) *GlobexData {
	data, err := m.cache.GetOrRefresh(ctx, symbol, func(ctx context.Context) (*GlobexData, error) {
		q, err := m.provider.Quote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return &GlobexData{
			Symbol:    symbol,
			Price:     q.Price,
			Change:    q.Change,
			ChangePct: q.ChangePct,
			Volume:    q.Volume,
			Freshness: FreshnessLive,
			FetchedAt: m.now(),
		}, nil
	})
	if err != nil || data == nil {
		m.logger.WithError(err).WithField("symbol", symbol).Warn("Futures fetch failed")
		return &GlobexData{Symbol: symbol, Freshness: FreshnessMissing, FetchedAt: m.now()}
	}
	return data
}

// PremarketSignalFrom maps NQ change% to one of 5 opening stances.
// nq가 missing이면 중립으로 처리한다.
func (m *Manager) PremarketSignalFrom(nq *GlobexData) PremarketSignal {
	pct := 0.0
	if nq != nil && nq.Freshness != FreshnessMissing {
		pct = nq.ChangePct
	}

	var label, recommendation string
	var multiplier float64
	switch {
	case pct > 1.5:
		label, multiplier = "strong_bullish", 1.2
		recommendation = "나스닥 선물 급등. 갭상승 출발 가능성, 시초가 추격매수는 자제"
	case pct > 0.5:
		label, multiplier = "bullish", 1.1
		recommendation = "나스닥 선물 상승. 매수 우위로 접근"
	case pct >= -0.5:
		label, multiplier = "neutral", 1.0
		recommendation = "나스닥 선물 보합. 평소 전략 유지"
	case pct >= -1.5:
		label, multiplier = "bearish", 0.9
		recommendation = "나스닥 선물 하락. 신규 매수 비중 축소"
	default:
		label, multiplier = "strong_bearish", 0.8
		recommendation = "나스닥 선물 급락. 갭하락 경계, 현금 비중 확대"
	}

	return PremarketSignal{
		Label:            label,
		NQChangePct:      pct,
		WeightMultiplier: multiplier,
		Recommendation:   recommendation,
	}
}

// PremarketSignal fetches NQ and derives the opening stance in one call
func (m *Manager) PremarketSignal(ctx context.Context) PremarketSignal {
	return m.PremarketSignalFrom(m.NQFutures(ctx))
}

// CheckDataHealth reports per-symbol futures freshness
func (m *Manager) CheckDataHealth(ctx context.Context) DataHealthReport {
	report := DataHealthReport{Healthy: true, CheckedAt: m.now()}
	for _, symbol := range futuresSymbols {
		data := m.futures(ctx, symbol)
		h := SymbolHealth{Symbol: symbol, Freshness: data.Freshness}
		if !data.FetchedAt.IsZero() {
			h.AgeSec = m.now().Sub(data.FetchedAt).Seconds()
		}
		if data.Freshness == FreshnessMissing {
			report.Healthy = false
		}
		report.Symbols = append(report.Symbols, h)
	}
	return report
}

// IsPremarketTime: 08:00–09:00 KST
func (m *Manager) IsPremarketTime() bool {
	t := m.now().In(m.loc)
	return t.Hour() >= preMarketStartHour && t.Hour() < marketOpenHour
}

// IsMarketOpen: 09:00–15:30 KST
func (m *Manager) IsMarketOpen() bool {
	t := m.now().In(m.loc)
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= marketOpenHour*60 && minutes < marketCloseHour*60+marketCloseMinute
}

// IsAfterHours: 15:40–18:00 KST (시간외 단일가)
func (m *Manager) IsAfterHours() bool {
	t := m.now().In(m.loc)
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= afterHoursStart && minutes < afterHoursEnd
}

// SetClock overrides the time source (tests only)
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
	m.cache.SetClock(now)
}
