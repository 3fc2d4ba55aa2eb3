package global

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/pkg/cache"
	"github.com/wonny/argos/backend/pkg/logger"
)

// MarketSentiment is the 5-level change-percent classification
type MarketSentiment string

const (
	SentimentStrongBullish MarketSentiment = "strong_bullish"
	SentimentBullish       MarketSentiment = "bullish"
	SentimentNeutral       MarketSentiment = "neutral"
	SentimentBearish       MarketSentiment = "bearish"
	SentimentStrongBearish MarketSentiment = "strong_bearish"
)

// MarketSession labels the US session from the local wall clock
type MarketSession string

const (
	SessionPreMarket  MarketSession = "premarket"
	SessionRegular    MarketSession = "regular"
	SessionAfterHours MarketSession = "after_hours"
	SessionClosed     MarketSession = "closed"
)

// Snapshot is one global market fetch (indices, coupling stocks, FX, futures)
type Snapshot struct {
	Indices map[string]*marketdata.Quote `json:"indices"`
	Stocks  map[string]*marketdata.Quote `json:"stocks"`
	FX      map[string]*marketdata.Quote `json:"fx"`
	Futures map[string]*marketdata.Quote `json:"futures"`

	OverallSentiment MarketSentiment            `json:"overall_sentiment"`
	SectorSentiments map[string]MarketSentiment `json:"sector_sentiments"`
	MarketSession    MarketSession              `json:"market_session"`
	FetchedAt        time.Time                  `json:"fetched_at"`
}

// ChangePct returns a symbol's change% from any quote map (0 if absent)
func (s *Snapshot) ChangePct(symbol string) (float64, bool) {
	for _, m := range []map[string]*marketdata.Quote{s.Indices, s.Stocks, s.FX, s.Futures} {
		if q, ok := m[symbol]; ok {
			return q.ChangePct, true
		}
	}
	return 0, false
}

// Fixed symbol universe. 커플링 테이블과 맞물려 있으므로 함부로 줄이지 말 것.
var (
	indexSymbols  = []string{"SP500", "NASDAQ", "DOW", "SOX", "RUSSELL2000", marketdata.SymbolVIX}
	stockSymbols  = []string{"NVDA", "AMD", "MU", "TSM", "WDC", "TSLA", "ALB", "GOOGL", "META", "GM", "F", "PFE", "MRNA"}
	fxSymbols     = []string{"USDKRW"}
	futureSymbols = []string{marketdata.SymbolNasdaqFutures, marketdata.SymbolSP500Futures}

	// 섹터 감성 계산용 심볼 그룹
	sectorGroups = map[string][]string{
		"반도체":  {"NVDA", "AMD", "MU", "TSM", "WDC"},
		"전기차":  {"TSLA", "ALB"},
		"빅테크":  {"GOOGL", "META"},
		"바이오":  {"PFE", "MRNA"},
	}
)

const (
	fetchWorkers = 4
	snapshotKey  = "global"
)

// Fetcher snapshots US indices, coupling stocks, FX and futures
// ⭐ SSOT: 글로벌 시장 스냅샷은 여기서만
type Fetcher struct {
	provider marketdata.Provider
	cache    *cache.Cache[*Snapshot]
	logger   *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewFetcher creates a global market fetcher
func NewFetcher(provider marketdata.Provider, ttl time.Duration, loc *time.Location, log *logger.Logger) *Fetcher {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if loc == nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &Fetcher{
		provider: provider,
		cache:    cache.New[*Snapshot](ttl),
		logger:   log.WithField("component", "global.fetcher"),
		loc:      loc,
		now:      time.Now,
	}
}

// Fetch returns the global snapshot, served from cache within the TTL.
// 개별 심볼 실패는 로깅 후 해당 심볼만 누락. 전체 실패해도 빈 스냅샷 반환.
func (f *Fetcher) Fetch(ctx context.Context, forceRefresh bool) *Snapshot {
	if forceRefresh {
		f.cache.Invalidate(snapshotKey)
	}

	snap, _ := f.cache.GetOrRefresh(ctx, snapshotKey, func(ctx context.Context) (*Snapshot, error) {
		return f.fetchAll(ctx), nil
	})

	return snap
}

// fetchAll retrieves every symbol with bounded concurrency
func (f *Fetcher) fetchAll(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Indices:          make(map[string]*marketdata.Quote),
		Stocks:           make(map[string]*marketdata.Quote),
		FX:               make(map[string]*marketdata.Quote),
		Futures:          make(map[string]*marketdata.Quote),
		SectorSentiments: make(map[string]MarketSentiment),
		FetchedAt:        f.now(),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchWorkers)

	fetchInto := func(symbols []string, dst map[string]*marketdata.Quote) {
		for _, symbol := range symbols {
			symbol := symbol
			g.Go(func() error {
				q, err := f.provider.Quote(gctx, symbol)
				if err != nil {
					// 실패한 심볼은 결과에서 제외하고 계속
					f.logger.WithError(err).WithField("symbol", symbol).Warn("Symbol fetch failed, omitting")
					return nil
				}
				mu.Lock()
				dst[symbol] = q
				mu.Unlock()
				return nil
			})
		}
	}

	fetchInto(indexSymbols, snap.Indices)
	fetchInto(stockSymbols, snap.Stocks)
	fetchInto(fxSymbols, snap.FX)
	fetchInto(futureSymbols, snap.Futures)

	_ = g.Wait() // 개별 에러는 위에서 삼킴

	snap.OverallSentiment = f.overallSentiment(snap)
	for sector, symbols := range sectorGroups {
		snap.SectorSentiments[sector] = f.groupSentiment(snap.Stocks, symbols)
	}
	snap.MarketSession = sessionFor(f.now().In(f.loc).Hour())

	f.logger.WithFields(map[string]interface{}{
		"indices": len(snap.Indices),
		"stocks":  len(snap.Stocks),
		"overall": snap.OverallSentiment,
		"session": snap.MarketSession,
	}).Info("Global market snapshot fetched")

	return snap
}

// overallSentiment averages change% across the major indices (VIX 제외)
func (f *Fetcher) overallSentiment(snap *Snapshot) MarketSentiment {
	var sum float64
	var n int
	for _, symbol := range indexSymbols {
		if symbol == marketdata.SymbolVIX {
			continue
		}
		if q, ok := snap.Indices[symbol]; ok {
			sum += q.ChangePct
			n++
		}
	}
	if n == 0 {
		return SentimentNeutral
	}
	return ClassifySentiment(sum / float64(n))
}

func (f *Fetcher) groupSentiment(quotes map[string]*marketdata.Quote, symbols []string) MarketSentiment {
	var sum float64
	var n int
	for _, symbol := range symbols {
		if q, ok := quotes[symbol]; ok {
			sum += q.ChangePct
			n++
		}
	}
	if n == 0 {
		return SentimentNeutral
	}
	return ClassifySentiment(sum / float64(n))
}

// ClassifySentiment maps an average change% to the 5-level enum
// (±0.5 / ±2.0 임계값)
func ClassifySentiment(avgChangePct float64) MarketSentiment {
	switch {
	case avgChangePct > 2.0:
		return SentimentStrongBullish
	case avgChangePct > 0.5:
		return SentimentBullish
	case avgChangePct >= -0.5:
		return SentimentNeutral
	case avgChangePct >= -2.0:
		return SentimentBearish
	default:
		return SentimentStrongBearish
	}
}

// sessionFor maps the local (KST) hour to the US market session.
// 거래소 캘린더가 아닌 벽시계 기준: 휴장일은 구분하지 못한다.
func sessionFor(hour int) MarketSession {
	switch {
	case hour >= 17 && hour < 23:
		return SessionPreMarket
	case hour >= 23 || hour < 6:
		return SessionRegular
	case hour >= 6 && hour < 9:
		return SessionAfterHours
	default:
		return SessionClosed
	}
}

// SetClock overrides the time source (tests only)
func (f *Fetcher) SetClock(now func() time.Time) {
	f.now = now
	f.cache.SetClock(now)
}
