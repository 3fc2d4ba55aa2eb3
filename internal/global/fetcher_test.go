package global

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// quoteProvider serves canned change% per symbol, errors for the rest
type quoteProvider struct {
	mu      sync.Mutex
	changes map[string]float64
	calls   int
}

func (p *quoteProvider) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	pct, ok := p.changes[symbol]
	if !ok {
		return nil, errors.New("symbol not served")
	}
	return &marketdata.Quote{Symbol: symbol, Price: 100, ChangePct: pct}, nil
}

func (p *quoteProvider) DailyCandles(_ context.Context, _ string, _ int) ([]marketdata.Candle, error) {
	return nil, errors.New("not implemented")
}

func (p *quoteProvider) MarketBreadth(_ context.Context, _ string) (*marketdata.Breadth, error) {
	return nil, errors.New("not implemented")
}

func kstClock(hour int) func() time.Time {
	kst := time.FixedZone("KST", 9*60*60)
	return func() time.Time {
		return time.Date(2026, 6, 10, hour, 30, 0, 0, kst)
	}
}

func TestFetchBullishSnapshot(t *testing.T) {
	provider := &quoteProvider{changes: map[string]float64{
		"SP500": 1.2, "NASDAQ": 1.8, "DOW": 0.9, "SOX": 2.5, "RUSSELL2000": 1.1,
		"VIX": -5.0, // 지수 평균에서 제외되어야 함
		"NVDA": 3.0, "AMD": 2.0, "MU": 1.0, "TSM": 1.5, "WDC": 0.5,
		"TSLA": -1.0, "ALB": -0.5,
		"USDKRW": 0.2,
		"NQ=F":   1.0, "ES=F": 0.8,
	}}
	f := NewFetcher(provider, 5*time.Minute, nil, logger.NewNop())
	f.SetClock(kstClock(22)) // 프리마켓 시간대

	snap := f.Fetch(context.Background(), false)
	require.NotNil(t, snap)

	// (1.2+1.8+0.9+2.5+1.1)/5 = 1.5 → bullish
	assert.Equal(t, SentimentBullish, snap.OverallSentiment)
	assert.Equal(t, SentimentBullish, snap.SectorSentiments["반도체"])
	assert.Equal(t, SentimentBearish, snap.SectorSentiments["전기차"])
	assert.Equal(t, SessionPreMarket, snap.MarketSession)
	assert.Len(t, snap.Indices, 6)
	assert.Len(t, snap.FX, 1)
	assert.Len(t, snap.Futures, 2)
}

func TestFetchOmitsFailedSymbols(t *testing.T) {
	// 지수 2개만 응답, 나머지는 전부 실패
	provider := &quoteProvider{changes: map[string]float64{
		"SP500": -3.0, "NASDAQ": -2.8,
	}}
	f := NewFetcher(provider, 5*time.Minute, nil, logger.NewNop())
	f.SetClock(kstClock(22))

	snap := f.Fetch(context.Background(), false)
	require.NotNil(t, snap)

	assert.Len(t, snap.Indices, 2)
	assert.Empty(t, snap.Stocks)
	assert.Equal(t, SentimentStrongBearish, snap.OverallSentiment)
	// 데이터 없는 섹터는 중립
	assert.Equal(t, SentimentNeutral, snap.SectorSentiments["바이오"])
}

func TestFetchServesFromCache(t *testing.T) {
	provider := &quoteProvider{changes: map[string]float64{"SP500": 0.1}}
	f := NewFetcher(provider, 5*time.Minute, nil, logger.NewNop())
	f.SetClock(kstClock(22))

	first := f.Fetch(context.Background(), false)
	callsAfterFirst := provider.calls
	second := f.Fetch(context.Background(), false)

	assert.Same(t, first, second)
	assert.Equal(t, callsAfterFirst, provider.calls)

	f.Fetch(context.Background(), true) // 강제 갱신은 다시 호출
	assert.Greater(t, provider.calls, callsAfterFirst)
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		pct  float64
		want MarketSentiment
	}{
		{2.5, SentimentStrongBullish},
		{2.0, SentimentBullish},
		{0.6, SentimentBullish},
		{0.5, SentimentNeutral},
		{0.0, SentimentNeutral},
		{-0.5, SentimentNeutral},
		{-0.6, SentimentBearish},
		{-2.0, SentimentBearish},
		{-2.1, SentimentStrongBearish},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySentiment(tt.pct), "pct=%v", tt.pct)
	}
}

func TestSessionFor(t *testing.T) {
	assert.Equal(t, SessionPreMarket, sessionFor(17))
	assert.Equal(t, SessionPreMarket, sessionFor(22))
	assert.Equal(t, SessionRegular, sessionFor(23))
	assert.Equal(t, SessionRegular, sessionFor(2))
	assert.Equal(t, SessionAfterHours, sessionFor(7))
	assert.Equal(t, SessionClosed, sessionFor(12))
}
