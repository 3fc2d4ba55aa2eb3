package weights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// alternatingCandles builds n daily candles (newest first) whose close
// alternates ±dailyPct% around 100
func alternatingCandles(n int, dailyPct float64) []marketdata.Candle {
	candles := make([]marketdata.Candle, n)
	price := 100.0
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; i-- {
		if (n-1-i)%2 == 0 {
			price *= 1 + dailyPct/100
		} else {
			price *= 1 - dailyPct/100
		}
		candles[i] = marketdata.Candle{
			Date:  day.AddDate(0, 0, n-1-i),
			Open:  price,
			High:  price * 1.005,
			Low:   price * 0.995,
			Close: price,
		}
	}
	return candles
}

func flatCandles(n int) []marketdata.Candle {
	candles := make([]marketdata.Candle, n)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = marketdata.Candle{
			Date: day.AddDate(0, 0, -i), Open: 100, High: 100.5, Low: 99.5, Close: 100,
		}
	}
	return candles
}

type failingProvider struct{}

func (failingProvider) Quote(context.Context, string) (*marketdata.Quote, error) {
	return nil, errors.New("down")
}
func (failingProvider) DailyCandles(context.Context, string, int) ([]marketdata.Candle, error) {
	return nil, errors.New("down")
}
func (failingProvider) MarketBreadth(context.Context, string) (*marketdata.Breadth, error) {
	return nil, errors.New("down")
}

func TestAdjustedWeightsAlwaysSumToOne(t *testing.T) {
	o := NewOptimizer(nil, nil, logger.NewNop())

	candleSets := map[string][]marketdata.Candle{
		"flat":    flatCandles(30),
		"calm":    alternatingCandles(30, 0.3),
		"normal":  alternatingCandles(30, 1.0),
		"rough":   alternatingCandles(30, 2.0),
		"violent": alternatingCandles(30, 5.0),
		"short":   flatCandles(3),
		"none":    {},
	}

	for _, regime := range []contracts.MarketRegime{contracts.RegimeBull, contracts.RegimeBear, contracts.RegimeSideway} {
		for name, candles := range candleSets {
			adj := o.GetOptimizedWeights(context.Background(), regime, candles)
			require.NotNil(t, adj)

			var sum float64
			for _, w := range adj.AdjustedWeights {
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-6, "regime=%s set=%s", regime, name)
			assert.Len(t, adj.AdjustedWeights, len(contracts.Categories()))

			for cat, w := range adj.AdjustedWeights {
				assert.Greater(t, w, 0.0, "regime=%s set=%s cat=%s", regime, name, cat)
			}
		}
	}
}

func TestUnknownRegimeFallsBackToSideway(t *testing.T) {
	o := NewOptimizer(nil, nil, logger.NewNop())
	adj := o.GetOptimizedWeights(context.Background(), contracts.MarketRegime("SSANG_BULL"), flatCandles(30))
	assert.Equal(t, contracts.RegimeSideway, adj.Regime)
}

func TestFetchFailureDegradesToMedium(t *testing.T) {
	o := NewOptimizer(failingProvider{}, nil, logger.NewNop())
	adj := o.GetOptimizedWeights(context.Background(), contracts.RegimeBull, nil)

	assert.Equal(t, VolatilityMedium, adj.Volatility)
	assert.Equal(t, 0.8, adj.Confidence)
}

func TestClassifyVolatility(t *testing.T) {
	tests := []struct {
		vol30, range5 float64
		want          MarketVolatility
	}{
		{10, 2, VolatilityLow},
		{14.9, 2.9, VolatilityLow},
		{15, 2, VolatilityMedium},
		{10, 4, VolatilityMedium},
		{25, 2, VolatilityHigh},
		{10, 5, VolatilityHigh},
		{40, 2, VolatilityExtreme},
		{10, 8, VolatilityExtreme},
		{80, 12, VolatilityExtreme},
	}
	for _, tt := range tests {
		got := classifyVolatility(tt.vol30, tt.range5, 30)
		assert.Equal(t, tt.want, got, "vol=%v range=%v", tt.vol30, tt.range5)
	}

	// 표본 부족은 medium으로 보류
	assert.Equal(t, VolatilityMedium, classifyVolatility(80, 12, 3))
}

func TestMeasureVolatility(t *testing.T) {
	vol, rng := MeasureVolatility(flatCandles(30))
	assert.InDelta(t, 0.0, vol, 1e-9)
	assert.InDelta(t, 1.0, rng, 0.01) // (100.5-99.5)/100

	vol, _ = MeasureVolatility(alternatingCandles(30, 3.0))
	assert.Greater(t, vol, 40.0)

	// 데이터 없음 → 0
	vol, rng = MeasureVolatility(nil)
	assert.Zero(t, vol)
	assert.Zero(t, rng)
}

func TestVolatilityConfidence(t *testing.T) {
	assert.Equal(t, 0.9, VolatilityLow.Confidence())
	assert.Equal(t, 0.8, VolatilityMedium.Confidence())
	assert.Equal(t, 0.65, VolatilityHigh.Confidence())
	assert.Equal(t, 0.5, VolatilityExtreme.Confidence())
}

func TestBaseWeightsSumToOne(t *testing.T) {
	for regime, weights := range baseWeights {
		var sum float64
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "regime=%s", regime)
		assert.Len(t, weights, len(contracts.Categories()))
	}
}
