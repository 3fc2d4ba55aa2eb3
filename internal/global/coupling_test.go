package global

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

func testCouplingTable() *refdata.CouplingTable {
	return &refdata.CouplingTable{
		Stocks: map[string]refdata.CouplingMapping{
			"005930": {
				USSymbols: []string{"NVDA", "MU"},
				USIndices: []string{"SOX", "NASDAQ"},
				Sector:    "반도체",
				Strength:  refdata.CouplingStrong,
			},
			"373220": {
				USSymbols: []string{"TSLA", "ALB"},
				USIndices: []string{"NASDAQ"},
				Sector:    "전기차",
				Strength:  refdata.CouplingModerate,
			},
		},
		SectorDefaults: map[string]refdata.CouplingMapping{
			"바이오": {
				USSymbols: []string{"PFE", "MRNA"},
				USIndices: []string{"NASDAQ"},
				Sector:    "바이오",
				Strength:  refdata.CouplingWeak,
			},
			"_default": {
				USIndices: []string{"SP500"},
				Strength:  refdata.CouplingWeak,
			},
		},
	}
}

func newTestAnalyzer(t *testing.T, changes map[string]float64) *Analyzer {
	t.Helper()
	f := NewFetcher(&quoteProvider{changes: changes}, 5*time.Minute, nil, logger.NewNop())
	f.SetClock(kstClock(22))
	return NewAnalyzer(f, testCouplingTable(), logger.NewNop())
}

func TestAnalyzeStrongCoupling(t *testing.T) {
	a := newTestAnalyzer(t, map[string]float64{
		"NVDA": 4.0, "MU": 2.0, // 평균 +3.0
		"SOX": 2.0, "NASDAQ": 1.0, // 평균 +1.5
		"SP500": 1.0, "DOW": 1.0, "RUSSELL2000": 1.0,
	})

	r := a.Analyze(context.Background(), StockRef{Code: "005930", Name: "삼성전자", Sector: "반도체"})
	require.NotNil(t, r)

	// (3.0×0.7 + 1.5×0.3)×10 = 25.5
	assert.InDelta(t, 25.5, r.CouplingScore, 1e-9)
	// 1 + 0.255×0.2 = 1.051
	assert.InDelta(t, 1.051, r.AdjustmentFactor, 1e-9)
	assert.Equal(t, refdata.CouplingStrong, r.Strength)
	assert.Contains(t, r.AnalysisReason, "삼성전자")
	assert.Contains(t, r.AnalysisReason, "강한")
}

func TestAnalyzeScoreClipping(t *testing.T) {
	// 극단적인 변동도 점수는 ±100, 보정은 strength 한도 안에 묶인다
	a := newTestAnalyzer(t, map[string]float64{
		"NVDA": 50.0, "MU": 50.0,
		"SOX": 50.0, "NASDAQ": 50.0,
	})

	r := a.Analyze(context.Background(), StockRef{Code: "005930", Name: "삼성전자", Sector: "반도체"})
	assert.Equal(t, 100.0, r.CouplingScore)
	assert.InDelta(t, 1.2, r.AdjustmentFactor, 1e-9)

	down := newTestAnalyzer(t, map[string]float64{
		"NVDA": -50.0, "MU": -50.0,
		"SOX": -50.0, "NASDAQ": -50.0,
	})
	r = down.Analyze(context.Background(), StockRef{Code: "005930", Name: "삼성전자", Sector: "반도체"})
	assert.Equal(t, -100.0, r.CouplingScore)
	assert.InDelta(t, 0.8, r.AdjustmentFactor, 1e-9)
}

func TestAdjustmentFactorBounds(t *testing.T) {
	// 어떤 입력에서도 strength별 한도를 벗어나지 않는다
	for _, pct := range []float64{-80, -10, -1, 0, 1, 10, 80} {
		a := newTestAnalyzer(t, map[string]float64{
			"NVDA": pct, "MU": pct, "TSLA": pct, "ALB": pct,
			"PFE": pct, "MRNA": pct,
			"SOX": pct, "NASDAQ": pct,
		})

		strong := a.Analyze(context.Background(), StockRef{Code: "005930", Name: "삼성전자"})
		assert.GreaterOrEqual(t, strong.AdjustmentFactor, 0.8, "pct=%v", pct)
		assert.LessOrEqual(t, strong.AdjustmentFactor, 1.2, "pct=%v", pct)
		assert.GreaterOrEqual(t, strong.CouplingScore, -100.0)
		assert.LessOrEqual(t, strong.CouplingScore, 100.0)

		moderate := a.Analyze(context.Background(), StockRef{Code: "373220", Name: "LG에너지솔루션"})
		assert.GreaterOrEqual(t, moderate.AdjustmentFactor, 0.85, "pct=%v", pct)
		assert.LessOrEqual(t, moderate.AdjustmentFactor, 1.15, "pct=%v", pct)

		weak := a.Analyze(context.Background(), StockRef{Code: "000000", Name: "무명바이오", Sector: "바이오"})
		assert.GreaterOrEqual(t, weak.AdjustmentFactor, 0.9, "pct=%v", pct)
		assert.LessOrEqual(t, weak.AdjustmentFactor, 1.1, "pct=%v", pct)
	}
}

func TestResolveMappingFallbacks(t *testing.T) {
	a := newTestAnalyzer(t, map[string]float64{"SP500": -1.0, "PFE": -2.0, "MRNA": -4.0, "NASDAQ": -1.0})

	// 섹터 폴백
	bio := a.Analyze(context.Background(), StockRef{Code: "999999", Name: "테스트바이오", Sector: "바이오"})
	assert.Equal(t, refdata.CouplingWeak, bio.Strength)
	assert.Equal(t, []string{"PFE", "MRNA"}, bio.USSymbols)

	// 전역 폴백
	other := a.Analyze(context.Background(), StockRef{Code: "888888", Name: "기타종목", Sector: "내수"})
	assert.Equal(t, refdata.CouplingWeak, other.Strength)
	assert.Equal(t, []string{"SP500"}, other.USIndices)
}

func TestAnalyzeWithoutUSData(t *testing.T) {
	// 미국 시세 전부 실패 → 점수 0, 보정 1.0
	a := newTestAnalyzer(t, map[string]float64{})

	r := a.Analyze(context.Background(), StockRef{Code: "005930", Name: "삼성전자", Sector: "반도체"})
	assert.Equal(t, 0.0, r.CouplingScore)
	assert.Equal(t, 1.0, r.AdjustmentFactor)
	assert.Contains(t, r.AnalysisReason, "데이터 없음")
}

func TestAnalyzeBatchSharesSnapshot(t *testing.T) {
	provider := &quoteProvider{changes: map[string]float64{"NVDA": 1.0, "MU": 1.0, "SOX": 1.0, "NASDAQ": 1.0}}
	f := NewFetcher(provider, 5*time.Minute, nil, logger.NewNop())
	f.SetClock(kstClock(22))
	a := NewAnalyzer(f, testCouplingTable(), logger.NewNop())

	refs := []StockRef{
		{Code: "005930", Name: "삼성전자"},
		{Code: "373220", Name: "LG에너지솔루션"},
		{Code: "888888", Name: "기타종목"},
	}
	results := a.AnalyzeBatch(context.Background(), refs)
	require.Len(t, results, 3)

	calls := provider.calls
	// 두번째 배치도 캐시를 타므로 네트워크 호출이 늘지 않는다
	a.AnalyzeBatch(context.Background(), refs)
	assert.Equal(t, calls, provider.calls)
}
