package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/pkg/logger"
)

// nominalFusion: 모든 검사를 통과하는 기본 입력
func nominalFusion(signal contracts.TradingSignal) *contracts.FusionResult {
	return &contracts.FusionResult{
		Code:               "005930",
		Name:               "삼성전자",
		Signal:             signal,
		FinalScore:         3.2,
		FundamentalScore:   1.5,
		MarketContextScore: 0.8,
		Details: map[string]interface{}{
			"calendar_risk_level": "low",
			"fear_greed_score":    55.0,
			"market_condition":    "neutral",
		},
	}
}

func solid() float64 { return 50_000_000_000 } // 유동성 충분

func TestTradingHaltAlwaysForceSell(t *testing.T) {
	v := New(logger.NewNop())

	// 다른 필드가 아무리 좋아도 거래정지는 FORCE_SELL
	for _, signal := range []contracts.TradingSignal{
		contracts.SignalStrongBuy, contracts.SignalBuy, contracts.SignalHold,
		contracts.SignalSell, contracts.SignalStrongSell,
	} {
		f := nominalFusion(signal)
		f.TradingHalt = true
		f.HaltReason = "감리종목 지정"
		f.FinalScore = 9.9

		r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
		assert.Equal(t, DecisionForceSell, r.Decision, "signal=%s", signal)
		assert.Equal(t, []BlockReason{ReasonTradingHalt}, r.Reasons)
		require.NotNil(t, r.AdjustedSignal)
		assert.Equal(t, contracts.SignalStrongSell, *r.AdjustedSignal)
		assert.Contains(t, r.Message, "감리종목")
	}
}

func TestFundamentalRiskBlocksBuy(t *testing.T) {
	v := New(logger.NewNop())

	f := nominalFusion(contracts.SignalBuy)
	f.FundamentalScore = -2.5

	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionBlockBuy, r.Decision)
	assert.Contains(t, r.Reasons, ReasonFundamentalRisk)
	require.NotNil(t, r.AdjustedScore)
	assert.Equal(t, 0.0, *r.AdjustedScore)
	assert.Equal(t, contracts.SignalHold, *r.AdjustedSignal)
}

func TestLiquidityTrapBlocksBuyDespiteGreatScores(t *testing.T) {
	v := New(logger.NewNop())

	f := nominalFusion(contracts.SignalStrongBuy)
	f.FinalScore = 9.5
	f.FundamentalScore = 4.0

	// 거래대금 ₩100억 미만이면 점수가 아무리 좋아도 차단
	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: 9_000_000_000})
	assert.Equal(t, DecisionBlockBuy, r.Decision)
	assert.Contains(t, r.Reasons, ReasonLiquidityTrap)
	assert.Equal(t, contracts.SignalHold, *r.AdjustedSignal)
}

func TestMarketPanicHoldsBuyOnly(t *testing.T) {
	v := New(logger.NewNop())

	f := nominalFusion(contracts.SignalBuy)
	f.Details["market_condition"] = "panic"

	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionHoldOnly, r.Decision)
	assert.Contains(t, r.Reasons, ReasonMarketPanic)
	assert.Equal(t, contracts.SignalHold, *r.AdjustedSignal)

	// 매도 시그널은 패닉장에서도 그대로 통과한다
	sell := nominalFusion(contracts.SignalSell)
	sell.Details["market_condition"] = "panic"
	r = v.Validate(Input{Fusion: sell, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionPass, r.Decision)
	assert.Nil(t, r.AdjustedSignal)
}

func TestCalendarCriticalHoldsBuy(t *testing.T) {
	v := New(logger.NewNop())

	f := nominalFusion(contracts.SignalBuy)
	f.Details["calendar_risk_level"] = "critical"

	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionHoldOnly, r.Decision)
	assert.Contains(t, r.Reasons, ReasonCalendarCritical)
}

func TestOverheatedMarketHoldsBuy(t *testing.T) {
	v := New(logger.NewNop())

	f := nominalFusion(contracts.SignalStrongBuy)
	f.Details["market_condition"] = "overheated"

	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionHoldOnly, r.Decision)
	assert.Contains(t, r.Reasons, ReasonOverheatedMarket)
}

func TestHighVolatilityOptional(t *testing.T) {
	v := New(logger.NewNop())

	// 변동성 미제공 → 검사 생략
	f := nominalFusion(contracts.SignalBuy)
	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionPass, r.Decision)

	vol := 18.0
	r = v.Validate(Input{Fusion: nominalFusion(contracts.SignalBuy), AvgTradedValue5D: solid(), DailyVolatilityPct: &vol})
	assert.Equal(t, DecisionHoldOnly, r.Decision)
	assert.Contains(t, r.Reasons, ReasonHighVolatility)

	calm := 5.0
	r = v.Validate(Input{Fusion: nominalFusion(contracts.SignalBuy), AvgTradedValue5D: solid(), DailyVolatilityPct: &calm})
	assert.Equal(t, DecisionPass, r.Decision)
}

func TestPassLeavesResultUntouched(t *testing.T) {
	v := New(logger.NewNop())

	r := v.Validate(Input{Fusion: nominalFusion(contracts.SignalBuy), AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionPass, r.Decision)
	assert.Empty(t, r.Reasons)
	assert.Nil(t, r.AdjustedScore)
	assert.Nil(t, r.AdjustedSignal)
}

func TestMissingDetailsDefaultToNeutral(t *testing.T) {
	v := New(logger.NewNop())

	f := nominalFusion(contracts.SignalBuy)
	f.Details = nil // 누락 → low/50/neutral 기본값

	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: solid()})
	assert.Equal(t, DecisionPass, r.Decision)
}

func TestHaltTakesPriorityOverEverything(t *testing.T) {
	v := New(logger.NewNop())

	// 거래정지 + 유동성 함정 + 패닉이 겹쳐도 FORCE_SELL 하나만
	f := nominalFusion(contracts.SignalBuy)
	f.TradingHalt = true
	f.FundamentalScore = -5.0
	f.Details["market_condition"] = "panic"

	r := v.Validate(Input{Fusion: f, AvgTradedValue5D: 0})
	assert.Equal(t, DecisionForceSell, r.Decision)
	assert.Equal(t, []BlockReason{ReasonTradingHalt}, r.Reasons)
}
