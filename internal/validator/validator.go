package validator

import (
	"fmt"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/pkg/logger"
)

// Decision is the validator's final verdict for one fusion result
type Decision string

const (
	DecisionPass      Decision = "PASS"
	DecisionBlockBuy  Decision = "BLOCK_BUY"
	DecisionBlockSell Decision = "BLOCK_SELL"
	DecisionForceSell Decision = "FORCE_SELL"
	DecisionHoldOnly  Decision = "HOLD_ONLY"
)

// BlockReason tags why a decision deviated from PASS
type BlockReason string

const (
	ReasonTradingHalt      BlockReason = "TRADING_HALT"
	ReasonFundamentalRisk  BlockReason = "FUNDAMENTAL_RISK"
	ReasonMarketPanic      BlockReason = "MARKET_PANIC"
	ReasonLiquidityTrap    BlockReason = "LIQUIDITY_TRAP"
	ReasonCalendarCritical BlockReason = "CALENDAR_CRITICAL"
	ReasonOverheatedMarket BlockReason = "OVERHEATED_MARKET"
	ReasonHighVolatility   BlockReason = "HIGH_VOLATILITY"
)

// 하드 컷오프 기준값
const (
	fundamentalFloor   = -2.0
	marketContextFloor = -2.0
	liquidityFloorKRW  = 10_000_000_000 // 5일 평균 거래대금 ₩100억
	volatilityCeiling  = 15.0           // 일중 변동성 %
)

// Input is everything the validator inspects for one stock
type Input struct {
	Fusion *contracts.FusionResult

	// AvgTradedValue5D: 5일 평균 거래대금 (원)
	AvgTradedValue5D float64

	// DailyVolatilityPct: 일중 변동성 %. nil이면 검사 생략
	DailyVolatilityPct *float64
}

// Result is the structured verdict. AdjustedScore/AdjustedSignal은
// PASS일 때 nil (원래 값 그대로 사용하라는 뜻).
type Result struct {
	Decision Decision      `json:"decision"`
	Reasons  []BlockReason `json:"reasons"`

	AdjustedScore  *float64                `json:"adjusted_score,omitempty"`
	AdjustedSignal *contracts.TradingSignal `json:"adjusted_signal,omitempty"`

	Message string `json:"message"`
}

// Validator is the last gate before an order: pure, stateless,
// and safe for any number of concurrent callers.
// ⭐ SSOT: 매매 차단/강제청산 판정은 반드시 여기서만
type Validator struct {
	logger *logger.Logger
}

// New creates the final signal validator
func New(log *logger.Logger) *Validator {
	return &Validator{logger: log.WithField("component", "validator")}
}

// Validate applies the veto rules in fixed priority order.
//
//  1. 거래정지 → FORCE_SELL (최우선, 다른 검사 전부 생략)
//  2. 차단 사유 수집 (펀더멘털/시장패닉/유동성/캘린더/과열/변동성)
//  3. FUNDAMENTAL_RISK 또는 LIQUIDITY_TRAP → BLOCK_BUY
//     그 외 사유 + 매수 시그널 → HOLD_ONLY
//     사유 없음 → PASS
func (v *Validator) Validate(in Input) *Result {
	f := in.Fusion

	// 1) 거래정지는 무조건 강제청산
	if f.TradingHalt {
		score := 0.0
		signal := contracts.SignalStrongSell
		result := &Result{
			Decision:       DecisionForceSell,
			Reasons:        []BlockReason{ReasonTradingHalt},
			AdjustedScore:  &score,
			AdjustedSignal: &signal,
			Message:        fmt.Sprintf("거래정지 종목: %s", f.HaltReason),
		}
		v.log(f, result)
		return result
	}

	// 2) 차단 사유 수집 (우선순위 고정)
	var reasons []BlockReason

	if f.FundamentalScore < fundamentalFloor {
		reasons = append(reasons, ReasonFundamentalRisk)
	}
	if f.MarketContextScore < marketContextFloor {
		reasons = append(reasons, ReasonMarketPanic)
	}
	if in.AvgTradedValue5D < liquidityFloorKRW {
		reasons = append(reasons, ReasonLiquidityTrap)
	}
	if f.CalendarRiskLevel() == "critical" {
		reasons = append(reasons, ReasonCalendarCritical)
	}
	switch f.MarketConditionLabel() {
	case "panic", "fear":
		reasons = append(reasons, ReasonMarketPanic)
	case "overheated", "euphoria":
		reasons = append(reasons, ReasonOverheatedMarket)
	}
	if in.DailyVolatilityPct != nil && *in.DailyVolatilityPct > volatilityCeiling {
		reasons = append(reasons, ReasonHighVolatility)
	}

	// 3) 사유 → 결정
	result := v.decide(f, reasons)
	v.log(f, result)
	return result
}

func (v *Validator) decide(f *contracts.FusionResult, reasons []BlockReason) *Result {
	if contains(reasons, ReasonFundamentalRisk) || contains(reasons, ReasonLiquidityTrap) {
		return rewriteToHold(f, DecisionBlockBuy, reasons, "매수 차단: 펀더멘털/유동성 하드컷")
	}

	softBlock := contains(reasons, ReasonMarketPanic) ||
		contains(reasons, ReasonCalendarCritical) ||
		contains(reasons, ReasonOverheatedMarket) ||
		contains(reasons, ReasonHighVolatility)

	if softBlock && f.Signal.IsBuySide() {
		// 신규 진입만 막고 기존 보유는 건드리지 않는다
		return rewriteToHold(f, DecisionHoldOnly, reasons, "신규 매수 보류: 시장 리스크")
	}

	return &Result{
		Decision: DecisionPass,
		Reasons:  reasons,
		Message:  "통과",
	}
}

func rewriteToHold(f *contracts.FusionResult, d Decision, reasons []BlockReason, msg string) *Result {
	result := &Result{Decision: d, Reasons: reasons, Message: msg}
	if f.Signal.IsBuySide() {
		score := 0.0
		signal := contracts.SignalHold
		result.AdjustedScore = &score
		result.AdjustedSignal = &signal
	}
	return result
}

func (v *Validator) log(f *contracts.FusionResult, r *Result) {
	if r.Decision == DecisionPass {
		return
	}
	v.logger.WithFields(map[string]interface{}{
		"code":     f.Code,
		"signal":   f.Signal,
		"decision": r.Decision,
		"reasons":  r.Reasons,
	}).Warn("Signal vetoed")
}

func contains(reasons []BlockReason, target BlockReason) bool {
	for _, r := range reasons {
		if r == target {
			return true
		}
	}
	return false
}
