package contracts

// TradingSignal is the discrete action recommended by the fusion layer
// ⭐ SSOT: 시그널 문자열은 여기서만 정의
type TradingSignal string

const (
	SignalStrongBuy  TradingSignal = "strong_buy"
	SignalBuy        TradingSignal = "buy"
	SignalHold       TradingSignal = "hold"
	SignalSell       TradingSignal = "sell"
	SignalStrongSell TradingSignal = "strong_sell"
)

// IsBuySide reports whether the signal opens or adds to a position
func (s TradingSignal) IsBuySide() bool {
	return s == SignalBuy || s == SignalStrongBuy
}

// MarketRegime is the coarse market-trend classification supplied by the caller
type MarketRegime string

const (
	RegimeBull    MarketRegime = "BULL"
	RegimeBear    MarketRegime = "BEAR"
	RegimeSideway MarketRegime = "SIDEWAY"
)

// ParseRegime maps a caller-supplied regime string to a known regime.
// 알 수 없는 값은 SIDEWAY로 폴백 (에러 아님)
func ParseRegime(s string) MarketRegime {
	switch MarketRegime(s) {
	case RegimeBull, RegimeBear, RegimeSideway:
		return MarketRegime(s)
	default:
		return RegimeSideway
	}
}

// FusionResult is the orchestrator's fused decision for one stock,
// consumed by the final validator. The fusion formula itself lives
// upstream; this core only reads the fields below.
type FusionResult struct {
	Code               string        `json:"code"`
	Name               string        `json:"name"`
	Signal             TradingSignal `json:"signal"`
	FinalScore         float64       `json:"final_score"`
	TradingHalt        bool          `json:"trading_halt"`
	HaltReason         string        `json:"halt_reason,omitempty"`
	FundamentalScore   float64       `json:"fundamental_score"`
	MarketContextScore float64       `json:"market_context_score"`

	// Details carries loosely-typed context from upstream analyzers.
	// 누락 키는 아래 접근자에서 중립 기본값으로 처리
	Details map[string]interface{} `json:"details,omitempty"`
}

// CalendarRiskLevel returns details["calendar_risk_level"], defaulting to "low"
func (f *FusionResult) CalendarRiskLevel() string {
	if v, ok := f.Details["calendar_risk_level"].(string); ok && v != "" {
		return v
	}
	return "low"
}

// FearGreedScore returns details["fear_greed_score"], defaulting to 50
func (f *FusionResult) FearGreedScore() float64 {
	switch v := f.Details["fear_greed_score"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 50.0
	}
}

// MarketConditionLabel returns details["market_condition"], defaulting to "neutral"
func (f *FusionResult) MarketConditionLabel() string {
	if v, ok := f.Details["market_condition"].(string); ok && v != "" {
		return v
	}
	return "neutral"
}
