package sentiment

import "time"

// MarketCondition is the 7-level market mood classification
// ⭐ SSOT: 시장 상태 라벨은 여기서만 정의
type MarketCondition string

const (
	ConditionEuphoria   MarketCondition = "euphoria"   // 극단적 탐욕
	ConditionOverheated MarketCondition = "overheated" // 과열
	ConditionOptimism   MarketCondition = "optimism"   // 낙관
	ConditionNeutral    MarketCondition = "neutral"    // 중립
	ConditionAnxiety    MarketCondition = "anxiety"    // 불안
	ConditionFear       MarketCondition = "fear"       // 공포
	ConditionPanic      MarketCondition = "panic"      // 패닉
)

// PositionMultiplier returns the exposure multiplier for the condition.
// 탐욕 극단에서도 역발상으로 줄인다 (0.3 ~ 1.1)
func (c MarketCondition) PositionMultiplier() float64 {
	switch c {
	case ConditionEuphoria:
		return 0.5
	case ConditionOverheated:
		return 0.7
	case ConditionOptimism:
		return 1.1
	case ConditionNeutral:
		return 1.0
	case ConditionAnxiety:
		return 0.9
	case ConditionFear:
		return 0.6
	case ConditionPanic:
		return 0.3
	default:
		return 1.0
	}
}

// Result bundles the raw indicators with the derived fear/greed score
type Result struct {
	// Raw indicators
	VIX                 float64 `json:"vix"`
	MarketRSI           float64 `json:"market_rsi"`            // KOSPI 14일 RSI
	CreditRatio         float64 `json:"credit_ratio"`          // 신용잔고 비율 추정치 (%)
	AdvanceDeclineRatio float64 `json:"advance_decline_ratio"` // 상승/하락 종목수 비율

	// Derived
	Score              float64         `json:"score"` // 0(공포) ~ 100(탐욕)
	Condition          MarketCondition `json:"condition"`
	PositionMultiplier float64         `json:"position_multiplier"`
	Warning            string          `json:"warning,omitempty"`
	AnalyzedAt         time.Time       `json:"analyzed_at"`
}

// Neutral defaults substituted when an indicator fetch fails
const (
	defaultVIX         = 20.0
	defaultRSI         = 50.0
	defaultCreditRatio = 3.0
	defaultADR         = 1.0
)
