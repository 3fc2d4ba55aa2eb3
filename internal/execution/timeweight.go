package execution

import "time"

// Strategy names recognized by the time-of-day weight table
type Strategy string

const (
	StrategyMomentum      Strategy = "momentum"
	StrategyMeanReversion Strategy = "mean_reversion"
	StrategyBreakout      Strategy = "breakout"
)

// TimeSegment is one fixed intraday clock window
type TimeSegment string

const (
	SegmentPremarket TimeSegment = "premarket" // 08:00–09:00
	SegmentOpening   TimeSegment = "opening"   // 09:00–09:30
	SegmentMorning   TimeSegment = "morning"   // 09:30–11:30
	SegmentLunch     TimeSegment = "lunch"     // 11:30–13:00
	SegmentAfternoon TimeSegment = "afternoon" // 13:00–14:30
	SegmentClosing   TimeSegment = "closing"   // 14:30–15:30
	SegmentOffHours  TimeSegment = "off_hours"
)

// 전략 × 시간대 가중 배율. 장외는 일괄 1.0.
// 시초가 변동성이 큰 구간에서 돌파 전략을 키우고
// 점심 시간대는 전반적으로 줄인다.
var timeWeights = map[Strategy]map[TimeSegment]float64{
	StrategyMomentum: {
		SegmentPremarket: 0.8,
		SegmentOpening:   1.2,
		SegmentMorning:   1.1,
		SegmentLunch:     0.8,
		SegmentAfternoon: 1.0,
		SegmentClosing:   1.1,
	},
	StrategyMeanReversion: {
		SegmentPremarket: 0.7,
		SegmentOpening:   0.8,
		SegmentMorning:   1.0,
		SegmentLunch:     1.1,
		SegmentAfternoon: 1.1,
		SegmentClosing:   0.9,
	},
	StrategyBreakout: {
		SegmentPremarket: 0.9,
		SegmentOpening:   1.3,
		SegmentMorning:   1.1,
		SegmentLunch:     0.7,
		SegmentAfternoon: 1.0,
		SegmentClosing:   1.2,
	},
}

// SegmentAt maps intraday minutes (KST) to the fixed clock windows
func SegmentAt(hour, minute int) TimeSegment {
	minutes := hour*60 + minute
	switch {
	case minutes >= 8*60 && minutes < 9*60:
		return SegmentPremarket
	case minutes >= 9*60 && minutes < 9*60+30:
		return SegmentOpening
	case minutes >= 9*60+30 && minutes < 11*60+30:
		return SegmentMorning
	case minutes >= 11*60+30 && minutes < 13*60:
		return SegmentLunch
	case minutes >= 13*60 && minutes < 14*60+30:
		return SegmentAfternoon
	case minutes >= 14*60+30 && minutes < 15*60+30:
		return SegmentClosing
	default:
		return SegmentOffHours
	}
}

// TimeBasedWeight returns the strategy multiplier for the current
// clock time. 모르는 전략이나 장외 시간은 1.0.
func (s *Simulator) TimeBasedWeight(strategy Strategy) float64 {
	t := s.now().In(s.loc)
	return timeWeightAt(strategy, SegmentAt(t.Hour(), t.Minute()))
}

func timeWeightAt(strategy Strategy, segment TimeSegment) float64 {
	table, ok := timeWeights[strategy]
	if !ok {
		return 1.0
	}
	if w, ok := table[segment]; ok {
		return w
	}
	return 1.0
}

// SetClock overrides the time source (tests only)
func (s *Simulator) SetClock(now func() time.Time) {
	s.now = now
}
