package calendar

import (
	"time"

	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// EventCategory classifies macro calendar events
type EventCategory string

const (
	CategoryRateDecision  EventCategory = "rate_decision"  // FOMC
	CategoryCentralBank   EventCategory = "central_bank"   // 금통위
	CategoryInflation     EventCategory = "inflation"      // CPI
	CategoryEmployment    EventCategory = "employment"     // 고용보고서
	CategoryOptionsExpiry EventCategory = "options_expiry" // 선물옵션 동시만기
	CategoryEarnings      EventCategory = "earnings"       // 실적시즌
)

// RiskLevel is the 4-level calendar risk classification
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// PositionAdjustment returns the exposure multiplier for the level
func (r RiskLevel) PositionAdjustment() float64 {
	switch r {
	case RiskCritical:
		return 0.5
	case RiskHigh:
		return 0.7
	case RiskMedium:
		return 0.9
	default:
		return 1.0
	}
}

// EconomicEvent is one dated macro event with its d-day relative to today
type EconomicEvent struct {
	Name     string             `json:"name"`
	Date     time.Time          `json:"date"`
	Category EventCategory      `json:"category"`
	Impact   refdata.EventImpact `json:"impact"`
	DDay     int                `json:"d_day"` // 양수=미래, 0=오늘, 음수=과거
}

// MacroResult is the calendar risk analysis for one query
type MacroResult struct {
	Today    []EconomicEvent `json:"today"`
	Upcoming []EconomicEvent `json:"upcoming"`
	PastWeek []EconomicEvent `json:"past_week"`

	RiskScore            float64   `json:"risk_score"` // 0.0 ~ 1.0
	RiskLevel            RiskLevel `json:"risk_level"`
	PositionAdjustment   float64   `json:"position_adjustment"`
	ShouldReduceExposure bool      `json:"should_reduce_exposure"`
	Warning              string    `json:"warning,omitempty"`
	AnalyzedAt           time.Time `json:"analyzed_at"`
}

// MacroFetcher computes day-relative risk from the macro calendar
// ⭐ SSOT: 매크로 일정 리스크 판정은 여기서만
type MacroFetcher struct {
	data   *refdata.MacroCalendar
	logger *logger.Logger
	now    func() time.Time
}

// NewMacroFetcher creates a macro calendar fetcher
func NewMacroFetcher(data *refdata.MacroCalendar, log *logger.Logger) *MacroFetcher {
	return &MacroFetcher{
		data:   data,
		logger: log.WithField("component", "calendar.macro"),
		now:    time.Now,
	}
}

// Analyze buckets calendar events around today and derives risk.
// daysAhead < 0은 0으로 취급. 어떤 입력에도 실패하지 않는다.
func (f *MacroFetcher) Analyze(daysAhead int) *MacroResult {
	if daysAhead < 0 {
		daysAhead = 0
	}

	today := truncateDay(f.now())
	events := f.buildYearlyEvents(today.Year())

	result := &MacroResult{
		Today:    make([]EconomicEvent, 0),
		Upcoming: make([]EconomicEvent, 0),
		PastWeek: make([]EconomicEvent, 0),
		AnalyzedAt: f.now(),
	}

	var criticalSoon int // D+1 ~ D+2 critical 이벤트 수
	var criticalNow bool // 오늘 또는 내일 critical

	for i := range events {
		ev := events[i]
		ev.DDay = daysBetween(today, ev.Date)

		switch {
		case ev.DDay == 0:
			result.Today = append(result.Today, ev)
			result.RiskScore += ev.Impact.Weight()
			if ev.Impact == refdata.ImpactCritical {
				criticalNow = true
			}
		case ev.DDay > 0 && ev.DDay <= daysAhead:
			result.Upcoming = append(result.Upcoming, ev)
			if ev.Impact == refdata.ImpactCritical && ev.DDay <= 2 {
				criticalSoon++
				if ev.DDay == 1 {
					criticalNow = true
				}
			}
		case ev.DDay < 0 && ev.DDay >= -7:
			result.PastWeek = append(result.PastWeek, ev)
		}
	}

	result.RiskScore += 0.3 * float64(criticalSoon)
	if result.RiskScore > 1.0 {
		result.RiskScore = 1.0
	}

	result.RiskLevel = riskLevelFor(result.RiskScore)
	result.PositionAdjustment = result.RiskLevel.PositionAdjustment()

	// 당일/익일 critical은 레벨과 무관하게 노출 축소 강제
	if criticalNow {
		result.ShouldReduceExposure = true
		result.Warning = "당일 또는 익일 핵심 매크로 이벤트: 신규 진입 축소 권고"
	}

	f.logger.WithFields(map[string]interface{}{
		"today_events": len(result.Today),
		"upcoming":     len(result.Upcoming),
		"risk_score":   result.RiskScore,
		"risk_level":   result.RiskLevel,
	}).Debug("Macro calendar analyzed")

	return result
}

// buildYearlyEvents expands calendar facts plus rule-generated dates
func (f *MacroFetcher) buildYearlyEvents(year int) []EconomicEvent {
	events := make([]EconomicEvent, 0, 64)

	for _, d := range f.data.RateDecisions {
		events = append(events, EconomicEvent{
			Name: "FOMC 금리 결정", Date: d,
			Category: CategoryRateDecision, Impact: refdata.ImpactCritical,
		})
	}

	for _, d := range f.data.CentralBankMeetings {
		events = append(events, EconomicEvent{
			Name: "한국은행 금통위", Date: d,
			Category: CategoryCentralBank, Impact: refdata.ImpactHigh,
		})
	}

	// 월별 휴리스틱: CPI는 13일 부근, 고용보고서는 첫 금요일
	for m := time.January; m <= time.December; m++ {
		events = append(events, EconomicEvent{
			Name: "미국 CPI 발표", Date: time.Date(year, m, 13, 0, 0, 0, 0, time.UTC),
			Category: CategoryInflation, Impact: refdata.ImpactHigh,
		})
		events = append(events, EconomicEvent{
			Name: "미국 고용보고서", Date: firstFriday(year, m),
			Category: CategoryEmployment, Impact: refdata.ImpactHigh,
		})
	}

	// 분기별 선물옵션 동시만기 (3/6/9/12월 셋째 금요일)
	for _, m := range []time.Month{time.March, time.June, time.September, time.December} {
		events = append(events, EconomicEvent{
			Name: "선물옵션 동시만기", Date: thirdFriday(year, m),
			Category: CategoryOptionsExpiry, Impact: refdata.ImpactHigh,
		})
	}

	for _, season := range f.data.EarningsSeasons {
		events = append(events, EconomicEvent{
			Name: season.Name + " 개시", Date: season.Start,
			Category: CategoryEarnings, Impact: refdata.ImpactMedium,
		})
	}

	return events
}

func riskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return RiskCritical
	case score >= 0.4:
		return RiskHigh
	case score >= 0.2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// firstFriday returns the first Friday of the month
func firstFriday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// thirdFriday returns the third Friday of the month
func thirdFriday(year int, month time.Month) time.Time {
	return firstFriday(year, month).AddDate(0, 0, 14)
}

// SetClock overrides the time source (tests only)
func (f *MacroFetcher) SetClock(now func() time.Time) {
	f.now = now
}
