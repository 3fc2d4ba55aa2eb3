package refdata

import "time"

// EventImpact grades how market-moving a calendar event is
// ⭐ SSOT: 이벤트 영향도 등급은 여기서만 정의
type EventImpact string

const (
	ImpactCritical EventImpact = "critical"
	ImpactHigh     EventImpact = "high"
	ImpactMedium   EventImpact = "medium"
	ImpactLow      EventImpact = "low"
)

// Weight returns the risk-score contribution of one same-day event
func (i EventImpact) Weight() float64 {
	switch i {
	case ImpactCritical:
		return 0.4
	case ImpactHigh:
		return 0.25
	case ImpactMedium:
		return 0.12
	default:
		return 0.05
	}
}

// CouplingStrength grades how tightly a KR stock tracks US markets
type CouplingStrength string

const (
	CouplingStrong   CouplingStrength = "strong"
	CouplingModerate CouplingStrength = "moderate"
	CouplingWeak     CouplingStrength = "weak"
	CouplingNone     CouplingStrength = "none"
)

// MacroCalendar holds the year-specific macro event dates.
// 3번째 금요일(선물옵션 만기) 등 규칙으로 계산 가능한 날짜는
// 코드에서 생성하고, 연도별 사실(FOMC/금통위)만 여기 둔다.
type MacroCalendar struct {
	Year                int         `yaml:"year" json:"year"`
	RateDecisions       []time.Time `yaml:"rate_decisions" json:"rate_decisions"`               // FOMC 결정일
	CentralBankMeetings []time.Time `yaml:"central_bank_meetings" json:"central_bank_meetings"` // 한국은행 금통위
	EarningsSeasons     []DateRange `yaml:"earnings_seasons" json:"earnings_seasons"`
}

// DateRange is an inclusive date window
type DateRange struct {
	Name  string    `yaml:"name" json:"name"`
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end" json:"end"`
}

// Contains reports whether d falls inside the range (date precision)
func (r DateRange) Contains(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	return !day.Before(r.Start.Truncate(24*time.Hour)) && !day.After(r.End.Truncate(24*time.Hour))
}

// RebalanceSchedule holds index-rebalance windows and add/delete events
type RebalanceSchedule struct {
	Year     int             `yaml:"year" json:"year"`
	Families []IndexFamily   `yaml:"families" json:"families"`
	Events   []RebalanceItem `yaml:"events" json:"events"`

	// Memberships: 지수명 → 편입 종목코드 목록
	Memberships map[string][]string `yaml:"memberships" json:"memberships"`
	// Weights: 종목코드 → 지수 내 비중 (%)
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

// IndexFamily is one index series with its effective rebalance dates
type IndexFamily struct {
	Name           string      `yaml:"name" json:"name"`
	Cycle          string      `yaml:"cycle" json:"cycle"` // quarterly / semiannual
	EffectiveDates []time.Time `yaml:"effective_dates" json:"effective_dates"`
}

// RebalanceItem is one known or predicted add/delete event
type RebalanceItem struct {
	Code          string    `yaml:"code" json:"code"`
	Name          string    `yaml:"name" json:"name"`
	Index         string    `yaml:"index" json:"index"`
	Action        string    `yaml:"action" json:"action"` // add / delete
	EffectiveDate time.Time `yaml:"effective_date" json:"effective_date"`
	Predicted     bool      `yaml:"predicted" json:"predicted"`
}

// SectorEventCalendar holds industry events mapped to sectors
type SectorEventCalendar struct {
	Year   int           `yaml:"year" json:"year"`
	Events []SectorEvent `yaml:"events" json:"events"`
}

// SectorEvent is one trade show / conference / seasonal demand window
type SectorEvent struct {
	Name         string      `yaml:"name" json:"name"`
	Sector       string      `yaml:"sector" json:"sector"`
	Start        time.Time   `yaml:"start" json:"start"`
	End          time.Time   `yaml:"end" json:"end"`
	Impact       EventImpact `yaml:"impact" json:"impact"`
	RelatedCodes []string    `yaml:"related_codes" json:"related_codes"`
	Strategy     string      `yaml:"strategy" json:"strategy"` // 매매 힌트 (자유 텍스트)
}

// Contains reports whether d falls inside the event window
func (e SectorEvent) Contains(d time.Time) bool {
	return DateRange{Start: e.Start, End: e.End}.Contains(d)
}

// CouplingTable maps KR stocks to their US coupling references
type CouplingTable struct {
	Stocks map[string]CouplingMapping `yaml:"stocks" json:"stocks"` // key: 종목코드

	// SectorDefaults: 매핑이 없는 종목의 섹터별 폴백
	// "_default" 키는 섹터도 알 수 없을 때의 전역 폴백
	SectorDefaults map[string]CouplingMapping `yaml:"sector_defaults" json:"sector_defaults"`
}

// CouplingMapping is one stock's (or sector's) US reference set
type CouplingMapping struct {
	USSymbols   []string         `yaml:"us_symbols" json:"us_symbols"`
	USIndices   []string         `yaml:"us_indices" json:"us_indices"`
	Sector      string           `yaml:"sector" json:"sector"`
	Strength    CouplingStrength `yaml:"strength" json:"strength"`
	Description string           `yaml:"description" json:"description"`
}
