package calendar

import (
	"sync"
	"time"

	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// PassiveFlowResult estimates passive-fund flow exposure for a stock
type PassiveFlowResult struct {
	StockCode string `json:"stock_code,omitempty"`

	NextRebalanceDate  time.Time `json:"next_rebalance_date"`
	NextRebalanceIndex string    `json:"next_rebalance_index"`
	DaysUntilRebalance int       `json:"days_until_rebalance"`

	// 종목 지정 시에만 채워짐
	Memberships map[string]bool `json:"memberships,omitempty"` // 지수명 → 편입 여부
	IndexWeight float64         `json:"index_weight"`          // 지수 내 비중 (%)

	UpcomingEvents []refdata.RebalanceItem `json:"upcoming_events"`
	AnalyzedAt     time.Time               `json:"analyzed_at"`
}

// PassiveTracker tracks index-rebalance windows and add/delete events
// ⭐ SSOT: 패시브 자금 이벤트 관리는 여기서만
// 예측 이벤트 목록은 AddEvent로 갱신되는 가변 상태
type PassiveTracker struct {
	sched  *refdata.RebalanceSchedule
	mu     sync.RWMutex
	events []refdata.RebalanceItem
	logger *logger.Logger
	now    func() time.Time
}

// NewPassiveTracker creates a tracker seeded with the schedule's events
func NewPassiveTracker(sched *refdata.RebalanceSchedule, log *logger.Logger) *PassiveTracker {
	events := make([]refdata.RebalanceItem, len(sched.Events))
	copy(events, sched.Events)

	return &PassiveTracker{
		sched:  sched,
		events: events,
		logger: log.WithField("component", "calendar.passive"),
		now:    time.Now,
	}
}

// Analyze computes the next rebalance window and, when stockCode is
// non-empty, that stock's membership/weight exposure
func (t *PassiveTracker) Analyze(stockCode string) *PassiveFlowResult {
	today := truncateDay(t.now())

	result := &PassiveFlowResult{
		StockCode:      stockCode,
		UpcomingEvents: make([]refdata.RebalanceItem, 0),
		AnalyzedAt:     t.now(),
	}

	// 모든 패밀리의 미래 effective date 중 최솟값
	for _, fam := range t.sched.Families {
		for _, d := range fam.EffectiveDates {
			days := daysBetween(today, d)
			if days < 0 {
				continue
			}
			if result.NextRebalanceDate.IsZero() || d.Before(result.NextRebalanceDate) {
				result.NextRebalanceDate = d
				result.NextRebalanceIndex = fam.Name
				result.DaysUntilRebalance = days
			}
		}
	}

	t.mu.RLock()
	for _, ev := range t.events {
		if daysBetween(today, ev.EffectiveDate) >= 0 {
			result.UpcomingEvents = append(result.UpcomingEvents, ev)
		}
	}
	t.mu.RUnlock()

	if stockCode != "" {
		result.Memberships = make(map[string]bool, len(t.sched.Memberships))
		for index := range t.sched.Memberships {
			result.Memberships[index] = t.IsMember(index, stockCode)
		}
		result.IndexWeight = t.Weight(stockCode)
	}

	return result
}

// BuyCandidates returns predicted add events within daysBefore of their
// effective date (편입 전 선취 매수 후보)
func (t *PassiveTracker) BuyCandidates(daysBefore int) []refdata.RebalanceItem {
	return t.filterEvents("add", daysBefore)
}

// SellCandidates returns delete events within daysBefore of their
// effective date (편출 전 매도 후보)
func (t *PassiveTracker) SellCandidates(daysBefore int) []refdata.RebalanceItem {
	return t.filterEvents("delete", daysBefore)
}

func (t *PassiveTracker) filterEvents(action string, daysBefore int) []refdata.RebalanceItem {
	today := truncateDay(t.now())

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]refdata.RebalanceItem, 0)
	for _, ev := range t.events {
		if ev.Action != action {
			continue
		}
		days := daysBetween(today, ev.EffectiveDate)
		if days >= 0 && days <= daysBefore {
			out = append(out, ev)
		}
	}
	return out
}

// AddEvent registers a newly predicted add/delete event
func (t *PassiveTracker) AddEvent(ev refdata.RebalanceItem) {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()

	t.logger.WithFields(map[string]interface{}{
		"code":   ev.Code,
		"index":  ev.Index,
		"action": ev.Action,
	}).Info("Rebalance event added")
}

// IsMember reports index membership; unknown codes default to false
func (t *PassiveTracker) IsMember(index, code string) bool {
	for _, c := range t.sched.Memberships[index] {
		if c == code {
			return true
		}
	}
	return false
}

// Weight returns the stock's index weight; unknown codes default to 0.0
func (t *PassiveTracker) Weight(code string) float64 {
	return t.sched.Weights[code]
}

// SetClock overrides the time source (tests only)
func (t *PassiveTracker) SetClock(now func() time.Time) {
	t.now = now
}
