package calendar

import (
	"sort"
	"time"

	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// SectorResult ranks sectors by event-driven heat
type SectorResult struct {
	TargetSector string `json:"target_sector,omitempty"`

	Active   []refdata.SectorEvent `json:"active"`   // 진행 중
	Upcoming []refdata.SectorEvent `json:"upcoming"` // 60일 이내 시작
	Recent   []refdata.SectorEvent `json:"recent"`   // 14일 이내 종료

	SectorScores  map[string]float64 `json:"sector_scores"` // 0 ~ 100 (min-max 정규화)
	HotSectors    []string           `json:"hot_sectors"`   // 점수 ≥ 50, 내림차순
	BuyCandidates []string           `json:"buy_candidates"`
	AnalyzedAt    time.Time          `json:"analyzed_at"`
}

// SectorMonitor scores sectors from the industry event calendar
// ⭐ SSOT: 섹터 이벤트 스코어링은 여기서만
type SectorMonitor struct {
	data   *refdata.SectorEventCalendar
	logger *logger.Logger
	now    func() time.Time
}

// NewSectorMonitor creates a sector event monitor
func NewSectorMonitor(data *refdata.SectorEventCalendar, log *logger.Logger) *SectorMonitor {
	return &SectorMonitor{
		data:   data,
		logger: log.WithField("component", "calendar.sector"),
		now:    time.Now,
	}
}

const hotSectorThreshold = 50.0

// Analyze buckets events around today and ranks sector heat.
// targetSector가 주어지면 이벤트 목록과 매수 후보를 해당 섹터로 제한
// (점수 맵은 항상 전체 섹터 기준으로 정규화)
func (m *SectorMonitor) Analyze(targetSector string) *SectorResult {
	today := truncateDay(m.now())

	result := &SectorResult{
		TargetSector:  targetSector,
		Active:        make([]refdata.SectorEvent, 0),
		Upcoming:      make([]refdata.SectorEvent, 0),
		Recent:        make([]refdata.SectorEvent, 0),
		SectorScores:  make(map[string]float64),
		HotSectors:    make([]string, 0),
		BuyCandidates: make([]string, 0),
		AnalyzedAt:    m.now(),
	}

	raw := make(map[string]float64)
	candidates := make(map[string]bool)

	for _, ev := range m.data.Events {
		daysToStart := daysBetween(today, ev.Start)
		daysSinceEnd := -daysBetween(today, ev.End)

		switch {
		case ev.Contains(today):
			if m.matches(targetSector, ev.Sector) {
				result.Active = append(result.Active, ev)
			}
			// 진행 중 이벤트는 2배 가중
			raw[ev.Sector] += ev.Impact.Weight() * 2

			if ev.Impact == refdata.ImpactHigh || ev.Impact == refdata.ImpactMedium {
				m.collect(candidates, targetSector, ev)
			}

		case daysToStart > 0 && daysToStart <= 60:
			if m.matches(targetSector, ev.Sector) {
				result.Upcoming = append(result.Upcoming, ev)
			}
			// 30일 이내면 임박할수록 가중 (1.0 ~ 2.0)
			factor := 1.0
			if daysToStart <= 30 {
				factor = 1 + float64(30-daysToStart)/30
			}
			raw[ev.Sector] += ev.Impact.Weight() * factor

			if daysToStart <= 14 && ev.Impact == refdata.ImpactHigh {
				m.collect(candidates, targetSector, ev)
			}

		case daysSinceEnd > 0 && daysSinceEnd <= 14:
			if m.matches(targetSector, ev.Sector) {
				result.Recent = append(result.Recent, ev)
			}
		}
	}

	result.SectorScores = normalizeScores(raw)

	for sector, score := range result.SectorScores {
		if score >= hotSectorThreshold {
			result.HotSectors = append(result.HotSectors, sector)
		}
	}
	sort.Slice(result.HotSectors, func(i, j int) bool {
		si, sj := result.HotSectors[i], result.HotSectors[j]
		if result.SectorScores[si] != result.SectorScores[sj] {
			return result.SectorScores[si] > result.SectorScores[sj]
		}
		return si < sj
	})

	for code := range candidates {
		result.BuyCandidates = append(result.BuyCandidates, code)
	}
	sort.Strings(result.BuyCandidates)

	m.logger.WithFields(map[string]interface{}{
		"active":      len(result.Active),
		"upcoming":    len(result.Upcoming),
		"hot_sectors": result.HotSectors,
	}).Debug("Sector events analyzed")

	return result
}

func (m *SectorMonitor) matches(target, sector string) bool {
	return target == "" || target == sector
}

func (m *SectorMonitor) collect(dst map[string]bool, target string, ev refdata.SectorEvent) {
	if !m.matches(target, ev.Sector) {
		return
	}
	for _, code := range ev.RelatedCodes {
		dst[code] = true
	}
}

// normalizeScores min-max scales raw sums to 0~100
func normalizeScores(raw map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(raw))
	if len(raw) == 0 {
		return out
	}

	min, max := 0.0, 0.0
	first := true
	for _, v := range raw {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	for k, v := range raw {
		switch {
		case max > min:
			out[k] = (v - min) / (max - min) * 100
		case max > 0:
			out[k] = 100
		default:
			out[k] = 0
		}
	}
	return out
}

// SetClock overrides the time source (tests only)
func (m *SectorMonitor) SetClock(now func() time.Time) {
	m.now = now
}
