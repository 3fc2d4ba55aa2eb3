package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time {
		return time.Date(y, m, d, 11, 30, 0, 0, time.UTC)
	}
}

func newMacroFetcher(t *testing.T, clock func() time.Time) *MacroFetcher {
	t.Helper()
	f := NewMacroFetcher(refdata.DefaultMacroCalendar(), logger.NewNop())
	f.SetClock(clock)
	return f
}

func TestAnalyzeFOMCDay(t *testing.T) {
	// 2026-01-28: FOMC 결정일
	f := newMacroFetcher(t, fixedClock(2026, 1, 28))

	r := f.Analyze(14)
	require.NotNil(t, r)

	require.Len(t, r.Today, 1)
	assert.Equal(t, CategoryRateDecision, r.Today[0].Category)
	assert.Equal(t, 0, r.Today[0].DDay)

	assert.InDelta(t, 0.4, r.RiskScore, 1e-9)
	assert.Equal(t, RiskHigh, r.RiskLevel)
	assert.Equal(t, 0.7, r.PositionAdjustment)

	// 당일 critical → 경고와 노출 축소 강제
	assert.True(t, r.ShouldReduceExposure)
	assert.NotEmpty(t, r.Warning)
}

func TestAnalyzeFOMCEve(t *testing.T) {
	// FOMC 전일: D+1 critical
	f := newMacroFetcher(t, fixedClock(2026, 1, 27))

	r := f.Analyze(14)

	assert.Empty(t, r.Today)
	assert.True(t, r.ShouldReduceExposure)
	assert.NotEmpty(t, r.Warning)
	assert.GreaterOrEqual(t, r.RiskScore, 0.3)
}

func TestAnalyzeCriticalTwoDaysOut(t *testing.T) {
	// D+2 critical은 점수에 0.3 기여, 경고는 없음
	f := newMacroFetcher(t, fixedClock(2026, 1, 26))

	r := f.Analyze(14)

	assert.InDelta(t, 0.3, r.RiskScore, 1e-9)
	assert.Equal(t, RiskMedium, r.RiskLevel)
	assert.Equal(t, 0.9, r.PositionAdjustment)
	assert.False(t, r.ShouldReduceExposure)
	assert.Empty(t, r.Warning)

	found := false
	for _, ev := range r.Upcoming {
		if ev.Category == CategoryRateDecision && ev.DDay == 2 {
			found = true
		}
	}
	assert.True(t, found, "FOMC should appear in upcoming at D+2")
}

func TestAnalyzeQuietDay(t *testing.T) {
	// 2026-02-20: 당일 이벤트 없음
	f := newMacroFetcher(t, fixedClock(2026, 2, 20))

	r := f.Analyze(5)

	assert.Empty(t, r.Today)
	assert.Equal(t, 0.0, r.RiskScore)
	assert.Equal(t, RiskLow, r.RiskLevel)
	assert.Equal(t, 1.0, r.PositionAdjustment)
	assert.False(t, r.ShouldReduceExposure)

	// CPI(2/13)는 지난 주 버킷에
	foundCPI := false
	for _, ev := range r.PastWeek {
		if ev.Category == CategoryInflation {
			foundCPI = true
			assert.Negative(t, ev.DDay)
		}
	}
	assert.True(t, foundCPI)
}

func TestAnalyzeNeverPanics(t *testing.T) {
	f := newMacroFetcher(t, fixedClock(2026, 7, 1))

	valid := map[RiskLevel]bool{RiskCritical: true, RiskHigh: true, RiskMedium: true, RiskLow: true}

	for _, daysAhead := range []int{-5, 0, 1, 14, 365, 10000} {
		r := f.Analyze(daysAhead)
		require.NotNil(t, r, "daysAhead=%d", daysAhead)
		assert.True(t, valid[r.RiskLevel], "unexpected risk level %q", r.RiskLevel)
		assert.GreaterOrEqual(t, r.RiskScore, 0.0)
		assert.LessOrEqual(t, r.RiskScore, 1.0)
	}
}

func TestRuleGeneratedDates(t *testing.T) {
	// 2026년 1월: 1일이 목요일 → 첫 금요일은 2일
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), firstFriday(2026, time.January))

	// 2026년 3월: 셋째 금요일은 20일 (동시만기)
	assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), thirdFriday(2026, time.March))
}

func TestExpiryDayScored(t *testing.T) {
	// 동시만기일(2026-03-20)은 high 가중 0.25
	f := newMacroFetcher(t, fixedClock(2026, 3, 20))

	r := f.Analyze(0)

	foundExpiry := false
	for _, ev := range r.Today {
		if ev.Category == CategoryOptionsExpiry {
			foundExpiry = true
		}
	}
	assert.True(t, foundExpiry)
	assert.GreaterOrEqual(t, r.RiskScore, 0.25)
}

func TestRiskLevelThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0.75, RiskCritical},
		{0.7, RiskCritical},
		{0.5, RiskHigh},
		{0.4, RiskHigh},
		{0.25, RiskMedium},
		{0.2, RiskMedium},
		{0.1, RiskLow},
		{0.0, RiskLow},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, riskLevelFor(tc.score), "score=%v", tc.score)
	}
}
