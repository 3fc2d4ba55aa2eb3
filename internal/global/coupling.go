package global

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/pkg/logger"
)

// StockRef identifies one analysis target
type StockRef struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// CouplingResult is the US-coupling analysis for one KR stock
type CouplingResult struct {
	StockCode string `json:"stock_code"`
	StockName string `json:"stock_name"`
	Sector    string `json:"sector"`

	Strength  refdata.CouplingStrength `json:"strength"`
	USSymbols []string                 `json:"us_symbols"`
	USIndices []string                 `json:"us_indices"`

	// CouplingScore ∈ [-100, 100], 양수 = 미장 순풍
	CouplingScore    float64 `json:"coupling_score"`
	AdjustmentFactor float64 `json:"adjustment_factor"`

	StockAvgChangePct float64 `json:"stock_avg_change_pct"`
	IndexAvgChangePct float64 `json:"index_avg_change_pct"`

	OverallSentiment MarketSentiment `json:"overall_sentiment"`
	SectorSentiment  MarketSentiment `json:"sector_sentiment"`

	AnalysisReason string    `json:"analysis_reason"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}

// Analyzer scores KR stocks against their US coupling references
// ⭐ SSOT: 미국-한국 커플링 점수는 여기서만 계산
type Analyzer struct {
	fetcher *Fetcher
	table   *refdata.CouplingTable
	logger  *logger.Logger
}

// NewAnalyzer creates a coupling analyzer
func NewAnalyzer(fetcher *Fetcher, table *refdata.CouplingTable, log *logger.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		table:   table,
		logger:  log.WithField("component", "global.coupling"),
	}
}

// Analyze scores one stock against the current global snapshot
func (a *Analyzer) Analyze(ctx context.Context, ref StockRef) *CouplingResult {
	snap := a.fetcher.Fetch(ctx, false)
	return a.analyzeWith(snap, ref)
}

// AnalyzeBatch scores several stocks against one shared snapshot
func (a *Analyzer) AnalyzeBatch(ctx context.Context, refs []StockRef) []*CouplingResult {
	snap := a.fetcher.Fetch(ctx, false)
	results := make([]*CouplingResult, 0, len(refs))
	for _, ref := range refs {
		results = append(results, a.analyzeWith(snap, ref))
	}
	return results
}

func (a *Analyzer) analyzeWith(snap *Snapshot, ref StockRef) *CouplingResult {
	mapping := a.resolveMapping(ref)

	result := &CouplingResult{
		StockCode:        ref.Code,
		StockName:        ref.Name,
		Sector:           ref.Sector,
		Strength:         mapping.Strength,
		USSymbols:        mapping.USSymbols,
		USIndices:        mapping.USIndices,
		AdjustmentFactor: 1.0,
		OverallSentiment: SentimentNeutral,
		AnalyzedAt:       time.Now(),
	}

	if snap != nil {
		result.OverallSentiment = snap.OverallSentiment
		if s, ok := snap.SectorSentiments[mapping.Sector]; ok {
			result.SectorSentiment = s
		} else {
			result.SectorSentiment = snap.OverallSentiment
		}
	} else {
		result.SectorSentiment = SentimentNeutral
	}

	if mapping.Strength == refdata.CouplingNone || snap == nil {
		result.AnalysisReason = fmt.Sprintf("%s(%s): 커플링 매핑 없음, 조정 생략", ref.Name, ref.Code)
		return result
	}

	stockAvg, stockN := averageChange(snap, mapping.USSymbols)
	indexAvg, indexN := averageChange(snap, mapping.USIndices)
	result.StockAvgChangePct = stockAvg
	result.IndexAvgChangePct = indexAvg

	if stockN == 0 && indexN == 0 {
		result.AnalysisReason = fmt.Sprintf("%s(%s): 미국 시세 데이터 없음, 중립 처리", ref.Name, ref.Code)
		return result
	}

	stockWeight, indexWeight := blendWeights(mapping.Strength)
	score := (stockAvg*stockWeight + indexAvg*indexWeight) * 10
	result.CouplingScore = clip(score, -100, 100)
	result.AdjustmentFactor = 1.0 + (result.CouplingScore/100)*maxAdjustment(mapping.Strength)

	result.AnalysisReason = fmt.Sprintf(
		"%s(%s) %s 커플링: 관련주 %+.2f%%, 지수 %+.2f%% → 점수 %.1f (미장 %s / 섹터 %s)",
		ref.Name, ref.Code, strengthLabel(mapping.Strength),
		stockAvg, indexAvg, result.CouplingScore,
		result.OverallSentiment, result.SectorSentiment,
	)

	a.logger.WithFields(map[string]interface{}{
		"code":     ref.Code,
		"strength": mapping.Strength,
		"score":    result.CouplingScore,
		"factor":   result.AdjustmentFactor,
	}).Debug("Coupling analyzed")

	return result
}

// resolveMapping: 직접 매핑 → 섹터 폴백 → "_default" 폴백
func (a *Analyzer) resolveMapping(ref StockRef) refdata.CouplingMapping {
	if a.table != nil {
		if m, ok := a.table.Stocks[ref.Code]; ok {
			return m
		}
		if ref.Sector != "" {
			if m, ok := a.table.SectorDefaults[ref.Sector]; ok {
				return m
			}
		}
		if m, ok := a.table.SectorDefaults["_default"]; ok {
			return m
		}
	}
	return refdata.CouplingMapping{Strength: refdata.CouplingNone}
}

// blendWeights returns (관련주 비중, 지수 비중) per coupling strength
func blendWeights(strength refdata.CouplingStrength) (float64, float64) {
	switch strength {
	case refdata.CouplingStrong:
		return 0.7, 0.3
	case refdata.CouplingModerate:
		return 0.5, 0.5
	default:
		return 0.3, 0.7
	}
}

// maxAdjustment bounds the position adjustment per coupling strength
func maxAdjustment(strength refdata.CouplingStrength) float64 {
	switch strength {
	case refdata.CouplingStrong:
		return 0.2
	case refdata.CouplingModerate:
		return 0.15
	case refdata.CouplingWeak:
		return 0.1
	default:
		return 0
	}
}

func strengthLabel(strength refdata.CouplingStrength) string {
	switch strength {
	case refdata.CouplingStrong:
		return "강한"
	case refdata.CouplingModerate:
		return "보통"
	case refdata.CouplingWeak:
		return "약한"
	default:
		return "없는"
	}
}

func averageChange(snap *Snapshot, symbols []string) (float64, int) {
	var sum float64
	var n int
	for _, symbol := range symbols {
		if pct, ok := snap.ChangePct(symbol); ok {
			sum += pct
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
