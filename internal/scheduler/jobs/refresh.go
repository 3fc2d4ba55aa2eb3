// Package jobs holds the periodic refresh jobs that keep the engine's
// caches warm so request-path calls stay fast.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/argos/backend/internal/global"
	"github.com/wonny/argos/backend/internal/integrity"
	"github.com/wonny/argos/backend/internal/sentiment"
	"github.com/wonny/argos/backend/pkg/logger"
)

// SentimentRefreshJob re-derives the market sentiment every 10 minutes,
// matching the meter's cache TTL
type SentimentRefreshJob struct {
	meter  *sentiment.Meter
	global *global.Fetcher
	logger *logger.Logger
}

// NewSentimentRefreshJob creates the sentiment warm-up job.
// 글로벌 스냅샷도 함께 갱신한다 (VIX 의존성).
func NewSentimentRefreshJob(meter *sentiment.Meter, g *global.Fetcher, log *logger.Logger) *SentimentRefreshJob {
	return &SentimentRefreshJob{meter: meter, global: g, logger: log.WithField("job", "sentiment_refresh")}
}

func (j *SentimentRefreshJob) Name() string     { return "sentiment_refresh" }
func (j *SentimentRefreshJob) Schedule() string { return "@every 10m" }

func (j *SentimentRefreshJob) Run(ctx context.Context) error {
	if j.global != nil {
		j.global.Fetch(ctx, true)
	}
	result := j.meter.Analyze(ctx, true)
	j.logger.WithFields(map[string]interface{}{
		"score":     result.Score,
		"condition": result.Condition,
	}).Info("Sentiment refreshed")
	return nil
}

// FuturesRefreshJob keeps the 야간선물 cache at most a minute old
type FuturesRefreshJob struct {
	manager *integrity.Manager
	logger  *logger.Logger
}

// NewFuturesRefreshJob creates the futures warm-up job
func NewFuturesRefreshJob(manager *integrity.Manager, log *logger.Logger) *FuturesRefreshJob {
	return &FuturesRefreshJob{manager: manager, logger: log.WithField("job", "futures_refresh")}
}

func (j *FuturesRefreshJob) Name() string     { return "futures_refresh" }
func (j *FuturesRefreshJob) Schedule() string { return "@every 1m" }

func (j *FuturesRefreshJob) Run(ctx context.Context) error {
	all := j.manager.AllFutures(ctx)
	missing := 0
	for _, data := range all {
		if data.Freshness == integrity.FreshnessMissing {
			missing++
		}
	}
	if missing == len(all) {
		return fmt.Errorf("all %d futures feeds unavailable", len(all))
	}
	return nil
}

// HealthCheckJob reports futures data health once an hour
type HealthCheckJob struct {
	manager *integrity.Manager
	logger  *logger.Logger
}

// NewHealthCheckJob creates the hourly data health reporter
func NewHealthCheckJob(manager *integrity.Manager, log *logger.Logger) *HealthCheckJob {
	return &HealthCheckJob{manager: manager, logger: log.WithField("job", "health_check")}
}

func (j *HealthCheckJob) Name() string     { return "health_check" }
func (j *HealthCheckJob) Schedule() string { return "0 0 * * * *" }

func (j *HealthCheckJob) Run(ctx context.Context) error {
	report := j.manager.CheckDataHealth(ctx)
	if !report.Healthy {
		j.logger.WithField("symbols", len(report.Symbols)).Warn("Data health degraded")
		return nil // 데이터 저하는 에러가 아니라 로그 대상
	}
	j.logger.Info("Data health OK")
	return nil
}
