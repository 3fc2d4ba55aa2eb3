package commands

import (
	"fmt"

	"github.com/wonny/argos/backend/internal/api/handlers"
	"github.com/wonny/argos/backend/internal/calendar"
	"github.com/wonny/argos/backend/internal/execution"
	"github.com/wonny/argos/backend/internal/global"
	"github.com/wonny/argos/backend/internal/integrity"
	"github.com/wonny/argos/backend/internal/marketdata"
	"github.com/wonny/argos/backend/internal/refdata"
	"github.com/wonny/argos/backend/internal/sentiment"
	"github.com/wonny/argos/backend/internal/validator"
	"github.com/wonny/argos/backend/internal/weights"
	"github.com/wonny/argos/backend/pkg/config"
	"github.com/wonny/argos/backend/pkg/httputil"
	"github.com/wonny/argos/backend/pkg/logger"
	"github.com/wonny/argos/backend/pkg/redis"
)

// engine bundles every analyzer the CLI and API commands need.
// 싱글턴 없이 여기서 한 번 조립해 명시적으로 넘긴다.
type engine struct {
	cfg     *config.Config
	log     *logger.Logger
	refdata *refdata.Store

	handler *handlers.EngineHandler
	history *weights.History
}

// buildEngine loads config and wires the full analyzer graph
func buildEngine() (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	loc := cfg.Location()

	store := refdata.LoadOrDefault(cfg.Engine.RefDataDir, log)

	httpClient := httputil.New(log, cfg.MarketData.Timeout, cfg.MarketData.RatePerSecond)

	// Redis가 켜져 있으면 프로세스 간 공유 레이트 리밋 적용
	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, using local rate limit only")
		rdb = redis.Disabled()
	}
	if rdb.Enabled() {
		httpClient = httpClient.WithSharedLimiter(redis.NewRateLimiter(rdb, "argos"), redis.ChartRateLimit)
	}

	provider := marketdata.NewClient(cfg, httpClient, log)

	globalFetcher := global.NewFetcher(provider, cfg.Engine.GlobalTTL, loc, log)
	history := weights.LoadHistory(cfg.Engine.WeightHistoryPath, log)

	handler := &handlers.EngineHandler{
		Meter:     sentiment.NewMeter(provider, cfg.Engine.SentimentTTL, log),
		Macro:     calendar.NewMacroFetcher(store.Macro, log),
		Passive:   calendar.NewPassiveTracker(store.Rebalance, log),
		Sectors:   calendar.NewSectorMonitor(store.Sector, log),
		Global:    globalFetcher,
		Coupling:  global.NewAnalyzer(globalFetcher, store.Coupling, log),
		Weights:   weights.NewOptimizer(provider, history, log),
		Validator: validator.New(log),
		Integrity: integrity.NewManager(provider, cfg.Engine.FuturesTTL, loc, log),
		Simulator: execution.NewSimulator(loc, log),
		Logger:    log,
	}

	return &engine{
		cfg:     cfg,
		log:     log,
		refdata: store,
		handler: handler,
		history: history,
	}, nil
}
