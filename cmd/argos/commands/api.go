package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/argos/backend/internal/api"
	"github.com/wonny/argos/backend/internal/scheduler"
	"github.com/wonny/argos/backend/internal/scheduler/jobs"
)

// apiCmd starts the HTTP API server with the refresh scheduler
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `의사결정 엔진 API 서버를 시작합니다.

백그라운드 스케줄러가 심리지표(10분)/야간선물(1분)/
데이터 상태(1시간) 캐시를 주기적으로 갱신합니다.

Endpoints:
  GET  /health                 - Liveness
  GET  /api/sentiment          - 시장 심리
  GET  /api/calendar           - 매크로 캘린더 리스크
  GET  /api/passive            - 패시브 리밸런싱 수급
  GET  /api/sectors            - 섹터 이벤트 점수
  GET  /api/global             - 글로벌 시장 스냅샷
  GET  /api/coupling/{code}    - 미장 커플링 분석
  GET  /api/weights/{regime}   - 동적 가중치
  GET  /api/futures            - 야간선물 시세
  GET  /api/premarket          - 프리마켓 시그널
  GET  /api/health             - 데이터 상태 리포트
  POST /api/validate           - 최종 시그널 검증
  POST /api/simulate           - 왕복 체결 시뮬레이션

Example:
  go run ./cmd/argos api
  go run ./cmd/argos api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	noScheduler  bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
	apiCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "백그라운드 갱신 스케줄러 비활성화")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	log := eng.log

	if apiPort != "" {
		eng.cfg.Port = apiPort
	}

	router := api.NewRouter(eng.handler, log)
	server := api.New(eng.cfg, log, router)

	var sched *scheduler.Scheduler
	if !noScheduler {
		sched = scheduler.New(log)
		h := eng.handler
		for _, job := range []scheduler.Job{
			jobs.NewSentimentRefreshJob(h.Meter, h.Global, log),
			jobs.NewFuturesRefreshJob(h.Integrity, log),
			jobs.NewHealthCheckJob(h.Integrity, log),
		} {
			if err := sched.Register(job); err != nil {
				return fmt.Errorf("register job: %w", err)
			}
		}
		sched.Start()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Argos API running on http://localhost:%s\n", eng.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// 성과 이력은 종료 시 한 번 저장
	if err := eng.history.Save(); err != nil {
		log.WithError(err).Warn("Weight history save failed")
	}

	log.Info("Server stopped")
	return nil
}
