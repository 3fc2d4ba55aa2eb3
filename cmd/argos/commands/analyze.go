package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/internal/global"
)

// 단발 분석 커맨드들: 엔진을 조립해 한 번 실행하고 JSON으로 출력

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "시장 심리 분석",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		return printJSON(eng.handler.Meter.Analyze(context.Background(), true))
	},
}

var calendarDaysAhead int

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "매크로 캘린더 리스크 분석",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		return printJSON(eng.handler.Macro.Analyze(calendarDaysAhead))
	},
}

var couplingSector string

var couplingCmd = &cobra.Command{
	Use:   "coupling [종목코드]",
	Short: "미장 커플링 분석",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		ref := global.StockRef{Code: args[0], Sector: couplingSector}
		return printJSON(eng.handler.Coupling.Analyze(context.Background(), ref))
	},
}

var weightsCmd = &cobra.Command{
	Use:   "weights [BULL|BEAR|SIDEWAY]",
	Short: "레짐별 동적 가중치 조회",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine()
		if err != nil {
			return err
		}
		regime := contracts.ParseRegime(args[0])
		return printJSON(eng.handler.Weights.GetOptimizedWeights(context.Background(), regime, nil))
	},
}

func init() {
	calendarCmd.Flags().IntVar(&calendarDaysAhead, "days-ahead", 14, "조회할 일수")
	couplingCmd.Flags().StringVar(&couplingSector, "sector", "", "섹터 (매핑 폴백용)")

	rootCmd.AddCommand(sentimentCmd, calendarCmd, couplingCmd, weightsCmd)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
