package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	simBuyPrice  float64
	simSellPrice float64
	simQuantity  int
	simTicks     int
	simTicker    string
)

// simulateCmd runs a round-trip execution simulation from the CLI
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "왕복 체결 시뮬레이션 (슬리피지+수수료+세금)",
	Example: `  go run ./cmd/argos simulate --buy 55000 --sell 56000 --qty 100
  go run ./cmd/argos simulate --ticker 000660 --buy 180000 --sell 185000 --qty 50 --ticks 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if simBuyPrice <= 0 || simSellPrice <= 0 || simQuantity <= 0 {
			return fmt.Errorf("--buy/--sell/--qty는 양수여야 합니다")
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}

		sim := eng.handler.Simulator.SimulateRoundTrip(simTicker, simBuyPrice, simSellPrice, simQuantity, simTicks)
		return printJSON(sim)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simTicker, "ticker", "", "종목코드")
	simulateCmd.Flags().Float64Var(&simBuyPrice, "buy", 0, "매수 신호 가격")
	simulateCmd.Flags().Float64Var(&simSellPrice, "sell", 0, "매도 신호 가격")
	simulateCmd.Flags().IntVar(&simQuantity, "qty", 0, "수량")
	simulateCmd.Flags().IntVar(&simTicks, "ticks", 1, "슬리피지 틱 수")

	rootCmd.AddCommand(simulateCmd)
}
