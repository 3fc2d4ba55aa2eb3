package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "argos",
	Short: "Argos - 단일 종목 매매 의사결정 엔진",
	Long: `Argos Unified CLI

시장 심리, 매크로 캘린더, 패시브 수급, 미장 커플링을 종합해
한국 주식 단일 종목의 매매 시그널을 검증하는 의사결정 엔진.

Usage:
  go run ./cmd/argos [command]

Examples:
  go run ./cmd/argos api
  go run ./cmd/argos sentiment
  go run ./cmd/argos coupling 005930 --sector 반도체
  go run ./cmd/argos simulate --buy 55000 --sell 56000 --qty 100`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
