package execution

import (
	"time"

	"github.com/wonny/argos/backend/pkg/logger"
)

// OrderSide distinguishes buy and sell simulations
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// 수수료/세금 상수 (KRX 현물 기준)
const (
	buyCostRate  = 0.00015 // 매수: 수수료만 0.015%
	sellCostRate = 0.0023  // 매도: 세금+수수료 0.23%
)

// ExecutionResult is one simulated order fill
type ExecutionResult struct {
	Ticker        string    `json:"ticker"`
	Side          OrderSide `json:"side"`
	SignalPrice   float64   `json:"signal_price"`
	FillPrice     float64   `json:"fill_price"`
	Quantity      int       `json:"quantity"`
	TickSize      float64   `json:"tick_size"`
	SlippageTicks int       `json:"slippage_ticks"`
	SlippageAmt   float64   `json:"slippage_amt"` // 주문 전체 기준
	SlippagePct   float64   `json:"slippage_pct"`
	CostAmt       float64   `json:"cost_amt"` // 수수료+세금
	CostPct       float64   `json:"cost_pct"`
	TotalValue    float64   `json:"total_value"` // 체결가 × 수량
}

// PnLSimulation is a full round-trip outcome
type PnLSimulation struct {
	Buy  ExecutionResult `json:"buy"`
	Sell ExecutionResult `json:"sell"`

	GrossProfit  float64 `json:"gross_profit"`
	TotalCost    float64 `json:"total_cost"` // 슬리피지+수수료+세금
	NetProfit    float64 `json:"net_profit"`
	NetProfitPct float64 `json:"net_profit_pct"`
	BreakevenPct float64 `json:"breakeven_pct"`
}

// BreakevenEstimate decomposes the round-trip cost at one price level
type BreakevenEstimate struct {
	Price            float64 `json:"price"`
	TickSize         float64 `json:"tick_size"`
	BuySlippagePct   float64 `json:"buy_slippage_pct"`
	SellSlippagePct  float64 `json:"sell_slippage_pct"`
	BuyCostPct       float64 `json:"buy_cost_pct"`
	SellCostPct      float64 `json:"sell_cost_pct"`
	TotalBreakevenPct float64 `json:"total_breakeven_pct"`
}

// Simulator models realistic fills, costs and time-of-day factors.
// 순수 함수 모음: 상태 없음, 동시 호출 안전.
type Simulator struct {
	logger *logger.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewSimulator creates an execution simulator
func NewSimulator(loc *time.Location, log *logger.Logger) *Simulator {
	if loc == nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &Simulator{
		logger: log.WithField("component", "execution"),
		loc:    loc,
		now:    time.Now,
	}
}

// TickSize returns the KRX tick for a price level
func TickSize(price float64) float64 {
	switch {
	case price < 2_000:
		return 1
	case price < 5_000:
		return 5
	case price < 20_000:
		return 10
	case price < 50_000:
		return 50
	case price < 200_000:
		return 100
	case price < 500_000:
		return 500
	default:
		return 1_000
	}
}

// SimulateBuy models a buy fill: 슬리피지는 항상 불리한 방향(위)
func (s *Simulator) SimulateBuy(ticker string, price float64, quantity, slippageTicks int) ExecutionResult {
	return s.simulate(ticker, SideBuy, price, quantity, slippageTicks)
}

// SimulateSell models a sell fill: 슬리피지는 아래 방향
func (s *Simulator) SimulateSell(ticker string, price float64, quantity, slippageTicks int) ExecutionResult {
	return s.simulate(ticker, SideSell, price, quantity, slippageTicks)
}

func (s *Simulator) simulate(ticker string, side OrderSide, price float64, quantity, slippageTicks int) ExecutionResult {
	if slippageTicks < 0 {
		slippageTicks = 0
	}
	tick := TickSize(price)
	move := tick * float64(slippageTicks)

	fill := price + move
	if side == SideSell {
		fill = price - move
	}
	if fill < 0 {
		fill = 0
	}

	totalValue := fill * float64(quantity)
	costRate := buyCostRate
	if side == SideSell {
		costRate = sellCostRate
	}

	result := ExecutionResult{
		Ticker:        ticker,
		Side:          side,
		SignalPrice:   price,
		FillPrice:     fill,
		Quantity:      quantity,
		TickSize:      tick,
		SlippageTicks: slippageTicks,
		SlippageAmt:   move * float64(quantity),
		CostAmt:       totalValue * costRate,
		CostPct:       costRate * 100,
		TotalValue:    totalValue,
	}
	if price > 0 {
		result.SlippagePct = move / price * 100
	}
	return result
}

// SimulateRoundTrip models buy→sell with all frictions applied
func (s *Simulator) SimulateRoundTrip(ticker string, buyPrice, sellPrice float64, quantity, slippageTicks int) PnLSimulation {
	buy := s.SimulateBuy(ticker, buyPrice, quantity, slippageTicks)
	sell := s.SimulateSell(ticker, sellPrice, quantity, slippageTicks)

	// 체결가 기준 손익: 슬리피지는 이미 체결가에 반영됨
	gross := (sellPrice - buyPrice) * float64(quantity)
	cost := buy.SlippageAmt + sell.SlippageAmt + buy.CostAmt + sell.CostAmt
	net := gross - cost

	sim := PnLSimulation{
		Buy:         buy,
		Sell:        sell,
		GrossProfit: gross,
		TotalCost:   cost,
		NetProfit:   net,
	}
	if invested := buyPrice * float64(quantity); invested > 0 {
		sim.NetProfitPct = net / invested * 100
	}
	sim.BreakevenPct = buy.SlippagePct + sell.SlippagePct + buy.CostPct + sell.CostPct

	s.logger.WithFields(map[string]interface{}{
		"ticker":     ticker,
		"net_profit": net,
		"breakeven":  sim.BreakevenPct,
	}).Debug("Round trip simulated")
	return sim
}

// EstimateBreakeven decomposes the minimum gain needed to exit flat
// at the given price level (1틱 슬리피지 가정)
func (s *Simulator) EstimateBreakeven(price float64) BreakevenEstimate {
	tick := TickSize(price)
	est := BreakevenEstimate{
		Price:      price,
		TickSize:   tick,
		BuyCostPct: buyCostRate * 100,
		SellCostPct: sellCostRate * 100,
	}
	if price > 0 {
		est.BuySlippagePct = tick / price * 100
		est.SellSlippagePct = tick / price * 100
	}
	est.TotalBreakevenPct = est.BuySlippagePct + est.SellSlippagePct + est.BuyCostPct + est.SellCostPct
	return est
}
