package marketdata

import (
	"context"
	"time"
)

// Quote is a point-in-time snapshot for one symbol
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`     // 전일 대비
	ChangePct float64   `json:"change_pct"` // 전일 대비 %
	Volume    int64     `json:"volume"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Candle is a single daily OHLCV bar
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Breadth is same-day advance/decline counts for one market
type Breadth struct {
	Market    string    `json:"market"`
	Advancing int       `json:"advancing"`
	Declining int       `json:"declining"`
	Unchanged int       `json:"unchanged"`
	TradeDate time.Time `json:"trade_date"`
}

// Ratio returns advancing/declining, guarding the zero-decliner day
func (b *Breadth) Ratio() float64 {
	if b.Declining == 0 {
		if b.Advancing == 0 {
			return 1.0
		}
		return float64(b.Advancing)
	}
	return float64(b.Advancing) / float64(b.Declining)
}

// Provider supplies market data to the analyzers
// ⭐ SSOT: 분석기는 반드시 이 인터페이스를 통해서만 시세에 접근
// 구현체 교체(테스트 페이크 포함)가 가능해야 함
type Provider interface {
	// Quote returns the latest price with 1-day change for a symbol
	Quote(ctx context.Context, symbol string) (*Quote, error)

	// DailyCandles returns up to `days` daily bars, newest first
	DailyCandles(ctx context.Context, symbol string, days int) ([]Candle, error)

	// MarketBreadth returns same-day advance/decline counts for a market
	MarketBreadth(ctx context.Context, market string) (*Breadth, error)
}

// Well-known symbols used across the engine
const (
	SymbolKOSPI  = "KOSPI"
	SymbolKOSDAQ = "KOSDAQ"
	SymbolVIX    = "VIX"

	SymbolNasdaqFutures = "NQ=F"
	SymbolSP500Futures  = "ES=F"
	SymbolDowFutures    = "YM=F"
)
