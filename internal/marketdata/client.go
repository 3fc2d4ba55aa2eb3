package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/argos/backend/pkg/config"
	"github.com/wonny/argos/backend/pkg/httputil"
	"github.com/wonny/argos/backend/pkg/logger"
)

// Client fetches quotes and candles from the chart JSON API
// ⭐ SSOT: 외부 시세 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient    *httputil.Client
	chartBaseURL  string
	globalBaseURL string
	logger        *logger.Logger
}

// NewClient creates a market data client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:    httpClient,
		chartBaseURL:  strings.TrimRight(cfg.MarketData.ChartBaseURL, "/"),
		globalBaseURL: strings.TrimRight(cfg.MarketData.GlobalBaseURL, "/"),
		logger:        log.WithField("component", "marketdata"),
	}
}

// Quote returns the latest price with 1-day change, derived from a
// 2-day candle window (the chart API has no dedicated quote endpoint)
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	candles, err := c.DailyCandles(ctx, symbol, 2)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles for %s", symbol)
	}

	q := &Quote{
		Symbol:    symbol,
		Price:     candles[0].Close,
		Volume:    candles[0].Volume,
		FetchedAt: time.Now(),
	}

	if len(candles) >= 2 && candles[1].Close > 0 {
		q.Change = candles[0].Close - candles[1].Close
		q.ChangePct = q.Change / candles[1].Close * 100
	}

	return q, nil
}

// DailyCandles fetches up to `days` daily bars for a symbol, newest first
func (c *Client) DailyCandles(ctx context.Context, symbol string, days int) ([]Candle, error) {
	to := time.Now()
	// 주말/휴장일 여유분을 두고 조회
	from := to.AddDate(0, 0, -(days*2 + 10))

	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartBaseURL, symbol,
		from.Format("20060102"), to.Format("20060102"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	candles, err := parseCandleResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	if len(candles) > days {
		candles = candles[:days]
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(candles),
	}).Debug("Fetched daily candles")

	return candles, nil
}

// MarketBreadth fetches same-day advance/decline counts for a market
func (c *Client) MarketBreadth(ctx context.Context, market string) (*Breadth, error) {
	fullURL := fmt.Sprintf("%s/api/index/%s/breadth", c.globalBaseURL, market)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	var raw struct {
		Bizdate   string `json:"bizdate"`
		Advancing int    `json:"riseCnt"`
		Declining int    `json:"fallCnt"`
		Unchanged int    `json:"sameCnt"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	b := &Breadth{
		Market:    market,
		Advancing: raw.Advancing,
		Declining: raw.Declining,
		Unchanged: raw.Unchanged,
	}
	if raw.Bizdate != "" {
		if d, err := time.Parse("20060102", raw.Bizdate); err == nil {
			b.TradeDate = d
		}
	}

	return b, nil
}

// parseCandleResponse parses the chart API's quasi-JSON array response
func parseCandleResponse(body string) ([]Candle, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err != nil {
		return nil, fmt.Errorf("unmarshal chart payload: %w", err)
	}

	candles := make([]Candle, 0, len(rawData))
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // Skip header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		dateStr = strings.Trim(dateStr, "\"")
		date, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}

		c := Candle{Date: date}
		if v, ok := toFloat(row[1]); ok {
			c.Open = v
		}
		if v, ok := toFloat(row[2]); ok {
			c.High = v
		}
		if v, ok := toFloat(row[3]); ok {
			c.Low = v
		}
		if v, ok := toFloat(row[4]); ok {
			c.Close = v
		}
		if v, ok := toFloat(row[5]); ok {
			c.Volume = int64(v)
		}

		if c.Close > 0 {
			candles = append(candles, c)
		}
	}

	// API returns oldest first; analyzers expect newest first
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}

	return candles, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
