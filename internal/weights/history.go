package weights

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wonny/argos/backend/internal/contracts"
	"github.com/wonny/argos/backend/pkg/logger"
)

const (
	maxRecordsMemory = 100 // 메모리 보관 한도
	maxRecordsDisk   = 50  // 저장 시 최근 N개만
)

// PerformanceRecord is one realized trade outcome tied to the weights used
type PerformanceRecord struct {
	Regime     contracts.MarketRegime `json:"regime"`
	StockCode  string                 `json:"stock_code"`
	Weights    map[string]float64     `json:"weights"`
	ReturnPct  float64                `json:"return_pct"`
	Win        bool                   `json:"win"`
	RecordedAt time.Time              `json:"recorded_at"`
}

// Stats summarizes outcomes for one regime
type Stats struct {
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	WinRate      float64 `json:"win_rate"`
	AvgReturnPct float64 `json:"avg_return_pct"`
}

// historyFile is the on-disk JSON layout
type historyFile struct {
	Records   []PerformanceRecord `json:"records"`
	UpdatedAt string              `json:"updated_at"` // ISO-8601
}

// History is the capped append-only performance log.
// 디스크 반영은 명시적 Save() 호출 시에만. 파일 잠금 없음 —
// 단일 프로세스, 저빈도 사용 전제.
type History struct {
	mu      sync.Mutex
	path    string
	records []PerformanceRecord
	logger  *logger.Logger
}

// LoadHistory reads the history file, tolerating a missing file
func LoadHistory(path string, log *logger.Logger) *History {
	h := &History{
		path:   path,
		logger: log.WithField("component", "weights.history"),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			h.logger.WithError(err).Warn("History file unreadable, starting empty")
		}
		return h
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		h.logger.WithError(err).Warn("History file corrupt, starting empty")
		return h
	}

	h.records = file.Records
	if len(h.records) > maxRecordsMemory {
		h.records = h.records[len(h.records)-maxRecordsMemory:]
	}
	return h
}

// Append adds one record, evicting the oldest past the memory cap
func (h *History) Append(rec PerformanceRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	h.records = append(h.records, rec)
	if len(h.records) > maxRecordsMemory {
		h.records = h.records[len(h.records)-maxRecordsMemory:]
	}
}

// Stats aggregates the recorded outcomes for one regime
func (h *History) Stats(regime contracts.MarketRegime) Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var s Stats
	var retSum float64
	for _, rec := range h.records {
		if rec.Regime != regime {
			continue
		}
		s.Trades++
		retSum += rec.ReturnPct
		if rec.Win {
			s.Wins++
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
		s.AvgReturnPct = retSum / float64(s.Trades)
	}
	return s
}

// Len returns the number of records held in memory
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

// Save writes the most recent records to disk
func (h *History) Save() error {
	h.mu.Lock()
	src := h.records
	if len(src) > maxRecordsDisk {
		src = src[len(src)-maxRecordsDisk:]
	}
	records := make([]PerformanceRecord, len(src))
	copy(records, src)
	h.mu.Unlock()

	out := historyFile{
		Records:   records,
		UpdatedAt: time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	h.logger.WithFields(map[string]interface{}{
		"path":    h.path,
		"records": len(records),
	}).Info("Weight history saved")
	return nil
}
