package refdata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wonny/argos/backend/pkg/logger"
)

// Store bundles all loaded reference data
// ⭐ SSOT: 연간 캘린더/커플링 데이터 접근은 이 타입을 통해서만
type Store struct {
	Macro     *MacroCalendar
	Rebalance *RebalanceSchedule
	Sector    *SectorEventCalendar
	Coupling  *CouplingTable
}

// File names expected under the refdata directory
const (
	macroFile     = "macro_calendar.yaml"
	rebalanceFile = "rebalance.yaml"
	sectorFile    = "sector_events.yaml"
	couplingFile  = "coupling_map.yaml"
)

// Load reads all reference data files from dir with strict decoding.
// 파일 하나라도 깨져 있으면 에러 (오타 조기 발견이 목적)
func Load(dir string) (*Store, error) {
	s := &Store{}

	if err := loadStrict(filepath.Join(dir, macroFile), &s.Macro); err != nil {
		return nil, fmt.Errorf("load %s: %w", macroFile, err)
	}
	if err := loadStrict(filepath.Join(dir, rebalanceFile), &s.Rebalance); err != nil {
		return nil, fmt.Errorf("load %s: %w", rebalanceFile, err)
	}
	if err := loadStrict(filepath.Join(dir, sectorFile), &s.Sector); err != nil {
		return nil, fmt.Errorf("load %s: %w", sectorFile, err)
	}
	if err := loadStrict(filepath.Join(dir, couplingFile), &s.Coupling); err != nil {
		return nil, fmt.Errorf("load %s: %w", couplingFile, err)
	}

	return s, nil
}

// LoadOrDefault loads reference data, falling back to the compiled-in
// year data when the directory is missing or unreadable. 엔진은 참조
// 데이터 없이도 기동해야 하므로 (§degraded-but-present) 실패는 폴백.
func LoadOrDefault(dir string, log *logger.Logger) *Store {
	s, err := Load(dir)
	if err != nil {
		log.WithError(err).WithField("dir", dir).Warn("Reference data load failed, using built-in defaults")
		return Defaults()
	}

	log.WithFields(map[string]interface{}{
		"dir":           dir,
		"macro_year":    s.Macro.Year,
		"sector_events": len(s.Sector.Events),
	}).Info("Reference data loaded")

	return s
}

// Defaults returns the compiled-in reference data
func Defaults() *Store {
	return &Store{
		Macro:     DefaultMacroCalendar(),
		Rebalance: DefaultRebalanceSchedule(),
		Sector:    DefaultSectorEventCalendar(),
		Coupling:  DefaultCouplingTable(),
	}
}

// loadStrict decodes one YAML file with KnownFields(true).
// 알 수 없는 필드가 있으면 에러: 오타난 캘린더 키가 조용히 무시되지 않게
func loadStrict(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return nil
}
