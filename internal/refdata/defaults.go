package refdata

import "time"

// Compiled-in 2026 reference data. YAML 파일이 없거나 깨져도
// 엔진이 기동은 되도록 하는 폴백. 운영에서는 config/argos/ 파일이 우선.

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// DefaultMacroCalendar returns the built-in 2026 macro calendar
func DefaultMacroCalendar() *MacroCalendar {
	return &MacroCalendar{
		Year: 2026,
		RateDecisions: []time.Time{
			d(2026, 1, 28), d(2026, 3, 18), d(2026, 4, 29), d(2026, 6, 17),
			d(2026, 7, 29), d(2026, 9, 16), d(2026, 10, 28), d(2026, 12, 9),
		},
		CentralBankMeetings: []time.Time{
			d(2026, 1, 15), d(2026, 2, 26), d(2026, 4, 9), d(2026, 5, 28),
			d(2026, 7, 9), d(2026, 8, 27), d(2026, 10, 15), d(2026, 11, 26),
		},
		EarningsSeasons: []DateRange{
			{Name: "4Q 실적시즌", Start: d(2026, 1, 15), End: d(2026, 2, 15)},
			{Name: "1Q 실적시즌", Start: d(2026, 4, 15), End: d(2026, 5, 15)},
			{Name: "2Q 실적시즌", Start: d(2026, 7, 15), End: d(2026, 8, 15)},
			{Name: "3Q 실적시즌", Start: d(2026, 10, 15), End: d(2026, 11, 15)},
		},
	}
}

// DefaultRebalanceSchedule returns the built-in 2026 rebalance schedule
func DefaultRebalanceSchedule() *RebalanceSchedule {
	return &RebalanceSchedule{
		Year: 2026,
		Families: []IndexFamily{
			{
				Name:  "MSCI",
				Cycle: "quarterly",
				EffectiveDates: []time.Time{
					d(2026, 2, 27), d(2026, 5, 29), d(2026, 8, 31), d(2026, 11, 30),
				},
			},
			{
				Name:  "KOSPI200",
				Cycle: "semiannual",
				EffectiveDates: []time.Time{
					d(2026, 6, 12), d(2026, 12, 11),
				},
			},
		},
		Events: []RebalanceItem{
			{Code: "247540", Name: "에코프로비엠", Index: "MSCI", Action: "add", EffectiveDate: d(2026, 5, 29), Predicted: true},
			{Code: "034020", Name: "두산에너빌리티", Index: "KOSPI200", Action: "add", EffectiveDate: d(2026, 6, 12), Predicted: true},
			{Code: "011170", Name: "롯데케미칼", Index: "MSCI", Action: "delete", EffectiveDate: d(2026, 5, 29), Predicted: true},
			{Code: "090430", Name: "아모레퍼시픽", Index: "KOSPI200", Action: "delete", EffectiveDate: d(2026, 6, 12), Predicted: false},
		},
		Memberships: map[string][]string{
			"KOSPI200": {"005930", "000660", "373220", "207940", "005380", "000270", "035420", "051910", "006400", "068270"},
			"MSCI":     {"005930", "000660", "373220", "207940", "005380", "035420"},
		},
		Weights: map[string]float64{
			"005930": 28.5,
			"000660": 7.2,
			"373220": 4.1,
			"207940": 3.6,
			"005380": 2.9,
			"035420": 2.1,
		},
	}
}

// DefaultSectorEventCalendar returns the built-in 2026 sector events
func DefaultSectorEventCalendar() *SectorEventCalendar {
	return &SectorEventCalendar{
		Year: 2026,
		Events: []SectorEvent{
			{Name: "CES 2026", Sector: "반도체", Start: d(2026, 1, 6), End: d(2026, 1, 9), Impact: ImpactHigh,
				RelatedCodes: []string{"005930", "000660", "066570"}, Strategy: "행사 2주 전 선매수, 개막일 차익실현 고려"},
			{Name: "JP모건 헬스케어 컨퍼런스", Sector: "바이오", Start: d(2026, 1, 12), End: d(2026, 1, 15), Impact: ImpactHigh,
				RelatedCodes: []string{"207940", "068270", "326030"}, Strategy: "발표 기업 위주 단기 대응"},
			{Name: "MWC 바르셀로나", Sector: "IT", Start: d(2026, 3, 2), End: d(2026, 3, 5), Impact: ImpactMedium,
				RelatedCodes: []string{"005930", "066570", "030200"}, Strategy: "통신장비·단말 수혜"},
			{Name: "춘계 건설 성수기", Sector: "건설", Start: d(2026, 3, 1), End: d(2026, 5, 31), Impact: ImpactLow,
				RelatedCodes: []string{"000720", "028050"}, Strategy: "분양 물량 확인 후 진입"},
			{Name: "인터배터리 2026", Sector: "2차전지", Start: d(2026, 3, 4), End: d(2026, 3, 6), Impact: ImpactHigh,
				RelatedCodes: []string{"373220", "006400", "247540", "051910"}, Strategy: "신기술 공개 여부가 관건"},
			{Name: "상하이 모터쇼", Sector: "자동차", Start: d(2026, 4, 21), End: d(2026, 4, 29), Impact: ImpactMedium,
				RelatedCodes: []string{"005380", "000270", "012330"}, Strategy: "중국 판매 회복 시그널 주시"},
			{Name: "Computex 타이베이", Sector: "반도체", Start: d(2026, 6, 2), End: d(2026, 6, 5), Impact: ImpactHigh,
				RelatedCodes: []string{"005930", "000660"}, Strategy: "AI 서버 수요 모멘텀"},
			{Name: "여름 에어컨 성수기", Sector: "가전", Start: d(2026, 6, 1), End: d(2026, 8, 15), Impact: ImpactLow,
				RelatedCodes: []string{"066570"}, Strategy: "폭염 예보와 동행"},
			{Name: "ASCO 연례학회", Sector: "바이오", Start: d(2026, 5, 29), End: d(2026, 6, 2), Impact: ImpactMedium,
				RelatedCodes: []string{"068270", "207940"}, Strategy: "임상 발표 일정 확인"},
			{Name: "IFA 베를린", Sector: "가전", Start: d(2026, 9, 4), End: d(2026, 9, 8), Impact: ImpactMedium,
				RelatedCodes: []string{"005930", "066570"}, Strategy: "신제품 공개 전후 변동성"},
			{Name: "추석 연휴 소비시즌", Sector: "유통", Start: d(2026, 9, 20), End: d(2026, 9, 29), Impact: ImpactLow,
				RelatedCodes: []string{"023530", "139480"}, Strategy: "선물세트 매출 추이"},
			{Name: "국제 방위산업 전시회", Sector: "방산", Start: d(2026, 10, 6), End: d(2026, 10, 10), Impact: ImpactMedium,
				RelatedCodes: []string{"012450", "047810", "079550"}, Strategy: "수주 공시 연동 매매"},
			{Name: "광군제", Sector: "유통", Start: d(2026, 11, 1), End: d(2026, 11, 11), Impact: ImpactMedium,
				RelatedCodes: []string{"090430", "051900"}, Strategy: "중국 소비주 단기 트레이딩"},
			{Name: "블랙프라이데이 시즌", Sector: "IT", Start: d(2026, 11, 20), End: d(2026, 12, 1), Impact: ImpactMedium,
				RelatedCodes: []string{"005930", "066570"}, Strategy: "북미 세트 판매 수혜"},
			{Name: "동계 난방 성수기", Sector: "에너지", Start: d(2026, 12, 1), End: d(2026, 12, 31), Impact: ImpactLow,
				RelatedCodes: []string{"036460", "017390"}, Strategy: "한파 전망과 동행"},
		},
	}
}

// DefaultCouplingTable returns the built-in KR→US coupling map
func DefaultCouplingTable() *CouplingTable {
	return &CouplingTable{
		Stocks: map[string]CouplingMapping{
			"005930": {USSymbols: []string{"NVDA", "AMD", "MU", "TSM"}, USIndices: []string{"SOX", "NASDAQ"},
				Sector: "반도체", Strength: CouplingStrong, Description: "삼성전자: 미국 반도체 업황 직결"},
			"000660": {USSymbols: []string{"NVDA", "MU", "WDC"}, USIndices: []string{"SOX", "NASDAQ"},
				Sector: "반도체", Strength: CouplingStrong, Description: "SK하이닉스: HBM·메모리 사이클 동조"},
			"373220": {USSymbols: []string{"TSLA", "ALB"}, USIndices: []string{"NASDAQ"},
				Sector: "2차전지", Strength: CouplingStrong, Description: "LG에너지솔루션: 전기차 체인 동조"},
			"006400": {USSymbols: []string{"TSLA", "ALB"}, USIndices: []string{"NASDAQ"},
				Sector: "2차전지", Strength: CouplingModerate, Description: "삼성SDI: 전기차 수요 간접 연동"},
			"035420": {USSymbols: []string{"GOOGL", "META"}, USIndices: []string{"NASDAQ"},
				Sector: "인터넷", Strength: CouplingModerate, Description: "NAVER: 미국 빅테크 밸류에이션 연동"},
			"035720": {USSymbols: []string{"GOOGL", "META"}, USIndices: []string{"NASDAQ"},
				Sector: "인터넷", Strength: CouplingWeak, Description: "카카오: 내수 비중 높아 약한 연동"},
			"005380": {USSymbols: []string{"TSLA", "GM", "F"}, USIndices: []string{"SP500"},
				Sector: "자동차", Strength: CouplingModerate, Description: "현대차: 미국 판매 비중 상당"},
			"000270": {USSymbols: []string{"TSLA", "GM", "F"}, USIndices: []string{"SP500"},
				Sector: "자동차", Strength: CouplingModerate, Description: "기아: 북미 수출 연동"},
			"068270": {USSymbols: []string{"PFE", "JNJ"}, USIndices: []string{"SP500"},
				Sector: "바이오", Strength: CouplingWeak, Description: "셀트리온: 바이오시밀러, 연동 약함"},
			"207940": {USSymbols: []string{"PFE", "MRNA"}, USIndices: []string{"SP500"},
				Sector: "바이오", Strength: CouplingWeak, Description: "삼성바이오로직스: CDMO, 연동 약함"},
		},
		SectorDefaults: map[string]CouplingMapping{
			"반도체": {USSymbols: []string{"NVDA", "TSM"}, USIndices: []string{"SOX"},
				Sector: "반도체", Strength: CouplingStrong, Description: "반도체 섹터 기본 매핑"},
			"2차전지": {USSymbols: []string{"TSLA"}, USIndices: []string{"NASDAQ"},
				Sector: "2차전지", Strength: CouplingModerate, Description: "2차전지 섹터 기본 매핑"},
			"인터넷": {USSymbols: []string{"GOOGL", "META"}, USIndices: []string{"NASDAQ"},
				Sector: "인터넷", Strength: CouplingModerate, Description: "인터넷 섹터 기본 매핑"},
			"자동차": {USSymbols: []string{"TSLA", "GM"}, USIndices: []string{"SP500"},
				Sector: "자동차", Strength: CouplingModerate, Description: "자동차 섹터 기본 매핑"},
			"바이오": {USSymbols: []string{"PFE"}, USIndices: []string{"SP500"},
				Sector: "바이오", Strength: CouplingWeak, Description: "바이오 섹터 기본 매핑"},
			"_default": {USSymbols: nil, USIndices: []string{"SP500"},
				Sector: "기타", Strength: CouplingWeak, Description: "섹터 미상: 시장 전체 연동만 반영"},
		},
	}
}
