package contracts

// Category names for the 7 fusion input scores
// ⭐ SSOT: 가중치 맵의 키는 반드시 이 상수를 사용
const (
	CategoryTechnical     = "technical"      // 기술적 분석
	CategoryFundamental   = "fundamental"    // 재무/펀더멘털
	CategorySupplyDemand  = "supply_demand"  // 수급
	CategoryNews          = "news"           // 뉴스 감성
	CategoryAnalyst       = "analyst"        // 애널리스트 컨센서스
	CategoryMacro         = "macro"          // 매크로/글로벌 연동
	CategoryMarketContext = "market_context" // 시장 상황
)

// Categories lists all fusion categories in canonical order
func Categories() []string {
	return []string{
		CategoryTechnical,
		CategoryFundamental,
		CategorySupplyDemand,
		CategoryNews,
		CategoryAnalyst,
		CategoryMacro,
		CategoryMarketContext,
	}
}
