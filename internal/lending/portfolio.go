package lending

// PortfolioSummary rolls up a wallet's borrowing positions
type PortfolioSummary struct {
	TotalBorrowedUSD   float64                `json:"total_borrowed_usd"`
	TotalCollateralUSD float64                `json:"total_collateral_usd"`
	BlendedLTV         float64                `json:"blended_ltv"`
	ActivePositions    int                    `json:"active_positions"`
	ByRiskBucket       map[HealthStatus]int   `json:"by_risk_bucket"`
	ByStatus           map[PositionStatus]int `json:"by_status"`
}

// Summarize aggregates active positions into portfolio statistics.
// Closed positions contribute to the status counts only, so a repaid
// position never moves the borrowed/collateral totals a second time.
func Summarize(positions []BorrowPosition) *PortfolioSummary {
	summary := &PortfolioSummary{
		ByRiskBucket: make(map[HealthStatus]int),
		ByStatus:     make(map[PositionStatus]int),
	}

	for i := range positions {
		p := &positions[i]
		summary.ByStatus[p.Status]++
		if p.Status != PositionStatusActive {
			continue
		}
		summary.ActivePositions++
		summary.TotalBorrowedUSD += p.PrincipalUSD
		summary.TotalCollateralUSD += p.CollateralValueUSD
		summary.ByRiskBucket[Classify(p)]++
	}

	if summary.TotalCollateralUSD > 0 {
		summary.BlendedLTV = summary.TotalBorrowedUSD / summary.TotalCollateralUSD
	}

	return summary
}
