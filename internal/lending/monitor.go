package lending

import "sort"

// HealthStatus classifies a position's distance from its liquidation
// threshold.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthAtRisk   HealthStatus = "at_risk"
	HealthCritical HealthStatus = "critical"
)

// Classification pairs a position with its health bucket
type Classification struct {
	Position *BorrowPosition `json:"position"`
	Health   HealthStatus    `json:"health"`
}

// Classify buckets a position by comparing its current LTV to the
// liquidation threshold. Pure function: same inputs, same bucket.
//
//	ltv <  0.80 * threshold          healthy
//	ltv <  0.95 * threshold          warning
//	ltv <  threshold                 at_risk
//	ltv >= threshold                 critical
func Classify(p *BorrowPosition) HealthStatus {
	ltv := p.CurrentLTV()
	threshold := p.LiquidationThreshold

	switch {
	case ltv >= threshold:
		return HealthCritical
	case ltv >= threshold*0.95:
		return HealthAtRisk
	case ltv >= threshold*0.8:
		return HealthWarning
	default:
		return HealthHealthy
	}
}

// NeedsAttention reports whether a bucket belongs in the at-risk report.
func NeedsAttention(h HealthStatus) bool {
	return h != HealthHealthy
}

// ScanPortfolio classifies every active position and returns those
// needing attention (warning and worse), worst first. Classification has
// no side effects; enforcement belongs to external actors.
func ScanPortfolio(positions []BorrowPosition) []Classification {
	var flagged []Classification
	for i := range positions {
		p := &positions[i]
		if p.Status != PositionStatusActive {
			continue
		}
		if h := Classify(p); NeedsAttention(h) {
			flagged = append(flagged, Classification{Position: p, Health: h})
		}
	}

	// Critical before at-risk before warning
	rank := map[HealthStatus]int{HealthCritical: 0, HealthAtRisk: 1, HealthWarning: 2}
	sort.SliceStable(flagged, func(i, j int) bool {
		return rank[flagged[i].Health] < rank[flagged[j].Health]
	})
	return flagged
}
