package lending

import (
	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
)

// RiskTier buckets a position by its requested LTV and drives the rate.
type RiskTier string

const (
	TierLowRisk    RiskTier = "low_risk"
	TierMediumRisk RiskTier = "medium_risk"
	TierHighRisk   RiskTier = "high_risk"
)

// LiquidationBuffer is added to an asset class's maximum LTV to obtain
// the liquidation threshold.
const LiquidationBuffer = 0.05

// DefaultMaxLTV applies to unknown asset classes.
const DefaultMaxLTV = 0.50

// maxLTVByClass is the single source of truth for per-class LTV ceilings.
var maxLTVByClass = map[assets.AssetClass]float64{
	assets.ClassCommercialRealEstate:  0.70,
	assets.ClassResidentialRealEstate: 0.75,
	assets.ClassTradeFinance:          0.80,
	assets.ClassInvoiceFinancing:      0.85,
	assets.ClassEquipmentFinancing:    0.60,
	assets.ClassSupplyChainFinance:    0.75,
	assets.ClassReceivables:           0.80,
	assets.ClassOther:                 0.50,
}

// interestRateByTier holds annualized rates as decimals.
var interestRateByTier = map[RiskTier]float64{
	TierLowRisk:    0.055,
	TierMediumRisk: 0.085,
	TierHighRisk:   0.125,
}

// MaxLTV returns the maximum loan-to-value ratio for an asset class,
// falling back to the conservative default for unknown classes.
func MaxLTV(class assets.AssetClass) float64 {
	if ltv, ok := maxLTVByClass[class]; ok {
		return ltv
	}
	return DefaultMaxLTV
}

// InterestRate returns the annualized rate for a risk tier.
func InterestRate(tier RiskTier) float64 {
	if rate, ok := interestRateByTier[tier]; ok {
		return rate
	}
	return interestRateByTier[TierHighRisk]
}

// LiquidationThreshold derives the threshold from a class ceiling.
func LiquidationThreshold(maxLTV float64) float64 {
	return maxLTV + LiquidationBuffer
}

// ClassifyTier buckets a requested LTV. Evaluated after the max-LTV
// check, so only requests already within the class ceiling reach it.
func ClassifyTier(requestedLTV float64) RiskTier {
	switch {
	case requestedLTV <= 0.60:
		return TierLowRisk
	case requestedLTV <= 0.75:
		return TierMediumRisk
	default:
		return TierHighRisk
	}
}
