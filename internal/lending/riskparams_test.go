package lending

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
)

func TestMaxLTVByClass(t *testing.T) {
	assert.Equal(t, 0.70, MaxLTV(assets.ClassCommercialRealEstate))
	assert.Equal(t, 0.75, MaxLTV(assets.ClassResidentialRealEstate))
	assert.Equal(t, 0.80, MaxLTV(assets.ClassTradeFinance))
	assert.Equal(t, 0.85, MaxLTV(assets.ClassInvoiceFinancing))
	assert.Equal(t, 0.60, MaxLTV(assets.ClassEquipmentFinancing))
	assert.Equal(t, 0.75, MaxLTV(assets.ClassSupplyChainFinance))
	assert.Equal(t, 0.80, MaxLTV(assets.ClassReceivables))
	assert.Equal(t, 0.50, MaxLTV(assets.ClassOther))
}

func TestMaxLTVUnknownClassFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxLTV, MaxLTV(assets.AssetClass("fine_art")))
	assert.Equal(t, DefaultMaxLTV, MaxLTV(assets.AssetClass("")))
}

func TestClassifyTierBoundaries(t *testing.T) {
	assert.Equal(t, TierLowRisk, ClassifyTier(0.30))
	assert.Equal(t, TierLowRisk, ClassifyTier(0.60))
	assert.Equal(t, TierMediumRisk, ClassifyTier(0.61))
	assert.Equal(t, TierMediumRisk, ClassifyTier(0.75))
	assert.Equal(t, TierHighRisk, ClassifyTier(0.76))
	assert.Equal(t, TierHighRisk, ClassifyTier(0.85))
}

func TestInterestRateByTier(t *testing.T) {
	assert.Equal(t, 0.055, InterestRate(TierLowRisk))
	assert.Equal(t, 0.085, InterestRate(TierMediumRisk))
	assert.Equal(t, 0.125, InterestRate(TierHighRisk))

	// Unknown tiers price at the most conservative rate
	assert.Equal(t, 0.125, InterestRate(RiskTier("speculative")))
}

func TestLiquidationThreshold(t *testing.T) {
	assert.InDelta(t, 0.75, LiquidationThreshold(MaxLTV(assets.ClassCommercialRealEstate)), 1e-9)
	assert.InDelta(t, 0.90, LiquidationThreshold(MaxLTV(assets.ClassInvoiceFinancing)), 1e-9)
	assert.InDelta(t, 0.55, LiquidationThreshold(DefaultMaxLTV), 1e-9)
}
