package lending

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeTwoActivePositions(t *testing.T) {
	positions := []BorrowPosition{
		{
			ID:                   uuid.New(),
			PrincipalUSD:         750000,
			CollateralValueUSD:   1200000,
			RequestedLTV:         0.625,
			LiquidationThreshold: 0.75,
			Status:               PositionStatusActive,
		},
		{
			ID:                   uuid.New(),
			PrincipalUSD:         200000,
			CollateralValueUSD:   250000,
			RequestedLTV:         0.80,
			LiquidationThreshold: 0.90,
			Status:               PositionStatusActive,
		},
	}

	summary := Summarize(positions)

	assert.Equal(t, 950000.0, summary.TotalBorrowedUSD)
	assert.Equal(t, 1450000.0, summary.TotalCollateralUSD)
	assert.InDelta(t, 0.655172, summary.BlendedLTV, 1e-6)
	assert.Equal(t, 2, summary.ActivePositions)
}

func TestSummarizeExcludesClosedFromTotals(t *testing.T) {
	final := 105000.0
	positions := []BorrowPosition{
		{
			ID:                   uuid.New(),
			PrincipalUSD:         500000,
			CollateralValueUSD:   1000000,
			RequestedLTV:         0.50,
			LiquidationThreshold: 0.75,
			Status:               PositionStatusActive,
		},
		{
			ID:                 uuid.New(),
			PrincipalUSD:       100000,
			CollateralValueUSD: 200000,
			Status:             PositionStatusRepaid,
			FinalAmountUSD:     &final,
		},
		{
			ID:                 uuid.New(),
			PrincipalUSD:       300000,
			CollateralValueUSD: 400000,
			Status:             PositionStatusLiquidated,
		},
	}

	summary := Summarize(positions)

	assert.Equal(t, 500000.0, summary.TotalBorrowedUSD)
	assert.Equal(t, 1000000.0, summary.TotalCollateralUSD)
	assert.Equal(t, 1, summary.ActivePositions)
	assert.Equal(t, 1, summary.ByStatus[PositionStatusActive])
	assert.Equal(t, 1, summary.ByStatus[PositionStatusRepaid])
	assert.Equal(t, 1, summary.ByStatus[PositionStatusLiquidated])
}

func TestSummarizeEmptyPortfolio(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.TotalBorrowedUSD)
	assert.Zero(t, summary.TotalCollateralUSD)
	assert.Zero(t, summary.BlendedLTV)
	assert.Zero(t, summary.ActivePositions)
	assert.Empty(t, summary.ByRiskBucket)
	assert.Empty(t, summary.ByStatus)
}

func TestSummarizeRiskBuckets(t *testing.T) {
	positions := []BorrowPosition{
		position(0.40, 0.75, PositionStatusActive), // healthy
		position(0.65, 0.75, PositionStatusActive), // warning
		position(0.76, 0.75, PositionStatusActive), // critical
	}
	for i := range positions {
		positions[i].PrincipalUSD = 100000
		positions[i].CollateralValueUSD = 200000
	}

	summary := Summarize(positions)

	assert.Equal(t, 1, summary.ByRiskBucket[HealthHealthy])
	assert.Equal(t, 1, summary.ByRiskBucket[HealthWarning])
	assert.Equal(t, 1, summary.ByRiskBucket[HealthCritical])
	assert.Equal(t, 0, summary.ByRiskBucket[HealthAtRisk])
}
