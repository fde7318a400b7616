package lending

import (
	"time"

	"github.com/google/uuid"
)

// BorrowPosition represents one loan against a tokenized asset
type BorrowPosition struct {
	ID         uuid.UUID `json:"id" db:"id"`
	BorrowerID string    `json:"borrower_id" db:"borrower_id"`
	AssetID    uuid.UUID `json:"asset_id" db:"asset_id"`
	PoolID     string    `json:"pool_id" db:"pool_id"`

	// Economics, fixed at origination. Principal never changes; only
	// status and the last-payment timestamp move afterwards.
	CollateralValueUSD   float64  `json:"collateral_value_usd" db:"collateral_value_usd"`
	PrincipalUSD         float64  `json:"principal_usd" db:"principal_usd"`
	InterestRate         float64  `json:"interest_rate" db:"interest_rate"`
	RequestedLTV         float64  `json:"requested_ltv" db:"requested_ltv"`
	LiquidationThreshold float64  `json:"liquidation_threshold" db:"liquidation_threshold"`
	RiskTier             RiskTier `json:"risk_tier" db:"risk_tier"`

	Status PositionStatus `json:"status" db:"status"`

	StartAt       time.Time  `json:"start_at" db:"start_at"`
	MaturityAt    time.Time  `json:"maturity_at" db:"maturity_at"`
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty" db:"last_payment_at"`

	// FinalAmountUSD is the payoff recorded when the position closes.
	FinalAmountUSD *float64 `json:"final_amount_usd,omitempty" db:"final_amount_usd"`
	TxReference    *string  `json:"tx_reference,omitempty" db:"tx_reference"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PositionStatus represents the lifecycle state of a borrow position
type PositionStatus string

const (
	PositionStatusActive     PositionStatus = "active"
	PositionStatusRepaid     PositionStatus = "repaid"
	PositionStatusLiquidated PositionStatus = "liquidated"
	PositionStatusDefaulted  PositionStatus = "defaulted"
)

// CurrentLTV returns the ratio used for health classification. Collateral
// is not re-valued against live market prices; origination LTV stands
// unless the collateral value is externally updated.
func (p *BorrowPosition) CurrentLTV() float64 {
	return p.RequestedLTV
}

// BorrowRequest is the input to loan origination
type BorrowRequest struct {
	AssetID     uuid.UUID `json:"asset_id" binding:"required"`
	AmountUSD   float64   `json:"amount_usd" binding:"required"`
	PoolID      string    `json:"pool_id"`
	TermDays    int       `json:"term_days"`
	TxReference *string   `json:"tx_reference,omitempty"`
}

// RepayResult reports the outcome of repaying a position
type RepayResult struct {
	Position     *BorrowPosition `json:"position"`
	AccruedUSD   float64         `json:"accrued_usd"`
	TotalPaidUSD float64         `json:"total_paid_usd"`
}

// PositionListResult carries positions plus a degraded-mode marker for
// read paths where the ledger did not respond.
type PositionListResult struct {
	Positions []BorrowPosition `json:"positions"`
	Degraded  bool             `json:"degraded"`
	Warning   string           `json:"warning,omitempty"`
}
