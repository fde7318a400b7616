package lending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
)

// DefaultTermDays applies when a borrow request carries no term.
const DefaultTermDays = 365

// Originator validates borrow requests against the risk parameter table
// and creates positions. Creation and collateral commitment happen in a
// single ledger transaction; concurrent requests against one asset are
// serialized on a per-asset lock.
type Originator struct {
	ledger Ledger
	logger *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewOriginator creates a new loan originator
func NewOriginator(ledger Ledger, logger *zap.Logger) *Originator {
	return &Originator{
		ledger: ledger,
		logger: logger,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// Originate validates a borrow request and creates an active position.
//
// Validation order: non-positive amount, untokenized asset, asset already
// committed, then the LTV ceiling. Risk tier is classified from the
// requested LTV only after the ceiling check passes.
func (o *Originator) Originate(ctx context.Context, asset *assets.CollateralAsset, borrowerID, poolID string, amountUSD float64, termDays int, txRef *string) (*BorrowPosition, error) {
	if borrowerID == "" {
		return nil, &ValidationError{Field: "borrower_id", Message: "must not be empty"}
	}
	if amountUSD <= 0 {
		return nil, &ValidationError{Field: "amount_usd", Message: "must be positive"}
	}
	if termDays < 0 {
		return nil, &ValidationError{Field: "term_days", Message: "must not be negative"}
	}
	if termDays == 0 {
		termDays = DefaultTermDays
	}
	if asset.Status != assets.StatusTokenized {
		return nil, &ValidationError{Field: "asset_id", Message: "asset is not tokenized"}
	}
	if asset.ValueUSD <= 0 {
		return nil, &ValidationError{Field: "asset_id", Message: "asset has no declared value"}
	}

	unlock := o.lockAsset(asset.ID)
	defer unlock()

	// The selector should have excluded committed assets already; the
	// read may be stale, so re-check before writing.
	if asset.IsCollateralized {
		return nil, ErrAssetCollateralized
	}

	maxLTV := MaxLTV(asset.AssetClass)
	maxBorrowable := asset.ValueUSD * maxLTV
	requestedLTV := amountUSD / asset.ValueUSD

	if requestedLTV > maxLTV {
		return nil, &LimitExceededError{
			RequestedLTV:  requestedLTV,
			MaxLTV:        maxLTV,
			MaxBorrowable: maxBorrowable,
		}
	}

	tier := ClassifyTier(requestedLTV)
	now := time.Now().UTC()

	position := &BorrowPosition{
		ID:                   uuid.New(),
		BorrowerID:           borrowerID,
		AssetID:              asset.ID,
		PoolID:               poolID,
		CollateralValueUSD:   asset.ValueUSD,
		PrincipalUSD:         amountUSD,
		InterestRate:         InterestRate(tier),
		RequestedLTV:         requestedLTV,
		LiquidationThreshold: LiquidationThreshold(maxLTV),
		RiskTier:             tier,
		Status:               PositionStatusActive,
		StartAt:              now,
		MaturityAt:           now.AddDate(0, 0, termDays),
		TxReference:          txRef,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	// Create commits the collateral flag and inserts the position in one
	// transaction; a lost conditional write surfaces as ErrAssetCollateralized.
	if err := o.ledger.Create(ctx, position); err != nil {
		return nil, err
	}

	o.logger.Info("position originated",
		zap.String("position_id", position.ID.String()),
		zap.String("borrower_id", borrowerID),
		zap.String("asset_class", string(asset.AssetClass)),
		zap.Float64("principal_usd", amountUSD),
		zap.Float64("requested_ltv", requestedLTV),
		zap.String("risk_tier", string(tier)))

	return position, nil
}

func (o *Originator) lockAsset(id uuid.UUID) func() {
	o.mu.Lock()
	lock, ok := o.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[id] = lock
	}
	o.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
