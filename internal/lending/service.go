package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/pools"
	"rwa-pledge/lending-portal/lending-portal-backend/pkg/workflows"
)

// Service provides the borrowing and risk engine's operations over the
// collateral store, position ledger and pool catalog collaborators.
type Service struct {
	ledger     Ledger
	assetStore assets.Store
	selector   *assets.Selector
	catalog    pools.Catalog
	originator *Originator
	lifecycle  *workflows.StateMachine
	logger     *zap.Logger
}

// NewService creates a new lending service
func NewService(ledger Ledger, assetStore assets.Store, catalog pools.Catalog, logger *zap.Logger) *Service {
	return &Service{
		ledger:     ledger,
		assetStore: assetStore,
		selector:   assets.NewSelector(assetStore, logger),
		catalog:    catalog,
		originator: NewOriginator(ledger, logger),
		lifecycle:  workflows.NewPositionStateMachine(),
		logger:     logger,
	}
}

// EligibleCollateral lists a wallet's tokenized, uncommitted assets.
func (s *Service) EligibleCollateral(ctx context.Context, borrowerID string) *assets.EligibleResult {
	return s.selector.EligibleCollateral(ctx, borrowerID)
}

// Borrow originates a position against one of the borrower's assets.
func (s *Service) Borrow(ctx context.Context, borrowerID string, req *BorrowRequest) (*BorrowPosition, error) {
	if req.AssetID == uuid.Nil {
		return nil, &ValidationError{Field: "asset_id", Message: "must not be empty"}
	}

	pool, err := s.catalog.Resolve(ctx, req.PoolID)
	if err != nil {
		return nil, &ValidationError{Field: "pool_id", Message: err.Error()}
	}

	asset, err := s.assetStore.GetAsset(ctx, req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collateral asset: %w", err)
	}
	if asset.WalletID != borrowerID {
		return nil, &ValidationError{Field: "asset_id", Message: "asset does not belong to borrower"}
	}

	return s.originator.Originate(ctx, asset, borrowerID, pool.ID, req.AmountUSD, req.TermDays, req.TxReference)
}

// Repay settles a position in full: principal plus interest accrued as
// of now. Closing releases the collateral back to the eligible set.
// Repaying an already-closed position returns ErrPositionNotActive and
// changes nothing.
func (s *Service) Repay(ctx context.Context, borrowerID string, positionID uuid.UUID, txRef *string) (*RepayResult, error) {
	position, err := s.ledger.GetByID(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if position.BorrowerID != borrowerID {
		return nil, ErrPositionNotFound
	}
	if !s.lifecycle.CanTransition(string(position.Status), string(PositionStatusRepaid)) {
		return nil, ErrPositionNotActive
	}

	now := time.Now().UTC()
	accrued := AccruedInterest(position, now)
	total := position.PrincipalUSD + accrued

	if err := s.ledger.Close(ctx, positionID, PositionStatusRepaid, total); err != nil {
		return nil, err
	}

	position.Status = PositionStatusRepaid
	position.FinalAmountUSD = &total
	position.LastPaymentAt = &now
	if txRef != nil {
		position.TxReference = txRef
	}

	s.logger.Info("position repaid",
		zap.String("position_id", positionID.String()),
		zap.String("borrower_id", borrowerID),
		zap.Float64("principal_usd", position.PrincipalUSD),
		zap.Float64("accrued_usd", accrued),
		zap.Float64("total_paid_usd", total))

	return &RepayResult{
		Position:     position,
		AccruedUSD:   accrued,
		TotalPaidUSD: total,
	}, nil
}

// Positions lists a borrower's positions. A ledger failure degrades to
// an empty, flagged result so portfolio views stay renderable.
func (s *Service) Positions(ctx context.Context, borrowerID string) *PositionListResult {
	found, err := s.ledger.ListByBorrower(ctx, borrowerID)
	if err != nil {
		s.logger.Warn("position ledger unavailable, returning degraded result",
			zap.String("borrower_id", borrowerID),
			zap.Error(err))
		return &PositionListResult{
			Positions: []BorrowPosition{},
			Degraded:  true,
			Warning:   "position ledger unavailable; positions could not be loaded",
		}
	}
	return &PositionListResult{Positions: found}
}

// PortfolioResult pairs the summary with the degraded-read marker
type PortfolioResult struct {
	Summary  *PortfolioSummary `json:"summary"`
	Degraded bool              `json:"degraded"`
	Warning  string            `json:"warning,omitempty"`
}

// Portfolio aggregates a borrower's positions into summary statistics.
func (s *Service) Portfolio(ctx context.Context, borrowerID string) *PortfolioResult {
	list := s.Positions(ctx, borrowerID)
	return &PortfolioResult{
		Summary:  Summarize(list.Positions),
		Degraded: list.Degraded,
		Warning:  list.Warning,
	}
}

// AtRisk returns the borrower's positions needing attention, worst first.
func (s *Service) AtRisk(ctx context.Context, borrowerID string) ([]Classification, error) {
	found, err := s.ledger.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ScanPortfolio(found), nil
}

// ScanAllActive classifies every active position platform-wide, for the
// liquidation worker. Classification only; seizure is external.
func (s *Service) ScanAllActive(ctx context.Context) ([]Classification, error) {
	active, err := s.ledger.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ScanPortfolio(active), nil
}

// MarkLiquidated records an externally enforced liquidation and releases
// the collateral flag.
func (s *Service) MarkLiquidated(ctx context.Context, positionID uuid.UUID, recoveredUSD float64) error {
	err := s.ledger.Close(ctx, positionID, PositionStatusLiquidated, recoveredUSD)
	if errors.Is(err, ErrPositionNotActive) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to record liquidation: %w", err)
	}
	s.logger.Warn("position liquidated",
		zap.String("position_id", positionID.String()),
		zap.Float64("recovered_usd", recoveredUSD))
	return nil
}

// PayoffQuote returns principal, accrued interest and total owed as of now.
func (s *Service) PayoffQuote(ctx context.Context, borrowerID string, positionID uuid.UUID) (principal, accrued, total float64, err error) {
	position, err := s.ledger.GetByID(ctx, positionID)
	if err != nil {
		return 0, 0, 0, err
	}
	if position.BorrowerID != borrowerID {
		return 0, 0, 0, ErrPositionNotFound
	}
	now := time.Now().UTC()
	accrued = AccruedInterest(position, now)
	return position.PrincipalUSD, accrued, position.PrincipalUSD + accrued, nil
}
