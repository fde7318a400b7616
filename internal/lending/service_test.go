package lending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/pools"
)

// MockAssetStore is a mock implementation of the assets.Store interface
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) GetAsset(ctx context.Context, id uuid.UUID) (*assets.CollateralAsset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assets.CollateralAsset), args.Error(1)
}

func (m *MockAssetStore) ListByWallet(ctx context.Context, walletID string) ([]assets.CollateralAsset, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assets.CollateralAsset), args.Error(1)
}

func (m *MockAssetStore) ListTokenizedUncommitted(ctx context.Context, walletID string) ([]assets.CollateralAsset, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assets.CollateralAsset), args.Error(1)
}

func (m *MockAssetStore) SetCollateralFlag(ctx context.Context, id uuid.UUID, committed bool) error {
	args := m.Called(ctx, id, committed)
	return args.Error(0)
}

func (m *MockAssetStore) CreateAsset(ctx context.Context, asset *assets.CollateralAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetStore) UpdateTokenization(ctx context.Context, id uuid.UUID, status assets.TokenizationStatus, assetCode, txHash *string) error {
	args := m.Called(ctx, id, status, assetCode, txHash)
	return args.Error(0)
}

func newTestService(ledger Ledger, store assets.Store) *Service {
	return NewService(ledger, store, pools.NewStaticCatalog(), zap.NewNop())
}

func TestBorrowOriginatesPosition(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	asset := tokenizedAsset(assets.ClassCommercialRealEstate, 500000)
	mockStore.On("GetAsset", mock.Anything, asset.ID).Return(asset, nil)
	mockLedger.On("Create", mock.Anything, mock.AnythingOfType("*lending.BorrowPosition")).Return(nil)

	position, err := service.Borrow(context.Background(), "GWALLET1", &BorrowRequest{
		AssetID:   asset.ID,
		AmountUSD: 350000,
	})

	assert.NoError(t, err)
	assert.Equal(t, pools.DefaultPoolID, position.PoolID)
	assert.Equal(t, asset.ID, position.AssetID)
	assert.Equal(t, "GWALLET1", position.BorrowerID)

	mockLedger.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestBorrowRejectsForeignAsset(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	asset := tokenizedAsset(assets.ClassOther, 100000)
	asset.WalletID = "GSOMEONEELSE"
	mockStore.On("GetAsset", mock.Anything, asset.ID).Return(asset, nil)

	_, err := service.Borrow(context.Background(), "GWALLET1", &BorrowRequest{
		AssetID:   asset.ID,
		AmountUSD: 10000,
	})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "asset_id", vErr.Field)
	mockLedger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBorrowRejectsUnknownPool(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	_, err := service.Borrow(context.Background(), "GWALLET1", &BorrowRequest{
		AssetID:   uuid.New(),
		AmountUSD: 10000,
		PoolID:    "offshore-eur",
	})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pool_id", vErr.Field)
	mockStore.AssertNotCalled(t, "GetAsset", mock.Anything, mock.Anything)
}

func TestRepayActivePosition(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	start := time.Now().UTC().AddDate(0, 0, -90)
	positionID := uuid.New()
	active := &BorrowPosition{
		ID:           positionID,
		BorrowerID:   "GWALLET1",
		PrincipalUSD: 750000,
		InterestRate: 0.085,
		Status:       PositionStatusActive,
		StartAt:      start,
	}
	mockLedger.On("GetByID", mock.Anything, positionID).Return(active, nil)
	mockLedger.On("Close", mock.Anything, positionID, PositionStatusRepaid, mock.AnythingOfType("float64")).Return(nil)

	result, err := service.Repay(context.Background(), "GWALLET1", positionID, nil)

	assert.NoError(t, err)
	assert.Equal(t, PositionStatusRepaid, result.Position.Status)
	assert.InDelta(t, 15719.18, result.AccruedUSD, 1.0)
	assert.InDelta(t, 765719.18, result.TotalPaidUSD, 1.0)
	assert.NotNil(t, result.Position.FinalAmountUSD)
	assert.NotNil(t, result.Position.LastPaymentAt)

	mockLedger.AssertExpectations(t)
}

func TestRepayIsIdempotent(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	positionID := uuid.New()
	repaid := &BorrowPosition{
		ID:         positionID,
		BorrowerID: "GWALLET1",
		Status:     PositionStatusRepaid,
	}
	mockLedger.On("GetByID", mock.Anything, positionID).Return(repaid, nil)

	result, err := service.Repay(context.Background(), "GWALLET1", positionID, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPositionNotActive)
	mockLedger.AssertNotCalled(t, "Close", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRepayHidesForeignPosition(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	positionID := uuid.New()
	other := &BorrowPosition{
		ID:         positionID,
		BorrowerID: "GSOMEONEELSE",
		Status:     PositionStatusActive,
	}
	mockLedger.On("GetByID", mock.Anything, positionID).Return(other, nil)

	_, err := service.Repay(context.Background(), "GWALLET1", positionID, nil)

	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestPositionsDegradesOnLedgerFailure(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	mockLedger.On("ListByBorrower", mock.Anything, "GWALLET1").Return(nil, errors.New("connection refused"))

	result := service.Positions(context.Background(), "GWALLET1")

	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Warning)
	assert.Empty(t, result.Positions)
	assert.NotNil(t, result.Positions)
}

func TestPortfolioDegradesOnLedgerFailure(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	mockLedger.On("ListByBorrower", mock.Anything, "GWALLET1").Return(nil, errors.New("connection refused"))

	result := service.Portfolio(context.Background(), "GWALLET1")

	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Warning)
	assert.Zero(t, result.Summary.TotalBorrowedUSD)
	assert.Zero(t, result.Summary.ActivePositions)
}

func TestScanAllActiveWrapsLedgerFailure(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	mockLedger.On("ListActive", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := service.ScanAllActive(context.Background())

	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMarkLiquidatedPreservesNotActive(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	positionID := uuid.New()
	mockLedger.On("Close", mock.Anything, positionID, PositionStatusLiquidated, 120000.0).Return(ErrPositionNotActive)

	err := service.MarkLiquidated(context.Background(), positionID, 120000)

	assert.ErrorIs(t, err, ErrPositionNotActive)
}

func TestPayoffQuote(t *testing.T) {
	mockLedger := new(MockLedger)
	mockStore := new(MockAssetStore)
	service := newTestService(mockLedger, mockStore)

	start := time.Now().UTC().AddDate(0, 0, -30)
	positionID := uuid.New()
	active := &BorrowPosition{
		ID:           positionID,
		BorrowerID:   "GWALLET1",
		PrincipalUSD: 100000,
		InterestRate: 0.055,
		Status:       PositionStatusActive,
		StartAt:      start,
	}
	mockLedger.On("GetByID", mock.Anything, positionID).Return(active, nil)

	principal, accrued, total, err := service.PayoffQuote(context.Background(), "GWALLET1", positionID)

	assert.NoError(t, err)
	assert.Equal(t, 100000.0, principal)
	assert.InDelta(t, 100000*0.055*30/365, accrued, 100000*0.055/365+0.01)
	assert.Equal(t, principal+accrued, total)
}
