package assets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/tokenization"
)

// MockTokenizer is a mock implementation of the Tokenizer interface
type MockTokenizer struct {
	mock.Mock
}

func (m *MockTokenizer) MintTokens(ctx context.Context, req *tokenization.MintRequest) (*tokenization.MintResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenization.MintResponse), args.Error(1)
}

func (m *MockTokenizer) IssuerAccount() string {
	args := m.Called()
	return args.String(0)
}

func TestPledgeCreatesPendingAsset(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("CreateAsset", mock.Anything, mock.AnythingOfType("*assets.CollateralAsset")).Return(nil)

	service := NewService(mockStore, new(MockTokenizer), zap.NewNop())

	asset, err := service.Pledge(context.Background(), "GWALLET1", &PledgeRequest{
		Name:       "Warehouse 12",
		AssetClass: "commercial_real_estate",
		ValueUSD:   500000,
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, asset.Status)
	assert.Equal(t, ClassCommercialRealEstate, asset.AssetClass)
	assert.Equal(t, "GWALLET1", asset.WalletID)
	assert.False(t, asset.IsCollateralized)

	mockStore.AssertExpectations(t)
}

func TestPledgeRejectsNonPositiveValue(t *testing.T) {
	mockStore := new(MockStore)
	service := NewService(mockStore, new(MockTokenizer), zap.NewNop())

	_, err := service.Pledge(context.Background(), "GWALLET1", &PledgeRequest{
		Name:       "Worthless",
		AssetClass: "other",
		ValueUSD:   0,
	})

	assert.Error(t, err)
	mockStore.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
}

func TestTokenizeRecordsMintResult(t *testing.T) {
	mockStore := new(MockStore)
	mockTokenizer := new(MockTokenizer)
	service := NewService(mockStore, mockTokenizer, zap.NewNop())

	assetID := uuid.New()
	pledged := &CollateralAsset{
		ID:         assetID,
		WalletID:   "GWALLET1",
		Name:       "Warehouse 12",
		AssetClass: ClassCommercialRealEstate,
		ValueUSD:   500000,
		Status:     StatusPending,
	}

	mockStore.On("GetAsset", mock.Anything, assetID).Return(pledged, nil).Once()
	mockStore.On("UpdateTokenization", mock.Anything, assetID, StatusInProgress, (*string)(nil), (*string)(nil)).Return(nil)
	mockTokenizer.On("MintTokens", mock.Anything, mock.AnythingOfType("*tokenization.MintRequest")).Return(&tokenization.MintResponse{
		TransactionHash: "abc123",
		Successful:      true,
	}, nil)
	mockStore.On("UpdateTokenization", mock.Anything, assetID, StatusTokenized, mock.AnythingOfType("*string"), mock.AnythingOfType("*string")).Return(nil)

	tokenized := *pledged
	tokenized.Status = StatusTokenized
	mockStore.On("GetAsset", mock.Anything, assetID).Return(&tokenized, nil).Once()

	result, err := service.Tokenize(context.Background(), "GWALLET1", assetID, "GOWNER1")

	assert.NoError(t, err)
	assert.Equal(t, StatusTokenized, result.Status)

	mockStore.AssertExpectations(t)
	mockTokenizer.AssertExpectations(t)
}

func TestTokenizeMarksFailedOnMintError(t *testing.T) {
	mockStore := new(MockStore)
	mockTokenizer := new(MockTokenizer)
	service := NewService(mockStore, mockTokenizer, zap.NewNop())

	assetID := uuid.New()
	pledged := &CollateralAsset{
		ID:       assetID,
		WalletID: "GWALLET1",
		ValueUSD: 100000,
		Status:   StatusPending,
	}

	mockStore.On("GetAsset", mock.Anything, assetID).Return(pledged, nil)
	mockStore.On("UpdateTokenization", mock.Anything, assetID, StatusInProgress, (*string)(nil), (*string)(nil)).Return(nil)
	mockTokenizer.On("MintTokens", mock.Anything, mock.Anything).Return(nil, errors.New("tx_failed"))
	mockStore.On("UpdateTokenization", mock.Anything, assetID, StatusFailed, (*string)(nil), (*string)(nil)).Return(nil)

	_, err := service.Tokenize(context.Background(), "GWALLET1", assetID, "GOWNER1")

	assert.Error(t, err)
	mockStore.AssertExpectations(t)
}

func TestTokenizeRejectsForeignAsset(t *testing.T) {
	mockStore := new(MockStore)
	service := NewService(mockStore, new(MockTokenizer), zap.NewNop())

	assetID := uuid.New()
	mockStore.On("GetAsset", mock.Anything, assetID).Return(&CollateralAsset{
		ID:       assetID,
		WalletID: "GSOMEONEELSE",
	}, nil)

	_, err := service.Tokenize(context.Background(), "GWALLET1", assetID, "GOWNER1")

	assert.Error(t, err)
	mockStore.AssertNotCalled(t, "UpdateTokenization", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
