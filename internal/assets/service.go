package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/tokenization"
)

// Tokenizer mints on-chain tokens for a pledged asset
type Tokenizer interface {
	MintTokens(ctx context.Context, req *tokenization.MintRequest) (*tokenization.MintResponse, error)
	IssuerAccount() string
}

// Service orchestrates the pledge and tokenize flow. Borrowing against
// the resulting tokens lives in the lending package.
type Service struct {
	store     Store
	tokenizer Tokenizer
	logger    *zap.Logger
}

// NewService creates a new assets service
func NewService(store Store, tokenizer Tokenizer, logger *zap.Logger) *Service {
	return &Service{store: store, tokenizer: tokenizer, logger: logger}
}

// PledgeRequest declares a real-world asset for tokenization
type PledgeRequest struct {
	Name       string  `json:"name" binding:"required"`
	AssetClass string  `json:"asset_class" binding:"required"`
	ValueUSD   float64 `json:"value_usd" binding:"required"`
}

// Pledge records a new asset in pending state
func (s *Service) Pledge(ctx context.Context, walletID string, req *PledgeRequest) (*CollateralAsset, error) {
	if walletID == "" {
		return nil, fmt.Errorf("wallet id must not be empty")
	}
	if req.ValueUSD <= 0 {
		return nil, fmt.Errorf("declared value must be positive")
	}

	asset := &CollateralAsset{
		ID:         uuid.New(),
		WalletID:   walletID,
		Name:       req.Name,
		AssetClass: ParseAssetClass(req.AssetClass),
		ValueUSD:   req.ValueUSD,
		Status:     StatusPending,
	}

	if err := s.store.CreateAsset(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset pledged",
		zap.String("asset_id", asset.ID.String()),
		zap.String("wallet_id", walletID),
		zap.String("asset_class", string(asset.AssetClass)),
		zap.Float64("value_usd", req.ValueUSD))

	return asset, nil
}

// Tokenize mints tokens for a pledged asset and records the result. On
// mint failure the asset moves to failed so the flow can be retried.
func (s *Service) Tokenize(ctx context.Context, walletID string, assetID uuid.UUID, ownerAccount string) (*CollateralAsset, error) {
	asset, err := s.store.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.WalletID != walletID {
		return nil, fmt.Errorf("asset does not belong to wallet")
	}

	if err := s.store.UpdateTokenization(ctx, assetID, StatusInProgress, nil, nil); err != nil {
		return nil, err
	}

	code := assetCode(asset)
	mint, err := s.tokenizer.MintTokens(ctx, &tokenization.MintRequest{
		AssetID:       asset.ID.String(),
		AssetCode:     code,
		OwnerAccount:  ownerAccount,
		Units:         int64(asset.ValueUSD),
		DeclaredValue: asset.ValueUSD,
	})
	if err != nil {
		if failErr := s.store.UpdateTokenization(ctx, assetID, StatusFailed, nil, nil); failErr != nil {
			s.logger.Error("failed to record mint failure", zap.Error(failErr))
		}
		return nil, fmt.Errorf("failed to mint tokens: %w", err)
	}

	if err := s.store.UpdateTokenization(ctx, assetID, StatusTokenized, &code, &mint.TransactionHash); err != nil {
		return nil, err
	}

	return s.store.GetAsset(ctx, assetID)
}

// assetCode derives a 12-character-max Stellar asset code from the id
func assetCode(asset *CollateralAsset) string {
	compact := strings.ToUpper(strings.ReplaceAll(asset.ID.String(), "-", ""))
	return "RWA" + compact[:8]
}
