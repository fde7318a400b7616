package assets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rwa-pledge/lending-portal/lending-portal-backend/pkg/workflows"
)

// Store defines read/write access to collateral asset records
type Store interface {
	GetAsset(ctx context.Context, id uuid.UUID) (*CollateralAsset, error)
	ListByWallet(ctx context.Context, walletID string) ([]CollateralAsset, error)
	ListTokenizedUncommitted(ctx context.Context, walletID string) ([]CollateralAsset, error)
	SetCollateralFlag(ctx context.Context, id uuid.UUID, committed bool) error
	CreateAsset(ctx context.Context, asset *CollateralAsset) error
	UpdateTokenization(ctx context.Context, id uuid.UUID, status TokenizationStatus, assetCode, txHash *string) error
}

// GormStore implements Store using PostgreSQL via gorm
type GormStore struct {
	db        *gorm.DB
	lifecycle *workflows.StateMachine
}

// NewGormStore creates a new collateral asset store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:        db,
		lifecycle: workflows.NewTokenizationStateMachine(),
	}
}

func (s *GormStore) GetAsset(ctx context.Context, id uuid.UUID) (*CollateralAsset, error) {
	var asset CollateralAsset
	if err := s.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("asset not found: %w", err)
	}
	return &asset, nil
}

func (s *GormStore) ListByWallet(ctx context.Context, walletID string) ([]CollateralAsset, error) {
	var out []CollateralAsset
	err := s.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("value_usd DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return out, nil
}

func (s *GormStore) ListTokenizedUncommitted(ctx context.Context, walletID string) ([]CollateralAsset, error) {
	var out []CollateralAsset
	err := s.db.WithContext(ctx).
		Where("wallet_id = ? AND status = ? AND is_collateralized = false", walletID, StatusTokenized).
		Order("value_usd DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible assets: %w", err)
	}
	return out, nil
}

func (s *GormStore) SetCollateralFlag(ctx context.Context, id uuid.UUID, committed bool) error {
	res := s.db.WithContext(ctx).
		Model(&CollateralAsset{}).
		Where("id = ?", id).
		Update("is_collateralized", committed)
	if res.Error != nil {
		return fmt.Errorf("failed to update collateral flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("asset %s not found", id)
	}
	return nil
}

func (s *GormStore) CreateAsset(ctx context.Context, asset *CollateralAsset) error {
	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateTokenization(ctx context.Context, id uuid.UUID, status TokenizationStatus, assetCode, txHash *string) error {
	current, err := s.GetAsset(ctx, id)
	if err != nil {
		return err
	}
	if !s.lifecycle.CanTransition(string(current.Status), string(status)) {
		return fmt.Errorf("tokenization cannot move from %s to %s", current.Status, status)
	}

	updates := map[string]interface{}{"status": status}
	if assetCode != nil {
		updates["token_asset_code"] = *assetCode
	}
	if txHash != nil {
		updates["mint_transaction"] = *txHash
	}
	res := s.db.WithContext(ctx).
		Model(&CollateralAsset{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update tokenization status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("asset %s not found", id)
	}
	return nil
}
