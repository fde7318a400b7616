package assets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CollateralAsset represents a tokenized real-world asset that can back a loan
type CollateralAsset struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WalletID string    `json:"wallet_id" gorm:"not null;index"`
	Name     string    `json:"name" gorm:"not null"`

	// Valuation and classification
	AssetClass AssetClass `json:"asset_class" gorm:"not null;index"`
	ValueUSD   float64    `json:"value_usd" gorm:"type:decimal(14,2);not null"`

	// Tokenization
	Status          TokenizationStatus `json:"status" gorm:"default:'pending';index"`
	TokenAssetCode  *string            `json:"token_asset_code" gorm:"index"`
	TokenIssuer     *string            `json:"token_issuer"`
	MintTransaction *string            `json:"mint_transaction" gorm:"index"`
	TokenizedAt     *time.Time         `json:"tokenized_at"`

	// An asset backs at most one active borrow position at a time
	IsCollateralized bool `json:"is_collateralized" gorm:"default:false;index"`

	// Supporting documents, appraisals, legal references
	Metadata datatypes.JSON `json:"metadata" gorm:"default:'{}'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AssetClass is the closed set of supported real-world asset categories.
// Risk parameters are keyed by class, never by display name.
type AssetClass string

const (
	ClassCommercialRealEstate  AssetClass = "commercial_real_estate"
	ClassResidentialRealEstate AssetClass = "residential_real_estate"
	ClassTradeFinance          AssetClass = "trade_finance"
	ClassInvoiceFinancing      AssetClass = "invoice_financing"
	ClassEquipmentFinancing    AssetClass = "equipment_financing"
	ClassSupplyChainFinance    AssetClass = "supply_chain_finance"
	ClassReceivables           AssetClass = "receivables"
	ClassOther                 AssetClass = "other"
)

// ParseAssetClass maps a free-form class string onto the enumeration,
// falling back to ClassOther for anything unrecognized.
func ParseAssetClass(s string) AssetClass {
	switch AssetClass(s) {
	case ClassCommercialRealEstate, ClassResidentialRealEstate, ClassTradeFinance,
		ClassInvoiceFinancing, ClassEquipmentFinancing, ClassSupplyChainFinance,
		ClassReceivables:
		return AssetClass(s)
	default:
		return ClassOther
	}
}

// TokenizationStatus represents the lifecycle state of the on-chain token
type TokenizationStatus string

const (
	StatusPending    TokenizationStatus = "pending"
	StatusInProgress TokenizationStatus = "in_progress"
	StatusTokenized  TokenizationStatus = "tokenized"
	StatusFailed     TokenizationStatus = "failed"
)

// BeforeCreate hook for UUID generation
func (a *CollateralAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
