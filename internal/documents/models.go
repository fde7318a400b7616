package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetDocument is a pledge supporting document pinned to IPFS
type AssetDocument struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AssetID uuid.UUID `json:"asset_id" gorm:"type:uuid;not null;index"`

	Name         string       `json:"name" gorm:"not null"`
	DocumentType DocumentType `json:"document_type" gorm:"not null;index"`
	ContentType  string       `json:"content_type"`
	SizeBytes    int64        `json:"size_bytes"`

	// Content-addressed reference; the bytes live on IPFS
	CID string `json:"cid" gorm:"not null;index"`

	UploadedBy string    `json:"uploaded_by" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// DocumentType categorizes pledge documentation
type DocumentType string

const (
	TypeAppraisal DocumentType = "appraisal"
	TypeTitleDeed DocumentType = "title_deed"
	TypeInvoice   DocumentType = "invoice"
	TypeInsurance DocumentType = "insurance"
	TypeOther     DocumentType = "other"
)

// BeforeCreate hook for UUID generation
func (d *AssetDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
