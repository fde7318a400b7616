package documents

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rwa-pledge/lending-portal/lending-portal-backend/pkg/storage"
)

// Service stores pledge supporting documents: bytes on IPFS, metadata in
// the relational store.
type Service struct {
	db     *gorm.DB
	ipfs   storage.IPFSClient
	logger *zap.Logger
}

// NewService creates a new documents service
func NewService(db *gorm.DB, ipfs storage.IPFSClient, logger *zap.Logger) *Service {
	return &Service{db: db, ipfs: ipfs, logger: logger}
}

// UploadRequest describes a document to attach to a pledged asset
type UploadRequest struct {
	AssetID      uuid.UUID
	Name         string
	DocumentType DocumentType
	ContentType  string
	SizeBytes    int64
	Content      io.Reader
	UploadedBy   string
}

// Upload pins the content and records its metadata
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*AssetDocument, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("document name must not be empty")
	}
	if req.AssetID == uuid.Nil {
		return nil, fmt.Errorf("asset id must not be empty")
	}

	cid, err := s.ipfs.PinFile(ctx, req.Name, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to pin document: %w", err)
	}

	doc := &AssetDocument{
		AssetID:      req.AssetID,
		Name:         req.Name,
		DocumentType: req.DocumentType,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
		CID:          cid,
		UploadedBy:   req.UploadedBy,
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		// Metadata write failed; drop the orphaned pin.
		if unpinErr := s.ipfs.UnpinFile(ctx, cid); unpinErr != nil {
			s.logger.Warn("failed to unpin orphaned document",
				zap.String("cid", cid), zap.Error(unpinErr))
		}
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("asset_id", req.AssetID.String()),
		zap.String("cid", cid),
		zap.String("type", string(req.DocumentType)))

	return doc, nil
}

// ListByAsset returns all documents attached to an asset
func (s *Service) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]AssetDocument, error) {
	var out []AssetDocument
	err := s.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return out, nil
}
