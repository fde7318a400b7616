package documents

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for pledge documents
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new documents handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers document routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/assets/:assetId/documents")
	{
		docs.POST("", h.upload)
		docs.GET("", h.list)
	}
}

// upload handles POST /api/v1/assets/:assetId/documents
func (h *Handler) upload(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	docType := DocumentType(c.PostForm("document_type"))
	if docType == "" {
		docType = TypeOther
	}

	doc, err := h.service.Upload(c.Request.Context(), &UploadRequest{
		AssetID:      assetID,
		Name:         fileHeader.Filename,
		DocumentType: docType,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Content:      file,
		UploadedBy:   c.GetString("wallet_id"),
	})
	if err != nil {
		h.logger.Error("Failed to upload document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// list handles GET /api/v1/assets/:assetId/documents
func (h *Handler) list(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	docs, err := h.service.ListByAsset(c.Request.Context(), assetID)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
