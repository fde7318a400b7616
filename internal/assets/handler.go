package assets

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler exposes the pledge and tokenize endpoints
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new assets handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers asset routes on the given router group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/assets")
	{
		group.POST("", h.pledgeAsset)
		group.GET("", h.listAssets)
		group.POST("/:assetId/tokenize", h.tokenizeAsset)
	}
}

func (h *Handler) pledgeAsset(c *gin.Context) {
	walletID := getWalletID(c)
	if walletID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wallet identity required"})
		return
	}

	var req PledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	asset, err := h.service.Pledge(c.Request.Context(), walletID, &req)
	if err != nil {
		h.logger.Error("failed to pledge asset", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) listAssets(c *gin.Context) {
	walletID := getWalletID(c)
	if walletID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wallet identity required"})
		return
	}

	list, err := h.service.store.ListByWallet(c.Request.Context(), walletID)
	if err != nil {
		h.logger.Error("failed to list assets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": list, "count": len(list)})
}

type tokenizeRequest struct {
	OwnerAccount string `json:"owner_account" binding:"required"`
}

func (h *Handler) tokenizeAsset(c *gin.Context) {
	walletID := getWalletID(c)
	if walletID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wallet identity required"})
		return
	}

	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	var req tokenizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	asset, err := h.service.Tokenize(c.Request.Context(), walletID, assetID, req.OwnerAccount)
	if err != nil {
		h.logger.Error("failed to tokenize asset", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func getWalletID(c *gin.Context) string {
	if v, ok := c.Get("wallet_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
