package lending

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for borrowing operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new lending handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers borrowing routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	borrow := router.Group("/borrow")
	{
		borrow.GET("/collateral", h.eligibleCollateral)
		borrow.POST("", h.borrow)
		borrow.GET("/positions", h.listPositions)
		borrow.GET("/positions/:id/payoff", h.payoffQuote)
		borrow.POST("/positions/:id/repay", h.repay)
		borrow.GET("/portfolio", h.portfolio)
		borrow.GET("/at-risk", h.atRisk)
	}
}

// eligibleCollateral handles GET /api/v1/borrow/collateral
func (h *Handler) eligibleCollateral(c *gin.Context) {
	borrowerID := h.getBorrowerID(c)
	result := h.service.EligibleCollateral(c.Request.Context(), borrowerID)
	c.JSON(http.StatusOK, result)
}

// borrow handles POST /api/v1/borrow
func (h *Handler) borrow(c *gin.Context) {
	var req BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	borrowerID := h.getBorrowerID(c)

	position, err := h.service.Borrow(c.Request.Context(), borrowerID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, position)
}

// listPositions handles GET /api/v1/borrow/positions
func (h *Handler) listPositions(c *gin.Context) {
	borrowerID := h.getBorrowerID(c)
	result := h.service.Positions(c.Request.Context(), borrowerID)
	c.JSON(http.StatusOK, result)
}

// payoffQuote handles GET /api/v1/borrow/positions/:id/payoff
func (h *Handler) payoffQuote(c *gin.Context) {
	positionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position id"})
		return
	}

	borrowerID := h.getBorrowerID(c)
	principal, accrued, total, err := h.service.PayoffQuote(c.Request.Context(), borrowerID, positionID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"position_id":    positionID,
		"principal_usd":  principal,
		"accrued_usd":    accrued,
		"total_owed_usd": total,
	})
}

// repay handles POST /api/v1/borrow/positions/:id/repay
func (h *Handler) repay(c *gin.Context) {
	positionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position id"})
		return
	}

	var body struct {
		TxReference *string `json:"tx_reference"`
	}
	// Body is optional; a bare POST repays with no transaction reference.
	_ = c.ShouldBindJSON(&body)

	borrowerID := h.getBorrowerID(c)
	result, err := h.service.Repay(c.Request.Context(), borrowerID, positionID, body.TxReference)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// portfolio handles GET /api/v1/borrow/portfolio
func (h *Handler) portfolio(c *gin.Context) {
	borrowerID := h.getBorrowerID(c)
	result := h.service.Portfolio(c.Request.Context(), borrowerID)
	c.JSON(http.StatusOK, result)
}

// atRisk handles GET /api/v1/borrow/at-risk
func (h *Handler) atRisk(c *gin.Context) {
	borrowerID := h.getBorrowerID(c)
	flagged, err := h.service.AtRisk(c.Request.Context(), borrowerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if flagged == nil {
		flagged = []Classification{}
	}
	c.JSON(http.StatusOK, gin.H{"positions": flagged})
}

// writeError maps engine errors onto HTTP statuses
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var limitErr *LimitExceededError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &limitErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          limitErr.Error(),
			"max_borrowable": limitErr.MaxBorrowable,
			"max_ltv":        limitErr.MaxLTV,
			"requested_ltv":  limitErr.RequestedLTV,
		})
	case errors.Is(err, ErrAssetCollateralized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrPositionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrPositionNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Unhandled lending error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// getBorrowerID extracts the authenticated wallet from context (set by
// the auth middleware)
func (h *Handler) getBorrowerID(c *gin.Context) string {
	if wallet, exists := c.Get("wallet_id"); exists {
		if id, ok := wallet.(string); ok {
			return id
		}
	}
	return ""
}
