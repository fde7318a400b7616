package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/lending"
)

// Handler serves portfolio statement downloads
type Handler struct {
	lending  *lending.Service
	exporter *StatementExporter
	logger   *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(lendingService *lending.Service, logger *zap.Logger) *Handler {
	return &Handler{
		lending:  lendingService,
		exporter: NewStatementExporter(),
		logger:   logger,
	}
}

// RegisterRoutes registers reporting routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/portfolio-statement", h.portfolioStatement)
	}
}

// portfolioStatement handles GET /api/v1/reports/portfolio-statement
func (h *Handler) portfolioStatement(c *gin.Context) {
	borrowerID := h.getBorrowerID(c)

	list := h.lending.Positions(c.Request.Context(), borrowerID)
	if list.Degraded {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": list.Warning})
		return
	}

	asOf := time.Now().UTC()
	summary := lending.Summarize(list.Positions)

	filename := fmt.Sprintf("portfolio-statement-%s.xlsx", asOf.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.Export(c.Writer, borrowerID, summary, list.Positions, asOf); err != nil {
		h.logger.Error("Failed to export portfolio statement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) getBorrowerID(c *gin.Context) string {
	if wallet, exists := c.Get("wallet_id"); exists {
		if id, ok := wallet.(string); ok {
			return id
		}
	}
	return ""
}
