package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/lending"
)

// StatementExporter renders a borrower's portfolio statement as an XLSX
// workbook: a summary block followed by one row per position.
type StatementExporter struct {
	currencyFormat string
	dateFormat     string
}

// NewStatementExporter creates a statement exporter with default formats
func NewStatementExporter() *StatementExporter {
	return &StatementExporter{
		currencyFormat: "$#,##0.00",
		dateFormat:     "2006-01-02",
	}
}

// Export writes the statement workbook to w.
func (e *StatementExporter) Export(w io.Writer, borrowerID string, summary *lending.PortfolioSummary, positions []lending.BorrowPosition, asOf time.Time) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Portfolio"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	currencyStyle, err := file.NewStyle(&excelize.Style{
		CustomNumFmt: &e.currencyFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to create currency style: %w", err)
	}

	// Summary block
	file.SetCellValue(sheet, "A1", "Borrowing Portfolio Statement")
	file.SetCellValue(sheet, "A2", "Wallet")
	file.SetCellValue(sheet, "B2", borrowerID)
	file.SetCellValue(sheet, "A3", "As of")
	file.SetCellValue(sheet, "B3", asOf.Format(e.dateFormat))
	file.SetCellValue(sheet, "A4", "Total borrowed")
	file.SetCellValue(sheet, "B4", summary.TotalBorrowedUSD)
	file.SetCellValue(sheet, "A5", "Total collateral")
	file.SetCellValue(sheet, "B5", summary.TotalCollateralUSD)
	file.SetCellValue(sheet, "A6", "Blended LTV")
	file.SetCellValue(sheet, "B6", fmt.Sprintf("%.2f%%", summary.BlendedLTV*100))
	file.SetCellStyle(sheet, "B4", "B5", currencyStyle)

	// Position table
	headers := []string{"Position", "Pool", "Status", "Risk tier", "Health",
		"Principal (USD)", "Collateral (USD)", "LTV", "Rate", "Accrued (USD)", "Start", "Maturity"}
	const tableStart = 8
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableStart)
		file.SetCellValue(sheet, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, tableStart)
	last, _ := excelize.CoordinatesToCellName(len(headers), tableStart)
	file.SetCellStyle(sheet, first, last, headerStyle)

	for i := range positions {
		p := &positions[i]
		row := tableStart + 1 + i
		values := []interface{}{
			p.ID.String(),
			p.PoolID,
			string(p.Status),
			string(p.RiskTier),
			string(lending.Classify(p)),
			p.PrincipalUSD,
			p.CollateralValueUSD,
			fmt.Sprintf("%.2f%%", p.RequestedLTV*100),
			fmt.Sprintf("%.2f%%", p.InterestRate*100),
			lending.AccruedInterest(p, asOf),
			p.StartAt.Format(e.dateFormat),
			p.MaturityAt.Format(e.dateFormat),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			file.SetCellValue(sheet, cell, v)
		}
		fc, _ := excelize.CoordinatesToCellName(6, row)
		lc, _ := excelize.CoordinatesToCellName(7, row)
		file.SetCellStyle(sheet, fc, lc, currencyStyle)
	}

	file.SetColWidth(sheet, "A", "A", 38)
	file.SetColWidth(sheet, "B", "L", 16)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write statement: %w", err)
	}
	return nil
}
