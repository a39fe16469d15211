package services

import (
	"bytes"
	"fmt"

	"advocate_office_go/models"

	"github.com/xuri/excelize/v2"
)

var caseExportHeaders = []string{
	"Case No", "Category", "Status", "Party Name", "Bank", "Court", "District",
	"Case Type", "Filing Date", "Next Hearing", "Loan Amount",
}

// ExportCasesXLSX renders a case collection (already filtered by the caller)
// as an xlsx workbook.
func ExportCasesXLSX(cases []models.LitigationCase) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cases"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range caseExportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, lc := range cases {
		nextHearing := ""
		if lc.NextHearingDate != nil {
			nextHearing = lc.NextHearingDate.Format(DateLayout)
		}

		loanAmount := ""
		if lc.Category == models.CategoryBank && lc.Bank != nil {
			loanAmount = fmt.Sprintf("%.2f", lc.Bank.LoanAmount)
		}

		values := []interface{}{
			lc.CaseNo,
			lc.Category,
			lc.Status,
			lc.PartyName(),
			lc.BankNameOrEmpty(),
			lc.CourtName,
			lc.CourtDistrict,
			lc.CaseType,
			lc.FilingDate.Format(DateLayout),
			nextHearing,
			loanAmount,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}
