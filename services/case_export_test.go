package services

import (
	"bytes"
	"testing"
	"time"

	"advocate_office_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestExportCasesXLSX(t *testing.T) {
	filing, _ := time.Parse(DateLayout, "2024-03-01")

	cases := []models.LitigationCase{
		{
			CaseNo:        "OS/1/2024",
			Category:      models.CategoryBank,
			CourtName:     "District Court",
			CourtDistrict: "Pune",
			CaseType:      "Recovery Suit",
			FilingDate:    filing,
			Status:        models.CaseStatusActive,
			Bank: &models.BankCaseDetails{
				BankName:     "SBI",
				BorrowerName: "Kiran Patil",
				LoanAmount:   250000,
			},
		},
		{
			CaseNo:        "OS/2/2024",
			Category:      models.CategoryPrivate,
			CourtName:     "High Court",
			CourtDistrict: "Mumbai",
			CaseType:      "Civil Suit",
			FilingDate:    filing,
			Status:        models.CaseStatusPending,
			Private: &models.PrivateCaseDetails{
				PetitionerName: "Meena Rao",
			},
		},
	}

	buf, err := ExportCasesXLSX(cases)
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Cases")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	assert.Equal(t, "Case No", rows[0][0])
	assert.Equal(t, "OS/1/2024", rows[1][0])
	assert.Equal(t, "Kiran Patil", rows[1][3])
	assert.Equal(t, "SBI", rows[1][4])
	assert.Equal(t, "2024-03-01", rows[1][8])

	// Private cases carry no bank or loan columns
	assert.Equal(t, "Meena Rao", rows[2][3])
	assert.Equal(t, "", rows[2][4])
}

func TestExportCasesXLSXEmpty(t *testing.T) {
	buf, err := ExportCasesXLSX(nil)
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
