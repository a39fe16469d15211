package handlers

import (
	"fmt"
	"net/http"
	"time"

	"advocate_office_go/db"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// caseFromRecord maps a validated record onto a litigation case. The category
// selects which variant field group is built; the other is cleared so a
// category switch never carries stale fields into the row.
func caseFromRecord(lc *models.LitigationCase, category string, record map[string]string) error {
	filingDate, err := services.ParseDate(record["filing_date"])
	if err != nil {
		return err
	}
	nextHearing, err := services.ParseOptionalDate(record["next_hearing_date"])
	if err != nil {
		return err
	}
	judgementDate, err := services.ParseOptionalDate(record["judgement_date"])
	if err != nil {
		return err
	}
	initialFeesReceivedOn, err := services.ParseOptionalDate(record["initial_fees_received_on"])
	if err != nil {
		return err
	}
	finalFeesReceivedOn, err := services.ParseOptionalDate(record["final_fees_received_on"])
	if err != nil {
		return err
	}
	totalFees, err := services.ParseOptionalAmount(record["total_advocate_fees"])
	if err != nil {
		return err
	}
	initialFees, err := services.ParseOptionalAmount(record["initial_fees"])
	if err != nil {
		return err
	}
	finalFees, err := services.ParseOptionalAmount(record["final_fees"])
	if err != nil {
		return err
	}

	lc.CaseNo = record["case_no"]
	lc.Category = category
	lc.CourtName = record["court_name"]
	lc.CourtDistrict = record["court_district"]
	lc.CaseType = record["case_type"]
	lc.FilingDate = filingDate
	lc.NextHearingDate = nextHearing
	lc.PresentStatus = optionalString(record["present_status"])
	lc.Details = optionalString(record["details"])
	lc.JudgementDate = judgementDate
	lc.TotalAdvocateFees = totalFees
	lc.InitialFees = initialFees
	lc.InitialFeesReceivedOn = initialFeesReceivedOn
	lc.FinalFees = finalFees
	lc.FinalFeesReceivedOn = finalFeesReceivedOn

	switch category {
	case models.CategoryBank:
		loanAmount, err := services.ParseOptionalAmount(record["loan_amount"])
		if err != nil || loanAmount == nil {
			return fmt.Errorf("invalid loan amount")
		}
		lc.Bank = &models.BankCaseDetails{
			BankName:       record["bank_name"],
			BranchName:     record["branch_name"],
			AccountNo:      record["account_no"],
			LoanAmount:     *loanAmount,
			BorrowerName:   record["borrower_name"],
			CoBorrowerName: optionalString(record["co_borrower_name"]),
		}
		lc.Private = nil
	case models.CategoryPrivate:
		lc.Private = &models.PrivateCaseDetails{
			PetitionerName:    record["petitioner_name"],
			PetitionerAddress: record["petitioner_address"],
			RespondentName:    record["respondent_name"],
			RespondentAddress: record["respondent_address"],
		}
		lc.Bank = nil
	}

	return nil
}

// validateCasePayload runs the category-selected schema over the payload and
// resolves the status field. It returns the normalized record, the status and
// the failing field names.
func validateCasePayload(values map[string]string, currentStatus string) (map[string]string, string, []string, error) {
	category := values["category"]
	rules, err := services.CaseFieldRules(category)
	if err != nil {
		return nil, "", nil, err
	}

	record, invalid := services.ValidateRecord(rules, values)

	status := values["status"]
	if status == "" {
		status = currentStatus
	}
	if status == "" {
		status = models.CaseStatusActive
	}
	if !models.IsValidCaseStatus(status) {
		invalid = append(invalid, "status")
	}

	return record, status, invalid, nil
}

// caseView is the list-view shape: the case plus its display metadata
type caseView struct {
	models.LitigationCase
	PartyName    string `json:"party_name"`
	BadgeVariant string `json:"badge_variant"`
}

func caseViews(cases []models.LitigationCase) []caseView {
	views := make([]caseView, 0, len(cases))
	for _, lc := range cases {
		views = append(views, caseView{
			LitigationCase: lc,
			PartyName:      lc.PartyName(),
			BadgeVariant:   models.StatusBadgeVariant(lc.Status),
		})
	}
	return views
}

func caseQueryFrom(c echo.Context) services.CaseQuery {
	return services.CaseQuery{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Bank:     c.QueryParam("bank"),
	}
}

func loadCases(c echo.Context) ([]models.LitigationCase, error) {
	var cases []models.LitigationCase
	if err := db.DB.Order("created_at DESC").Find(&cases).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to list cases")
	}
	return services.FilterCases(cases, caseQueryFrom(c)), nil
}

// CreateCaseHandler creates a litigation case from a field map. The payload's
// category decides which variant schema applies.
func CreateCaseHandler(c echo.Context) error {
	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, status, invalid, err := validateCasePayload(values, "")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid case category")
	}
	if len(invalid) > 0 {
		return validationErrorResponse(c, invalid)
	}

	var litCase models.LitigationCase
	if err := caseFromRecord(&litCase, values["category"], record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid field value")
	}
	litCase.Status = status

	if err := db.DB.Create(&litCase).Error; err != nil {
		c.Logger().Errorf("Failed to create case: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create case")
	}

	return c.JSON(http.StatusCreated, litCase)
}

// ListCasesHandler lists cases filtered by search, category and status
func ListCasesHandler(c echo.Context) error {
	filtered, err := loadCases(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caseViews(filtered))
}

// GetCaseHandler returns one case by ID
func GetCaseHandler(c echo.Context) error {
	var litCase models.LitigationCase
	if err := db.DB.First(&litCase, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load case")
	}
	return c.JSON(http.StatusOK, litCase)
}

// UpdateCaseHandler replaces a case with a validated field map. Switching the
// category drops the previous branch's fields entirely.
func UpdateCaseHandler(c echo.Context) error {
	var litCase models.LitigationCase
	if err := db.DB.First(&litCase, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Case not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load case")
	}

	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, status, invalid, err := validateCasePayload(values, litCase.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid case category")
	}
	if len(invalid) > 0 {
		return validationErrorResponse(c, invalid)
	}

	if err := caseFromRecord(&litCase, values["category"], record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid field value")
	}
	litCase.Status = status

	if err := db.DB.Save(&litCase).Error; err != nil {
		c.Logger().Errorf("Failed to update case %s: %v", litCase.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update case")
	}

	return c.JSON(http.StatusOK, litCase)
}

// DeleteCaseHandler soft-deletes a case
func DeleteCaseHandler(c echo.Context) error {
	result := db.DB.Delete(&models.LitigationCase{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete case")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Case not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Case deleted"})
}

// LoanRecoveryHandler is the bank-case view: only bank-category cases, with
// the distinct bank names for the bank facet.
func LoanRecoveryHandler(c echo.Context) error {
	var cases []models.LitigationCase
	if err := db.DB.Where("category = ?", models.CategoryBank).Order("created_at DESC").Find(&cases).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list loan recovery cases")
	}

	q := caseQueryFrom(c)
	q.Category = models.CategoryBank

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cases": caseViews(services.FilterCases(cases, q)),
		"banks": services.BankNames(cases),
	})
}

// CaseSnapshotHandler serves the watcher's most recently applied case
// collection. The watcher re-fetches on change notifications and discards
// stale responses, so the snapshot never regresses.
func CaseSnapshotHandler(watcher *services.CaseWatcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		filtered := services.FilterCases(watcher.Snapshot(), caseQueryFrom(c))
		return c.JSON(http.StatusOK, caseViews(filtered))
	}
}

// ExportCasesHandler streams the filtered case list as an xlsx workbook
func ExportCasesHandler(c echo.Context) error {
	filtered, err := loadCases(c)
	if err != nil {
		return err
	}

	buf, exportErr := services.ExportCasesXLSX(filtered)
	if exportErr != nil {
		c.Logger().Errorf("Failed to export cases: %v", exportErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export cases")
	}

	fileName := fmt.Sprintf("cases-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
