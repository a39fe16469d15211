package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"advocate_office_go/db"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/stretchr/testify/assert"
)

func bankCasePayload(caseNo string) map[string]string {
	return map[string]string{
		"category":       models.CategoryBank,
		"case_no":        caseNo,
		"court_name":     "District Court",
		"court_district": "Pune",
		"case_type":      "Recovery Suit",
		"filing_date":    "2024-03-01",
		"bank_name":      "SBI",
		"branch_name":    "Camp Branch",
		"account_no":     "9988776655",
		"loan_amount":    "250000",
		"borrower_name":  "Kiran Patil",
	}
}

func privateCasePayload(caseNo string) map[string]string {
	return map[string]string{
		"category":           models.CategoryPrivate,
		"case_no":            caseNo,
		"court_name":         "High Court",
		"court_district":     "Mumbai",
		"case_type":          "Civil Suit",
		"filing_date":        "2024-05-10",
		"petitioner_name":    "Meena Rao",
		"petitioner_address": "14 Hill Road",
		"respondent_name":    "Ajay Singh",
		"respondent_address": "2 Lake View",
	}
}

func createCase(t *testing.T, payload map[string]string) models.LitigationCase {
	t.Helper()
	_, c, rec := setupEcho(http.MethodPost, "/api/cases", jsonBody(t, payload))
	setJSONContentType(c)

	assert.NoError(t, CreateCaseHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var litCase models.LitigationCase
	decodeJSON(t, rec, &litCase)
	return litCase
}

func TestCreateCaseHandler(t *testing.T) {
	t.Run("Bank case stores its field group", func(t *testing.T) {
		setupTestDB(t)

		litCase := createCase(t, bankCasePayload("OS/1/2024"))
		assert.Equal(t, models.CategoryBank, litCase.Category)
		assert.Equal(t, models.CaseStatusActive, litCase.Status)
		assert.NotNil(t, litCase.Bank)
		assert.Nil(t, litCase.Private)
		assert.Equal(t, 250000.0, litCase.Bank.LoanAmount)
	})

	t.Run("Private case stores its field group", func(t *testing.T) {
		setupTestDB(t)

		litCase := createCase(t, privateCasePayload("OS/2/2024"))
		assert.Equal(t, models.CategoryPrivate, litCase.Category)
		assert.Nil(t, litCase.Bank)
		assert.NotNil(t, litCase.Private)
		assert.Equal(t, "Meena Rao", litCase.Private.PetitionerName)
	})

	t.Run("Missing branch fields are reported", func(t *testing.T) {
		setupTestDB(t)

		payload := bankCasePayload("OS/3/2024")
		delete(payload, "borrower_name")
		delete(payload, "loan_amount")

		_, c, rec := setupEcho(http.MethodPost, "/api/cases", jsonBody(t, payload))
		setJSONContentType(c)

		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			InvalidFields []string `json:"invalid_fields"`
		}
		decodeJSON(t, rec, &resp)
		assert.Equal(t, []string{"loan_amount", "borrower_name"}, resp.InvalidFields)
	})

	t.Run("Unknown category is rejected", func(t *testing.T) {
		setupTestDB(t)

		payload := bankCasePayload("OS/4/2024")
		payload["category"] = "corporate"

		_, c, _ := setupEcho(http.MethodPost, "/api/cases", jsonBody(t, payload))
		setJSONContentType(c)

		err := CreateCaseHandler(c)
		assert.Equal(t, http.StatusBadRequest, httpError(t, err).Code)
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		setupTestDB(t)

		payload := bankCasePayload("OS/5/2024")
		payload["status"] = "Archived"

		_, c, rec := setupEcho(http.MethodPost, "/api/cases", jsonBody(t, payload))
		setJSONContentType(c)

		assert.NoError(t, CreateCaseHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListCasesHandler(t *testing.T) {
	setupTestDB(t)

	createCase(t, bankCasePayload("OS/1/2024"))
	private := privateCasePayload("OS/2/2024")
	private["status"] = models.CaseStatusPending
	createCase(t, private)

	t.Run("Lists all cases with display metadata", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases", nil)

		assert.NoError(t, ListCasesHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var views []struct {
			CaseNo       string `json:"case_no"`
			PartyName    string `json:"party_name"`
			BadgeVariant string `json:"badge_variant"`
			Status       string `json:"status"`
		}
		decodeJSON(t, rec, &views)
		assert.Len(t, views, 2)

		byCaseNo := make(map[string]string)
		badges := make(map[string]string)
		for _, v := range views {
			byCaseNo[v.CaseNo] = v.PartyName
			badges[v.Status] = v.BadgeVariant
		}
		assert.Equal(t, "Kiran Patil", byCaseNo["OS/1/2024"])
		assert.Equal(t, "Meena Rao", byCaseNo["OS/2/2024"])
		assert.Equal(t, models.BadgePrimary, badges[models.CaseStatusActive])
		assert.Equal(t, models.BadgeSecondary, badges[models.CaseStatusPending])
	})

	t.Run("Category facet filters", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases?category=bank", nil)

		assert.NoError(t, ListCasesHandler(c))

		var views []map[string]interface{}
		decodeJSON(t, rec, &views)
		assert.Len(t, views, 1)
	})

	t.Run("Search filters by borrower", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases?search=kiran", nil)

		assert.NoError(t, ListCasesHandler(c))

		var views []map[string]interface{}
		decodeJSON(t, rec, &views)
		assert.Len(t, views, 1)
	})
}

func TestUpdateCaseHandler(t *testing.T) {
	t.Run("Category switch drops the stale branch", func(t *testing.T) {
		database := setupTestDB(t)
		litCase := createCase(t, bankCasePayload("OS/1/2024"))

		// Switch to private; the payload still carries leftover bank fields
		payload := privateCasePayload("OS/1/2024")
		payload["bank_name"] = "SBI"
		payload["loan_amount"] = "250000"

		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+litCase.ID, jsonBody(t, payload))
		setJSONContentType(c)
		c.SetParamNames("id")
		c.SetParamValues(litCase.ID)

		assert.NoError(t, UpdateCaseHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var stored models.LitigationCase
		assert.NoError(t, database.First(&stored, "id = ?", litCase.ID).Error)
		assert.Equal(t, models.CategoryPrivate, stored.Category)
		assert.Nil(t, stored.Bank)
		assert.NotNil(t, stored.Private)
	})

	t.Run("Status change persists", func(t *testing.T) {
		setupTestDB(t)
		litCase := createCase(t, bankCasePayload("OS/2/2024"))

		payload := bankCasePayload("OS/2/2024")
		payload["status"] = models.CaseStatusSettlementNegotiation

		_, c, rec := setupEcho(http.MethodPut, "/api/cases/"+litCase.ID, jsonBody(t, payload))
		setJSONContentType(c)
		c.SetParamNames("id")
		c.SetParamValues(litCase.ID)

		assert.NoError(t, UpdateCaseHandler(c))

		var updated models.LitigationCase
		decodeJSON(t, rec, &updated)
		assert.Equal(t, models.CaseStatusSettlementNegotiation, updated.Status)
	})

	t.Run("Unknown case is a 404", func(t *testing.T) {
		setupTestDB(t)

		_, c, _ := setupEcho(http.MethodPut, "/api/cases/missing", jsonBody(t, bankCasePayload("OS/9/2024")))
		setJSONContentType(c)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := UpdateCaseHandler(c)
		assert.Equal(t, http.StatusNotFound, httpError(t, err).Code)
	})
}

func TestDeleteCaseHandler(t *testing.T) {
	database := setupTestDB(t)
	litCase := createCase(t, bankCasePayload("OS/1/2024"))

	_, c, rec := setupEcho(http.MethodDelete, "/api/cases/"+litCase.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(litCase.ID)

	assert.NoError(t, DeleteCaseHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	database.Model(&models.LitigationCase{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLoanRecoveryHandler(t *testing.T) {
	setupTestDB(t)

	createCase(t, bankCasePayload("OS/1/2024"))
	hdfc := bankCasePayload("OS/2/2024")
	hdfc["bank_name"] = "HDFC Bank"
	createCase(t, hdfc)
	createCase(t, privateCasePayload("OS/3/2024"))

	t.Run("Only bank cases, with the bank facet", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/loan-recovery", nil)

		assert.NoError(t, LoanRecoveryHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Cases []map[string]interface{} `json:"cases"`
			Banks []string                 `json:"banks"`
		}
		decodeJSON(t, rec, &resp)
		assert.Len(t, resp.Cases, 2)
		assert.ElementsMatch(t, []string{"SBI", "HDFC Bank"}, resp.Banks)
	})

	t.Run("Bank facet narrows the list but not the facet values", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/cases/loan-recovery?bank=SBI", nil)

		assert.NoError(t, LoanRecoveryHandler(c))

		var resp struct {
			Cases []map[string]interface{} `json:"cases"`
			Banks []string                 `json:"banks"`
		}
		decodeJSON(t, rec, &resp)
		assert.Len(t, resp.Cases, 1)
		assert.Len(t, resp.Banks, 2)
	})
}

func TestCaseSnapshotHandler(t *testing.T) {
	database := setupTestDB(t)
	createCase(t, bankCasePayload("OS/1/2024"))

	watcher := services.NewCaseWatcher(db.Notify, func(ctx context.Context) ([]models.LitigationCase, error) {
		var cases []models.LitigationCase
		err := database.WithContext(ctx).Order("created_at DESC").Find(&cases).Error
		return cases, err
	})
	defer watcher.Stop()

	handler := CaseSnapshotHandler(watcher)

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/snapshot", nil)
	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var views []map[string]interface{}
	decodeJSON(t, rec, &views)
	assert.Len(t, views, 1)

	// New writes reach the snapshot via change notifications
	createCase(t, privateCasePayload("OS/2/2024"))

	assert.Eventually(t, func() bool {
		return len(watcher.Snapshot()) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestExportCasesHandler(t *testing.T) {
	setupTestDB(t)
	createCase(t, bankCasePayload("OS/1/2024"))

	_, c, rec := setupEcho(http.MethodGet, "/api/cases/export", nil)

	assert.NoError(t, ExportCasesHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, rec.Body.Len())
}
