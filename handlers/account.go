package handlers

import (
	"net/http"
	"strings"

	"advocate_office_go/db"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const minAccountPasswordLength = 8

type accountRequest struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

type accountUpdateRequest struct {
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func validateAccountRequest(req *accountRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username is required")
	}
	if len(req.Password) < minAccountPasswordLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}
	return nil
}

// CreateEmployeeAccountHandler creates a login account for office staff,
// optionally linked to an HR record. Admin only.
func CreateEmployeeAccountHandler(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := validateAccountRequest(&req); err != nil {
		return err
	}

	if req.EmployeeID != nil {
		var employee models.Employee
		if err := db.DB.First(&employee, "id = ?", *req.EmployeeID).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Linked employee not found")
		}
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	account := models.EmployeeAccount{
		Username:   req.Username,
		Password:   hash,
		IsActive:   true,
		EmployeeID: req.EmployeeID,
	}
	if err := db.DB.Create(&account).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return echo.NewHTTPError(http.StatusConflict, "Username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	services.LogSecurityEvent("ACCOUNT_CREATED", account.Username, "Employee account")
	return c.JSON(http.StatusCreated, account)
}

// CreateLitigationAccountHandler creates a login account for litigation staff.
// Admin only.
func CreateLitigationAccountHandler(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := validateAccountRequest(&req); err != nil {
		return err
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	account := models.LitigationAccount{
		Username: req.Username,
		Password: hash,
		IsActive: true,
	}
	if err := db.DB.Create(&account).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return echo.NewHTTPError(http.StatusConflict, "Username already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	services.LogSecurityEvent("ACCOUNT_CREATED", account.Username, "Litigation account")
	return c.JSON(http.StatusCreated, account)
}

// ListEmployeeAccountsHandler lists employee login accounts. Admin only.
func ListEmployeeAccountsHandler(c echo.Context) error {
	var accounts []models.EmployeeAccount
	if err := db.DB.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list accounts")
	}
	return c.JSON(http.StatusOK, accounts)
}

// ListLitigationAccountsHandler lists litigation login accounts. Admin only.
func ListLitigationAccountsHandler(c echo.Context) error {
	var accounts []models.LitigationAccount
	if err := db.DB.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list accounts")
	}
	return c.JSON(http.StatusOK, accounts)
}

// UpdateEmployeeAccountHandler resets the password or toggles active state.
// Deactivating an account blocks future logins but leaves the row in place.
func UpdateEmployeeAccountHandler(c echo.Context) error {
	var account models.EmployeeAccount
	if err := db.DB.First(&account, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Account not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load account")
	}

	var req accountUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := applyAccountUpdate(&req, &account.Password, &account.IsActive); err != nil {
		return err
	}

	if err := db.DB.Save(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update account")
	}

	services.LogSecurityEvent("ACCOUNT_UPDATED", account.Username, "Employee account")
	return c.JSON(http.StatusOK, account)
}

// UpdateLitigationAccountHandler resets the password or toggles active state
func UpdateLitigationAccountHandler(c echo.Context) error {
	var account models.LitigationAccount
	if err := db.DB.First(&account, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Account not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load account")
	}

	var req accountUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := applyAccountUpdate(&req, &account.Password, &account.IsActive); err != nil {
		return err
	}

	if err := db.DB.Save(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update account")
	}

	services.LogSecurityEvent("ACCOUNT_UPDATED", account.Username, "Litigation account")
	return c.JSON(http.StatusOK, account)
}

func applyAccountUpdate(req *accountUpdateRequest, password *string, isActive *bool) error {
	if req.Password != nil {
		if len(*req.Password) < minAccountPasswordLength {
			return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
		}
		hash, err := services.HashPassword(*req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update account")
		}
		*password = hash
	}
	if req.IsActive != nil {
		*isActive = *req.IsActive
	}
	return nil
}
