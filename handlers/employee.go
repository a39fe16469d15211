package handlers

import (
	"net/http"

	"advocate_office_go/db"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// employeeFromRecord maps a validated record onto an employee model. The
// record has already passed schema validation, so date parses cannot fail.
func employeeFromRecord(e *models.Employee, record map[string]string) error {
	dob, err := services.ParseDate(record["dob"])
	if err != nil {
		return err
	}
	doj, err := services.ParseDate(record["date_of_joining"])
	if err != nil {
		return err
	}

	e.Name = record["name"]
	e.GuardianName = record["guardian_name"]
	e.Gender = record["gender"]
	e.DateOfBirth = dob
	e.Qualification = record["qualification"]
	e.PhoneNo = record["phone_no"]
	e.Email = record["email"]
	e.Address = record["address"]
	e.AccountNo = record["account_no"]
	e.IFSCCode = record["ifsc_code"]
	e.Branch = record["branch"]
	e.BankName = record["bank"]
	e.DateOfJoining = doj

	e.AlternatePhoneNo = optionalString(record["alternate_phone_no"])
	e.PhotoURL = optionalString(record["photo"])
	e.Reference = optionalString(record["reference"])
	e.Details = optionalString(record["details"])

	return nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// validationErrorResponse is the shape returned when a record fails schema
// validation: the failing field names, in schema order.
func validationErrorResponse(c echo.Context, invalid []string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":          "Validation failed",
		"invalid_fields": invalid,
	})
}

// CreateEmployeeHandler creates an employee record from a field map
func CreateEmployeeHandler(c echo.Context) error {
	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, invalid := services.ValidateRecord(services.EmployeeFieldRules, values)
	if !models.IsValidGender(record["gender"]) {
		invalid = append(invalid, "gender")
	}
	if len(invalid) > 0 {
		return validationErrorResponse(c, invalid)
	}

	var employee models.Employee
	if err := employeeFromRecord(&employee, record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date value")
	}

	if err := db.DB.Create(&employee).Error; err != nil {
		c.Logger().Errorf("Failed to create employee: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create employee")
	}

	return c.JSON(http.StatusCreated, employee)
}

// ListEmployeesHandler lists employees, optionally filtered by a search string
// over name, phone and email.
func ListEmployeesHandler(c echo.Context) error {
	var employees []models.Employee
	if err := db.DB.Order("created_at DESC").Find(&employees).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list employees")
	}

	filtered := services.FilterEmployees(employees, c.QueryParam("search"))
	return c.JSON(http.StatusOK, filtered)
}

// GetEmployeeHandler returns one employee by ID
func GetEmployeeHandler(c echo.Context) error {
	var employee models.Employee
	if err := db.DB.First(&employee, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load employee")
	}
	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployeeHandler replaces an employee record with a validated field map
func UpdateEmployeeHandler(c echo.Context) error {
	var employee models.Employee
	if err := db.DB.First(&employee, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load employee")
	}

	var values map[string]string
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	record, invalid := services.ValidateRecord(services.EmployeeFieldRules, values)
	if !models.IsValidGender(record["gender"]) {
		invalid = append(invalid, "gender")
	}
	if len(invalid) > 0 {
		return validationErrorResponse(c, invalid)
	}

	if err := employeeFromRecord(&employee, record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date value")
	}

	if err := db.DB.Save(&employee).Error; err != nil {
		c.Logger().Errorf("Failed to update employee %s: %v", employee.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update employee")
	}

	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployeeHandler soft-deletes an employee record
func DeleteEmployeeHandler(c echo.Context) error {
	result := db.DB.Delete(&models.Employee{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete employee")
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Employee deleted"})
}
