package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"advocate_office_go/config"
	"advocate_office_go/db"
	"advocate_office_go/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Employee{},
		&models.EmployeeAccount{},
		&models.LitigationAccount{},
		&models.LitigationCase{},
		&models.UploadedFile{},
		&models.Session{},
	)
	assert.NoError(t, err)

	// Change notifications feed the global hub, as in production
	assert.NoError(t, db.InstallNotifyCallbacks(testDB))

	// Set global DB
	db.DB = testDB

	return testDB
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:      "test",
		AdminEmail:       "admin@advocateoffice.local",
		AdminPassword:    "admin-test-password",
		CloudinaryFolder: "attendance",
	}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", testConfig())

	return e, c, rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	data, err := json.Marshal(v)
	assert.NoError(t, err)
	return strings.NewReader(string(data))
}

func setJSONContentType(c echo.Context) {
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return httpErr
}

func stringToPtr(s string) *string {
	return &s
}
