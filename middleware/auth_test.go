package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"advocate_office_go/db"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	assert.NoError(t, testDB.AutoMigrate(&models.Session{}))
	db.DB = testDB
	return testDB
}

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequireAuth(t *testing.T) {
	t.Run("Valid session passes and lands in context", func(t *testing.T) {
		database := setupTestDB(t)
		session, err := services.CreateSession(database, models.RoleEmployee, "account-1", "office1", "127.0.0.1", "test-agent")
		assert.NoError(t, err)

		c, rec := newContext(t)
		c.Request().AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})

		handler := RequireAuth()(func(c echo.Context) error {
			got := GetCurrentSession(c)
			assert.NotNil(t, got)
			assert.Equal(t, models.RoleEmployee, got.Role)
			return okHandler(c)
		})

		assert.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing cookie is unauthorized", func(t *testing.T) {
		setupTestDB(t)
		c, _ := newContext(t)

		err := RequireAuth()(okHandler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("Expired session is unauthorized and cookie cleared", func(t *testing.T) {
		database := setupTestDB(t)
		session, err := services.CreateSession(database, models.RoleAdmin, "", "admin", "127.0.0.1", "test-agent")
		assert.NoError(t, err)
		database.Model(session).Update("expires_at", time.Now().Add(-time.Hour))

		c, rec := newContext(t)
		c.Request().AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})

		err = RequireAuth()(okHandler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

		cleared := false
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == SessionCookieName && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared)
	})
}

func TestRequireRole(t *testing.T) {
	withSession := func(role string) echo.Context {
		c, _ := newContext(t)
		c.Set(ContextKeySession, &models.Session{Role: role, Username: "u"})
		return c
	}

	t.Run("Matching role passes", func(t *testing.T) {
		err := RequireRole(models.RoleAdmin)(okHandler)(withSession(models.RoleAdmin))
		assert.NoError(t, err)
	})

	t.Run("Any listed role passes", func(t *testing.T) {
		err := RequireRole(models.RoleAdmin, models.RoleLitigation)(okHandler)(withSession(models.RoleLitigation))
		assert.NoError(t, err)
	})

	t.Run("Other role is forbidden", func(t *testing.T) {
		err := RequireRole(models.RoleAdmin)(okHandler)(withSession(models.RoleEmployee))
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("No session is unauthorized", func(t *testing.T) {
		c, _ := newContext(t)
		err := RequireRole(models.RoleAdmin)(okHandler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
