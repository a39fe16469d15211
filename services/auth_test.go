package services

import (
	"testing"
	"time"

	"advocate_office_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	assert.NoError(t, testDB.AutoMigrate(
		&models.EmployeeAccount{},
		&models.LitigationAccount{},
		&models.Session{},
	))
	return testDB
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestAuthenticateEmployee(t *testing.T) {
	db := setupAuthDB(t)

	hash, _ := HashPassword("pass123456789")
	db.Create(&models.EmployeeAccount{Username: "office1", Password: hash, IsActive: true})

	t.Run("Valid credentials", func(t *testing.T) {
		account, err := AuthenticateEmployee(db, "office1", "pass123456789")
		assert.NoError(t, err)
		assert.Equal(t, "office1", account.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := AuthenticateEmployee(db, "office1", "wrong")
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("Unknown username", func(t *testing.T) {
		_, err := AuthenticateEmployee(db, "ghost", "pass123456789")
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("Inactive account is rejected", func(t *testing.T) {
		db.Create(&models.EmployeeAccount{Username: "disabled", Password: hash, IsActive: false})
		_, err := AuthenticateEmployee(db, "disabled", "pass123456789")
		assert.EqualError(t, err, "invalid credentials")
	})
}

func TestAuthenticateLitigation(t *testing.T) {
	db := setupAuthDB(t)

	hash, _ := HashPassword("pass123456789")
	db.Create(&models.LitigationAccount{Username: "lit1", Password: hash, IsActive: true})

	account, err := AuthenticateLitigation(db, "lit1", "pass123456789")
	assert.NoError(t, err)
	assert.Equal(t, "lit1", account.Username)

	_, err = AuthenticateLitigation(db, "lit1", "wrong")
	assert.EqualError(t, err, "invalid credentials")
}

func TestSessions(t *testing.T) {
	db := setupAuthDB(t)

	t.Run("Admin session has no account ID", func(t *testing.T) {
		session, err := CreateSession(db, models.RoleAdmin, "", "admin@advocateoffice.local", "127.0.0.1", "test-agent")
		assert.NoError(t, err)
		assert.Nil(t, session.AccountID)
		assert.Len(t, session.Token, SessionTokenLength*2)

		loaded, err := ValidateSession(db, session.Token)
		assert.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, loaded.Role)
	})

	t.Run("Account session carries its account ID", func(t *testing.T) {
		session, err := CreateSession(db, models.RoleEmployee, "account-1", "office1", "127.0.0.1", "test-agent")
		assert.NoError(t, err)
		assert.NotNil(t, session.AccountID)
		assert.Equal(t, "account-1", *session.AccountID)
	})

	t.Run("Unknown token is rejected", func(t *testing.T) {
		_, err := ValidateSession(db, "no-such-token")
		assert.Error(t, err)
	})

	t.Run("Expired session is rejected and removed", func(t *testing.T) {
		session, err := CreateSession(db, models.RoleLitigation, "account-2", "lit1", "127.0.0.1", "test-agent")
		assert.NoError(t, err)

		db.Model(session).Update("expires_at", time.Now().Add(-time.Hour))

		_, err = ValidateSession(db, session.Token)
		assert.Error(t, err)

		var count int64
		db.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Delete session logs out", func(t *testing.T) {
		session, err := CreateSession(db, models.RoleEmployee, "account-3", "office1", "127.0.0.1", "test-agent")
		assert.NoError(t, err)

		assert.NoError(t, DeleteSession(db, session.Token))
		_, err = ValidateSession(db, session.Token)
		assert.Error(t, err)
	})

	t.Run("Cleanup removes only expired sessions", func(t *testing.T) {
		live, _ := CreateSession(db, models.RoleEmployee, "account-4", "office1", "127.0.0.1", "test-agent")
		stale, _ := CreateSession(db, models.RoleEmployee, "account-5", "office1", "127.0.0.1", "test-agent")
		db.Model(stale).Update("expires_at", time.Now().Add(-time.Minute))

		assert.NoError(t, CleanupExpiredSessions(db))

		_, err := ValidateSession(db, live.Token)
		assert.NoError(t, err)

		var count int64
		db.Model(&models.Session{}).Where("token = ?", stale.Token).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}
