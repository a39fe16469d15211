package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"advocate_office_go/config"
	"advocate_office_go/db"
	"advocate_office_go/middleware"
	"advocate_office_go/models"
	"advocate_office_go/services"

	"github.com/labstack/echo/v4"
)

func init() {
	// Generate a real dummy hash at startup to ensure consistent timing
	hash, _ := services.HashPassword("dummy_password_for_timing_mitigation")
	if hash != "" {
		globalDummyHash = hash
	}
}

// Package level variable to hold the dummy hash
var globalDummyHash string = "$2a$10$X7.G.t8./.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t" // Fallback

type loginRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

// LoginHandler authenticates one of the three roles and establishes a session.
// Admin credentials come from the environment; employee and litigation
// credentials live in their respective account tables.
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	req.Role = strings.TrimSpace(req.Role)
	req.Username = strings.TrimSpace(req.Username)

	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}
	if !models.IsValidRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
	}

	var (
		accountID string
		username  string
	)

	switch req.Role {
	case models.RoleAdmin:
		cfg, ok := c.Get("config").(*config.Config)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "Server configuration unavailable")
		}

		emailOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminEmail)) == 1
		passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) == 1
		if !emailOK || !passwordOK {
			services.LogSecurityEvent("LOGIN_FAILED", req.Username, "Invalid admin credentials from "+c.RealIP())
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		username = cfg.AdminEmail

	case models.RoleEmployee:
		account, err := services.AuthenticateEmployee(db.DB, req.Username, req.Password)
		if err != nil {
			services.CheckPassword(req.Password, globalDummyHash)
			services.LogSecurityEvent("LOGIN_FAILED", req.Username, "Invalid employee credentials from "+c.RealIP())
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		accountID = account.ID
		username = account.Username

	case models.RoleLitigation:
		account, err := services.AuthenticateLitigation(db.DB, req.Username, req.Password)
		if err != nil {
			services.CheckPassword(req.Password, globalDummyHash)
			services.LogSecurityEvent("LOGIN_FAILED", req.Username, "Invalid litigation credentials from "+c.RealIP())
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		accountID = account.ID
		username = account.Username
	}

	session, err := services.CreateSession(db.DB, req.Role, accountID, username, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	middleware.SetSessionCookie(c, session)
	services.LogSecurityEvent("LOGIN_SUCCESS", username, "Role: "+req.Role)

	return c.JSON(http.StatusOK, loginResponse{Role: session.Role, Username: session.Username})
}

// LogoutHandler destroys the current session
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			c.Logger().Warnf("Failed to delete session on logout: %v", err)
		}
	}

	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// MeHandler returns the authenticated identity derived from the session
// record. Clients read role and username from here instead of keeping their
// own logged-in flags.
func MeHandler(c echo.Context) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	resp := map[string]interface{}{
		"role":     session.Role,
		"username": session.Username,
	}
	if session.AccountID != nil {
		resp["account_id"] = *session.AccountID
	}
	return c.JSON(http.StatusOK, resp)
}
