package models

import (
	"time"
)

// Session is the explicit session-context record for a logged-in user. It is
// created on successful login and torn down on logout or expiry; nothing else
// carries authentication state.
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Role      string    `gorm:"not null;index" json:"role"`
	AccountID *string   `gorm:"type:uuid;index" json:"account_id"` // Nil for the admin role
	Username  string    `gorm:"not null" json:"username"`
	Token     string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
