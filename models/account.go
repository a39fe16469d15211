package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin      = "admin"
	RoleEmployee   = "employee"
	RoleLitigation = "litigation"
)

// EmployeeAccount is a login account for office employees
type EmployeeAccount struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	// Optional link to the HR record
	EmployeeID *string   `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *EmployeeAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for EmployeeAccount model
func (EmployeeAccount) TableName() string {
	return "employee_accounts"
}

// LitigationAccount is a login account for litigation staff
type LitigationAccount struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (a *LitigationAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LitigationAccount model
func (LitigationAccount) TableName() string {
	return "litigation_accounts"
}

// IsValidRole checks if the role is one of the three login roles
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee || role == RoleLitigation
}
