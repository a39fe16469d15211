package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Employee represents an office employee's HR record
type Employee struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Personal information
	Name         string    `gorm:"not null" json:"name"`
	GuardianName string    `gorm:"not null" json:"guardian_name"` // Father / husband name
	Gender       string    `gorm:"not null" json:"gender"`
	DateOfBirth  time.Time `gorm:"not null" json:"dob"`
	Qualification string   `gorm:"not null" json:"qualification"`

	// Contact information
	PhoneNo          string  `gorm:"not null;size:10" json:"phone_no"`
	AlternatePhoneNo *string `gorm:"size:10" json:"alternate_phone_no,omitempty"`
	Email            string  `gorm:"not null" json:"email"`
	Address          string  `gorm:"type:text;not null" json:"address"`

	// Bank details
	AccountNo string `gorm:"not null" json:"account_no"`
	IFSCCode  string `gorm:"not null;size:11" json:"ifsc_code"` // Stored uppercase
	Branch    string `gorm:"not null" json:"branch"`
	BankName  string `gorm:"not null" json:"bank"`

	// Employment details
	DateOfJoining time.Time `gorm:"not null" json:"date_of_joining"`
	PhotoURL      *string   `json:"photo,omitempty"`
	Reference     *string   `json:"reference,omitempty"`
	Details       *string   `gorm:"type:text" json:"details,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Employee model
func (Employee) TableName() string {
	return "employees"
}

// IsValidGender checks if the gender value is valid
func IsValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale || gender == GenderOther
}
