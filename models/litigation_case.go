package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case categories (discriminant for the variant field groups)
const (
	CategoryBank    = "bank"
	CategoryPrivate = "private"
)

// Case status constants
const (
	CaseStatusActive                = "Active"
	CaseStatusPending               = "Pending"
	CaseStatusClosed                = "Closed"
	CaseStatusCompleted             = "Completed"
	CaseStatusInProgress            = "In Progress"
	CaseStatusLegalNoticeSent       = "Legal Notice Sent"
	CaseStatusSettlementNegotiation = "Settlement Negotiation"
	CaseStatusDefaulted             = "Defaulted"
)

// Badge variants for status display
const (
	BadgePrimary     = "primary"
	BadgeSecondary   = "secondary"
	BadgeOutline     = "outline"
	BadgeSuccess     = "success"
	BadgeInfo        = "info"
	BadgeWarning     = "warning"
	BadgeAccent      = "accent"
	BadgeDestructive = "destructive"
	BadgeNeutral     = "neutral"
)

// BankCaseDetails is the field group populated only for bank (loan recovery) cases
type BankCaseDetails struct {
	BankName       string  `gorm:"column:bank_name" json:"bank_name"`
	BranchName     string  `gorm:"column:branch_name" json:"branch_name"`
	AccountNo      string  `gorm:"column:account_no" json:"account_no"`
	LoanAmount     float64 `gorm:"column:loan_amount" json:"loan_amount"`
	BorrowerName   string  `gorm:"column:borrower_name" json:"borrower_name"`
	CoBorrowerName *string `gorm:"column:co_borrower_name" json:"co_borrower_name,omitempty"`
}

// PrivateCaseDetails is the field group populated only for private cases
type PrivateCaseDetails struct {
	PetitionerName    string `gorm:"column:petitioner_name" json:"petitioner_name"`
	PetitionerAddress string `gorm:"column:petitioner_address;type:text" json:"petitioner_address"`
	RespondentName    string `gorm:"column:respondent_name" json:"respondent_name"`
	RespondentAddress string `gorm:"column:respondent_address;type:text" json:"respondent_address"`
}

// LitigationCase represents a legal proceeding. The category discriminant selects
// which variant field group (Bank or Private) is populated; never both, never neither.
type LitigationCase struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Case identification
	CaseNo        string `gorm:"not null;uniqueIndex" json:"case_no"`
	Category      string `gorm:"not null;index" json:"category"`
	CourtName     string `gorm:"not null" json:"court_name"`
	CourtDistrict string `gorm:"not null" json:"court_district"`
	CaseType      string `gorm:"not null" json:"case_type"`

	// Lifecycle
	FilingDate      time.Time  `gorm:"not null" json:"filing_date"`
	NextHearingDate *time.Time `json:"next_hearing_date,omitempty"`
	Status          string     `gorm:"not null;default:Active;index" json:"status"`
	PresentStatus   *string    `gorm:"type:text" json:"present_status,omitempty"`
	Details         *string    `gorm:"type:text" json:"details,omitempty"`
	JudgementDate   *time.Time `json:"judgement_date,omitempty"`

	// Advocate fees
	TotalAdvocateFees     *float64   `json:"total_advocate_fees,omitempty"`
	InitialFees           *float64   `json:"initial_fees,omitempty"`
	InitialFeesReceivedOn *time.Time `json:"initial_fees_received_on,omitempty"`
	FinalFees             *float64   `json:"final_fees,omitempty"`
	FinalFeesReceivedOn   *time.Time `json:"final_fees_received_on,omitempty"`

	// Variant field groups, selected by Category
	Bank    *BankCaseDetails    `gorm:"embedded" json:"bank,omitempty"`
	Private *PrivateCaseDetails `gorm:"embedded" json:"private,omitempty"`
}

// BeforeCreate hook to generate UUID
func (lc *LitigationCase) BeforeCreate(tx *gorm.DB) error {
	if lc.ID == "" {
		lc.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave enforces the variant invariant: exactly one category-specific field
// group is populated, and a category switch never retains the stale branch.
func (lc *LitigationCase) BeforeSave(tx *gorm.DB) error {
	switch lc.Category {
	case CategoryBank:
		lc.Private = nil
		if lc.Bank == nil {
			return fmt.Errorf("bank case %q is missing its bank field group", lc.CaseNo)
		}
	case CategoryPrivate:
		lc.Bank = nil
		if lc.Private == nil {
			return fmt.Errorf("private case %q is missing its party field group", lc.CaseNo)
		}
	default:
		return fmt.Errorf("invalid case category %q", lc.Category)
	}
	return nil
}

// AfterFind clears the variant branch that does not match the category. The
// embedded columns share a row, so a scan may populate both structs.
func (lc *LitigationCase) AfterFind(tx *gorm.DB) error {
	switch lc.Category {
	case CategoryBank:
		lc.Private = nil
	case CategoryPrivate:
		lc.Bank = nil
	}
	return nil
}

// TableName specifies the table name for LitigationCase model
func (LitigationCase) TableName() string {
	return "litigation_cases"
}

// PartyName returns the primary party for display: the borrower for bank cases,
// the petitioner for private cases.
func (lc *LitigationCase) PartyName() string {
	switch {
	case lc.Category == CategoryBank && lc.Bank != nil:
		return lc.Bank.BorrowerName
	case lc.Category == CategoryPrivate && lc.Private != nil:
		return lc.Private.PetitionerName
	}
	return ""
}

// BankNameOrEmpty returns the bank name for bank cases and "" otherwise
func (lc *LitigationCase) BankNameOrEmpty() string {
	if lc.Category == CategoryBank && lc.Bank != nil {
		return lc.Bank.BankName
	}
	return ""
}

// IsValidCategory checks if the category is valid
func IsValidCategory(category string) bool {
	return category == CategoryBank || category == CategoryPrivate
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	validStatuses := []string{
		CaseStatusActive,
		CaseStatusPending,
		CaseStatusClosed,
		CaseStatusCompleted,
		CaseStatusInProgress,
		CaseStatusLegalNoticeSent,
		CaseStatusSettlementNegotiation,
		CaseStatusDefaulted,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// StatusBadgeVariant maps a case status to its display badge variant. The
// mapping is total: unknown statuses fall back to the neutral variant.
func StatusBadgeVariant(status string) string {
	switch status {
	case CaseStatusActive:
		return BadgePrimary
	case CaseStatusPending:
		return BadgeSecondary
	case CaseStatusClosed:
		return BadgeOutline
	case CaseStatusCompleted:
		return BadgeSuccess
	case CaseStatusInProgress:
		return BadgeInfo
	case CaseStatusLegalNoticeSent:
		return BadgeWarning
	case CaseStatusSettlementNegotiation:
		return BadgeAccent
	case CaseStatusDefaulted:
		return BadgeDestructive
	default:
		return BadgeNeutral
	}
}
