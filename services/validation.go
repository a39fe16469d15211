package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"advocate_office_go/models"

	"github.com/microcosm-cc/bluemonday"
)

// Field kinds understood by the validator
const (
	FieldText   = "text"
	FieldEmail  = "email"
	FieldPhone  = "phone"
	FieldIFSC   = "ifsc"
	FieldDate   = "date"
	FieldAmount = "amount"
)

// IFSCLength is the fixed length of an IFSC code
const IFSCLength = 11

// DateLayout is the wire format for date fields (HTML date inputs)
const DateLayout = "2006-01-02"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

	// Free-text fields are stripped of any markup before persistence
	textPolicy = bluemonday.StrictPolicy()
)

// FieldRule describes one schema field for record validation
type FieldRule struct {
	Name     string
	Kind     string
	Required bool
}

// EmployeeFieldRules is the employee record schema
var EmployeeFieldRules = []FieldRule{
	{Name: "name", Kind: FieldText, Required: true},
	{Name: "guardian_name", Kind: FieldText, Required: true},
	{Name: "phone_no", Kind: FieldPhone, Required: true},
	{Name: "alternate_phone_no", Kind: FieldPhone, Required: false},
	{Name: "email", Kind: FieldEmail, Required: true},
	{Name: "gender", Kind: FieldText, Required: true},
	{Name: "dob", Kind: FieldDate, Required: true},
	{Name: "qualification", Kind: FieldText, Required: true},
	{Name: "address", Kind: FieldText, Required: true},
	{Name: "account_no", Kind: FieldText, Required: true},
	{Name: "ifsc_code", Kind: FieldIFSC, Required: true},
	{Name: "branch", Kind: FieldText, Required: true},
	{Name: "bank", Kind: FieldText, Required: true},
	{Name: "date_of_joining", Kind: FieldDate, Required: true},
	{Name: "photo", Kind: FieldText, Required: false},
	{Name: "reference", Kind: FieldText, Required: false},
	{Name: "details", Kind: FieldText, Required: false},
}

// Common litigation case fields, shared by both categories
var caseCommonRules = []FieldRule{
	{Name: "case_no", Kind: FieldText, Required: true},
	{Name: "court_name", Kind: FieldText, Required: true},
	{Name: "court_district", Kind: FieldText, Required: true},
	{Name: "case_type", Kind: FieldText, Required: true},
	{Name: "filing_date", Kind: FieldDate, Required: true},
	{Name: "next_hearing_date", Kind: FieldDate, Required: false},
	{Name: "present_status", Kind: FieldText, Required: false},
	{Name: "details", Kind: FieldText, Required: false},
	{Name: "total_advocate_fees", Kind: FieldAmount, Required: false},
	{Name: "initial_fees", Kind: FieldAmount, Required: false},
	{Name: "initial_fees_received_on", Kind: FieldDate, Required: false},
	{Name: "final_fees", Kind: FieldAmount, Required: false},
	{Name: "final_fees_received_on", Kind: FieldDate, Required: false},
	{Name: "judgement_date", Kind: FieldDate, Required: false},
}

var bankCaseRules = []FieldRule{
	{Name: "bank_name", Kind: FieldText, Required: true},
	{Name: "branch_name", Kind: FieldText, Required: true},
	{Name: "account_no", Kind: FieldText, Required: true},
	{Name: "loan_amount", Kind: FieldAmount, Required: true},
	{Name: "borrower_name", Kind: FieldText, Required: true},
	{Name: "co_borrower_name", Kind: FieldText, Required: false},
}

var privateCaseRules = []FieldRule{
	{Name: "petitioner_name", Kind: FieldText, Required: true},
	{Name: "petitioner_address", Kind: FieldText, Required: true},
	{Name: "respondent_name", Kind: FieldText, Required: true},
	{Name: "respondent_address", Kind: FieldText, Required: true},
}

// CaseFieldRules returns the rule set for a litigation case of the given
// category: the common fields plus exactly one variant branch.
func CaseFieldRules(category string) ([]FieldRule, error) {
	switch category {
	case models.CategoryBank:
		return append(append([]FieldRule{}, caseCommonRules...), bankCaseRules...), nil
	case models.CategoryPrivate:
		return append(append([]FieldRule{}, caseCommonRules...), privateCaseRules...), nil
	}
	return nil, fmt.Errorf("invalid case category %q", category)
}

// NormalizeIFSC uppercases an IFSC code and caps it at 11 characters
func NormalizeIFSC(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if len(value) > IFSCLength {
		value = value[:IFSCLength]
	}
	return value
}

// SanitizeText strips markup from a free-text value
func SanitizeText(value string) string {
	return textPolicy.Sanitize(value)
}

// ValidateRecord checks a candidate record against a schema. It returns the
// normalized record restricted to the schema's fields, plus the names of any
// failing fields in schema order. Values for fields outside the schema are
// dropped, which is what prevents a category switch from retaining the stale
// branch's fields.
func ValidateRecord(rules []FieldRule, values map[string]string) (map[string]string, []string) {
	normalized := make(map[string]string, len(rules))
	var invalid []string

	for _, rule := range rules {
		value := strings.TrimSpace(values[rule.Name])

		if value == "" {
			if rule.Required {
				invalid = append(invalid, rule.Name)
			}
			continue
		}

		switch rule.Kind {
		case FieldEmail:
			if !emailPattern.MatchString(value) {
				invalid = append(invalid, rule.Name)
				continue
			}
		case FieldPhone:
			if !phonePattern.MatchString(value) {
				invalid = append(invalid, rule.Name)
				continue
			}
		case FieldIFSC:
			value = NormalizeIFSC(value)
		case FieldDate:
			if _, err := time.Parse(DateLayout, value); err != nil {
				invalid = append(invalid, rule.Name)
				continue
			}
		case FieldAmount:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				invalid = append(invalid, rule.Name)
				continue
			}
		default:
			value = SanitizeText(value)
		}

		normalized[rule.Name] = value
	}

	return normalized, invalid
}

// ParseDate parses a normalized date field value
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseOptionalDate parses an optional date field, returning nil for ""
func ParseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalAmount parses an optional numeric field, returning nil for ""
func ParseOptionalAmount(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
