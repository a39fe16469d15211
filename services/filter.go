package services

import (
	"strings"

	"advocate_office_go/models"
)

// FilterAll is the query value that disables a facet
const FilterAll = "all"

// CaseQuery is the query tuple for litigation case list views
type CaseQuery struct {
	Search   string
	Category string
	Status   string
	Bank     string // Loan recovery view filters by bank name
}

// FilterCases returns the subsequence of cases matching the query, preserving
// input order. Search is a case-insensitive substring match over case number,
// party/borrower name, court name and bank name. Pure; no side effects.
func FilterCases(cases []models.LitigationCase, q CaseQuery) []models.LitigationCase {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]models.LitigationCase, 0, len(cases))
	for _, lc := range cases {
		if !matchesFacet(lc.Category, q.Category) {
			continue
		}
		if !matchesFacet(lc.Status, q.Status) {
			continue
		}
		if q.Bank != "" && q.Bank != FilterAll && lc.BankNameOrEmpty() != q.Bank {
			continue
		}
		if search != "" && !caseMatchesSearch(&lc, search) {
			continue
		}
		filtered = append(filtered, lc)
	}
	return filtered
}

func caseMatchesSearch(lc *models.LitigationCase, search string) bool {
	for _, field := range []string{lc.CaseNo, lc.PartyName(), lc.CourtName, lc.BankNameOrEmpty()} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func matchesFacet(value, filter string) bool {
	return filter == "" || filter == FilterAll || value == filter
}

// FilterEmployees returns the employees whose name, phone or email contains
// the search string, case-insensitively, preserving input order.
func FilterEmployees(employees []models.Employee, search string) []models.Employee {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return employees
	}

	filtered := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		for _, field := range []string{e.Name, e.PhoneNo, e.Email} {
			if strings.Contains(strings.ToLower(field), search) {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered
}

// BankNames returns the distinct bank names across bank-category cases, in
// first-seen order. Used to build the loan recovery bank facet.
func BankNames(cases []models.LitigationCase) []string {
	seen := make(map[string]bool)
	var banks []string
	for _, lc := range cases {
		bank := lc.BankNameOrEmpty()
		if bank == "" || seen[bank] {
			continue
		}
		seen[bank] = true
		banks = append(banks, bank)
	}
	return banks
}
