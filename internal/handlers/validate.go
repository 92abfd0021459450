package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"mini-crm/internal/models"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Validators return a client-facing message, or "" when the value passes.
// Length limits count characters, not bytes.

func validateCustomerName(name string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 2 || n > 100 {
		return "Name must be between 2 and 100 characters"
	}
	return ""
}

func validateCustomerEmail(email string) string {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return "Please enter a valid email"
	}
	return ""
}

func validatePhone(phone string) string {
	if utf8.RuneCountInString(phone) > 20 {
		return "Phone number cannot exceed 20 characters"
	}
	return ""
}

func validateCompany(company string) string {
	if utf8.RuneCountInString(company) > 100 {
		return "Company name cannot exceed 100 characters"
	}
	return ""
}

func validateLeadTitle(title string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < 2 || n > 200 {
		return "Title must be between 2 and 200 characters"
	}
	return ""
}

func validateLeadDescription(desc string) string {
	if utf8.RuneCountInString(desc) > 1000 {
		return "Description cannot exceed 1000 characters"
	}
	return ""
}

func validateLeadStatus(status string) string {
	if !models.LeadStatus(status).Valid() {
		return "Invalid lead status"
	}
	return ""
}

func validateLeadValue(value float64) string {
	if value < 0 {
		return "Value cannot be negative"
	}
	return ""
}
