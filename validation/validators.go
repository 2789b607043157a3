// Package validation contains the stateless field checks shared by the
// extractors and the person/case intake endpoints. Aggregate validators
// collect every violated rule as a German user-facing message instead of
// failing fast.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"legalintake-backend/models"
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	germanDatePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidEmail reports whether s has the local@domain.tld shape
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidDate reports whether s is an ISO-8601 date or a calendar-valid
// DD.MM.YYYY date. Impossible dates like 31.02.2024 are rejected.
func IsValidDate(s string) bool {
	_, ok := ParseGermanDate(s)
	return ok
}

// ParseGermanDate converts a DD.MM.YYYY or YYYY-MM-DD date to its canonical
// YYYY-MM-DD form. The second return value is false if s is not a valid
// calendar date.
func ParseGermanDate(s string) (string, bool) {
	s = strings.TrimSpace(s)

	if isoDatePattern.MatchString(s) {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}

	m := germanDatePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	candidate := fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
	t, err := time.Parse("2006-01-02", candidate)
	if err != nil {
		return "", false
	}
	// time.Parse normalizes overflowing components (31.02. becomes 02.03.),
	// so round-trip and compare to reject impossible dates.
	if t.Format("2006-01-02") != candidate {
		return "", false
	}

	return candidate, true
}

// IsValidUrgencyLevel reports whether s is one of low, medium, high
func IsValidUrgencyLevel(s string) bool {
	switch models.UrgencyLevel(s) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
		return true
	}
	return false
}

// IsValidClientType reports whether s is one of private, company
func IsValidClientType(s string) bool {
	switch models.ClientType(s) {
	case models.ClientTypePrivate, models.ClientTypeCompany:
		return true
	}
	return false
}

// IsValidContactMethod reports whether s is one of email, phone
func IsValidContactMethod(s string) bool {
	switch models.ContactMethod(s) {
	case models.ContactMethodEmail, models.ContactMethodPhone:
		return true
	}
	return false
}

// Result is the outcome of an aggregate validation. Valid is true iff
// Errors is empty.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PersonInput is the person payload checked before a person record is written
type PersonInput struct {
	FullName               string
	Email                  string
	Phone                  string
	ClientType             string
	CompanyName            string
	PreferredContactMethod string
	ConsentGiven           *bool
}

// ValidatePersonData checks every person intake rule and accumulates all
// violations as German messages.
func ValidatePersonData(input PersonInput) Result {
	var errs []string

	if utf8.RuneCountInString(strings.TrimSpace(input.FullName)) < 2 {
		errs = append(errs, "Name muss mindestens 2 Zeichen lang sein")
	}
	if !IsValidEmail(input.Email) {
		errs = append(errs, "Ungültige E-Mail-Adresse")
	}
	if !IsValidClientType(input.ClientType) {
		errs = append(errs, "Ungültiger Mandantentyp")
	}
	if input.ClientType == string(models.ClientTypeCompany) && strings.TrimSpace(input.CompanyName) == "" {
		errs = append(errs, "Firmenname ist bei Unternehmen erforderlich")
	}
	if input.PreferredContactMethod != "" && !IsValidContactMethod(input.PreferredContactMethod) {
		errs = append(errs, "Ungültige bevorzugte Kontaktmethode")
	}
	if input.ConsentGiven == nil {
		errs = append(errs, "Einwilligung zur Datenverarbeitung fehlt")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// CaseInput is the case payload checked before a case record is written
type CaseInput struct {
	ConversationID string
	UrgencyLevel   string
	DeadlineDate   string
	EstimatedValue *float64
}

// ValidateCaseData checks every case intake rule and accumulates all
// violations as German messages.
func ValidateCaseData(input CaseInput) Result {
	var errs []string

	if strings.TrimSpace(input.ConversationID) == "" {
		errs = append(errs, "Konversations-ID ist erforderlich")
	}
	if input.UrgencyLevel != "" && !IsValidUrgencyLevel(input.UrgencyLevel) {
		errs = append(errs, "Ungültige Dringlichkeitsstufe")
	}
	if input.DeadlineDate != "" && !IsValidDate(input.DeadlineDate) {
		errs = append(errs, "Ungültiges Datumsformat für die Frist")
	}
	if input.EstimatedValue != nil && *input.EstimatedValue < 0 {
		errs = append(errs, "Geschätzter Streitwert darf nicht negativ sein")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
