package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientType distinguishes private clients from companies
type ClientType string

const (
	ClientTypePrivate ClientType = "private"
	ClientTypeCompany ClientType = "company"
)

// ContactMethod is the client's preferred way to be contacted
type ContactMethod string

const (
	ContactMethodEmail ContactMethod = "email"
	ContactMethodPhone ContactMethod = "phone"
)

// ExtractedPersonData holds contact fields derived from the user-authored
// transcript. All fields are best effort; absent fields stay empty.
type ExtractedPersonData struct {
	FullName               string     `json:"full_name,omitempty"`
	Email                  string     `json:"email,omitempty"`
	Phone                  string     `json:"phone,omitempty"`
	ClientType             ClientType `json:"client_type,omitempty"`
	CompanyName            string     `json:"company_name,omitempty"`
	Location               string     `json:"location,omitempty"`
	PreferredContactMethod string     `json:"preferred_contact_method,omitempty"`
}

// IsComplete reports whether the minimum required person fields are present
func (d ExtractedPersonData) IsComplete() bool {
	return d.FullName != "" && d.Email != ""
}

// Person is the durable person record, written only after explicit consent
type Person struct {
	ID                     uuid.UUID  `json:"id"`
	ConversationID         uuid.UUID  `json:"conversation_id"`
	FullName               string     `json:"full_name"`
	Email                  string     `json:"email"`
	Phone                  *string    `json:"phone,omitempty"`
	ClientType             ClientType `json:"client_type"`
	CompanyName            *string    `json:"company_name,omitempty"`
	Location               *string    `json:"location,omitempty"`
	PreferredContactMethod *string    `json:"preferred_contact_method,omitempty"`
	ConsentGiven           bool       `json:"consent_given"`
	ConsentRecordedAt      time.Time  `json:"consent_recorded_at"`
	CreatedAt              time.Time  `json:"created_at"`
}
