package models

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the status of a case record
type CaseStatus string

const (
	CaseStatusOpen      CaseStatus = "open"
	CaseStatusForwarded CaseStatus = "forwarded"
	CaseStatusClosed    CaseStatus = "closed"
)

// CaseType is one of the eight fixed legal areas a case can be filed under
type CaseType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// LegalAreas is the closed label set used for case classification
var LegalAreas = []string{
	"Mietrecht",
	"Arbeitsrecht",
	"Familienrecht",
	"Verkehrsrecht",
	"Vertragsrecht",
	"Strafrecht",
	"Erbrecht",
	"Sozialrecht",
}

// Case is the durable case record, created at most once per conversation
// and only after consent has been recorded.
type Case struct {
	ID             uuid.UUID              `json:"id"`
	ConversationID uuid.UUID              `json:"conversation_id"`
	PersonID       *uuid.UUID             `json:"person_id,omitempty"`
	CaseTypeID     *uuid.UUID             `json:"case_type_id,omitempty"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	ExtractedData  *StructuredDescription `json:"extracted_data,omitempty"`
	UrgencyLevel   UrgencyLevel           `json:"urgency_level"`
	DeadlineDate   *string                `json:"deadline_date,omitempty"`
	Status         CaseStatus             `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}
