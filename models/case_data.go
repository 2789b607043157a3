package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UrgencyLevel represents the detected urgency of a case
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// Parties holds the parties involved in a case
type Parties struct {
	Claimant  string   `json:"claimant,omitempty"`
	Defendant string   `json:"defendant,omitempty"`
	Others    []string `json:"others,omitempty"`
}

// TimelineEvent is a dated event extracted from the transcript or a document
type TimelineEvent struct {
	Date        string     `json:"date"`
	Event       string     `json:"event"`
	DocumentRef *uuid.UUID `json:"document_ref,omitempty"`
}

// DisputeValue holds the monetary value in dispute, if mentioned
type DisputeValue struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Estimated bool    `json:"estimated"`
}

// Deadline is a concrete date by which something must happen
type Deadline struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Critical    bool   `json:"critical"`
}

// DocumentSummary carries uploaded documents into the extracted case data
type DocumentSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	TextPreview string    `json:"text_preview,omitempty"`
}

// ExtractedCaseData is the structured view of a case derived from the
// transcript and documents. It is recomputed from scratch on every turn and
// never incrementally mutated; absent fields stay at their zero value.
type ExtractedCaseData struct {
	LegalArea        string            `json:"legal_area,omitempty"`
	Parties          Parties           `json:"parties"`
	ContractType     string            `json:"contract_type,omitempty"`
	Timeline         []TimelineEvent   `json:"timeline,omitempty"`
	ProblemStatement string            `json:"problem_statement,omitempty"`
	Documents        []DocumentSummary `json:"documents,omitempty"`
	DisputeValue     *DisputeValue     `json:"dispute_value,omitempty"`
	Goals            string            `json:"goals,omitempty"`
	UrgencyLevel     UrgencyLevel      `json:"urgency_level"`
	Deadlines        []Deadline        `json:"deadlines,omitempty"`
	Summary          string            `json:"summary,omitempty"`
}

// ExtractionConfidence holds the heuristic completeness score per field.
// The scores are fixed presence-based constants, not probabilities.
type ExtractionConfidence struct {
	LegalArea        float64 `json:"legal_area"`
	Parties          float64 `json:"parties"`
	Timeline         float64 `json:"timeline"`
	ProblemStatement float64 `json:"problem_statement"`
	Deadlines        float64 `json:"deadlines"`
	Overall          float64 `json:"overall"`
}

// StructuredDescription wraps extracted data with its confidence and the
// extraction timestamp for storage in the cases table
type StructuredDescription struct {
	Data        ExtractedCaseData    `json:"data"`
	Confidence  ExtractionConfidence `json:"confidence"`
	ExtractedAt time.Time            `json:"extracted_at"`
}

// Value implements driver.Valuer for JSONB
func (d StructuredDescription) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB
func (d *StructuredDescription) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, d)
}
