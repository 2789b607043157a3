package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded case document. ExtractedText is attached
// later by the external OCR/text-extraction service; until then it is nil.
type Document struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Filename       string    `json:"filename"`
	MimeType       string    `json:"mime_type"`
	Size           int64     `json:"size"`
	StoragePath    string    `json:"storage_path"`
	ExtractedText  *string   `json:"extracted_text,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
