package repository

import (
	"context"

	"legalintake-backend/models"

	"github.com/google/uuid"
)

// DocumentRepository handles database operations for uploaded documents
type DocumentRepository struct {
	db DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	query := `
		INSERT INTO documents (
			id, conversation_id, filename, mime_type, size, storage_path, extracted_text
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		document.ID,
		document.ConversationID,
		document.Filename,
		document.MimeType,
		document.Size,
		document.StoragePath,
		document.ExtractedText,
	).Scan(&document.CreatedAt)
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	document := &models.Document{}
	query := `
		SELECT id, conversation_id, filename, mime_type, size, storage_path, extracted_text, created_at
		FROM documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&document.ID,
		&document.ConversationID,
		&document.Filename,
		&document.MimeType,
		&document.Size,
		&document.StoragePath,
		&document.ExtractedText,
		&document.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return document, nil
}

// ListByConversationID retrieves all documents for a conversation
func (r *DocumentRepository) ListByConversationID(ctx context.Context, conversationID uuid.UUID) ([]models.Document, error) {
	query := `
		SELECT id, conversation_id, filename, mime_type, size, storage_path, extracted_text, created_at
		FROM documents
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var document models.Document
		err := rows.Scan(
			&document.ID,
			&document.ConversationID,
			&document.Filename,
			&document.MimeType,
			&document.Size,
			&document.StoragePath,
			&document.ExtractedText,
			&document.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, rows.Err()
}

// SetExtractedText attaches the plain text delivered by the external
// text-extraction service
func (r *DocumentRepository) SetExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	query := `UPDATE documents SET extracted_text = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, text)
	return err
}

// Delete deletes a document record
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
