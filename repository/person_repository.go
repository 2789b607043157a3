package repository

import (
	"context"
	"errors"

	"legalintake-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PersonRepository handles database operations for persons
type PersonRepository struct {
	db DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create creates a new person record
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO persons (
			id, conversation_id, full_name, email, phone, client_type,
			company_name, location, preferred_contact_method, consent_given, consent_recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		person.ID,
		person.ConversationID,
		person.FullName,
		person.Email,
		person.Phone,
		person.ClientType,
		person.CompanyName,
		person.Location,
		person.PreferredContactMethod,
		person.ConsentGiven,
		person.ConsentRecordedAt,
	).Scan(&person.CreatedAt)
}

// GetByID retrieves a person by ID
func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	person := &models.Person{}
	query := `
		SELECT id, conversation_id, full_name, email, phone, client_type,
		       company_name, location, preferred_contact_method, consent_given,
		       consent_recorded_at, created_at
		FROM persons
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&person.ID,
		&person.ConversationID,
		&person.FullName,
		&person.Email,
		&person.Phone,
		&person.ClientType,
		&person.CompanyName,
		&person.Location,
		&person.PreferredContactMethod,
		&person.ConsentGiven,
		&person.ConsentRecordedAt,
		&person.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return person, nil
}

// GetByConversationID retrieves the person linked to a conversation.
// Returns nil without error when no person exists yet.
func (r *PersonRepository) GetByConversationID(ctx context.Context, conversationID uuid.UUID) (*models.Person, error) {
	person := &models.Person{}
	query := `
		SELECT id, conversation_id, full_name, email, phone, client_type,
		       company_name, location, preferred_contact_method, consent_given,
		       consent_recorded_at, created_at
		FROM persons
		WHERE conversation_id = $1`

	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&person.ID,
		&person.ConversationID,
		&person.FullName,
		&person.Email,
		&person.Phone,
		&person.ClientType,
		&person.CompanyName,
		&person.Location,
		&person.PreferredContactMethod,
		&person.ConsentGiven,
		&person.ConsentRecordedAt,
		&person.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return person, nil
}
