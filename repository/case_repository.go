package repository

import (
	"context"
	"errors"

	"legalintake-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CaseRepository handles database operations for cases and case types
type CaseRepository struct {
	db DB
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create creates a new case record
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (
			id, conversation_id, person_id, case_type_id, title, description,
			extracted_data, urgency_level, deadline_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		c.ID,
		c.ConversationID,
		c.PersonID,
		c.CaseTypeID,
		c.Title,
		c.Description,
		c.ExtractedData,
		c.UrgencyLevel,
		c.DeadlineDate,
		c.Status,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a case by ID
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	c := &models.Case{}
	query := `
		SELECT id, conversation_id, person_id, case_type_id, title, description,
		       extracted_data, urgency_level, deadline_date, status, created_at, updated_at
		FROM cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.ConversationID,
		&c.PersonID,
		&c.CaseTypeID,
		&c.Title,
		&c.Description,
		&c.ExtractedData,
		&c.UrgencyLevel,
		&c.DeadlineDate,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// GetByConversationID retrieves the case linked to a conversation.
// Returns nil without error when no case exists yet.
func (r *CaseRepository) GetByConversationID(ctx context.Context, conversationID uuid.UUID) (*models.Case, error) {
	c := &models.Case{}
	query := `
		SELECT id, conversation_id, person_id, case_type_id, title, description,
		       extracted_data, urgency_level, deadline_date, status, created_at, updated_at
		FROM cases
		WHERE conversation_id = $1`

	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&c.ID,
		&c.ConversationID,
		&c.PersonID,
		&c.CaseTypeID,
		&c.Title,
		&c.Description,
		&c.ExtractedData,
		&c.UrgencyLevel,
		&c.DeadlineDate,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return c, nil
}

// UpdateStatus updates the status of a case
func (r *CaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CaseStatus) error {
	query := `UPDATE cases SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// FindTypeByName looks up a case type matching the given name.
// Returns nil without error when no type matches; callers treat the
// lookup as best effort.
func (r *CaseRepository) FindTypeByName(ctx context.Context, name string) (*models.CaseType, error) {
	if name == "" {
		return nil, nil
	}

	caseType := &models.CaseType{}
	query := `SELECT id, name FROM case_types WHERE name ILIKE '%' || $1 || '%' LIMIT 1`

	err := r.db.QueryRow(ctx, query, name).Scan(&caseType.ID, &caseType.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return caseType, nil
}

// ListTypes retrieves all case types
func (r *CaseRepository) ListTypes(ctx context.Context) ([]models.CaseType, error) {
	query := `SELECT id, name FROM case_types ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.CaseType
	for rows.Next() {
		var caseType models.CaseType
		if err := rows.Scan(&caseType.ID, &caseType.Name); err != nil {
			return nil, err
		}
		types = append(types, caseType)
	}

	return types, rows.Err()
}
