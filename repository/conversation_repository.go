package repository

import (
	"context"

	"legalintake-backend/intake"
	"legalintake-backend/models"

	"github.com/google/uuid"
)

// ConversationRepository handles database operations for conversations and
// their append-only message transcripts
type ConversationRepository struct {
	db DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	if conversation.Status == "" {
		conversation.Status = models.ConversationActive
	}

	query := `
		INSERT INTO conversations (status)
		VALUES ($1)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query, conversation.Status).
		Scan(&conversation.ID, &conversation.CreatedAt, &conversation.UpdatedAt)
}

// GetByID retrieves a conversation by ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conversation := &models.Conversation{}
	query := `
		SELECT id, status, person_id, created_at, updated_at
		FROM conversations
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&conversation.ID,
		&conversation.Status,
		&conversation.PersonID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

// UpdateStatus updates the conversation status
func (r *ConversationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus) error {
	query := `
		UPDATE conversations SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// LinkPerson sets the one-way link from the conversation to its person record
func (r *ConversationRepository) LinkPerson(ctx context.Context, id, personID uuid.UUID) error {
	query := `
		UPDATE conversations SET
			person_id = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, personID)
	return err
}

// GetIntakeState loads the persisted intake state. Returns nil when the
// conversation has no state yet (first turn).
func (r *ConversationRepository) GetIntakeState(ctx context.Context, id uuid.UUID) (*intake.State, error) {
	state := &intake.State{}
	query := `SELECT intake_state FROM conversations WHERE id = $1`

	if err := r.db.QueryRow(ctx, query, id).Scan(state); err != nil {
		return nil, err
	}

	if state.Phase == 0 {
		return nil, nil
	}
	return state, nil
}

// UpdateIntakeState persists the intake state as JSONB
func (r *ConversationRepository) UpdateIntakeState(ctx context.Context, id uuid.UUID, state *intake.State) error {
	query := `
		UPDATE conversations SET
			intake_state = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, state)
	return err
}

// AppendMessage appends a turn to the conversation transcript. Messages are
// immutable once created.
func (r *ConversationRepository) AppendMessage(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (conversation_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRow(ctx, query, message.ConversationID, message.Role, message.Content).
		Scan(&message.ID, &message.CreatedAt)
}

// ListMessages retrieves the ordered transcript for a conversation
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
