package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// APIKey represents a bcrypt-hashed API key for backend clients
type APIKey struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	KeyHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// APIKeyRepository handles database operations for API keys
type APIKeyRepository struct {
	db DB
}

// NewAPIKeyRepository creates a new API key repository
func NewAPIKeyRepository(db DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a new API key hash
func (r *APIKeyRepository) Create(ctx context.Context, key *APIKey) error {
	query := `
		INSERT INTO api_keys (id, label, key_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	return r.db.QueryRow(ctx, query, key.ID, key.Label, key.KeyHash).Scan(&key.CreatedAt)
}

// ListHashes retrieves all stored key hashes
func (r *APIKeyRepository) ListHashes(ctx context.Context) ([]string, error) {
	query := `SELECT key_hash FROM api_keys`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	return hashes, rows.Err()
}
