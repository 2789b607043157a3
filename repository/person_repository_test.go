package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"legalintake-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPersonRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPersonRepository(mock)

	now := time.Now()
	person := &models.Person{
		ID:                     uuid.New(),
		ConversationID:         uuid.New(),
		FullName:               "Anna Schmidt",
		Email:                  "anna.schmidt@example.com",
		Phone:                  strPtr("+4915112345678"),
		ClientType:             models.ClientTypePrivate,
		PreferredContactMethod: strPtr("email"),
		ConsentGiven:           true,
		ConsentRecordedAt:      now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO persons")).
		WithArgs(
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
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	err = repo.Create(context.Background(), person)
	require.NoError(t, err)
	assert.Equal(t, now, person.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepository_GetByConversationID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPersonRepository(mock)
	conversationID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM persons")).
		WithArgs(conversationID).
		WillReturnError(pgx.ErrNoRows)

	person, err := repo.GetByConversationID(context.Background(), conversationID)
	require.NoError(t, err)
	assert.Nil(t, person)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepository_GetByConversationID_Found(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPersonRepository(mock)

	now := time.Now()
	personID := uuid.New()
	conversationID := uuid.New()

	rows := pgxmock.NewRows([]string{
		"id", "conversation_id", "full_name", "email", "phone", "client_type",
		"company_name", "location", "preferred_contact_method", "consent_given",
		"consent_recorded_at", "created_at",
	}).AddRow(
		personID, conversationID, "Anna Schmidt", "anna@example.com", strPtr("+4915112345678"),
		models.ClientTypePrivate, (*string)(nil), (*string)(nil), strPtr("email"), true, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("FROM persons")).
		WithArgs(conversationID).
		WillReturnRows(rows)

	person, err := repo.GetByConversationID(context.Background(), conversationID)
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, personID, person.ID)
	assert.Equal(t, "Anna Schmidt", person.FullName)
	assert.True(t, person.ConsentGiven)
	assert.NoError(t, mock.ExpectationsWereMet())
}
