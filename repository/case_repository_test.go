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

func TestCaseRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCaseRepository(mock)

	now := time.Now()
	personID := uuid.New()
	typeID := uuid.New()
	deadline := "2024-03-15"
	c := &models.Case{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		PersonID:       &personID,
		CaseTypeID:     &typeID,
		Title:          "Mietrecht: Kündigung der Wohnung",
		Description:    "## Zusammenfassung Ihres Falls",
		UrgencyLevel:   models.UrgencyLow,
		DeadlineDate:   &deadline,
		Status:         models.CaseStatusOpen,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cases")).
		WithArgs(
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
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err = repo.Create(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, now, c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_GetByConversationID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCaseRepository(mock)
	conversationID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM cases")).
		WithArgs(conversationID).
		WillReturnError(pgx.ErrNoRows)

	c, err := repo.GetByConversationID(context.Background(), conversationID)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_FindTypeByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCaseRepository(mock)

	typeID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM case_types")).
		WithArgs("Mietrecht").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(typeID, "Mietrecht"))

	caseType, err := repo.FindTypeByName(context.Background(), "Mietrecht")
	require.NoError(t, err)
	require.NotNil(t, caseType)
	assert.Equal(t, "Mietrecht", caseType.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_FindTypeByName_EmptyName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCaseRepository(mock)

	caseType, err := repo.FindTypeByName(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, caseType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseRepository_FindTypeByName_NoMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCaseRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM case_types")).
		WithArgs("Steuerrecht").
		WillReturnError(pgx.ErrNoRows)

	caseType, err := repo.FindTypeByName(context.Background(), "Steuerrecht")
	require.NoError(t, err)
	assert.Nil(t, caseType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
