package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"legalintake-backend/models"
	"legalintake-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt string, history []models.Message, userMessage string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestIntakeService(mock pgxmock.PgxPoolIface, completer Completer) *IntakeService {
	return NewIntakeService(
		IntakeWithConversationRepository(repository.NewConversationRepository(mock)),
		IntakeWithDocumentRepository(repository.NewDocumentRepository(mock)),
		IntakeWithPersonRepository(repository.NewPersonRepository(mock)),
		IntakeWithCaseRepository(repository.NewCaseRepository(mock)),
		IntakeWithCompleter(completer),
	)
}

func expectConversation(mock pgxmock.PgxPoolIface, id uuid.UUID, status models.ConversationStatus) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "person_id", "created_at", "updated_at"}).
			AddRow(id, status, (*uuid.UUID)(nil), now, now))
}

func TestHandleTurn_FirstMessage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	completer := &fakeCompleter{reply: "Das tut mir leid. Können Sie mir mehr dazu erzählen?"}
	svc := newTestIntakeService(mock, completer)

	conversationID := uuid.New()
	now := time.Now()

	expectConversation(mock, conversationID, models.ConversationActive)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT intake_state")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"intake_state"}).AddRow(nil))

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "conversation_id", "role", "content", "created_at"}))

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "conversation_id", "filename", "mime_type", "size", "storage_path", "extracted_text", "created_at"}))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(conversationID, models.RoleUser, "Mein Vermieter hat mir gekündigt.").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), now))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(conversationID, models.RoleAssistant, completer.reply).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), now))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WithArgs(conversationID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := svc.HandleTurn(context.Background(), HandleTurnRequest{
		ConversationID: conversationID,
		Content:        "Mein Vermieter hat mir gekündigt.",
	})
	require.NoError(t, err)
	assert.Equal(t, completer.reply, result.Reply)
	assert.Equal(t, "free_text", result.Phase)
	assert.False(t, result.IntakeComplete)
	assert.False(t, result.CaseCreated)
	assert.Equal(t, 1, completer.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleTurn_CompletionFailureKeepsStateUnpersisted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	completer := &fakeCompleter{err: errors.New("upstream unavailable")}
	svc := newTestIntakeService(mock, completer)

	conversationID := uuid.New()

	expectConversation(mock, conversationID, models.ConversationActive)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT intake_state")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"intake_state"}).AddRow(nil))

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "conversation_id", "role", "content", "created_at"}))

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "conversation_id", "filename", "mime_type", "size", "storage_path", "extracted_text", "created_at"}))

	// No message inserts, no state update, no record writes after failure:
	// retrying the turn must not leave a duplicate user message behind.
	_, err = svc.HandleTurn(context.Background(), HandleTurnRequest{
		ConversationID: conversationID,
		Content:        "Hallo",
	})
	require.ErrorIs(t, err, ErrCompletionFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleTurn_ConsentCreatesPersonAndCase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	completer := &fakeCompleter{reply: "Vielen Dank! Ihr Fall wird an einen Anwalt weitergeleitet."}
	svc := newTestIntakeService(mock, completer)

	conversationID := uuid.New()
	now := time.Now()

	expectConversation(mock, conversationID, models.ConversationActive)

	state := []byte(`{"phase":7,"intake_complete":true,"person_data_requested":true,"consent_given":false,"deadlines_asked":true,"questions_asked":[]}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT intake_state")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"intake_state"}).AddRow(state))

	history := pgxmock.NewRows([]string{"id", "conversation_id", "role", "content", "created_at"}).
		AddRow(uuid.New(), conversationID, models.RoleUser,
			"Mein Vermieter hat die Kündigung geschickt.", now).
		AddRow(uuid.New(), conversationID, models.RoleUser,
			"Mein Name ist Anna Schmidt, meine E-Mail ist anna.schmidt@example.com", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM messages")).
		WithArgs(conversationID).
		WillReturnRows(history)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs(conversationID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "conversation_id", "filename", "mime_type", "size", "storage_path", "extracted_text", "created_at"}))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(conversationID, models.RoleUser, "Ja, ich bin einverstanden.").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), now))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(conversationID, models.RoleAssistant, completer.reply).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), now))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WithArgs(conversationID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(regexp.QuoteMeta("FROM persons")).
		WithArgs(conversationID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO persons")).
		WithArgs(
			pgxmock.AnyArg(), conversationID, "Anna Schmidt", "anna.schmidt@example.com",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), true, pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WithArgs(conversationID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(regexp.QuoteMeta("FROM cases")).
		WithArgs(conversationID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("FROM case_types")).
		WithArgs("Mietrecht").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(uuid.New(), "Mietrecht"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cases")).
		WithArgs(
			pgxmock.AnyArg(), conversationID, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), models.CaseStatusOpen,
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE conversations")).
		WithArgs(conversationID, models.ConversationForwarded).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := svc.HandleTurn(context.Background(), HandleTurnRequest{
		ConversationID: conversationID,
		Content:        "Ja, ich bin einverstanden.",
	})
	require.NoError(t, err)
	assert.True(t, result.CaseCreated)
	assert.Equal(t, models.ConversationForwarded, result.ConversationStatus)
	assert.Equal(t, "consent", result.Phase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleTurn_ClosedConversation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newTestIntakeService(mock, &fakeCompleter{reply: "ok"})

	conversationID := uuid.New()
	expectConversation(mock, conversationID, models.ConversationForwarded)

	_, err = svc.HandleTurn(context.Background(), HandleTurnRequest{
		ConversationID: conversationID,
		Content:        "Noch eine Frage",
	})
	require.ErrorIs(t, err, ErrConversationClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleTurn_EmptyMessage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	svc := newTestIntakeService(mock, &fakeCompleter{reply: "ok"})

	_, err = svc.HandleTurn(context.Background(), HandleTurnRequest{
		ConversationID: uuid.New(),
		Content:        "   ",
	})
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}
