package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"legalintake-backend/extraction"
	"legalintake-backend/intake"
	"legalintake-backend/models"
	"legalintake-backend/repository"
	"legalintake-backend/validation"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is no longer active")
	ErrEmptyMessage         = errors.New("message content is empty")
	ErrCompletionFailed     = errors.New("failed to generate assistant reply")
)

const basePrompt = `Sie sind ein freundlicher Assistent einer deutschen Rechtsanwaltskanzlei.
Sie führen ein Erstgespräch zur Fallaufnahme auf Deutsch.
Sie geben keine Rechtsberatung und keine Einschätzung der Erfolgsaussichten.
Antworten Sie kurz, höflich und verständlich.`

// IntakeService orchestrates conversation turns: it persists messages,
// recomputes the extraction, advances the intake state and produces the
// assistant reply.
type IntakeService struct {
	conversationRepo *repository.ConversationRepository
	documentRepo     *repository.DocumentRepository
	personRepo       *repository.PersonRepository
	caseRepo         *repository.CaseRepository
	completer        Completer
	caseExtractor    *extraction.CaseExtractor
	personExtractor  *extraction.PersonExtractor
	machine          *intake.Machine
}

// IntakeServiceOption is a functional option for IntakeService
type IntakeServiceOption func(*IntakeService)

// IntakeWithConversationRepository sets the conversation repository
func IntakeWithConversationRepository(repo *repository.ConversationRepository) IntakeServiceOption {
	return func(s *IntakeService) {
		s.conversationRepo = repo
	}
}

// IntakeWithDocumentRepository sets the document repository
func IntakeWithDocumentRepository(repo *repository.DocumentRepository) IntakeServiceOption {
	return func(s *IntakeService) {
		s.documentRepo = repo
	}
}

// IntakeWithPersonRepository sets the person repository
func IntakeWithPersonRepository(repo *repository.PersonRepository) IntakeServiceOption {
	return func(s *IntakeService) {
		s.personRepo = repo
	}
}

// IntakeWithCaseRepository sets the case repository
func IntakeWithCaseRepository(repo *repository.CaseRepository) IntakeServiceOption {
	return func(s *IntakeService) {
		s.caseRepo = repo
	}
}

// IntakeWithCompleter sets the reply completer
func IntakeWithCompleter(completer Completer) IntakeServiceOption {
	return func(s *IntakeService) {
		s.completer = completer
	}
}

// NewIntakeService creates a new intake service
func NewIntakeService(opts ...IntakeServiceOption) *IntakeService {
	s := &IntakeService{
		caseExtractor:   extraction.NewCaseExtractor(),
		personExtractor: extraction.NewPersonExtractor(),
		machine:         intake.NewMachine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleTurnRequest represents one inbound chat message
type HandleTurnRequest struct {
	ConversationID uuid.UUID
	Content        string
}

// HandleTurnResult represents the outcome of one conversation turn
type HandleTurnResult struct {
	Reply              string
	Phase              string
	IntakeComplete     bool
	AskingForContact   bool
	AskingForConsent   bool
	ConsentDeclined    bool
	CaseCreated        bool
	ConversationStatus models.ConversationStatus
}

// StartConversation creates a new active conversation
func (s *IntakeService) StartConversation(ctx context.Context) (*models.Conversation, error) {
	if s.conversationRepo == nil {
		return nil, errors.New("conversation repository not set")
	}

	conversation := &models.Conversation{
		Status: models.ConversationActive,
	}
	if err := s.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return conversation, nil
}

// GetConversationResult bundles a conversation with its transcript
type GetConversationResult struct {
	Conversation *models.Conversation
	Messages     []models.Message
}

// GetConversation retrieves a conversation and its messages
func (s *IntakeService) GetConversation(ctx context.Context, id uuid.UUID) (*GetConversationResult, error) {
	if s.conversationRepo == nil {
		return nil, errors.New("conversation repository not set")
	}

	conversation, err := s.conversationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	messages, err := s.conversationRepo.ListMessages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return &GetConversationResult{Conversation: conversation, Messages: messages}, nil
}

// HandleTurn processes one user message: it stores the message, recomputes
// the case extraction over the full transcript, advances the intake state,
// asks the model for the reply and, once consent is recorded, creates the
// person and case records.
func (s *IntakeService) HandleTurn(ctx context.Context, req HandleTurnRequest) (*HandleTurnResult, error) {
	if s.conversationRepo == nil {
		return nil, errors.New("conversation repository not set")
	}
	if s.completer == nil {
		return nil, errors.New("completer not set")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	conversation, err := s.conversationRepo.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	if conversation.Status != models.ConversationActive {
		return nil, ErrConversationClosed
	}

	state, err := s.conversationRepo.GetIntakeState(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load intake state: %w", err)
	}
	if state == nil {
		state = intake.NewState()
	}

	history, err := s.conversationRepo.ListMessages(ctx, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	userMessage := &models.Message{
		ConversationID: req.ConversationID,
		Role:           models.RoleUser,
		Content:        content,
	}

	var documents []models.Document
	if s.documentRepo != nil {
		documents, err = s.documentRepo.ListByConversationID(ctx, req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
	}

	transcript := append(append([]models.Message{}, history...), *userMessage)
	ex := s.caseExtractor.Extract(transcript, documents)

	userTurns, assistantTurns := countTurns(transcript)
	machineRes := s.machine.Update(state, ex, content, userTurns, assistantTurns)

	systemPrompt := buildSystemPrompt(machineRes.Instruction, machineRes.ResponseSuggestion, documents)
	reply, err := s.completer.Complete(ctx, systemPrompt, history, content)
	if err != nil {
		// Nothing has been persisted yet, so the client can retry the
		// same turn without duplicating it in the transcript.
		log.Printf("completion failed for conversation %s: %v", req.ConversationID, err)
		return nil, ErrCompletionFailed
	}

	if err := s.conversationRepo.AppendMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	assistantMessage := &models.Message{
		ConversationID: req.ConversationID,
		Role:           models.RoleAssistant,
		Content:        reply,
	}
	if err := s.conversationRepo.AppendMessage(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}

	if err := s.conversationRepo.UpdateIntakeState(ctx, req.ConversationID, state); err != nil {
		return nil, fmt.Errorf("failed to store intake state: %w", err)
	}

	result := &HandleTurnResult{
		Reply:              reply,
		Phase:              state.Phase.String(),
		IntakeComplete:     state.IntakeComplete,
		AskingForContact:   machineRes.ShouldAskForPersonData,
		AskingForConsent:   machineRes.ShouldAskForConsent,
		ConsentDeclined:    machineRes.ConsentDeclined,
		ConversationStatus: conversation.Status,
	}

	switch {
	case machineRes.ShouldCreateCase && state.ConsentGiven:
		created, err := s.createRecords(ctx, req.ConversationID, transcript, ex)
		if err != nil {
			return nil, err
		}
		result.CaseCreated = created
		result.ConversationStatus = models.ConversationForwarded
		if err := s.conversationRepo.UpdateStatus(ctx, req.ConversationID, models.ConversationForwarded); err != nil {
			return nil, fmt.Errorf("failed to update conversation status: %w", err)
		}

	case machineRes.ConsentDeclined:
		result.ConversationStatus = models.ConversationDeclined
		if err := s.conversationRepo.UpdateStatus(ctx, req.ConversationID, models.ConversationDeclined); err != nil {
			return nil, fmt.Errorf("failed to update conversation status: %w", err)
		}
	}

	return result, nil
}

// createRecords persists the person and case for a consented conversation.
// Both writes are idempotent: an existing record for the conversation is
// reused instead of duplicated. Returns whether a new case was created.
func (s *IntakeService) createRecords(
	ctx context.Context,
	conversationID uuid.UUID,
	transcript []models.Message,
	ex extraction.Result,
) (bool, error) {
	if s.personRepo == nil || s.caseRepo == nil {
		return false, errors.New("person or case repository not set")
	}

	var personID *uuid.UUID

	person, err := s.personRepo.GetByConversationID(ctx, conversationID)
	if err != nil {
		return false, fmt.Errorf("failed to look up person: %w", err)
	}
	if person != nil {
		personID = &person.ID
	} else {
		personData := s.personExtractor.Extract(transcript)
		if personData.IsComplete() {
			person = personFromExtraction(conversationID, personData)
			if err := s.personRepo.Create(ctx, person); err != nil {
				return false, fmt.Errorf("failed to create person: %w", err)
			}
			if err := s.conversationRepo.LinkPerson(ctx, conversationID, person.ID); err != nil {
				return false, fmt.Errorf("failed to link person: %w", err)
			}
			personID = &person.ID
		} else {
			log.Printf("person data incomplete for conversation %s, creating case without person", conversationID)
		}
	}

	existing, err := s.caseRepo.GetByConversationID(ctx, conversationID)
	if err != nil {
		return false, fmt.Errorf("failed to look up case: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	c := s.caseFromExtraction(ctx, conversationID, personID, ex)
	if err := s.caseRepo.Create(ctx, c); err != nil {
		return false, fmt.Errorf("failed to create case: %w", err)
	}

	return true, nil
}

func personFromExtraction(conversationID uuid.UUID, data models.ExtractedPersonData) *models.Person {
	person := &models.Person{
		ID:                uuid.New(),
		ConversationID:    conversationID,
		FullName:          data.FullName,
		Email:             data.Email,
		ClientType:        data.ClientType,
		ConsentGiven:      true,
		ConsentRecordedAt: time.Now().UTC(),
	}
	if person.ClientType == "" {
		person.ClientType = models.ClientTypePrivate
	}
	if data.Phone != "" {
		person.Phone = &data.Phone
	}
	if data.CompanyName != "" {
		person.CompanyName = &data.CompanyName
	}
	if data.Location != "" {
		person.Location = &data.Location
	}
	if data.PreferredContactMethod != "" {
		person.PreferredContactMethod = &data.PreferredContactMethod
	}
	return person
}

func (s *IntakeService) caseFromExtraction(
	ctx context.Context,
	conversationID uuid.UUID,
	personID *uuid.UUID,
	ex extraction.Result,
) *models.Case {
	structured := extraction.BuildStructuredDescription(ex.Data, ex.Confidence)

	c := &models.Case{
		ID:             uuid.New(),
		ConversationID: conversationID,
		PersonID:       personID,
		Title:          caseTitle(ex.Data),
		Description:    extraction.BuildCaseSummary(ex.Data),
		ExtractedData:  &structured,
		UrgencyLevel:   ex.Data.UrgencyLevel,
		Status:         models.CaseStatusOpen,
	}

	// Case type lookup is best effort; an unclassified case stays untyped.
	if ex.Data.LegalArea != "" {
		caseType, err := s.caseRepo.FindTypeByName(ctx, ex.Data.LegalArea)
		if err != nil {
			log.Printf("case type lookup failed for %q: %v", ex.Data.LegalArea, err)
		} else if caseType != nil {
			c.CaseTypeID = &caseType.ID
		}
	}

	for _, deadline := range ex.Data.Deadlines {
		if iso, ok := validation.ParseGermanDate(deadline.Date); ok {
			c.DeadlineDate = &iso
			break
		}
	}

	return c
}

func caseTitle(data models.ExtractedCaseData) string {
	if data.LegalArea != "" {
		return "Rechtsanfrage " + data.LegalArea
	}
	return "Rechtsanfrage"
}

func countTurns(transcript []models.Message) (userTurns, assistantTurns int) {
	for _, msg := range transcript {
		switch msg.Role {
		case models.RoleUser:
			userTurns++
		case models.RoleAssistant:
			assistantTurns++
		}
	}
	return userTurns, assistantTurns
}

func buildSystemPrompt(instruction, suggestion string, documents []models.Document) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if instruction != "" {
		b.WriteString("\n\nAnweisung für diese Antwort:\n")
		b.WriteString(instruction)
	}
	if suggestion != "" {
		b.WriteString("\n\nGeben Sie dem Mandanten die folgende Zusammenfassung wieder:\n")
		b.WriteString(suggestion)
	}

	withText := 0
	for _, doc := range documents {
		if doc.ExtractedText != nil && *doc.ExtractedText != "" {
			withText++
		}
	}
	if withText > 0 {
		b.WriteString("\n\nVom Mandanten hochgeladene Dokumente:")
		for _, doc := range documents {
			if doc.ExtractedText == nil || *doc.ExtractedText == "" {
				continue
			}
			text := *doc.ExtractedText
			if runes := []rune(text); len(runes) > 2000 {
				text = string(runes[:2000])
			}
			b.WriteString(fmt.Sprintf("\n--- %s ---\n%s", doc.Filename, text))
		}
	}

	return b.String()
}
