package service

import (
	"context"
	"errors"

	"legalintake-backend/models"
	"legalintake-backend/repository"
	"legalintake-backend/validation"

	"github.com/google/uuid"
)

var ErrCaseNotFound = errors.New("case not found")

// CaseService handles explicit case creation and case type listing
type CaseService struct {
	caseRepo   *repository.CaseRepository
	personRepo *repository.PersonRepository
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// CaseWithCaseRepository sets the case repository
func CaseWithCaseRepository(repo *repository.CaseRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.caseRepo = repo
	}
}

// CaseWithPersonRepository sets the person repository
func CaseWithPersonRepository(repo *repository.PersonRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.personRepo = repo
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCaseRequest represents an explicit case creation payload
type CreateCaseRequest struct {
	ConversationID uuid.UUID
	Title          string
	Description    string
	CaseTypeName   string
	UrgencyLevel   string
	DeadlineDate   string
	EstimatedValue *float64
}

// CreateCase validates the payload and writes the case record. The write
// is idempotent per conversation.
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*models.Case, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	conversationID := ""
	if req.ConversationID != uuid.Nil {
		conversationID = req.ConversationID.String()
	}
	result := validation.ValidateCaseData(validation.CaseInput{
		ConversationID: conversationID,
		UrgencyLevel:   req.UrgencyLevel,
		DeadlineDate:   req.DeadlineDate,
		EstimatedValue: req.EstimatedValue,
	})
	if !result.Valid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	existing, err := s.caseRepo.GetByConversationID(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	c := &models.Case{
		ID:             uuid.New(),
		ConversationID: req.ConversationID,
		Title:          req.Title,
		Description:    req.Description,
		UrgencyLevel:   models.UrgencyLevel(req.UrgencyLevel),
		Status:         models.CaseStatusOpen,
	}
	if c.Title == "" {
		c.Title = "Rechtsanfrage"
	}
	if c.UrgencyLevel == "" {
		c.UrgencyLevel = models.UrgencyLow
	}
	if req.DeadlineDate != "" {
		if iso, ok := validation.ParseGermanDate(req.DeadlineDate); ok {
			c.DeadlineDate = &iso
		}
	}

	if s.personRepo != nil {
		person, err := s.personRepo.GetByConversationID(ctx, req.ConversationID)
		if err != nil {
			return nil, err
		}
		if person != nil {
			c.PersonID = &person.ID
		}
	}

	if req.CaseTypeName != "" {
		caseType, err := s.caseRepo.FindTypeByName(ctx, req.CaseTypeName)
		if err != nil {
			return nil, err
		}
		if caseType != nil {
			c.CaseTypeID = &caseType.ID
		}
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// GetCase retrieves a case by ID
func (s *CaseService) GetCase(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCaseNotFound
	}
	return c, nil
}

// ListCaseTypes retrieves all case types
func (s *CaseService) ListCaseTypes(ctx context.Context) ([]models.CaseType, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}
	return s.caseRepo.ListTypes(ctx)
}

// CaseTypeName resolves a case's type name for API responses
func (s *CaseService) CaseTypeName(ctx context.Context, c *models.Case) string {
	if c.CaseTypeID == nil {
		return ""
	}
	types, err := s.caseRepo.ListTypes(ctx)
	if err != nil {
		return ""
	}
	for _, t := range types {
		if t.ID == *c.CaseTypeID {
			return t.Name
		}
	}
	return ""
}
