package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"legalintake-backend/models"
	"legalintake-backend/repository"
	"legalintake-backend/validation"

	"github.com/google/uuid"
)

var ErrConsentRequired = errors.New("consent has not been given")

// ValidationError carries the accumulated user-facing validation messages
// for a rejected payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

// PersonService handles explicit person creation through the API, as
// opposed to the conversational path driven by the intake service.
type PersonService struct {
	personRepo       *repository.PersonRepository
	conversationRepo *repository.ConversationRepository
}

// PersonServiceOption is a functional option for PersonService
type PersonServiceOption func(*PersonService)

// PersonWithPersonRepository sets the person repository
func PersonWithPersonRepository(repo *repository.PersonRepository) PersonServiceOption {
	return func(s *PersonService) {
		s.personRepo = repo
	}
}

// PersonWithConversationRepository sets the conversation repository
func PersonWithConversationRepository(repo *repository.ConversationRepository) PersonServiceOption {
	return func(s *PersonService) {
		s.conversationRepo = repo
	}
}

// NewPersonService creates a new person service
func NewPersonService(opts ...PersonServiceOption) *PersonService {
	s := &PersonService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePersonRequest represents an explicit person creation payload
type CreatePersonRequest struct {
	ConversationID         uuid.UUID
	FullName               string
	Email                  string
	Phone                  string
	ClientType             string
	CompanyName            string
	Location               string
	PreferredContactMethod string
	ConsentGiven           *bool
}

// CreatePerson validates the payload and writes the person record. The
// write is idempotent per conversation: an existing person is returned
// unchanged.
func (s *PersonService) CreatePerson(ctx context.Context, req CreatePersonRequest) (*models.Person, error) {
	if s.personRepo == nil {
		return nil, errors.New("person repository not set")
	}

	result := validation.ValidatePersonData(validation.PersonInput{
		FullName:               req.FullName,
		Email:                  req.Email,
		Phone:                  req.Phone,
		ClientType:             req.ClientType,
		CompanyName:            req.CompanyName,
		PreferredContactMethod: req.PreferredContactMethod,
		ConsentGiven:           req.ConsentGiven,
	})
	if !result.Valid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	// Presence is validated above; persistence additionally requires the
	// consent to actually be affirmative.
	if req.ConsentGiven == nil || !*req.ConsentGiven {
		return nil, ErrConsentRequired
	}

	existing, err := s.personRepo.GetByConversationID(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	person := &models.Person{
		ID:                uuid.New(),
		ConversationID:    req.ConversationID,
		FullName:          strings.TrimSpace(req.FullName),
		Email:             req.Email,
		ClientType:        models.ClientType(req.ClientType),
		ConsentGiven:      true,
		ConsentRecordedAt: time.Now().UTC(),
	}
	if req.Phone != "" {
		person.Phone = &req.Phone
	}
	if req.CompanyName != "" {
		person.CompanyName = &req.CompanyName
	}
	if req.Location != "" {
		person.Location = &req.Location
	}
	if req.PreferredContactMethod != "" {
		person.PreferredContactMethod = &req.PreferredContactMethod
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}

	if s.conversationRepo != nil {
		if err := s.conversationRepo.LinkPerson(ctx, req.ConversationID, person.ID); err != nil {
			return nil, err
		}
	}

	return person, nil
}

// GetPerson retrieves a person by ID
func (s *PersonService) GetPerson(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	if s.personRepo == nil {
		return nil, errors.New("person repository not set")
	}
	return s.personRepo.GetByID(ctx, id)
}
