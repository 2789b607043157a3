package handlers

import (
	"errors"
	"net/http"

	"legalintake-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PersonHandler handles HTTP requests for person records
type PersonHandler struct {
	personService *service.PersonService
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// CreatePersonRequest represents the request body for creating a person
type CreatePersonRequest struct {
	ConversationID         string `json:"conversation_id" binding:"required"`
	FullName               string `json:"full_name"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	ClientType             string `json:"client_type"`
	CompanyName            string `json:"company_name"`
	Location               string `json:"location"`
	PreferredContactMethod string `json:"preferred_contact_method"`
	ConsentGiven           *bool  `json:"consent_given"`
}

// CreatePerson handles POST /api/persons
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONVERSATION_ID",
				"message": "Invalid conversation_id format",
			},
		})
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), service.CreatePersonRequest{
		ConversationID:         conversationID,
		FullName:               req.FullName,
		Email:                  req.Email,
		Phone:                  req.Phone,
		ClientType:             req.ClientType,
		CompanyName:            req.CompanyName,
		Location:               req.Location,
		PreferredContactMethod: req.PreferredContactMethod,
		ConsentGiven:           req.ConsentGiven,
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_FAILED",
					"message": "Die Angaben sind unvollständig oder ungültig",
					"details": validationErr.Errors,
				},
			})
			return
		}
		if errors.Is(err, service.ErrConsentRequired) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONSENT_REQUIRED",
					"message": "Einwilligung zur Datenverarbeitung fehlt",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":          person.ID,
			"full_name":   person.FullName,
			"email":       person.Email,
			"client_type": person.ClientType,
		},
	})
}

// GetPerson handles GET /api/persons/:id
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PERSON_ID",
				"message": "Invalid person id format",
			},
		})
		return
	}

	person, err := h.personService.GetPerson(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSON_NOT_FOUND",
				"message": "Person not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    person,
	})
}
