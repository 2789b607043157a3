package handlers

import (
	"errors"
	"net/http"

	"legalintake-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles HTTP requests for case records
type CaseHandler struct {
	caseService *service.CaseService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *service.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// CreateCaseRequest represents the request body for creating a case
type CreateCaseRequest struct {
	ConversationID string   `json:"conversation_id" binding:"required"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CaseType       string   `json:"case_type"`
	UrgencyLevel   string   `json:"urgency_level"`
	DeadlineDate   string   `json:"deadline_date"`
	EstimatedValue *float64 `json:"estimated_value"`
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
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

	created, err := h.caseService.CreateCase(c.Request.Context(), service.CreateCaseRequest{
		ConversationID: conversationID,
		Title:          req.Title,
		Description:    req.Description,
		CaseTypeName:   req.CaseType,
		UrgencyLevel:   req.UrgencyLevel,
		DeadlineDate:   req.DeadlineDate,
		EstimatedValue: req.EstimatedValue,
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
			"id":            created.ID,
			"title":         created.Title,
			"case_type":     h.caseService.CaseTypeName(c.Request.Context(), created),
			"urgency_level": created.UrgencyLevel,
			"status":        created.Status,
		},
	})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CASE_ID",
				"message": "Invalid case id format",
			},
		})
		return
	}

	result, err := h.caseService.GetCase(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CASE_NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// ListCaseTypes handles GET /api/case-types
func (h *CaseHandler) ListCaseTypes(c *gin.Context) {
	types, err := h.caseService.ListCaseTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    types,
	})
}
