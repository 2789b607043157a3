package handlers

import (
	"errors"
	"net/http"

	"legalintake-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConversationHandler handles HTTP requests for intake conversations
type ConversationHandler struct {
	intakeService *service.IntakeService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(intakeService *service.IntakeService) *ConversationHandler {
	return &ConversationHandler{intakeService: intakeService}
}

// StartConversation handles POST /api/conversations
func (h *ConversationHandler) StartConversation(c *gin.Context) {
	conversation, err := h.intakeService.StartConversation(c.Request.Context())
	if err != nil {
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
		"data":    conversation,
	})
}

// GetConversation handles GET /api/conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONVERSATION_ID",
				"message": "Invalid conversation id format",
			},
		})
		return
	}

	result, err := h.intakeService.GetConversation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONVERSATION_NOT_FOUND",
				"message": "Conversation not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"conversation": result.Conversation,
			"messages":     result.Messages,
		},
	})
}

// SendMessageRequest represents the request body for a chat turn
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage handles POST /api/conversations/:id/messages
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONVERSATION_ID",
				"message": "Invalid conversation id format",
			},
		})
		return
	}

	var req SendMessageRequest
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

	result, err := h.intakeService.HandleTurn(c.Request.Context(), service.HandleTurnRequest{
		ConversationID: id,
		Content:        req.Content,
	})
	if err != nil {
		status, code := turnErrorResponse(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reply":               result.Reply,
			"phase":               result.Phase,
			"intake_complete":     result.IntakeComplete,
			"asking_for_contact":  result.AskingForContact,
			"asking_for_consent":  result.AskingForConsent,
			"consent_declined":    result.ConsentDeclined,
			"case_created":        result.CaseCreated,
			"conversation_status": result.ConversationStatus,
		},
	})
}

func turnErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		return http.StatusNotFound, "CONVERSATION_NOT_FOUND"
	case errors.Is(err, service.ErrConversationClosed):
		return http.StatusConflict, "CONVERSATION_CLOSED"
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, "EMPTY_MESSAGE"
	case errors.Is(err, service.ErrCompletionFailed):
		return http.StatusBadGateway, "COMPLETION_FAILED"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
