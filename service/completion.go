package service

import (
	"context"
	"fmt"
	"time"

	"legalintake-backend/models"

	"github.com/google/generative-ai-go/genai"
)

const (
	geminiModel    = "gemini-2.0-flash"
	maxRetries     = 3
	initialBackoff = time.Second
)

// Completer produces the assistant reply for a conversation turn
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Message, userMessage string) (string, error)
}

// GeminiCompleter implements Completer using the Gemini API
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a completer backed by the given client
func NewGeminiCompleter(client *genai.Client) *GeminiCompleter {
	return &GeminiCompleter{client: client, model: geminiModel}
}

// Complete sends the transcript plus the new user message and returns the
// assistant reply. Retries transient failures with exponential backoff.
func (c *GeminiCompleter) Complete(
	ctx context.Context,
	systemPrompt string,
	history []models.Message,
	userMessage string,
) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	session := model.StartChat()
	for _, msg := range history {
		role := "user"
		if msg.Role == models.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	var resp *genai.GenerateContentResponse
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		resp, err = session.SendMessage(ctx, genai.Text(userMessage))
		if err == nil {
			break
		}
		if attempt == maxRetries-1 {
			return "", fmt.Errorf("failed to generate reply after %d attempts: %w", maxRetries, err)
		}
	}

	reply := extractText(resp)
	if reply == "" {
		return "", ErrCompletionFailed
	}

	return reply, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok && string(text) != "" {
				return string(text)
			}
		}
	}
	return ""
}
