package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatInput defines the structure of the JSON request body.
type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

// ChatAI handles POST /v1/ai/chat, the concierge that answers questions
// about the user's own bookings and listings.
func (h *Handlers) ChatAI(c *gin.Context) {
	if h.AIService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI concierge is not configured"})
		return
	}

	// 1. Get User Context (set by AuthMiddleware)
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	username_raw, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	username := username_raw.(string)

	// 2. Parse Input
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. Call the AI Service
	aiResponse, err := h.AIService.GenerateResponse(c.Request.Context(), input.Message, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Service unavailable: " + err.Error()})
		return
	}

	// 4. Save to History
	// Recorded for future reference/billing; a failed write must not fail
	// the request because the user already has their answer.
	query := `
		INSERT INTO ai_chat_history (user_id, user_message, ai_response, tokens_used)
		VALUES (?, ?, ?, 0)
	`
	if _, dbErr := h.DB.Exec(query, userID, input.Message, aiResponse); dbErr != nil {
		println("Warning: Failed to save chat history:", dbErr.Error())
	}

	// 5. Return the Answer
	c.JSON(http.StatusOK, gin.H{
		"response": aiResponse,
	})
}
