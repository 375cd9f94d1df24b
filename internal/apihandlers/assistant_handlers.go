package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"scribe/internal/assistant"
	"scribe/internal/services"
)

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type assistantChatRequest struct {
	Message string     `json:"message"`
	History []chatTurn `json:"history"`
}

type assistantChatResponse struct {
	Success      bool           `json:"success"`
	Response     string         `json:"response"`
	ActionTaken  string         `json:"action_taken,omitempty"`
	ActionResult map[string]any `json:"action_result,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// AssistantChatHandler handles POST /api/admin/assistant/chat. The client
// supplies the conversation history; nothing is retained between requests.
func (h *APIHandler) AssistantChatHandler(c *gin.Context) {
	var req assistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		BadRequest(c, "message is required")
		return
	}

	conv := assistant.NewConversation(historyMessages(req.History)...)
	result, err := h.App.Assistant.Handle(c.Request.Context(), conv, req.Message)
	if err != nil {
		log.WithError(err).Error("Assistant request failed")
		c.JSON(http.StatusOK, assistantChatResponse{
			Success:  false,
			Response: "Sorry, I encountered an error processing that request. Please try again.",
			Error:    "assistant_unavailable",
		})
		return
	}

	resp := assistantChatResponse{
		Success:      true,
		Response:     result.Reply,
		ActionTaken:  string(result.ActionTaken),
		ActionResult: result.ActionResult,
	}
	c.JSON(http.StatusOK, resp)
}

// ChatHandler handles POST /api/chat, the public conversational endpoint.
// It never takes admin actions.
func (h *APIHandler) ChatHandler(c *gin.Context) {
	var req assistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		BadRequest(c, "message is required")
		return
	}

	messages := append(historyMessages(req.History), services.ChatMessage{
		Role:    services.ChatMessageRoleUser,
		Content: req.Message,
	})
	reply, err := h.App.Completion.GenerateChatCompletion(c.Request.Context(), messages)
	if err != nil {
		log.WithError(err).Error("Public chat request failed")
		c.JSON(http.StatusOK, assistantChatResponse{
			Success:  false,
			Response: "Sorry, I can't chat right now. Please try again later.",
			Error:    "chat_unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, assistantChatResponse{Success: true, Response: reply})
}

func historyMessages(history []chatTurn) []services.ChatMessage {
	messages := make([]services.ChatMessage, 0, len(history))
	for _, turn := range history {
		role := services.ChatMessageRoleUser
		if turn.Role == "assistant" || turn.Role == "model" {
			role = services.ChatMessageRoleAssistant
		}
		messages = append(messages, services.ChatMessage{Role: role, Content: turn.Content})
	}
	return messages
}
