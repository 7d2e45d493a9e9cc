package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jarvis-server/services/chat-api/internal/interfaces/httpserver/handlers"
	convreq "jarvis-server/services/chat-api/internal/interfaces/httpserver/requests/conversation"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver/responses"
	convres "jarvis-server/services/chat-api/internal/interfaces/httpserver/responses/conversation"
	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

// RegisterChatRoutes registers the conversation and streaming routes.
func RegisterChatRoutes(router gin.IRoutes, handler *handlers.Provider, defaultUserID string) {
	// Conversation management endpoints
	router.POST("/conversations", createConversation(handler.Conversation, defaultUserID))
	router.GET("/conversations", listConversations(handler.Conversation, defaultUserID))
	router.GET("/conversations/:id", getConversation(handler.Conversation))
	router.DELETE("/conversations/:id", deleteConversation(handler.Conversation))
	router.GET("/conversations/:id/messages", listMessages(handler.Conversation))

	// Streaming endpoint
	router.POST("/conversations/:id/stream", streamMessage(handler.Stream))
}

// createConversation godoc
// @Summary      Create a conversation
// @Description  Creates a new conversation. The title is optional and defaults to "New Chat".
// @Tags         Conversations API
// @Accept       json
// @Produce      json
// @Param        request body convreq.CreateConversationRequest false "Conversation attributes"
// @Success      201 {object} convres.ConversationResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /conversations [post]
func createConversation(handler *handlers.ConversationHandler, defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req convreq.CreateConversationRequest
		// An empty body is a valid request for the default title.
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
				return
			}
		}

		conv, err := handler.CreateConversation(c.Request.Context(), defaultUserID, req.Title)
		if err != nil {
			responses.HandleError(c, err, "failed to create conversation")
			return
		}

		c.JSON(http.StatusCreated, convres.NewConversationResponse(conv))
	}
}

// listConversations godoc
// @Summary      List conversations
// @Description  Lists conversations that contain at least one message, most recently updated first.
// @Tags         Conversations API
// @Produce      json
// @Success      200 {object} convres.ListConversationsResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /conversations [get]
func listConversations(handler *handlers.ConversationHandler, defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conversations, err := handler.ListConversations(c.Request.Context(), defaultUserID)
		if err != nil {
			responses.HandleError(c, err, "failed to list conversations")
			return
		}

		c.JSON(http.StatusOK, convres.NewListConversationsResponse(conversations))
	}
}

// getConversation godoc
// @Summary      Get a conversation
// @Description  Retrieves a conversation together with its ordered message history.
// @Tags         Conversations API
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Success      200 {object} convres.ConversationResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /conversations/{id} [get]
func getConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := handler.GetConversation(c.Request.Context(), c.Param("id"))
		if err != nil {
			responses.HandleError(c, err, "failed to get conversation")
			return
		}

		c.JSON(http.StatusOK, convres.NewConversationWithMessagesResponse(conv))
	}
}

// deleteConversation godoc
// @Summary      Delete a conversation
// @Description  Deletes a conversation and all of its messages.
// @Tags         Conversations API
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Success      200 {object} convres.DeleteConversationResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /conversations/{id} [delete]
func deleteConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := handler.DeleteConversation(c.Request.Context(), id); err != nil {
			responses.HandleError(c, err, "failed to delete conversation")
			return
		}

		c.JSON(http.StatusOK, convres.NewDeleteConversationResponse(id))
	}
}

// listMessages godoc
// @Summary      List conversation messages
// @Description  Lists the messages of a conversation in chronological order.
// @Tags         Conversations API
// @Produce      json
// @Param        id path string true "Conversation ID"
// @Success      200 {object} convres.ListMessagesResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /conversations/{id}/messages [get]
func listMessages(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := handler.ListMessages(c.Request.Context(), c.Param("id"))
		if err != nil {
			responses.HandleError(c, err, "failed to list messages")
			return
		}

		c.JSON(http.StatusOK, convres.NewListMessagesResponse(messages))
	}
}

// streamMessage godoc
// @Summary      Stream an assistant turn
// @Description  Appends the user message to the conversation and streams the assistant
// @Description  response as Server-Sent Events. Each event is a JSON object with a type
// @Description  of "token", "complete" or "error"; exactly one terminal event is sent.
// @Tags         Conversations API
// @Accept       json
// @Produce      text/event-stream
// @Param        id path string true "Conversation ID"
// @Param        request body convreq.StreamMessageRequest true "User message"
// @Success      200 {string} string "SSE stream of data: {json} events"
// @Failure      400 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /conversations/{id}/stream [post]
func streamMessage(handler *handlers.StreamHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req convreq.StreamMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
			return
		}

		handler.Stream(c, c.Param("id"), req.Content)
	}
}
