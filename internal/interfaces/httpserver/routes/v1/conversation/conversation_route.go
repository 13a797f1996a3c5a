package conversation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/chathandler"
	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"medifind-server/intake-api/internal/interfaces/httpserver/requests"
	conversationrequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/conversation"
	"medifind-server/intake-api/internal/interfaces/httpserver/responses"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

type ConversationRoute struct {
	handler     *conversationhandler.ConversationHandler
	chatHandler *chathandler.ChatHandler
}

func NewConversationRoute(
	handler *conversationhandler.ConversationHandler,
	chatHandler *chathandler.ChatHandler,
) *ConversationRoute {
	return &ConversationRoute{
		handler:     handler,
		chatHandler: chatHandler,
	}
}

func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.GET("", route.listConversations)
	conversations.POST("", route.createConversation)
	conversations.GET("/:conv_public_id", route.getConversation)
	conversations.DELETE("/:conv_public_id", route.deleteConversation)
	conversations.GET("/:conv_public_id/messages", route.listMessages)
	conversations.POST("/:conv_public_id/messages", route.processTurn)
	conversations.GET("/:conv_public_id/messages/:message_id", route.getMessage)
}

// listConversations godoc
// @Summary List conversations
// @Description List conversations, optionally scoped to one user.
// @Tags Conversations API
// @Produce json
// @Param user_id query int false "Owner filter"
// @Param limit query int false "Maximum number of conversations to return"
// @Param after query string false "Return conversations after the given conversation ID"
// @Param order query string false "Sort order (asc or desc)"
// @Success 200 {object} conversationresponses.ConversationListResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/conversations [get]
func (route *ConversationRoute) listConversations(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	userID, err := requests.GetOptionalUserIDFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to read user filter")
		return
	}

	pagination, err := requests.GetCursorPaginationFromQuery(reqCtx, func(publicID string) (*uint, error) {
		return route.handler.ResolveConversationPublicIDToNumericID(ctx, userID, publicID)
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process pagination")
		return
	}

	response, err := route.handler.ListConversations(ctx, userID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list conversations")
		return
	}

	reqCtx.JSON(http.StatusOK, response)
}

// createConversation godoc
// @Summary Create a conversation
// @Description Create a new intake conversation starting in the symptom_intake stage. Omit user_id for an anonymous session.
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param request body conversationrequests.CreateConversationRequest true "Create conversation request"
// @Success 200 {object} conversationresponses.ConversationResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/conversations [post]
func (route *ConversationRoute) createConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req conversationrequests.CreateConversationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "b9c8d7e6-f5a4-4d3e-a1b2-0c9d8e7f6a5b")
		return
	}

	response, err := route.handler.CreateConversation(ctx, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create conversation")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// getConversation godoc
// @Summary Get a conversation
// @Description Retrieve a conversation by ID. Owned conversations require the matching user_id; anonymous ones are open to any holder of the ID.
// @Tags Conversations API
// @Produce json
// @Param conv_public_id path string true "Conversation ID (format: conv_xxxxx)"
// @Param user_id query int false "Requesting user"
// @Success 200 {object} conversationresponses.ConversationResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conv_public_id} [get]
func (route *ConversationRoute) getConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	userID, err := requests.GetOptionalUserIDFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to read user filter")
		return
	}

	response, err := route.handler.GetConversation(ctx, reqCtx.Param("conv_public_id"), userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get conversation")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// deleteConversation godoc
// @Summary Delete a conversation
// @Description Soft-delete a conversation. Messages stay stored but the conversation stops resolving.
// @Tags Conversations API
// @Produce json
// @Param conv_public_id path string true "Conversation ID (format: conv_xxxxx)"
// @Param user_id query int false "Requesting user"
// @Success 200 {object} conversationresponses.ConversationDeletedResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conv_public_id} [delete]
func (route *ConversationRoute) deleteConversation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	userID, err := requests.GetOptionalUserIDFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to read user filter")
		return
	}

	response, err := route.handler.DeleteConversation(ctx, reqCtx.Param("conv_public_id"), userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete conversation")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// listMessages godoc
// @Summary List messages
// @Description Chronological message history for a conversation, oldest first.
// @Tags Conversations API
// @Produce json
// @Param conv_public_id path string true "Conversation ID (format: conv_xxxxx)"
// @Param user_id query int false "Requesting user"
// @Param limit query int false "Maximum number of messages to return"
// @Success 200 {object} conversationresponses.MessageListResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conv_public_id}/messages [get]
func (route *ConversationRoute) listMessages(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	userID, err := requests.GetOptionalUserIDFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to read user filter")
		return
	}

	pagination, err := requests.GetCursorPaginationFromQuery(reqCtx, nil)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process pagination")
		return
	}

	response, err := route.handler.ListMessages(ctx, reqCtx.Param("conv_public_id"), userID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list messages")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// processTurn godoc
// @Summary Post a user turn
// @Description Run one user message through the intake flow: the reply, the action taken and the stage the conversation moved to, with both messages persisted. When the turn triggers a doctor search the matches ride along.
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param conv_public_id path string true "Conversation ID (format: conv_xxxxx)"
// @Param request body conversationrequests.TurnRequest true "User turn"
// @Success 200 {object} conversationresponses.TurnResponse
// @Failure 400 {object} responses.ErrorResponse "Empty message text"
// @Failure 404 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse "Symptom analysis unavailable"
// @Router /v1/conversations/{conv_public_id}/messages [post]
func (route *ConversationRoute) processTurn(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req conversationrequests.TurnRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "e2a1b0c9-d8e7-4f6a-b5c4-d3e2f1a0b9c8")
		return
	}

	response, err := route.chatHandler.ProcessTurn(ctx, reqCtx.Param("conv_public_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process turn")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// getMessage godoc
// @Summary Get a message
// @Description Retrieve one message from a conversation.
// @Tags Conversations API
// @Produce json
// @Param conv_public_id path string true "Conversation ID (format: conv_xxxxx)"
// @Param message_id path string true "Message ID (format: msg_xxxxx)"
// @Param user_id query int false "Requesting user"
// @Success 200 {object} conversationresponses.MessageResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/conversations/{conv_public_id}/messages/{message_id} [get]
func (route *ConversationRoute) getMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	userID, err := requests.GetOptionalUserIDFromQuery(reqCtx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to read user filter")
		return
	}

	response, err := route.handler.GetMessage(ctx, reqCtx.Param("conv_public_id"), reqCtx.Param("message_id"), userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get message")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}
