package conversationhandler

import (
	"context"

	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/infrastructure/metrics"
	conversationrequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/conversation"
	conversationresponses "medifind-server/intake-api/internal/interfaces/httpserver/responses/conversation"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// ConversationHandler handles conversation-related HTTP requests
type ConversationHandler struct {
	conversationService *conversation.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversationService *conversation.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// CreateConversation creates a new conversation
func (h *ConversationHandler) CreateConversation(
	ctx context.Context,
	req conversationrequests.CreateConversationRequest,
) (*conversationresponses.ConversationResponse, error) {
	conv, err := h.conversationService.CreateConversation(ctx, conversation.CreateConversationInput{
		UserID:   req.UserID,
		Title:    req.Title,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create conversation")
	}

	metrics.ConversationsCreatedTotal.Inc()
	return conversationresponses.NewConversationResponse(conv), nil
}

// GetConversation retrieves a conversation by public ID
func (h *ConversationHandler) GetConversation(
	ctx context.Context,
	conversationID string,
	userID *uint,
) (*conversationresponses.ConversationResponse, error) {
	conv, err := h.conversationService.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get conversation")
	}

	return conversationresponses.NewConversationResponse(conv), nil
}

// ResolveConversationPublicIDToNumericID resolves a cursor public ID to the
// numeric ID the store paginates on.
func (h *ConversationHandler) ResolveConversationPublicIDToNumericID(
	ctx context.Context,
	userID *uint,
	publicID string,
) (*uint, error) {
	conv, err := h.conversationService.GetConversationForUser(ctx, publicID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to resolve conversation ID")
	}
	return &conv.ID, nil
}

// ListConversations lists conversations with flexible filtering
func (h *ConversationHandler) ListConversations(
	ctx context.Context,
	userID *uint,
	pagination *query.Pagination,
) (*conversationresponses.ConversationListResponse, error) {
	filter := conversation.ConversationFilter{UserID: userID}

	// Fetch limit+1 so hasMore is exact, then trim.
	var requestedLimit *int
	if pagination != nil && pagination.Limit != nil {
		requestedLimit = pagination.Limit
		extraLimit := *pagination.Limit + 1
		pagination.Limit = &extraLimit
	}

	conversations, total, err := h.conversationService.FindConversationsByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list conversations")
	}

	hasMore := false
	if requestedLimit != nil && len(conversations) > *requestedLimit {
		hasMore = true
		conversations = conversations[:*requestedLimit]
	}

	return conversationresponses.NewConversationListResponse(conversations, hasMore, total), nil
}

// DeleteConversation soft-deletes a conversation
func (h *ConversationHandler) DeleteConversation(
	ctx context.Context,
	conversationID string,
	userID *uint,
) (*conversationresponses.ConversationDeletedResponse, error) {
	conv, err := h.conversationService.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get conversation")
	}

	if err := h.conversationService.DeleteConversation(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete conversation")
	}

	return conversationresponses.NewConversationDeletedResponse(conversationID), nil
}

// ListMessages returns the chronological message history
func (h *ConversationHandler) ListMessages(
	ctx context.Context,
	conversationID string,
	userID *uint,
	pagination *query.Pagination,
) (*conversationresponses.MessageListResponse, error) {
	conv, err := h.conversationService.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get conversation")
	}

	var requestedLimit *int
	if pagination != nil && pagination.Limit != nil {
		requestedLimit = pagination.Limit
		extraLimit := *pagination.Limit + 1
		pagination.Limit = &extraLimit
	}

	messages, err := h.conversationService.GetMessages(ctx, conv, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list messages")
	}

	hasMore := false
	if requestedLimit != nil && len(messages) > *requestedLimit {
		hasMore = true
		messages = messages[:*requestedLimit]
	}

	return conversationresponses.NewMessageListResponse(messages, hasMore), nil
}

// GetMessage returns one message from a conversation
func (h *ConversationHandler) GetMessage(
	ctx context.Context,
	conversationID string,
	messageID string,
	userID *uint,
) (*conversationresponses.MessageResponse, error) {
	conv, err := h.conversationService.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get conversation")
	}

	message, err := h.conversationService.GetMessageByPublicID(ctx, conv, messageID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get message")
	}

	response := conversationresponses.NewMessageResponse(message)
	return &response, nil
}
