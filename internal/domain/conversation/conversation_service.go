package conversation

import (
	"context"
	"time"

	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/infrastructure/logger"
	"medifind-server/intake-api/internal/utils/idgen"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// ConversationService handles business logic for conversations
type ConversationService struct {
	repo ConversationRepository
}

// NewConversationService creates a new conversation service
func NewConversationService(repo ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

// ===============================================
// Core CRUD Operations
// ===============================================

// CreateConversationInput represents the input for creating a conversation
type CreateConversationInput struct {
	UserID   *uint
	Title    *string
	Metadata map[string]string
}

// CreateConversation creates a new conversation in the default stage.
func (s *ConversationService) CreateConversation(ctx context.Context, input CreateConversationInput) (*Conversation, error) {
	publicID, err := idgen.GenerateSecureID("conv", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate conversation ID")
	}

	conv := NewConversation(publicID, input.UserID, input.Title, input.Metadata)
	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create conversation")
	}

	return conv, nil
}

// GetConversationByPublicID retrieves a conversation by public ID.
func (s *ConversationService) GetConversationByPublicID(ctx context.Context, publicID string) (*Conversation, error) {
	if !idgen.ValidateIDFormat(publicID, "conv") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid conversation ID", nil, "f1a2b3c4-d5e6-47a8-9b0c-1d2e3f4a5b6c")
	}

	conv, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "conversation not found")
	}

	return conv, nil
}

// GetConversationForUser retrieves a conversation and checks ownership. An
// owned conversation requested by a different user reads as not found; an
// anonymous conversation is accessible to anyone holding its ID.
func (s *ConversationService) GetConversationForUser(ctx context.Context, publicID string, userID *uint) (*Conversation, error) {
	conv, err := s.GetConversationByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if conv.UserID != nil {
		if userID == nil || *conv.UserID != *userID {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"conversation not found", nil, "a9b8c7d6-e5f4-43a2-b1c0-d9e8f7a6b5c4")
		}
	}

	return conv, nil
}

// FindConversationsByFilter retrieves conversations using flexible filter criteria with pagination
func (s *ConversationService) FindConversationsByFilter(ctx context.Context, filter ConversationFilter, pagination *query.Pagination) ([]*Conversation, int64, error) {
	conversations, err := s.repo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list conversations")
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count conversations")
	}

	return conversations, total, nil
}

// DeleteConversation marks a conversation as deleted (soft delete).
func (s *ConversationService) DeleteConversation(ctx context.Context, conv *Conversation) error {
	if err := s.repo.Delete(ctx, conv.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete conversation")
	}
	return nil
}

// ===============================================
// Stage Management
// ===============================================

// SetStage persists a new stage on the conversation. Any stage value is
// accepted, including unknown ones; the turn flow echoes those back rather
// than rejecting them.
func (s *ConversationService) SetStage(ctx context.Context, conv *Conversation, stage intake.Stage) error {
	if stage == conv.Stage {
		return nil
	}

	conv.Stage = stage
	conv.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, conv); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update conversation stage")
	}
	return nil
}

// ===============================================
// Message Management
// ===============================================

// AppendMessageInput represents one message to append to a conversation.
type AppendMessageInput struct {
	Role     MessageRole
	Content  string
	Analysis *analysis.Result
}

// AppendMessages appends messages to a conversation in order, assigning
// public IDs and sequence numbers, and bumps the conversation timestamp.
func (s *ConversationService) AppendMessages(ctx context.Context, conv *Conversation, inputs []AppendMessageInput) ([]Message, error) {
	if len(inputs) == 0 {
		return []Message{}, nil
	}

	currentCount, err := s.repo.CountMessages(ctx, conv.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count messages")
	}

	now := time.Now()
	messages := make([]Message, len(inputs))
	messagePtrs := make([]*Message, len(inputs))
	for i, input := range inputs {
		publicID, err := idgen.GenerateSecureID("msg", 16)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
		}
		messages[i] = Message{
			PublicID:       publicID,
			ConversationID: conv.ID,
			Role:           input.Role,
			Content:        input.Content,
			Analysis:       input.Analysis,
			SequenceNumber: currentCount + i + 1,
			CreatedAt:      now,
		}
		messagePtrs[i] = &messages[i]
	}

	if err := s.repo.BulkAddMessages(ctx, conv.ID, messagePtrs); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to append messages")
	}

	// Timestamp bump is best effort; the messages are already stored. The
	// retention sweep keys off updated_at, so a failed bump is worth a trace.
	conv.UpdatedAt = now
	if err := s.repo.Update(ctx, conv); err != nil {
		log := logger.GetLogger()
		log.Warn().
			Err(err).
			Str("conversation_id", conv.PublicID).
			Msg("failed to bump conversation timestamp")
	}

	return messages, nil
}

// GetMessages retrieves a conversation's messages with pagination.
func (s *ConversationService) GetMessages(ctx context.Context, conv *Conversation, pagination *query.Pagination) ([]Message, error) {
	messagePtrs, err := s.repo.GetMessages(ctx, conv.ID, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to get messages")
	}

	messages := make([]Message, len(messagePtrs))
	for i, ptr := range messagePtrs {
		if ptr != nil {
			messages[i] = *ptr
		}
	}
	return messages, nil
}

// GetMessageByPublicID retrieves a single message from a conversation.
func (s *ConversationService) GetMessageByPublicID(ctx context.Context, conv *Conversation, publicID string) (*Message, error) {
	message, err := s.repo.GetMessageByPublicID(ctx, conv.ID, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}
	return message, nil
}

// LoadHistory fills conv.Messages with the full ordered history.
func (s *ConversationService) LoadHistory(ctx context.Context, conv *Conversation) error {
	messages, err := s.GetMessages(ctx, conv, nil)
	if err != nil {
		return err
	}
	conv.Messages = messages
	return nil
}

// ===============================================
// Retention
// ===============================================

// PurgeStaleAnonymous removes anonymous conversations idle longer than
// maxIdle. Owned conversations are never touched.
func (s *ConversationService) PurgeStaleAnonymous(ctx context.Context, maxIdle time.Duration) (int64, error) {
	if maxIdle <= 0 {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"retention window must be positive", nil, "c4d5e6f7-a8b9-40c1-d2e3-f4a5b6c7d8e9")
	}

	cutoff := time.Now().Add(-maxIdle)
	deleted, err := s.repo.DeleteStaleAnonymous(ctx, cutoff)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to purge stale conversations")
	}
	return deleted, nil
}
