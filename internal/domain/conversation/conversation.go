package conversation

import (
	"context"
	"time"

	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/query"
)

// ===============================================
// Conversation Types
// ===============================================

type ConversationStatus string

const (
	ConversationStatusActive  ConversationStatus = "active"
	ConversationStatusDeleted ConversationStatus = "deleted"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// ===============================================
// Conversation Structure
// ===============================================

type Conversation struct {
	ID       uint    `json:"-"`
	PublicID string  `json:"id"` // string ID like "conv_abc123"
	Title    *string `json:"title,omitempty"`

	// UserID is nil for anonymous sessions. Anonymous conversations are
	// subject to retention sweeps; owned conversations are kept.
	UserID *uint `json:"-"`

	Stage    intake.Stage       `json:"stage"`
	Status   ConversationStatus `json:"status"`
	Messages []Message          `json:"messages,omitempty"`
	Metadata map[string]string  `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one utterance in a conversation. Assistant messages produced by
// an analysis-backed turn carry the structured result snapshot.
type Message struct {
	ID             uint             `json:"-"`
	PublicID       string           `json:"id"` // string ID like "msg_abc123"
	ConversationID uint             `json:"-"`
	Role           MessageRole      `json:"role"`
	Content        string           `json:"content"`
	Analysis       *analysis.Result `json:"analysis,omitempty"`
	SequenceNumber int              `json:"-"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ===============================================
// Conversation Repository
// ===============================================

type ConversationFilter struct {
	ID       *uint
	PublicID *string
	UserID   *uint
	Stage    *intake.Stage
	Status   *ConversationStatus
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByFilter(ctx context.Context, filter ConversationFilter, pagination *query.Pagination) ([]*Conversation, error)
	Count(ctx context.Context, filter ConversationFilter) (int64, error)
	FindByID(ctx context.Context, id uint) (*Conversation, error)
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	Update(ctx context.Context, conversation *Conversation) error
	Delete(ctx context.Context, id uint) error

	// Message operations
	AddMessage(ctx context.Context, conversationID uint, message *Message) error
	BulkAddMessages(ctx context.Context, conversationID uint, messages []*Message) error
	GetMessages(ctx context.Context, conversationID uint, pagination *query.Pagination) ([]*Message, error)
	GetMessageByPublicID(ctx context.Context, conversationID uint, publicID string) (*Message, error)
	CountMessages(ctx context.Context, conversationID uint) (int, error)

	// DeleteStaleAnonymous removes anonymous conversations not updated since
	// cutoff, returning the number removed.
	DeleteStaleAnonymous(ctx context.Context, cutoff time.Time) (int64, error)
}

// ===============================================
// Conversation Factory Functions
// ===============================================

// NewConversation creates an active conversation in the default intake stage.
func NewConversation(publicID string, userID *uint, title *string, metadata map[string]string) *Conversation {
	now := time.Now()

	if metadata == nil {
		metadata = make(map[string]string)
	}

	return &Conversation{
		PublicID:  publicID,
		Title:     title,
		UserID:    userID,
		Stage:     intake.DefaultStage,
		Status:    ConversationStatusActive,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EffectiveStage returns the stored stage, defaulting when it was never set.
func (c *Conversation) EffectiveStage() intake.Stage {
	if c.Stage == "" {
		return intake.DefaultStage
	}
	return c.Stage
}

// IsAnonymous reports whether the conversation has no owner.
func (c *Conversation) IsAnonymous() bool {
	return c.UserID == nil
}

// ContextMessages converts the loaded message history into the shape the
// analysis capability accepts, oldest first.
func (c *Conversation) ContextMessages() []analysis.ContextMessage {
	if len(c.Messages) == 0 {
		return nil
	}
	out := make([]analysis.ContextMessage, 0, len(c.Messages))
	for _, msg := range c.Messages {
		out = append(out, analysis.ContextMessage{Role: string(msg.Role), Text: msg.Content})
	}
	return out
}
