package conversationresponses

import (
	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/turn"
	doctorresponses "medifind-server/intake-api/internal/interfaces/httpserver/responses/doctor"
)

// ConversationResponse represents a conversation on the wire
type ConversationResponse struct {
	ID        string            `json:"id"`
	Object    string            `json:"object"`
	Title     *string           `json:"title,omitempty"`
	Stage     intake.Stage      `json:"stage"`
	CreatedAt int64             `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ConversationListResponse represents a paginated list of conversations
type ConversationListResponse struct {
	Object  string                 `json:"object"`
	Data    []ConversationResponse `json:"data"`
	FirstID string                 `json:"first_id"`
	LastID  string                 `json:"last_id"`
	HasMore bool                   `json:"has_more"`
	Total   int64                  `json:"total"`
}

// ConversationDeletedResponse represents the delete confirmation response
type ConversationDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// MessageResponse represents one stored message
type MessageResponse struct {
	ID        string                   `json:"id"`
	Object    string                   `json:"object"`
	Role      conversation.MessageRole `json:"role"`
	Content   string                   `json:"content"`
	Analysis  *analysis.Result         `json:"analysis,omitempty"`
	CreatedAt int64                    `json:"created_at"`
}

// MessageListResponse represents the chronological message history
type MessageListResponse struct {
	Object  string            `json:"object"`
	Data    []MessageResponse `json:"data"`
	FirstID string            `json:"first_id"`
	LastID  string            `json:"last_id"`
	HasMore bool              `json:"has_more"`
}

// TurnResponse is the outcome of one processed user turn.
type TurnResponse struct {
	Object           string                           `json:"object"`
	ConversationID   string                           `json:"conversation_id"`
	Stage            intake.Stage                     `json:"stage"`
	Action           intake.Action                    `json:"action"`
	Reply            string                           `json:"reply"`
	UserMessage      MessageResponse                  `json:"user_message"`
	AssistantMessage MessageResponse                  `json:"assistant_message"`
	Analysis         *analysis.Result                 `json:"analysis,omitempty"`
	Doctors          []doctorresponses.DoctorResponse `json:"doctors,omitempty"`
}

// NewConversationResponse creates a response from a domain conversation
func NewConversationResponse(conv *conversation.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:        conv.PublicID,
		Object:    "conversation",
		Title:     conv.Title,
		Stage:     conv.EffectiveStage(),
		CreatedAt: conv.CreatedAt.Unix(),
		Metadata:  conv.Metadata,
	}
}

// NewConversationListResponse creates a conversation list response
func NewConversationListResponse(conversations []*conversation.Conversation, hasMore bool, total int64) *ConversationListResponse {
	data := make([]ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		if conv == nil {
			continue
		}
		data = append(data, *NewConversationResponse(conv))
	}

	firstID := ""
	lastID := ""
	if len(data) > 0 {
		firstID = data[0].ID
		lastID = data[len(data)-1].ID
	}

	return &ConversationListResponse{
		Object:  "list",
		Data:    data,
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
		Total:   total,
	}
}

// NewConversationDeletedResponse creates a delete response
func NewConversationDeletedResponse(publicID string) *ConversationDeletedResponse {
	return &ConversationDeletedResponse{
		ID:      publicID,
		Object:  "conversation.deleted",
		Deleted: true,
	}
}

// NewMessageResponse creates a response from a domain message
func NewMessageResponse(msg *conversation.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.PublicID,
		Object:    "message",
		Role:      msg.Role,
		Content:   msg.Content,
		Analysis:  msg.Analysis,
		CreatedAt: msg.CreatedAt.Unix(),
	}
}

// NewMessageListResponse creates a message list response
func NewMessageListResponse(messages []conversation.Message, hasMore bool) *MessageListResponse {
	data := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		data = append(data, NewMessageResponse(&messages[i]))
	}

	firstID := ""
	lastID := ""
	if len(data) > 0 {
		firstID = data[0].ID
		lastID = data[len(data)-1].ID
	}

	return &MessageListResponse{
		Object:  "list",
		Data:    data,
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
	}
}

// NewTurnResponse creates a response from a processed turn
func NewTurnResponse(outcome *turn.Outcome) *TurnResponse {
	return &TurnResponse{
		Object:           "conversation.turn",
		ConversationID:   outcome.Conversation.PublicID,
		Stage:            outcome.Conversation.EffectiveStage(),
		Action:           outcome.Result.Action,
		Reply:            outcome.Result.Reply,
		UserMessage:      NewMessageResponse(outcome.UserMessage),
		AssistantMessage: NewMessageResponse(outcome.AssistantMessage),
		Analysis:         outcome.Result.Analysis,
		Doctors:          doctorresponses.NewDoctorResponses(outcome.Doctors),
	}
}
