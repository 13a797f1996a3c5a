package dbschema

import (
	"database/sql/driver"
	"encoding/json"

	"gorm.io/datatypes"

	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Conversation represents the database schema for conversations
type Conversation struct {
	BaseModel
	PublicID string                          `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title    *string                         `gorm:"type:varchar(256)"`
	UserID   *uint                           `gorm:"index:idx_conversation_user_status"`
	Stage    string                          `gorm:"type:varchar(30);not null;default:'symptom_intake'"`
	Status   conversation.ConversationStatus `gorm:"type:varchar(20);index:idx_conversation_user_status;not null;default:'active'"`
	Metadata JSONMap                         `gorm:"type:jsonb"`

	Messages []Message `gorm:"foreignKey:ConversationID"`
}

// Message represents the database schema for conversation messages
type Message struct {
	BaseModel
	ConversationID uint           `gorm:"index:idx_message_conversation_sequence;not null"`
	Conversation   Conversation   `gorm:"foreignKey:ConversationID"`
	PublicID       string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	Role           string         `gorm:"type:varchar(20);not null"`
	Content        string         `gorm:"type:text;not null"`
	SequenceNumber int            `gorm:"index:idx_message_conversation_sequence;not null"`
	Analysis       datatypes.JSON `gorm:"type:jsonb"`
}

// JSONMap is a custom type for map[string]string stored as JSON
type JSONMap map[string]string

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// NewSchemaConversation creates a database schema from domain conversation
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID: c.PublicID,
		Title:    c.Title,
		UserID:   c.UserID,
		Stage:    string(c.EffectiveStage()),
		Status:   c.Status,
		Metadata: JSONMap(c.Metadata),
	}
}

// EtoD converts database schema to domain conversation (Entity to Domain)
func (c *Conversation) EtoD() *conversation.Conversation {
	conv := &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		Title:     c.Title,
		UserID:    c.UserID,
		Stage:     intake.Stage(c.Stage),
		Status:    c.Status,
		Metadata:  map[string]string(c.Metadata),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	if len(c.Messages) > 0 {
		conv.Messages = make([]conversation.Message, 0, len(c.Messages))
		for i := range c.Messages {
			conv.Messages = append(conv.Messages, *c.Messages[i].EtoD())
		}
	}

	return conv
}

// NewSchemaMessage creates a database schema from domain message
func NewSchemaMessage(m *conversation.Message) *Message {
	schemaMsg := &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		ConversationID: m.ConversationID,
		PublicID:       m.PublicID,
		Role:           string(m.Role),
		Content:        m.Content,
		SequenceNumber: m.SequenceNumber,
	}

	if m.Analysis != nil {
		if data, err := json.Marshal(m.Analysis); err == nil {
			schemaMsg.Analysis = datatypes.JSON(data)
		}
	}

	return schemaMsg
}

// EtoD converts database schema to domain message (Entity to Domain)
func (m *Message) EtoD() *conversation.Message {
	msg := &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           conversation.MessageRole(m.Role),
		Content:        m.Content,
		SequenceNumber: m.SequenceNumber,
		CreatedAt:      m.CreatedAt,
	}

	if len(m.Analysis) > 0 {
		var result analysis.Result
		if err := json.Unmarshal(m.Analysis, &result); err == nil {
			msg.Analysis = &result
		}
	}

	return msg
}
