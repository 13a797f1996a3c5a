package turn

import (
	"context"
	"strings"

	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/intake"
)

// DefaultSpecialty is searched when no prior analysis named one.
const DefaultSpecialty = "general physician"

// Input is one user turn against a conversation.
type Input struct {
	ConversationID string
	UserID         *uint
	Text           string
	User           intake.UserInfo
	Near           *doctor.Coordinates
}

// Outcome is the fully processed turn: the persisted messages, the stage the
// conversation moved to, and doctor matches when the turn asked for them.
type Outcome struct {
	Conversation     *conversation.Conversation
	UserMessage      *conversation.Message
	AssistantMessage *conversation.Message
	Result           *intake.TurnResult
	Doctors          []*doctor.Doctor
}

// TurnService runs one turn end to end: load the conversation, apply the
// turn policy, persist both messages and the resulting stage. TurnPolicy
// governs the persisted stage; AdvancePolicy exists as an alternative gate
// for callers that advance without producing a reply.
type TurnService struct {
	conversations *conversation.ConversationService
	doctors       *doctor.DoctorService
	policy        *intake.TurnPolicy
}

func NewTurnService(
	conversations *conversation.ConversationService,
	doctors *doctor.DoctorService,
	policy *intake.TurnPolicy,
) *TurnService {
	return &TurnService{
		conversations: conversations,
		doctors:       doctors,
		policy:        policy,
	}
}

// ProcessTurn handles one user message. On policy error (empty input,
// analyzer unavailable) nothing is persisted and the stage stays put.
func (s *TurnService) ProcessTurn(ctx context.Context, input Input) (*Outcome, error) {
	conv, err := s.conversations.GetConversationForUser(ctx, input.ConversationID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.conversations.LoadHistory(ctx, conv); err != nil {
		return nil, err
	}

	result, err := s.policy.HandleTurn(ctx, conv.EffectiveStage(), input.Text, input.User, conv.ContextMessages())
	if err != nil {
		return nil, err
	}

	messages, err := s.conversations.AppendMessages(ctx, conv, []conversation.AppendMessageInput{
		{Role: conversation.MessageRoleUser, Content: input.Text},
		{Role: conversation.MessageRoleAssistant, Content: result.Reply, Analysis: result.Analysis},
	})
	if err != nil {
		return nil, err
	}

	if err := s.conversations.SetStage(ctx, conv, result.NextStage); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Conversation:     conv,
		UserMessage:      &messages[0],
		AssistantMessage: &messages[1],
		Result:           result,
	}

	if result.Action == intake.ActionFindDoctors {
		specialty := recommendedSpecialty(conv.Messages)
		doctors, err := s.doctors.FindDoctors(ctx, specialty, input.Near)
		if err != nil {
			return nil, err
		}
		outcome.Doctors = doctors
	}

	return outcome, nil
}

// recommendedSpecialty walks the history newest first for the last analysis
// that named a doctor, falling back to the general-practice default.
func recommendedSpecialty(messages []conversation.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Analysis == nil {
			continue
		}
		if rec := strings.TrimSpace(messages[i].Analysis.DoctorRecommendation); rec != "" {
			return rec
		}
	}
	return DefaultSpecialty
}
