package turn

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/query"
)

type memoryConversationRepo struct {
	nextID    uint
	nextMsgID uint
	convs     map[uint]*conversation.Conversation
	messages  map[uint][]*conversation.Message
}

func newMemoryConversationRepo() *memoryConversationRepo {
	return &memoryConversationRepo{
		convs:    make(map[uint]*conversation.Conversation),
		messages: make(map[uint][]*conversation.Message),
	}
}

func (r *memoryConversationRepo) Create(_ context.Context, conv *conversation.Conversation) error {
	r.nextID++
	conv.ID = r.nextID
	r.convs[conv.ID] = conv
	return nil
}

func (r *memoryConversationRepo) FindByFilter(_ context.Context, _ conversation.ConversationFilter, _ *query.Pagination) ([]*conversation.Conversation, error) {
	return nil, nil
}

func (r *memoryConversationRepo) Count(_ context.Context, _ conversation.ConversationFilter) (int64, error) {
	return int64(len(r.convs)), nil
}

func (r *memoryConversationRepo) FindByID(_ context.Context, id uint) (*conversation.Conversation, error) {
	return r.convs[id], nil
}

func (r *memoryConversationRepo) FindByPublicID(_ context.Context, publicID string) (*conversation.Conversation, error) {
	for _, conv := range r.convs {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, assert.AnError
}

func (r *memoryConversationRepo) Update(_ context.Context, conv *conversation.Conversation) error {
	r.convs[conv.ID] = conv
	return nil
}

func (r *memoryConversationRepo) Delete(_ context.Context, id uint) error {
	delete(r.convs, id)
	return nil
}

func (r *memoryConversationRepo) AddMessage(_ context.Context, conversationID uint, message *conversation.Message) error {
	r.nextMsgID++
	message.ID = r.nextMsgID
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *memoryConversationRepo) BulkAddMessages(ctx context.Context, conversationID uint, messages []*conversation.Message) error {
	for _, message := range messages {
		if err := r.AddMessage(ctx, conversationID, message); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryConversationRepo) GetMessages(_ context.Context, conversationID uint, _ *query.Pagination) ([]*conversation.Message, error) {
	msgs := append([]*conversation.Message(nil), r.messages[conversationID]...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SequenceNumber < msgs[j].SequenceNumber })
	return msgs, nil
}

func (r *memoryConversationRepo) GetMessageByPublicID(_ context.Context, conversationID uint, publicID string) (*conversation.Message, error) {
	for _, msg := range r.messages[conversationID] {
		if msg.PublicID == publicID {
			return msg, nil
		}
	}
	return nil, assert.AnError
}

func (r *memoryConversationRepo) CountMessages(_ context.Context, conversationID uint) (int, error) {
	return len(r.messages[conversationID]), nil
}

func (r *memoryConversationRepo) DeleteStaleAnonymous(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type memoryDoctorRepo struct {
	doctors []*doctor.Doctor
}

func (r *memoryDoctorRepo) Create(_ context.Context, doc *doctor.Doctor) error {
	doc.ID = uint(len(r.doctors) + 1)
	r.doctors = append(r.doctors, doc)
	return nil
}

func (r *memoryDoctorRepo) FindByFilter(_ context.Context, filter doctor.DoctorFilter, pagination *query.Pagination) ([]*doctor.Doctor, error) {
	var out []*doctor.Doctor
	for _, doc := range r.doctors {
		if filter.Specialty != nil && !strings.EqualFold(doc.Specialty, *filter.Specialty) {
			continue
		}
		if filter.Near != nil && !doc.InBox(*filter.Near) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExperienceYears > out[j].ExperienceYears })
	if pagination != nil && pagination.Limit != nil && len(out) > *pagination.Limit {
		out = out[:*pagination.Limit]
	}
	return out, nil
}

func (r *memoryDoctorRepo) FindByPublicID(_ context.Context, publicID string) (*doctor.Doctor, error) {
	for _, doc := range r.doctors {
		if doc.PublicID == publicID {
			return doc, nil
		}
	}
	return nil, assert.AnError
}

type scriptedAnalyzer struct {
	result *analysis.Result
	err    error
	calls  int
}

func (s *scriptedAnalyzer) Analyze(_ context.Context, _ analysis.Request) (*analysis.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTurnFixture(t *testing.T, analyzer analysis.Provider) (*TurnService, *conversation.ConversationService, *memoryConversationRepo) {
	t.Helper()
	convRepo := newMemoryConversationRepo()
	convService := conversation.NewConversationService(convRepo)
	docService := doctor.NewDoctorService(&memoryDoctorRepo{})
	service := NewTurnService(convService, docService, intake.NewTurnPolicy(analyzer))
	return service, convService, convRepo
}

func TestProcessTurn_IntakePersistsMessagesAndStage(t *testing.T) {
	ctx := context.Background()
	analyzer := &scriptedAnalyzer{result: &analysis.Result{
		PossibleDiseases: []string{"Migraine", "Tension headache"},
		Severity:         "moderate",
	}}
	service, convService, _ := newTurnFixture(t, analyzer)

	conv, err := convService.CreateConversation(ctx, conversation.CreateConversationInput{})
	require.NoError(t, err)

	outcome, err := service.ProcessTurn(ctx, Input{
		ConversationID: conv.PublicID,
		Text:           "I have a headache",
	})
	require.NoError(t, err)

	assert.Equal(t, intake.StageSymptomFollowup, outcome.Conversation.Stage)
	assert.Equal(t, conversation.MessageRoleUser, outcome.UserMessage.Role)
	assert.Equal(t, "I have a headache", outcome.UserMessage.Content)
	assert.Equal(t, conversation.MessageRoleAssistant, outcome.AssistantMessage.Role)
	assert.Contains(t, outcome.AssistantMessage.Content, "Migraine, Tension headache")
	require.NotNil(t, outcome.AssistantMessage.Analysis)
	assert.Equal(t, "moderate", outcome.AssistantMessage.Analysis.Severity)

	// Both messages landed in the store in order.
	stored, err := convService.GetMessages(ctx, outcome.Conversation, nil)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, conversation.MessageRoleUser, stored[0].Role)
	assert.Equal(t, conversation.MessageRoleAssistant, stored[1].Role)
}

func TestProcessTurn_AnalyzerFailureLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	analyzer := &scriptedAnalyzer{err: &analysis.UnavailableError{Last: assert.AnError}}
	service, convService, repo := newTurnFixture(t, analyzer)

	conv, err := convService.CreateConversation(ctx, conversation.CreateConversationInput{})
	require.NoError(t, err)

	_, err = service.ProcessTurn(ctx, Input{ConversationID: conv.PublicID, Text: "I feel sick"})

	var unavailable *analysis.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, intake.DefaultStage, repo.convs[conv.ID].Stage)
	assert.Empty(t, repo.messages[conv.ID])
}

func TestProcessTurn_AffirmativeRunsDoctorSearch(t *testing.T) {
	ctx := context.Background()
	analyzer := &scriptedAnalyzer{result: &analysis.Result{Severity: "mild"}}
	service, convService, _ := newTurnFixture(t, analyzer)

	docService := doctor.NewDoctorService(&memoryDoctorRepo{})
	_, err := docService.RegisterDoctor(ctx, doctor.RegisterDoctorInput{
		Name: "Dr. Rao", Specialty: "Neurologist", ExperienceYears: 15,
	})
	require.NoError(t, err)
	service.doctors = docService

	conv, err := convService.CreateConversation(ctx, conversation.CreateConversationInput{})
	require.NoError(t, err)
	require.NoError(t, convService.SetStage(ctx, conv, intake.StageDoctorRecommend))

	// Seed history with an analysis naming the specialty to search.
	_, err = convService.AppendMessages(ctx, conv, []conversation.AppendMessageInput{
		{Role: conversation.MessageRoleAssistant, Content: "Severity: mild.", Analysis: &analysis.Result{
			DoctorRecommendation: "Neurologist",
		}},
	})
	require.NoError(t, err)

	outcome, err := service.ProcessTurn(ctx, Input{ConversationID: conv.PublicID, Text: "yes please"})
	require.NoError(t, err)

	assert.Equal(t, intake.ActionFindDoctors, outcome.Result.Action)
	require.Len(t, outcome.Doctors, 1)
	assert.Equal(t, "Dr. Rao", outcome.Doctors[0].Name)
	assert.Equal(t, intake.StageDoctorRecommend, outcome.Conversation.Stage)
	assert.Zero(t, analyzer.calls)
}

func TestProcessTurn_DeclineEndsWithoutSearch(t *testing.T) {
	ctx := context.Background()
	service, convService, _ := newTurnFixture(t, &scriptedAnalyzer{})

	conv, err := convService.CreateConversation(ctx, conversation.CreateConversationInput{})
	require.NoError(t, err)
	require.NoError(t, convService.SetStage(ctx, conv, intake.StageDoctorRecommend))

	outcome, err := service.ProcessTurn(ctx, Input{ConversationID: conv.PublicID, Text: "no thanks"})
	require.NoError(t, err)

	assert.Equal(t, intake.StageEnd, outcome.Conversation.Stage)
	assert.Empty(t, outcome.Doctors)
}

func TestRecommendedSpecialty(t *testing.T) {
	messages := []conversation.Message{
		{Analysis: &analysis.Result{DoctorRecommendation: "Cardiologist"}},
		{Analysis: nil},
		{Analysis: &analysis.Result{DoctorRecommendation: "Neurologist"}},
	}

	assert.Equal(t, "Neurologist", recommendedSpecialty(messages))
	assert.Equal(t, DefaultSpecialty, recommendedSpecialty(nil))
}
