package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medifind-server/intake-api/internal/domain/analysis"
	domainconv "medifind-server/intake-api/internal/domain/conversation"
	domaindoctor "medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/domain/turn"
	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/chathandler"
	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/conversationhandler"
	conversationresponses "medifind-server/intake-api/internal/interfaces/httpserver/responses/conversation"
)

type memoryRepo struct {
	nextID    uint
	nextMsgID uint
	convs     map[uint]*domainconv.Conversation
	messages  map[uint][]*domainconv.Message
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		convs:    make(map[uint]*domainconv.Conversation),
		messages: make(map[uint][]*domainconv.Message),
	}
}

func (r *memoryRepo) Create(_ context.Context, conv *domainconv.Conversation) error {
	r.nextID++
	conv.ID = r.nextID
	r.convs[conv.ID] = conv
	return nil
}

func (r *memoryRepo) FindByFilter(_ context.Context, filter domainconv.ConversationFilter, _ *query.Pagination) ([]*domainconv.Conversation, error) {
	var out []*domainconv.Conversation
	for _, conv := range r.convs {
		if filter.UserID != nil && (conv.UserID == nil || *conv.UserID != *filter.UserID) {
			continue
		}
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) Count(_ context.Context, _ domainconv.ConversationFilter) (int64, error) {
	return int64(len(r.convs)), nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*domainconv.Conversation, error) {
	return r.convs[id], nil
}

func (r *memoryRepo) FindByPublicID(_ context.Context, publicID string) (*domainconv.Conversation, error) {
	for _, conv := range r.convs {
		if conv.PublicID == publicID {
			return conv, nil
		}
	}
	return nil, assert.AnError
}

func (r *memoryRepo) Update(_ context.Context, conv *domainconv.Conversation) error {
	r.convs[conv.ID] = conv
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.convs, id)
	return nil
}

func (r *memoryRepo) AddMessage(_ context.Context, conversationID uint, message *domainconv.Message) error {
	r.nextMsgID++
	message.ID = r.nextMsgID
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *memoryRepo) BulkAddMessages(ctx context.Context, conversationID uint, messages []*domainconv.Message) error {
	for _, message := range messages {
		if err := r.AddMessage(ctx, conversationID, message); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryRepo) GetMessages(_ context.Context, conversationID uint, _ *query.Pagination) ([]*domainconv.Message, error) {
	msgs := append([]*domainconv.Message(nil), r.messages[conversationID]...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SequenceNumber < msgs[j].SequenceNumber })
	return msgs, nil
}

func (r *memoryRepo) GetMessageByPublicID(_ context.Context, conversationID uint, publicID string) (*domainconv.Message, error) {
	for _, msg := range r.messages[conversationID] {
		if msg.PublicID == publicID {
			return msg, nil
		}
	}
	return nil, assert.AnError
}

func (r *memoryRepo) CountMessages(_ context.Context, conversationID uint) (int, error) {
	return len(r.messages[conversationID]), nil
}

func (r *memoryRepo) DeleteStaleAnonymous(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type emptyDoctorRepo struct{}

func (emptyDoctorRepo) Create(_ context.Context, _ *domaindoctor.Doctor) error { return nil }
func (emptyDoctorRepo) FindByFilter(_ context.Context, _ domaindoctor.DoctorFilter, _ *query.Pagination) ([]*domaindoctor.Doctor, error) {
	return nil, nil
}
func (emptyDoctorRepo) FindByPublicID(_ context.Context, _ string) (*domaindoctor.Doctor, error) {
	return nil, assert.AnError
}

type scriptedAnalyzer struct {
	result *analysis.Result
	err    error
}

func (s *scriptedAnalyzer) Analyze(_ context.Context, _ analysis.Request) (*analysis.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(analyzer analysis.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	convService := domainconv.NewConversationService(newMemoryRepo())
	docService := domaindoctor.NewDoctorService(emptyDoctorRepo{})
	turnService := turn.NewTurnService(convService, docService, intake.NewTurnPolicy(analyzer))

	route := NewConversationRoute(
		conversationhandler.NewConversationHandler(convService),
		chathandler.NewChatHandler(turnService, analyzer),
	)

	engine := gin.New()
	route.RegisterRouter(engine.Group("/v1"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(recorder, req)
	return recorder
}

func createConversation(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	recorder := postJSON(t, engine, "/v1/conversations", map[string]any{})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp conversationresponses.ConversationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp.ID
}

func TestCreateConversationRoute(t *testing.T) {
	engine := newTestRouter(&scriptedAnalyzer{})

	recorder := postJSON(t, engine, "/v1/conversations", map[string]any{
		"metadata": map[string]string{"channel": "web"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp conversationresponses.ConversationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.ID, "conv_")
	assert.Equal(t, intake.StageSymptomIntake, resp.Stage)
	assert.Equal(t, "web", resp.Metadata["channel"])
}

func TestProcessTurnRoute_IntakeTurn(t *testing.T) {
	engine := newTestRouter(&scriptedAnalyzer{result: &analysis.Result{
		PossibleDiseases: []string{"Migraine", "Tension headache"},
		Severity:         "moderate",
	}})
	convID := createConversation(t, engine)

	recorder := postJSON(t, engine, "/v1/conversations/"+convID+"/messages", map[string]any{
		"text":      "I have a headache",
		"user_info": map[string]any{"age": 30, "gender": "female"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp conversationresponses.TurnResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, intake.StageSymptomFollowup, resp.Stage)
	assert.Equal(t, intake.ActionAskFollowup, resp.Action)
	assert.Contains(t, resp.Reply, "Migraine, Tension headache")
	assert.Contains(t, resp.Reply, "fever or vomiting")
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, "moderate", resp.Analysis.Severity)

	// History now holds both turns, oldest first.
	recorder = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+convID+"/messages", nil)
	engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var history conversationresponses.MessageListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &history))
	require.Len(t, history.Data, 2)
	assert.Equal(t, domainconv.MessageRoleUser, history.Data[0].Role)
	assert.Equal(t, domainconv.MessageRoleAssistant, history.Data[1].Role)
}

func TestProcessTurnRoute_EmptyTextIsBadRequest(t *testing.T) {
	engine := newTestRouter(&scriptedAnalyzer{})
	convID := createConversation(t, engine)

	recorder := postJSON(t, engine, "/v1/conversations/"+convID+"/messages", map[string]any{
		"text": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestProcessTurnRoute_AnalyzerOutageIsBadGateway(t *testing.T) {
	engine := newTestRouter(&scriptedAnalyzer{err: &analysis.UnavailableError{Last: assert.AnError}})
	convID := createConversation(t, engine)

	recorder := postJSON(t, engine, "/v1/conversations/"+convID+"/messages", map[string]any{
		"text": "I feel sick",
	})
	assert.Equal(t, http.StatusBadGateway, recorder.Code)

	// The failed turn left no history behind.
	historyRecorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/"+convID+"/messages", nil)
	engine.ServeHTTP(historyRecorder, req)
	require.Equal(t, http.StatusOK, historyRecorder.Code)

	var history conversationresponses.MessageListResponse
	require.NoError(t, json.Unmarshal(historyRecorder.Body.Bytes(), &history))
	assert.Empty(t, history.Data)
}

func TestDeleteConversationRoute(t *testing.T) {
	engine := newTestRouter(&scriptedAnalyzer{})
	convID := createConversation(t, engine)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/conversations/"+convID, nil)
	engine.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp conversationresponses.ConversationDeletedResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Deleted)
	assert.Equal(t, convID, resp.ID)
}
