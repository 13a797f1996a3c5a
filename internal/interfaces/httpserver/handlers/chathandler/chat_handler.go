package chathandler

import (
	"context"
	"errors"

	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/turn"
	"medifind-server/intake-api/internal/infrastructure/metrics"
	analyzerequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/analyze"
	conversationrequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/conversation"
	conversationresponses "medifind-server/intake-api/internal/interfaces/httpserver/responses/conversation"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// ChatHandler handles intake turns and the direct analyzer passthrough
type ChatHandler struct {
	turnService *turn.TurnService
	analyzer    analysis.Provider
}

// NewChatHandler creates a new chat handler
func NewChatHandler(turnService *turn.TurnService, analyzer analysis.Provider) *ChatHandler {
	return &ChatHandler{
		turnService: turnService,
		analyzer:    analyzer,
	}
}

// ProcessTurn runs one user turn against a conversation.
func (h *ChatHandler) ProcessTurn(
	ctx context.Context,
	conversationID string,
	req conversationrequests.TurnRequest,
) (*conversationresponses.TurnResponse, error) {
	input := turn.Input{
		ConversationID: conversationID,
		UserID:         req.UserID,
		Text:           req.Text,
	}

	if req.UserInfo != nil {
		input.User = intake.UserInfo{
			Age:      req.UserInfo.Age,
			Gender:   req.UserInfo.Gender,
			Height:   req.UserInfo.HeightCm,
			Weight:   req.UserInfo.WeightKg,
			Location: req.UserInfo.Location,
		}
	}

	if req.Latitude != nil && req.Longitude != nil {
		input.Near = &doctor.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	outcome, err := h.turnService.ProcessTurn(ctx, input)
	if err != nil {
		return nil, h.mapTurnError(ctx, err)
	}

	metrics.TurnsTotal.WithLabelValues(string(outcome.Conversation.EffectiveStage()), string(outcome.Result.Action)).Inc()
	return conversationresponses.NewTurnResponse(outcome), nil
}

// Analyze is the direct analyzer passthrough.
func (h *ChatHandler) Analyze(
	ctx context.Context,
	req analyzerequests.AnalyzeRequest,
) (*analysis.Result, error) {
	result, err := h.analyzer.Analyze(ctx, req.ToDomain())
	if err != nil {
		return nil, h.mapTurnError(ctx, err)
	}
	return result, nil
}

// mapTurnError turns an analyzer outage into a bad-gateway class error;
// everything else keeps its own classification.
func (h *ChatHandler) mapTurnError(ctx context.Context, err error) error {
	var unavailable *analysis.UnavailableError
	if errors.As(err, &unavailable) {
		return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeExternal,
			"symptom analysis is temporarily unavailable", err, "3c6f1d82-9e4a-4b7c-8d0f-2a5b6c7d8e9f")
	}
	return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to process turn")
}
