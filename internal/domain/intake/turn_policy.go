package intake

import (
	"context"
	"fmt"
	"strings"

	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/utils/functional"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// UserInfo carries the demographics a turn may hand to the analyzer.
type UserInfo struct {
	Age      *int
	Gender   string
	Height   *float64
	Weight   *float64
	Location string
}

// TurnResult is the outcome of one turn. It is transient: the caller decides
// whether to persist the reply as a message and whether NextStage governs
// the stored stage.
type TurnResult struct {
	Reply     string
	Action    Action
	NextStage Stage
	Analysis  *analysis.Result
}

// Fixed reply fragments. The follow-up question and the disease list format
// are part of the turn contract and asserted by tests.
const (
	replyProfileUpdated = "Profile updated. Let's continue - please describe your symptoms."
	replyFollowupFormat = "Based on that, possible conditions: %s. Do you have fever or vomiting?"
	replySeverityFormat = "Thanks. Severity: %s. Would you like doctor suggestions? (yes/no)"
	replySearching      = "Searching doctors near you..."
	replyDeclined       = "Okay, I won't suggest doctors. Anything else?"
	replyFallback       = "I am sorry, I didn't get that. Can you rephrase?"
)

// affirmativeTokens is matched by substring containment, deliberately
// permissive: "ok sure" matches, and so does "not sure" (the embedded
// "sure"). Negation handling is a known gap kept for parity with the flow
// this replaces.
var affirmativeTokens = []string{"yes", "sure", "ok", "please"}

// TurnPolicy produces the reply, action and next stage for one user turn.
// It is reactive: no state beyond its arguments, no persistence. The
// analyzer is only consulted in the two symptom stages.
type TurnPolicy struct {
	analyzer analysis.Provider
}

func NewTurnPolicy(analyzer analysis.Provider) *TurnPolicy {
	return &TurnPolicy{analyzer: analyzer}
}

var _ StagePolicy = (*TurnPolicy)(nil)

// HandleTurn runs the stage-specific logic for a single user message.
//
// Empty or whitespace-only text is a validation error: the caller must not
// advance the stage or persist a reply. An analyzer failure propagates
// unchanged so the caller can distinguish it from bad input.
func (p *TurnPolicy) HandleTurn(ctx context.Context, stage Stage, messageText string, user UserInfo, prior []analysis.ContextMessage) (*TurnResult, error) {
	text := normalize(messageText)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message text is required", nil, "7de40c2b-11a5-4c57-9b3d-6f0d8a2f4e91")
	}

	switch stage {
	case StageProfileUpdate:
		return &TurnResult{
			Reply:     replyProfileUpdated,
			Action:    ActionUpdateProfile,
			NextStage: StageSymptomIntake,
		}, nil

	case StageSymptomIntake:
		return p.intakeTurn(ctx, messageText, user)

	case StageSymptomFollowup:
		return p.followupTurn(ctx, messageText, user, prior)

	case StageDoctorRecommend:
		if containsAffirmative(text) {
			return &TurnResult{
				Reply:     replySearching,
				Action:    ActionFindDoctors,
				NextStage: StageDoctorRecommend,
			}, nil
		}
		return &TurnResult{
			Reply:     replyDeclined,
			Action:    ActionNone,
			NextStage: StageEnd,
		}, nil
	}

	// Unknown stages (including end) echo the stage back unchanged.
	return &TurnResult{
		Reply:     replyFallback,
		Action:    ActionNone,
		NextStage: stage,
	}, nil
}

// NextStage implements StagePolicy without running the reply side. The
// analyzer is not consulted; the two symptom stages advance unconditionally
// here, exactly as HandleTurn would move them.
func (p *TurnPolicy) NextStage(stage Stage, message string) Stage {
	text := normalize(message)
	switch stage {
	case StageProfileUpdate:
		return StageSymptomIntake
	case StageSymptomIntake:
		return StageSymptomFollowup
	case StageSymptomFollowup:
		return StageDoctorRecommend
	case StageDoctorRecommend:
		if containsAffirmative(text) {
			return StageDoctorRecommend
		}
		return StageEnd
	}
	return stage
}

func (p *TurnPolicy) intakeTurn(ctx context.Context, messageText string, user UserInfo) (*TurnResult, error) {
	result, err := p.analyze(ctx, analysis.Request{
		Symptoms: messageText,
		Age:      user.Age,
		Gender:   user.Gender,
		Height:   user.Height,
		Weight:   user.Weight,
		Location: user.Location,
	})
	if err != nil {
		return nil, err
	}

	conditions := strings.Join(result.TopDiseases(3), ", ")
	return &TurnResult{
		Reply:     fmt.Sprintf(replyFollowupFormat, conditions),
		Action:    ActionAskFollowup,
		NextStage: StageSymptomFollowup,
		Analysis:  result,
	}, nil
}

func (p *TurnPolicy) followupTurn(ctx context.Context, messageText string, user UserInfo, prior []analysis.ContextMessage) (*TurnResult, error) {
	result, err := p.analyze(ctx, analysis.Request{
		Symptoms: messageText,
		Age:      user.Age,
		Context:  prior,
	})
	if err != nil {
		return nil, err
	}

	return &TurnResult{
		Reply:     fmt.Sprintf(replySeverityFormat, result.SeverityOrDefault()),
		Action:    ActionOfferDoctor,
		NextStage: StageDoctorRecommend,
		Analysis:  result,
	}, nil
}

func (p *TurnPolicy) analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	if p.analyzer == nil {
		return nil, &analysis.UnavailableError{}
	}
	result, err := p.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &analysis.Result{}
	}
	return result, nil
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAffirmative(normalized string) bool {
	return functional.Any(affirmativeTokens, func(token string) bool {
		return strings.Contains(normalized, token)
	})
}
