package intake

import "strings"

// AdvancePolicy is the keyword-gated stage progression. Unlike TurnPolicy it
// never advances on arbitrary input: each stage only moves forward when the
// message matches its gate, otherwise the conversation stays put.
//
// Gates are of two kinds. Exact gates require the whole lowercased message to
// equal one of the keywords; substring gates match anywhere in the text.
type AdvancePolicy struct{}

func NewAdvancePolicy() *AdvancePolicy {
	return &AdvancePolicy{}
}

var _ StagePolicy = (*AdvancePolicy)(nil)

var (
	profileDoneTokens    = []string{"yes", "ok", "done"}
	symptomDetailTokens  = []string{"how long", "since when", "burning", "fever", "cold", "pain"}
	followupAnswerTokens = []string{"yes", "no", "consult doctor", "doctor", "help"}
)

// NextStage returns the stage the conversation should move to after message.
// doctor_recommend is absorbing here; unknown stages pass through unchanged.
func (AdvancePolicy) NextStage(stage Stage, message string) Stage {
	text := strings.ToLower(message)

	switch stage {
	case StageProfileUpdate:
		if matchesExact(text, profileDoneTokens) {
			return StageSymptomIntake
		}
		return StageProfileUpdate

	case StageSymptomIntake:
		if matchesSubstring(text, symptomDetailTokens) {
			return StageSymptomFollowup
		}
		return StageSymptomIntake

	case StageSymptomFollowup:
		if matchesExact(text, followupAnswerTokens) {
			return StageDoctorRecommend
		}
		return StageSymptomFollowup

	case StageDoctorRecommend:
		return StageDoctorRecommend
	}

	return stage
}

func matchesExact(text string, tokens []string) bool {
	for _, token := range tokens {
		if text == token {
			return true
		}
	}
	return false
}

func matchesSubstring(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
