package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvancePolicy_NextStage(t *testing.T) {
	tests := []struct {
		name    string
		stage   Stage
		message string
		want    Stage
	}{
		{"profile done on yes", StageProfileUpdate, "yes", StageSymptomIntake},
		{"profile done on done", StageProfileUpdate, "done", StageSymptomIntake},
		{"profile done case-insensitive", StageProfileUpdate, "OK", StageSymptomIntake},
		// The gate is exact-match: "yes please" does not pass it.
		{"profile stays on partial match", StageProfileUpdate, "yes please", StageProfileUpdate},
		{"profile stays on other text", StageProfileUpdate, "my height is 170", StageProfileUpdate},

		{"intake advances on fever", StageSymptomIntake, "I have fever", StageSymptomFollowup},
		{"intake advances on how long", StageSymptomIntake, "how long will this last", StageSymptomFollowup},
		{"intake advances on pain", StageSymptomIntake, "sharp Pain in my chest", StageSymptomFollowup},
		{"intake stays without keyword", StageSymptomIntake, "I feel unwell", StageSymptomIntake},

		{"followup advances on yes", StageSymptomFollowup, "yes", StageDoctorRecommend},
		{"followup advances on doctor", StageSymptomFollowup, "doctor", StageDoctorRecommend},
		{"followup advances on consult doctor", StageSymptomFollowup, "consult doctor", StageDoctorRecommend},
		{"followup stays on sentence", StageSymptomFollowup, "I want to see a doctor soon", StageSymptomFollowup},

		{"doctor_recommend is absorbing", StageDoctorRecommend, "no", StageDoctorRecommend},
		{"doctor_recommend ignores text", StageDoctorRecommend, "anything at all", StageDoctorRecommend},

		{"end passes through", StageEnd, "hello", StageEnd},
		{"unknown passes through", Stage("archived"), "yes", Stage("archived")},
	}

	policy := NewAdvancePolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.NextStage(tt.stage, tt.message))
		})
	}
}

// The two policies deliberately disagree on free-text symptom messages: the
// turn side moves intake forward on any message, the advance side waits for a
// detail keyword.
func TestPoliciesDivergeOnFreeText(t *testing.T) {
	turn := NewTurnPolicy(&stubAnalyzer{})
	advance := NewAdvancePolicy()

	msg := "I feel unwell"
	assert.Equal(t, StageSymptomFollowup, turn.NextStage(StageSymptomIntake, msg))
	assert.Equal(t, StageSymptomIntake, advance.NextStage(StageSymptomIntake, msg))
}
