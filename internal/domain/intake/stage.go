package intake

// Stage is the discrete phase of a conversation's guided flow.
type Stage string

const (
	StageProfileUpdate   Stage = "profile_update"
	StageSymptomIntake   Stage = "symptom_intake"
	StageSymptomFollowup Stage = "symptom_followup"
	StageDoctorRecommend Stage = "doctor_recommend"
	StageEnd             Stage = "end"
)

// DefaultStage is the stage a freshly created conversation starts in.
const DefaultStage = StageSymptomIntake

// Known reports whether s is one of the defined stages. Unknown stages are
// not an error anywhere in the flow; turns on them fall through to the
// default reply with the stage echoed back.
func (s Stage) Known() bool {
	switch s {
	case StageProfileUpdate, StageSymptomIntake, StageSymptomFollowup, StageDoctorRecommend, StageEnd:
		return true
	}
	return false
}

// Action tells the caller what to do with a turn result.
type Action string

const (
	ActionUpdateProfile Action = "update_profile"
	ActionAskFollowup   Action = "ask_followup"
	ActionOfferDoctor   Action = "offer_doctor"
	ActionFindDoctors   Action = "find_doctors"
	ActionNone          Action = "none"
)

// StagePolicy decides the stage a conversation should move to after a user
// message. Two divergent policies exist on purpose: TurnPolicy (which also
// produces the reply) and AdvancePolicy (keyword-gated, used at
// message-append time). Callers pick which one governs persisted state.
type StagePolicy interface {
	NextStage(stage Stage, message string) Stage
}
