package analysis

import (
	"context"
	"fmt"
)

// SeverityUnknown is the rendered severity when the analyzer omitted one.
const SeverityUnknown = "unknown"

// ContextMessage is a prior conversation utterance handed to the analyzer.
type ContextMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request carries the symptom text plus whatever demographics the caller has.
// All fields except Symptoms are optional.
type Request struct {
	Symptoms string
	Age      *int
	Gender   string
	Height   *float64 // centimeters
	Weight   *float64 // kilograms
	Location string
	Context  []ContextMessage
}

// Result is the structured assessment returned by the analysis capability.
// The backing model is not trusted to fill every field; absent fields keep
// their zero value and readers go through the accessor methods.
type Result struct {
	PossibleDiseases     []string `json:"possible_diseases,omitempty"`
	Severity             string   `json:"severity,omitempty"`
	DoctorRecommendation string   `json:"doctor_recommendation,omitempty"`
	Advice               string   `json:"advice,omitempty"`
	BMI                  *float64 `json:"bmi,omitempty"`

	// Raw holds the verbatim model output when it could not be parsed into
	// the fields above. A degraded result, not an error.
	Raw string `json:"message,omitempty"`
}

// TopDiseases returns the first n possible diseases in analyzer order.
func (r *Result) TopDiseases(n int) []string {
	if r == nil || n <= 0 || len(r.PossibleDiseases) == 0 {
		return nil
	}
	if len(r.PossibleDiseases) < n {
		n = len(r.PossibleDiseases)
	}
	return r.PossibleDiseases[:n]
}

// SeverityOrDefault returns the reported severity, or SeverityUnknown when
// the analyzer left it out.
func (r *Result) SeverityOrDefault() string {
	if r == nil || r.Severity == "" {
		return SeverityUnknown
	}
	return r.Severity
}

// Degraded reports whether this result is a raw-text fallback.
func (r *Result) Degraded() bool {
	return r != nil && r.Raw != "" && len(r.PossibleDiseases) == 0 && r.Severity == ""
}

// Provider is the symptom-analysis capability. Implementations may block on
// network calls; callers bound them with the context.
type Provider interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// UnavailableError signals that every backing model attempt failed. The turn
// that triggered the analysis produces no reply and must not advance stage;
// the caller may retry.
type UnavailableError struct {
	Last error
}

func (e *UnavailableError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("analysis unavailable: %v", e.Last)
	}
	return "analysis unavailable"
}

func (e *UnavailableError) Unwrap() error {
	return e.Last
}
