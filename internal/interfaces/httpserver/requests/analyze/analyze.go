package analyzerequests

import "medifind-server/intake-api/internal/domain/analysis"

// AnalyzeRequest is the direct analyzer passthrough payload.
type AnalyzeRequest struct {
	Symptoms string   `json:"symptoms"`
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Location string   `json:"location,omitempty"`
}

// ToDomain converts the request into the analysis capability's input.
func (r AnalyzeRequest) ToDomain() analysis.Request {
	return analysis.Request{
		Symptoms: r.Symptoms,
		Age:      r.Age,
		Gender:   r.Gender,
		Height:   r.HeightCm,
		Weight:   r.WeightKg,
		Location: r.Location,
	}
}
