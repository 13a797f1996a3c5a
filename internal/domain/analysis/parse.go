package analysis

import (
	"encoding/json"
	"strings"
)

// ParseModelOutput turns raw model text into a Result. Models frequently wrap
// the JSON in markdown code fences despite instructions not to, so fences are
// stripped first. Output that still fails to parse becomes a degraded Result
// carrying the raw text; the caller shows the user something rather than an
// opaque error.
func ParseModelOutput(raw string, bmi *float64) *Result {
	text := StripCodeFences(raw)

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil || looksEmpty(&result) {
		return &Result{Raw: strings.TrimSpace(raw), BMI: bmi}
	}

	if result.BMI == nil {
		result.BMI = bmi
	}
	return &result
}

// StripCodeFences removes a surrounding markdown code fence, including an
// optional "json" language tag.
func StripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.Trim(text, "`")
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "json"); ok {
		text = strings.TrimSpace(rest)
	}
	return text
}

// looksEmpty guards against a technically-valid JSON document that carries
// none of the fields we care about (e.g. the model answered with "{}" or a
// bare quoted string).
func looksEmpty(r *Result) bool {
	return len(r.PossibleDiseases) == 0 && r.Severity == "" && r.DoctorRecommendation == "" && r.Advice == "" && r.Raw == ""
}
