package inference

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"medifind-server/intake-api/internal/domain/analysis"
)

const notProvided = "Not provided"

// ComputeBMI returns weight(kg) / height(m)^2 rounded to one decimal place,
// or nil when either measurement is missing or implausible.
func ComputeBMI(height, weight *float64) *float64 {
	if height == nil || weight == nil || *height <= 0 || *weight <= 0 {
		return nil
	}

	meters := decimal.NewFromFloat(*height).Div(decimal.NewFromInt(100))
	bmi, _ := decimal.NewFromFloat(*weight).
		Div(meters.Mul(meters)).
		Round(1).
		Float64()
	return &bmi
}

// BuildPrompt renders the analyzer instruction for one request. The JSON
// shape in the instruction must match analysis.Result's field names.
func BuildPrompt(req analysis.Request, bmi *float64, now time.Time) string {
	var b strings.Builder

	b.WriteString("Hello! I am your AI health assistant. I am here to assist you.\n")
	b.WriteString("Here is the information provided:\n")
	fmt.Fprintf(&b, "- Age: %s\n", orNotProvided(intString(req.Age)))
	fmt.Fprintf(&b, "- Gender: %s\n", orNotProvided(req.Gender))
	fmt.Fprintf(&b, "- Height: %s\n", orNotProvided(floatString(req.Height)))
	fmt.Fprintf(&b, "- Weight: %s\n", orNotProvided(floatString(req.Weight)))
	if bmi != nil {
		fmt.Fprintf(&b, "- BMI: %s\n", bmiString(bmi))
	} else {
		b.WriteString("- BMI: Not calculated\n")
	}
	fmt.Fprintf(&b, "- Location: %s\n", orNotProvided(req.Location))
	fmt.Fprintf(&b, "- Date: %s (month: %d)\n", now.Format("2006-01-02"), int(now.Month()))

	if len(req.Context) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, msg := range req.Context {
			fmt.Fprintf(&b, "- %s: %s\n", msg.Role, msg.Text)
		}
	}

	fmt.Fprintf(&b, "\nPlease analyze the following symptoms: %s\n", req.Symptoms)

	b.WriteString("\nRespond ONLY with valid JSON, no markdown or code fences.\n")
	b.WriteString("Format strictly like this:\n")
	b.WriteString("{\n")
	b.WriteString("    \"possible_diseases\": [\"Disease 1\", \"Disease 2\"],\n")
	b.WriteString("    \"severity\": \"mild / moderate / severe\",\n")
	b.WriteString("    \"doctor_recommendation\": \"General doctor or Specialist\",\n")
	b.WriteString("    \"advice\": \"Advice text\",\n")
	fmt.Fprintf(&b, "    \"bmi\": %s\n", bmiString(bmi))
	b.WriteString("}\n")

	return b.String()
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return notProvided
	}
	return value
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func floatString(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}

func bmiString(bmi *float64) string {
	if bmi == nil {
		return "null"
	}
	return decimal.NewFromFloat(*bmi).String()
}
