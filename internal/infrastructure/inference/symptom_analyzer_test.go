package inference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medifind-server/intake-api/internal/config"
	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

type stubCaller struct {
	name     string
	failures int // fail this many calls before succeeding
	output   string
	calls    []string // "model" per attempt
}

func (s *stubCaller) Name() string { return s.name }

func (s *stubCaller) Generate(_ context.Context, model, _ string) (string, error) {
	s.calls = append(s.calls, model)
	if len(s.calls) <= s.failures {
		return "", errors.New("model overloaded")
	}
	return s.output, nil
}

func TestComputeBMI(t *testing.T) {
	height := 170.0
	weight := 65.0

	bmi := ComputeBMI(&height, &weight)

	require.NotNil(t, bmi)
	assert.InDelta(t, 22.5, *bmi, 0.001)

	assert.Nil(t, ComputeBMI(nil, &weight))
	assert.Nil(t, ComputeBMI(&height, nil))

	zero := 0.0
	assert.Nil(t, ComputeBMI(&zero, &weight))
}

func TestBuildPrompt(t *testing.T) {
	age := 30
	height := 170.0
	weight := 65.0
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	prompt := BuildPrompt(analysis.Request{
		Symptoms: "headache and nausea",
		Age:      &age,
		Gender:   "female",
		Height:   &height,
		Weight:   &weight,
		Location: "Bangalore",
		Context: []analysis.ContextMessage{
			{Role: "user", Text: "I have a headache"},
		},
	}, ComputeBMI(&height, &weight), now)

	assert.Contains(t, prompt, "- Age: 30")
	assert.Contains(t, prompt, "- Gender: female")
	assert.Contains(t, prompt, "- BMI: 22.5")
	assert.Contains(t, prompt, "- Location: Bangalore")
	assert.Contains(t, prompt, "- Date: 2026-03-14 (month: 3)")
	assert.Contains(t, prompt, "user: I have a headache")
	assert.Contains(t, prompt, "analyze the following symptoms: headache and nausea")
	assert.Contains(t, prompt, `"possible_diseases"`)
	assert.Contains(t, prompt, "no markdown or code fences")
}

func TestBuildPrompt_MissingFields(t *testing.T) {
	prompt := BuildPrompt(analysis.Request{Symptoms: "cough"}, nil, time.Now())

	assert.Contains(t, prompt, "- Age: Not provided")
	assert.Contains(t, prompt, "- BMI: Not calculated")
	assert.NotContains(t, prompt, "Conversation so far")
}

func TestAnalyze_FallsBackAcrossModels(t *testing.T) {
	caller := &stubCaller{
		name:     "Gemini",
		failures: 2,
		output:   `{"possible_diseases": ["Flu"], "severity": "mild"}`,
	}
	a := &SymptomAnalyzer{backends: []backend{{
		caller: caller,
		models: []string{"model-a", "model-b", "model-c"},
	}}}

	result, err := a.Analyze(context.Background(), analysis.Request{Symptoms: "fever"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Flu"}, result.PossibleDiseases)
	assert.Equal(t, []string{"model-a", "model-b", "model-c"}, caller.calls)
}

func TestAnalyze_AllModelsFail(t *testing.T) {
	caller := &stubCaller{name: "Gemini", failures: 10}
	a := &SymptomAnalyzer{backends: []backend{{
		caller: caller,
		models: []string{"model-a", "model-b"},
	}}}

	result, err := a.Analyze(context.Background(), analysis.Request{Symptoms: "fever"})

	assert.Nil(t, result)
	var unavailable *analysis.UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorContains(t, unavailable.Last, "model overloaded")
	assert.Len(t, caller.calls, 2)
}

func TestAnalyze_NoBackendsIsUnavailable(t *testing.T) {
	a := &SymptomAnalyzer{}

	_, err := a.Analyze(context.Background(), analysis.Request{Symptoms: "fever"})

	var unavailable *analysis.UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestAnalyze_RequiresSymptoms(t *testing.T) {
	a := &SymptomAnalyzer{backends: []backend{{caller: &stubCaller{name: "Gemini"}, models: []string{"m"}}}}

	_, err := a.Analyze(context.Background(), analysis.Request{Symptoms: "   "})

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestNewSymptomAnalyzer_SkipsUnusableEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzers.yml")
	doc := `analyzers:
  default:
    - name: Mystery
      type: anthropic
      url: https://mystery.example.com
    - name: Chatty
      type: openai-compatible
      url: https://chatty.example.com
    - name: Gemini Primary
      type: gemini
      url: https://gemini.example.com
      api_key: test-key
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	bootstrap, err := config.LoadAnalyzerBootstrapConfig(path)
	require.NoError(t, err)

	a := NewSymptomAnalyzer(&config.Config{
		AnalyzerBootstrap: bootstrap,
		AnalyzerTimeout:   time.Second,
	})

	// Unknown vendors and model-less entries are skipped with a warning;
	// the gemini entry falls back to the default model chain.
	require.Len(t, a.backends, 1)
	assert.Equal(t, "Gemini Primary", a.backends[0].caller.Name())
	assert.Equal(t, defaultGeminiModels, a.backends[0].models)
}

func TestAnalyze_UnparseableOutputIsDegraded(t *testing.T) {
	height := 170.0
	weight := 65.0
	caller := &stubCaller{name: "Gemini", output: "You probably have a cold."}
	a := &SymptomAnalyzer{backends: []backend{{caller: caller, models: []string{"m"}}}}

	result, err := a.Analyze(context.Background(), analysis.Request{
		Symptoms: "sneezing",
		Height:   &height,
		Weight:   &weight,
	})

	require.NoError(t, err)
	assert.True(t, result.Degraded())
	assert.Equal(t, "You probably have a cold.", result.Raw)
	require.NotNil(t, result.BMI)
	assert.InDelta(t, 22.5, *result.BMI, 0.001)
}
