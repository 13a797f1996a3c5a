package inference

import (
	"context"
	"strings"
	"time"

	"medifind-server/intake-api/internal/config"
	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/infrastructure/logger"
	"medifind-server/intake-api/internal/infrastructure/metrics"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// defaultGeminiModels is the fallback chain tried in order when the config
// does not pin an explicit model list.
var defaultGeminiModels = []string{
	"gemini-1.5-flash-latest",
	"gemini-1.5-flash",
	"gemini-2.0-flash-exp",
	"gemini-1.5-pro-latest",
	"gemini-1.5-pro",
}

// modelCaller is one backing text-generation endpoint.
type modelCaller interface {
	Name() string
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type backend struct {
	caller modelCaller
	models []string
}

// SymptomAnalyzer implements analysis.Provider on top of one or more
// text-generation backends. Backends and their models are tried in order
// until one answers; only when every attempt fails does Analyze return
// analysis.UnavailableError.
type SymptomAnalyzer struct {
	backends []backend
	timeout  time.Duration
}

var _ analysis.Provider = (*SymptomAnalyzer)(nil)

// NewSymptomAnalyzer builds the analyzer from configuration. Bootstrap
// entries take precedence; without them a single Gemini backend is
// constructed from GEMINI_API_KEY.
func NewSymptomAnalyzer(cfg *config.Config) *SymptomAnalyzer {
	a := &SymptomAnalyzer{timeout: cfg.AnalyzerTimeout}
	log := logger.GetLogger()

	for _, entry := range cfg.AnalyzerBootstrapEntries() {
		if !entry.Active {
			continue
		}
		models := entry.Models
		var caller modelCaller
		switch strings.ToLower(entry.Vendor) {
		case "gemini":
			caller = NewGeminiClient(entry.Name, entry.BaseURL, entry.APIKey)
			if len(models) == 0 {
				models = defaultGeminiModels
			}
		case "openai", "openai-compatible":
			caller = NewOpenAICompatClient(entry.Name, entry.BaseURL, entry.APIKey)
		default:
			log.Warn().
				Str("vendor", entry.Vendor).
				Str("name", entry.Name).
				Msg("skipping analyzer entry with unknown vendor")
			continue
		}
		if len(models) == 0 {
			log.Warn().
				Str("name", entry.Name).
				Msg("skipping analyzer entry with no models")
			continue
		}
		a.backends = append(a.backends, backend{caller: caller, models: models})
	}

	if len(a.backends) == 0 && cfg.GeminiAPIKey != "" {
		a.backends = append(a.backends, backend{
			caller: NewGeminiClient("Gemini", cfg.GeminiBaseURL, cfg.GeminiAPIKey),
			models: defaultGeminiModels,
		})
	}

	return a
}

// Analyze implements analysis.Provider.
func (a *SymptomAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	if strings.TrimSpace(req.Symptoms) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"symptoms text is required", nil, "0a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b4c5")
	}

	bmi := ComputeBMI(req.Height, req.Weight)
	prompt := BuildPrompt(req, bmi, time.Now())

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	log := logger.GetLogger()
	var lastErr error
	for _, be := range a.backends {
		for _, model := range be.models {
			started := time.Now()
			raw, err := be.caller.Generate(ctx, model, prompt)
			metrics.AnalyzerDuration.WithLabelValues(be.caller.Name(), model).Observe(time.Since(started).Seconds())
			if err != nil {
				metrics.AnalyzerAttempts.WithLabelValues(be.caller.Name(), model, "error").Inc()
				log.Warn().
					Err(err).
					Str("backend", be.caller.Name()).
					Str("model", model).
					Msg("analyzer model attempt failed")
				lastErr = err
				if ctx.Err() != nil {
					return nil, &analysis.UnavailableError{Last: lastErr}
				}
				continue
			}

			metrics.AnalyzerAttempts.WithLabelValues(be.caller.Name(), model, "success").Inc()
			result := analysis.ParseModelOutput(raw, bmi)
			if result.Degraded() {
				metrics.AnalyzerDegradedResults.Inc()
				log.Info().
					Str("backend", be.caller.Name()).
					Str("model", model).
					Msg("analyzer returned unparseable output, serving raw text")
			}
			return result, nil
		}
	}

	return nil, &analysis.UnavailableError{Last: lastErr}
}
