package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"medifind-server/intake-api/internal/infrastructure/logger"
)

const DefaultAnalyzerConfigFile = "config/analyzers.yml"

// AnalyzerBootstrapEntry describes an analyzer backend that should be
// bootstrapped on startup.
type AnalyzerBootstrapEntry struct {
	Name    string
	Vendor  string // "gemini" or "openai-compatible"
	BaseURL string
	APIKey  string
	Models  []string // tried in order until one answers
	Active  bool
}

// AnalyzerBootstrapConfig maintains all configured analyzer sets.
type AnalyzerBootstrapConfig struct {
	sets map[string][]AnalyzerBootstrapEntry
}

// ProvidersForSet returns a copy of the analyzers defined for the requested set.
func (c *AnalyzerBootstrapConfig) ProvidersForSet(name string) []AnalyzerBootstrapEntry {
	if c == nil {
		return nil
	}
	set := strings.TrimSpace(name)
	if set == "" {
		set = "default"
	}
	list := c.sets[set]
	if len(list) == 0 {
		return nil
	}
	result := make([]AnalyzerBootstrapEntry, len(list))
	copy(result, list)
	return result
}

// LoadAnalyzerBootstrapConfig parses the yaml file at the provided path.
func LoadAnalyzerBootstrapConfig(path string) (*AnalyzerBootstrapConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("analyzer config path is empty")
	}

	log := logger.GetLogger()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read analyzer config %q: %w", cleanPath, err)
	}
	log.Info().Str("path", cleanPath).Msg("loading analyzer config file")

	var doc analyzerConfigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse analyzer config %q: %w", cleanPath, err)
	}

	if len(doc.Analyzers) == 0 {
		return nil, fmt.Errorf("analyzer config %q has no analyzers defined", cleanPath)
	}

	result := &AnalyzerBootstrapConfig{
		sets: make(map[string][]AnalyzerBootstrapEntry),
	}

	for rawSet, entries := range doc.Analyzers {
		setName := strings.TrimSpace(rawSet)
		if setName == "" || len(entries) == 0 {
			continue
		}
		for idx, entry := range entries {
			entryLogger := log.With().Str("set", setName).Int("index", idx).Str("name", entry.Name).Logger()
			enabled, err := parseEnabled(entry.EnableRaw)
			if err != nil {
				return nil, fmt.Errorf("analyzers.%s[%d]: %w", setName, idx, err)
			}
			if !enabled {
				entryLogger.Info().Msg("skipping analyzer (enable=false)")
				continue
			}
			normalized, err := normalizeAnalyzerEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("analyzers.%s[%d]: %w", setName, idx, err)
			}
			entryLogger.Info().
				Str("vendor", normalized.Vendor).
				Str("base_url", normalized.BaseURL).
				Strs("models", normalized.Models).
				Msg("including analyzer for bootstrap")
			result.sets[setName] = append(result.sets[setName], normalized)
		}
	}

	if len(result.sets) == 0 {
		return nil, fmt.Errorf("analyzer config %q has no valid analyzer entries", cleanPath)
	}

	return result, nil
}

type analyzerConfigDocument struct {
	Analyzers map[string][]analyzerConfigEntry `yaml:"analyzers"`
}

type analyzerConfigEntry struct {
	EnableRaw string   `yaml:"enable"`
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Vendor    string   `yaml:"vendor"`
	URL       string   `yaml:"url"`
	BaseURL   string   `yaml:"base_url"`
	APIKey    string   `yaml:"api_key"`
	Key       string   `yaml:"key"`
	Models    []string `yaml:"models"`
	Active    *bool    `yaml:"active"`
}

func normalizeAnalyzerEntry(entry analyzerConfigEntry) (AnalyzerBootstrapEntry, error) {
	vendor := strings.TrimSpace(firstNonEmpty(entry.Type, entry.Vendor))
	if vendor == "" {
		return AnalyzerBootstrapEntry{}, errors.New("analyzer type is required")
	}

	baseURL := strings.TrimSpace(expandWithDefault(firstNonEmpty(entry.URL, entry.BaseURL)))
	if baseURL == "" {
		return AnalyzerBootstrapEntry{}, errors.New("analyzer url is required")
	}

	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = fmt.Sprintf("%s Analyzer", strings.ToUpper(vendor))
	}
	name = expandWithDefault(name)

	apiKey := strings.TrimSpace(firstNonEmpty(entry.APIKey, entry.Key))
	if apiKey != "" {
		apiKey = expandWithDefault(apiKey)
	}

	models := make([]string, 0, len(entry.Models))
	for _, model := range entry.Models {
		model = strings.TrimSpace(expandWithDefault(model))
		if model != "" {
			models = append(models, model)
		}
	}

	active := true
	if entry.Active != nil {
		active = *entry.Active
	}

	return AnalyzerBootstrapEntry{
		Name:    name,
		Vendor:  vendor,
		BaseURL: baseURL,
		APIKey:  apiKey,
		Models:  models,
		Active:  active,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseEnabled(raw string) (bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return true, nil
	}

	resolved := strings.TrimSpace(expandWithDefault(value))
	if resolved == "" {
		return true, nil
	}

	parsed, err := strconv.ParseBool(resolved)
	if err != nil {
		return false, fmt.Errorf("enable: %w", err)
	}
	return parsed, nil
}

// expandWithDefault expands ${VAR} and ${VAR:-default} syntax using os envs.
func expandWithDefault(raw string) string {
	if !strings.Contains(raw, "${") {
		return os.ExpandEnv(raw)
	}
	start := strings.Index(raw, "${")
	end := strings.Index(raw[start:], "}")
	if start == -1 || end == -1 {
		return os.ExpandEnv(raw)
	}
	end = start + end
	expr := raw[start+2 : end]
	defaultVal := ""
	varName := expr
	if strings.Contains(expr, ":-") {
		parts := strings.SplitN(expr, ":-", 2)
		varName = parts[0]
		defaultVal = parts[1]
	}
	val := os.Getenv(varName)
	if val == "" {
		val = defaultVal
	}
	resolved := raw[:start] + val + raw[end+1:]
	return os.ExpandEnv(resolved)
}
