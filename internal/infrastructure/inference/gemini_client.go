package inference

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"medifind-server/intake-api/internal/utils/httpclients"
)

// GeminiClient talks to the Gemini generateContent REST API.
type GeminiClient struct {
	client *resty.Client
	apiKey string
	name   string
}

func NewGeminiClient(name, baseURL, apiKey string) *GeminiClient {
	client := httpclients.NewClient(fmt.Sprintf("%sClient", name))
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	return &GeminiClient{
		client: client,
		apiKey: apiKey,
		name:   name,
	}
}

func (g *GeminiClient) Name() string {
	return g.name
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate runs one generateContent call against the given model and returns
// the concatenated text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	var result geminiGenerateResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(geminiGenerateRequest{
			Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", model))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", model, err)
	}

	if resp.IsError() {
		if result.Error != nil {
			return "", fmt.Errorf("gemini %s: %s (%s)", model, result.Error.Message, result.Error.Status)
		}
		return "", fmt.Errorf("gemini %s: unexpected status %s", model, resp.Status())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini %s: empty response", model)
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
