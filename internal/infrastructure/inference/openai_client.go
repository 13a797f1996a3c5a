package inference

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatClient talks to any chat-completions compatible endpoint.
type OpenAICompatClient struct {
	client *openai.Client
	name   string
}

func NewOpenAICompatClient(name, baseURL, apiKey string) *OpenAICompatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatClient{
		client: openai.NewClientWithConfig(cfg),
		name:   name,
	}
}

func (o *OpenAICompatClient) Name() string {
	return o.name
}

// Generate runs one chat completion against the given model.
func (o *OpenAICompatClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai-compatible %s: %w", model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai-compatible %s: empty response", model)
	}
	return resp.Choices[0].Message.Content, nil
}
