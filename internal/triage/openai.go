package triage

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient narrates oracle hits via an OpenAI-compatible chat
// completion endpoint, grounded on the teacher's DeepSeekClient request
// shape (system + user message, single completion, no streaming).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a triage client against model (e.g. "gpt-4o-mini").
// An empty endpoint uses the library's default OpenAI base URL.
func NewOpenAIClient(apiKey, model, endpoint string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) Narrate(ctx context.Context, oracleKind, testcase string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(oracleKind, testcase)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("triage: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("triage: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
