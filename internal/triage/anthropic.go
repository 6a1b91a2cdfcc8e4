package triage

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient narrates oracle hits via the Claude Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient builds a triage client against model (e.g.
// anthropic.ModelClaude3_5HaikuLatest). An empty endpoint uses the
// library's default base URL.
func NewAnthropicClient(apiKey, model, endpoint string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3_5HaikuLatest
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{client: &client, model: m}
}

func (c *AnthropicClient) Narrate(ctx context.Context, oracleKind, testcase string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(oracleKind, testcase))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("triage: anthropic completion failed: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("triage: anthropic returned no text block")
}
