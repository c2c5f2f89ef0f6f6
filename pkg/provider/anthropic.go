package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/edi/docchat/pkg/chat"
)

const (
	defaultAnthropicModel     = "claude-3-5-sonnet-20241022"
	defaultAnthropicMaxTokens = 4096
)

// Anthropic implements chat.Backend using the Anthropic Messages API.
type Anthropic struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewAnthropic creates a new Anthropic backend
func NewAnthropic(cfg Config) *Anthropic {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &Anthropic{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

// Name returns the provider name
func (a *Anthropic) Name() string {
	return "anthropic"
}

// Respond makes a Messages API call with the full conversational context
func (a *Anthropic) Respond(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(history)+1)

	for _, msg := range history {
		switch msg.Role {
		case chat.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(msg.Content),
			))
		case chat.RoleAssistant:
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(msg.Content),
				},
			})
		}
	}

	messages = append(messages, anthropic.NewUserMessage(
		anthropic.NewTextBlock(userMessage),
	))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		Messages:  messages,
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
	}

	if a.temperature > 0 {
		params.Temperature = anthropic.Float(a.temperature)
	}

	response, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	content := ""
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += b.Text
		}
	}

	if content == "" {
		return "", fmt.Errorf("%w: no text blocks", ErrNoReply)
	}

	return content, nil
}
