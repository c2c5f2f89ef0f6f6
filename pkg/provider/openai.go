package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/edi/docchat/pkg/chat"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI implements chat.Backend using the Chat Completions API.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenAI creates a new OpenAI backend
func NewOpenAI(cfg Config) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Name returns the provider name
func (o *OpenAI) Name() string {
	return "openai"
}

// Respond makes a Chat Completions call with the full conversational context
func (o *OpenAI) Respond(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)

	messages = append(messages, openai.SystemMessage(systemPrompt))

	for _, msg := range history {
		switch msg.Role {
		case chat.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case chat.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}

	messages = append(messages, openai.UserMessage(userMessage))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: messages,
	}

	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}
	if o.temperature > 0 {
		params.Temperature = openai.Float(o.temperature)
	}

	response, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrNoReply)
	}

	return response.Choices[0].Message.Content, nil
}
